package txpolicy

import "errors"

// Classification is the default outcome class of a failure type.
// The zero value is Unrecoverable, so failures that declare nothing roll back.
type Classification int

const (
	Unrecoverable Classification = iota
	Recoverable
)

func (c Classification) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	default:
		return "unrecoverable"
	}
}

// Classified is implemented by failure types that declare their classification.
// The classification belongs to the type, not to the call site that returns it.
type Classified interface {
	error
	Classification() Classification
}

// Coded is implemented by failure types that carry a stable code usable in
// configured policies.
type Coded interface {
	error
	FailureCode() string
}

// Classify returns the classification of err, walking its wrap chain.
func Classify(err error) Classification {
	var c Classified
	if errors.As(err, &c) {
		return c.Classification()
	}
	return Unrecoverable
}
