package txpolicy

// Failure is a classified, coded failure suitable for package-level sentinels:
//
//	var ErrNotEnoughMoney = txpolicy.NewRecoverable("not_enough_money", "not enough money")
type Failure struct {
	Code    string
	Message string
	Class   Classification
}

var (
	_ Classified = (*Failure)(nil)
	_ Coded      = (*Failure)(nil)
)

func NewRecoverable(code, msg string) *Failure {
	return &Failure{Code: code, Message: msg, Class: Recoverable}
}

func NewUnrecoverable(code, msg string) *Failure {
	return &Failure{Code: code, Message: msg, Class: Unrecoverable}
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return f.Code
	}
	return f.Message
}

func (f *Failure) Classification() Classification { return f.Class }
func (f *Failure) FailureCode() string            { return f.Code }
