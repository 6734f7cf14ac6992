package txpolicy

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Rule forces rollback for the failures it matches, whatever their classification.
type Rule struct {
	desc  string
	match func(error) bool
}

func (r Rule) String() string { return r.desc }

// RollbackOn matches failures that are (or wrap) one of targets.
func RollbackOn(targets ...error) Rule {
	ts := make([]error, 0, len(targets))
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		if t == nil {
			continue
		}
		ts = append(ts, t)
		names = append(names, t.Error())
	}
	return Rule{
		desc: "is(" + strings.Join(names, ",") + ")",
		match: func(err error) bool {
			for _, t := range ts {
				if errors.Is(err, t) {
					return true
				}
			}
			return false
		},
	}
}

// RollbackOnType matches failures whose wrap chain contains a T.
func RollbackOnType[T error]() Rule {
	return Rule{
		desc: "type(" + reflect.TypeOf((*T)(nil)).Elem().String() + ")",
		match: func(err error) bool {
			var target T
			return errors.As(err, &target)
		},
	}
}

// RollbackOnCode matches failures implementing Coded with one of codes.
func RollbackOnCode(codes ...string) Rule {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return Rule{
		desc: "code(" + strings.Join(codes, ",") + ")",
		match: func(err error) bool {
			var c Coded
			if !errors.As(err, &c) {
				return false
			}
			_, ok := set[c.FailureCode()]
			return ok
		},
	}
}

// Policy is the forced-rollback set of one boundary. It is immutable: With
// returns a new Policy and never changes the receiver.
// The zero Policy is the empty set.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) Policy {
	return Policy{rules: append([]Rule(nil), rules...)}
}

func (p Policy) With(rules ...Rule) Policy {
	out := make([]Rule, 0, len(p.rules)+len(rules))
	out = append(out, p.rules...)
	out = append(out, rules...)
	return Policy{rules: out}
}

// ForcesRollback reports whether err is in the forced-rollback set.
func (p Policy) ForcesRollback(err error) bool {
	if err == nil {
		return false
	}
	for _, r := range p.rules {
		if r.match(err) {
			return true
		}
	}
	return false
}

// Decide applies the decision rule to the termination of a unit of work.
//
// A Recoverable failure outside the forced-rollback set yields Committed even
// though the failure is still returned to the caller.
func (p Policy) Decide(err error) Decision {
	switch {
	case err == nil:
		return Committed
	case p.ForcesRollback(err):
		return RolledBack
	case Classify(err) == Unrecoverable:
		return RolledBack
	default:
		return Committed
	}
}

func (p Policy) Len() int { return len(p.rules) }

func (p Policy) String() string {
	if len(p.rules) == 0 {
		return "policy{}"
	}
	parts := make([]string, len(p.rules))
	for i, r := range p.rules {
		parts[i] = r.desc
	}
	return fmt.Sprintf("policy{rollback_for: %s}", strings.Join(parts, " "))
}
