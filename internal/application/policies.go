package application

import "txboundary/internal/txpolicy"

// PolicyOverrides lists extra forced-rollback failure codes per boundary name.
// Overrides only add rules; they can never make a boundary commit where its
// built-in policy rolls back.
type PolicyOverrides map[string][]string

func (o PolicyOverrides) apply(name string, base txpolicy.Policy) txpolicy.Policy {
	codes := o[name]
	if len(codes) == 0 {
		return base
	}
	return base.With(txpolicy.RollbackOnCode(codes...))
}
