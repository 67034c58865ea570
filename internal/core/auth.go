package core

import (
	"context"

	"dischargecore/pkg/domain"
)

// Authorizer is the injected capability that verifies caller identity
// before any operation mutates state. Hosts supply a real implementation;
// tests use AllowAllAuthorizer or a static set.
type Authorizer interface {
	Authorize(ctx context.Context, caller domain.Caller) error
}

// AllowAllAuthorizer accepts every caller. Test and embedded-host use only.
type AllowAllAuthorizer struct{}

// Authorize always succeeds.
func (AllowAllAuthorizer) Authorize(context.Context, domain.Caller) error { return nil }

// StaticAuthorizer accepts a fixed set of callers.
type StaticAuthorizer struct {
	allowed map[domain.Caller]struct{}
}

// NewStaticAuthorizer constructs an authorizer accepting exactly the given
// callers.
func NewStaticAuthorizer(callers ...domain.Caller) *StaticAuthorizer {
	allowed := make(map[domain.Caller]struct{}, len(callers))
	for _, c := range callers {
		allowed[c] = struct{}{}
	}
	return &StaticAuthorizer{allowed: allowed}
}

// Authorize rejects callers outside the configured set.
func (a *StaticAuthorizer) Authorize(_ context.Context, caller domain.Caller) error {
	if _, ok := a.allowed[caller]; !ok {
		return domain.NewError(domain.KindUnauthorized, "caller %q is not authorized", caller)
	}
	return nil
}

var (
	_ Authorizer = AllowAllAuthorizer{}
	_ Authorizer = (*StaticAuthorizer)(nil)
)
