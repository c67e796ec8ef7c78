package resolve

import (
	"context"
	"fmt"
	"regexp"

	"github.com/simeonreusch/planobs/core/plan"
)

// ResolutionError signals that a position/time lookup failed or returned
// nothing. The Reason strings double as summary sentinels which callers
// pattern-match on, so they must stay stable.
type ResolutionError struct {
	Reason string
}

func (e *ResolutionError) Error() string { return e.Reason }

// Sentinel resolution failures.
var (
	ErrNoGCN       = &ResolutionError{Reason: "No GCN notice/circular found."}
	ErrFutureAlert = &ResolutionError{Reason: "Alert is from the future."}
)

// Resolver turns an object name into a resolved target. Implementations
// perform blocking I/O and do not retry; transient failures propagate to
// the caller.
type Resolver interface {
	Resolve(ctx context.Context, name string) (plan.Target, error)
}

// Func adapts a function to the Resolver interface.
type Func func(ctx context.Context, name string) (plan.Target, error)

func (f Func) Resolve(ctx context.Context, name string) (plan.Target, error) {
	return f(ctx, name)
}

// Static resolves names from a fixed table, for tests and offline use.
type Static map[string]plan.Target

func (s Static) Resolve(_ context.Context, name string) (plan.Target, error) {
	t, ok := s[name]
	if !ok {
		return plan.Target{}, ErrNoGCN
	}
	return t, nil
}

var (
	ztfNameRe     = regexp.MustCompile(`^ZTF[1-2]\d[a-z]{7}$`)
	icecubeNameRe = regexp.MustCompile(`^IC((\d{2}((0[13578]|1[02])(0[1-9]|[12]\d|3[01])|(0[13456789]|1[012])(0[1-9]|[12]\d|30)|02(0[1-9]|1\d|2[0-8])))|([02468][048]|[13579][26])0229)[a-zA-Z]$`)
)

// IsZTFName reports whether a string adheres to the ZTF naming scheme,
// e.g. ZTF19accdntg.
func IsZTFName(name string) bool {
	return ztfNameRe.MatchString(name)
}

// IsIceCubeName reports whether a string adheres to the IceCube naming
// scheme, e.g. IC201021B. The embedded date must be a valid calendar day.
func IsIceCubeName(name string) bool {
	return icecubeNameRe.MatchString(name)
}

// CheckName validates the name for the given alert source before any
// lookup is attempted.
func CheckName(name, alertSource string) error {
	switch alertSource {
	case "icecube":
		if !IsIceCubeName(name) {
			return fmt.Errorf("%q is not a valid IceCube event name", name)
		}
	case "ztf":
		if !IsZTFName(name) {
			return fmt.Errorf("%q is not a valid ZTF object name", name)
		}
	}
	return nil
}
