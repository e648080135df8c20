package runner

import (
	"context"
	"fmt"
)

// Interceptor is a middleware that can block an action before it executes.
// It returns true to proceed, or false with a reason to deny. An error is a
// system failure, distinct from a policy denial.
type Interceptor func(ctx context.Context, action Action) (bool, string, error)

// Chain runs interceptors in order. The first denial or error wins.
func Chain(interceptors ...Interceptor) Interceptor {
	return func(ctx context.Context, action Action) (bool, string, error) {
		for _, interceptor := range interceptors {
			allowed, reason, err := interceptor(ctx, action)
			if err != nil {
				return false, "", err
			}
			if !allowed {
				return false, reason, nil
			}
		}
		return true, "", nil
	}
}

// AllowOps permits only the listed ops. Embedders that render but never let
// the host inject scripts run with AllowOps(OpTap, OpSet, OpSnapshot).
func AllowOps(ops ...string) Interceptor {
	allowed := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		allowed[op] = struct{}{}
	}
	return func(ctx context.Context, action Action) (bool, string, error) {
		if _, ok := allowed[action.Op]; !ok {
			return false, fmt.Sprintf("op %q not permitted", action.Op), nil
		}
		return true, "", nil
	}
}

// AutoApprove allows everything.
func AutoApprove() Interceptor {
	return func(ctx context.Context, action Action) (bool, string, error) {
		return true, "", nil
	}
}
