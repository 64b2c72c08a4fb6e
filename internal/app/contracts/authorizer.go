package contracts

import "context"

type Authorizer interface {
	// Authorize reports whether subject may call method on the route-relative path
	Authorize(ctx context.Context, subject, method, path string) (bool, error)
}
