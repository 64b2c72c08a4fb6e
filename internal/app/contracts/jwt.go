package contracts

import "context"

type JWTManager interface {
	CreateToken(ctx context.Context, subject string) (string, error)
	// VerifyToken returns the token subject.
	VerifyToken(ctx context.Context, token string) (string, error)
}
