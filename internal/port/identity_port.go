package port

import "context"

type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}
