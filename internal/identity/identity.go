package identity

import "context"

// Resolver exchanges a carrier one-tap login token for the phone number
// behind it.
type Resolver interface {
	ResolvePhone(ctx context.Context, accessToken string) (string, error)
}
