package identity

import (
	"context"
	"errors"
)

// StaticResolver treats the access token as the phone number itself. It
// stands in for the carrier service in development where no Aliyun
// credentials exist.
type StaticResolver struct{}

func (StaticResolver) ResolvePhone(_ context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", errors.New("identity: empty access token")
	}
	return accessToken, nil
}
