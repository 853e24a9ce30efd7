package middlewares

import (
	"context"
	"errors"
	"strings"
)

/*

FakeVerifier accepts unsigned tokens of the form

	uid|email|name|picture

with name and picture optional. It backs the -no_auth development mode and
the handler tests, where standing up a real identity provider is not
practical.

*/
type FakeVerifier struct{}

func (FakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*TokenClaims, error) {
	parts := strings.Split(idToken, "|")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.New("malformed fake token, want uid|email[|name[|picture]]")
	}
	claims := &TokenClaims{UID: parts[0], Email: parts[1]}
	if len(parts) > 2 {
		claims.Name = parts[2]
	}
	if len(parts) > 3 {
		claims.Picture = parts[3]
	}
	return claims, nil
}
