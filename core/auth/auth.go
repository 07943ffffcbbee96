// Package auth abstracts the session/credential collaborator. The pipeline
// treats authentication as an opaque token source plus a signed-in identity;
// obtaining and refreshing those is someone else's job.
package auth

import "context"

// Identity is the signed-in user as far as the pipeline cares: an opaque id.
type Identity struct {
	UserID string
}

// IsZero reports whether no user is signed in.
func (i Identity) IsZero() bool { return i.UserID == "" }

// TokenSource supplies the bearer credential attached to outbound calls.
// Implementations must be safe for concurrent use.
type TokenSource interface {
	// Token returns the current bearer credential, or an error when no valid
	// session exists.
	Token(ctx context.Context) (string, error)

	// Identity returns the signed-in user. The zero Identity means signed out.
	Identity() Identity
}

// Static is a TokenSource with a fixed credential, useful for service keys
// and tests.
type Static struct {
	AccessToken string
	User        Identity
}

func (s Static) Token(context.Context) (string, error) {
	if s.AccessToken == "" {
		return "", ErrNoCredential
	}
	return s.AccessToken, nil
}

func (s Static) Identity() Identity { return s.User }
