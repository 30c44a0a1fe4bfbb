package ports

import "github.com/identato/auth-service/internal/core/domain"

// TokenService creates and parses signed bearer tokens. Issuance is a pure
// function of (principal, current time, signing key); nothing is stored.
type TokenService interface {
	// IssueAccessToken signs a short-lived token carrying the principal's
	// id, role and email as custom claims.
	IssueAccessToken(user *domain.User) (string, error)

	// IssueRefreshToken signs a long-lived token. The extra claims map is
	// merged into the claim set; an empty or nil map is valid and typical.
	IssueRefreshToken(user *domain.User, extra map[string]any) (string, error)

	// ExtractSubject returns the subject claim, or ("", nil) when the
	// token verifies but carries no subject. Fails with
	// domain.ErrTokenMalformed when the token cannot be parsed or its
	// signature does not verify.
	ExtractSubject(token string) (string, error)

	// ExtractEmail returns the user_email claim under the same contract
	// as ExtractSubject: a verified token without the claim yields
	// ("", nil), and callers must treat the empty string as a miss.
	ExtractEmail(token string) (string, error)

	// IsValid reports whether the token's signature verifies, its subject
	// equals the principal's username, and its expiry is strictly in the
	// future. A token without an exp claim is never valid. Business
	// mismatches yield (false, nil); only structurally malformed input
	// yields a non-nil error.
	IsValid(token string, user *domain.User) (bool, error)
}
