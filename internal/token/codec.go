// Package token encodes identity claims into signed, time-bounded token
// strings and validates them. Tokens are self-contained: any process holding
// the same signing secret can verify them without a session store.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/polyglotta/polyglotta-api/internal/models"
)

// DefaultTTL is the default validity window for issued tokens
const DefaultTTL = 24 * time.Hour

var (
	// ErrMalformed indicates the token string could not be parsed
	ErrMalformed = errors.New("token: malformed token")
	// ErrExpired indicates the token's expiry timestamp has passed
	ErrExpired = errors.New("token: token expired")
	// ErrInvalidSignature indicates the signature does not verify against the signing secret
	ErrInvalidSignature = errors.New("token: invalid signature")
)

const (
	claimEmail           = "email"
	claimName            = "name"
	claimNativeLanguage  = "native_language"
	claimTargetLanguages = "target_languages"
)

// Codec issues and validates signed identity tokens. The secret is fixed at
// construction and never mutated; every instance that issues or validates
// must hold the same secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec for the given signing secret. A non-positive ttl
// falls back to DefaultTTL.
func NewCodec(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: secret, ttl: ttl}
}

// Issue signs a token carrying the claim set with the codec's default TTL.
func (c *Codec) Issue(claims *models.Claims) (string, error) {
	return c.IssueWithTTL(claims, c.ttl)
}

// IssueWithTTL signs a token carrying the claim set, valid for the given ttl.
// The ttl is taken as given: a zero or negative value mints a token that is
// already expired.
func (c *Codec) IssueWithTTL(claims *models.Claims, ttl time.Duration) (string, error) {
	if !claims.Complete() {
		return "", fmt.Errorf("token: claims must include user id, email and name")
	}

	now := time.Now()
	tok, err := jwt.NewBuilder().
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim(claimEmail, claims.Email).
		Claim(claimName, claims.Name).
		Claim(claimNativeLanguage, claims.NativeLanguage).
		Claim(claimTargetLanguages, claims.TargetLanguages).
		Build()
	if err != nil {
		return "", fmt.Errorf("token: failed to build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, c.secret))
	if err != nil {
		return "", fmt.Errorf("token: failed to sign token: %w", err)
	}

	return string(signed), nil
}

// Validate parses and verifies a token string, returning the embedded claims.
// Failure modes: ErrMalformed if the string cannot be parsed, ErrExpired if
// the expiry has passed (reported regardless of signature correctness), and
// ErrInvalidSignature if the HMAC does not verify.
func (c *Codec) Validate(tokenString string) (*models.Claims, error) {
	tok, err := jwt.Parse([]byte(tokenString), jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return nil, ErrMalformed
	}

	if exp := tok.Expiration(); !exp.IsZero() && !time.Now().Before(exp) {
		return nil, ErrExpired
	}

	if _, err := jwt.Parse([]byte(tokenString), jwt.WithKey(jwa.HS256, c.secret), jwt.WithValidate(false)); err != nil {
		return nil, ErrInvalidSignature
	}

	return claimsFromToken(tok)
}

// IsExpired is a signature-blind advisory check: it decodes the payload
// without verifying the signature and reports whether the expiry has passed.
// Parse failures count as expired.
//
// This must never be used as an authorization check. An attacker controls
// everything it reads. It exists only for UX hints such as prompting a
// client to refresh a stale token; Validate is the sole authoritative path.
func IsExpired(tokenString string) bool {
	tok, err := jwt.Parse([]byte(tokenString), jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return true
	}
	exp := tok.Expiration()
	if exp.IsZero() {
		return true
	}
	return !time.Now().Before(exp)
}

// Decode extracts the claim set from a token string without verifying the
// signature. Advisory only, same caveats as IsExpired.
func Decode(tokenString string) (*models.Claims, error) {
	tok, err := jwt.Parse([]byte(tokenString), jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return nil, ErrMalformed
	}
	return claimsFromToken(tok)
}

func claimsFromToken(tok jwt.Token) (*models.Claims, error) {
	claims := &models.Claims{
		UserID:    tok.Subject(),
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}

	if email, ok := tok.Get(claimEmail); ok {
		if s, ok := email.(string); ok {
			claims.Email = s
		}
	}
	if name, ok := tok.Get(claimName); ok {
		if s, ok := name.(string); ok {
			claims.Name = s
		}
	}
	if native, ok := tok.Get(claimNativeLanguage); ok {
		if s, ok := native.(string); ok {
			claims.NativeLanguage = s
		}
	}
	if targets, ok := tok.Get(claimTargetLanguages); ok {
		switch v := targets.(type) {
		case []string:
			claims.TargetLanguages = v
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					claims.TargetLanguages = append(claims.TargetLanguages, s)
				}
			}
		}
	}

	if !claims.Complete() {
		return nil, ErrMalformed
	}

	return claims, nil
}
