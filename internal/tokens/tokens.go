package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hairbystephanie/site/backend/go-services/internal/config"
	"github.com/hairbystephanie/site/backend/go-services/internal/models"
	"github.com/hairbystephanie/site/backend/go-services/pkg/middleware"
)

var ErrUnknownSubject = errors.New("token subject is not an active user")

// GenerateAccessToken creates a signed JWT access token for the user
func GenerateAccessToken(cfg *config.Config, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": u.Username,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}

// UserLookup resolves the subject of a verified token.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Verifier checks locally issued HS256 access tokens.
type Verifier struct {
	secret []byte
	users  UserLookup
}

// NewVerifier returns a verifier for tokens signed with secret. When users
// is non-nil the subject must still exist and be active.
func NewVerifier(secret string, users UserLookup) *Verifier {
	return &Verifier{secret: []byte(secret), users: users}
}

func (v *Verifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	if v.users != nil {
		if err := requireActive(ctx, v.users, sub); err != nil {
			return nil, err
		}
	}
	return mapToken(claims), nil
}

func requireActive(ctx context.Context, users UserLookup, username string) error {
	u, err := users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup subject: %w", err)
	}
	if u == nil || !u.Active {
		return ErrUnknownSubject
	}
	return nil
}

// RequireActiveUser wraps a verifier for externally issued tokens (OIDC)
// so that only subjects known as active admin users are accepted. The
// subject is preferred_username, falling back to sub. A nil v stays nil.
func RequireActiveUser(v middleware.Verifier, users UserLookup) middleware.Verifier {
	if v == nil {
		return nil
	}
	return &activeUserVerifier{next: v, users: users}
}

type activeUserVerifier struct {
	next  middleware.Verifier
	users UserLookup
}

func (v *activeUserVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	tok, err := v.next.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	var claims struct {
		PreferredUsername string `json:"preferred_username"`
		Subject           string `json:"sub"`
	}
	if err := tok.Claims(&claims); err != nil {
		return nil, fmt.Errorf("parse claims: %w", err)
	}
	name := claims.PreferredUsername
	if name == "" {
		name = claims.Subject
	}
	if name == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	if err := requireActive(ctx, v.users, name); err != nil {
		return nil, err
	}
	return tok, nil
}

// mapToken exposes verified claims through middleware.Token.
type mapToken jwt.MapClaims

func (t mapToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]interface{}(t))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
