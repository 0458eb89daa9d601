package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nikolayk812/storefront/internal/port"
)

var ErrInvalidToken = errors.New("invalid token")

type User struct {
	ID    string
	Email string
	Admin bool
}

type ctxKey struct{}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

func UserFrom(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(ctxKey{}).(User)
	return user, ok && user.ID != ""
}

// ContextProvider answers who the current user is from the request context.
type ContextProvider struct{}

func (ContextProvider) CurrentUserID(ctx context.Context) (string, bool) {
	user, ok := UserFrom(ctx)
	return user.ID, ok
}

var _ port.IdentityProvider = ContextProvider{}

type claims struct {
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer tokens issued for this storefront.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
}

func NewVerifier(secret, issuer, audience string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("secret is empty")
	}

	return &Verifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		leeway:   30 * time.Second,
	}, nil
}

func (v *Verifier) Verify(raw string) (User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return User{}, fmt.Errorf("jwt.ParseWithClaims: %w: %w", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return User{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return User{}, fmt.Errorf("subject is empty: %w", ErrInvalidToken)
	}

	return User{
		ID:    c.Subject,
		Email: c.Email,
		Admin: c.Admin,
	}, nil
}

// Issue signs a token for user valid for ttl.
func (v *Verifier) Issue(user User, ttl time.Duration) (string, error) {
	if user.ID == "" {
		return "", errors.New("user id is empty")
	}

	now := time.Now()
	rc := jwt.RegisteredClaims{
		Subject:   user.ID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if v.audience != "" {
		rc.Audience = jwt.ClaimStrings{v.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:            user.Email,
		Admin:            user.Admin,
		RegisteredClaims: rc,
	})

	return token.SignedString(v.secret)
}

// Middleware authenticates bearer tokens. Requests without a token continue
// anonymously, requests with a bad token are rejected with 401.
func Middleware(v *Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			user, err := v.Verify(strings.TrimSpace(raw))
			if err != nil {
				log.Info("token rejected",
					"method", "identity.Middleware",
					"path", r.URL.Path,
					"err", err)
				http.Error(w, ErrInvalidToken.Error(), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
