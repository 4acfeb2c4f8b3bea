package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/isdelr/employee-records/internal/common"
	"github.com/rs/zerolog/log"
)

// UserLookup reports whether the user named by a token still exists.
// It returns common.ErrNotFound for a missing user.
type UserLookup func(ctx context.Context, id string) error

// Guard accepts or rejects requests before they reach a protected handler.
type Guard struct {
	extract Extractor
	codec   *Codec
	lookup  UserLookup
}

// GuardOption customises a Guard.
type GuardOption func(*Guard)

// WithUserLookup makes the guard reject tokens whose user no longer exists.
func WithUserLookup(lookup UserLookup) GuardOption {
	return func(g *Guard) { g.lookup = lookup }
}

// NewGuard creates a Guard from an extraction strategy and a token codec.
func NewGuard(extract Extractor, codec *Codec, opts ...GuardOption) *Guard {
	g := &Guard{extract: extract, codec: codec}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate runs extraction and verification for r. Rejections are
// ErrNoCredential or ErrInvalidCredential; any other error is a store failure.
func (g *Guard) Authenticate(r *http.Request) (*Claims, error) {
	tokenStr, ok := g.extract(r)
	if !ok {
		return nil, ErrNoCredential
	}

	claims, err := g.codec.Verify(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	if g.lookup != nil {
		if err := g.lookup(r.Context(), claims.UserID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s no longer exists", ErrInvalidCredential, claims.UserID)
			}
			return nil, fmt.Errorf("failed to look up user %s: %w", claims.UserID, err)
		}
	}
	return claims, nil
}

// Middleware protects next. Rejected requests get a 401 and next never runs.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.Authenticate(r)
		if err != nil {
			if IsRejection(err) {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected unauthenticated request")
				WriteUnauthorized(w)
				return
			}
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to authenticate request")
			writeJSONMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// IsRejection reports whether err means the caller is not authenticated, as
// opposed to the guard failing.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNoCredential) || errors.Is(err, ErrInvalidCredential)
}

// WriteUnauthorized sends the generic 401 body. It never says why the
// credential was refused.
func WriteUnauthorized(w http.ResponseWriter) {
	writeJSONMessage(w, http.StatusUnauthorized, "Unauthorized")
}

func writeJSONMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
