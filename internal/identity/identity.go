// Package identity resolves the authenticated owner of a request. The
// service sits behind an auth proxy that stamps a verified owner id onto
// each request; this package is the narrow boundary to that collaborator.
package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// HeaderOwnerID is set by the upstream identity layer.
const HeaderOwnerID = "X-Owner-ID"

var ErrUnauthenticated = errors.New("unauthenticated")

type ctxKey struct{}

// Provider extracts a stable opaque owner id from a request, or reports
// that the caller is unauthenticated.
type Provider interface {
	OwnerID(r *http.Request) (uuid.UUID, error)
}

// HeaderProvider trusts the owner id header written by the auth proxy.
type HeaderProvider struct{}

func (HeaderProvider) OwnerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(HeaderOwnerID)
	if raw == "" {
		return uuid.Nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}
	return id, nil
}

// WithOwner stores the resolved owner id on the context.
func WithOwner(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// OwnerFromContext returns the owner id placed there by the auth middleware.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}
