package credentials

import (
	"context"

	"github.com/desertthunder/tdx/internal/shared"
	"golang.org/x/oauth2"
)

// TokenSource adapts a [Store] to [oauth2.TokenSource]. The store is re-read
// on every Token call, so a token saved or cleared mid-session takes effect
// on the next request without any cache invalidation.
func TokenSource(ctx context.Context, store Store) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: store}
}

type storeTokenSource struct {
	ctx   context.Context
	store Store
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.store.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token}, nil
}
