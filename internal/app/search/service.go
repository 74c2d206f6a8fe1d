package search

import (
	"context"

	"melodex/internal/store"
)

// Store captures the persistence needs for search.
type Store interface {
	SearchAll(ctx context.Context, query string) (store.SearchResults, error)
}

// Service runs catalog-wide search.
type Service interface {
	Search(ctx context.Context, query string) (store.SearchResults, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Search(ctx context.Context, query string) (store.SearchResults, error) {
	if err := ctx.Err(); err != nil {
		return store.SearchResults{}, err
	}
	return s.store.SearchAll(ctx, query)
}
