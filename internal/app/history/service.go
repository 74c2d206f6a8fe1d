package history

import (
	"context"

	"melodex/internal/store"
)

// Store captures the persistence needs for play-history workflows.
type Store interface {
	AddRecentlyPlayed(ctx context.Context, userID, songID int64) error
	ListRecentlyPlayed(ctx context.Context, userID int64) ([]store.SongWithDetails, error)
}

// Service coordinates recently-played tracking.
type Service interface {
	Record(ctx context.Context, userID, songID int64) error
	Recent(ctx context.Context, userID int64) ([]store.SongWithDetails, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Record(ctx context.Context, userID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.AddRecentlyPlayed(ctx, userID, songID)
}

func (s *service) Recent(ctx context.Context, userID int64) ([]store.SongWithDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListRecentlyPlayed(ctx, userID)
}
