package playlists

import (
	"context"

	"melodex/internal/store"
)

// Store captures the persistence needs for playlist workflows.
type Store interface {
	CreatePlaylist(ctx context.Context, playlist store.Playlist) (store.Playlist, error)
	ListPlaylistsByUser(ctx context.Context, userID int64) ([]store.Playlist, error)
	GetPlaylistWithSongs(ctx context.Context, id int64) (store.PlaylistWithSongs, error)
	AddSongToPlaylist(ctx context.Context, entry store.PlaylistSong) (store.PlaylistSong, error)
	RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error
}

// Service coordinates playlist-related operations.
type Service interface {
	Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]store.Playlist, error)
	Get(ctx context.Context, id int64) (store.PlaylistWithSongs, error)
	AddSong(ctx context.Context, entry store.PlaylistSong) (store.PlaylistSong, error)
	RemoveSong(ctx context.Context, playlistID, songID int64) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return store.Playlist{}, err
	}
	return s.store.CreatePlaylist(ctx, playlist)
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]store.Playlist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPlaylistsByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, id int64) (store.PlaylistWithSongs, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistWithSongs{}, err
	}
	return s.store.GetPlaylistWithSongs(ctx, id)
}

func (s *service) AddSong(ctx context.Context, entry store.PlaylistSong) (store.PlaylistSong, error) {
	if err := ctx.Err(); err != nil {
		return store.PlaylistSong{}, err
	}
	return s.store.AddSongToPlaylist(ctx, entry)
}

func (s *service) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveSongFromPlaylist(ctx, playlistID, songID)
}
