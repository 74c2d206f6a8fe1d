package catalog

import (
	"context"

	"melodex/internal/store"
)

// Store captures the persistence needs for catalog workflows.
type Store interface {
	CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
	GetArtist(ctx context.Context, id int64) (store.Artist, error)
	ListArtists(ctx context.Context) ([]store.Artist, error)

	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	ListAlbums(ctx context.Context) ([]store.Album, error)
	ListAlbumsByArtist(ctx context.Context, artistID int64) ([]store.Album, error)
	GetAlbumWithSongs(ctx context.Context, id int64) (store.AlbumWithSongs, error)

	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
	ListSongs(ctx context.Context) ([]store.Song, error)
	ListSongsByArtist(ctx context.Context, artistID int64) ([]store.Song, error)
	GetSongWithDetails(ctx context.Context, id int64) (store.SongWithDetails, error)
}

// Service coordinates artist, album, and song operations.
type Service interface {
	CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error)
	GetArtist(ctx context.Context, id int64) (store.Artist, error)
	ListArtists(ctx context.Context) ([]store.Artist, error)
	ListArtistAlbums(ctx context.Context, artistID int64) ([]store.Album, error)
	ListArtistSongs(ctx context.Context, artistID int64) ([]store.Song, error)

	CreateAlbum(ctx context.Context, album store.Album) (store.Album, error)
	GetAlbum(ctx context.Context, id int64) (store.AlbumWithSongs, error)
	ListAlbums(ctx context.Context) ([]store.Album, error)

	CreateSong(ctx context.Context, song store.Song) (store.Song, error)
	GetSong(ctx context.Context, id int64) (store.SongWithDetails, error)
	ListSongs(ctx context.Context) ([]store.Song, error)
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return store.Artist{}, err
	}
	return s.store.CreateArtist(ctx, artist)
}

func (s *service) GetArtist(ctx context.Context, id int64) (store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return store.Artist{}, err
	}
	return s.store.GetArtist(ctx, id)
}

func (s *service) ListArtists(ctx context.Context) ([]store.Artist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListArtists(ctx)
}

func (s *service) ListArtistAlbums(ctx context.Context, artistID int64) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAlbumsByArtist(ctx, artistID)
}

func (s *service) ListArtistSongs(ctx context.Context, artistID int64) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongsByArtist(ctx, artistID)
}

func (s *service) CreateAlbum(ctx context.Context, album store.Album) (store.Album, error) {
	if err := ctx.Err(); err != nil {
		return store.Album{}, err
	}
	return s.store.CreateAlbum(ctx, album)
}

func (s *service) GetAlbum(ctx context.Context, id int64) (store.AlbumWithSongs, error) {
	if err := ctx.Err(); err != nil {
		return store.AlbumWithSongs{}, err
	}
	return s.store.GetAlbumWithSongs(ctx, id)
}

func (s *service) ListAlbums(ctx context.Context) ([]store.Album, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListAlbums(ctx)
}

func (s *service) CreateSong(ctx context.Context, song store.Song) (store.Song, error) {
	if err := ctx.Err(); err != nil {
		return store.Song{}, err
	}
	return s.store.CreateSong(ctx, song)
}

func (s *service) GetSong(ctx context.Context, id int64) (store.SongWithDetails, error) {
	if err := ctx.Err(); err != nil {
		return store.SongWithDetails{}, err
	}
	return s.store.GetSongWithDetails(ctx, id)
}

func (s *service) ListSongs(ctx context.Context) ([]store.Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListSongs(ctx)
}
