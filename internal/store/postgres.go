package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

// PGStore provides the catalog contract backed by Postgres. A single shared
// sequence feeds every table's id column, preserving the one-counter
// invariant of the in-memory backend.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

// NewPGStore wraps an open database handle.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// Schema notes: no foreign key constraints on purpose. References may dangle
// and read paths tolerate it, same as the in-memory backend.
const schema = `
CREATE SEQUENCE IF NOT EXISTS catalog_id_seq;

CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS artists (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	name TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS albums (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	title TEXT NOT NULL,
	artist_id BIGINT,
	image_url TEXT NOT NULL DEFAULT '',
	release_year INT NOT NULL DEFAULT 0,
	genre TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS songs (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	title TEXT NOT NULL,
	artist_id BIGINT,
	album_id BIGINT,
	duration INT NOT NULL DEFAULT 0,
	audio_url TEXT NOT NULL DEFAULT '',
	genre TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS playlists (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	user_id BIGINT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	is_public BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS playlist_songs (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	playlist_id BIGINT NOT NULL,
	song_id BIGINT NOT NULL,
	position INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recently_played (
	id BIGINT PRIMARY KEY DEFAULT nextval('catalog_id_seq'),
	user_id BIGINT NOT NULL,
	song_id BIGINT NOT NULL,
	played_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Init applies the schema. All statements are idempotent.
func (s *PGStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Users

func (s *PGStore) CreateUser(ctx context.Context, username, password string) (User, error) {
	if username == "" || password == "" {
		return User{}, fmt.Errorf("username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{Username: username, Password: string(hash)}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id`, username, string(hash)).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrUserExists
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PGStore) GetUser(ctx context.Context, id int64) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password
		FROM users
		WHERE id = $1`, id).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *PGStore) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password
		FROM users
		WHERE username = $1`, username).Scan(&user.ID, &user.Username, &user.Password)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// Artists

func (s *PGStore) CreateArtist(ctx context.Context, artist Artist) (Artist, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO artists (name, image_url, bio)
		VALUES ($1, $2, $3)
		RETURNING id`, artist.Name, artist.ImageURL, artist.Bio).Scan(&artist.ID)
	if err != nil {
		return Artist{}, fmt.Errorf("insert artist: %w", err)
	}
	return artist, nil
}

func (s *PGStore) GetArtist(ctx context.Context, id int64) (Artist, error) {
	var artist Artist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, image_url, bio
		FROM artists
		WHERE id = $1`, id).Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.Bio)
	if errors.Is(err, sql.ErrNoRows) {
		return Artist{}, ErrArtistNotFound
	}
	if err != nil {
		return Artist{}, fmt.Errorf("get artist: %w", err)
	}
	return artist, nil
}

func (s *PGStore) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image_url, bio
		FROM artists
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	artists := make([]Artist, 0)
	for rows.Next() {
		var artist Artist
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.Bio); err != nil {
			return nil, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artists: %w", err)
	}
	return artists, nil
}

// Albums

func (s *PGStore) CreateAlbum(ctx context.Context, album Album) (Album, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO albums (title, artist_id, image_url, release_year, genre)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		album.Title, album.ArtistID, album.ImageURL, album.ReleaseYear, album.Genre).Scan(&album.ID)
	if err != nil {
		return Album{}, fmt.Errorf("insert album: %w", err)
	}
	return album, nil
}

func (s *PGStore) GetAlbum(ctx context.Context, id int64) (Album, error) {
	var album Album
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, artist_id, image_url, release_year, genre
		FROM albums
		WHERE id = $1`, id).
		Scan(&album.ID, &album.Title, &album.ArtistID, &album.ImageURL, &album.ReleaseYear, &album.Genre)
	if errors.Is(err, sql.ErrNoRows) {
		return Album{}, ErrAlbumNotFound
	}
	if err != nil {
		return Album{}, fmt.Errorf("get album: %w", err)
	}
	return album, nil
}

func (s *PGStore) ListAlbums(ctx context.Context) ([]Album, error) {
	return s.listAlbums(ctx, `
		SELECT id, title, artist_id, image_url, release_year, genre
		FROM albums
		ORDER BY id`)
}

func (s *PGStore) ListAlbumsByArtist(ctx context.Context, artistID int64) ([]Album, error) {
	return s.listAlbums(ctx, `
		SELECT id, title, artist_id, image_url, release_year, genre
		FROM albums
		WHERE artist_id = $1
		ORDER BY id`, artistID)
}

func (s *PGStore) listAlbums(ctx context.Context, query string, args ...any) ([]Album, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	albums := make([]Album, 0)
	for rows.Next() {
		var album Album
		if err := rows.Scan(&album.ID, &album.Title, &album.ArtistID, &album.ImageURL, &album.ReleaseYear, &album.Genre); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate albums: %w", err)
	}
	return albums, nil
}

func (s *PGStore) GetAlbumWithSongs(ctx context.Context, id int64) (AlbumWithSongs, error) {
	album, err := s.GetAlbum(ctx, id)
	if err != nil {
		return AlbumWithSongs{}, err
	}

	details := AlbumWithSongs{Album: album}
	if album.ArtistID != nil {
		if artist, err := s.GetArtist(ctx, *album.ArtistID); err == nil {
			details.Artist = &artist
		} else if !errors.Is(err, ErrArtistNotFound) {
			return AlbumWithSongs{}, err
		}
	}

	songs, err := s.ListSongsByAlbum(ctx, id)
	if err != nil {
		return AlbumWithSongs{}, err
	}
	details.Songs = songs
	return details, nil
}

// Songs

func (s *PGStore) CreateSong(ctx context.Context, song Song) (Song, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO songs (title, artist_id, album_id, duration, audio_url, genre)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		song.Title, song.ArtistID, song.AlbumID, song.Duration, song.AudioURL, song.Genre).Scan(&song.ID)
	if err != nil {
		return Song{}, fmt.Errorf("insert song: %w", err)
	}
	return song, nil
}

func (s *PGStore) GetSong(ctx context.Context, id int64) (Song, error) {
	var song Song
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE id = $1`, id).
		Scan(&song.ID, &song.Title, &song.ArtistID, &song.AlbumID, &song.Duration, &song.AudioURL, &song.Genre)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

func (s *PGStore) ListSongs(ctx context.Context) ([]Song, error) {
	return s.listSongs(ctx, `
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		ORDER BY id`)
}

func (s *PGStore) ListSongsByAlbum(ctx context.Context, albumID int64) ([]Song, error) {
	return s.listSongs(ctx, `
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE album_id = $1
		ORDER BY id`, albumID)
}

func (s *PGStore) ListSongsByArtist(ctx context.Context, artistID int64) ([]Song, error) {
	return s.listSongs(ctx, `
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE artist_id = $1
		ORDER BY id`, artistID)
}

func (s *PGStore) listSongs(ctx context.Context, query string, args ...any) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := make([]Song, 0)
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.ID, &song.Title, &song.ArtistID, &song.AlbumID, &song.Duration, &song.AudioURL, &song.Genre); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}
	return songs, nil
}

func (s *PGStore) GetSongWithDetails(ctx context.Context, id int64) (SongWithDetails, error) {
	song, err := s.GetSong(ctx, id)
	if err != nil {
		return SongWithDetails{}, err
	}
	return s.resolveSong(ctx, song)
}

func (s *PGStore) resolveSong(ctx context.Context, song Song) (SongWithDetails, error) {
	details := SongWithDetails{Song: song}
	if song.ArtistID != nil {
		if artist, err := s.GetArtist(ctx, *song.ArtistID); err == nil {
			details.Artist = &artist
		} else if !errors.Is(err, ErrArtistNotFound) {
			return SongWithDetails{}, err
		}
	}
	if song.AlbumID != nil {
		if album, err := s.GetAlbum(ctx, *song.AlbumID); err == nil {
			details.Album = &album
		} else if !errors.Is(err, ErrAlbumNotFound) {
			return SongWithDetails{}, err
		}
	}
	return details, nil
}

func (s *PGStore) SearchSongs(ctx context.Context, query string) ([]SongWithDetails, error) {
	songs, err := s.listSongs(ctx, `
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY id`, query)
	if err != nil {
		return nil, err
	}

	results := make([]SongWithDetails, 0, len(songs))
	for _, song := range songs {
		details, err := s.resolveSong(ctx, song)
		if err != nil {
			return nil, err
		}
		results = append(results, details)
	}
	return results, nil
}

// Playlists

func (s *PGStore) CreatePlaylist(ctx context.Context, playlist Playlist) (Playlist, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, description, user_id, image_url, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		playlist.Name, playlist.Description, playlist.UserID, playlist.ImageURL, playlist.IsPublic).Scan(&playlist.ID)
	if err != nil {
		return Playlist{}, fmt.Errorf("insert playlist: %w", err)
	}
	return playlist, nil
}

func (s *PGStore) GetPlaylist(ctx context.Context, id int64) (Playlist, error) {
	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, user_id, image_url, is_public
		FROM playlists
		WHERE id = $1`, id).
		Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.UserID, &playlist.ImageURL, &playlist.IsPublic)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, ErrPlaylistNotFound
	}
	if err != nil {
		return Playlist{}, fmt.Errorf("get playlist: %w", err)
	}
	return playlist, nil
}

func (s *PGStore) ListPlaylistsByUser(ctx context.Context, userID int64) ([]Playlist, error) {
	return s.listPlaylists(ctx, `
		SELECT id, name, description, user_id, image_url, is_public
		FROM playlists
		WHERE user_id = $1
		ORDER BY id`, userID)
}

func (s *PGStore) listPlaylists(ctx context.Context, query string, args ...any) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]Playlist, 0)
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.UserID, &playlist.ImageURL, &playlist.IsPublic); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

func (s *PGStore) GetPlaylistWithSongs(ctx context.Context, id int64) (PlaylistWithSongs, error) {
	playlist, err := s.GetPlaylist(ctx, id)
	if err != nil {
		return PlaylistWithSongs{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY position ASC, id ASC`, id)
	if err != nil {
		return PlaylistWithSongs{}, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	var songIDs []int64
	for rows.Next() {
		var songID int64
		if err := rows.Scan(&songID); err != nil {
			return PlaylistWithSongs{}, fmt.Errorf("scan playlist song: %w", err)
		}
		songIDs = append(songIDs, songID)
	}
	if err := rows.Err(); err != nil {
		return PlaylistWithSongs{}, fmt.Errorf("iterate playlist songs: %w", err)
	}

	details := PlaylistWithSongs{Playlist: playlist, Songs: make([]SongWithDetails, 0, len(songIDs))}
	for _, songID := range songIDs {
		song, err := s.GetSongWithDetails(ctx, songID)
		if errors.Is(err, ErrSongNotFound) {
			// Dangling join row; dropped from the view.
			continue
		}
		if err != nil {
			return PlaylistWithSongs{}, err
		}
		details.Songs = append(details.Songs, song)
	}
	return details, nil
}

func (s *PGStore) AddSongToPlaylist(ctx context.Context, entry PlaylistSong) (PlaylistSong, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlist_songs (playlist_id, song_id, position)
		VALUES ($1, $2, $3)
		RETURNING id`, entry.PlaylistID, entry.SongID, entry.Position).Scan(&entry.ID)
	if err != nil {
		return PlaylistSong{}, fmt.Errorf("insert playlist song: %w", err)
	}
	return entry, nil
}

// RemoveSongFromPlaylist deletes the oldest matching join row only, so
// duplicates come out one call at a time.
func (s *PGStore) RemoveSongFromPlaylist(ctx context.Context, playlistID, songID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE id = (
			SELECT id
			FROM playlist_songs
			WHERE playlist_id = $1 AND song_id = $2
			ORDER BY id
			LIMIT 1
		)`, playlistID, songID)
	if err != nil {
		return fmt.Errorf("delete playlist song: %w", err)
	}
	return nil
}

// Recently played

func (s *PGStore) AddRecentlyPlayed(ctx context.Context, userID, songID int64) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO recently_played (user_id, song_id)
		VALUES ($1, $2)`, userID, songID); err != nil {
		return fmt.Errorf("insert recently played: %w", err)
	}
	return nil
}

func (s *PGStore) ListRecentlyPlayed(ctx context.Context, userID int64) ([]SongWithDetails, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id
		FROM recently_played
		WHERE user_id = $1
		ORDER BY played_at DESC, id ASC
		LIMIT 10`, userID)
	if err != nil {
		return nil, fmt.Errorf("list recently played: %w", err)
	}
	defer rows.Close()

	var songIDs []int64
	for rows.Next() {
		var songID int64
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("scan recently played: %w", err)
		}
		songIDs = append(songIDs, songID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recently played: %w", err)
	}

	results := make([]SongWithDetails, 0, len(songIDs))
	for _, songID := range songIDs {
		details, err := s.GetSongWithDetails(ctx, songID)
		if errors.Is(err, ErrSongNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, details)
	}
	return results, nil
}

// Search

func (s *PGStore) SearchAll(ctx context.Context, query string) (SearchResults, error) {
	songs, err := s.SearchSongs(ctx, query)
	if err != nil {
		return SearchResults{}, err
	}

	results := SearchResults{Songs: songs}

	results.Artists = make([]Artist, 0)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image_url, bio
		FROM artists
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY id`, query)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search artists: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var artist Artist
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.Bio); err != nil {
			return SearchResults{}, fmt.Errorf("scan artist: %w", err)
		}
		results.Artists = append(results.Artists, artist)
	}
	if err := rows.Err(); err != nil {
		return SearchResults{}, fmt.Errorf("iterate artists: %w", err)
	}

	albums, err := s.listAlbums(ctx, `
		SELECT id, title, artist_id, image_url, release_year, genre
		FROM albums
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY id`, query)
	if err != nil {
		return SearchResults{}, err
	}
	results.Albums = albums

	playlists, err := s.listPlaylists(ctx, `
		SELECT id, name, description, user_id, image_url, is_public
		FROM playlists
		WHERE is_public AND name ILIKE '%' || $1 || '%'
		ORDER BY id`, query)
	if err != nil {
		return SearchResults{}, err
	}
	results.Playlists = playlists

	return results, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
