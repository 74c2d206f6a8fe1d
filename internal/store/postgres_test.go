package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGStore_CreateArtist(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO artists (name, image_url, bio)
		VALUES ($1, $2, $3)
		RETURNING id`)).
		WithArgs("Drake", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	artist, err := s.CreateArtist(context.Background(), Artist{Name: "Drake"})
	if err != nil {
		t.Fatalf("CreateArtist: %v", err)
	}
	if artist.ID != 7 {
		t.Fatalf("expected id 7, got %d", artist.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStore_CreateUserDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id`)).
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := s.CreateUser(context.Background(), "alice", "secret"); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists for unique violation, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStore_GetSongNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id", "album_id", "duration", "audio_url", "genre"}))

	if _, err := s.GetSong(context.Background(), 404); !errors.Is(err, ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStore_GetPlaylistWithSongsDropsDanglingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, description, user_id, image_url, is_public
		FROM playlists
		WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id", "image_url", "is_public"}).
			AddRow(int64(1), "Mix", "", int64(1), "", false))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT song_id
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY position ASC, id ASC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"song_id"}).AddRow(int64(10)).AddRow(int64(11)))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE id = $1`)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id", "album_id", "duration", "audio_url", "genre"}).
			AddRow(int64(10), "Real", nil, nil, 180, "", ""))

	// Second join row points at a deleted song.
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE id = $1`)).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id", "album_id", "duration", "audio_url", "genre"}))

	details, err := s.GetPlaylistWithSongs(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetPlaylistWithSongs: %v", err)
	}
	if len(details.Songs) != 1 || details.Songs[0].Title != "Real" {
		t.Fatalf("expected dangling row dropped, got %+v", details.Songs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStore_RemoveSongFromPlaylist(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM playlist_songs
		WHERE id = (
			SELECT id
			FROM playlist_songs
			WHERE playlist_id = $1 AND song_id = $2
			ORDER BY id
			LIMIT 1
		)`)).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.RemoveSongFromPlaylist(context.Background(), 1, 2); err != nil {
		t.Fatalf("RemoveSongFromPlaylist: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStore_ListRecentlyPlayed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT song_id
		FROM recently_played
		WHERE user_id = $1
		ORDER BY played_at DESC, id ASC
		LIMIT 10`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"song_id"}).AddRow(int64(5)))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE id = $1`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id", "album_id", "duration", "audio_url", "genre"}).
			AddRow(int64(5), "Track", nil, nil, 0, "", ""))

	recent, err := s.ListRecentlyPlayed(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListRecentlyPlayed: %v", err)
	}
	if len(recent) != 1 || recent[0].Title != "Track" {
		t.Fatalf("unexpected result: %+v", recent)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStore_SearchAllOnlyPublicPlaylists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := NewPGStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist_id, album_id, duration, audio_url, genre
		FROM songs
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY id`)).
		WithArgs("mix").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id", "album_id", "duration", "audio_url", "genre"}))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, image_url, bio
		FROM artists
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY id`)).
		WithArgs("mix").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image_url", "bio"}))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, title, artist_id, image_url, release_year, genre
		FROM albums
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY id`)).
		WithArgs("mix").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "artist_id", "image_url", "release_year", "genre"}))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, description, user_id, image_url, is_public
		FROM playlists
		WHERE is_public AND name ILIKE '%' || $1 || '%'
		ORDER BY id`)).
		WithArgs("mix").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "user_id", "image_url", "is_public"}).
			AddRow(int64(3), "Party Mix", "", int64(1), "", true))

	results, err := s.SearchAll(context.Background(), "mix")
	if err != nil {
		t.Fatalf("SearchAll: %v", err)
	}
	if len(results.Playlists) != 1 || results.Playlists[0].Name != "Party Mix" {
		t.Fatalf("unexpected playlists: %+v", results.Playlists)
	}
	if len(results.Songs) != 0 || len(results.Artists) != 0 || len(results.Albums) != 0 {
		t.Fatalf("expected empty groups, got %+v", results)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
