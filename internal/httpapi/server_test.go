package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"melodex/internal/app/catalog"
	"melodex/internal/app/history"
	"melodex/internal/app/playlists"
	"melodex/internal/app/search"
	"melodex/internal/store"
)

type stubCatalogService struct {
	artists    []store.Artist
	artist     store.Artist
	artistErr  error
	albums     []store.Album
	album      store.AlbumWithSongs
	albumErr   error
	songs      []store.Song
	song       store.SongWithDetails
	songErr    error

	createdArtist store.Artist
	createErr     error
}

func (s *stubCatalogService) CreateArtist(ctx context.Context, artist store.Artist) (store.Artist, error) {
	if s.createErr != nil {
		return store.Artist{}, s.createErr
	}
	s.createdArtist = artist
	artist.ID = 1
	return artist, nil
}

func (s *stubCatalogService) GetArtist(ctx context.Context, id int64) (store.Artist, error) {
	return s.artist, s.artistErr
}

func (s *stubCatalogService) ListArtists(ctx context.Context) ([]store.Artist, error) {
	return s.artists, s.artistErr
}

func (s *stubCatalogService) ListArtistAlbums(ctx context.Context, artistID int64) ([]store.Album, error) {
	return s.albums, s.albumErr
}

func (s *stubCatalogService) ListArtistSongs(ctx context.Context, artistID int64) ([]store.Song, error) {
	return s.songs, s.songErr
}

func (s *stubCatalogService) CreateAlbum(ctx context.Context, album store.Album) (store.Album, error) {
	return album, s.createErr
}

func (s *stubCatalogService) GetAlbum(ctx context.Context, id int64) (store.AlbumWithSongs, error) {
	return s.album, s.albumErr
}

func (s *stubCatalogService) ListAlbums(ctx context.Context) ([]store.Album, error) {
	return s.albums, s.albumErr
}

func (s *stubCatalogService) CreateSong(ctx context.Context, song store.Song) (store.Song, error) {
	return song, s.createErr
}

func (s *stubCatalogService) GetSong(ctx context.Context, id int64) (store.SongWithDetails, error) {
	return s.song, s.songErr
}

func (s *stubCatalogService) ListSongs(ctx context.Context) ([]store.Song, error) {
	return s.songs, s.songErr
}

type stubPlaylistService struct {
	playlist    store.PlaylistWithSongs
	playlistErr error
	removeErr   error
}

func (s *stubPlaylistService) Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error) {
	playlist.ID = 1
	return playlist, nil
}

func (s *stubPlaylistService) ListByUser(ctx context.Context, userID int64) ([]store.Playlist, error) {
	return nil, s.playlistErr
}

func (s *stubPlaylistService) Get(ctx context.Context, id int64) (store.PlaylistWithSongs, error) {
	return s.playlist, s.playlistErr
}

func (s *stubPlaylistService) AddSong(ctx context.Context, entry store.PlaylistSong) (store.PlaylistSong, error) {
	entry.ID = 1
	return entry, nil
}

func (s *stubPlaylistService) RemoveSong(ctx context.Context, playlistID, songID int64) error {
	return s.removeErr
}

type stubHistoryService struct {
	recent    []store.SongWithDetails
	recordErr error
}

func (s *stubHistoryService) Record(ctx context.Context, userID, songID int64) error {
	return s.recordErr
}

func (s *stubHistoryService) Recent(ctx context.Context, userID int64) ([]store.SongWithDetails, error) {
	return s.recent, nil
}

type stubSearchService struct {
	results store.SearchResults
	err     error
}

func (s *stubSearchService) Search(ctx context.Context, query string) (store.SearchResults, error) {
	return s.results, s.err
}

func newStubServer(catalogSvc *stubCatalogService, playlistSvc *stubPlaylistService, historySvc *stubHistoryService, searchSvc *stubSearchService) http.Handler {
	if catalogSvc == nil {
		catalogSvc = &stubCatalogService{}
	}
	if playlistSvc == nil {
		playlistSvc = &stubPlaylistService{}
	}
	if historySvc == nil {
		historySvc = &stubHistoryService{}
	}
	if searchSvc == nil {
		searchSvc = &stubSearchService{}
	}
	return New(catalogSvc, playlistSvc, historySvc, searchSvc).Routes()
}

func decodeError(t *testing.T, body *bytes.Buffer) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (%s)", err, body.String())
	}
	return resp
}

func TestHealth(t *testing.T) {
	handler := newStubServer(nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestGetArtistNotFound(t *testing.T) {
	handler := newStubServer(&stubCatalogService{artistErr: store.ErrArtistNotFound}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artists/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Message != "Artist not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestGetArtistInvalidID(t *testing.T) {
	handler := newStubServer(nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artists/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListArtistsInternalError(t *testing.T) {
	handler := newStubServer(&stubCatalogService{artistErr: errors.New("boom")}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/artists", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	// The client only sees the generic message, never the cause.
	if resp := decodeError(t, rec.Body); resp.Message != "Failed to fetch artists" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestCreateArtistValidation(t *testing.T) {
	handler := newStubServer(nil, nil, nil, nil)

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/artists", strings.NewReader("{not json")))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/artists", strings.NewReader(`{"bio":"x"}`)))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		resp := decodeError(t, rec.Body)
		if len(resp.Errors) != 1 || resp.Errors[0].Field != "name" {
			t.Fatalf("expected field error for name, got %+v", resp.Errors)
		}
	})
}

func TestGetSongNotFound(t *testing.T) {
	handler := newStubServer(&stubCatalogService{songErr: store.ErrSongNotFound}, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/songs/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Message != "Song not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	handler := newStubServer(nil, &stubPlaylistService{playlistErr: store.ErrPlaylistNotFound}, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/playlists/42", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Message != "Playlist not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAddPlaylistSongRequiresSongID(t *testing.T) {
	handler := newStubServer(nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/playlists/1/songs", strings.NewReader(`{"position":3}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec.Body)
	if resp.Message != "songId is required" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestRecordPlayValidation(t *testing.T) {
	handler := newStubServer(nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/recently-played", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec.Body)
	if resp.Message != "userId and songId are required" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if len(resp.Errors) != 2 {
		t.Fatalf("expected field errors for both userId and songId, got %+v", resp.Errors)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	handler := newStubServer(nil, nil, nil, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeError(t, rec.Body); resp.Message != "Query parameter 'q' is required" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

// newCatalogServer wires the full stack over the in-memory backend for
// request-level scenarios.
func newCatalogServer(t *testing.T) (http.Handler, *store.MemStore) {
	t.Helper()
	mem := store.NewMemStore()
	handler := New(
		catalog.New(mem),
		playlists.New(mem),
		history.New(mem),
		search.New(mem),
	).Routes()
	return handler, mem
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestPlaylistLifecycle(t *testing.T) {
	handler, _ := newCatalogServer(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/playlists", `{"name":"Road Trip","userId":1,"isPublic":true}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create playlist: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var playlist store.Playlist
	if err := json.Unmarshal(rec.Body.Bytes(), &playlist); err != nil {
		t.Fatalf("decode playlist: %v", err)
	}
	if playlist.ID == 0 || playlist.Name != "Road Trip" {
		t.Fatalf("unexpected playlist %+v", playlist)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/playlists/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get playlist: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"songs":[]`) {
		t.Fatalf("expected empty songs array, got %s", rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/songs", `{"title":"Highway"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create song: expected 201, got %d", rec.Code)
	}
	var song store.Song
	if err := json.Unmarshal(rec.Body.Bytes(), &song); err != nil {
		t.Fatalf("decode song: %v", err)
	}

	// Position defaults to 0 when omitted.
	rec = doJSON(t, handler, http.MethodPost, "/api/playlists/1/songs", `{"songId":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add song: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var entry store.PlaylistSong
	if err := json.Unmarshal(rec.Body.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Position != 0 || entry.SongID != song.ID {
		t.Fatalf("unexpected entry %+v", entry)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/playlists/1", "")
	var withSongs store.PlaylistWithSongs
	if err := json.Unmarshal(rec.Body.Bytes(), &withSongs); err != nil {
		t.Fatalf("decode playlist with songs: %v", err)
	}
	if len(withSongs.Songs) != 1 || withSongs.Songs[0].Title != "Highway" {
		t.Fatalf("unexpected songs %+v", withSongs.Songs)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/playlists/1/songs/2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove song: expected 204, got %d", rec.Code)
	}

	// Idempotent from the client's point of view.
	rec = doJSON(t, handler, http.MethodDelete, "/api/playlists/1/songs/2", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("second removal: expected 204, got %d", rec.Code)
	}
}

func TestSearchSeededCatalog(t *testing.T) {
	handler, mem := newCatalogServer(t)
	if err := store.Seed(context.Background(), mem); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/search?q=Blinding", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var results store.SearchResults
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("decode results: %v", err)
	}
	if len(results.Songs) != 1 || results.Songs[0].Title != "Blinding Lights" {
		t.Fatalf("unexpected songs %+v", results.Songs)
	}
	if results.Songs[0].Artist == nil || results.Songs[0].Artist.Name != "The Weeknd" {
		t.Fatalf("expected resolved artist, got %+v", results.Songs[0].Artist)
	}
}

func TestRecentlyPlayedFlow(t *testing.T) {
	handler, mem := newCatalogServer(t)

	song, err := mem.CreateSong(context.Background(), store.Song{Title: "Track"})
	if err != nil {
		t.Fatalf("CreateSong: %v", err)
	}

	rec := doJSON(t, handler, http.MethodPost, "/api/recently-played", `{"userId":1,"songId":1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record play: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/recently-played/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var recent []store.SongWithDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &recent); err != nil {
		t.Fatalf("decode recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != song.ID {
		t.Fatalf("unexpected recent plays %+v", recent)
	}
}

func TestListArtistsEmptyIsJSONArray(t *testing.T) {
	handler, _ := newCatalogServer(t)

	rec := doJSON(t, handler, http.MethodGet, "/api/artists", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", rec.Body.String())
	}
}
