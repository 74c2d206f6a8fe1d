package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"melodex/internal/store"
)

// CatalogService coordinates artist, album, and song workflows.
type CatalogService interface {
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

// PlaylistService coordinates playlist workflows.
type PlaylistService interface {
	Create(ctx context.Context, playlist store.Playlist) (store.Playlist, error)
	ListByUser(ctx context.Context, userID int64) ([]store.Playlist, error)
	Get(ctx context.Context, id int64) (store.PlaylistWithSongs, error)
	AddSong(ctx context.Context, entry store.PlaylistSong) (store.PlaylistSong, error)
	RemoveSong(ctx context.Context, playlistID, songID int64) error
}

// HistoryService tracks playback history.
type HistoryService interface {
	Record(ctx context.Context, userID, songID int64) error
	Recent(ctx context.Context, userID int64) ([]store.SongWithDetails, error)
}

// SearchService runs catalog-wide search.
type SearchService interface {
	Search(ctx context.Context, query string) (store.SearchResults, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	catalog   CatalogService
	playlists PlaylistService
	history   HistoryService
	search    SearchService
}

// New configures a Server with the given services.
func New(catalog CatalogService, playlists PlaylistService, history HistoryService, search SearchService) *Server {
	return &Server{
		catalog:   catalog,
		playlists: playlists,
		history:   history,
		search:    search,
	}
}

// Routes exposes the HTTP handlers for the catalog API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Artist routes
	mux.HandleFunc("GET /api/artists", s.handleListArtists)
	mux.HandleFunc("POST /api/artists", s.handleCreateArtist)
	mux.HandleFunc("GET /api/artists/{id}", s.handleGetArtist)
	mux.HandleFunc("GET /api/artists/{id}/albums", s.handleListArtistAlbums)
	mux.HandleFunc("GET /api/artists/{id}/songs", s.handleListArtistSongs)

	// Album routes
	mux.HandleFunc("GET /api/albums", s.handleListAlbums)
	mux.HandleFunc("POST /api/albums", s.handleCreateAlbum)
	mux.HandleFunc("GET /api/albums/{id}", s.handleGetAlbum)

	// Song routes
	mux.HandleFunc("GET /api/songs", s.handleListSongs)
	mux.HandleFunc("POST /api/songs", s.handleCreateSong)
	mux.HandleFunc("GET /api/songs/{id}", s.handleGetSong)

	// Playlist routes
	mux.HandleFunc("GET /api/playlists/user/{userId}", s.handleListUserPlaylists)
	mux.HandleFunc("GET /api/playlists/{id}", s.handleGetPlaylist)
	mux.HandleFunc("POST /api/playlists", s.handleCreatePlaylist)
	mux.HandleFunc("POST /api/playlists/{id}/songs", s.handleAddPlaylistSong)
	mux.HandleFunc("DELETE /api/playlists/{id}/songs/{songId}", s.handleRemovePlaylistSong)

	// Recently played routes
	mux.HandleFunc("GET /api/recently-played/{userId}", s.handleRecentlyPlayed)
	mux.HandleFunc("POST /api/recently-played", s.handleRecordPlay)

	// Search
	mux.HandleFunc("GET /api/search", s.handleSearch)

	return mux
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string       `json:"message"`
	Errors  []fieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func badRequest(w http.ResponseWriter, message string, errs ...fieldError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: message, Errors: errs})
}

func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Message: message})
}

// internalError hides the cause from the client and logs it instead.
func internalError(w http.ResponseWriter, err error, message string) {
	log.Error().Err(err).Msg(message)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Message: message})
}

// pathID parses a numeric path segment. Non-numeric values are a client
// error, not a lookup miss.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
