package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"melodex/internal/store"
)

type albumRequest struct {
	Title       string `json:"title"`
	ArtistID    *int64 `json:"artistId"`
	ImageURL    string `json:"imageUrl"`
	ReleaseYear int    `json:"releaseYear"`
	Genre       string `json:"genre"`
}

func (s *Server) handleListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := s.catalog.ListAlbums(r.Context())
	if err != nil {
		internalError(w, err, "Failed to fetch albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleGetAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid album id")
		return
	}

	album, err := s.catalog.GetAlbum(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrAlbumNotFound) {
			notFound(w, "Album not found")
			return
		}
		internalError(w, err, "Failed to fetch album")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleCreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req albumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid album data")
		return
	}
	if req.Title == "" {
		badRequest(w, "Invalid album data", fieldError{Field: "title", Message: "title is required"})
		return
	}

	album, err := s.catalog.CreateAlbum(r.Context(), store.Album{
		Title:       req.Title,
		ArtistID:    req.ArtistID,
		ImageURL:    req.ImageURL,
		ReleaseYear: req.ReleaseYear,
		Genre:       req.Genre,
	})
	if err != nil {
		internalError(w, err, "Failed to create album")
		return
	}
	writeJSON(w, http.StatusCreated, album)
}
