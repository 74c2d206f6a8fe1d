package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"melodex/internal/store"
)

type artistRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Bio      string `json:"bio"`
}

func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	artists, err := s.catalog.ListArtists(r.Context())
	if err != nil {
		internalError(w, err, "Failed to fetch artists")
		return
	}
	writeJSON(w, http.StatusOK, artists)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid artist id")
		return
	}

	artist, err := s.catalog.GetArtist(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrArtistNotFound) {
			notFound(w, "Artist not found")
			return
		}
		internalError(w, err, "Failed to fetch artist")
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req artistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid artist data")
		return
	}
	if req.Name == "" {
		badRequest(w, "Invalid artist data", fieldError{Field: "name", Message: "name is required"})
		return
	}

	artist, err := s.catalog.CreateArtist(r.Context(), store.Artist{
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Bio:      req.Bio,
	})
	if err != nil {
		internalError(w, err, "Failed to create artist")
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (s *Server) handleListArtistAlbums(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid artist id")
		return
	}

	albums, err := s.catalog.ListArtistAlbums(r.Context(), id)
	if err != nil {
		internalError(w, err, "Failed to fetch artist albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (s *Server) handleListArtistSongs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid artist id")
		return
	}

	songs, err := s.catalog.ListArtistSongs(r.Context(), id)
	if err != nil {
		internalError(w, err, "Failed to fetch artist songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}
