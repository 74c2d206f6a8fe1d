package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"melodex/internal/store"
)

type songRequest struct {
	Title    string `json:"title"`
	ArtistID *int64 `json:"artistId"`
	AlbumID  *int64 `json:"albumId"`
	Duration int    `json:"duration"`
	AudioURL string `json:"audioUrl"`
	Genre    string `json:"genre"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.catalog.ListSongs(r.Context())
	if err != nil {
		internalError(w, err, "Failed to fetch songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid song id")
		return
	}

	song, err := s.catalog.GetSong(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSongNotFound) {
			notFound(w, "Song not found")
			return
		}
		internalError(w, err, "Failed to fetch song")
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid song data")
		return
	}
	if req.Title == "" {
		badRequest(w, "Invalid song data", fieldError{Field: "title", Message: "title is required"})
		return
	}

	song, err := s.catalog.CreateSong(r.Context(), store.Song{
		Title:    req.Title,
		ArtistID: req.ArtistID,
		AlbumID:  req.AlbumID,
		Duration: req.Duration,
		AudioURL: req.AudioURL,
		Genre:    req.Genre,
	})
	if err != nil {
		internalError(w, err, "Failed to create song")
		return
	}
	writeJSON(w, http.StatusCreated, song)
}
