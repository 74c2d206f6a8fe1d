package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"melodex/internal/store"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UserID      int64  `json:"userId"`
	ImageURL    string `json:"imageUrl"`
	IsPublic    bool   `json:"isPublic"`
}

type playlistSongRequest struct {
	SongID   int64 `json:"songId"`
	Position int   `json:"position"`
}

func (s *Server) handleListUserPlaylists(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	playlists, err := s.playlists.ListByUser(r.Context(), userID)
	if err != nil {
		internalError(w, err, "Failed to fetch playlists")
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid playlist id")
		return
	}

	playlist, err := s.playlists.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrPlaylistNotFound) {
			notFound(w, "Playlist not found")
			return
		}
		internalError(w, err, "Failed to fetch playlist")
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid playlist data")
		return
	}
	if req.Name == "" {
		badRequest(w, "Invalid playlist data", fieldError{Field: "name", Message: "name is required"})
		return
	}

	playlist, err := s.playlists.Create(r.Context(), store.Playlist{
		Name:        req.Name,
		Description: req.Description,
		UserID:      req.UserID,
		ImageURL:    req.ImageURL,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		internalError(w, err, "Failed to create playlist")
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handleAddPlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid playlist id")
		return
	}

	var req playlistSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if req.SongID == 0 {
		badRequest(w, "songId is required", fieldError{Field: "songId", Message: "songId is required"})
		return
	}

	entry, err := s.playlists.AddSong(r.Context(), store.PlaylistSong{
		PlaylistID: playlistID,
		SongID:     req.SongID,
		Position:   req.Position,
	})
	if err != nil {
		internalError(w, err, "Failed to add song to playlist")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// handleRemovePlaylistSong responds 204 whether or not a matching row
// existed; at most one duplicate is removed per call.
func (s *Server) handleRemovePlaylistSong(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "Invalid playlist id")
		return
	}
	songID, ok := pathID(r, "songId")
	if !ok {
		badRequest(w, "Invalid song id")
		return
	}

	if err := s.playlists.RemoveSong(r.Context(), playlistID, songID); err != nil {
		internalError(w, err, "Failed to remove song from playlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
