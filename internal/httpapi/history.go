package httpapi

import (
	"encoding/json"
	"net/http"
)

type recordPlayRequest struct {
	UserID int64 `json:"userId"`
	SongID int64 `json:"songId"`
}

func (s *Server) handleRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		badRequest(w, "Invalid user id")
		return
	}

	songs, err := s.history.Recent(r.Context(), userID)
	if err != nil {
		internalError(w, err, "Failed to fetch recently played")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleRecordPlay(w http.ResponseWriter, r *http.Request) {
	var req recordPlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	var errs []fieldError
	if req.UserID == 0 {
		errs = append(errs, fieldError{Field: "userId", Message: "userId is required"})
	}
	if req.SongID == 0 {
		errs = append(errs, fieldError{Field: "songId", Message: "songId is required"})
	}
	if len(errs) > 0 {
		badRequest(w, "userId and songId are required", errs...)
		return
	}

	if err := s.history.Record(r.Context(), req.UserID, req.SongID); err != nil {
		internalError(w, err, "Failed to add to recently played")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Added to recently played"})
}
