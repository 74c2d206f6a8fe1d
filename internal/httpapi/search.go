package httpapi

import "net/http"

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		badRequest(w, "Query parameter 'q' is required")
		return
	}

	results, err := s.search.Search(r.Context(), query)
	if err != nil {
		internalError(w, err, "Search failed")
		return
	}
	writeJSON(w, http.StatusOK, results)
}
