package main

import (
	"net/http"

	"melodex/internal/app/catalog"
	"melodex/internal/app/history"
	"melodex/internal/app/playlists"
	"melodex/internal/app/search"
	"melodex/internal/httpapi"
	"melodex/internal/middleware"
	"melodex/internal/store"
)

func newHTTPHandler(cfg Config, dataStore store.Store) http.Handler {
	catalogSvc := catalog.New(dataStore)
	playlistSvc := playlists.New(dataStore)
	historySvc := history.New(dataStore)
	searchSvc := search.New(dataStore)

	handler := httpapi.New(catalogSvc, playlistSvc, historySvc, searchSvc).Routes()
	handler = middleware.CORS(cfg.AllowedOrigins)(handler)
	handler = middleware.RequestLogging()(handler)
	handler = middleware.Recovery()(handler)
	return handler
}
