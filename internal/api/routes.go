package api

import "net/http"

func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /revision", handler.HandleRevision)
	mux.HandleFunc("POST /transcribe", handler.HandleTranscribe)
}
