package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Chat (RAG-enabled streaming chat)
	mux.HandleFunc("/api/chat", s.app.ChatHandler.ChatHandler)
	mux.HandleFunc("/api/chat/health", s.app.ChatHandler.HealthHandler)

	// API routes - Ingestion
	mux.HandleFunc("/api/ingest", s.app.IngestHandler.IngestHandler)
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ListHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unknown paths
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
