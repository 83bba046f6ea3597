package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"mdrive/internal/config"
	"mdrive/internal/database"
	"mdrive/internal/drive"
	"mdrive/internal/storage"
	"mdrive/internal/websocket"

	"github.com/go-chi/chi/v5"
	gorillaws "github.com/gorilla/websocket"
	"github.com/jaevor/go-nanoid"
	"github.com/rs/zerolog/log"
)

const refreshTokenLength = 40

type Server struct {
	config   *config.Config
	store    *database.Store
	drive    *drive.Service
	objects  storage.ObjectStore
	wsHub    *websocket.Hub
	upgrader gorillaws.Upgrader
	newToken func() string
}

func NewServer(cfg *config.Config, store *database.Store, driveService *drive.Service, objects storage.ObjectStore, wsHub *websocket.Hub) (*Server, error) {
	newToken, err := nanoid.Standard(refreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &Server{
		config:   cfg,
		store:    store,
		drive:    driveService,
		objects:  objects,
		wsHub:    wsHub,
		upgrader: websocket.NewUpgrader(cfg.CORS.AllowedOrigins),
		newToken: newToken,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// writeDriveError maps a drive failure kind to its HTTP status. Anything
// unexpected is logged and hidden behind a 500.
func writeDriveError(w http.ResponseWriter, r *http.Request, err error) {
	switch drive.Kind(err) {
	case "unauthorized":
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case "not_found":
		http.Error(w, err.Error(), http.StatusNotFound)
	case "validation":
		http.Error(w, err.Error(), http.StatusBadRequest)
	case "partial_delete":
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("folder deleted with leftover files")
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("drive operation failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}
