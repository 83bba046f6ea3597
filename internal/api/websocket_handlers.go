package api

import (
	"net/http"

	"mdrive/internal/auth"
	"mdrive/internal/websocket"

	"github.com/rs/zerolog/log"
)

// ServeWsHandler upgrades to a websocket that receives the caller's drive
// events. Browsers cannot set headers on the upgrade, so the access token
// travels in the query string.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "token query parameter required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		log.Debug().Err(err).Msg("websocket connection with invalid token")
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.UserID)
	if !s.wsHub.Join(client) {
		conn.Close()
		return
	}

	go client.ReadPump()
	go client.WritePump()
}
