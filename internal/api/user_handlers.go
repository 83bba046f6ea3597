package api

import (
	"net/http"

	"mdrive/internal/models"

	"github.com/rs/zerolog/log"
)

type CurrentUserResponse struct {
	models.User
	RootFolderID *int64 `json:"root_folder_id" example:"1"`
}

// @Summary      Get current user info
// @Description  Returns the authenticated user and the id of their root folder, null before onboarding.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  CurrentUserResponse
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "User not found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r)

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load user")
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	resp := CurrentUserResponse{User: *user}
	root, err := s.store.GetRootFolder(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("failed to load root folder")
		http.Error(w, "Failed to retrieve user data", http.StatusInternalServerError)
		return
	}
	if root != nil {
		resp.RootFolderID = &root.ID
	}

	writeJSON(w, http.StatusOK, resp)
}
