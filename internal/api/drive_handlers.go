package api

import (
	"net/http"

	_ "mdrive/internal/drive"
)

// @Summary      Show the root folder
// @Description  Returns the caller's root folder with its sub-folders, files and ancestor chain.
// @Tags         drive
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  drive.FolderView
// @Failure      401  {string}  string "Unauthorized"
// @Failure      404  {string}  string "Drive not onboarded"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /drive [get]
func (s *Server) GetDriveHandler(w http.ResponseWriter, r *http.Request) {
	view, err := s.drive.Browse(r.Context(), callerID(r), 0)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// @Summary      Create the caller's drive
// @Description  Creates the root folder and the starter folders. Calling it again returns the existing root.
// @Tags         drive
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Folder
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /drive/onboard [post]
func (s *Server) OnboardHandler(w http.ResponseWriter, r *http.Request) {
	root, err := s.drive.OnboardUser(r.Context(), callerID(r))
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}
