package api

import (
	"encoding/json"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateFolderRequest struct {
	Name     string `json:"name" example:"Invoices"`
	ParentID int64  `json:"parent_id" example:"42"`
}

func (r CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.ParentID, validation.Required, validation.Min(int64(1))),
	)
}

type RenameFolderRequest struct {
	Name string `json:"name" example:"Receipts"`
}

// @Summary      Open a folder
// @Description  Returns the folder with its sub-folders, files and ancestor chain. Folder id 0 opens the root.
// @Tags         folders
// @Produce      json
// @Security     BearerAuth
// @Param        folderId  path      int  true  "Folder ID, 0 for the root"
// @Success      200       {object}  drive.FolderView
// @Failure      400       {string}  string "Invalid folder ID"
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Folder not found"
// @Failure      500       {string}  string "Internal Server Error"
// @Router       /folders/{folderId} [get]
func (s *Server) GetFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID, err := idParam(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := s.drive.Browse(r.Context(), callerID(r), folderID)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// @Summary      Folder path
// @Description  Returns the folders from the root down to the given folder.
// @Tags         folders
// @Produce      json
// @Security     BearerAuth
// @Param        folderId  path      int  true  "Folder ID"
// @Success      200       {array}   models.Folder
// @Failure      400       {string}  string "Invalid folder ID"
// @Failure      401       {string}  string "Unauthorized"
// @Failure      404       {string}  string "Folder or one of its ancestors not found"
// @Failure      500       {string}  string "Internal Server Error"
// @Router       /folders/{folderId}/path [get]
func (s *Server) GetFolderPathHandler(w http.ResponseWriter, r *http.Request) {
	folderID, err := idParam(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	chain, err := s.drive.ResolveAncestorChain(r.Context(), callerID(r), folderID)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chain)
}

// @Summary      Create a folder
// @Tags         folders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createFolderRequest  body      CreateFolderRequest  true  "Folder name and parent"
// @Success      201                  {object}  models.Folder
// @Failure      400                  {string}  string "Invalid request body"
// @Failure      401                  {string}  string "Unauthorized"
// @Failure      404                  {string}  string "Parent folder not found"
// @Failure      500                  {string}  string "Internal Server Error"
// @Router       /folders [post]
func (s *Server) CreateFolderHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	folder, err := s.drive.CreateFolder(r.Context(), callerID(r), req.Name, req.ParentID)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, folder)
}

// @Summary      Rename a folder
// @Tags         folders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        folderId             path      int                  true  "Folder ID"
// @Param        renameFolderRequest  body      RenameFolderRequest  true  "New name"
// @Success      200                  {object}  models.Folder
// @Failure      400                  {string}  string "Invalid request body"
// @Failure      401                  {string}  string "Unauthorized"
// @Failure      404                  {string}  string "Folder not found"
// @Failure      500                  {string}  string "Internal Server Error"
// @Router       /folders/{folderId} [patch]
func (s *Server) RenameFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID, err := idParam(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req RenameFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	folder, err := s.drive.RenameFolder(r.Context(), callerID(r), folderID, req.Name)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// @Summary      Delete a folder
// @Description  Deletes the folder and the files directly inside it. Sub-folders are kept.
// @Tags         folders
// @Security     BearerAuth
// @Param        folderId  path      int     true  "Folder ID"
// @Success      204       {null}    nil     "No Content"
// @Failure      400       {string}  string  "Invalid folder ID or root folder"
// @Failure      401       {string}  string  "Unauthorized"
// @Failure      404       {string}  string  "Folder not found"
// @Failure      502       {string}  string  "Folder deleted but some files could not be removed"
// @Failure      500       {string}  string  "Internal Server Error"
// @Router       /folders/{folderId} [delete]
func (s *Server) DeleteFolderHandler(w http.ResponseWriter, r *http.Request) {
	folderID, err := idParam(r, "folderId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.drive.DeleteFolder(r.Context(), callerID(r), folderID); err != nil {
		writeDriveError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
