package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"mdrive/internal/storage"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

const multipartMemory = 32 << 20

type MoveFileRequest struct {
	FolderID int64 `json:"folder_id" example:"42"`
}

func (r MoveFileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FolderID, validation.Required, validation.Min(int64(1))),
	)
}

// @Summary      Upload a file
// @Description  Stores the uploaded file and records it in the given folder.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file       formData  file    true  "File contents"
// @Param        folder_id  formData  int     true  "Target folder ID"
// @Success      201        {object}  models.File
// @Failure      400        {string}  string  "Invalid form"
// @Failure      401        {string}  string  "Unauthorized"
// @Failure      404        {string}  string  "Folder not found"
// @Failure      413        {string}  string  "File too large"
// @Failure      500        {string}  string  "Internal Server Error"
// @Router       /files [post]
func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, fmt.Sprintf("File exceeds the %d byte limit", maxErr.Limit), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	folderID, err := strconv.ParseInt(r.FormValue("folder_id"), 10, 64)
	if err != nil || folderID <= 0 {
		http.Error(w, "Invalid folder_id", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	created, err := s.drive.UploadFile(r.Context(), callerID(r), folderID, header.Filename, header.Size, contentType, file)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// @Summary      Download a file
// @Tags         files
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        fileId  path      int     true  "File ID"
// @Success      200     {file}    binary
// @Success      302     {string}  string  "Redirect for files stored outside the object store"
// @Failure      400     {string}  string  "Invalid file ID"
// @Failure      401     {string}  string  "Unauthorized"
// @Failure      404     {string}  string  "File not found"
// @Failure      500     {string}  string  "Internal Server Error"
// @Router       /files/{fileId}/download [get]
func (s *Server) DownloadFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID, err := idParam(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := s.drive.GetFile(r.Context(), callerID(r), fileID)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}

	key, err := s.objects.KeyFromURL(file.URL)
	if errors.Is(err, storage.ErrForeignURL) {
		http.Redirect(w, r, file.URL, http.StatusFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("file_id", file.ID).Msg("file has an unusable url")
		http.Error(w, "File not found on storage", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	s.streamObject(w, r, key, file.Name)
}

// @Summary      Move a file
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        fileId           path      int              true  "File ID"
// @Param        moveFileRequest  body      MoveFileRequest  true  "Target folder"
// @Success      200              {object}  models.File
// @Failure      400              {string}  string "Invalid request body"
// @Failure      401              {string}  string "Unauthorized"
// @Failure      404              {string}  string "File or folder not found"
// @Failure      500              {string}  string "Internal Server Error"
// @Router       /files/{fileId} [patch]
func (s *Server) MoveFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID, err := idParam(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req MoveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := s.drive.MoveFile(r.Context(), callerID(r), fileID, req.FolderID)
	if err != nil {
		writeDriveError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// @Summary      Delete a file
// @Tags         files
// @Security     BearerAuth
// @Param        fileId  path      int     true  "File ID"
// @Success      204     {null}    nil     "No Content"
// @Failure      400     {string}  string  "Invalid file ID"
// @Failure      401     {string}  string  "Unauthorized"
// @Failure      404     {string}  string  "File not found"
// @Failure      500     {string}  string  "Internal Server Error"
// @Router       /files/{fileId} [delete]
func (s *Server) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	fileID, err := idParam(r, "fileId")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.drive.DeleteFile(r.Context(), callerID(r), fileID, false); err != nil {
		writeDriveError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeObjectHandler serves the public URLs handed out by the local object
// store. Keys are unguessable, so no authentication is required.
func (s *Server) ServeObjectHandler(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.streamObject(w, r, key, key)
}

func (s *Server) streamObject(w http.ResponseWriter, r *http.Request, key, name string) {
	body, err := s.objects.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			http.Error(w, "File not found on storage", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("key", key).Msg("failed to open object")
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	if seeker, ok := body.(io.ReadSeeker); ok {
		w.Header().Del("Content-Length")
		http.ServeContent(w, r, name, time.Time{}, seeker)
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("download interrupted")
	}
}
