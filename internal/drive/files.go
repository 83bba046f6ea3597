package drive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mdrive/internal/database"
	"mdrive/internal/models"
	"mdrive/internal/storage"

	"github.com/rs/zerolog/log"
)

func (s *Service) getFile(ctx context.Context, ownerID, fileID int64) (*models.File, error) {
	file, err := s.repo.GetFileByID(ctx, fileID, ownerID)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fileNotFound(fileID)
	}
	return file, nil
}

func (s *Service) GetFile(ctx context.Context, ownerID, fileID int64) (*models.File, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.getFile(ctx, ownerID, fileID)
}

// ListFiles returns the files directly in parentID ordered by id.
func (s *Service) ListFiles(ctx context.Context, ownerID, parentID int64) (files []models.File, err error) {
	defer func() { observe("list_files", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if _, err := s.getFolder(ctx, ownerID, parentID); err != nil {
		return nil, err
	}
	return s.repo.ListFilesByParent(ctx, ownerID, parentID)
}

// CreateFile records a file whose contents were already uploaded to url.
func (s *Service) CreateFile(ctx context.Context, ownerID int64, name string, size int64, url string, parentID int64) (file *models.File, err error) {
	defer func() { observe("create_file", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	if err := validateFileInput(size, url); err != nil {
		return nil, err
	}
	if _, err := s.getFolder(ctx, ownerID, parentID); err != nil {
		return nil, err
	}

	file, err = s.repo.CreateFile(ctx, database.CreateFileParams{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
		Size:     size,
		URL:      url,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("owner_id", ownerID).Int64("file_id", file.ID).Int64("parent_id", parentID).Msg("file created")
	s.notify(ctx, ownerID, EventFileCreated, map[string]interface{}{
		"file_id":   file.ID,
		"parent_id": parentID,
		"name":      file.Name,
		"size":      file.Size,
	})
	return file, nil
}

// UploadFile stores body in the object store and records it under parentID.
// The object is removed again if the row cannot be written.
func (s *Service) UploadFile(ctx context.Context, ownerID, parentID int64, name string, size int64, contentType string, body io.Reader) (*models.File, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.getFolder(ctx, ownerID, parentID); err != nil {
		return nil, err
	}

	key := s.newKey()
	url, err := s.objects.Save(ctx, key, body, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	file, err := s.CreateFile(ctx, ownerID, name, size, url, parentID)
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			log.Error().Err(delErr).Str("key", key).Msg("failed to remove object of rejected upload")
		}
		return nil, err
	}
	return file, nil
}

// DeleteFile removes the stored object and then the file row. With
// suppressSideEffects the refresh event is skipped, for callers that batch
// several deletions behind one event.
func (s *Service) DeleteFile(ctx context.Context, ownerID, fileID int64, suppressSideEffects bool) (err error) {
	defer func() { observe("delete_file", err) }()

	if err := requireOwner(ownerID); err != nil {
		return err
	}
	return s.deleteFile(ctx, ownerID, fileID, suppressSideEffects)
}

func (s *Service) deleteFile(ctx context.Context, ownerID, fileID int64, suppressSideEffects bool) error {
	file, err := s.getFile(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	if err := s.deleteObject(ctx, file); err != nil {
		return err
	}

	ok, err := s.repo.DeleteFile(ctx, fileID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return fileNotFound(fileID)
	}

	if !suppressSideEffects {
		log.Info().Int64("owner_id", ownerID).Int64("file_id", fileID).Msg("file deleted")
		s.notify(ctx, ownerID, EventFileDeleted, map[string]interface{}{
			"file_id":   fileID,
			"parent_id": file.ParentID,
		})
	}
	return nil
}

// deleteObject skips files whose URL points outside the configured store;
// there is nothing of ours to remove for them.
func (s *Service) deleteObject(ctx context.Context, file *models.File) error {
	key, err := s.objects.KeyFromURL(file.URL)
	if errors.Is(err, storage.ErrForeignURL) {
		log.Warn().Int64("file_id", file.ID).Str("url", file.URL).Msg("file url is not managed by the object store, skipping object delete")
		objectDeletesTotal.WithLabelValues("skipped").Inc()
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.objects.Delete(ctx, key); err != nil {
		objectDeletesTotal.WithLabelValues("error").Inc()
		return err
	}
	objectDeletesTotal.WithLabelValues("ok").Inc()
	return nil
}

// MoveFile reassigns the file to newParentID. Both must belong to the caller.
func (s *Service) MoveFile(ctx context.Context, ownerID, fileID, newParentID int64) (file *models.File, err error) {
	defer func() { observe("move_file", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	file, err = s.getFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.getFolder(ctx, ownerID, newParentID); err != nil {
		return nil, err
	}
	if file.ParentID == newParentID {
		return file, nil
	}

	ok, err := s.repo.MoveFile(ctx, fileID, ownerID, newParentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fileNotFound(fileID)
	}

	oldParentID := file.ParentID
	file.ParentID = newParentID

	s.notify(ctx, ownerID, EventFileMoved, map[string]interface{}{
		"file_id":       fileID,
		"old_parent_id": oldParentID,
		"new_parent_id": newParentID,
	})
	return file, nil
}
