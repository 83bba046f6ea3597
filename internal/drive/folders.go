package drive

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"mdrive/internal/database"
	"mdrive/internal/models"

	"github.com/rs/zerolog/log"
)

func (s *Service) getFolder(ctx context.Context, ownerID, folderID int64) (*models.Folder, error) {
	folder, err := s.repo.GetFolderByID(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, folderNotFound(folderID)
	}
	return folder, nil
}

// GetRoot returns the owner's root folder, or ErrNotFound if the user has
// not been onboarded yet.
func (s *Service) GetRoot(ctx context.Context, ownerID int64) (folder *models.Folder, err error) {
	defer func() { observe("get_root", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	folder, err = s.repo.GetRootFolder(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if folder == nil {
		return nil, fmt.Errorf("%w: no root folder for user %d", ErrNotFound, ownerID)
	}
	return folder, nil
}

func (s *Service) GetFolder(ctx context.Context, ownerID, folderID int64) (*models.Folder, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	return s.getFolder(ctx, ownerID, folderID)
}

// ListFolders returns the direct sub-folders of parentID ordered by id.
func (s *Service) ListFolders(ctx context.Context, ownerID, parentID int64) (folders []models.Folder, err error) {
	defer func() { observe("list_folders", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if _, err := s.getFolder(ctx, ownerID, parentID); err != nil {
		return nil, err
	}
	return s.repo.ListFoldersByParent(ctx, ownerID, parentID)
}

// ResolveAncestorChain returns the folders from the owner's root down to
// folderID inclusive. A missing link yields ErrNotFound; a loop or a chain
// deeper than the configured limit yields ErrCorrupt.
func (s *Service) ResolveAncestorChain(ctx context.Context, ownerID, folderID int64) (chain []models.Folder, err error) {
	defer func() { observe("resolve_ancestors", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	visited := make(map[int64]struct{})
	current := &folderID
	for current != nil {
		id := *current
		if _, seen := visited[id]; seen {
			return nil, fmt.Errorf("%w: cycle through folder %d", ErrCorrupt, id)
		}
		if len(chain) >= s.maxDepth {
			return nil, fmt.Errorf("%w: folder %d is nested deeper than %d", ErrCorrupt, folderID, s.maxDepth)
		}
		visited[id] = struct{}{}

		folder, err := s.repo.GetFolderByID(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, fmt.Errorf("%w: ancestor %d of folder %d", ErrNotFound, id, folderID)
		}

		chain = append(chain, *folder)
		current = folder.ParentID
	}

	slices.Reverse(chain)
	return chain, nil
}

// CreateFolder adds a folder under parentID. Sibling names may repeat.
func (s *Service) CreateFolder(ctx context.Context, ownerID int64, name string, parentID int64) (folder *models.Folder, err error) {
	defer func() { observe("create_folder", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	name, err = normalizeName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.getFolder(ctx, ownerID, parentID); err != nil {
		return nil, err
	}

	folder, err = s.repo.CreateFolder(ctx, database.CreateFolderParams{
		OwnerID:  ownerID,
		ParentID: &parentID,
		Name:     name,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("owner_id", ownerID).Int64("folder_id", folder.ID).Int64("parent_id", parentID).Msg("folder created")
	s.notify(ctx, ownerID, EventFolderCreated, map[string]interface{}{
		"folder_id": folder.ID,
		"parent_id": parentID,
		"name":      folder.Name,
	})
	return folder, nil
}

// RenameFolder checks ownership before updating, so a foreign or missing
// folder is reported as ErrNotFound instead of silently matching no rows.
func (s *Service) RenameFolder(ctx context.Context, ownerID, folderID int64, newName string) (folder *models.Folder, err error) {
	defer func() { observe("rename_folder", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	newName, err = normalizeName(newName)
	if err != nil {
		return nil, err
	}
	folder, err = s.getFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.RenameFolder(ctx, folderID, ownerID, newName)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, folderNotFound(folderID)
	}
	folder.Name = newName

	s.notify(ctx, ownerID, EventFolderRenamed, map[string]interface{}{
		"folder_id": folderID,
		"name":      newName,
	})
	return folder, nil
}

// DeleteFolder removes every file directly in the folder, then the folder
// itself. Sub-folders are left in place with a dangling parent. File
// failures do not stop the folder from being deleted; they are reported
// together under ErrPartialDelete afterwards.
func (s *Service) DeleteFolder(ctx context.Context, ownerID, folderID int64) (err error) {
	defer func() { observe("delete_folder", err) }()

	if err := requireOwner(ownerID); err != nil {
		return err
	}
	folder, err := s.getFolder(ctx, ownerID, folderID)
	if err != nil {
		return err
	}
	if folder.IsRoot() {
		return fmt.Errorf("%w: the root folder cannot be deleted", ErrValidation)
	}

	files, err := s.repo.ListFilesByParent(ctx, ownerID, folderID)
	if err != nil {
		return err
	}

	var failures []error
	for _, file := range files {
		if err := s.deleteFile(ctx, ownerID, file.ID, true); err != nil {
			log.Warn().Err(err).
				Int64("owner_id", ownerID).
				Int64("folder_id", folderID).
				Int64("file_id", file.ID).
				Msg("failed to delete file of deleted folder")
			failures = append(failures, fmt.Errorf("file %d: %w", file.ID, err))
		}
	}

	ok, err := s.repo.DeleteFolder(ctx, folderID, ownerID)
	if err != nil {
		return errors.Join(append([]error{err}, failures...)...)
	}
	if !ok {
		return folderNotFound(folderID)
	}

	log.Info().Int64("owner_id", ownerID).Int64("folder_id", folderID).
		Int("files_deleted", len(files)-len(failures)).
		Msg("folder deleted")
	s.notify(ctx, ownerID, EventFolderDeleted, map[string]interface{}{
		"folder_id":     folderID,
		"parent_id":     folder.ParentID,
		"files_deleted": len(files) - len(failures),
	})

	if len(failures) > 0 {
		return fmt.Errorf("%w: %d file(s) of folder %d remain: %w", ErrPartialDelete, len(failures), folderID, errors.Join(failures...))
	}
	return nil
}
