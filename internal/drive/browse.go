package drive

import (
	"context"

	"mdrive/internal/models"

	"golang.org/x/sync/errgroup"
)

// FolderView is everything a folder page shows.
type FolderView struct {
	Folder    models.Folder   `json:"folder"`
	Ancestors []models.Folder `json:"ancestors"`
	Folders   []models.Folder `json:"folders"`
	Files     []models.File   `json:"files"`
}

// Browse loads the folder page for folderID, or for the owner's root when
// folderID is 0.
func (s *Service) Browse(ctx context.Context, ownerID, folderID int64) (*FolderView, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var folder *models.Folder
	var err error
	if folderID == 0 {
		folder, err = s.GetRoot(ctx, ownerID)
	} else {
		folder, err = s.getFolder(ctx, ownerID, folderID)
	}
	if err != nil {
		return nil, err
	}

	view := &FolderView{Folder: *folder}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		folders, err := s.repo.ListFoldersByParent(gctx, ownerID, folder.ID)
		view.Folders = folders
		return err
	})
	g.Go(func() error {
		files, err := s.repo.ListFilesByParent(gctx, ownerID, folder.ID)
		view.Files = files
		return err
	})
	g.Go(func() error {
		ancestors, err := s.ResolveAncestorChain(gctx, ownerID, folder.ID)
		view.Ancestors = ancestors
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}
