package drive

import (
	"context"

	"mdrive/internal/database"
	"mdrive/internal/models"
)

// Repository is the persistence the drive runs on. Lookups return nil, nil
// when the row does not exist for the given owner; mutations report whether
// a row was affected.
type Repository interface {
	GetRootFolder(ctx context.Context, ownerID int64) (*models.Folder, error)
	GetFolderByID(ctx context.Context, id int64, ownerID int64) (*models.Folder, error)
	ListFoldersByParent(ctx context.Context, ownerID int64, parentID int64) ([]models.Folder, error)
	CreateFolder(ctx context.Context, arg database.CreateFolderParams) (*models.Folder, error)
	RenameFolder(ctx context.Context, id int64, ownerID int64, newName string) (bool, error)
	DeleteFolder(ctx context.Context, id int64, ownerID int64) (bool, error)

	GetFileByID(ctx context.Context, id int64, ownerID int64) (*models.File, error)
	ListFilesByParent(ctx context.Context, ownerID int64, parentID int64) ([]models.File, error)
	CreateFile(ctx context.Context, arg database.CreateFileParams) (*models.File, error)
	MoveFile(ctx context.Context, id int64, ownerID int64, newParentID int64) (bool, error)
	DeleteFile(ctx context.Context, id int64, ownerID int64) (bool, error)

	OnboardUser(ctx context.Context, ownerID int64, rootName string, children []string) (*models.Folder, bool, error)
}

var _ Repository = (*database.Store)(nil)
