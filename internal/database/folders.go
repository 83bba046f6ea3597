package database

import (
	"context"
	"errors"

	"mdrive/internal/models"

	"github.com/jackc/pgx/v5"
)

const folderColumns = `id, owner_id, name, parent_id, created_at`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.Name,
		&folder.ParentID,
		&folder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func collectFolders(rows pgx.Rows) ([]models.Folder, error) {
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, *folder)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if folders == nil {
		return []models.Folder{}, nil
	}

	return folders, nil
}

type CreateFolderParams struct {
	OwnerID  int64
	ParentID *int64
	Name     string
}

func (q *Queries) CreateFolder(ctx context.Context, arg CreateFolderParams) (*models.Folder, error) {
	query := `
		INSERT INTO folders (owner_id, name, parent_id)
		VALUES ($1, $2, $3)
		RETURNING ` + folderColumns

	return scanFolder(q.db.QueryRow(ctx, query, arg.OwnerID, arg.Name, arg.ParentID))
}

// GetFolderByID returns nil when the folder does not exist or belongs to
// another owner.
func (q *Queries) GetFolderByID(ctx context.Context, id int64, ownerID int64) (*models.Folder, error) {
	query := `SELECT ` + folderColumns + ` FROM folders WHERE id = $1 AND owner_id = $2`

	folder, err := scanFolder(q.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return folder, nil
}

func (q *Queries) GetRootFolder(ctx context.Context, ownerID int64) (*models.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND parent_id IS NULL
		ORDER BY id
		LIMIT 1
	`

	folder, err := scanFolder(q.db.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return folder, nil
}

func (q *Queries) ListFoldersByParent(ctx context.Context, ownerID int64, parentID int64) ([]models.Folder, error) {
	query := `
		SELECT ` + folderColumns + `
		FROM folders
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY id ASC
	`
	rows, err := q.db.Query(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	return collectFolders(rows)
}

func (q *Queries) RenameFolder(ctx context.Context, id int64, ownerID int64, newName string) (bool, error) {
	query := `UPDATE folders SET name = $1 WHERE id = $2 AND owner_id = $3`

	res, err := q.db.Exec(ctx, query, newName, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

// DeleteFolder removes only the folder row. Files and sub-folders are left
// to the caller.
func (q *Queries) DeleteFolder(ctx context.Context, id int64, ownerID int64) (bool, error) {
	query := `DELETE FROM folders WHERE id = $1 AND owner_id = $2`

	res, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) CountRootFolders(ctx context.Context, ownerID int64) (int, error) {
	var count int
	query := `SELECT count(*) FROM folders WHERE owner_id = $1 AND parent_id IS NULL`
	err := q.db.QueryRow(ctx, query, ownerID).Scan(&count)
	return count, err
}
