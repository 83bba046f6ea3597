package database

import (
	"context"
	"errors"

	"mdrive/internal/models"

	"github.com/jackc/pgx/v5"
)

const fileColumns = `id, owner_id, name, size, url, parent_id, created_at`

func scanFile(row pgx.Row) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.OwnerID,
		&file.Name,
		&file.Size,
		&file.URL,
		&file.ParentID,
		&file.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}

type CreateFileParams struct {
	OwnerID  int64
	ParentID int64
	Name     string
	Size     int64
	URL      string
}

func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (*models.File, error) {
	query := `
		INSERT INTO files (owner_id, name, size, url, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + fileColumns

	return scanFile(q.db.QueryRow(ctx, query, arg.OwnerID, arg.Name, arg.Size, arg.URL, arg.ParentID))
}

func (q *Queries) GetFileByID(ctx context.Context, id int64, ownerID int64) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1 AND owner_id = $2`

	file, err := scanFile(q.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

func (q *Queries) ListFilesByParent(ctx context.Context, ownerID int64, parentID int64) ([]models.File, error) {
	query := `
		SELECT ` + fileColumns + `
		FROM files
		WHERE owner_id = $1 AND parent_id = $2
		ORDER BY id ASC
	`
	rows, err := q.db.Query(ctx, query, ownerID, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, *file)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if files == nil {
		return []models.File{}, nil
	}

	return files, nil
}

func (q *Queries) MoveFile(ctx context.Context, id int64, ownerID int64, newParentID int64) (bool, error) {
	query := `UPDATE files SET parent_id = $1 WHERE id = $2 AND owner_id = $3`

	res, err := q.db.Exec(ctx, query, newParentID, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}

func (q *Queries) DeleteFile(ctx context.Context, id int64, ownerID int64) (bool, error) {
	query := `DELETE FROM files WHERE id = $1 AND owner_id = $2`

	res, err := q.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() > 0, nil
}
