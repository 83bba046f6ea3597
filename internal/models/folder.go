package models

import "time"

// Folder is a node of a user's folder tree. ParentID is nil only for the
// user's root folder.
type Folder struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
