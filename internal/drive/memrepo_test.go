package drive

import (
	"context"
	"sort"
	"sync"
	"time"

	"mdrive/internal/database"
	"mdrive/internal/models"
)

// memRepo is an in-memory Repository with the same owner scoping as the
// Postgres queries.
type memRepo struct {
	mu      sync.Mutex
	nextID  int64
	folders map[int64]models.Folder
	files   map[int64]models.File

	createFileErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		folders: make(map[int64]models.Folder),
		files:   make(map[int64]models.File),
	}
}

func (r *memRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memRepo) GetRootFolder(ctx context.Context, ownerID int64) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rootLocked(ownerID), nil
}

func (r *memRepo) rootLocked(ownerID int64) *models.Folder {
	var root *models.Folder
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.ParentID == nil && (root == nil || f.ID < root.ID) {
			f := f
			root = &f
		}
	}
	return root
}

func (r *memRepo) GetFolderByID(ctx context.Context, id int64, ownerID int64) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, nil
	}
	return &f, nil
}

func (r *memRepo) ListFoldersByParent(ctx context.Context, ownerID int64, parentID int64) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Folder{}
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) CreateFolder(ctx context.Context, arg database.CreateFolderParams) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createFolderLocked(arg), nil
}

func (r *memRepo) createFolderLocked(arg database.CreateFolderParams) *models.Folder {
	var parent *int64
	if arg.ParentID != nil {
		p := *arg.ParentID
		parent = &p
	}
	f := models.Folder{ID: r.id(), OwnerID: arg.OwnerID, Name: arg.Name, ParentID: parent, CreatedAt: time.Now()}
	r.folders[f.ID] = f
	return &f
}

func (r *memRepo) RenameFolder(ctx context.Context, id int64, ownerID int64, newName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return false, nil
	}
	f.Name = newName
	r.folders[id] = f
	return true, nil
}

func (r *memRepo) DeleteFolder(ctx context.Context, id int64, ownerID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.OwnerID != ownerID {
		return false, nil
	}
	delete(r.folders, id)
	return true, nil
}

func (r *memRepo) GetFileByID(ctx context.Context, id int64, ownerID int64) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, nil
	}
	return &f, nil
}

func (r *memRepo) ListFilesByParent(ctx context.Context, ownerID int64, parentID int64) ([]models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.File{}
	for _, f := range r.files {
		if f.OwnerID == ownerID && f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) CreateFile(ctx context.Context, arg database.CreateFileParams) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFileErr != nil {
		return nil, r.createFileErr
	}
	f := models.File{ID: r.id(), OwnerID: arg.OwnerID, Name: arg.Name, Size: arg.Size, URL: arg.URL, ParentID: arg.ParentID, CreatedAt: time.Now()}
	r.files[f.ID] = f
	return &f, nil
}

func (r *memRepo) MoveFile(ctx context.Context, id int64, ownerID int64, newParentID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.OwnerID != ownerID {
		return false, nil
	}
	f.ParentID = newParentID
	r.files[id] = f
	return true, nil
}

func (r *memRepo) DeleteFile(ctx context.Context, id int64, ownerID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.OwnerID != ownerID {
		return false, nil
	}
	delete(r.files, id)
	return true, nil
}

func (r *memRepo) OnboardUser(ctx context.Context, ownerID int64, rootName string, children []string) (*models.Folder, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if root := r.rootLocked(ownerID); root != nil {
		return root, false, nil
	}
	root := r.createFolderLocked(database.CreateFolderParams{OwnerID: ownerID, Name: rootName})
	for _, name := range children {
		r.createFolderLocked(database.CreateFolderParams{OwnerID: ownerID, ParentID: &root.ID, Name: name})
	}
	return root, true, nil
}

// setParent rewires a folder without any checks, to build corrupt trees.
func (r *memRepo) setParent(id int64, parentID *int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.folders[id]
	f.ParentID = parentID
	r.folders[id] = f
}

func (r *memRepo) rootCount(ownerID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.folders {
		if f.OwnerID == ownerID && f.ParentID == nil {
			n++
		}
	}
	return n
}

var _ Repository = (*memRepo)(nil)
