// Package drive implements the per-user folder hierarchy: listing, ancestor
// resolution and the owner-scoped mutations on folders and files.
package drive

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaevor/go-nanoid"
	"github.com/rs/zerolog/log"
)

const (
	RootFolderName  = "Mdrive"
	DefaultMaxDepth = 256
	objectKeyLength = 21
)

// StarterFolders are created under a new user's root.
var StarterFolders = []string{"Trash", "Shared", "Documents"}

const (
	EventDriveOnboarded = "drive_onboarded"
	EventFolderCreated  = "folder_created"
	EventFolderRenamed  = "folder_renamed"
	EventFolderDeleted  = "folder_deleted"
	EventFileCreated    = "file_created"
	EventFileMoved      = "file_moved"
	EventFileDeleted    = "file_deleted"
)

type Service struct {
	repo     Repository
	objects  ObjectStore
	notifier Notifier
	maxDepth int
	newKey   func() string
}

// NewService wires the drive to its collaborators. notifier may be nil.
// maxDepth bounds ancestor walks; values <= 0 select DefaultMaxDepth.
func NewService(repo Repository, objects ObjectStore, notifier Notifier, maxDepth int) (*Service, error) {
	if repo == nil || objects == nil {
		return nil, errors.New("drive: repository and object store are required")
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	newKey, err := nanoid.Standard(objectKeyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}

	return &Service{
		repo:     repo,
		objects:  objects,
		notifier: notifier,
		maxDepth: maxDepth,
		newKey:   newKey,
	}, nil
}

func (s *Service) notify(ctx context.Context, ownerID int64, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.LogEvent(ctx, ownerID, eventType, payload); err != nil {
		log.Warn().Err(err).
			Int64("owner_id", ownerID).
			Str("event_type", eventType).
			Msg("failed to record drive event")
	}
}
