package drive

import (
	"context"

	"mdrive/internal/models"

	"github.com/rs/zerolog/log"
)

// OnboardUser creates the owner's root folder with StarterFolders below it.
// It is idempotent: a user who already has a root gets that root back.
func (s *Service) OnboardUser(ctx context.Context, ownerID int64) (root *models.Folder, err error) {
	defer func() { observe("onboard_user", err) }()

	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	root, created, err := s.repo.OnboardUser(ctx, ownerID, RootFolderName, StarterFolders)
	if err != nil {
		return nil, err
	}
	if !created {
		log.Debug().Int64("owner_id", ownerID).Int64("root_id", root.ID).Msg("user already onboarded")
		return root, nil
	}

	log.Info().Int64("owner_id", ownerID).Int64("root_id", root.ID).Msg("user onboarded")
	s.notify(ctx, ownerID, EventDriveOnboarded, map[string]interface{}{
		"root_id": root.ID,
	})
	return root, nil
}
