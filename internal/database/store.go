package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"mdrive/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Publisher pushes a serialized event to the live connections of a user.
type Publisher interface {
	PublishEvent(userID int64, eventData []byte)
}

type Store struct {
	pool      *pgxpool.Pool
	publisher Publisher
	*Queries
}

// NewStore wraps an opened pool. publisher may be nil, in which case events
// are only written to the journal.
func NewStore(pool *pgxpool.Pool, publisher Publisher) *Store {
	return &Store{
		pool:      pool,
		publisher: publisher,
		Queries:   New(pool),
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// LogEvent appends the event to the journal and forwards it to the user's
// websocket clients.
func (s *Store) LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error {
	event, err := s.Queries.LogEvent(ctx, userID, eventType, payload)
	if err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	s.publisher.PublishEvent(userID, eventBytes)

	return nil
}

// OnboardUser creates the root folder and the given children for ownerID in a
// single transaction. If the user already has a root it is returned untouched
// and created is false.
func (s *Store) OnboardUser(ctx context.Context, ownerID int64, rootName string, children []string) (root *models.Folder, created bool, err error) {
	err = s.ExecTx(ctx, func(q *Queries) error {
		existing, err := q.GetRootFolder(ctx, ownerID)
		if err != nil {
			return err
		}
		if existing != nil {
			root = existing
			return nil
		}

		root, err = q.CreateFolder(ctx, CreateFolderParams{OwnerID: ownerID, Name: rootName})
		if err != nil {
			if isPgError(err, pgUniqueViolation) {
				return ErrRootExists
			}
			return err
		}

		for _, name := range children {
			if _, err := q.CreateFolder(ctx, CreateFolderParams{OwnerID: ownerID, ParentID: &root.ID, Name: name}); err != nil {
				return err
			}
		}
		created = true
		return nil
	})

	// A concurrent onboarding won the race on the partial unique index.
	if errors.Is(err, ErrRootExists) {
		log.Debug().Int64("owner_id", ownerID).Msg("root created concurrently, reusing it")
		root, err = s.GetRootFolder(ctx, ownerID)
		return root, false, err
	}
	if err != nil {
		return nil, false, err
	}

	return root, created, nil
}
