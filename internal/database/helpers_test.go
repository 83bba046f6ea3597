package database

import (
	"context"
	"sync"
	"testing"

	"mdrive/internal/models"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events map[int64][][]byte
}

func (p *recordingPublisher) PublishEvent(userID int64, eventData []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[int64][][]byte)
	}
	p.events[userID] = append(p.events[userID], eventData)
}

func (p *recordingPublisher) count(userID int64) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events[userID])
}

func createTestUser(t *testing.T, username string) int64 {
	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		Username:     username,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	return user.ID
}

func createTestFolder(t *testing.T, ownerID int64, parentID *int64, name string) *models.Folder {
	folder, err := testStore.CreateFolder(context.Background(), CreateFolderParams{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
	})
	require.NoError(t, err)
	require.NotNil(t, folder)
	return folder
}

func createTestFile(t *testing.T, ownerID int64, parentID int64, name string) *models.File {
	file, err := testStore.CreateFile(context.Background(), CreateFileParams{
		OwnerID:  ownerID,
		ParentID: parentID,
		Name:     name,
		Size:     10,
		URL:      "http://localhost/files/" + name,
	})
	require.NoError(t, err)
	require.NotNil(t, file)
	return file
}
