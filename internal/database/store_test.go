package database

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mdrive/internal/models"

	"github.com/stretchr/testify/require"
)

var starterFolders = []string{"Trash", "Shared", "Documents"}

func TestOnboardUser(t *testing.T) {
	ownerID := createTestUser(t, "user_onboard")

	root, created, err := testStore.OnboardUser(context.Background(), ownerID, "Mdrive", starterFolders)
	require.NoError(t, err)
	require.True(t, created)
	require.Nil(t, root.ParentID)
	require.Equal(t, "Mdrive", root.Name)

	children, err := testStore.ListFoldersByParent(context.Background(), ownerID, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 3)
	for i, name := range starterFolders {
		require.Equal(t, name, children[i].Name)
	}

	again, created, err := testStore.OnboardUser(context.Background(), ownerID, "Mdrive", starterFolders)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, root.ID, again.ID)

	count, err := testStore.CountRootFolders(context.Background(), ownerID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestExecTx_RollsBack(t *testing.T) {
	ownerID := createTestUser(t, "user_tx_rollback")
	boom := errors.New("boom")

	err := testStore.ExecTx(context.Background(), func(q *Queries) error {
		if _, err := q.CreateFolder(context.Background(), CreateFolderParams{OwnerID: ownerID, Name: "Mdrive"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	root, err := testStore.GetRootFolder(context.Background(), ownerID)
	require.NoError(t, err)
	require.Nil(t, root)
}

func TestLogEvent(t *testing.T) {
	ownerID := createTestUser(t, "user_log_event")
	before := testPublisher.count(ownerID)

	err := testStore.LogEvent(context.Background(), ownerID, "folder_created", map[string]int64{"folder_id": 7})
	require.NoError(t, err)
	require.Equal(t, before+1, testPublisher.count(ownerID))

	events, err := testStore.GetEventsSince(context.Background(), ownerID, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "folder_created", events[0].EventType)

	var payload map[string]int64
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	require.Equal(t, int64(7), payload["folder_id"])

	var published models.Event
	require.NoError(t, json.Unmarshal(testPublisher.events[ownerID][before], &published))
	require.Equal(t, events[0].ID, published.ID)

	events, err = testStore.GetEventsSince(context.Background(), ownerID, events[0].ID)
	require.NoError(t, err)
	require.Len(t, events, 0)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	createTestUser(t, "user_duplicate")

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{Username: "user_duplicate", PasswordHash: "x"})
	require.ErrorIs(t, err, ErrUsernameTaken)

	user, err := testStore.GetUserByUsername(context.Background(), "user_duplicate")
	require.NoError(t, err)
	require.NotNil(t, user)

	byID, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, byID.Username)

	missing, err := testStore.GetUserByUsername(context.Background(), "nobody_here")
	require.NoError(t, err)
	require.Nil(t, missing)
}
