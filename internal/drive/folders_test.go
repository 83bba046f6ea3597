package drive

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestService_Unauthorized(t *testing.T) {
	tester := newTester(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		call func() error
	}{
		{"GetRoot", func() error { _, err := tester.service.GetRoot(ctx, 0); return err }},
		{"ListFolders", func() error { _, err := tester.service.ListFolders(ctx, 0, 1); return err }},
		{"ListFiles", func() error { _, err := tester.service.ListFiles(ctx, 0, 1); return err }},
		{"ResolveAncestorChain", func() error { _, err := tester.service.ResolveAncestorChain(ctx, 0, 1); return err }},
		{"CreateFolder", func() error { _, err := tester.service.CreateFolder(ctx, 0, "x", 1); return err }},
		{"RenameFolder", func() error { _, err := tester.service.RenameFolder(ctx, 0, 1, "x"); return err }},
		{"DeleteFolder", func() error { return tester.service.DeleteFolder(ctx, 0, 1) }},
		{"CreateFile", func() error { _, err := tester.service.CreateFile(ctx, 0, "x", 1, objectHost+"k", 1); return err }},
		{"DeleteFile", func() error { return tester.service.DeleteFile(ctx, 0, 1, false) }},
		{"MoveFile", func() error { _, err := tester.service.MoveFile(ctx, 0, 1, 2); return err }},
		{"OnboardUser", func() error { _, err := tester.service.OnboardUser(ctx, 0); return err }},
		{"Browse", func() error { _, err := tester.service.Browse(ctx, 0, 0); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), ErrUnauthorized)
		})
	}
}

func TestService_GetRoot_NotOnboarded(t *testing.T) {
	tester := newTester(t)

	_, err := tester.service.GetRoot(context.Background(), testOwner)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_OnboardUser(t *testing.T) {
	tester := newTester(t, withStrictEvents())
	ctx := context.Background()

	tester.notifier.EXPECT().LogEvent(gomock.Any(), testOwner, EventDriveOnboarded, gomock.Any()).Return(nil).Times(1)

	root, err := tester.service.OnboardUser(ctx, testOwner)
	require.NoError(t, err)
	require.True(t, root.IsRoot())
	require.Equal(t, RootFolderName, root.Name)

	children, err := tester.service.ListFolders(ctx, testOwner, root.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Trash", "Shared", "Documents"}, names(children))

	again, err := tester.service.OnboardUser(ctx, testOwner)
	require.NoError(t, err)
	require.Equal(t, root.ID, again.ID)
	require.Equal(t, 1, tester.repo.rootCount(testOwner))

	found, err := tester.service.GetRoot(ctx, testOwner)
	require.NoError(t, err)
	require.Equal(t, root.ID, found.ID)
}

func TestService_CreateFolder(t *testing.T) {
	tester := newTester(t)
	ctx := context.Background()
	root := tester.onboard(t, testOwner)
	foreignRoot := tester.onboard(t, otherOwner)

	t.Run("trims name and allows duplicates", func(t *testing.T) {
		a, err := tester.service.CreateFolder(ctx, testOwner, "  Docs ", root.ID)
		require.NoError(t, err)
		require.Equal(t, "Docs", a.Name)
		require.Equal(t, root.ID, *a.ParentID)

		b, err := tester.service.CreateFolder(ctx, testOwner, "Docs", root.ID)
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		for _, name := range []string{"", "   ", "a/b", strings.Repeat("a", MaxNameLength+1)} {
			_, err := tester.service.CreateFolder(ctx, testOwner, name, root.ID)
			require.ErrorIs(t, err, ErrValidation, "name %q", name)
		}
	})

	t.Run("parent must belong to the caller", func(t *testing.T) {
		_, err := tester.service.CreateFolder(ctx, testOwner, "Sneaky", foreignRoot.ID)
		require.ErrorIs(t, err, ErrNotFound)

		_, err = tester.service.CreateFolder(ctx, testOwner, "Nowhere", 9999)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_ListFolders_OrderedByID(t *testing.T) {
	tester := newTester(t)
	root := tester.onboard(t, testOwner)

	z := tester.folder(t, testOwner, root.ID, "Z")
	a := tester.folder(t, testOwner, root.ID, "A")

	folders, err := tester.service.ListFolders(context.Background(), testOwner, root.ID)
	require.NoError(t, err)
	require.Len(t, folders, 5)
	require.Equal(t, z.ID, folders[3].ID)
	require.Equal(t, a.ID, folders[4].ID)

	_, err = tester.service.ListFolders(context.Background(), otherOwner, root.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_RenameFolder(t *testing.T) {
	tester := newTester(t)
	ctx := context.Background()
	root := tester.onboard(t, testOwner)
	docs := tester.folder(t, testOwner, root.ID, "Docs")

	renamed, err := tester.service.RenameFolder(ctx, testOwner, docs.ID, "Papers")
	require.NoError(t, err)
	require.Equal(t, "Papers", renamed.Name)

	t.Run("mismatched owner is reported and changes nothing", func(t *testing.T) {
		_, err := tester.service.RenameFolder(ctx, otherOwner, docs.ID, "Stolen")
		require.ErrorIs(t, err, ErrNotFound)

		folder, err := tester.service.GetFolder(ctx, testOwner, docs.ID)
		require.NoError(t, err)
		require.Equal(t, "Papers", folder.Name)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := tester.service.RenameFolder(ctx, testOwner, docs.ID, " ")
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestService_DeleteFolder_CascadesFiles(t *testing.T) {
	tester := newTester(t, withStrictEvents())
	tester.objectKeys()
	ctx := context.Background()

	tester.notifier.EXPECT().LogEvent(gomock.Any(), testOwner, gomock.Not(EventFileDeleted), gomock.Any()).Return(nil).AnyTimes()

	root := tester.onboard(t, testOwner)
	docs := tester.folder(t, testOwner, root.ID, "Docs")
	sub := tester.folder(t, testOwner, docs.ID, "Sub")
	tester.file(t, testOwner, docs.ID, "a.txt")
	tester.file(t, testOwner, docs.ID, "b.txt")
	kept := tester.file(t, testOwner, sub.ID, "c.txt")

	tester.objects.EXPECT().Delete(gomock.Any(), "key_a.txt").Return(nil).Times(1)
	tester.objects.EXPECT().Delete(gomock.Any(), "key_b.txt").Return(nil).Times(1)

	require.NoError(t, tester.service.DeleteFolder(ctx, testOwner, docs.ID))

	_, err := tester.service.GetFolder(ctx, testOwner, docs.ID)
	require.ErrorIs(t, err, ErrNotFound)

	remaining, err := tester.repo.ListFilesByParent(ctx, testOwner, docs.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)

	// Sub-folders are not cascaded: they stay, pointing at the deleted parent.
	orphan, err := tester.service.GetFolder(ctx, testOwner, sub.ID)
	require.NoError(t, err)
	require.Equal(t, docs.ID, *orphan.ParentID)

	_, err = tester.service.ResolveAncestorChain(ctx, testOwner, sub.ID)
	require.ErrorIs(t, err, ErrNotFound)

	file, err := tester.service.GetFile(ctx, testOwner, kept.ID)
	require.NoError(t, err)
	require.Equal(t, sub.ID, file.ParentID)
}

func TestService_DeleteFolder_PartialFailure(t *testing.T) {
	tester := newTester(t)
	tester.objectKeys()
	ctx := context.Background()

	root := tester.onboard(t, testOwner)
	docs := tester.folder(t, testOwner, root.ID, "Docs")
	a := tester.file(t, testOwner, docs.ID, "a.txt")
	b := tester.file(t, testOwner, docs.ID, "b.txt")

	tester.objects.EXPECT().Delete(gomock.Any(), "key_a.txt").Return(errors.New("object store unavailable"))
	tester.objects.EXPECT().Delete(gomock.Any(), "key_b.txt").Return(nil)

	err := tester.service.DeleteFolder(ctx, testOwner, docs.ID)
	require.ErrorIs(t, err, ErrPartialDelete)
	require.Contains(t, err.Error(), "object store unavailable")

	_, err = tester.service.GetFolder(ctx, testOwner, docs.ID)
	require.ErrorIs(t, err, ErrNotFound, "folder row is deleted even when a file delete fails")

	_, err = tester.service.GetFile(ctx, testOwner, a.ID)
	require.NoError(t, err, "file whose object could not be deleted keeps its row")

	_, err = tester.service.GetFile(ctx, testOwner, b.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_DeleteFolder_Guards(t *testing.T) {
	tester := newTester(t)
	ctx := context.Background()
	root := tester.onboard(t, testOwner)
	docs := tester.folder(t, testOwner, root.ID, "Docs")

	require.ErrorIs(t, tester.service.DeleteFolder(ctx, testOwner, root.ID), ErrValidation)
	require.ErrorIs(t, tester.service.DeleteFolder(ctx, otherOwner, docs.ID), ErrNotFound)
	require.ErrorIs(t, tester.service.DeleteFolder(ctx, testOwner, 9999), ErrNotFound)
}
