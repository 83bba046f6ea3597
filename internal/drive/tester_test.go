package drive

import (
	"context"
	"testing"

	"mdrive/internal/drive/mocks"
	"mdrive/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testOwner  int64 = 100
	otherOwner int64 = 200
	objectHost       = "https://objects.example.com/"
)

type driveTester struct {
	repo     *memRepo
	objects  *mocks.MockObjectStore
	notifier *mocks.MockNotifier
	service  *Service
}

type testerOption func(*testerConfig)

type testerConfig struct {
	strictEvents bool
	maxDepth     int
}

// withStrictEvents makes every LogEvent call an explicit expectation.
func withStrictEvents() testerOption {
	return func(c *testerConfig) { c.strictEvents = true }
}

func withMaxDepth(depth int) testerOption {
	return func(c *testerConfig) { c.maxDepth = depth }
}

func newTester(t *testing.T, opts ...testerOption) *driveTester {
	t.Helper()

	var cfg testerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ctrl := gomock.NewController(t)
	tester := &driveTester{
		repo:     newMemRepo(),
		objects:  mocks.NewMockObjectStore(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	if !cfg.strictEvents {
		tester.notifier.EXPECT().LogEvent(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	}

	service, err := NewService(tester.repo, tester.objects, tester.notifier, cfg.maxDepth)
	require.NoError(t, err)
	tester.service = service
	return tester
}

// objectKeys makes the mock store resolve URLs under objectHost.
func (tester *driveTester) objectKeys() {
	tester.objects.EXPECT().KeyFromURL(gomock.Any()).DoAndReturn(func(url string) (string, error) {
		return url[len(objectHost):], nil
	}).AnyTimes()
}

func (tester *driveTester) onboard(t *testing.T, ownerID int64) *models.Folder {
	t.Helper()
	root, err := tester.service.OnboardUser(context.Background(), ownerID)
	require.NoError(t, err)
	return root
}

func (tester *driveTester) folder(t *testing.T, ownerID, parentID int64, name string) *models.Folder {
	t.Helper()
	folder, err := tester.service.CreateFolder(context.Background(), ownerID, name, parentID)
	require.NoError(t, err)
	return folder
}

func (tester *driveTester) file(t *testing.T, ownerID, parentID int64, name string) *models.File {
	t.Helper()
	file, err := tester.service.CreateFile(context.Background(), ownerID, name, 10, objectHost+"key_"+name, parentID)
	require.NoError(t, err)
	return file
}

func names(folders []models.Folder) []string {
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		out = append(out, f.Name)
	}
	return out
}

func fileIDs(files []models.File) []int64 {
	out := make([]int64, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}
