package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "local", cfg.Storage.Driver)
	require.Equal(t, 256, cfg.Drive.MaxDepth)
	require.Equal(t, int64(1<<30), cfg.Upload.MaxBytes)
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	settings := `
db:
  source: postgres://from-file
storage:
  driver: s3
s3:
  bucket: drive-bucket
drive:
  max_depth: 32
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yml"), []byte(settings), 0o644))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_SOURCE", "postgres://from-env")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	require.Equal(t, "postgres://from-env", cfg.DB.Source)
	require.Equal(t, "from-env", cfg.JWT.Secret)
	require.Equal(t, "s3", cfg.Storage.Driver)
	require.Equal(t, "drive-bucket", cfg.S3.Bucket)
	require.Equal(t, 32, cfg.Drive.MaxDepth)
}
