package trambar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/trambar", "backups"), BackupDir("/etc/trambar"))
}

func TestPruneBackups(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"postgres_20260101T000000Z.sql.gz",
		"postgres_20260102T000000Z.sql.gz",
		"postgres_20260103T000000Z.sql.gz",
		"postgres_20260104T000000Z.sql.gz",
	}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o640))
	}
	// Unrelated files are never touched.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o640))

	removed, err := pruneBackups(dir, "postgres_", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"postgres_20260102T000000Z.sql.gz",
		"postgres_20260101T000000Z.sql.gz",
	}, removed)

	for _, name := range names[:2] {
		assert.NoFileExists(t, filepath.Join(dir, name))
	}
	for _, name := range names[2:] {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))
}

func TestPruneBackupsUnderLimit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "postgres_20260101T000000Z.sql.gz"), []byte("x"), 0o640))

	removed, err := pruneBackups(dir, "postgres_", 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
	assert.FileExists(t, filepath.Join(dir, "postgres_20260101T000000Z.sql.gz"))
}

func TestDumpServiceRemovesPartialFileOnFailure(t *testing.T) {
	cfg := Config{Prefix: t.TempDir(), Project: "trambar"}
	// "false" exits non-zero regardless of arguments, so the dump fails
	// after the output file has been created.
	rt := Runtime{Docker: "false", Compose: []string{"false"}}
	outPath := filepath.Join(t.TempDir(), "postgres_20260101T000000Z.sql.gz")

	err := dumpService(rt, cfg, "postgres", outPath, "exit 1")
	require.Error(t, err)
	assert.NoFileExists(t, outPath, "failed dump must not leave a truncated file")
}
