package postgres

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigratorMissingSource(t *testing.T) {
	_, err := NewMigrator("postgres://localhost:1/db?sslmode=disable", filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	assert.ErrorContains(t, err, "migrate instance")
}

func TestRunMigrationsMissingSource(t *testing.T) {
	err := RunMigrations("postgres://localhost:1/db?sslmode=disable", filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	assert.Error(t, err)
}

func TestMigratorAgainstDatabase(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if testing.Short() || dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	mg, err := NewMigrator(dbURL, "../../../migrations", zerolog.Nop())
	require.NoError(t, err)
	defer mg.Close()

	require.NoError(t, mg.Up())
	require.NoError(t, mg.Up(), "second run is a no-op")

	version, dirty, ok, err := mg.Version()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(3))

	assert.Error(t, mg.Down(0))
}
