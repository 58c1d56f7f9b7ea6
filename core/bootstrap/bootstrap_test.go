package bootstrap

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/marketbot/core/config"
	coredatabase "github.com/m3rciful/marketbot/core/database"
)

func noLogger(*coreconfig.Config) error { return nil }

func TestRunRequiresConfig(t *testing.T) {
	_, err := Run(Options{})
	assert.Error(t, err)
}

func TestRunSQLite(t *testing.T) {
	res, err := Run(Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: filepath.Join(t.TempDir(), "b.db")},
		LoggerInit: noLogger,
	})
	require.NoError(t, err)
	defer res.DB.Close()
	assert.Equal(t, coredatabase.DriverSQLite, res.Driver)

	var n int
	require.NoError(t, res.DB.Get(&n, `SELECT COUNT(*) FROM listings`))
	assert.Zero(t, n)
}

func TestRunStopsOnMigrationFailure(t *testing.T) {
	var connected *sqlx.DB
	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Driver: coredatabase.DriverSQLite, Path: filepath.Join(t.TempDir(), "b.db")},
		LoggerInit: noLogger,
		Connect: func(cfg coredatabase.Config) (*sqlx.DB, error) {
			db, err := coredatabase.Connect(cfg)
			connected = db
			return db, err
		},
		Migrate: func(coredatabase.Config) error { return errors.New("boom") },
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "migrations failed")
	require.NotNil(t, connected)
	assert.Error(t, connected.Ping(), "pool must be closed after a failed migration")
}

func TestRunRejectsBadDatabaseConfig(t *testing.T) {
	called := false
	_, err := Run(Options{
		Config:     &coreconfig.Config{},
		Database:   coredatabase.Config{Driver: "oracle"},
		LoggerInit: func(*coreconfig.Config) error { called = true; return nil },
	})
	require.Error(t, err)
	assert.False(t, called, "nothing starts before the config is valid")
}
