package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigNormalize(t *testing.T) {
	pg := Config{Host: "db", Name: "market"}
	require.NoError(t, pg.Normalize())
	assert.Equal(t, DriverPostgres, pg.Driver)
	assert.Equal(t, "5432", pg.Port)
	assert.Equal(t, "disable", pg.SSLMode)
	assert.Equal(t, "postgres://:@db:5432/market?sslmode=disable", pg.MigrateURL())

	lite := Config{Driver: " SQLite ", MaxConnections: 8}
	require.NoError(t, lite.Normalize())
	assert.Equal(t, DriverSQLite, lite.Driver)
	assert.Equal(t, "bot.db", lite.Path)
	assert.Equal(t, 1, lite.MaxConnections)
	assert.Equal(t, "sqlite://bot.db", lite.MigrateURL())

	assert.Error(t, (&Config{Driver: "mysql"}).Normalize())
	assert.Error(t, (&Config{Driver: DriverPostgres}).Normalize())
}

func TestEmbeddedMigrationsPerDriver(t *testing.T) {
	for _, driver := range []string{DriverPostgres, DriverSQLite} {
		files := listMigrationFiles(migrationsFS, "migrations/"+driver)
		assert.Equal(t, []string{"000001_init.up.sql", "000002_listing_indexes.up.sql"}, files, driver)
	}
	assert.Equal(t, []string{"000002_listing_indexes.up.sql"},
		selectApplied([]string{"000001_init.up.sql", "000002_listing_indexes.up.sql"}, 1, 2))
	assert.Equal(t, uint64(12), parseVersion("000012_more.up.sql"))
}

func TestSQLiteConnectAndMigrate(t *testing.T) {
	cfg := Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "market.db")}

	require.NoError(t, RunMigrations(cfg))
	// A second run is a no-op.
	require.NoError(t, RunMigrations(cfg))

	db, err := Connect(cfg)
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'listings') ORDER BY name`))
	assert.Equal(t, []string{"listings", "users"}, tables)
}
