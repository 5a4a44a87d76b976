package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/activity-roster/migrations"
	"github.com/pkordes/activity-roster/testutil"
)

// TestMigrations applies every migration, checks the schema and seed, rolls
// everything back, then reapplies so later packages see a migrated database.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err)

	// Another package's TestMain may already have migrated this database.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	applied, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	for _, table := range []string{"activities", "participants"} {
		assert.True(t, tableExists(t, db, table), "table %q should exist", table)
	}

	var activities, participants int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM activities`).Scan(&activities))
	require.NoError(t, db.QueryRowContext(ctx, `SELECT count(*) FROM participants`).Scan(&participants))
	assert.Equal(t, 9, activities)
	assert.Equal(t, 18, participants)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	for _, table := range []string{"activities", "participants"} {
		assert.False(t, tableExists(t, db, table), "table %q should be dropped", table)
	}

	applied, err = migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	again, err := migrations.Up(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, again, "second Up should be a no-op")
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`, table).Scan(&exists)
	require.NoError(t, err)
	return exists
}
