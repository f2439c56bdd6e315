// AngelaMos | 2026
// migrations_test.go

package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circlepicks/backend/migrations"
	"github.com/circlepicks/backend/testutil"
)

var tables = []string{
	"users", "sessions", "places", "tags", "experiences",
	"bookmarks", "follows", "blocks", "reports", "notifications",
}

func TestMigrations_RoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db.DB, migrations.FS)
	require.NoError(t, err)

	for _, table := range tables {
		assert.True(t, tableExists(t, db.DB, table), table)
	}

	var systemTags int
	require.NoError(t, db.Get(&systemTags, `SELECT COUNT(*) FROM tags WHERE is_system`))
	assert.Positive(t, systemTags)

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err)
	for _, table := range tables {
		assert.False(t, tableExists(t, db.DB, table), table)
	}

	_, err = provider.Up(ctx)
	require.NoError(t, err)
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var exists bool
	err := db.QueryRow(`SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	)`, name).Scan(&exists)
	require.NoError(t, err)
	return exists
}
