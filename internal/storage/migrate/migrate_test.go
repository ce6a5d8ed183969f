package migrate_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jrsteele09/go-company-auth/internal/storage/migrate"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestExtractUp(t *testing.T) {
	require.Equal(t, "SELECT 1;", migrate.ExtractUp("SELECT 1;"))
	require.Equal(t, "\nCREATE TABLE a (id TEXT);\n",
		migrate.ExtractUp("-- +migrate Up\nCREATE TABLE a (id TEXT);\n-- +migrate Down\nDROP TABLE a;"))
	require.Equal(t, "\nCREATE TABLE b (id TEXT);",
		migrate.ExtractUp("-- +migrate Up\nCREATE TABLE b (id TEXT);"))
}

func TestApply_SQLiteIsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := fstest.MapFS{
		"0001_widgets.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE widgets (id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE widgets;")},
		"0002_seed.sql":    {Data: []byte("INSERT INTO widgets (id) VALUES ('w-1');")},
		"README.md":        {Data: []byte("not a migration")},
	}

	ctx := context.Background()
	require.NoError(t, migrate.Apply(ctx, db, migrations, migrate.SQLite))
	require.NoError(t, migrate.Apply(ctx, db, migrations, migrate.SQLite))

	var widgets, applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM widgets").Scan(&widgets))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	require.Equal(t, 1, widgets)
	require.Equal(t, 2, applied)
}

func TestApply_RequiresDB(t *testing.T) {
	require.Error(t, migrate.Apply(context.Background(), nil, fstest.MapFS{}, migrate.SQLite))
}
