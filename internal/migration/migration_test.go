package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/pdcaflow/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, body := range m {
		out[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n == 1
}

func TestCurrentVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"001_init.sql": "CREATE TABLE a (id INTEGER);",
	}))

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 on a fresh database, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if version, _ = runner.CurrentVersion(); version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestMigrationsSortedByVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"003_tasks.sql":   "CREATE TABLE c (id INTEGER);",
		"001_init.sql":    "CREATE TABLE a (id INTEGER);",
		"002_weekly.sql":  "CREATE TABLE b (id INTEGER);",
		"README.md":       "ignored",
		"004_notes.sql.b": "ignored",
	}))

	got, err := runner.Migrations()
	if err != nil {
		t.Fatalf("Migrations failed: %v", err)
	}
	want := []string{"init", "weekly", "tasks"}
	if len(got) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.Version != i+1 || m.Name != want[i] {
			t.Errorf("migration %d = %d_%s, want %d_%s", i, m.Version, m.Name, i+1, want[i])
		}
	}

	latest, err := runner.LatestVersion()
	if err != nil || latest != 3 {
		t.Errorf("LatestVersion() = %d, %v; want 3", latest, err)
	}
}

func TestApplyIsIncremental(t *testing.T) {
	db := setupTestDB(t)
	fsys := files(map[string]string{
		"001_init.sql": "CREATE TABLE daily_records (date TEXT PRIMARY KEY);",
	})
	runner := NewRunner(db, fsys)

	var logged []string
	count, err := runner.Apply(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	fsys["002_blocks.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE time_blocks (id TEXT);")}
	if count, err = runner.Apply(nil); err != nil || count != 1 {
		t.Fatalf("second Apply = %d, %v; want 1", count, err)
	}
	if count, err = runner.Apply(nil); err != nil || count != 0 {
		t.Fatalf("third Apply = %d, %v; want 0", count, err)
	}

	if version, _ := runner.CurrentVersion(); version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "time_blocks") {
		t.Error("time_blocks table was not created")
	}
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);\nTHIS IS NOT SQL;",
	}))

	if _, err := runner.Apply(nil); err == nil {
		t.Fatal("Apply should fail on invalid SQL")
	}
	if version, _ := runner.CurrentVersion(); version != 0 {
		t.Errorf("expected version 0 after rollback, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestNewerDatabaseIsRejected(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"001_init.sql": "CREATE TABLE a (id INTEGER);",
	}))
	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	if err := runner.Validate(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("Validate() = %v, want newer-schema error", err)
	}
	if _, err := runner.Apply(nil); err == nil {
		t.Error("Apply should refuse a newer database")
	}
}

func TestMigrationFilenameErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{name: "missing underscore", files: map[string]string{"001init.sql": "x"}, want: "expected NNN_name.sql"},
		{name: "zero version", files: map[string]string{"000_init.sql": "x"}, want: "version must be at least 1"},
		{name: "non-numeric version", files: map[string]string{"abc_init.sql": "x"}, want: "invalid version number"},
		{name: "duplicate version", files: map[string]string{"001_a.sql": "x", "001_b.sql": "y"}, want: "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRunner(setupTestDB(t), files(tt.files)).Migrations()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Migrations() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestEmbeddedSQLiteMigrationsApply(t *testing.T) {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("failed to open embedded migrations: %v", err)
	}
	db := setupTestDB(t)

	if _, err := NewRunner(db, sub).Apply(nil); err != nil {
		t.Fatalf("embedded migrations failed: %v", err)
	}
	for _, table := range []string{"settings", "daily_records", "time_blocks", "weekly_plans", "weekly_presets", "tasks"} {
		if !tableExists(t, db, table) {
			t.Errorf("expected table %s", table)
		}
	}
}
