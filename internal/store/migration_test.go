package store

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var testMigrations = fstest.MapFS{
	"001_first.sql": {Data: []byte(`-- +up
CREATE TABLE test_table1 (id INTEGER PRIMARY KEY, name TEXT DEFAULT 'a;b');
CREATE INDEX idx_test_table1_name ON test_table1(name);

-- +down
DROP TABLE test_table1;
`)},
	"002_second.sql": {Data: []byte(`-- +up
-- creates the second table; semicolons in comments are ignored;
CREATE TABLE test_table2 (id INTEGER PRIMARY KEY);
`)},
}

func openMemory(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(ctx context.Context, db *sql.DB, kind, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", kind, name).Scan(&count)
	return count > 0, err
}

func TestRunMigrationsForFS(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := RunMigrationsForFS(ctx, db, testMigrations); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	versions, err := AppliedMigrations(ctx, db)
	if err != nil {
		t.Fatalf("Failed to get applied migrations: %v", err)
	}
	if len(versions) != 2 || versions[0] != "001" || versions[1] != "002" {
		t.Errorf("Expected versions [001 002], got %v", versions)
	}

	for _, check := range []struct{ kind, name string }{
		{"table", "test_table1"},
		{"table", "test_table2"},
		{"index", "idx_test_table1_name"},
	} {
		ok, err := tableExists(ctx, db, check.kind, check.name)
		if err != nil {
			t.Fatalf("Failed to check %s %s: %v", check.kind, check.name, err)
		}
		if !ok {
			t.Errorf("Expected %s %s to exist", check.kind, check.name)
		}
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := RunMigrationsForFS(ctx, db, testMigrations); err != nil {
			t.Fatalf("Run %d failed: %v", i+1, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migration records: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 migration records, got %d", count)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("Failed to run embedded migrations: %v", err)
	}
	for _, table := range []string{"items", "item_dependencies"} {
		ok, err := tableExists(ctx, db, "table", table)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if !ok {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestAppliedMigrationsBeforeSetup(t *testing.T) {
	db := openMemory(t)

	versions, err := AppliedMigrations(context.Background(), db)
	if err != nil {
		t.Fatalf("Expected no error before migrations table exists, got %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("Expected no versions, got %v", versions)
	}
}

func TestInvalidMigrationFilename(t *testing.T) {
	db := openMemory(t)
	bad := fstest.MapFS{"nounderscore.sql": {Data: []byte("-- +up\nSELECT 1;")}}

	if err := RunMigrationsForFS(context.Background(), db, bad); err == nil {
		t.Error("Expected an error for a migration without a version prefix")
	}
}

func TestSplitSQLStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "simple",
			sql:  "SELECT 1; SELECT 2;",
			want: []string{"SELECT 1", "SELECT 2"},
		},
		{
			name: "semicolon in string",
			sql:  "INSERT INTO t VALUES ('a;b'); SELECT 1",
			want: []string{"INSERT INTO t VALUES ('a;b')", "SELECT 1"},
		},
		{
			name: "escaped quote",
			sql:  "INSERT INTO t VALUES ('it''s; fine');",
			want: []string{"INSERT INTO t VALUES ('it''s; fine')"},
		},
		{
			name: "block comment",
			sql:  "SELECT /* a; b */ 1;",
			want: []string{"SELECT /* a; b */ 1"},
		},
		{
			name: "comment only",
			sql:  "-- nothing here;\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSQLStatements(tt.sql)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d statements %q, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("statement %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
