package shared

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func newMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	ConfigureDatabase(db, 1, 1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrationRunner(t *testing.T) {
	ctx := context.Background()

	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		if migrations[0].Name != "create_tables" {
			t.Errorf("expected first migration name create_tables, got %q", migrations[0].Name)
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db := newMemoryDB(t)

		if err := RunMigrations(ctx, db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		for _, table := range []string{"users", "playlist_owners"} {
			if _, err := db.Exec("SELECT 1 FROM " + table + " LIMIT 1"); err != nil {
				t.Errorf("%s table should exist after migrations: %v", table, err)
			}
		}

		if err := RollbackMigration(ctx, db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM users LIMIT 1"); err == nil {
			t.Error("users table should be gone after rollback")
		}

		if err := RollbackMigration(ctx, db); err == nil {
			t.Error("expected error when nothing is left to roll back")
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db := newMemoryDB(t)

		for i := 0; i < 2; i++ {
			if err := RunMigrations(ctx, db); err != nil {
				t.Fatalf("run %d failed: %v", i+1, err)
			}
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})

	t.Run("OpenDatabase", func(t *testing.T) {
		db, err := OpenDatabase(ctx, DatabaseConfig{Path: ":memory:"})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.Exec("INSERT INTO users (username, password, full_name, image_url) VALUES ('a', 'b', 'c', 'd')"); err != nil {
			t.Errorf("expected migrated schema: %v", err)
		}
	})
}

func TestSplitStatements(t *testing.T) {
	tc := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "comments and empty statements",
			script: "\n-- leading comment\nCREATE TABLE a (id INTEGER); -- trailing\nCREATE TABLE b (id INTEGER);\n;\n",
			want:   []string{"CREATE TABLE a (id INTEGER)", "CREATE TABLE b (id INTEGER)"},
		},
		{
			name:   "semicolon inside a comment",
			script: "-- a; b\nCREATE TABLE t (x INT);",
			want:   []string{"CREATE TABLE t (x INT)"},
		},
		{
			name:   "multi-line statement",
			script: "CREATE TABLE t (\n    x INT, -- first; column\n    y INT\n);",
			want:   []string{"CREATE TABLE t (\nx INT,\ny INT\n)"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := splitStatements(tt.script)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d statements, got %d: %q", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("statement %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("failed to load migrations: %v", err)
	}

	for _, m := range migrations {
		for _, stmt := range append(splitStatements(m.Up), splitStatements(m.Down)...) {
			if strings.Contains(stmt, "--") {
				t.Errorf("migration %d: comment leaked into statement %q", m.Version, stmt)
			}
			word := strings.ToUpper(strings.Fields(stmt)[0])
			if word != "CREATE" && word != "DROP" {
				t.Errorf("migration %d: statement starts with %q: %q", m.Version, word, stmt)
			}
		}
	}
}
