package main

import (
	"path/filepath"
	"testing"
)

func TestDescriptionFromFilename(t *testing.T) {
	cases := map[string]string{
		"2025-06-01-001-create-users.sql":           "create users",
		"2025-06-01-003-create-meals-and-foods.sql": "create meals and foods",
		"no-prefix.sql":                             "no prefix",
	}
	for in, want := range cases {
		if got := descriptionFromFilename(in); got != want {
			t.Errorf("descriptionFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestMigrationFiles_RepoSchema checks the shipped db/ directory is picked up
// in order, starting with the migrations bookkeeping table.
func TestMigrationFiles_RepoSchema(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "db"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) < 6 {
		t.Fatalf("expected at least 6 migrations, got %v", files)
	}
	if filepath.Base(files[0]) != "2025-06-01-000-create-migrations.sql" {
		t.Errorf("first migration = %s", filepath.Base(files[0]))
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Errorf("migrations out of order: %s before %s", files[i-1], files[i])
		}
	}
}

func TestMigrationFiles_Empty(t *testing.T) {
	if _, err := migrationFiles(t.TempDir()); err == nil {
		t.Error("expected error for a directory without .sql files")
	}
}

func TestPendingMigrations(t *testing.T) {
	files := []string{
		filepath.Join("db", "2025-06-01-000-create-migrations.sql"),
		filepath.Join("db", "2025-06-01-001-create-users.sql"),
		filepath.Join("db", "2025-06-01-005-create-food-nutrition.sql"),
	}
	applied := map[string]bool{
		"2025-06-01-000-create-migrations.sql": true,
		"2025-06-01-001-create-users.sql":      true,
	}

	got := pendingMigrations(files, applied)
	if len(got) != 1 || filepath.Base(got[0]) != "2025-06-01-005-create-food-nutrition.sql" {
		t.Errorf("pendingMigrations = %v", got)
	}
	if got := pendingMigrations(files, map[string]bool{}); len(got) != len(files) {
		t.Errorf("expected all files pending on a fresh database, got %v", got)
	}
}
