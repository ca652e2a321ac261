package shared

import "testing"

func TestRunMigrations(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Errorf("runs table not created: %v", err)
	}

	var seq int
	if err := db.QueryRow("SELECT value FROM runs_sequence WHERE id = 1").Scan(&seq); err != nil {
		t.Errorf("runs_sequence not seeded: %v", err)
	}
	if seq != 0 {
		t.Errorf("runs_sequence initial value = %v, want 0", seq)
	}

	// Re-running must be a no-op
	if err := RunMigrations(db); err != nil {
		t.Errorf("RunMigrations() second run error = %v", err)
	}
}

func TestRollbackMigration(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	if err := RollbackMigration(db); err != nil {
		t.Fatalf("RollbackMigration() error = %v", err)
	}

	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(new(int)); err == nil {
		t.Error("runs table still exists after rollback")
	}

	if err := RollbackMigration(db); err == nil {
		t.Error("RollbackMigration() expected error with nothing to roll back")
	}
}
