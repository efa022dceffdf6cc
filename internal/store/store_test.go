package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckExists(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		setup     func(string) error
		wantExist bool
		wantError bool
	}{
		{
			name: "database exists",
			setup: func(dir string) error {
				f, err := os.Create(GetDBPath(dir))
				if err != nil {
					return err
				}
				return f.Close()
			},
			wantExist: true,
		},
		{
			name: "database does not exist",
			setup: func(dir string) error {
				return nil
			},
			wantExist: false,
		},
		{
			name: "database path is directory",
			setup: func(dir string) error {
				return os.Mkdir(GetDBPath(dir), 0755)
			},
			wantExist: false,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir := filepath.Join(tmpDir, tt.name)
			if err := os.Mkdir(testDir, 0755); err != nil {
				t.Fatalf("failed to create test dir: %v", err)
			}

			if err := tt.setup(testDir); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			exists, err := CheckExists(testDir)

			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if exists != tt.wantExist {
				t.Errorf("got exists=%v, want %v", exists, tt.wantExist)
			}
		})
	}
}

func TestGetStorePath(t *testing.T) {
	if path := GetStorePath(""); path != "." {
		t.Errorf("got %q, want %q", path, ".")
	}
	if path := GetStorePath("/var/lib/tt"); path != "/var/lib/tt" {
		t.Errorf("got %q, want %q", path, "/var/lib/tt")
	}
}

func TestGetDBPath(t *testing.T) {
	got := GetDBPath("data")
	want := filepath.Join("data", "time-tracker.db")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStoreStateString(t *testing.T) {
	tests := map[StoreState]string{
		StateMissing:         "missing",
		StateUninitialized:   "uninitialized",
		StateVersionMismatch: "version-mismatch",
		StateReady:           "ready",
		StoreState(42):       "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("StoreState(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
