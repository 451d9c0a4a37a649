package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestShouldUpload(t *testing.T) {
	extensions := []string{".csv", ".json"}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"csv file", "/data/laps.csv", true},
		{"json file", "/data/telemetry.json", true},
		{"uppercase extension", "/data/LAPS.CSV", true},
		{"unsupported extension", "/data/notes.txt", false},
		{"no extension", "/data/README", false},
		{"hidden file", "/data/.laps.csv", false},
		{"hidden swap file", "/data/.telemetry.json.swp", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldUpload(tt.path, extensions); got != tt.want {
				t.Errorf("shouldUpload(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidateWatchDir(t *testing.T) {
	tempDir := t.TempDir()

	tempFile := filepath.Join(tempDir, "laps.csv")
	if err := os.WriteFile(tempFile, []byte("driver,lap\n"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid directory", tempDir, false},
		{"empty path", "", true},
		{"path traversal", "../../etc", true},
		{"missing directory", filepath.Join(tempDir, "missing"), true},
		{"regular file", tempFile, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWatchDir(tt.path)
			if tt.wantErr && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
