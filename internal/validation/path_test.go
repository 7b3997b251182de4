package validation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateOutputPath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		path    string
		wantErr bool
		setup   func() string
	}{
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name:    "valid path in temp dir",
			wantErr: false,
			setup: func() string {
				return filepath.Join(tmpDir, "chart.png")
			},
		},
		{
			name:    "path traversal attempt with ..",
			path:    tmpDir + "/../../../etc/passwd",
			wantErr: true,
		},
		{
			name:    "path in non-existent directory",
			path:    "/nonexistent/directory/chart.png",
			wantErr: true,
		},
		{
			name:    "path is a directory",
			wantErr: true,
			setup: func() string {
				return tmpDir
			},
		},
		{
			name:    "valid nested path",
			wantErr: false,
			setup: func() string {
				nested := filepath.Join(tmpDir, "nested", "dir")
				os.MkdirAll(nested, 0755)
				return filepath.Join(nested, "お酒_matrix.png")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if tt.setup != nil {
				path = tt.setup()
			}

			err := ValidateOutputPath(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath_LeavesNoProbe(t *testing.T) {
	tmpDir := t.TempDir()
	if err := ValidateOutputPath(filepath.Join(tmpDir, "chart.png")); err != nil {
		t.Fatalf("ValidateOutputPath() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, writeProbe)); !os.IsNotExist(err) {
		t.Errorf("write probe left behind, stat error = %v", err)
	}
}

func TestValidateOutputExtension(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		format  string
		wantErr bool
	}{
		{name: "png matches", path: "out/chart.png", format: "png"},
		{name: "svg matches", path: "chart.SVG", format: "svg"},
		{name: "empty format means png", path: "chart.png", format: ""},
		{name: "no extension", path: "chart", format: "svg"},
		{name: "mismatch", path: "chart.png", format: "svg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputExtension(tt.path, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputExtension() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "preset.hcl")
	testDir := filepath.Join(tmpDir, "fonts")

	if err := os.WriteFile(testFile, []byte(`theme = "お酒"`), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := os.MkdirAll(testDir, 0755); err != nil {
		t.Fatalf("Failed to create test directory: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		mustBeDir bool
		wantErr   bool
	}{
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
		{
			name: "valid file when file expected",
			path: testFile,
		},
		{
			name:      "valid directory when directory expected",
			path:      testDir,
			mustBeDir: true,
		},
		{
			name:      "file when directory expected",
			path:      testFile,
			mustBeDir: true,
			wantErr:   true,
		},
		{
			name:    "directory when file expected",
			path:    testDir,
			wantErr: true,
		},
		{
			name:    "non-existent path",
			path:    "/nonexistent/path",
			wantErr: true,
		},
		{
			name:    "relative path escaping working directory",
			path:    "../../preset.hcl",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.path, tt.mustBeDir)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath_Permissions(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("Skipping permission test when running as root")
	}

	// Skip on Windows - permissions work differently
	if os.PathSeparator == '\\' {
		t.Skip("Skipping permission test on Windows")
	}

	tmpDir := t.TempDir()
	readOnlyDir := filepath.Join(tmpDir, "readonly")
	if err := os.MkdirAll(readOnlyDir, 0555); err != nil {
		t.Fatalf("Failed to create read-only directory: %v", err)
	}
	defer os.Chmod(readOnlyDir, 0755)

	err := ValidateOutputPath(filepath.Join(readOnlyDir, "chart.png"))
	if err == nil {
		t.Error("ValidateOutputPath() should fail for read-only directory")
	}
}
