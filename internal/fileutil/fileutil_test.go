package fileutil_test

// Notes:
// - WriteFileAtomic: the Chmod and Rename error branches are not tested
//   because triggering them portably needs a read-only filesystem.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-doxyprep/internal/fileutil"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"valid extension svg", "svg", nil},
		{"empty extension", "", fileutil.ErrExtensionEmpty},
		{"forward slash", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash", "..\\windows", fileutil.ErrExtensionPathTraversal},
		{"null byte", "svg\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic replacement
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "a", "b", "out.svg")

		if err := fileutil.WriteFileAtomic(path, []byte("<svg/>"), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading output: %v", err)
		}
		if string(got) != "<svg/>" {
			t.Errorf("content = %q, want %q", got, "<svg/>")
		}
	})

	t.Run("replaces existing file and leaves no temp files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "graph.svg")
		if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := fileutil.WriteFileAtomic(path, []byte("new"), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, _ := os.ReadFile(path)
		if string(got) != "new" {
			t.Errorf("content = %q, want %q", got, "new")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("directory has %d entries, want 1", len(entries))
		}
	})
}

// ---------------------------------------------------------------------------
// TestFindFiles - Recursive discovery
// ---------------------------------------------------------------------------

func TestFindFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.svg", "a.SVG", "notes.txt", "sub/c.svg"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := fileutil.FindFiles(dir, "svg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.SVG"),
		filepath.Join(dir, "b.svg"),
		filepath.Join(dir, "sub", "c.svg"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindFiles() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := fileutil.FindFiles(filepath.Join(t.TempDir(), "missing"), "svg")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsDir - Path predicates
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "x.svg")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Error("FileExists(file) = false, want true")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists(dir) = true, want false")
	}
	if !fileutil.IsDir(dir) {
		t.Error("IsDir(dir) = false, want true")
	}
	if fileutil.IsDir(file) {
		t.Error("IsDir(file) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"doxyprep", false},
		{"./doxyprep.yaml", true},
		{"/etc/doxyprep.yaml", true},
		{`C:\cfg.yaml`, true},
	}
	for _, tt := range tests {
		tt := tt
		if got := fileutil.IsFilePath(tt.input); got != tt.want {
			t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
