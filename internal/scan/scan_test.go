package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestListMediaFiltersByExtensionCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.JPG", "c.webm", "d.txt", "e.png.json", "f.tiff"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := ListMedia(dir)
	if err != nil {
		t.Fatalf("list media: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.JPG"),
		filepath.Join(dir, "c.webm"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
}

func TestListMediaRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "single.png")
	touch(t, path)

	if _, err := ListMedia(path); err == nil {
		t.Fatal("expected error for non-directory path")
	}
}

func TestCleanupFileRemovesMediaAndSidecars(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "img.png")
	touch(t, media)
	touch(t, media+".txt")
	touch(t, media+".json")

	if err := CleanupFile(media); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	for _, path := range []string{media, media + ".txt", media + ".json"} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed", path)
		}
	}
}

func TestCleanupFileToleratesMissingSidecars(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "img.png")
	touch(t, media)

	if err := CleanupFile(media); err != nil {
		t.Fatalf("cleanup without sidecars: %v", err)
	}
}

func TestRemoveDirIfEmpty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "batch")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := RemoveDirIfEmpty(dir); err != nil {
		t.Fatalf("remove empty dir: %v", err)
	}

	dir2 := filepath.Join(t.TempDir(), "batch2")
	if err := os.Mkdir(dir2, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	touch(t, filepath.Join(dir2, "leftover.png"))
	if err := RemoveDirIfEmpty(dir2); err == nil {
		t.Fatal("expected error removing non-empty dir")
	}
}
