package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"booructl/internal/sidecar"
)

// mediaExtensions is the accepted upload extension set, matched
// case-insensitively against the file suffix.
var mediaExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".mp4":  {},
	".webm": {},
	".gif":  {},
	".swf":  {},
	".webp": {},
}

// IsMediaFile reports whether the filename carries a supported media extension.
func IsMediaFile(name string) bool {
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ListMedia enumerates the media files directly inside dir, sorted by
// filename. Sidecars and unrelated files are skipped; subdirectories are not
// descended into.
func ListMedia(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("inspect directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !IsMediaFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// CleanupFile removes a successfully uploaded media file together with its
// sidecars. The media file is removed first; sidecar removal is best-effort
// and does not roll back the primary deletion.
func CleanupFile(mediaPath string) error {
	if err := os.Remove(mediaPath); err != nil {
		return fmt.Errorf("remove media file: %w", err)
	}

	var errs []error
	for _, path := range []string{sidecar.JSONPath(mediaPath), sidecar.TxtPath(mediaPath)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove sidecar %s: %w", filepath.Base(path), err))
		}
	}
	return errors.Join(errs...)
}

// RemoveDirIfEmpty removes dir only when it contains no entries.
func RemoveDirIfEmpty(dir string) error {
	return os.Remove(dir)
}
