package db

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// mediaExtensions lists the file types the indexer registers
var mediaExtensions = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mkv":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
}

// IsMediaFile reports whether name has a known video extension
func IsMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// TitleFromName derives a display title from a file name
func TitleFromName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	base = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

// IndexDir walks dir and registers every media file under folder.
// Existing entries are replaced. Returns the number of files indexed.
func (s *Store) IndexDir(ctx context.Context, folder, dir string) (int, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	count := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMediaFile(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		obj := Object{
			Ref:       folder + "/" + name,
			Folder:    folder,
			Name:      name,
			Path:      path,
			Title:     TitleFromName(d.Name()),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		}
		if err := s.PutObject(ctx, obj); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to index %s: %w", dir, err)
	}

	return count, nil
}
