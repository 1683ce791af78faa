package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/nickpending/reelfeed/internal/catalog"
)

// ErrNotFound is returned when a reference is not in the index
var ErrNotFound = errors.New("object not found")

// Object is one indexed media file
type Object struct {
	Ref       string // "<folder>/<name>", the stable identity
	Folder    string
	Name      string
	Path      string // Absolute path on disk
	Title     string // Optional
	Thumbnail string // Optional
	SizeBytes int64
	CreatedAt time.Time
}

// PutObject inserts or replaces an object in the index
func (s *Store) PutObject(ctx context.Context, obj Object) error {
	if obj.Ref == "" {
		obj.Ref = obj.Folder + "/" + obj.Name
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO objects (ref, folder, name, path, title, thumbnail, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		obj.Ref,
		obj.Folder,
		obj.Name,
		obj.Path,
		nullString(obj.Title),
		nullString(obj.Thumbnail),
		obj.SizeBytes,
		obj.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", obj.Ref, err)
	}
	return nil
}

// CountFolder returns the number of indexed objects in a folder
func (s *Store) CountFolder(ctx context.Context, folder string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM objects WHERE folder = ?`, folder).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count objects: %w", err)
	}
	return n, nil
}

// ListFolder returns references for every object in folder, ordered by name
func (s *Store) ListFolder(ctx context.Context, folder string) ([]catalog.Ref, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ref, name FROM objects WHERE folder = ? ORDER BY name`, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer rows.Close()

	var refs []catalog.Ref
	for rows.Next() {
		var ref catalog.Ref
		if err := rows.Scan(&ref.Path, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		refs = append(refs, ref)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return refs, nil
}

// ResolvePlaybackURL returns a file:// URL for the object's path on disk
func (s *Store) ResolvePlaybackURL(ctx context.Context, ref catalog.Ref) (string, error) {
	var path string
	err := s.db.QueryRowContext(ctx, `SELECT path FROM objects WHERE ref = ?`, ref.Path).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", ref.Path, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query path: %w", err)
	}

	u := url.URL{Scheme: "file", Path: path}
	return u.String(), nil
}

// ResolveMetadata reads the descriptive metadata for an object
func (s *Store) ResolveMetadata(ctx context.Context, ref catalog.Ref) (catalog.Metadata, error) {
	var (
		title     sql.NullString
		thumbnail sql.NullString
		createdAt string
		meta      catalog.Metadata
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT title, thumbnail, size_bytes, created_at FROM objects WHERE ref = ?`, ref.Path,
	).Scan(&title, &thumbnail, &meta.SizeBytes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Metadata{}, fmt.Errorf("%s: %w", ref.Path, ErrNotFound)
	}
	if err != nil {
		return catalog.Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}

	// Handle nullable fields
	if title.Valid {
		meta.Title = title.String
	}
	if thumbnail.Valid {
		meta.ThumbnailURL = thumbnail.String
	}
	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		meta.CreatedAt = parsed
	}

	return meta, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
