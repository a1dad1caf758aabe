package storage

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"time"
)

type uploadsRepository struct {
	db *sql.DB
}

// NewUploadsRepository returns an UploadStore backed by the PostgreSQL "uploads" table
// (see db/migrations).
func NewUploadsRepository(db *sql.DB) UploadStore {
	return &uploadsRepository{db: db}
}

// Save inserts the upload or replaces the content of an existing one with the same name.
func (r *uploadsRepository) Save(ctx context.Context, name string, data []byte) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO uploads (filename, content, size_bytes)
		VALUES ($1, $2, $3)
		ON CONFLICT (filename)
		DO UPDATE SET content = EXCLUDED.content,
					  size_bytes = EXCLUDED.size_bytes,
					  uploaded_at = NOW()
	`, name, data, len(data))
	return err
}

// Open loads the whole upload; price files are small enough to hold in memory.
func (r *uploadsRepository) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	name, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	var content []byte
	err = r.db.QueryRowContext(ctx, `SELECT content FROM uploads WHERE filename = $1`, name).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

// PurgeOlderThan deletes uploads stored before cutoff.
func (r *uploadsRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM uploads WHERE uploaded_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *uploadsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
