package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCleanName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "prices.csv", want: "prices.csv"},
		{in: "  prices.csv ", want: "prices.csv"},
		{in: "", wantErr: true},
		{in: "..", wantErr: true},
		{in: ".", wantErr: true},
		{in: "../prices.csv", wantErr: true},
		{in: `dir\prices.csv`, wantErr: true},
		{in: "/abs/prices.csv", wantErr: true},
	}
	for _, c := range cases {
		got, err := CleanName(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidName) {
				t.Fatalf("CleanName(%q): want ErrInvalidName got %v", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("CleanName(%q)=%q,%v want %q", c.in, got, err, c.want)
		}
	}
}

func TestFSStore_SaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	if err := s.Save(ctx, "a.csv", []byte("v1")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// overwrite keeps the latest content
	if err := s.Save(ctx, "a.csv", []byte("v2")); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}

	rc, err := s.Open(ctx, "a.csv")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "v2" {
		t.Fatalf("content=%q", b)
	}

	if _, err := s.Open(ctx, "missing.csv"); !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("want ErrUploadNotFound got %v", err)
	}
	if err := s.Save(ctx, "../escape.csv", []byte("x")); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("want ErrInvalidName got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, got %d entries", len(entries))
	}
}

func TestFSStore_PurgeOlderThan(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()
	_ = s.Save(ctx, "old.csv", []byte("x"))
	_ = s.Save(ctx, "new.csv", []byte("y"))
	_ = os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.csv"), old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	n, err := s.PurgeOlderThan(ctx, time.Now().Add(-24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("PurgeOlderThan: n=%d err=%v", n, err)
	}
	if _, err := s.Open(ctx, "old.csv"); !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("old.csv should be gone, got %v", err)
	}
	if _, err := s.Open(ctx, "new.csv"); err != nil {
		t.Fatalf("new.csv should remain: %v", err)
	}
}

func TestFSStore_Ping(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "up")
	s, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	_ = os.RemoveAll(dir)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error after dir removal")
	}
}
