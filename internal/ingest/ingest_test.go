package ingest_test

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"reelscore/internal/ingest"
	"reelscore/internal/testsupport"
)

func writeBundle(t *testing.T, dir, name string, payload map[string]any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal bundle: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}
	return path
}

func writeFrame(t *testing.T, dir, name string) {
	t.Helper()
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create frame: %v", err)
	}
	defer file.Close()
	if err := png.Encode(file, testsupport.SolidFrame(color.RGBA{R: 200, A: 255})); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "f0.png")
	writeFrame(t, dir, "f1.png")

	path := writeBundle(t, dir, "clip.json", map[string]any{
		"video_id":         "vid-1",
		"title":            "Morning routine",
		"platform":         "tiktok",
		"content_type":     "educational",
		"duration_seconds": 42.5,
		"words": []map[string]any{
			{"text": "stop", "start": 0.0, "end": 0.3, "timed": true},
			{"text": "scrolling", "start": 0.3, "end": 0.8, "timed": true},
		},
		"frames": []map[string]any{
			{"time": 1.0, "image": "f1.png"},
			{"time": 0.0, "image": "f0.png"},
		},
	})

	input, err := ingest.Load(path)
	if err != nil {
		t.Fatalf("load bundle: %v", err)
	}
	if input.VideoID != "vid-1" || input.Platform != "tiktok" || input.ContentType != "educational" {
		t.Fatalf("unexpected input metadata: %+v", input)
	}
	if input.ContentHash == "" {
		t.Fatal("expected content hash")
	}
	if len(input.Transcript.Words) != 2 || input.Transcript.Words[1].Text != "scrolling" {
		t.Fatalf("unexpected transcript: %+v", input.Transcript.Words)
	}

	// Frames decode lazily and come back in time order even when the bundle
	// lists them out of order.
	ctx := context.Background()
	first, err := input.Frames.Next(ctx)
	if err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if first.Time != 0.0 {
		t.Fatalf("expected first frame at 0.0, got %v", first.Time)
	}
	second, err := input.Frames.Next(ctx)
	if err != nil {
		t.Fatalf("second frame: %v", err)
	}
	if second.Time != 1.0 {
		t.Fatalf("expected second frame at 1.0, got %v", second.Time)
	}
	if _, err := input.Frames.Next(ctx); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF after last frame, got %v", err)
	}
}

func TestLoadRejectsMissingVideoID(t *testing.T) {
	dir := t.TempDir()
	path := writeBundle(t, dir, "broken.json", map[string]any{"title": "untitled"})
	if _, err := ingest.Load(path); err == nil {
		t.Fatal("expected error for bundle without video_id")
	}
}

func TestLoadDirOrdersByFilename(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "b.json", map[string]any{"video_id": "vid-b"})
	writeBundle(t, dir, "a.json", map[string]any{"video_id": "vid-a"})

	inputs, err := ingest.LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(inputs) != 2 || inputs[0].VideoID != "vid-a" || inputs[1].VideoID != "vid-b" {
		t.Fatalf("unexpected ordering: %+v", inputs)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	if _, err := ingest.LoadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for empty bundle directory")
	}
}

func TestContentHashTracksBundleBytes(t *testing.T) {
	dir := t.TempDir()
	one := writeBundle(t, dir, "one.json", map[string]any{"video_id": "vid-1", "title": "a"})
	two := writeBundle(t, dir, "two.json", map[string]any{"video_id": "vid-1", "title": "b"})

	first, err := ingest.Load(one)
	if err != nil {
		t.Fatalf("load one: %v", err)
	}
	second, err := ingest.Load(two)
	if err != nil {
		t.Fatalf("load two: %v", err)
	}
	if first.ContentHash == second.ContentHash {
		t.Fatal("different bundle bytes should produce different content hashes")
	}
}
