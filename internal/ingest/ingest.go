package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"reelscore/internal/batch"
	"reelscore/internal/frames"
	"reelscore/internal/words"
)

// bundle is the on-disk description of one video: collaborator transcript
// output plus sampled frame images. Frame image paths are resolved relative
// to the bundle file.
type bundle struct {
	VideoID         string        `json:"video_id"`
	Title           string        `json:"title"`
	Platform        string        `json:"platform"`
	ContentType     string        `json:"content_type"`
	DurationSeconds float64       `json:"duration_seconds"`
	Words           []bundleWord  `json:"words"`
	Frames          []bundleFrame `json:"frames"`
}

type bundleWord struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Timed bool    `json:"timed"`
}

type bundleFrame struct {
	Time  float64 `json:"time"`
	Image string  `json:"image"`
}

// Load reads one bundle file into a batch input. The content hash is the
// checksum of the bundle bytes, which is what the skip logic keys on.
func Load(path string) (batch.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return batch.Input{}, fmt.Errorf("read bundle: %w", err)
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return batch.Input{}, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	if strings.TrimSpace(b.VideoID) == "" {
		return batch.Input{}, fmt.Errorf("bundle %s missing video_id", path)
	}

	timed := make([]words.TimedWord, 0, len(b.Words))
	for _, w := range b.Words {
		timed = append(timed, words.TimedWord{Text: w.Text, Start: w.Start, End: w.End, Timed: w.Timed})
	}

	samples := append([]bundleFrame(nil), b.Frames...)
	sort.Slice(samples, func(i, j int) bool { return samples[i].Time < samples[j].Time })

	sum := sha256.Sum256(data)
	return batch.Input{
		VideoID:         b.VideoID,
		Title:           b.Title,
		Platform:        b.Platform,
		ContentType:     b.ContentType,
		ContentHash:     hex.EncodeToString(sum[:]),
		DurationSeconds: b.DurationSeconds,
		Transcript:      words.Transcript{VideoID: b.VideoID, Words: timed},
		Frames:          &fileSource{baseDir: filepath.Dir(path), frames: samples},
	}, nil
}

// LoadDir loads every *.json bundle in a directory, sorted by filename so
// batch ordering is stable.
func LoadDir(dir string) ([]batch.Input, error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan bundle dir: %w", err)
	}
	sort.Strings(entries)

	inputs := make([]batch.Input, 0, len(entries))
	for _, path := range entries {
		input, err := Load(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no bundle files found in %s", dir)
	}
	return inputs, nil
}

// fileSource decodes frame images lazily so a batch never holds more than
// one decoded frame per worker in memory.
type fileSource struct {
	baseDir string
	frames  []bundleFrame
	next    int
}

func (s *fileSource) Next(ctx context.Context) (frames.Sample, error) {
	if err := ctx.Err(); err != nil {
		return frames.Sample{}, err
	}
	if s.next >= len(s.frames) {
		return frames.Sample{}, io.EOF
	}
	frame := s.frames[s.next]
	s.next++

	path := frame.Image
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return frames.Sample{}, fmt.Errorf("open frame %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return frames.Sample{}, fmt.Errorf("decode frame %s: %w", path, err)
	}
	return frames.Sample{Time: frame.Time, Image: img}, nil
}
