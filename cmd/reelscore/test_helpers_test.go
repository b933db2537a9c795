package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleScript = "Stop wasting money on bad ads every single day " +
	"I doubled revenue for twenty clients with this system " +
	"First write one hook Second test it daily Third keep the winner " +
	"Comment GROWTH below and follow for part two"

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\nvision_cache_dir = %q\n\n[batch]\nworkers = 2\n\n[logging]\nlevel = \"error\"\n",
		filepath.Join(base, "data"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "vision"),
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestBundle writes a word-only analysis bundle with evenly spaced
// timestamps, half a second per word.
func writeTestBundle(t *testing.T, dir, name, videoID, script string) string {
	t.Helper()
	tokens := strings.Fields(script)
	wordRecords := make([]map[string]any, 0, len(tokens))
	for i, token := range tokens {
		start := float64(i) * 0.5
		wordRecords = append(wordRecords, map[string]any{
			"text":  token,
			"start": start,
			"end":   start + 0.4,
			"timed": true,
		})
	}
	payload := map[string]any{
		"video_id":         videoID,
		"title":            "Ad spend fix",
		"platform":         "tiktok",
		"duration_seconds": float64(len(tokens)) * 0.5,
		"words":            wordRecords,
		"frames":           []map[string]any{},
	}
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

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
