// Package session manages per-request working directories and their
// result artifacts.
package session

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"dualscribe/internal/app/pipeline"
)

const sessionIDChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// Manager creates session directories under a base path and cleans up
// expired ones. Every inbound recognition request gets its own session so
// artifacts from concurrent requests never collide.
type Manager struct {
	baseDir   string
	retention time.Duration
	logger    *zap.Logger
}

// Session is one request's working directory.
type Session struct {
	ID  string
	Dir string
}

func NewManager(baseDir string, retention time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{baseDir: baseDir, retention: retention, logger: logger}
}

// Create makes a fresh session directory named <timestamp>_<random5>.
func (m *Manager) Create() (*Session, error) {
	id := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), randomSuffix(5))
	dir := filepath.Join(m.baseDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Session{ID: id, Dir: dir}, nil
}

// SaveAudio writes the inbound recording into the session.
func (s *Session) SaveAudio(name string, data []byte) (string, error) {
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return path, nil
}

// WriteResults persists the machine-readable transcript JSON.
func (s *Session) WriteResults(transcript *pipeline.Transcript) (string, error) {
	path := filepath.Join(s.Dir, "results.json")
	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}

// WriteSummary persists a human-readable rendering of the transcript.
func (s *Session) WriteSummary(transcript *pipeline.Transcript) (string, error) {
	path := filepath.Join(s.Dir, "summary.txt")

	var b strings.Builder
	for _, e := range transcript.Entries {
		fmt.Fprintf(&b, "[%s] %.1fs - %.1fs: %s\n", e.Speaker, e.Start, e.End, e.Text)
	}
	fmt.Fprintf(&b, "\nsegments: %d total, %d dropped, %d clamped, %d failed\n",
		transcript.Diagnostics.SegmentsTotal,
		transcript.Diagnostics.SegmentsDropped,
		transcript.Diagnostics.SegmentsClamped,
		transcript.Diagnostics.SegmentsFailed)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

// SegmentsPath is where a reusable diarization result lives within the
// session.
func (s *Session) SegmentsPath() string {
	return filepath.Join(s.Dir, "diarize_segments.json")
}

// CleanupOld removes session directories older than the retention window.
// Returns the number removed; unreadable entries are logged and skipped.
func (m *Manager) CleanupOld() (int, error) {
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-m.retention)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.baseDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			m.logger.Warn("failed to remove expired session", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		m.logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
	}
	return removed, nil
}

// StartCleanupLoop runs CleanupOld on an interval until stop is closed.
func (m *Manager) StartCleanupLoop(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if _, err := m.CleanupOld(); err != nil {
					m.logger.Warn("session cleanup failed", zap.Error(err))
				}
			}
		}
	}()
}

func randomSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = sessionIDChars[rand.Intn(len(sessionIDChars))]
	}
	return string(b)
}
