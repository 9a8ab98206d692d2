// Package pipeline persists extraction artifacts and runs the league catalog
// through the scraper, one league at a time.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ligawatch/go-scrape-standings/models"
)

// Artifacts writes run outputs beneath a single directory: one JSON file per
// validated table, plus raw dumps for payloads that failed validation.
type Artifacts struct {
	dir string
	now func() time.Time
}

// NewArtifacts creates the output directory if needed.
func NewArtifacts(dir string) (*Artifacts, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory %q: %w", dir, err)
	}
	return &Artifacts{dir: dir, now: time.Now}, nil
}

// WriteTable persists a validated league table and returns the file path.
func (a *Artifacts) WriteTable(data *models.LeagueTableData, leagueName string) (string, error) {
	name := fmt.Sprintf("%s_table_%s.json", SanitizeLeagueName(leagueName), a.timestamp())
	path := filepath.Join(a.dir, name)
	if err := a.writeJSON(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteDebug persists a raw payload that failed validation so the rejection
// can be inspected after the run.
func (a *Artifacts) WriteDebug(payload map[string]any) (string, error) {
	name := fmt.Sprintf("debug_raw_%s.json", a.timestamp())
	path := filepath.Join(a.dir, name)
	if err := a.writeJSON(path, payload); err != nil {
		return "", err
	}
	return path, nil
}

func (a *Artifacts) writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	return nil
}

func (a *Artifacts) timestamp() string {
	return a.now().Format("20060102_150405")
}

// SanitizeLeagueName converts a display name into a filename-safe token.
func SanitizeLeagueName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	return strings.ReplaceAll(safe, "/", "_")
}
