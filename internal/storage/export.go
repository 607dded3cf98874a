// ABOUTME: Export and import functionality for the training log.
// ABOUTME: Supports JSON, YAML, and Markdown export formats for any backend.
package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the current export format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for the training log.
type ExportData struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	Sessions   []*models.Session `json:"sessions" yaml:"sessions"`
	Sets       []*models.Set     `json:"sets" yaml:"sets"`
}

// NewExportData wraps sessions and sets in the current export envelope.
func NewExportData(sessions []*models.Session, sets []*models.Set) *ExportData {
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "lift",
		Sessions:   sessions,
		Sets:       sets,
	}
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	sessions, err := d.ListSessions(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sets, err := d.ListSets(SetFilter{})
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	return NewExportData(sessions, sets), nil
}

// ImportData imports data from an export file.
// Sessions go first so that sets can reference them.
func (d *DB) ImportData(data *ExportData) error {
	for _, s := range data.Sessions {
		s.Sets = nil
		if err := d.CreateSession(s); err != nil {
			return fmt.Errorf("import session: %w", err)
		}
	}

	for _, s := range data.Sets {
		if err := d.CreateSet(s); err != nil {
			return fmt.Errorf("import set: %w", err)
		}
	}

	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML with sets grouped by exercise.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string               `yaml:"version"`
		ExportedAt string               `yaml:"exported_at"`
		Tool       string               `yaml:"tool"`
		Exercises  map[string][]yamlSet `yaml:"exercises"`
		Sessions   []yamlSession        `yaml:"sessions"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Exercises:  make(map[string][]yamlSet),
		Sessions:   make([]yamlSession, 0, len(data.Sessions)),
	}

	for _, s := range data.Sets {
		ys := yamlSet{
			ID:          s.ID.String()[:8],
			Weight:      s.Weight,
			Reps:        s.Reps,
			RPE:         s.RPE,
			CompletedAt: s.CompletedAt.Format(time.RFC3339),
		}
		if s.SessionID != nil {
			ys.Session = s.SessionID.String()[:8]
		}
		if s.RestSeconds != nil {
			ys.Rest = *s.RestSeconds
		}
		if s.Notes != nil {
			ys.Notes = *s.Notes
		}
		yamlData.Exercises[s.Exercise] = append(yamlData.Exercises[s.Exercise], ys)
	}

	for _, s := range data.Sessions {
		ys := yamlSession{
			ID:          s.ID.String()[:8],
			Program:     s.Program,
			Status:      string(s.Status),
			StartedAt:   s.StartedAt.Format(time.RFC3339),
			TotalVolume: s.TotalVolume,
		}
		if s.AverageRPE != nil {
			ys.AverageRPE = *s.AverageRPE
		}
		if s.Notes != nil {
			ys.Notes = *s.Notes
		}
		yamlData.Sessions = append(yamlData.Sessions, ys)
	}

	return yaml.Marshal(yamlData)
}

type yamlSet struct {
	ID          string  `yaml:"id"`
	Session     string  `yaml:"session,omitempty"`
	Weight      float64 `yaml:"weight"`
	Reps        int     `yaml:"reps"`
	RPE         int     `yaml:"rpe"`
	Rest        int     `yaml:"rest_seconds,omitempty"`
	CompletedAt string  `yaml:"completed_at"`
	Notes       string  `yaml:"notes,omitempty"`
}

type yamlSession struct {
	ID          string  `yaml:"id"`
	Program     string  `yaml:"program,omitempty"`
	Status      string  `yaml:"status"`
	StartedAt   string  `yaml:"started_at"`
	TotalVolume float64 `yaml:"total_volume"`
	AverageRPE  int     `yaml:"average_rpe,omitempty"`
	Notes       string  `yaml:"notes,omitempty"`
}

// ExportMarkdown exports sets as Markdown tables, one per exercise, followed by sessions.
// An empty exercise exports all exercises; since limits output to sets on or after it.
func ExportMarkdown(repo Repository, exercise string, since *time.Time) (string, error) {
	sets, err := repo.ListSets(SetFilter{Exercise: exercise, Since: since})
	if err != nil {
		return "", err
	}

	grouped := make(map[string][]*models.Set)
	for _, s := range sets {
		grouped[s.Exercise] = append(grouped[s.Exercise], s)
	}
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Training Log Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("## %s\n\n", name))
		sb.WriteString("| Date | Weight | Reps | RPE | Volume | Notes |\n")
		sb.WriteString("|------|--------|------|-----|--------|-------|\n")
		for _, s := range grouped[name] {
			notes := ""
			if s.Notes != nil {
				notes = *s.Notes
			}
			sb.WriteString(fmt.Sprintf("| %s | %gkg | %d | %d | %g | %s |\n",
				s.CompletedAt.Local().Format("2006-01-02 15:04"),
				s.Weight, s.Reps, s.RPE, s.Volume(), notes))
		}
		sb.WriteString("\n")
	}

	if exercise != "" {
		return sb.String(), nil
	}

	sessions, err := repo.ListSessions(nil, 0)
	if err == nil && len(sessions) > 0 {
		if since != nil {
			var filtered []*models.Session
			for _, s := range sessions {
				if !s.StartedAt.Before(*since) {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}

		if len(sessions) > 0 {
			sb.WriteString("## Sessions\n\n")
			sb.WriteString("| Date | Program | Status | Volume | Avg RPE |\n")
			sb.WriteString("|------|---------|--------|--------|---------|\n")
			for _, s := range sessions {
				avg := ""
				if s.AverageRPE != nil {
					avg = fmt.Sprintf("%d", *s.AverageRPE)
				}
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | %g | %s |\n",
					s.StartedAt.Local().Format("2006-01-02 15:04"),
					s.Program, s.Status, s.TotalVolume, avg))
			}
		}
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return importValidated(repo, &exportData)
}

func importValidated(repo Repository, data *ExportData) error {
	for _, s := range data.Sets {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("import set %s: %w", s.ID, err)
		}
	}
	return repo.ImportData(data)
}
