package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/nutriplan/internal/nutrition"
)

type jsonExport struct {
	ExportedAt string               `json:"exported_at"`
	Count      int                  `json:"count"`
	Totals     nutrition.Totals     `json:"totals"`
	Targets    nutrition.Targets    `json:"targets"`
	Progress   []nutrition.Progress `json:"progress"`
	Entries    []jsonEntry          `json:"entries"`
}

type jsonEntry struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	LoggedAt string  `json:"logged_at"`
	Ago      string  `json:"logged_ago"`
	Cal      float64 `json:"cal"`
	Pro      float64 `json:"pro"`
	Carb     float64 `json:"carb"`
	Fat      float64 `json:"fat"`
}

func ToJSON(entries []nutrition.Entry, targets nutrition.Targets, path string) error {
	summary := nutrition.NewTracker(targets).Report(entries)
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      summary.Count,
		Totals:     summary.Totals,
		Targets:    targets,
		Progress:   summary.Progress,
	}

	for _, e := range entries {
		export.Entries = append(export.Entries, jsonEntry{
			ID:       e.ID,
			Name:     e.Name,
			LoggedAt: e.LoggedAt().Local().Format(time.RFC3339),
			Ago:      humanize.Time(e.LoggedAt()),
			Cal:      e.Cal,
			Pro:      e.Pro,
			Carb:     e.Carb,
			Fat:      e.Fat,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
