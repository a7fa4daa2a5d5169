package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/nutriplan/internal/nutrition"
)

func ToCSV(entries []nutrition.Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Logged At", "Name", "Calories (kcal)", "Protein (g)", "Carbs (g)", "Fat (g)"}); err != nil {
		return err
	}

	for _, e := range entries {
		row := []string{
			fmt.Sprintf("%d", e.ID),
			e.LoggedAt().Local().Format(time.RFC3339),
			e.Name,
			nutrition.FormatAmount(e.Cal),
			nutrition.FormatAmount(e.Pro),
			nutrition.FormatAmount(e.Carb),
			nutrition.FormatAmount(e.Fat),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	t := nutrition.Aggregate(entries)
	if err := w.Write([]string{
		"", "", "Total",
		nutrition.FormatAmount(t.Cal),
		nutrition.FormatAmount(t.Pro),
		nutrition.FormatAmount(t.Carb),
		nutrition.FormatAmount(t.Fat),
	}); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
