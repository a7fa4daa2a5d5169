package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/nutriplan/internal/catalog"
	"github.com/sadopc/nutriplan/internal/config"
	"github.com/sadopc/nutriplan/internal/nutrition"
	"github.com/sadopc/nutriplan/internal/store"
	"github.com/sadopc/nutriplan/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("error: %v", err)
	}

	// Log lines would corrupt the alt screen, so they go to a file or nowhere.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "nutriplan")
		if err != nil {
			config.Exitf("error opening log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		config.Exitf("error opening database: %v", err)
	}
	defer s.Close()

	app := tui.NewApp(tui.Deps{
		Log:     nutrition.NewLog(s),
		Tracker: nutrition.NewTracker(nutrition.LoadTargets(s)),
		Catalog: catalog.New(catalog.Options{
			MealDBURL:        cfg.MealDBURL,
			ProductSearchURL: cfg.ProductSearchURL,
			ProductURL:       cfg.ProductURL,
			Timeout:          cfg.HTTPTimeout,
		}),
		Store: s,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
