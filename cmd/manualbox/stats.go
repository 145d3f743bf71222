package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"git.home.luguber.info/inful/manualbox/internal/config"
	"git.home.luguber.info/inful/manualbox/internal/eventstore"
	"git.home.luguber.info/inful/manualbox/internal/stats"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

// runStats prints inventory and warranty statistics for the configured
// database.
func runStats(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	svc := stats.New(s, nil, nil, cfg.Expiry.Window)
	ctx := context.Background()

	inv, err := svc.Inventory(ctx)
	if err != nil {
		return err
	}
	warr, err := svc.Warranties(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	fmt.Printf("Inventory\n")
	fmt.Printf("  Categories:  %d\n", inv.Categories)
	fmt.Printf("  Products:    %d\n", inv.Products)
	fmt.Printf("  Manuals:     %d\n", inv.Manuals)
	fmt.Printf("  Orders:      %d\n", inv.Orders)
	fmt.Printf("  Total value: %.2f\n", float64(inv.TotalValueCents)/100)
	fmt.Printf("Warranties\n")
	fmt.Printf("  Total:         %d\n", warr.Total)
	fmt.Printf("  Active:        %d\n", warr.Active)
	fmt.Printf("  Expiring soon: %d\n", warr.ExpiringSoon)
	fmt.Printf("  Expired:       %d\n", warr.Expired)
	fmt.Printf("  Coverage:      %.0f%%\n", warr.CoverageRatio()*100)
	return nil
}

// runExportLogs dumps journaled error events, oldest first. The in-memory
// sink does not outlive the process, so the export reads the event journal.
func runExportLogs(configPath, outputPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Data.JournalPath == "" {
		return fmt.Errorf("export-logs requires data.journal_path to be configured")
	}

	journal, err := eventstore.Open(cfg.Data.JournalPath)
	if err != nil {
		return err
	}
	defer journal.Close()

	records, err := journal.GetByType(context.Background(), "ErrorEvent", 0)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	// GetByType is newest first; dump oldest first.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		var payload struct {
			Context  string `json:"Context"`
			Category string `json:"Category"`
			Message  string `json:"Message"`
		}
		if err := json.Unmarshal(r.Payload, &payload); err != nil {
			fmt.Fprintf(out, "%s [?] %s\n", r.Timestamp.Format(time.RFC3339), string(r.Payload))
			continue
		}
		fmt.Fprintf(out, "%s [%s] (%s): %s\n",
			r.Timestamp.Format(time.RFC3339), payload.Category, payload.Context, payload.Message)
	}
	return nil
}
