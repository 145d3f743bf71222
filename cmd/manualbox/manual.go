package main

import (
	"context"
	"fmt"
	"io"

	"git.home.luguber.info/inful/manualbox/internal/config"
	"git.home.luguber.info/inful/manualbox/internal/manualdoc"
	"git.home.luguber.info/inful/manualbox/internal/models"
	"git.home.luguber.info/inful/manualbox/internal/store"
)

// runManualRender writes one stored manual as HTML.
func runManualRender(configPath, id string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.Manuals().FetchByID(context.Background(), id)
	if err != nil {
		return err
	}

	html, err := manualdoc.Render(m)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, html)
	return nil
}

// runManualLinks reports the outbound links of one manual, or of every stored
// manual when id is empty.
func runManualLinks(configPath, id string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Data.DatabasePath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	var manuals []models.Manual
	if id != "" {
		m, err := s.Manuals().FetchByID(ctx, id)
		if err != nil {
			return err
		}
		manuals = []models.Manual{m}
	} else {
		manuals, err = s.Manuals().FetchAll(ctx)
		if err != nil {
			return err
		}
	}

	for _, m := range manuals {
		links, err := manualdoc.ExtractLinks(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s (%s): %d link(s)\n", m.Title, m.ID, len(links))
		for _, l := range links {
			if l.Text != "" {
				fmt.Fprintf(out, "  [%s] %s (%s)\n", l.Kind, l.Destination, l.Text)
			} else {
				fmt.Fprintf(out, "  [%s] %s\n", l.Kind, l.Destination)
			}
		}
	}
	return nil
}
