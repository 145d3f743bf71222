package manualdoc

import (
	"strings"
	"testing"

	"git.home.luguber.info/inful/manualbox/internal/errors"
	"git.home.luguber.info/inful/manualbox/internal/models"
)

func TestRenderMarkdown(t *testing.T) {
	m := models.Manual{
		ID:      "m-1",
		Format:  models.ManualMarkdown,
		Content: "# Care\n\nWipe with a **damp** cloth.\n",
	}

	got, err := Render(m)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "<strong>damp</strong>") {
		t.Errorf("Render() = %q, missing expected HTML", got)
	}
}

func TestRenderHTMLPassthrough(t *testing.T) {
	m := models.Manual{
		Format:  models.ManualHTML,
		Content: "<p>Keep dry.</p>",
	}
	got, err := Render(m)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got != m.Content {
		t.Errorf("Render() = %q, want passthrough", got)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(models.Manual{Format: "pdf"})
	if err == nil {
		t.Fatal("Render() must reject an unknown format")
	}
	if !errors.IsCategory(err, errors.CategoryValidation) {
		t.Errorf("error category = %v, want validation", errors.GetCategory(err))
	}
}

func TestExtractLinksMarkdown(t *testing.T) {
	m := models.Manual{
		Format: models.ManualMarkdown,
		Content: "See the [support page](https://example.com/support).\n\n" +
			"![wiring diagram](images/wiring.png)\n\n" +
			"Or visit <https://example.com>.\n",
	}

	links, err := ExtractLinks(m)
	if err != nil {
		t.Fatalf("ExtractLinks() error: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("ExtractLinks() returned %d links, want 3", len(links))
	}

	want := []struct {
		kind LinkKind
		dest string
	}{
		{LinkInline, "https://example.com/support"},
		{LinkImage, "images/wiring.png"},
		{LinkAuto, "https://example.com"},
	}
	for i, w := range want {
		if links[i].Kind != w.kind || links[i].Destination != w.dest {
			t.Errorf("links[%d] = %+v, want kind=%s dest=%s", i, links[i], w.kind, w.dest)
		}
	}
}

func TestExtractLinksHTML(t *testing.T) {
	m := models.Manual{
		Format: models.ManualHTML,
		Content: `<p><a href="https://example.com/manual.pdf">Download manual</a></p>` +
			`<img src="front.jpg" alt="front panel">`,
	}

	links, err := ExtractLinks(m)
	if err != nil {
		t.Fatalf("ExtractLinks() error: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("ExtractLinks() returned %d links, want 2", len(links))
	}
	if links[0].Destination != "https://example.com/manual.pdf" || links[0].Text != "Download manual" {
		t.Errorf("links[0] = %+v", links[0])
	}
	if links[1].Kind != LinkImage || links[1].Text != "front panel" {
		t.Errorf("links[1] = %+v", links[1])
	}
}

func TestExtractLinksNoLinks(t *testing.T) {
	m := models.Manual{Format: models.ManualMarkdown, Content: "Plain text only.\n"}
	links, err := ExtractLinks(m)
	if err != nil {
		t.Fatalf("ExtractLinks() error: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("ExtractLinks() = %v, want none", links)
	}
}
