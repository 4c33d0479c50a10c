package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
)

func testResult(t *testing.T, algo manabase.Algorithm) *manabase.Result {
	t.Helper()

	var entries []manabase.DeckEntry
	for _, c := range []struct {
		name, cost string
		qty        int
	}{
		{"Lightning Helix", "{R}{W}", 4},
		{"Skullcrack", "{1}{R}", 4},
		{"Wrath of God", "{2}{W}{W}", 2},
	} {
		e, err := manabase.NewDeckEntry(c.name, c.cost, c.qty)
		if err != nil {
			t.Fatalf("NewDeckEntry: %v", err)
		}
		entries = append(entries, e)
	}

	r, err := manabase.Assemble(manabase.Request{
		Format:    manabase.FormatRequest{Name: "modern"},
		Entries:   entries,
		Algorithm: algo,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	return r
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testResult(t, manabase.Simple), DefaultChartConfig()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"<html", "Land Allocation", "Pip Distribution", "Plains", "Mountain"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(html, "Sources Needed") {
		t.Error("simple result should not render source chart")
	}
}

func TestRender_Hypergeometric(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, testResult(t, manabase.Hypergeometric), DefaultChartConfig()); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Sources Needed") {
		t.Error("hypergeometric result should render source chart")
	}
}

func TestRenderFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manabase.html")
	if err := RenderFile(testResult(t, manabase.CMCWeighted), DefaultChartConfig(), path); err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file not created: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}

func TestRenderFile_BadPath(t *testing.T) {
	err := RenderFile(testResult(t, manabase.Simple), DefaultChartConfig(), filepath.Join(t.TempDir(), "missing", "x.html"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestPercent(t *testing.T) {
	if got := percent(0.3333); got != 33.3 {
		t.Errorf("percent(0.3333) = %v", got)
	}
}
