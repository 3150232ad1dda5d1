package commands

import (
	"context"
	"strings"
	"testing"

	"f1-telegram-bot/internal/colors"
	"f1-telegram-bot/internal/progress"

	"github.com/pkg/errors"
)

func TestRaceResults(t *testing.T) {
	h, src := newTestHandler(t, map[string][]byte{
		testBaseURL + "/2023/1/results.json": fixture(t, "results_2023_1.json"),
	})

	replies, err := h.RaceResults(context.Background(), 2023, 1)
	if err != nil {
		t.Fatalf("RaceResults returned error: %v", err)
	}
	if len(src.requests) != 1 || src.requests[0].force {
		t.Fatalf("requests = %+v, want one cached request", src.requests)
	}

	if len(replies) != 5 {
		t.Fatalf("replies = %d, want summary + 4 pages", len(replies))
	}

	summary := replies[0]
	if summary.Title != "🏁 Bahrain Grand Prix 2023" {
		t.Fatalf("title = %q", summary.Title)
	}
	if !strings.Contains(summary.Description, "Bahrain International Circuit, Bahrain") ||
		!strings.Contains(summary.Description, "2023-03-05") {
		t.Fatalf("description = %q", summary.Description)
	}
	if summary.Footer != footerText || !summary.Timestamp.Equal(fixedNow) {
		t.Fatalf("footer = %q at %v", summary.Footer, summary.Timestamp)
	}

	fields := map[string]string{}
	for _, f := range summary.Fields {
		fields[f.Name] = f.Value
	}
	wantPodium := "🥇 Max Verstappen (Red Bull)\n🥈 Sergio Pérez (Red Bull)\n🥉 Fernando Alonso (Aston Martin)"
	if fields["🏆 Podium"] != wantPodium {
		t.Fatalf("podium = %q, want %q", fields["🏆 Podium"], wantPodium)
	}
	if fields["⚡ Fastest Lap"] != "Lewis Hamilton - 1:33.996" {
		t.Fatalf("fastest lap = %q", fields["⚡ Fastest Lap"])
	}

	wantPages := []struct {
		title string
		size  int
		color colors.RGB
	}{
		{"Positions 1-7", 7, colors.Resolve("Red Bull")},
		{"Positions 8-14", 7, colors.Resolve("Alfa Romeo")},
		{"Positions 15-21", 7, colors.Resolve("Haas F1 Team")},
		{"Positions 22-23", 2, colors.Resolve("AlphaTauri")},
	}
	for i, want := range wantPages {
		page := replies[i+1]
		if page.Title != want.title || len(page.Fields) != want.size {
			t.Fatalf("page %d = %q with %d rows, want %q with %d", i, page.Title, len(page.Fields), want.title, want.size)
		}
		if page.Color != want.color {
			t.Fatalf("page %d color = %s, want %s", i, page.Color.Hex(), want.color.Hex())
		}
	}

	winner := replies[1].Fields[0]
	if winner.Name != "1. Max Verstappen" {
		t.Fatalf("first row = %q", winner.Name)
	}
	if !strings.Contains(winner.Value, "⏱️ 1:33:56.736") || !strings.HasSuffix(winner.Value, strings.Repeat(progress.Filled, 20)) {
		t.Fatalf("winner row = %q", winner.Value)
	}

	last := replies[4].Fields[1]
	if last.Name != "23. Oliver Bearman" || !strings.HasSuffix(last.Value, strings.Repeat(progress.Empty, 20)) {
		t.Fatalf("last row = %q: %q", last.Name, last.Value)
	}

	retired := replies[3].Fields[5]
	if retired.Name != "20. Oscar Piastri (R)" || !strings.Contains(retired.Value, "⏱️ ⚠️ Collision") {
		t.Fatalf("retired row = %q: %q", retired.Name, retired.Value)
	}
}

func TestRaceResults_NotFound(t *testing.T) {
	h, _ := newTestHandler(t, map[string][]byte{
		testBaseURL + "/2030/1/results.json": []byte(`{"MRData":{"RaceTable":{"season":"2030","Races":[]}}}`),
		testBaseURL + "/2030/2/results.json": []byte(`{"MRData":{}}`),
	})

	for _, round := range []int{1, 2} {
		replies, err := h.RaceResults(context.Background(), 2030, round)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("round %d error = %v, want ErrNotFound", round, err)
		}
		if replies != nil {
			t.Fatalf("round %d replies = %+v", round, replies)
		}
	}
}

func TestRaceResults_FetchErrorPropagates(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	_, err := h.RaceResults(context.Background(), 2023, 1)
	if !errors.Is(err, errUpstream) {
		t.Fatalf("error = %v, want upstream error", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("fetch error reported as not found")
	}
}

func TestPodium_OnlyTopThreeInOrder(t *testing.T) {
	rows := []RaceResultRow{
		{Position: 1, Driver: "A", Team: "X"},
		{Position: 2, Driver: "B", Team: "Y"},
		{Position: 3, Driver: "C", Team: "Z"},
		{Position: 4, Driver: "D", Team: "W"},
	}
	got := Podium(rows)
	want := []string{"🥇 A (X)", "🥈 B (Y)", "🥉 C (Z)"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Podium = %v, want %v", got, want)
	}
}

func TestRaceResultRowLabel(t *testing.T) {
	tests := []struct {
		positionText string
		want         string
	}{
		{"20", "20. Oscar Piastri"},
		{"", "20. Oscar Piastri"},
		{"R", "20. Oscar Piastri (R)"},
		{"D", "20. Oscar Piastri (D)"},
		{" W ", "20. Oscar Piastri (W)"},
	}
	for _, tt := range tests {
		row := RaceResultRow{Position: 20, PositionText: tt.positionText, Driver: "Oscar Piastri"}
		if got := row.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.positionText, got, tt.want)
		}
	}
}
