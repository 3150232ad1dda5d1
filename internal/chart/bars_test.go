package chart

import (
	"bytes"
	"image/png"
	"testing"
)

func sampleBars() []Bar {
	return []Bar{
		{Label: "M. Verstappen", Value: 575, Color: 0x0600EF, Group: "Red Bull"},
		{Label: "S. Perez", Value: 285, Color: 0x0600EF, Group: "Red Bull"},
		{Label: "L. Hamilton", Value: 234, Color: 0x00D2BE, Group: "Mercedes"},
		{Label: "F. Alonso", Value: 206.5, Color: 0x006F62, Group: "Aston Martin"},
	}
}

func TestRenderHorizontalBars_EncodesPNG(t *testing.T) {
	bars := sampleBars()
	data, err := RenderHorizontalBars(Options{Title: "2023 Driver Standings", XLabel: "Points"}, bars)
	if err != nil {
		t.Fatalf("RenderHorizontalBars returned error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if cfg.Width != defaultWidth {
		t.Fatalf("width = %d, want %d", cfg.Width, defaultWidth)
	}
	if want := marginTop + len(bars)*rowHeight + marginBottom; cfg.Height != want {
		t.Fatalf("height = %d, want %d", cfg.Height, want)
	}
}

func TestRenderHorizontalBars_WithoutGroups(t *testing.T) {
	bars := []Bar{{Label: "Ferrari", Value: 0, Color: 0xDC0000}}
	if _, err := RenderHorizontalBars(Options{Width: 600}, bars); err != nil {
		t.Fatalf("RenderHorizontalBars returned error: %v", err)
	}
}

func TestRenderHorizontalBars_Empty(t *testing.T) {
	if _, err := RenderHorizontalBars(Options{}, nil); err == nil {
		t.Fatal("expected an error for an empty chart")
	}
}

func TestLegend_FirstSeenOrder(t *testing.T) {
	legend := Legend(sampleBars())
	want := []string{"Red Bull", "Mercedes", "Aston Martin"}
	if len(legend) != len(want) {
		t.Fatalf("legend = %+v, want %v", legend, want)
	}
	for i, l := range legend {
		if l.Label != want[i] {
			t.Fatalf("legend[%d] = %q, want %q", i, l.Label, want[i])
		}
	}
	if legend[0].Color != 0x0600EF {
		t.Fatalf("legend color = %s", legend[0].Color.Hex())
	}
}

func TestFormatValue(t *testing.T) {
	if got := formatValue(575); got != "575" {
		t.Fatalf("formatValue(575) = %q", got)
	}
	if got := formatValue(206.5); got != "206.5" {
		t.Fatalf("formatValue(206.5) = %q", got)
	}
}
