// Package chart renders standings as horizontal bar charts encoded as PNG.
package chart

import (
	"bytes"
	"fmt"
	"math"

	"f1-telegram-bot/internal/colors"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Bar is one row of the chart. Bars sharing a Group share a legend entry.
type Bar struct {
	Label string
	Value float64
	Color colors.RGB
	Group string
}

// Options describes the chart decoration.
type Options struct {
	Title  string
	XLabel string
	Width  int
}

const (
	defaultWidth = 1200
	rowHeight    = 40
	barFill      = 0.6
	marginTop    = 80
	marginBottom = 70
	marginSide   = 24
	tickCount    = 5
	swatchSize   = 14
)

type theme struct {
	Background drawing.Color
	Text       drawing.Color
	Grid       drawing.Color
	Axis       drawing.Color
}

var darkTheme = theme{
	Background: drawing.Color{R: 30, G: 30, B: 30, A: 255},
	Text:       drawing.Color{R: 220, G: 220, B: 220, A: 255},
	Grid:       drawing.Color{R: 100, G: 100, B: 100, A: 128},
	Axis:       drawing.Color{R: 160, G: 160, B: 160, A: 255},
}

// RenderHorizontalBars draws bars top to bottom in input order, writes each
// value at the end of its bar and adds a legend of the distinct groups in
// first-seen order.
func RenderHorizontalBars(opt Options, bars []Bar) (png []byte, err error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars to render")
	}
	if opt.Width <= 0 {
		opt.Width = defaultWidth
	}

	regular, bold, err := loadFonts()
	if err != nil {
		return nil, err
	}

	height := marginTop + len(bars)*rowHeight + marginBottom
	f, err := newFigure(opt.Width, height)
	if err != nil {
		return nil, err
	}
	defer f.release()

	defer func() {
		if r := recover(); r != nil {
			png, err = nil, errors.Errorf("chart rendering panicked: %v", r)
		}
	}()

	f.draw(opt, bars, regular, bold)
	return f.encode()
}

// Legend returns the distinct non-empty groups in first-seen order.
func Legend(bars []Bar) []Bar {
	seen := make(map[string]bool)
	var legend []Bar
	for _, b := range bars {
		if b.Group == "" || seen[b.Group] {
			continue
		}
		seen[b.Group] = true
		legend = append(legend, Bar{Label: b.Group, Color: b.Color, Group: b.Group})
	}
	return legend
}

type figure struct {
	r      gochart.Renderer
	width  int
	height int
}

func newFigure(width, height int) (*figure, error) {
	r, err := gochart.PNG(width, height)
	if err != nil {
		return nil, errors.Wrap(err, "could not create chart canvas")
	}
	return &figure{r: r, width: width, height: height}, nil
}

func (f *figure) encode() ([]byte, error) {
	if f.r == nil {
		return nil, errors.New("chart canvas already released")
	}
	var buf bytes.Buffer
	if err := f.r.Save(&buf); err != nil {
		return nil, errors.Wrap(err, "could not encode chart")
	}
	return buf.Bytes(), nil
}

// release drops the canvas; the figure cannot be drawn or encoded after it.
func (f *figure) release() {
	f.r = nil
}

func (f *figure) draw(opt Options, bars []Bar, regular, bold *truetype.Font) {
	r := f.r

	f.rect(0, 0, f.width, f.height, darkTheme.Background)

	r.SetFont(regular)
	r.SetFontSize(11)
	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, r.MeasureText(b.Label).Width())
	}

	legend := Legend(bars)
	legendWidth := 0
	for _, l := range legend {
		legendWidth = max(legendWidth, r.MeasureText(l.Label).Width()+swatchSize+16)
	}

	maxValue := 0.0
	for _, b := range bars {
		maxValue = math.Max(maxValue, b.Value)
	}
	if maxValue <= 0 {
		maxValue = 1
	}

	left := marginSide + labelWidth + 12
	right := f.width - marginSide - legendWidth - 60
	if legendWidth > 0 {
		right -= marginSide
	}
	top := marginTop
	bottom := marginTop + len(bars)*rowHeight
	plotWidth := float64(right - left)

	// vertical grid with tick values underneath
	r.SetFontColor(darkTheme.Text)
	r.SetFontSize(10)
	for i := 0; i <= tickCount; i++ {
		v := maxValue * float64(i) / tickCount
		x := left + int(plotWidth*float64(i)/tickCount)
		r.SetStrokeColor(darkTheme.Grid)
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{4, 4})
		r.MoveTo(x, top)
		r.LineTo(x, bottom)
		r.Stroke()

		tick := formatValue(v)
		tb := r.MeasureText(tick)
		r.Text(tick, x-tb.Width()/2, bottom+18)
	}
	r.SetStrokeDashArray(nil)

	r.SetStrokeColor(darkTheme.Axis)
	r.SetStrokeWidth(1.5)
	r.MoveTo(left, top)
	r.LineTo(left, bottom)
	r.Stroke()

	barHeight := int(rowHeight * barFill)
	for i, b := range bars {
		rowTop := top + i*rowHeight
		center := rowTop + rowHeight/2
		width := int(plotWidth * math.Max(b.Value, 0) / maxValue)

		f.rect(left, center-barHeight/2, left+width, center+barHeight/2, toDrawing(b.Color))

		r.SetFont(regular)
		r.SetFontSize(11)
		r.SetFontColor(darkTheme.Text)
		lb := r.MeasureText(b.Label)
		r.Text(b.Label, left-12-lb.Width(), center+lb.Height()/2)

		value := formatValue(b.Value)
		vb := r.MeasureText(value)
		r.Text(value, left+width+8, center+vb.Height()/2)
	}

	if opt.XLabel != "" {
		r.SetFont(bold)
		r.SetFontSize(12)
		xb := r.MeasureText(opt.XLabel)
		r.Text(opt.XLabel, left+int(plotWidth)/2-xb.Width()/2, bottom+48)
	}

	if opt.Title != "" {
		r.SetFont(bold)
		r.SetFontSize(18)
		tb := r.MeasureText(opt.Title)
		r.Text(opt.Title, f.width/2-tb.Width()/2, marginTop/2+tb.Height()/2)
	}

	if len(legend) > 0 {
		r.SetFont(regular)
		r.SetFontSize(10)
		x := f.width - marginSide - legendWidth
		y := bottom - len(legend)*(swatchSize+8)
		for _, l := range legend {
			f.rect(x, y, x+swatchSize, y+swatchSize, toDrawing(l.Color))
			r.SetFontColor(darkTheme.Text)
			r.Text(l.Label, x+swatchSize+8, y+swatchSize-2)
			y += swatchSize + 8
		}
	}
}

func (f *figure) rect(x0, y0, x1, y1 int, c drawing.Color) {
	f.r.SetFillColor(c)
	f.r.SetStrokeColor(c)
	f.r.SetStrokeWidth(0)
	f.r.MoveTo(x0, y0)
	f.r.LineTo(x1, y0)
	f.r.LineTo(x1, y1)
	f.r.LineTo(x0, y1)
	f.r.Close()
	f.r.Fill()
}

func toDrawing(c colors.RGB) drawing.Color {
	r, g, b := c.Components()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
