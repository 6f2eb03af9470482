package http

import (
	"fmt"
	"math"

	"expensetracker/internal/core"
)

// palette cycles through slice colors in breakdown order.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

func colorAt(i int) string {
	return palette[i%len(palette)]
}

// PieSlice is one drawable wedge. Full wedges are drawn as a circle since an
// SVG arc cannot start and end on the same point.
type PieSlice struct {
	Name    string
	Color   string
	Path    string
	Full    bool
	Percent string
	LabelX  string
	LabelY  string
}

// PieChart is the geometry of the category chart in a Size x Size viewBox.
type PieChart struct {
	Size   int
	Center string
	Radius string
	Slices []PieSlice
}

const (
	pieSize      = 240
	pieRadius    = 110.0
	labelRadius  = 0.62
	startAngle   = -math.Pi / 2 // 12 o'clock
	fullFraction = 0.9995
)

// buildPieChart lays out one wedge per positive category total. Angles
// follow each category's Percent, clockwise from the top.
func buildPieChart(breakdown []core.CategoryAmount) PieChart {
	c := float64(pieSize) / 2
	chart := PieChart{
		Size:   pieSize,
		Center: coord(c),
		Radius: coord(pieRadius),
	}

	angle := startAngle
	for i, cat := range breakdown {
		if !cat.Amount.IsPositive() || !cat.Percent.IsPositive() {
			continue
		}
		frac := cat.Percent.InexactFloat64() / 100
		end := angle + frac*2*math.Pi
		mid := angle + frac*math.Pi

		s := PieSlice{
			Name:    cat.Name,
			Color:   colorAt(i),
			Percent: formatPercent(cat.Percent),
			LabelX:  coord(c + pieRadius*labelRadius*math.Cos(mid)),
			LabelY:  coord(c + pieRadius*labelRadius*math.Sin(mid)),
		}
		if frac >= fullFraction {
			s.Full = true
			s.LabelX, s.LabelY = coord(c), coord(c)
		} else {
			s.Path = wedgePath(c, pieRadius, angle, end, frac > 0.5)
		}
		chart.Slices = append(chart.Slices, s)
		angle = end
	}
	return chart
}

func wedgePath(c, r, from, to float64, large bool) string {
	largeArc := 0
	if large {
		largeArc = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		coord(c), coord(c),
		coord(c+r*math.Cos(from)), coord(c+r*math.Sin(from)),
		coord(r), coord(r), largeArc,
		coord(c+r*math.Cos(to)), coord(c+r*math.Sin(to)))
}

func coord(v float64) string {
	if math.Abs(v) < 0.005 {
		v = 0
	}
	return fmt.Sprintf("%.2f", v)
}
