package http

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

func cat(name string, amount, percent string) core.CategoryAmount {
	return core.CategoryAmount{
		Name:    name,
		Amount:  decimal.RequireFromString(amount),
		Percent: decimal.RequireFromString(percent),
	}
}

func TestBuildPieChartSingleCategoryIsFullCircle(t *testing.T) {
	chart := buildPieChart([]core.CategoryAmount{cat("Rent", "5000", "100")})
	if len(chart.Slices) != 1 {
		t.Fatalf("expected one slice, got %d", len(chart.Slices))
	}
	s := chart.Slices[0]
	if !s.Full || s.Path != "" {
		t.Errorf("single slice should be a full circle: %+v", s)
	}
	if s.Percent != "100.0%" {
		t.Errorf("Percent = %q", s.Percent)
	}
	if s.LabelX != chart.Center || s.LabelY != chart.Center {
		t.Errorf("label should be centered: %s,%s", s.LabelX, s.LabelY)
	}
}

func TestBuildPieChartSlices(t *testing.T) {
	chart := buildPieChart([]core.CategoryAmount{
		cat("Rent", "5000", "98.0392156862745098"),
		cat("Food", "100", "1.9607843137254902"),
		cat("Refund", "0", "0"),
	})
	if len(chart.Slices) != 2 {
		t.Fatalf("zero categories get no wedge, got %d slices", len(chart.Slices))
	}

	rent := chart.Slices[0]
	// Starts at 12 o'clock: (120, 10).
	if !strings.HasPrefix(rent.Path, "M 120.00 120.00 L 120.00 10.00 A 110.00 110.00 0 1 1 ") {
		t.Errorf("unexpected rent path %q", rent.Path)
	}
	if rent.Percent != "98.0%" || rent.Color != palette[0] {
		t.Errorf("unexpected rent slice %+v", rent)
	}

	food := chart.Slices[1]
	if !strings.Contains(food.Path, " 0 0 1 ") {
		t.Errorf("small slice must use the short arc: %q", food.Path)
	}
	if !strings.HasSuffix(food.Path, "120.00 10.00 Z") {
		t.Errorf("last slice should close at 12 o'clock: %q", food.Path)
	}
	if food.Percent != "2.0%" || food.Color != palette[1] {
		t.Errorf("unexpected food slice %+v", food)
	}
}

func TestColorAtCycles(t *testing.T) {
	if colorAt(len(palette)) != palette[0] {
		t.Error("palette should wrap around")
	}
}
