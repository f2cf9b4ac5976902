package wallet

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/polyfolio/internal/models"
)

// ErrNoPnLData is returned when there is nothing to chart
var ErrNoPnLData = errors.New("no P&L history to chart")

// RenderPnLChart renders a PNG of cumulative P&L (solid) and per-bucket P&L
// (dashed). A zero baseline one bucket before the first point anchors the line.
func RenderPnLChart(points []models.PnLPoint) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoPnLData
	}

	xValues := make([]time.Time, 0, len(points)+1)
	cumulativeY := make([]float64, 0, len(points)+1)
	bucketY := make([]float64, 0, len(points)+1)

	daily := false
	for i, p := range points {
		at, isDaily, err := parseBucket(p.Date)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			daily = isDaily
			xValues = append(xValues, previousBucket(at, daily))
			cumulativeY = append(cumulativeY, 0)
			bucketY = append(bucketY, 0)
		}
		xValues = append(xValues, at)
		cumulativeY = append(cumulativeY, p.CumulativePnL)
		bucketY = append(bucketY, p.PnL)
	}

	dateFormat := "Jan 06"
	if daily {
		dateFormat = "02 Jan"
	}

	cumulativeSeries := chart.TimeSeries{
		Name: "Cumulative P&L",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("16a34a"), // green-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: cumulativeY,
	}

	bucketSeries := chart.TimeSeries{
		Name: "Period P&L",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: bucketY,
	}

	graph := chart.Chart{
		Title:  "Wallet P&L",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format(dateFormat)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			cumulativeSeries,
			bucketSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

func parseBucket(date string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse("2006-01", date); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("unrecognised P&L bucket %q", date)
}

func previousBucket(t time.Time, daily bool) time.Time {
	if daily {
		return t.AddDate(0, 0, -1)
	}
	return t.AddDate(0, -1, 0)
}
