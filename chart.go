package main

import (
	"fmt"
	"sync/atomic"
)

type gradientStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// chartSpec is handed to the page's charting library as-is.
type chartSpec struct {
	ID           uint64         `json:"id"`
	Canvas       string         `json:"canvas"`
	Type         string         `json:"type"`
	IndexAxis    string         `json:"index_axis"`
	DatasetLabel string         `json:"dataset_label"`
	Labels       []string       `json:"labels"`
	Values       []float64      `json:"values"`
	Seconds      []float64      `json:"seconds"`
	Tooltips     []string       `json:"tooltips"`
	AxisMax      float64        `json:"axis_max"`
	Gradient     []gradientStop `json:"gradient"`
	BorderRadius int            `json:"border_radius"`
	BarThickness int            `json:"bar_thickness"`
}

var webUsageGradient = []gradientStop{
	{Offset: 0.00, Color: "rgba(0, 255, 150, 1)"},
	{Offset: 0.15, Color: "rgba(0, 200, 200, 1)"},
	{Offset: 1.00, Color: "rgba(0, 100, 255, 1)"},
}

var chartSeq atomic.Uint64

type chartInstance struct {
	spec      chartSpec
	destroyed atomic.Bool
}

func newChartInstance(spec chartSpec) *chartInstance {
	spec.ID = chartSeq.Add(1)
	return &chartInstance{spec: spec}
}

func (c *chartInstance) destroy() { c.destroyed.Store(true) }

func (c *chartInstance) isDestroyed() bool { return c.destroyed.Load() }

// webUsageAxisMax leaves a 5% margin past the longest bar.
func webUsageAxisMax(percents []float64) float64 {
	maxPercent := 0.0
	for _, p := range percents {
		if p > maxPercent {
			maxPercent = p
		}
	}
	if maxPercent <= 0 {
		return 1
	}
	return maxPercent * 1.05
}

func buildWebUsageChart(rows []webUsageRow) (chartSpec, bool) {
	spec := chartSpec{
		Canvas:       idWeblogsChart,
		Type:         "bar",
		IndexAxis:    "y",
		DatasetLabel: "Web Usage %",
		Gradient:     webUsageGradient,
		BorderRadius: 10,
		BarThickness: 20,
	}
	hasData := false
	for _, r := range rows {
		pct := 0.0
		if r.Percent.Valid {
			pct = r.Percent.Value
		}
		secs := 0.0
		if r.Seconds.Valid {
			secs = r.Seconds.Value
		}
		if pct > 0 {
			hasData = true
		}
		spec.Labels = append(spec.Labels, r.Label)
		spec.Values = append(spec.Values, pct)
		spec.Seconds = append(spec.Seconds, secs)
		spec.Tooltips = append(spec.Tooltips, fmt.Sprintf("%s: %.2f%% • %s", r.Label, pct, formatDurationSmart(secs)))
	}
	if !hasData {
		return chartSpec{}, false
	}
	spec.AxisMax = webUsageAxisMax(spec.Values)
	return spec, true
}
