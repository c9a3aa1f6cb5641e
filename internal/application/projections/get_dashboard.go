package projections

import (
	"context"
	"math"
	"strings"

	"capacitaciones/internal/application/textnorm"
	"capacitaciones/internal/domain/training"
)

// AreaValue is one chart bar: a requesting area and the summed metric.
type AreaValue struct {
	Area  string  `json:"area"`
	Value float64 `json:"value"`
}

// DashboardTotals are the stat-card numbers, computed over the filtered set
// independently of the chart grouping.
type DashboardTotals struct {
	Trainings          int     `json:"trainings"`
	UniqueParticipants int     `json:"uniqueParticipants"`
	Hours              float64 `json:"hours"`
	Investment         float64 `json:"investment"`
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Filter Filter
	Metric string // one of training.Metric*; defaults to participants
}

// GetDashboardResult carries stat totals and chart data.
type GetDashboardResult struct {
	Totals    DashboardTotals `json:"totals"`
	Metric    string          `json:"metric"`
	Chart     []AreaValue     `json:"chart"`
	AxisMax   float64         `json:"axisMax"`
	AxisSteps []float64       `json:"axisSteps"` // 5 ascending labels, 0..AxisMax
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Trainings TrainingSource
}

// QueryGetDashboard filters the record collection and aggregates the chosen
// metric per requesting area, plus the global totals.
// PRE: deps.Trainings is non-nil
// POST: Chart groups appear in first-seen order over the filtered subset;
//
//	areas with no records are omitted
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	records, err := deps.Trainings.Load(ctx)
	if err != nil {
		return GetDashboardResult{}, err
	}
	filtered := query.Filter.Apply(records)

	metric := query.Metric
	switch metric {
	case training.MetricParticipants, training.MetricHours, training.MetricInvestment:
	default:
		metric = training.MetricParticipants
	}

	chart := aggregateByArea(filtered, metric)
	axisMax := NiceMax(maxValue(chart))

	result := GetDashboardResult{
		Totals:    computeTotals(filtered),
		Metric:    metric,
		Chart:     chart,
		AxisMax:   axisMax,
		AxisSteps: axisSteps(axisMax),
	}
	return result, nil
}

// aggregateByArea sums the metric per raw requestingArea value. Distinct
// casings or spellings form distinct groups, mirroring the stored data.
func aggregateByArea(records []training.Training, metric string) []AreaValue {
	index := make(map[string]int, 4)
	out := make([]AreaValue, 0, 4)
	for _, t := range records {
		i, ok := index[t.RequestingArea]
		if !ok {
			i = len(out)
			index[t.RequestingArea] = i
			out = append(out, AreaValue{Area: t.RequestingArea})
		}
		switch metric {
		case training.MetricHours:
			out[i].Value += t.Duration
		case training.MetricInvestment:
			out[i].Value += t.Investment
		default:
			out[i].Value += float64(len(t.Participants))
		}
	}
	return out
}

// computeTotals sums record count, hours and investment, and counts unique
// participants: once per non-blank id, otherwise once per normalized name.
func computeTotals(records []training.Training) DashboardTotals {
	totals := DashboardTotals{Trainings: len(records)}
	unique := make(map[string]struct{})
	for _, t := range records {
		totals.Hours += t.Duration
		totals.Investment += t.Investment
		for _, p := range t.Participants {
			// Trim before keying: records can reach the slot outside the
			// cleaned save/import path.
			id := strings.TrimSpace(p.ID)
			name := strings.TrimSpace(p.Name)
			switch {
			case id != "":
				unique["id:"+id] = struct{}{}
			case name != "":
				unique["name:"+textnorm.Normalize(name)] = struct{}{}
			}
		}
	}
	totals.UniqueParticipants = len(unique)
	return totals
}

// NiceMax returns the smallest power-of-ten multiple >= max for the chart
// y-axis top. A zero maximum uses a default scale of 10.
func NiceMax(max float64) float64 {
	if max <= 0 {
		return 10
	}
	exponent := math.Pow(10, math.Floor(math.Log10(max)))
	nice := math.Ceil(max/exponent) * exponent
	if nice <= 0 {
		return 1
	}
	return nice
}

// axisSteps divides the axis into 4 equal steps, 5 labels from 0 to max.
func axisSteps(max float64) []float64 {
	const numSteps = 4
	steps := make([]float64, numSteps+1)
	for i := 0; i <= numSteps; i++ {
		steps[i] = max / numSteps * float64(i)
	}
	return steps
}

func maxValue(chart []AreaValue) float64 {
	var max float64
	for _, c := range chart {
		if c.Value > max {
			max = c.Value
		}
	}
	return max
}
