// Package followup aggregates monthly follow-up records into trend metrics.
package followup

import (
	"math"
	"time"

	"github.com/godilite/diagnostico/internal/scoring"
)

// AverageScore returns the rounded mean of ScoreGeral, 0 for no records.
func AverageScore(records []Record) int {
	if len(records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range records {
		sum += r.ScoreGeral
	}
	return scoring.RoundHalfUp(float64(sum) / float64(len(records)))
}

// AverageROI returns the mean ROI over records that carry one, rounded to
// one decimal place.
func AverageROI(records []Record) float64 {
	mean, ok := meanOf(records, func(r Record) OptionalFloat { return r.ROI })
	if !ok {
		return 0
	}
	return float64(scoring.RoundHalfUp(mean*10)) / 10
}

// AverageRevenue returns the mean revenue over records that carry one.
func AverageRevenue(records []Record) float64 {
	mean, ok := meanOf(records, func(r Record) OptionalFloat { return r.Revenue })
	if !ok {
		return 0
	}
	return mean
}

// ScoreVariationPercent compares the first and last records of an ordered
// slice. It returns 0 with fewer than two records or a zero first score.
func ScoreVariationPercent(records []Record) int {
	if len(records) < 2 {
		return 0
	}
	first := records[0].ScoreGeral
	last := records[len(records)-1].ScoreGeral
	if first == 0 {
		return 0
	}
	return scoring.RoundHalfUp(float64(last-first) * 100 / float64(first))
}

// DaysSinceLastCheckup returns the whole days, rounded up, between the
// last record's month and now. A last record dated after now counts as 0.
func DaysSinceLastCheckup(records []Record, now time.Time) int {
	if len(records) == 0 {
		return 0
	}
	last := records[len(records)-1].Month
	if last.IsZero() {
		return 0
	}
	return max(0, int(math.Ceil(now.Sub(last).Hours()/24)))
}

// Summary bundles the trend metrics shown for a company.
type Summary struct {
	Records              int       `json:"records"`
	LatestScore          int       `json:"latestScore"`
	AverageScore         int       `json:"averageScore"`
	AverageROI           float64   `json:"averageRoi"`
	AverageRevenue       float64   `json:"averageRevenue"`
	ScoreVariation       int       `json:"scoreVariation"`
	CompletedActions     int       `json:"completedActions"`
	DaysSinceLastCheckup int       `json:"daysSinceLastCheckup"`
	LastCheckup          time.Time `json:"lastCheckup,omitempty"`
}

// Summarize computes every metric over chronologically ordered records.
func Summarize(records []Record, now time.Time) Summary {
	s := Summary{
		Records:              len(records),
		AverageScore:         AverageScore(records),
		AverageROI:           AverageROI(records),
		AverageRevenue:       AverageRevenue(records),
		ScoreVariation:       ScoreVariationPercent(records),
		DaysSinceLastCheckup: DaysSinceLastCheckup(records, now),
	}
	for _, r := range records {
		s.CompletedActions += r.Actions.Completed()
	}
	if len(records) > 0 {
		last := records[len(records)-1]
		s.LatestScore = last.ScoreGeral
		s.LastCheckup = last.Month
	}
	return s
}

func meanOf(records []Record, field func(Record) OptionalFloat) (float64, bool) {
	var sum float64
	n := 0
	for _, r := range records {
		v := field(r)
		if !v.Valid || math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			continue
		}
		sum += v.Value
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
