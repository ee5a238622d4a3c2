// Package scoring turns answered questionnaires into diagnostic results and
// projects dynamic category scores onto the four fixed storage columns.
package scoring

import "math"

const (
	// DefaultCeiling is the legacy maximum number of points per question.
	DefaultCeiling = 3

	strongThreshold    = 80
	attentionThreshold = 40
	recommendBelow     = 40
)

// CeilingFunc returns the maximum points a question can contribute.
type CeilingFunc func(q Question) int

// FixedCeiling scores every question against the same ceiling.
func FixedCeiling(n int) CeilingFunc {
	return func(Question) int { return n }
}

// MaxOptionCeiling scores each question against its highest declared
// option, falling back to DefaultCeiling for questions without options.
func MaxOptionCeiling(q Question) int {
	if len(q.Options) == 0 {
		return DefaultCeiling
	}
	return q.MaxOptionScore()
}

type EngineOption func(*Engine)

// WithCeiling overrides the per-question ceiling. A nil func is ignored.
func WithCeiling(fn CeilingFunc) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.ceiling = fn
		}
	}
}

// Engine computes diagnostic results. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	ceiling CeilingFunc
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{ceiling: FixedCeiling(DefaultCeiling)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// CalculateResults scores answers with the legacy fixed ceiling.
func CalculateResults(answers AnswerMap, questions []Question) DiagnosticResult {
	return defaultEngine.Calculate(answers, questions)
}

type bucket struct {
	total int
	max   int
	seen  bool
}

// Calculate aggregates answers per category and derives the overall score,
// level, strong and attention points and recommendations.
func (e *Engine) Calculate(answers AnswerMap, questions []Question) DiagnosticResult {
	order := make([]string, 0, len(CanonicalCategories))
	buckets := make(map[string]*bucket, len(CanonicalCategories))
	for _, c := range CanonicalCategories {
		order = append(order, c)
		buckets[c] = &bucket{}
	}

	var mismatches []string
	for _, q := range questions {
		b, ok := buckets[q.Category]
		if !ok {
			b = &bucket{}
			buckets[q.Category] = b
			order = append(order, q.Category)
		}

		ceiling := e.ceiling(q)
		if ceiling < 0 {
			ceiling = 0
		}
		if len(q.Options) > 0 && q.MaxOptionScore() != ceiling {
			mismatches = append(mismatches, q.ID)
		}

		b.total += clamp(answers[q.ID], 0, ceiling)
		b.max += ceiling
		b.seen = true
	}

	result := DiagnosticResult{
		CategoryScores:    make(map[string]int),
		StrongPoints:      []string{},
		AttentionPoints:   []string{},
		Recommendations:   make(map[string][]string),
		CeilingMismatches: mismatches,
	}

	var sumTotal, sumMax int
	for _, name := range order {
		b := buckets[name]
		if !b.seen {
			continue
		}
		sumTotal += b.total
		sumMax += b.max

		pct := percentage(b.total, b.max)
		result.CategoryScores[name] = pct

		if pct >= strongThreshold {
			result.StrongPoints = append(result.StrongPoints, name)
		}
		if pct <= attentionThreshold {
			result.AttentionPoints = append(result.AttentionPoints, name)
		}
		if pct < recommendBelow {
			if recs := RecommendationsFor(name); recs != nil {
				result.Recommendations[name] = recs
			}
		}
	}

	result.OverallScore = percentage(sumTotal, sumMax)
	result.Level = LevelFor(result.OverallScore)
	return result
}

// LevelFor maps an overall score to its maturity level.
func LevelFor(score int) Level {
	switch {
	case score >= 80:
		return LevelAvancado
	case score >= 60:
		return LevelIntermediario
	case score >= 40:
		return LevelEmergente
	default:
		return LevelIniciante
	}
}

func percentage(total, max int) int {
	if max <= 0 {
		return 0
	}
	return RoundHalfUp(float64(total) * 100 / float64(max))
}

// RoundHalfUp rounds to the nearest integer, halves towards +Inf.
func RoundHalfUp(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
