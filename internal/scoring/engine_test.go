package scoring

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func question(id, category string) Question {
	return Question{
		ID:       id,
		Text:     "Pergunta " + id,
		Category: category,
		Options: []AnswerOption{
			{Text: "Não", Score: 0},
			{Text: "Pouco", Score: 1},
			{Text: "Parcialmente", Score: 2},
			{Text: "Sim", Score: 3},
		},
	}
}

func canonicalQuestions() []Question {
	return []Question{
		question("q1", CategoryMarketing),
		question("q2", CategoryMarketing),
		question("q3", CategoryVendas),
		question("q4", CategoryEstrategia),
		question("q5", CategoryGestao),
	}
}

func TestCalculateResults(t *testing.T) {
	t.Run("no answers scores everything zero", func(t *testing.T) {
		res := CalculateResults(AnswerMap{}, canonicalQuestions())

		assert.Equal(t, 0, res.OverallScore)
		assert.Equal(t, LevelIniciante, res.Level)
		assert.Len(t, res.CategoryScores, 4)
		for _, c := range CanonicalCategories {
			assert.Equal(t, 0, res.CategoryScores[c])
			assert.Len(t, res.Recommendations[c], 3)
		}
		assert.Equal(t, CanonicalCategories, res.AttentionPoints)
		assert.Empty(t, res.StrongPoints)
	})

	t.Run("no questions yields no categories", func(t *testing.T) {
		res := CalculateResults(AnswerMap{"q1": 3}, nil)

		assert.Equal(t, 0, res.OverallScore)
		assert.Equal(t, LevelIniciante, res.Level)
		assert.Empty(t, res.CategoryScores)
		assert.Empty(t, res.StrongPoints)
		assert.Empty(t, res.AttentionPoints)
		assert.Empty(t, res.Recommendations)
	})

	t.Run("full marks", func(t *testing.T) {
		answers := AnswerMap{"q1": 3, "q2": 3, "q3": 3, "q4": 3, "q5": 3}
		res := CalculateResults(answers, canonicalQuestions())

		assert.Equal(t, 100, res.OverallScore)
		assert.Equal(t, LevelAvancado, res.Level)
		assert.Equal(t, CanonicalCategories, res.StrongPoints)
		assert.Empty(t, res.AttentionPoints)
		assert.Empty(t, res.Recommendations)
	})

	t.Run("mixed answers", func(t *testing.T) {
		answers := AnswerMap{"q1": 3, "q2": 3, "q3": 1, "q4": 2, "q5": 0}
		res := CalculateResults(answers, canonicalQuestions())

		assert.Equal(t, map[string]int{
			CategoryMarketing:  100,
			CategoryVendas:     33,
			CategoryEstrategia: 67,
			CategoryGestao:     0,
		}, res.CategoryScores)
		assert.Equal(t, 60, res.OverallScore)
		assert.Equal(t, LevelIntermediario, res.Level)
		assert.Equal(t, []string{CategoryMarketing}, res.StrongPoints)
		assert.Equal(t, []string{CategoryVendas, CategoryGestao}, res.AttentionPoints)

		assert.Len(t, res.Recommendations, 2)
		assert.Equal(t, RecommendationsFor(CategoryVendas), res.Recommendations[CategoryVendas])
		assert.Equal(t, RecommendationsFor(CategoryGestao), res.Recommendations[CategoryGestao])
		assert.NotContains(t, res.Recommendations, CategoryEstrategia)
	})

	t.Run("dynamic categories get buckets but no recommendations", func(t *testing.T) {
		questions := append(canonicalQuestions(), question("q6", "Tecnologia"), question("q7", "RH"))
		res := CalculateResults(AnswerMap{"q6": 0, "q7": 3}, questions)

		assert.Equal(t, 0, res.CategoryScores["Tecnologia"])
		assert.Equal(t, 100, res.CategoryScores["RH"])
		assert.Equal(t, []string{
			CategoryMarketing, CategoryVendas, CategoryEstrategia, CategoryGestao, "Tecnologia",
		}, res.AttentionPoints)
		assert.Equal(t, []string{"RH"}, res.StrongPoints)
		assert.NotContains(t, res.Recommendations, "Tecnologia")
	})

	t.Run("unknown answer ids are ignored", func(t *testing.T) {
		res := CalculateResults(AnswerMap{"nope": 3}, canonicalQuestions())
		assert.Equal(t, 0, res.OverallScore)
	})

	t.Run("answers above the ceiling are clamped", func(t *testing.T) {
		questions := []Question{question("q1", CategoryVendas)}
		res := CalculateResults(AnswerMap{"q1": 10}, questions)

		assert.Equal(t, 100, res.CategoryScores[CategoryVendas])
		assert.Equal(t, 100, res.OverallScore)
	})

	t.Run("negative answers count as zero", func(t *testing.T) {
		questions := []Question{question("q1", CategoryVendas)}
		res := CalculateResults(AnswerMap{"q1": -2}, questions)

		assert.Equal(t, 0, res.CategoryScores[CategoryVendas])
	})
}

func TestThresholdBoundaries(t *testing.T) {
	engine := NewEngine(WithCeiling(FixedCeiling(100)))
	single := func(category string, score int) DiagnosticResult {
		return engine.Calculate(AnswerMap{"q": score}, []Question{{ID: "q", Category: category}})
	}

	levels := []struct {
		score int
		want  Level
	}{
		{100, LevelAvancado},
		{80, LevelAvancado},
		{79, LevelIntermediario},
		{60, LevelIntermediario},
		{59, LevelEmergente},
		{40, LevelEmergente},
		{39, LevelIniciante},
		{0, LevelIniciante},
	}
	for _, tc := range levels {
		t.Run(fmt.Sprintf("level at %d", tc.score), func(t *testing.T) {
			res := single(CategoryGestao, tc.score)
			require.Equal(t, tc.score, res.OverallScore)
			assert.Equal(t, tc.want, res.Level)
			assert.Equal(t, tc.want, LevelFor(tc.score))
		})
	}

	t.Run("80 is a strong point", func(t *testing.T) {
		res := single(CategoryVendas, 80)
		assert.Equal(t, []string{CategoryVendas}, res.StrongPoints)
	})

	t.Run("40 needs attention but gets no recommendations", func(t *testing.T) {
		res := single(CategoryVendas, 40)
		assert.Equal(t, []string{CategoryVendas}, res.AttentionPoints)
		assert.Empty(t, res.Recommendations)
	})

	t.Run("39 gets recommendations", func(t *testing.T) {
		res := single(CategoryVendas, 39)
		assert.Len(t, res.Recommendations[CategoryVendas], 3)
	})

	t.Run("41 to 79 is in neither list", func(t *testing.T) {
		res := single(CategoryVendas, 55)
		assert.Empty(t, res.StrongPoints)
		assert.Empty(t, res.AttentionPoints)
	})
}

func TestCeilings(t *testing.T) {
	tenPoint := Question{
		ID:       "q10",
		Category: CategoryMarketing,
		Options: []AnswerOption{
			{Text: "0", Score: 0},
			{Text: "5", Score: 5},
			{Text: "10", Score: 10},
		},
	}

	t.Run("default engine flags mismatched questions", func(t *testing.T) {
		res := CalculateResults(AnswerMap{"q10": 5}, []Question{tenPoint, question("q1", CategoryVendas)})

		assert.Equal(t, []string{"q10"}, res.CeilingMismatches)
		assert.Equal(t, 100, res.CategoryScores[CategoryMarketing])
	})

	t.Run("max option ceiling uses declared options", func(t *testing.T) {
		engine := NewEngine(WithCeiling(MaxOptionCeiling))
		res := engine.Calculate(AnswerMap{"q10": 5}, []Question{tenPoint})

		assert.Empty(t, res.CeilingMismatches)
		assert.Equal(t, 50, res.CategoryScores[CategoryMarketing])
	})

	t.Run("max option ceiling falls back without options", func(t *testing.T) {
		assert.Equal(t, DefaultCeiling, MaxOptionCeiling(Question{ID: "x"}))
	})

	t.Run("nil ceiling keeps default", func(t *testing.T) {
		engine := NewEngine(WithCeiling(nil))
		res := engine.Calculate(AnswerMap{"q1": 3}, []Question{question("q1", CategoryVendas)})
		assert.Equal(t, 100, res.OverallScore)
	})
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3, RoundHalfUp(2.5))
	assert.Equal(t, 2, RoundHalfUp(2.49))
	assert.Equal(t, -2, RoundHalfUp(-2.5))
	assert.Equal(t, 33, RoundHalfUp(100.0/3))

	engine := NewEngine(WithCeiling(FixedCeiling(200)))
	res := engine.Calculate(AnswerMap{"q": 1}, []Question{{ID: "q", Category: CategoryGestao}})
	assert.Equal(t, 1, res.OverallScore)
}

func TestScoreBoundsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	categories := []string{CategoryMarketing, CategoryVendas, CategoryEstrategia, CategoryGestao, "Tecnologia", "RH"}

	for i := 0; i < 200; i++ {
		n := rng.Intn(12)
		questions := make([]Question, n)
		answers := AnswerMap{}
		for j := range questions {
			id := fmt.Sprintf("q%d", j)
			questions[j] = question(id, categories[rng.Intn(len(categories))])
			if rng.Intn(3) > 0 {
				answers[id] = rng.Intn(6) - 1
			}
		}

		res := CalculateResults(answers, questions)

		require.GreaterOrEqual(t, res.OverallScore, 0)
		require.LessOrEqual(t, res.OverallScore, 100)
		for c, pct := range res.CategoryScores {
			require.GreaterOrEqual(t, pct, 0)
			require.LessOrEqual(t, pct, 100)
			require.Equal(t, pct >= 80, contains(res.StrongPoints, c), "strong point %s", c)
			require.Equal(t, pct <= 40, contains(res.AttentionPoints, c), "attention point %s", c)
		}
	}
}

func TestRecommendationsForReturnsCopy(t *testing.T) {
	recs := RecommendationsFor(CategoryMarketing)
	require.Len(t, recs, 3)
	recs[0] = "changed"

	assert.NotEqual(t, "changed", RecommendationsFor(CategoryMarketing)[0])
	assert.Nil(t, RecommendationsFor("Tecnologia"))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func BenchmarkCalculateResults(b *testing.B) {
	questions := canonicalQuestions()
	answers := AnswerMap{"q1": 3, "q2": 1, "q3": 2, "q4": 0, "q5": 3}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CalculateResults(answers, questions)
	}
}
