package scoring

// AnswerOption is one selectable answer of a question.
type AnswerOption struct {
	Text  string `json:"text" yaml:"text"`
	Score int    `json:"score" yaml:"score"`
}

// Question is a single questionnaire item. Category is a free-form label.
type Question struct {
	ID       string         `json:"id" yaml:"id"`
	Text     string         `json:"text" yaml:"text"`
	Category string         `json:"category" yaml:"category"`
	Options  []AnswerOption `json:"options" yaml:"options"`
	Required bool           `json:"required" yaml:"required"`
}

// MaxOptionScore returns the highest score declared by the question's
// options, or 0 when it has none.
func (q Question) MaxOptionScore() int {
	best := 0
	for _, o := range q.Options {
		if o.Score > best {
			best = o.Score
		}
	}
	return best
}

// OptionText returns the text of the first option carrying score.
func (q Question) OptionText(score int) (string, bool) {
	for _, o := range q.Options {
		if o.Score == score {
			return o.Text, true
		}
	}
	return "", false
}

// AnswerMap maps a question ID to the score of the selected option.
// Absent entries are unanswered questions.
type AnswerMap map[string]int

// Level is the maturity tier derived from the overall score.
type Level string

const (
	LevelIniciante     Level = "Iniciante"
	LevelEmergente     Level = "Emergente"
	LevelIntermediario Level = "Intermediário"
	LevelAvancado      Level = "Avançado"
)

// DiagnosticResult is the outcome of one scoring pass.
type DiagnosticResult struct {
	OverallScore    int                 `json:"overallScore"`
	Level           Level               `json:"level"`
	CategoryScores  map[string]int      `json:"categoryScores"`
	StrongPoints    []string            `json:"strongPoints"`
	AttentionPoints []string            `json:"attentionPoints"`
	Recommendations map[string][]string `json:"recommendations"`

	// CeilingMismatches lists questions whose declared maximum option score
	// differs from the ceiling the engine scored them against.
	CeilingMismatches []string `json:"ceilingMismatches,omitempty"`
}
