package scoring

import (
	"strings"

	"golang.org/x/text/cases"
)

// Column is one of the four fixed storage buckets.
type Column string

const (
	ColumnMarketing  Column = "marketing"
	ColumnVendas     Column = "vendas"
	ColumnEstrategia Column = "estrategia"
	ColumnGestao     Column = "gestao"
)

// Columns lists the fixed buckets in storage order.
var Columns = []Column{ColumnMarketing, ColumnVendas, ColumnEstrategia, ColumnGestao}

type columnRule struct {
	column   Column
	keywords []string
}

// Evaluated in order; the first rule with a matching keyword wins.
var columnRules = []columnRule{
	{ColumnMarketing, []string{"marketing", "comunicação"}},
	{ColumnVendas, []string{"vendas", "comercial"}},
	{ColumnEstrategia, []string{"estratégia", "estrategia", "planejamento", "financeiro"}},
}

// MapCategoryToColumn routes a free-form category label to a fixed column.
// Labels that match no keyword land in gestao.
func MapCategoryToColumn(category string) Column {
	folded := cases.Fold().String(category)
	for _, rule := range columnRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, cases.Fold().String(kw)) {
				return rule.column
			}
		}
	}
	return ColumnGestao
}

// FixedColumnScores is the four-column projection of dynamic category scores.
type FixedColumnScores struct {
	Marketing  int `json:"marketing"`
	Vendas     int `json:"vendas"`
	Estrategia int `json:"estrategia"`
	Gestao     int `json:"gestao"`
}

// Get returns the score stored for col.
func (f FixedColumnScores) Get(col Column) int {
	switch col {
	case ColumnMarketing:
		return f.Marketing
	case ColumnVendas:
		return f.Vendas
	case ColumnEstrategia:
		return f.Estrategia
	default:
		return f.Gestao
	}
}

func (f *FixedColumnScores) set(col Column, v int) {
	switch col {
	case ColumnMarketing:
		f.Marketing = v
	case ColumnVendas:
		f.Vendas = v
	case ColumnEstrategia:
		f.Estrategia = v
	default:
		f.Gestao = v
	}
}

// CategoryScores rebuilds a category map keyed by the canonical names.
// Scores of dynamic categories that collided on a column are not recoverable.
func (f FixedColumnScores) CategoryScores() map[string]int {
	return map[string]int{
		CategoryMarketing:  f.Marketing,
		CategoryVendas:     f.Vendas,
		CategoryEstrategia: f.Estrategia,
		CategoryGestao:     f.Gestao,
	}
}

// MapDynamicScoresToFixedColumns collapses category scores onto the four
// fixed columns. When several categories share a column the highest score
// is kept.
func MapDynamicScoresToFixedColumns(categoryScores map[string]int) FixedColumnScores {
	var out FixedColumnScores
	for category, score := range categoryScores {
		col := MapCategoryToColumn(category)
		score = clamp(score, 0, 100)
		if score > out.Get(col) {
			out.set(col, score)
		}
	}
	return out
}
