package scoring

const (
	CategoryMarketing  = "Marketing"
	CategoryVendas     = "Vendas"
	CategoryEstrategia = "Estratégia"
	CategoryGestao     = "Gestão"
)

// CanonicalCategories is the fixed bucket order every scoring pass starts with.
var CanonicalCategories = []string{
	CategoryMarketing,
	CategoryVendas,
	CategoryEstrategia,
	CategoryGestao,
}

var recommendationTable = map[string][]string{
	CategoryMarketing: {
		"Defina um posicionamento claro e a persona do cliente ideal",
		"Estruture um calendário de conteúdo com presença digital consistente",
		"Acompanhe métricas de aquisição como custo por lead e taxa de conversão",
	},
	CategoryVendas: {
		"Documente o processo comercial em etapas com critérios de avanço",
		"Registre oportunidades e follow-ups em um CRM",
		"Defina metas mensais de vendas e acompanhe a taxa de fechamento",
	},
	CategoryEstrategia: {
		"Formalize missão, visão e objetivos para os próximos 12 meses",
		"Faça uma análise SWOT e revise-a a cada trimestre",
		"Desdobre os objetivos em indicadores e planos de ação com responsáveis",
	},
	CategoryGestao: {
		"Padronize os processos críticos com rotinas e checklists",
		"Realize reuniões periódicas de acompanhamento de indicadores",
		"Organize o fluxo de caixa e separe as finanças pessoais das da empresa",
	},
}

// RecommendationsFor returns the remediation list for a canonical category.
// Any other label yields nil.
func RecommendationsFor(category string) []string {
	recs, ok := recommendationTable[category]
	if !ok {
		return nil
	}
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
