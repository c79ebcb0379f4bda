package scoring

import "math"

// NCScore is the aggregate of one non-conformity record.
type NCScore struct {
	ID           string  `json:"id"`
	Numero       int     `json:"numero"`
	Title        string  `json:"ncTitulo"`
	CurrentScore float64 `json:"pontuacaoAtual"`
	MaxScore     float64 `json:"pontuacaoMaxima"`
	Percent      float64 `json:"percentual"`
	Status       Status  `json:"status"`
}

type ItemScore struct {
	ID           string    `json:"id"`
	Title        string    `json:"titulo"`
	CurrentScore float64   `json:"pontuacaoAtual"`
	MaxScore     float64   `json:"pontuacaoMaxima"`
	Percent      float64   `json:"percentual"`
	NCs          []NCScore `json:"ncs"`
}

type ModuleScore struct {
	ID           string      `json:"id"`
	Title        string      `json:"titulo"`
	CurrentScore float64     `json:"pontuacaoAtual"`
	MaxScore     float64     `json:"pontuacaoMaxima"`
	Percent      float64     `json:"percentual"`
	Items        []ItemScore `json:"itens"`
}

// ProjectScore is the project-wide summary.
type ProjectScore struct {
	CurrentScore float64 `json:"pontuacaoAtual"`
	MaxScore     float64 `json:"pontuacaoMaxima"`
	Percent      float64 `json:"percentual"`
	NCsCompleted int     `json:"ncsCompleted"`
	NCsTotal     int     `json:"ncsTotal"`
}

// ProjectBreakdown is the summary plus the full per-module tree.
type ProjectBreakdown struct {
	Overall ProjectScore  `json:"overall"`
	Modules []ModuleScore `json:"modules"`
}

// Score returns weight × option value, or 0 when the question is unanswered
// or its option is not in the value table.
func (q Question) Score() float64 {
	if q.Response == nil {
		return 0
	}
	v, ok := q.Response.SelectedOption.Value()
	if !ok {
		return 0
	}
	return q.Weight * v
}

// MaxScore is the question weight, whatever the response state.
func (q Question) MaxScore() float64 {
	return q.Weight
}

// AggregateNC sums question scores in a single pass. The percentage is
// derived from the unrounded sums before each value is rounded on its own.
func AggregateNC(nc NC) NCScore {
	var current, maximum float64
	for _, q := range nc.Questions {
		current += q.Score()
		maximum += q.MaxScore()
	}

	return NCScore{
		ID:           nc.ID,
		Numero:       nc.Numero,
		Title:        nc.Title,
		CurrentScore: round2(current),
		MaxScore:     round2(maximum),
		Percent:      round2(percentOf(current, maximum)),
		Status:       nc.Status,
	}
}

// AggregateItem rolls up the item's NCs in input order.
func AggregateItem(item Item) ItemScore {
	ncs := make([]NCScore, 0, len(item.NCs))
	var current, maximum float64
	for _, nc := range item.NCs {
		s := AggregateNC(nc)
		current += s.CurrentScore
		maximum += s.MaxScore
		ncs = append(ncs, s)
	}

	return ItemScore{
		ID:           item.ID,
		Title:        item.Title,
		CurrentScore: round2(current),
		MaxScore:     round2(maximum),
		Percent:      round2(percentOf(current, maximum)),
		NCs:          ncs,
	}
}

// AggregateModule rolls up the module's items in input order.
func AggregateModule(m Module) ModuleScore {
	items := make([]ItemScore, 0, len(m.Items))
	var current, maximum float64
	for _, it := range m.Items {
		s := AggregateItem(it)
		current += s.CurrentScore
		maximum += s.MaxScore
		items = append(items, s)
	}

	return ModuleScore{
		ID:           m.ID,
		Title:        m.Title,
		CurrentScore: round2(current),
		MaxScore:     round2(maximum),
		Percent:      round2(percentOf(current, maximum)),
		Items:        items,
	}
}

// AggregateProject returns the project summary. A nil or empty module list
// yields the zero summary.
func AggregateProject(modules []Module) ProjectScore {
	overall, _ := aggregateModules(modules)
	return overall
}

// AggregateProjectDetailed returns the summary together with every module
// aggregate, in input order.
func AggregateProjectDetailed(modules []Module) ProjectBreakdown {
	overall, scored := aggregateModules(modules)
	return ProjectBreakdown{
		Overall: overall,
		Modules: scored,
	}
}

func aggregateModules(modules []Module) (ProjectScore, []ModuleScore) {
	scored := make([]ModuleScore, 0, len(modules))
	var current, maximum float64
	for _, m := range modules {
		s := AggregateModule(m)
		current += s.CurrentScore
		maximum += s.MaxScore
		scored = append(scored, s)
	}

	completed, total := CountNCs(modules)

	return ProjectScore{
		CurrentScore: round2(current),
		MaxScore:     round2(maximum),
		Percent:      round2(percentOf(current, maximum)),
		NCsCompleted: completed,
		NCsTotal:     total,
	}, scored
}

// CountNCs walks the raw checklist and counts NCs, and those whose status is
// completed. It reads operator state only; scores play no part.
func CountNCs(modules []Module) (completed, total int) {
	for _, m := range modules {
		for _, it := range m.Items {
			for _, nc := range it.NCs {
				total++
				if nc.Status == StatusCompleted {
					completed++
				}
			}
		}
	}
	return completed, total
}

func percentOf(current, maximum float64) float64 {
	if maximum > 0 {
		return current / maximum * 100
	}
	return 0
}

// round2 rounds to cents, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
