package scoring

// ModuleProgress counts answered questions within one module.
type ModuleProgress struct {
	ID       string  `json:"id"`
	Title    string  `json:"titulo"`
	Answered int     `json:"respondidas"`
	Total    int     `json:"total"`
	Percent  float64 `json:"percentual"`
}

// Progress is how far a checklist has been filled in.
type Progress struct {
	Answered     int              `json:"respondidas"`
	Total        int              `json:"total"`
	Percent      float64          `json:"percentual"`
	NCsCompleted int              `json:"ncsCompleted"`
	NCsTotal     int              `json:"ncsTotal"`
	Modules      []ModuleProgress `json:"modules"`
}

// ComputeProgress counts answered questions per module and overall. Any
// response counts as answered, including n/a.
func ComputeProgress(modules []Module) Progress {
	out := Progress{Modules: make([]ModuleProgress, 0, len(modules))}

	for _, m := range modules {
		mp := ModuleProgress{ID: m.ID, Title: m.Title}
		for _, it := range m.Items {
			for _, nc := range it.NCs {
				for _, q := range nc.Questions {
					mp.Total++
					if q.Answered() {
						mp.Answered++
					}
				}
			}
		}
		mp.Percent = round2(percentOf(float64(mp.Answered), float64(mp.Total)))

		out.Answered += mp.Answered
		out.Total += mp.Total
		out.Modules = append(out.Modules, mp)
	}

	out.Percent = round2(percentOf(float64(out.Answered), float64(out.Total)))
	out.NCsCompleted, out.NCsTotal = CountNCs(modules)
	return out
}
