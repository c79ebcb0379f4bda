package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// Every aggregate in a response carries its qualitative band under "faixa".

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// modulesField decodes the "modules" list. Anything that is not a list is an
// empty checklist.
func modulesField(req *structpb.Struct) ([]scoring.Module, error) {
	v, ok := req.GetFields()["modules"]
	if !ok || v.GetListValue() == nil {
		return nil, nil
	}
	data, err := protojson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode modules: %w", err)
	}
	modules, err := scoring.DecodeModules(data)
	if err != nil {
		return nil, fmt.Errorf("decode modules: %w", err)
	}
	return modules, nil
}

func bandValue(percent float64) map[string]any {
	b := scoring.BandFor(percent)
	return map[string]any{"label": b.Label, "color": b.Color}
}

func scoreFields(current, maximum, percent float64) map[string]any {
	return map[string]any{
		"pontuacaoAtual":  current,
		"pontuacaoMaxima": maximum,
		"percentual":      percent,
		"faixa":           bandValue(percent),
	}
}

func projectScoreMap(s scoring.ProjectScore) map[string]any {
	m := scoreFields(s.CurrentScore, s.MaxScore, s.Percent)
	m["ncsCompleted"] = s.NCsCompleted
	m["ncsTotal"] = s.NCsTotal
	return m
}

func ncScoreMap(s scoring.NCScore) map[string]any {
	m := scoreFields(s.CurrentScore, s.MaxScore, s.Percent)
	m["id"] = s.ID
	m["numero"] = s.Numero
	m["ncTitulo"] = s.Title
	m["status"] = string(s.Status)
	return m
}

func itemScoreMap(s scoring.ItemScore) map[string]any {
	ncs := make([]any, len(s.NCs))
	for i, nc := range s.NCs {
		ncs[i] = ncScoreMap(nc)
	}
	m := scoreFields(s.CurrentScore, s.MaxScore, s.Percent)
	m["id"] = s.ID
	m["titulo"] = s.Title
	m["ncs"] = ncs
	return m
}

func moduleScoreMap(s scoring.ModuleScore) map[string]any {
	items := make([]any, len(s.Items))
	for i, it := range s.Items {
		items[i] = itemScoreMap(it)
	}
	m := scoreFields(s.CurrentScore, s.MaxScore, s.Percent)
	m["id"] = s.ID
	m["titulo"] = s.Title
	m["itens"] = items
	return m
}

func breakdownMap(b scoring.ProjectBreakdown) map[string]any {
	modules := make([]any, len(b.Modules))
	for i, m := range b.Modules {
		modules[i] = moduleScoreMap(m)
	}
	return map[string]any{
		"overall": projectScoreMap(b.Overall),
		"modules": modules,
	}
}

// progressMap goes through JSON: progress carries no bands.
func progressMap(p scoring.Progress) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
