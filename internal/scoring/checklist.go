package scoring

import (
	"bytes"
	"encoding/json"
)

// Response holds the option chosen for a question.
type Response struct {
	SelectedOption Option `json:"selectedOption" yaml:"selectedOption"`
}

// Question is the leaf unit of scoring.
type Question struct {
	ID       string    `json:"id" yaml:"id"`
	Text     string    `json:"texto,omitempty" yaml:"texto,omitempty"`
	Weight   float64   `json:"weight" yaml:"weight"`
	Response *Response `json:"response,omitempty" yaml:"response,omitempty"`
}

// Answered reports whether the question carries a response.
func (q Question) Answered() bool {
	return q.Response != nil
}

// NC is a non-conformity record grouping related questions.
type NC struct {
	ID        string     `json:"id" yaml:"id"`
	Numero    int        `json:"numero" yaml:"numero"`
	Title     string     `json:"ncTitulo" yaml:"ncTitulo"`
	Status    Status     `json:"status" yaml:"status"`
	Questions []Question `json:"perguntas" yaml:"perguntas"`
}

type Item struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"titulo" yaml:"titulo"`
	NCs   []NC   `json:"ncs" yaml:"ncs"`
}

type Module struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"titulo" yaml:"titulo"`
	Items []Item `json:"itens" yaml:"itens"`
}

// The checklist documents come from a loosely typed store. A child collection
// that is missing, null or not an array decodes as empty.

func (n *NC) UnmarshalJSON(data []byte) error {
	type plain NC
	var raw struct {
		plain
		Questions json.RawMessage `json:"perguntas"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	questions, err := decodeList[Question](raw.Questions)
	if err != nil {
		return err
	}
	*n = NC(raw.plain)
	n.Questions = questions
	return nil
}

func (i *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	var raw struct {
		plain
		NCs json.RawMessage `json:"ncs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ncs, err := decodeList[NC](raw.NCs)
	if err != nil {
		return err
	}
	*i = Item(raw.plain)
	i.NCs = ncs
	return nil
}

func (m *Module) UnmarshalJSON(data []byte) error {
	type plain Module
	var raw struct {
		plain
		Items json.RawMessage `json:"itens"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items, err := decodeList[Item](raw.Items)
	if err != nil {
		return err
	}
	*m = Module(raw.plain)
	m.Items = items
	return nil
}

// DecodeModules decodes a project's module list with the same leniency as
// the nested collections.
func DecodeModules(data []byte) ([]Module, error) {
	return decodeList[Module](data)
}

func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, err
	}
	return out, nil
}
