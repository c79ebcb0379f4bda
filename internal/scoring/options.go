package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownOption = errors.New("unknown response option")
	ErrUnknownStatus = errors.New("unknown nc status")
)

// Option is the answer selected for a weighted question.
type Option string

const (
	OptionYes           Option = "yes"
	OptionPartial       Option = "partial"
	OptionNo            Option = "no"
	OptionNotApplicable Option = "n/a"
)

// responseValues maps each scored option to its weight multiplier.
// OptionNotApplicable is deliberately absent: it contributes nothing.
var responseValues = map[Option]float64{
	OptionYes:     1.0,
	OptionPartial: 0.5,
	OptionNo:      0.0,
}

// Value returns the multiplier for o and whether o is in the value table.
func (o Option) Value() (float64, bool) {
	v, ok := responseValues[o]
	return v, ok
}

// Valid reports whether o is one of the known options.
func (o Option) Valid() bool {
	switch o {
	case OptionYes, OptionPartial, OptionNo, OptionNotApplicable:
		return true
	}
	return false
}

// ParseOption converts a raw label into an Option. Matching ignores case and
// surrounding whitespace; "na" and "not_applicable" are accepted aliases.
func ParseOption(raw string) (Option, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return OptionYes, nil
	case "partial":
		return OptionPartial, nil
	case "no":
		return OptionNo, nil
	case "n/a", "na", "not_applicable":
		return OptionNotApplicable, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOption, raw)
}

// UnmarshalJSON normalises recognised labels through ParseOption. An
// unrecognised label is kept as is and scores nothing.
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseOption(raw); err == nil {
		*o = parsed
		return nil
	}
	*o = Option(raw)
	return nil
}

// Status is the operator-maintained state of an NC.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// UnmarshalJSON normalises recognised statuses and keeps anything else raw.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseStatus(raw); err == nil {
		*s = parsed
		return nil
	}
	*s = Status(raw)
	return nil
}
