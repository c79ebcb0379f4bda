package models

import (
	"database/sql"

	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// Project is an audit project together with its checklist tree.
type Project struct {
	ID       string           `json:"id" yaml:"id"`
	Name     string           `json:"nome" yaml:"nome"`
	ClientID string           `json:"clienteId" yaml:"clienteId"`
	Modules  []scoring.Module `json:"modules" yaml:"modules"`
}

// ChecklistRow is one row of the flattened module/item/NC/question join.
// Every level below the module may be NULL when that branch is empty.
type ChecklistRow struct {
	ModuleID       string
	ModuleTitle    string
	ItemID         sql.NullString
	ItemTitle      sql.NullString
	NCID           sql.NullString
	NCNumero       sql.NullInt64
	NCTitle        sql.NullString
	NCStatus       sql.NullString
	QuestionID     sql.NullString
	QuestionText   sql.NullString
	QuestionWeight sql.NullFloat64
	SelectedOption sql.NullString
}
