package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/portaudit/checklist-scoring/internal/repository/models"
	"github.com/portaudit/checklist-scoring/internal/scoring"
)

// ErrNotFound is returned when a project, question or NC does not exist
// within the requested project.
var ErrNotFound = errors.New("record not found")

type ChecklistRepository struct {
	db *sql.DB
}

func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// LoadModules reads a project's checklist tree in sibling order.
func (r *ChecklistRepository) LoadModules(ctx context.Context, projectID string) ([]scoring.Module, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %q: %w", projectID, ErrNotFound)
		}
		return nil, fmt.Errorf("query project: %w", err)
	}

	const query = `
		SELECT
			m.id, m.titulo,
			i.id, i.titulo,
			n.id, n.numero, n.titulo, n.status,
			q.id, q.texto, q.weight, q.selected_option
		FROM modules AS m
		LEFT JOIN items AS i ON i.project_id = m.project_id AND i.module_id = m.id
		LEFT JOIN ncs AS n ON n.project_id = i.project_id AND n.item_id = i.id
		LEFT JOIN questions AS q ON q.project_id = n.project_id AND q.nc_id = n.id
		WHERE m.project_id = ?
		ORDER BY m.position, i.position, n.position, q.position
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("query LoadModules: %w", err)
	}
	defer rows.Close()

	var tree checklistTree
	for rows.Next() {
		var row models.ChecklistRow
		if err := rows.Scan(
			&row.ModuleID, &row.ModuleTitle,
			&row.ItemID, &row.ItemTitle,
			&row.NCID, &row.NCNumero, &row.NCTitle, &row.NCStatus,
			&row.QuestionID, &row.QuestionText, &row.QuestionWeight, &row.SelectedOption,
		); err != nil {
			return nil, fmt.Errorf("scan LoadModules row: %w", err)
		}
		tree.add(row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LoadModules: %w", err)
	}
	return tree.modules, nil
}

// SetQuestionResponse stores the selected option, or clears it when option
// is nil.
func (r *ChecklistRepository) SetQuestionResponse(ctx context.Context, projectID, questionID string, option *scoring.Option) error {
	const query = `
		UPDATE questions SET selected_option = ?
		WHERE id = ? AND project_id = ?
	`

	var value sql.NullString
	if option != nil {
		value = sql.NullString{String: string(*option), Valid: true}
	}

	res, err := r.db.ExecContext(ctx, query, value, questionID, projectID)
	if err != nil {
		return fmt.Errorf("exec SetQuestionResponse: %w", err)
	}
	return expectOneRow(res, "question", questionID)
}

func (r *ChecklistRepository) SetNCStatus(ctx context.Context, projectID, ncID string, status scoring.Status) error {
	const query = `
		UPDATE ncs SET status = ?
		WHERE id = ? AND project_id = ?
	`

	res, err := r.db.ExecContext(ctx, query, string(status), ncID, projectID)
	if err != nil {
		return fmt.Errorf("exec SetNCStatus: %w", err)
	}
	return expectOneRow(res, "nc", ncID)
}

// SaveProject inserts a project and its whole checklist in one transaction.
func (r *ChecklistRepository) SaveProject(ctx context.Context, p models.Project) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin SaveProject: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO projects (id, name, client_id) VALUES (?, ?, ?)`,
		p.ID, p.Name, p.ClientID); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	for mi, m := range p.Modules {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO modules (project_id, id, titulo, position) VALUES (?, ?, ?, ?)`,
			p.ID, m.ID, m.Title, mi); err != nil {
			return fmt.Errorf("insert module %q: %w", m.ID, err)
		}
		for ii, it := range m.Items {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO items (project_id, id, module_id, titulo, position) VALUES (?, ?, ?, ?, ?)`,
				p.ID, it.ID, m.ID, it.Title, ii); err != nil {
				return fmt.Errorf("insert item %q: %w", it.ID, err)
			}
			for ni, nc := range it.NCs {
				status := nc.Status
				if status == "" {
					status = scoring.StatusPending
				}
				if _, err = tx.ExecContext(ctx,
					`INSERT INTO ncs (project_id, id, item_id, numero, titulo, status, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
					p.ID, nc.ID, it.ID, nc.Numero, nc.Title, string(status), ni); err != nil {
					return fmt.Errorf("insert nc %q: %w", nc.ID, err)
				}
				for qi, q := range nc.Questions {
					var selected sql.NullString
					if q.Response != nil {
						selected = sql.NullString{String: string(q.Response.SelectedOption), Valid: true}
					}
					if _, err = tx.ExecContext(ctx,
						`INSERT INTO questions (project_id, id, nc_id, texto, weight, selected_option, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
						p.ID, q.ID, nc.ID, q.Text, q.Weight, selected, qi); err != nil {
						return fmt.Errorf("insert question %q: %w", q.ID, err)
					}
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit SaveProject: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

// checklistTree rebuilds the nested checklist from ordered join rows.
type checklistTree struct {
	modules []scoring.Module
}

func (t *checklistTree) add(row models.ChecklistRow) {
	if n := len(t.modules); n == 0 || t.modules[n-1].ID != row.ModuleID {
		t.modules = append(t.modules, scoring.Module{ID: row.ModuleID, Title: row.ModuleTitle})
	}
	m := &t.modules[len(t.modules)-1]

	if !row.ItemID.Valid {
		return
	}
	if n := len(m.Items); n == 0 || m.Items[n-1].ID != row.ItemID.String {
		m.Items = append(m.Items, scoring.Item{ID: row.ItemID.String, Title: row.ItemTitle.String})
	}
	it := &m.Items[len(m.Items)-1]

	if !row.NCID.Valid {
		return
	}
	if n := len(it.NCs); n == 0 || it.NCs[n-1].ID != row.NCID.String {
		it.NCs = append(it.NCs, scoring.NC{
			ID:     row.NCID.String,
			Numero: int(row.NCNumero.Int64),
			Title:  row.NCTitle.String,
			Status: scoring.Status(row.NCStatus.String),
		})
	}
	nc := &it.NCs[len(it.NCs)-1]

	if !row.QuestionID.Valid {
		return
	}
	q := scoring.Question{
		ID:     row.QuestionID.String,
		Text:   row.QuestionText.String,
		Weight: row.QuestionWeight.Float64,
	}
	if row.SelectedOption.Valid {
		q.Response = &scoring.Response{SelectedOption: scoring.Option(row.SelectedOption.String)}
	}
	nc.Questions = append(nc.Questions, q)
}
