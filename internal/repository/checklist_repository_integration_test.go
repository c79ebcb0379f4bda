package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portaudit/checklist-scoring/internal/repository"
	"github.com/portaudit/checklist-scoring/internal/repository/models"
	"github.com/portaudit/checklist-scoring/internal/scoring"
	dbbuilder "github.com/portaudit/checklist-scoring/pkg/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := dbbuilder.New(context.Background(),
		dbbuilder.WithDriver("sqlite3"),
		dbbuilder.WithDataSource(":memory:"),
		dbbuilder.WithMaxOpenConns(1),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, dbbuilder.Migrate(context.Background(), db, repository.Schema))
	return db
}

func testProject() models.Project {
	yes := &scoring.Response{SelectedOption: scoring.OptionYes}
	return models.Project{
		ID:       "p1",
		Name:     "Terminal Norte",
		ClientID: "c1",
		Modules: []scoring.Module{
			{ID: "m1", Title: "Access", Items: []scoring.Item{
				{ID: "i1", Title: "Perimeter", NCs: []scoring.NC{
					{ID: "nc1", Numero: 1, Title: "Fence", Status: scoring.StatusCompleted, Questions: []scoring.Question{
						{ID: "q1", Text: "Fence intact?", Weight: 2, Response: yes},
						{ID: "q2", Text: "Signage?", Weight: 3},
					}},
					{ID: "nc2", Numero: 2, Title: "Gates"},
				}},
				{ID: "i2", Title: "Empty item"},
			}},
			{ID: "m2", Title: "Empty module"},
		},
	}
}

func TestChecklistRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	repo := repository.NewChecklistRepository(db)
	require.NoError(t, repo.SaveProject(ctx, testProject()))

	t.Run("LoadModules rebuilds the tree in order", func(t *testing.T) {
		modules, err := repo.LoadModules(ctx, "p1")
		require.NoError(t, err)

		want := testProject().Modules
		want[0].Items[0].NCs[1].Status = scoring.StatusPending
		assert.Equal(t, want, modules)
	})

	t.Run("LoadModules unknown project", func(t *testing.T) {
		_, err := repo.LoadModules(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("SetQuestionResponse", func(t *testing.T) {
		partial := scoring.OptionPartial
		require.NoError(t, repo.SetQuestionResponse(ctx, "p1", "q2", &partial))

		modules, err := repo.LoadModules(ctx, "p1")
		require.NoError(t, err)
		q := modules[0].Items[0].NCs[0].Questions[1]
		require.NotNil(t, q.Response)
		assert.Equal(t, scoring.OptionPartial, q.Response.SelectedOption)

		require.NoError(t, repo.SetQuestionResponse(ctx, "p1", "q2", nil))
		modules, err = repo.LoadModules(ctx, "p1")
		require.NoError(t, err)
		assert.Nil(t, modules[0].Items[0].NCs[0].Questions[1].Response)
	})

	t.Run("SetQuestionResponse scoped to project", func(t *testing.T) {
		other := testProject()
		other.ID = "p2"
		other.Modules = nil
		require.NoError(t, repo.SaveProject(ctx, other))

		yes := scoring.OptionYes
		err := repo.SetQuestionResponse(ctx, "p2", "q1", &yes)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("SetNCStatus", func(t *testing.T) {
		require.NoError(t, repo.SetNCStatus(ctx, "p1", "nc2", scoring.StatusInProgress))

		modules, err := repo.LoadModules(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, scoring.StatusInProgress, modules[0].Items[0].NCs[1].Status)

		err = repo.SetNCStatus(ctx, "p1", "nope", scoring.StatusCompleted)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("SaveProject duplicate id rolls back", func(t *testing.T) {
		dup := testProject()
		dup.ID = "p3"
		dup.Modules[1].ID = "m1"
		err := repo.SaveProject(ctx, dup)
		assert.Error(t, err)

		_, err = repo.LoadModules(ctx, "p3")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestChecklistRepository_SharedTemplate(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewChecklistRepository(setupTestDB(t))

	first := testProject()
	second := testProject()
	second.ID = "p2"
	second.Name = "Terminal Sul"

	require.NoError(t, repo.SaveProject(ctx, first))
	require.NoError(t, repo.SaveProject(ctx, second), "same checklist ids in another project")

	no := scoring.OptionNo
	require.NoError(t, repo.SetQuestionResponse(ctx, "p2", "q1", &no))
	require.NoError(t, repo.SetNCStatus(ctx, "p2", "nc1", scoring.StatusPending))

	p1, err := repo.LoadModules(ctx, "p1")
	require.NoError(t, err)
	p2, err := repo.LoadModules(ctx, "p2")
	require.NoError(t, err)

	require.Len(t, p1, 2)
	assert.Equal(t, scoring.OptionYes, p1[0].Items[0].NCs[0].Questions[0].Response.SelectedOption)
	assert.Equal(t, scoring.StatusCompleted, p1[0].Items[0].NCs[0].Status)

	assert.Equal(t, scoring.OptionNo, p2[0].Items[0].NCs[0].Questions[0].Response.SelectedOption)
	assert.Equal(t, scoring.StatusPending, p2[0].Items[0].NCs[0].Status)
	assert.Len(t, p2, 2)
}

