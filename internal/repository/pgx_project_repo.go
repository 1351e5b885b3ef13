package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/flowcraft/internal/db"
	"github.com/yakoovad/flowcraft/internal/model"
)

type Project struct {
	ID          string              `db:"id"`
	WorkspaceID string              `db:"workspace_id"`
	Name        string              `db:"name"`
	Status      model.ProjectStatus `db:"status"`
}

type Task struct {
	ID        string `db:"id"`
	ProjectID string `db:"project_id"`
	Title     string `db:"title"`
}

type ProjectRepository interface {
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*Project, error)
	ListTasksByWorkspace(ctx context.Context, workspaceID string) ([]*Task, error)
}

type pgxProjectRepository struct {
	pool *pgxpool.Pool
}

func NewPgxProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgxProjectRepository{pool: pool}
}

func (p *pgxProjectRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*Project, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := listProjectsQuery(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list projects")
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Project, error) {
		pr := &Project{}
		if err := row.Scan(&pr.ID, &pr.WorkspaceID, &pr.Name, &pr.Status); err != nil {
			return nil, err
		}
		return pr, nil
	})
}

// ListTasksByWorkspace returns the tasks of every project in the workspace.
func (p *pgxProjectRepository) ListTasksByWorkspace(ctx context.Context, workspaceID string) ([]*Task, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := listTasksQuery(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list tasks")
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Task, error) {
		t := &Task{}
		if err := row.Scan(&t.ID, &t.ProjectID, &t.Title); err != nil {
			return nil, err
		}
		return t, nil
	})
}

func listProjectsQuery(ctx context.Context, workspaceID string) (string, []any, error) {
	q := psql.Select(
		sm.Columns("id", "workspace_id", "name", "status"),
		sm.From("project"),
		sm.Where(psql.Quote("workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy("created_at"),
	)

	return q.Build(ctx)
}

func listTasksQuery(ctx context.Context, workspaceID string) (string, []any, error) {
	q := psql.Select(
		sm.Columns(
			psql.Quote("task", "id"),
			psql.Quote("task", "project_id"),
			psql.Quote("task", "title"),
		),
		sm.From("task"),
		sm.InnerJoin("project").On(psql.Quote("project", "id").EQ(psql.Quote("task", "project_id"))),
		sm.Where(psql.Quote("project", "workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy(psql.Quote("task", "created_at")),
	)

	return q.Build(ctx)
}
