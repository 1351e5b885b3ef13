package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/flowcraft/internal/db"
)

type Workspace struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type WorkspaceRepository interface {
	Get(ctx context.Context, workspaceID string) (*Workspace, error)
}

type pgxWorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewPgxWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &pgxWorkspaceRepository{pool: pool}
}

func (p *pgxWorkspaceRepository) Get(ctx context.Context, workspaceID string) (*Workspace, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := getWorkspaceQuery(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	ws := &Workspace{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&ws.ID, &ws.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get workspace")
	}
	return ws, nil
}

func getWorkspaceQuery(ctx context.Context, workspaceID string) (string, []any, error) {
	q := psql.Select(
		sm.Columns("id", "name"),
		sm.From("workspace"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(workspaceID))),
	)

	return q.Build(ctx)
}
