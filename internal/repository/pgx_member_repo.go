package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/yakoovad/flowcraft/internal/db"
)

// Member is a workspace_member row joined with its user. Profile columns
// are nullable because the user row may be missing or incomplete.
type Member struct {
	ID          string  `db:"id"`
	UserID      string  `db:"user_id"`
	WorkspaceID string  `db:"workspace_id"`
	Role        string  `db:"role"`
	UserName    *string `db:"name"`
	UserEmail   *string `db:"email"`
	UserImage   *string `db:"image"`
}

type MemberRepository interface {
	ListByWorkspace(ctx context.Context, workspaceID string) ([]*Member, error)
	Get(ctx context.Context, memberID string) (*Member, error)
	Delete(ctx context.Context, memberID string) error
}

type pgxMemberRepository struct {
	pool *pgxpool.Pool
}

func NewPgxMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &pgxMemberRepository{pool: pool}
}

func (p *pgxMemberRepository) ListByWorkspace(ctx context.Context, workspaceID string) ([]*Member, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := listMembersQuery(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	rows, err := e.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list workspace members")
	}
	defer rows.Close()

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Member, error) {
		m := &Member{}
		if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.UserName, &m.UserEmail, &m.UserImage); err != nil {
			return nil, err
		}
		return m, nil
	})
}

func (p *pgxMemberRepository) Get(ctx context.Context, memberID string) (*Member, error) {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := getMemberForUpdateQuery(ctx, memberID)
	if err != nil {
		return nil, err
	}

	m := &Member{}
	if err = e.QueryRow(ctx, sql, args...).Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get workspace member")
	}
	return m, nil
}

func (p *pgxMemberRepository) Delete(ctx context.Context, memberID string) error {
	e := db.GetPgxExecutorFromContext(ctx, p.pool)

	sql, args, err := deleteMemberQuery(ctx, memberID)
	if err != nil {
		return err
	}

	commandTag, err := e.Exec(ctx, sql, args...)
	if err != nil {
		return errors.Wrap(err, "delete workspace member")
	}

	if commandTag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func listMembersQuery(ctx context.Context, workspaceID string) (string, []any, error) {
	q := psql.Select(
		sm.Columns(
			psql.Quote("workspace_member", "id"),
			psql.Quote("workspace_member", "user_id"),
			psql.Quote("workspace_member", "workspace_id"),
			psql.Quote("workspace_member", "role"),
			psql.Quote("users", "name"),
			psql.Quote("users", "email"),
			psql.Quote("users", "image"),
		),
		sm.From("workspace_member"),
		sm.LeftJoin("users").On(psql.Quote("users", "id").EQ(psql.Quote("workspace_member", "user_id"))),
		sm.Where(psql.Quote("workspace_member", "workspace_id").EQ(psql.Arg(workspaceID))),
		sm.OrderBy(psql.Quote("workspace_member", "created_at")),
	)

	return q.Build(ctx)
}

func getMemberForUpdateQuery(ctx context.Context, memberID string) (string, []any, error) {
	q := psql.Select(
		sm.Columns("id", "user_id", "workspace_id", "role"),
		sm.From("workspace_member"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(memberID))),
		sm.ForUpdate("workspace_member"),
	)

	return q.Build(ctx)
}

func deleteMemberQuery(ctx context.Context, memberID string) (string, []any, error) {
	q := psql.Delete(
		dm.From("workspace_member"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(memberID))),
	)

	return q.Build(ctx)
}
