package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/yakoovad/flowcraft/internal/db"
	"github.com/yakoovad/flowcraft/internal/model"
	"github.com/yakoovad/flowcraft/internal/repository"
	"github.com/yakoovad/flowcraft/internal/roster"
	"github.com/yakoovad/flowcraft/pkg/logger"
	"go.uber.org/zap"
)

// WorkspaceCache keeps assembled workspace snapshots. Get returns nil, nil on a miss.
type WorkspaceCache interface {
	Get(ctx context.Context, workspaceID string) (*model.Workspace, error)
	Set(ctx context.Context, ws *model.Workspace) error
	Invalidate(ctx context.Context, workspaceID string) error
}

type TeamService struct {
	tx db.Transactor

	workspaces repository.WorkspaceRepository
	members    repository.MemberRepository
	projects   repository.ProjectRepository
	cache      WorkspaceCache
}

func NewTeamService(tx db.Transactor) *TeamService {
	return &TeamService{
		tx: tx,
	}
}

// GetWorkspace assembles the workspace snapshot with members, projects and tasks.
func (t *TeamService) GetWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, *Error) {
	l := logger.FromContext(ctx).With(zap.String("workspace_id", workspaceID))

	if strings.TrimSpace(workspaceID) == "" {
		return nil, NewError(ErrorCodeInvalidRequest, "workspace id is required")
	}

	if t.cache != nil {
		ws, err := t.cache.Get(ctx, workspaceID)
		if err != nil {
			l.Warn("workspace cache unavailable", zap.Error(err))
		}
		if ws != nil {
			l.Debug("workspace served from cache")
			return ws, nil
		}
	}

	wsRow, err := t.workspaces.Get(ctx, workspaceID)
	if errors.Is(err, repository.ErrNotFound) {
		l.Warn("workspace not found")
		return nil, NewError(ErrorCodeNotFound, "workspace not found")
	}
	if err != nil {
		l.Error("failed to get workspace", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to get workspace")
	}

	memberRows, err := t.members.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		l.Error("failed to list workspace members", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list workspace members")
	}

	projectRows, err := t.projects.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		l.Error("failed to list projects", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list projects")
	}

	taskRows, err := t.projects.ListTasksByWorkspace(ctx, workspaceID)
	if err != nil {
		l.Error("failed to list tasks", zap.Error(err))
		return nil, NewError(ErrorCodeUnspecified, "failed to list tasks")
	}

	ws := assembleWorkspace(wsRow, memberRows, projectRows, taskRows)

	if t.cache != nil {
		if err = t.cache.Set(ctx, ws); err != nil {
			l.Warn("failed to cache workspace", zap.Error(err))
		}
	}

	l.Debug("workspace assembled",
		zap.Int("members", len(ws.Members)),
		zap.Int("projects", len(ws.Projects)),
		zap.Int("tasks", len(taskRows)))

	return ws, nil
}

// GetRoster returns the workspace members matching search, with stats over all members.
func (t *TeamService) GetRoster(ctx context.Context, workspaceID, search string) (*model.Roster, *Error) {
	ws, err := t.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	p := roster.Project(ws)

	return &model.Roster{
		WorkspaceID: ws.ID,
		SearchTerm:  search,
		Members:     roster.Filter(p.Members, search),
		Stats:       p.Stats,
	}, nil
}

// RemoveMember deletes a workspace membership and drops the cached snapshot of its workspace.
func (t *TeamService) RemoveMember(ctx context.Context, memberID string) *Error {
	l := logger.FromContext(ctx).With(zap.String("member_id", memberID))

	if strings.TrimSpace(memberID) == "" {
		return NewError(ErrorCodeInvalidRequest, "member id is required")
	}

	var workspaceID string
	err := t.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		member, err := t.members.Get(txCtx, memberID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			l.Warn("member not found")
			return NewError(ErrorCodeNotFound, "member not found")
		case err != nil:
			l.Error("failed to get member", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to get member")
		}

		err = t.members.Delete(txCtx, memberID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return NewError(ErrorCodeNotFound, "member not found")
		case err != nil:
			l.Error("failed to delete member", zap.Error(err))
			return NewError(ErrorCodeUnspecified, "failed to remove member")
		}

		workspaceID = member.WorkspaceID
		return nil
	})

	if err != nil {
		var res *Error
		if errors.As(err, &res) {
			return res
		}
		l.Error("remove member transaction failed", zap.Error(err))
		return NewError(ErrorCodeUnspecified, "failed to remove member")
	}

	if t.cache != nil {
		if err = t.cache.Invalidate(ctx, workspaceID); err != nil {
			l.Warn("failed to invalidate workspace cache", zap.String("workspace_id", workspaceID), zap.Error(err))
		}
	}

	l.Info("member removed", zap.String("workspace_id", workspaceID))

	return nil
}

func assembleWorkspace(ws *repository.Workspace, members []*repository.Member, projects []*repository.Project, tasks []*repository.Task) *model.Workspace {
	res := &model.Workspace{
		ID:       ws.ID,
		Name:     ws.Name,
		Members:  make([]*model.Membership, 0, len(members)),
		Projects: make([]*model.Project, 0, len(projects)),
	}

	for _, m := range members {
		res.Members = append(res.Members, &model.Membership{
			ID:          m.ID,
			UserID:      m.UserID,
			WorkspaceID: m.WorkspaceID,
			Role:        model.Role(m.Role),
			User: &model.UserProfile{
				ID:    m.UserID,
				Name:  deref(m.UserName),
				Email: deref(m.UserEmail),
				Image: deref(m.UserImage),
			},
		})
	}

	byID := make(map[string]*model.Project, len(projects))
	for _, p := range projects {
		project := &model.Project{
			ID:          p.ID,
			WorkspaceID: p.WorkspaceID,
			Name:        p.Name,
			Status:      p.Status,
			Tasks:       []*model.Task{},
		}
		byID[p.ID] = project
		res.Projects = append(res.Projects, project)
	}

	for _, task := range tasks {
		project, ok := byID[task.ProjectID]
		if !ok {
			continue
		}
		project.Tasks = append(project.Tasks, &model.Task{
			ID:        task.ID,
			ProjectID: task.ProjectID,
			Title:     task.Title,
		})
	}

	return res
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (t *TeamService) WithWorkspaceRepo(r repository.WorkspaceRepository) *TeamService {
	t.workspaces = r
	return t
}

func (t *TeamService) WithMemberRepo(r repository.MemberRepository) *TeamService {
	t.members = r
	return t
}

func (t *TeamService) WithProjectRepo(r repository.ProjectRepository) *TeamService {
	t.projects = r
	return t
}

func (t *TeamService) WithCache(c WorkspaceCache) *TeamService {
	t.cache = c
	return t
}
