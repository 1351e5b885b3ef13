package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/yakoovad/flowcraft/internal/model"
	"github.com/yakoovad/flowcraft/internal/repository"
)

func strPtr(s string) *string { return &s }

type teamMocks struct {
	workspaces *MockWorkspaceRepository
	members    *MockMemberRepository
	projects   *MockProjectRepository
	cache      *MockWorkspaceCache
}

func newTeamMocks() *teamMocks {
	return &teamMocks{
		workspaces: new(MockWorkspaceRepository),
		members:    new(MockMemberRepository),
		projects:   new(MockProjectRepository),
		cache:      new(MockWorkspaceCache),
	}
}

func (m *teamMocks) service() *TeamService {
	return NewTeamService(new(MockTransactor)).
		WithWorkspaceRepo(m.workspaces).
		WithMemberRepo(m.members).
		WithProjectRepo(m.projects).
		WithCache(m.cache)
}

func (m *teamMocks) assertExpectations(t *testing.T) {
	m.workspaces.AssertExpectations(t)
	m.members.AssertExpectations(t)
	m.projects.AssertExpectations(t)
	m.cache.AssertExpectations(t)
}

func setupLoadedWorkspace(m *teamMocks) {
	m.workspaces.On("Get", mock.Anything, "ws-1").Return(&repository.Workspace{ID: "ws-1", Name: "Acme"}, nil)
	m.members.On("ListByWorkspace", mock.Anything, "ws-1").Return([]*repository.Member{
		{ID: "m1", UserID: "u1", WorkspaceID: "ws-1", Role: "ADMIN", UserName: strPtr("Ann"), UserEmail: strPtr("ann@x.com")},
		{ID: "m2", UserID: "u2", WorkspaceID: "ws-1", Role: "MEMBER", UserName: strPtr("Bo"), UserEmail: strPtr("bo@y.com")},
		{ID: "m3", UserID: "u3", WorkspaceID: "ws-1", Role: "MEMBER"},
	}, nil)
	m.projects.On("ListByWorkspace", mock.Anything, "ws-1").Return([]*repository.Project{
		{ID: "p1", WorkspaceID: "ws-1", Name: "Launch", Status: model.ProjectStatusActive},
		{ID: "p2", WorkspaceID: "ws-1", Name: "Legacy", Status: model.ProjectStatusCompleted},
	}, nil)
	m.projects.On("ListTasksByWorkspace", mock.Anything, "ws-1").Return([]*repository.Task{
		{ID: "t1", ProjectID: "p1", Title: "Design"},
		{ID: "t2", ProjectID: "p2", Title: "Archive"},
		{ID: "t3", ProjectID: "p1", Title: "Ship"},
		{ID: "t4", ProjectID: "gone", Title: "Orphan"},
	}, nil)
}

func TestTeamService_GetWorkspace(t *testing.T) {
	cached := &model.Workspace{ID: "ws-1", Name: "Cached"}

	tests := []struct {
		name          string
		workspaceID   string
		setupMocks    func(*teamMocks)
		expectedError bool
		errorCode     ErrorCode
		check         func(*testing.T, *model.Workspace)
	}{
		{
			name:        "success: assembled from repositories and cached",
			workspaceID: "ws-1",
			setupMocks: func(m *teamMocks) {
				m.cache.On("Get", mock.Anything, "ws-1").Return(nil, nil)
				setupLoadedWorkspace(m)
				m.cache.On("Set", mock.Anything, mock.MatchedBy(func(ws *model.Workspace) bool {
					return ws.ID == "ws-1"
				})).Return(nil)
			},
			check: func(t *testing.T, ws *model.Workspace) {
				assert.Equal(t, "Acme", ws.Name)
				assert.Len(t, ws.Members, 3)
				assert.Equal(t, "Ann", ws.Members[0].Name())
				assert.Equal(t, model.RoleAdmin, ws.Members[0].Role)
				assert.Equal(t, "", ws.Members[2].Email())
				assert.Len(t, ws.Projects, 2)
				assert.Len(t, ws.Projects[0].Tasks, 2)
				assert.Len(t, ws.Projects[1].Tasks, 1)
			},
		},
		{
			name:        "success: served from cache",
			workspaceID: "ws-1",
			setupMocks: func(m *teamMocks) {
				m.cache.On("Get", mock.Anything, "ws-1").Return(cached, nil)
			},
			check: func(t *testing.T, ws *model.Workspace) {
				assert.Same(t, cached, ws)
			},
		},
		{
			name:        "success: cache failures are bypassed",
			workspaceID: "ws-1",
			setupMocks: func(m *teamMocks) {
				m.cache.On("Get", mock.Anything, "ws-1").Return(nil, errors.New("redis down"))
				setupLoadedWorkspace(m)
				m.cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))
			},
			check: func(t *testing.T, ws *model.Workspace) {
				assert.Len(t, ws.Members, 3)
			},
		},
		{
			name:          "empty workspace id",
			workspaceID:   " ",
			setupMocks:    func(*teamMocks) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidRequest,
		},
		{
			name:        "workspace not found",
			workspaceID: "ws-1",
			setupMocks: func(m *teamMocks) {
				m.cache.On("Get", mock.Anything, "ws-1").Return(nil, nil)
				m.workspaces.On("Get", mock.Anything, "ws-1").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:        "list members failure",
			workspaceID: "ws-1",
			setupMocks: func(m *teamMocks) {
				m.cache.On("Get", mock.Anything, "ws-1").Return(nil, nil)
				m.workspaces.On("Get", mock.Anything, "ws-1").Return(&repository.Workspace{ID: "ws-1"}, nil)
				m.members.On("ListByWorkspace", mock.Anything, "ws-1").Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
		{
			name:        "list tasks failure",
			workspaceID: "ws-1",
			setupMocks: func(m *teamMocks) {
				m.cache.On("Get", mock.Anything, "ws-1").Return(nil, nil)
				m.workspaces.On("Get", mock.Anything, "ws-1").Return(&repository.Workspace{ID: "ws-1"}, nil)
				m.members.On("ListByWorkspace", mock.Anything, "ws-1").Return([]*repository.Member{}, nil)
				m.projects.On("ListByWorkspace", mock.Anything, "ws-1").Return([]*repository.Project{}, nil)
				m.projects.On("ListTasksByWorkspace", mock.Anything, "ws-1").Return(nil, errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTeamMocks()
			tt.setupMocks(m)

			got, err := m.service().GetWorkspace(context.Background(), tt.workspaceID)

			if tt.expectedError {
				assert.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
				assert.Nil(t, got)
			} else {
				assert.Nil(t, err)
				tt.check(t, got)
			}

			m.assertExpectations(t)
		})
	}
}

func TestTeamService_GetRoster(t *testing.T) {
	m := newTeamMocks()
	m.cache.On("Get", mock.Anything, "ws-1").Return(nil, nil)
	setupLoadedWorkspace(m)
	m.cache.On("Set", mock.Anything, mock.Anything).Return(nil)

	got, err := m.service().GetRoster(context.Background(), "ws-1", "AN")

	assert.Nil(t, err)
	assert.Equal(t, "ws-1", got.WorkspaceID)
	assert.Equal(t, "AN", got.SearchTerm)
	assert.Len(t, got.Members, 1)
	assert.Equal(t, "m1", got.Members[0].ID)
	assert.Equal(t, model.AggregateStats{TotalMembers: 3, ActiveProjects: 1, TotalTasks: 3}, got.Stats)

	m.assertExpectations(t)
}

func TestTeamService_RemoveMember(t *testing.T) {
	tests := []struct {
		name          string
		memberID      string
		setupMocks    func(*teamMocks)
		expectedError bool
		errorCode     ErrorCode
	}{
		{
			name:     "success",
			memberID: "m2",
			setupMocks: func(m *teamMocks) {
				m.members.On("Get", mock.Anything, "m2").Return(&repository.Member{ID: "m2", WorkspaceID: "ws-1"}, nil)
				m.members.On("Delete", mock.Anything, "m2").Return(nil)
				m.cache.On("Invalidate", mock.Anything, "ws-1").Return(nil)
			},
		},
		{
			name:     "success even when cache invalidation fails",
			memberID: "m2",
			setupMocks: func(m *teamMocks) {
				m.members.On("Get", mock.Anything, "m2").Return(&repository.Member{ID: "m2", WorkspaceID: "ws-1"}, nil)
				m.members.On("Delete", mock.Anything, "m2").Return(nil)
				m.cache.On("Invalidate", mock.Anything, "ws-1").Return(errors.New("redis down"))
			},
		},
		{
			name:          "empty member id",
			memberID:      "",
			setupMocks:    func(*teamMocks) {},
			expectedError: true,
			errorCode:     ErrorCodeInvalidRequest,
		},
		{
			name:     "member not found",
			memberID: "m9",
			setupMocks: func(m *teamMocks) {
				m.members.On("Get", mock.Anything, "m9").Return(nil, repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:     "member deleted concurrently",
			memberID: "m2",
			setupMocks: func(m *teamMocks) {
				m.members.On("Get", mock.Anything, "m2").Return(&repository.Member{ID: "m2", WorkspaceID: "ws-1"}, nil)
				m.members.On("Delete", mock.Anything, "m2").Return(repository.ErrNotFound)
			},
			expectedError: true,
			errorCode:     ErrorCodeNotFound,
		},
		{
			name:     "delete failure",
			memberID: "m2",
			setupMocks: func(m *teamMocks) {
				m.members.On("Get", mock.Anything, "m2").Return(&repository.Member{ID: "m2", WorkspaceID: "ws-1"}, nil)
				m.members.On("Delete", mock.Anything, "m2").Return(errors.New("db error"))
			},
			expectedError: true,
			errorCode:     ErrorCodeUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTeamMocks()
			tt.setupMocks(m)

			err := m.service().RemoveMember(context.Background(), tt.memberID)

			if tt.expectedError {
				assert.NotNil(t, err)
				assert.Equal(t, tt.errorCode, err.Code)
			} else {
				assert.Nil(t, err)
			}

			m.assertExpectations(t)
		})
	}
}

type failingTransactor struct{}

func (failingTransactor) WithinTransaction(context.Context, func(context.Context) error) error {
	return errors.New("failed to begin transaction")
}

func TestTeamService_RemoveMember_TransactionFailure(t *testing.T) {
	m := newTeamMocks()
	s := NewTeamService(failingTransactor{}).WithMemberRepo(m.members).WithCache(m.cache)

	err := s.RemoveMember(context.Background(), "m2")

	assert.NotNil(t, err)
	assert.Equal(t, ErrorCodeUnspecified, err.Code)
	m.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}
