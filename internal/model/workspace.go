package model

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "PLANNING"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusCancelled ProjectStatus = "CANCELLED"
)

// IsActive reports whether the project still counts as active work.
// Unknown statuses are active.
func (s ProjectStatus) IsActive() bool {
	return s != ProjectStatusCancelled && s != ProjectStatusCompleted
}

type Workspace struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Members  []*Membership `json:"members"`
	Projects []*Project    `json:"projects"`
}

type Project struct {
	ID          string        `json:"id"`
	WorkspaceID string        `json:"workspaceId"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Tasks       []*Task       `json:"tasks"`
}

type Task struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
}
