package types

// Typed views over dashboard rows. Fill them with Result.Decode; rows may
// carry extra columns the views ignore.

// Department groups profiles and projects.
type Department struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Role is a permission tag assignable to profiles.
type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Profile is a dashboard user.
type Profile struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	RoleID       string `json:"role_id"`
	DepartmentID string `json:"department_id"`
	PasswordHash string `json:"password_hash,omitempty"`
}

// Project belongs to a department and owns tasks.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	DepartmentID string `json:"department_id"`
	CreatedBy    string `json:"created_by"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Task is a unit of work inside a project.
type Task struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status"`
	Priority     float64        `json:"priority"`
	DueDate      string         `json:"due_date"`
	ProjectID    string         `json:"project_id"`
	DepartmentID string         `json:"department_id"`
	AssigneeID   *string        `json:"assignee_id"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
	Department   map[string]any `json:"department,omitempty"`
	Project      map[string]any `json:"project,omitempty"`
}

// Activity is a scheduled item assigned to a profile.
type Activity struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	TaskID     string `json:"task_id"`
	AssigneeID string `json:"assignee_id"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Notification is a message addressed to a profile.
type Notification struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
