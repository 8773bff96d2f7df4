package types

// Standard table names of the dashboard dataset.
const (
	TableDepartments   = "departments"
	TableProfiles      = "profiles"
	TableRoles         = "roles"
	TableProjects      = "projects"
	TableTasks         = "tasks"
	TableActivities    = "activities"
	TableNotifications = "notifications"
	TableTaskHistory   = "task_history"
	TableScores        = "scores"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableDepartments,
	TableProfiles,
	TableRoles,
	TableProjects,
	TableTasks,
	TableActivities,
	TableNotifications,
	TableTaskHistory,
	TableScores,
}
