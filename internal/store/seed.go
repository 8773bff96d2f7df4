package store

import "github.com/mesh-intelligence/localbase/pkg/types"

// Seed returns the default dashboard dataset: a small organisation with
// departments, roles, profiles, projects, tasks, activities, notifications
// and scores. Ids and timestamps are fixed so the dataset is deterministic.
// Every call builds a new snapshot; callers may mutate it freely.
func Seed() types.Snapshot {
	return types.Snapshot{
		types.TableDepartments:   seedDepartments(),
		types.TableRoles:         seedRoles(),
		types.TableProfiles:      seedProfiles(),
		types.TableProjects:      seedProjects(),
		types.TableTasks:         seedTasks(),
		types.TableActivities:    seedActivities(),
		types.TableNotifications: seedNotifications(),
		types.TableTaskHistory:   types.Table{},
		types.TableScores:        seedScores(),
	}
}

func stamped(ts string, r types.Row) types.Row {
	r[types.ColumnCreatedAt] = ts
	r[types.ColumnUpdatedAt] = ts
	return r
}

func seedDepartments() types.Table {
	return types.Table{
		stamped("2026-01-01T08:00:00Z", types.Row{"id": "dept-eng", "name": "Engineering"}),
		stamped("2026-01-01T08:01:00Z", types.Row{"id": "dept-ops", "name": "Operations"}),
		stamped("2026-01-01T08:02:00Z", types.Row{"id": "dept-mkt", "name": "Marketing"}),
	}
}

func seedRoles() types.Table {
	return types.Table{
		stamped("2026-01-01T08:00:00Z", types.Row{"id": "role-admin", "name": "admin"}),
		stamped("2026-01-01T08:00:00Z", types.Row{"id": "role-manager", "name": "manager"}),
		stamped("2026-01-01T08:00:00Z", types.Row{"id": "role-member", "name": "member"}),
	}
}

func seedProfiles() types.Table {
	return types.Table{
		stamped("2026-01-02T09:00:00Z", types.Row{
			"id": "prof-ada", "email": "ada@localbase.dev", "full_name": "Ada Lovelace",
			"role": "admin", "role_id": "role-admin", "department_id": "dept-eng",
		}),
		stamped("2026-01-02T09:05:00Z", types.Row{
			"id": "prof-grace", "email": "grace@localbase.dev", "full_name": "Grace Hopper",
			"role": "manager", "role_id": "role-manager", "department_id": "dept-eng",
		}),
		stamped("2026-01-02T09:10:00Z", types.Row{
			"id": "prof-linus", "email": "linus@localbase.dev", "full_name": "Linus Torvalds",
			"role": "member", "role_id": "role-member", "department_id": "dept-ops",
		}),
		stamped("2026-01-02T09:15:00Z", types.Row{
			"id": "prof-margaret", "email": "margaret@localbase.dev", "full_name": "Margaret Hamilton",
			"role": "member", "role_id": "role-member", "department_id": "dept-mkt",
		}),
	}
}

func seedProjects() types.Table {
	return types.Table{
		stamped("2026-01-03T10:00:00Z", types.Row{
			"id": "proj-api", "name": "Public API", "status": "active",
			"department_id": "dept-eng", "created_by": "prof-ada",
		}),
		stamped("2026-01-03T10:30:00Z", types.Row{
			"id": "proj-infra", "name": "Infrastructure", "status": "active",
			"department_id": "dept-ops", "created_by": "prof-grace",
		}),
		stamped("2026-01-03T11:00:00Z", types.Row{
			"id": "proj-launch", "name": "Spring Launch", "status": "planning",
			"department_id": "dept-mkt", "created_by": "prof-margaret",
		}),
	}
}

func seedTasks() types.Table {
	return types.Table{
		stamped("2026-01-05T09:00:00Z", types.Row{
			"id": "task-1", "title": "Design REST endpoints", "status": "done", "priority": 1.0,
			"due_date": "2026-03-01", "project_id": "proj-api", "department_id": "dept-eng",
			"assignee_id": "prof-grace", "created_by": "prof-ada",
		}),
		stamped("2026-01-05T09:30:00Z", types.Row{
			"id": "task-2", "title": "Write API docs", "status": "in_progress", "priority": 2.0,
			"due_date": "2026-03-15", "project_id": "proj-api", "department_id": "dept-eng",
			"assignee_id": "prof-ada", "created_by": "prof-ada",
		}),
		stamped("2026-01-06T14:00:00Z", types.Row{
			"id": "task-3", "title": "Provision staging cluster", "status": "open", "priority": 1.0,
			"due_date": "2026-02-20", "project_id": "proj-infra", "department_id": "dept-ops",
			"assignee_id": "prof-linus", "created_by": "prof-grace",
		}),
		stamped("2026-01-06T15:00:00Z", types.Row{
			"id": "task-4", "title": "Set up monitoring", "status": "open", "priority": 3.0,
			"due_date": "2026-04-01", "project_id": "proj-infra", "department_id": "dept-ops",
			"assignee_id": nil, "created_by": "prof-grace",
		}),
		stamped("2026-01-07T11:00:00Z", types.Row{
			"id": "task-5", "title": "Draft launch copy", "status": "in_progress", "priority": 2.0,
			"due_date": "2026-03-10", "project_id": "proj-launch", "department_id": "dept-mkt",
			"assignee_id": "prof-margaret", "created_by": "prof-margaret",
		}),
		stamped("2026-01-07T16:00:00Z", types.Row{
			"id": "task-6", "title": "Review launch budget", "status": "open", "priority": 3.0,
			"due_date": "2026-03-30", "project_id": "proj-launch", "department_id": "dept-mkt",
			"assignee_id": "prof-grace", "created_by": "prof-margaret",
		}),
	}
}

func seedActivities() types.Table {
	return types.Table{
		stamped("2026-01-08T09:00:00Z", types.Row{
			"id": "act-1", "title": "Endpoint review meeting", "task_id": "task-1",
			"assignee_id": "prof-grace", "created_by": "prof-ada", "scheduled_for": "2026-02-01T10:00:00Z",
		}),
		stamped("2026-01-08T10:00:00Z", types.Row{
			"id": "act-2", "title": "Docs pairing session", "task_id": "task-2",
			"assignee_id": "prof-ada", "created_by": "prof-ada", "scheduled_for": "2026-02-03T14:00:00Z",
		}),
		stamped("2026-01-09T09:00:00Z", types.Row{
			"id": "act-3", "title": "Cluster capacity check", "task_id": "task-3",
			"assignee_id": "prof-linus", "created_by": "prof-grace", "scheduled_for": "2026-02-05T09:00:00Z",
		}),
		stamped("2026-01-09T12:00:00Z", types.Row{
			"id": "act-4", "title": "Copy review", "task_id": "task-5",
			"assignee_id": "prof-unknown", "created_by": "prof-margaret", "scheduled_for": "2026-02-07T15:00:00Z",
		}),
	}
}

func seedNotifications() types.Table {
	return types.Table{
		stamped("2026-01-10T08:00:00Z", types.Row{
			"id": "notif-1", "user_id": "prof-grace", "message": "You were assigned \"Design REST endpoints\"", "read": true,
		}),
		stamped("2026-01-10T08:05:00Z", types.Row{
			"id": "notif-2", "user_id": "prof-linus", "message": "You were assigned \"Provision staging cluster\"", "read": false,
		}),
		stamped("2026-01-10T08:10:00Z", types.Row{
			"id": "notif-3", "user_id": "prof-margaret", "message": "Launch budget review is due soon", "read": false,
		}),
	}
}

func seedScores() types.Table {
	return types.Table{
		stamped("2026-01-31T23:00:00Z", types.Row{"id": "score-1", "profile_id": "prof-grace", "points": 120.0, "period": "2026-01"}),
		stamped("2026-01-31T23:00:00Z", types.Row{"id": "score-2", "profile_id": "prof-linus", "points": 80.0, "period": "2026-01"}),
	}
}
