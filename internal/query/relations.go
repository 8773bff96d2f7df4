package query

import (
	"sort"
	"sync"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Relation describes how a source row expands into a nested target row:
// the source's ForeignKey column is matched against the target's References
// column (id when empty) and the match is attached under Field.
type Relation struct {
	Target     string
	ForeignKey string
	Field      string
	References string
}

func (r Relation) referenced() string {
	if r.References == "" {
		return types.ColumnID
	}
	return r.References
}

// Registry maps (source table, alias) to a Relation. Only registered
// relations are resolved; anything else in a select spec is ignored.
type Registry struct {
	mu   sync.RWMutex
	rels map[string]map[string]Relation
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rels: make(map[string]map[string]Relation)}
}

// DefaultRegistry returns the dashboard relations.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(types.TableTasks, "department", Relation{Target: types.TableDepartments, ForeignKey: "department_id", Field: "department"})
	r.Register(types.TableTasks, "project", Relation{Target: types.TableProjects, ForeignKey: "project_id", Field: "project"})
	r.Register(types.TableTasks, "assignee", Relation{Target: types.TableProfiles, ForeignKey: "assignee_id", Field: "assignee"})
	r.Register(types.TableTasks, "creator", Relation{Target: types.TableProfiles, ForeignKey: "created_by", Field: "creator"})
	r.Register(types.TableProjects, "department", Relation{Target: types.TableDepartments, ForeignKey: "department_id", Field: "department"})
	r.Register(types.TableProjects, "creator", Relation{Target: types.TableProfiles, ForeignKey: "created_by", Field: "creator"})
	r.Register(types.TableActivities, "assignee", Relation{Target: types.TableProfiles, ForeignKey: "assignee_id", Field: "assignee"})
	r.Register(types.TableActivities, "task", Relation{Target: types.TableTasks, ForeignKey: "task_id", Field: "task"})
	r.Register(types.TableActivities, "creator", Relation{Target: types.TableProfiles, ForeignKey: "created_by", Field: "creator"})
	r.Register(types.TableProfiles, "department", Relation{Target: types.TableDepartments, ForeignKey: "department_id", Field: "department"})
	r.Register(types.TableProfiles, "role", Relation{Target: types.TableRoles, ForeignKey: "role_id", Field: "role_info"})
	r.Register(types.TableNotifications, "user", Relation{Target: types.TableProfiles, ForeignKey: "user_id", Field: "user"})
	r.Register(types.TableTaskHistory, "task", Relation{Target: types.TableTasks, ForeignKey: "task_id", Field: "task"})
	r.Register(types.TableTaskHistory, "changed_by", Relation{Target: types.TableProfiles, ForeignKey: "changed_by", Field: "changed_by_profile"})
	r.Register(types.TableScores, "profile", Relation{Target: types.TableProfiles, ForeignKey: "profile_id", Field: "profile"})
	return r
}

// Register adds or replaces the relation for (source, alias). An empty
// Field defaults to alias.
func (r *Registry) Register(source, alias string, rel Relation) {
	if rel.Field == "" {
		rel.Field = alias
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rels[source] == nil {
		r.rels[source] = make(map[string]Relation)
	}
	r.rels[source][alias] = rel
}

// Lookup resolves name for source: first as a registered alias, then as a
// target table when exactly one relation of source points at it.
func (r *Registry) Lookup(source, name string) (Relation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bySource := r.rels[source]
	if rel, ok := bySource[name]; ok {
		return rel, true
	}
	var found []Relation
	for _, rel := range bySource {
		if rel.Target == name {
			found = append(found, rel)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return Relation{}, false
}

// lookupHint resolves a "target!hint" marker: hint names either the
// foreign key column or the alias of a relation of source pointing at target.
func (r *Registry) lookupHint(source, target, hint string) (Relation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rel, ok := r.rels[source][hint]; ok && rel.Target == target {
		return rel, true
	}
	for _, rel := range r.rels[source] {
		if rel.Target == target && rel.ForeignKey == hint {
			return rel, true
		}
	}
	return Relation{}, false
}

// Aliases returns the registered aliases of source, sorted.
func (r *Registry) Aliases(source string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	aliases := make([]string, 0, len(r.rels[source]))
	for alias := range r.rels[source] {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}

// resolve attaches every resolvable relation in specs to out, using the
// unprojected source row for foreign key values. An unmatched foreign key
// attaches nil; unregistered relations are skipped.
func (r *Registry) resolve(snap types.Snapshot, source string, row, out types.Row, specs []relationSpec) {
	for _, spec := range specs {
		var rel Relation
		var ok bool
		if spec.hint != "" {
			rel, ok = r.lookupHint(source, spec.name, spec.hint)
		} else {
			rel, ok = r.Lookup(source, spec.name)
		}
		if !ok && spec.alias != "" {
			rel, ok = r.Lookup(source, spec.alias)
		}
		if !ok {
			continue
		}
		field := rel.Field
		if spec.alias != "" {
			field = spec.alias
		}
		out[field] = r.expand(snap, rel, row[rel.ForeignKey], spec.nested)
	}
}

// expand finds the target row whose referenced column equals fk by linear
// scan and projects it with nested, resolving nested relations recursively.
func (r *Registry) expand(snap types.Snapshot, rel Relation, fk any, nested selection) any {
	if fk == nil {
		return nil
	}
	key := rel.referenced()
	for _, target := range snap.Table(rel.Target) {
		if !equal(target[key], fk) {
			continue
		}
		projected := nested.project(target)
		r.resolve(snap, rel.Target, target, projected, nested.relations)
		return projected
	}
	return nil
}
