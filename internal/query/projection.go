package query

import (
	"strings"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// selection is a parsed select specification.
type selection struct {
	all       bool
	columns   []string
	relations []relationSpec
}

// relationSpec is a relationship marker such as "department:departments(name)".
type relationSpec struct {
	alias  string // explicit output name before ':', may be empty
	name   string // relation name or target table
	hint   string // text after '!': a foreign key column or relation alias
	nested selection
}

// parseSelect parses a comma-separated column list. An empty spec or "*"
// selects every column. Specifiers with parentheses are relationship
// markers; other specifiers carrying join syntax (':', '!', '.') are
// ignored.
func parseSelect(spec string) selection {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return selection{all: true}
	}

	var sel selection
	for _, item := range splitTopLevel(spec) {
		item = strings.TrimSpace(item)
		switch {
		case item == "":
		case item == "*":
			sel.all = true
		case strings.Contains(item, "("):
			if rs, ok := parseRelation(item); ok {
				sel.relations = append(sel.relations, rs)
			}
		case strings.ContainsAny(item, ":!."):
		default:
			sel.columns = append(sel.columns, item)
		}
	}
	if len(sel.columns) == 0 && len(sel.relations) == 0 {
		sel.all = true
	}
	return sel
}

// parseRelation parses "alias:target!hint(inner)" and its shorter forms.
func parseRelation(item string) (relationSpec, bool) {
	open := strings.Index(item, "(")
	closing := strings.LastIndex(item, ")")
	if open <= 0 || closing < open {
		return relationSpec{}, false
	}
	head := strings.TrimSpace(item[:open])
	inner := item[open+1 : closing]

	var rs relationSpec
	if alias, target, ok := strings.Cut(head, ":"); ok {
		rs.alias = strings.TrimSpace(alias)
		head = target
	}
	name, hint, _ := strings.Cut(head, "!")
	rs.name = strings.TrimSpace(name)
	rs.hint = strings.TrimSpace(hint)
	if rs.name == "" {
		return relationSpec{}, false
	}
	rs.nested = parseSelect(inner)
	return rs, true
}

// splitTopLevel splits on commas that are not inside parentheses.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// project returns the columns of row named by sel. Columns absent from the
// row are omitted rather than set to nil.
func (sel selection) project(row types.Row) types.Row {
	if sel.all {
		return row.Clone()
	}
	out := make(types.Row, len(sel.columns)+len(sel.relations))
	for _, col := range sel.columns {
		if v, ok := row[col]; ok {
			out[col] = types.CloneValue(v)
		}
	}
	return out
}
