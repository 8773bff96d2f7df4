package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/localbase/internal/query"
)

// filterFlags are the predicate flags shared by query, update and delete.
// Each takes col=value and may repeat; all filters are ANDed.
type filterFlags struct {
	eq, neq, gt, gte, lt, lte []string
	like, ilike               []string
	in, is                    []string
	or                        []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVar(&f.eq, "eq", nil, "keep rows where col equals value (col=value)")
	fs.StringArrayVar(&f.neq, "neq", nil, "keep rows where col differs from value")
	fs.StringArrayVar(&f.gt, "gt", nil, "keep rows where col > value")
	fs.StringArrayVar(&f.gte, "gte", nil, "keep rows where col >= value")
	fs.StringArrayVar(&f.lt, "lt", nil, "keep rows where col < value")
	fs.StringArrayVar(&f.lte, "lte", nil, "keep rows where col <= value")
	fs.StringArrayVar(&f.like, "like", nil, "keep rows where col matches a %-pattern")
	fs.StringArrayVar(&f.ilike, "ilike", nil, "like, ignoring case")
	fs.StringArrayVar(&f.in, "in", nil, "keep rows where col is one of a JSON array or comma list")
	fs.StringArrayVar(&f.is, "is", nil, "keep rows where col is null, true or false")
	fs.StringArrayVar(&f.or, "or", nil, `keep rows matching any "col.op.value" term (eq, like, ilike)`)
}

func (f *filterFlags) empty() bool {
	return len(f.eq)+len(f.neq)+len(f.gt)+len(f.gte)+len(f.lt)+len(f.lte)+
		len(f.like)+len(f.ilike)+len(f.in)+len(f.is)+len(f.or) == 0
}

// apply adds every filter to b.
func (f *filterFlags) apply(b *query.Builder) error {
	scalar := []struct {
		args []string
		add  func(col string, v any) *query.Builder
	}{
		{f.eq, b.Eq}, {f.neq, b.Neq},
		{f.gt, b.Gt}, {f.gte, b.Gte},
		{f.lt, b.Lt}, {f.lte, b.Lte},
	}
	for _, s := range scalar {
		for _, arg := range s.args {
			col, raw, err := splitAssign(arg)
			if err != nil {
				return err
			}
			s.add(col, parseValue(raw))
		}
	}

	patterns := []struct {
		args []string
		add  func(col, pattern string) *query.Builder
	}{
		{f.like, b.Like}, {f.ilike, b.ILike},
	}
	for _, p := range patterns {
		for _, arg := range p.args {
			col, raw, err := splitAssign(arg)
			if err != nil {
				return err
			}
			p.add(col, raw)
		}
	}

	for _, arg := range f.in {
		col, raw, err := splitAssign(arg)
		if err != nil {
			return err
		}
		b.In(col, parseList(raw))
	}
	for _, arg := range f.is {
		col, raw, err := splitAssign(arg)
		if err != nil {
			return err
		}
		switch raw {
		case "null":
			b.Is(col, nil)
		case "true":
			b.Is(col, true)
		case "false":
			b.Is(col, false)
		default:
			return userError("invalid --is value %q (expected null, true or false)", raw)
		}
	}
	for _, expr := range f.or {
		b.Or(expr)
	}
	return nil
}

// splitAssign splits "col=value".
func splitAssign(arg string) (string, string, error) {
	col, value, ok := strings.Cut(arg, "=")
	if !ok || col == "" {
		return "", "", userError("invalid filter %q (expected col=value)", arg)
	}
	return col, value, nil
}

// parseValue reads raw as JSON when it parses, otherwise as a plain string,
// so --eq priority=2 compares numbers and --eq status=open compares text.
func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// parseList reads a JSON array or a comma-separated list.
func parseList(raw string) []any {
	if v, ok := parseValue(raw).([]any); ok {
		return v
	}
	parts := strings.Split(raw, ",")
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = parseValue(strings.TrimSpace(p))
	}
	return out
}
