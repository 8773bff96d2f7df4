package cli

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/localbase/internal/query"
	"github.com/mesh-intelligence/localbase/pkg/types"
)

type queryFlags struct {
	filterFlags
	selectSpec  string
	orders      []string
	limit       int
	rangeSpec   string
	single      bool
	maybeSingle bool
	count       bool
}

func newQueryCmd() *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query <table>",
		Short: "Select rows from a table",
		Long: `Query runs a select against one table and prints {data, error}.

Examples:
  localbase query tasks --eq status=open --order priority --limit 5
  localbase query tasks --select "id, title, project:projects(name)" --eq id=task-1 --single
  localbase query tasks --or "status.eq.done,title.ilike.%launch%"
  localbase query activities --order scheduled_for:desc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			b := client.From(args[0])
			if err := f.apply(b); err != nil {
				return err
			}
			return printResult(cmd, b.Execute())
		},
	}
	f.filterFlags.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.selectSpec, "select", "*", "columns and relations to return")
	fs.StringArrayVar(&f.orders, "order", nil, "sort by col or col:desc; repeatable, the last one dominates")
	fs.IntVar(&f.limit, "limit", -1, "return at most n rows")
	fs.StringVar(&f.rangeSpec, "range", "", "return rows from:to, both inclusive")
	fs.BoolVar(&f.single, "single", false, "require exactly one row")
	fs.BoolVar(&f.maybeSingle, "maybe-single", false, "allow zero or one row")
	fs.BoolVar(&f.count, "count", false, "report the number of matching rows")
	cmd.MarkFlagsMutuallyExclusive("single", "maybe-single")
	return cmd
}

func (f *queryFlags) apply(b *query.Builder) error {
	b.Select(f.selectSpec)
	if err := f.filterFlags.apply(b); err != nil {
		return err
	}
	for _, spec := range f.orders {
		col, dir, _ := strings.Cut(spec, ":")
		switch dir {
		case "", "asc":
			b.Order(col)
		case "desc":
			b.Order(col, query.Ascending(false))
		default:
			return userError("invalid --order %q (expected col, col:asc or col:desc)", spec)
		}
	}
	if f.rangeSpec != "" {
		from, to, err := parseRange(f.rangeSpec)
		if err != nil {
			return err
		}
		b.Range(from, to)
	}
	if f.limit >= 0 {
		b.Limit(f.limit)
	}
	if f.single {
		b.Single()
	}
	if f.maybeSingle {
		b.MaybeSingle()
	}
	if f.count {
		b.Count()
	}
	return nil
}

func parseRange(spec string) (int, int, error) {
	a, b, ok := strings.Cut(spec, ":")
	from, err1 := strconv.Atoi(a)
	to, err2 := strconv.Atoi(b)
	if !ok || err1 != nil || err2 != nil {
		return 0, 0, userError("invalid --range %q (expected from:to)", spec)
	}
	return from, to, nil
}

func newInsertCmd() *cobra.Command {
	var (
		selectSpec string
		upsert     bool
	)
	cmd := &cobra.Command{
		Use:   "insert <table> <json>",
		Short: "Insert a row or an array of rows",
		Long: `Insert adds rows to a table. Missing id, created_at and updated_at are
filled in. With --upsert, rows whose id already exists are merged instead.

Example:
  localbase insert tasks '{"title":"Write release notes","status":"open"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := parseRows(args[1])
			if err != nil {
				return err
			}
			client, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			b := client.From(args[0])
			if upsert {
				b.Upsert(rows...)
			} else {
				b.Insert(rows...)
			}
			return printResult(cmd, b.Select(selectSpec).Execute())
		},
	}
	cmd.Flags().StringVar(&selectSpec, "select", "*", "columns and relations to return")
	cmd.Flags().BoolVar(&upsert, "upsert", false, "merge rows that share an id with an existing row")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var f filterFlags
	cmd := &cobra.Command{
		Use:   "update <table> <json>",
		Short: "Merge columns into every row matching the filters",
		Long: `Update merges a JSON object into the matching rows and refreshes
updated_at. Matching nothing is not an error: data is null.

Example:
  localbase update tasks '{"status":"done"}' --eq id=task-3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var partial types.Row
			if err := json.Unmarshal([]byte(args[1]), &partial); err != nil || partial == nil {
				return userError("update body must be a JSON object")
			}
			client, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			b := client.From(args[0]).Update(partial)
			if err := f.apply(b); err != nil {
				return err
			}
			return printResult(cmd, b.Execute())
		},
	}
	f.register(cmd)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var (
		f   filterFlags
		all bool
	)
	cmd := &cobra.Command{
		Use:   "delete <table>",
		Short: "Delete every row matching the filters",
		Long: `Delete removes the matching rows. Without filters it refuses to run
unless --all is given.

Example:
  localbase delete notifications --eq read=true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.empty() && !all {
				return userError("refusing to delete every row of %s without --all", args[0])
			}
			client, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			b := client.From(args[0]).Delete()
			if err := f.apply(b); err != nil {
				return err
			}
			return printResult(cmd, b.Execute())
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "allow deleting without filters")
	return cmd
}

// parseRows reads a JSON object or array of objects.
func parseRows(raw string) ([]types.Row, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var rows []types.Row
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			return nil, userError("invalid JSON rows: %v", err)
		}
		return rows, nil
	}
	var row types.Row
	if err := json.Unmarshal([]byte(raw), &row); err != nil || row == nil {
		return nil, userError("row must be a JSON object or array of objects")
	}
	return []types.Row{row}, nil
}
