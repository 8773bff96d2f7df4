package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// tableInfo is one line of `localbase tables`.
type tableInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and their row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := openClient(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			snap, err := client.Snapshot()
			if err != nil {
				return sysError("read snapshot: %v", err)
			}
			infos := make([]tableInfo, 0, len(snap))
			for _, name := range snap.TableNames() {
				infos = append(infos, tableInfo{Name: name, Rows: len(snap[name])})
			}

			if flags.jsonMode {
				return printJSON(cmd, infos)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TABLE\tROWS")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%d\n", info.Name, info.Rows)
			}
			return w.Flush()
		},
	}
}
