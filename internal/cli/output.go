package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// printJSON writes v to stdout, indented unless --json asks for compact.
func printJSON(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	if flags.jsonMode {
		data, err = json.Marshal(v)
	} else {
		data, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return sysError("encode output: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printResult writes res as a {data, error} document. A result carrying an
// error exits 1 without repeating the message on stderr.
func printResult(cmd *cobra.Command, res types.Result) error {
	if err := printJSON(cmd, res); err != nil {
		return err
	}
	if res.Error != nil {
		return &cliError{code: exitUserError, err: res.Error, silent: true}
	}
	return nil
}
