package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "lcrtool",
		Short:         "Offline attendance and roster helpers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCommand(), newVariantsCommand(), newMatchCommand())
	return root
}

// writeOutput renders v as json or yaml. It reports false for the text
// format so the caller prints its own layout.
func writeOutput(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "", "text":
		return false, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return true, fmt.Errorf("invalid output format: %s", format)
	}
}
