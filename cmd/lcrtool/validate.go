package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lcr-attendance-backend/internal/services/attendance"
)

var errInvalidFile = errors.New("attendance file is invalid")

func newValidateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Validate an attendance CSV",
		Long: `Validate an attendance CSV with Date, First Name and Last Name columns.

Every problem is reported at once. The command exits non-zero when the file is rejected.

Examples:
  lcrtool validate attendance.csv
  lcrtool validate attendance.csv -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			res := attendance.NewValidator(nil).Validate(f)

			done, err := writeOutput(cmd.OutOrStdout(), output, res)
			if err != nil {
				return err
			}
			if !done {
				printValidation(cmd, res)
			}
			if !res.Valid() {
				return errInvalidFile
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return cmd
}

func printValidation(cmd *cobra.Command, res attendance.Result) {
	out := cmd.OutOrStdout()
	if !res.Valid() {
		fmt.Fprintf(out, "%d problem(s) found:\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
		return
	}
	fmt.Fprintf(out, "Date: %s\n", res.TargetDate)
	fmt.Fprintf(out, "Attendees: %d\n", len(res.Names))
	for _, n := range res.Names {
		fmt.Fprintf(out, "  %s\n", n.DisplayName())
	}
}
