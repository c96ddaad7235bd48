package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lcr-attendance-backend/internal/services/matching"
	"lcr-attendance-backend/internal/services/names"
)

type matchReport struct {
	Attendee names.ParsedName    `json:"attendee" yaml:"attendee"`
	Roster   names.ParsedName    `json:"roster" yaml:"roster"`
	Result   matching.MatchResult `json:"result" yaml:"result"`
}

func newMatchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "match <attendee> <roster-name>",
		Short: "Check whether an attendee matches a roster name",
		Long: `Compare an attendee, written "First Last", with a roster name written "Last, First Middle".

Examples:
  lcrtool match "Jon Smith" "Smith, John Jon"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			attendee := parseAttendee(args[0])
			roster := names.Parse(args[1])
			r := matchReport{Attendee: attendee, Roster: roster, Result: matching.MatchNames(attendee, roster)}

			done, err := writeOutput(cmd.OutOrStdout(), output, r)
			if err != nil || done {
				return err
			}
			verdict := "no match"
			if r.Result.IsMatch {
				verdict = "match"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict, r.Result.Method)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return cmd
}

// parseAttendee reads "First Last"; the last token is the last name.
func parseAttendee(s string) names.ParsedName {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return names.FromParts("", "")
	}
	return names.FromParts(strings.Join(tokens[:len(tokens)-1], " "), tokens[len(tokens)-1])
}
