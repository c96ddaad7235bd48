package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lcr-attendance-backend/internal/services/address"
)

func newVariantsCommand() *cobra.Command {
	var (
		locality string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "variants <address>",
		Short: "Print the geocoding variants of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := address.Normalize(args[0], locality)

			done, err := writeOutput(cmd.OutOrStdout(), output, n)
			if err != nil || done {
				return err
			}
			for i, v := range n.Variants {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, v)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locality, "locality", "", `Locality appended when the address has no state code, e.g. "Orem, UT"`)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return cmd
}
