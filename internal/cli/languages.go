package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aezell/crev/internal/request"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List recognised file extensions and their languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, e := range request.Extensions() {
				fmt.Fprintf(out, "%-8s %s\n", e.Ext, e.Language)
			}
			fmt.Fprintf(out, "%-8s %s\n", "*", request.FallbackLanguage)
			return nil
		},
	}
}
