package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/entigen/schema"
)

func newWritersCmd(regs *registries) *cobra.Command {
	return &cobra.Command{
		Use:   "writers",
		Short: "List the available writers and readers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			empty := schema.NewModel()
			fmt.Fprintln(out, "Writers:")
			for _, name := range regs.writers.Names() {
				w, err := regs.writers.New(name, empty, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(w.BlockTypes(), ", "))
			}
			fmt.Fprintln(out, "Readers:")
			fmt.Fprintf(out, "  %s\n", strings.Join(regs.readers.Names(), ", "))
			return nil
		},
	}
}
