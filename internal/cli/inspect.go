package cli

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/syssam/entigen/compiler/gen/info"
	"github.com/syssam/entigen/compiler/load"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	reader   string
	entities []string
	list     bool // names only
	debug    bool // dump the model structure
}

func newInspectCmd(regs *registries) *cobra.Command {
	opts := inspectOpts{reader: "csv"}

	cmd := &cobra.Command{
		Use:   "inspect model...",
		Short: "Show the entities and enumerations of a model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := load.Load(ctx, regs.readers, opts.reader, args...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.debug {
				_, err := pretty.Fprintf(out, "%# v\n", m)
				return err
			}

			w, err := info.New(m, nil)
			if err != nil {
				return err
			}
			blocks := []string{info.Summary}
			if opts.list {
				blocks = []string{info.EntityList, info.EnumList}
			}
			for _, bt := range blocks {
				b, err := w.CreateBlock(bt, opts.entities)
				if err != nil {
					return err
				}
				if b.Len() > 0 {
					fmt.Fprintln(out, b.String())
				}
			}
			loggerFromContext(ctx).Debug("Inspected model", "entities", len(m.Entities()), "enumerations", len(m.Enumerations()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.reader, "reader", "r", opts.reader, "model reader")
	cmd.Flags().StringArrayVarP(&opts.entities, "entity", "e", nil, "entity to show (repeatable, default all)")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list entity and enumeration names only")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "dump the loaded model structure")

	return cmd
}
