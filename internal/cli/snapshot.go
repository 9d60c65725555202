package cli

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/entigen/compiler/load"
)

func newSnapshotCmd(regs *registries) *cobra.Command {
	var reader, output string

	cmd := &cobra.Command{
		Use:   "snapshot model...",
		Short: "Save a model as a snapshot",
		Long: `Snapshot loads a model and saves it in the binary format read by the
snapshot reader, so that later runs skip parsing the source metadata.`,
		Example: `  entigen snapshot -r sql -o shop.snap "sqlite://shop.db"
  entigen generate -r snapshot -w go -b models shop.snap`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			m, err := load.Load(ctx, regs.readers, reader, args...)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			bw := bufio.NewWriter(f)
			if err := load.WriteSnapshot(bw, m); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}
			if err := bw.Flush(); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Saved %d entities to %s", len(m.Entities()), output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reader, "reader", "r", "csv", "model reader")
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
