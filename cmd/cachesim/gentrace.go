package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/trace"
)

func newGenTraceCmd() *cobra.Command {
	var (
		tf  traceFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "gen-trace",
		Short: "Generate a synthetic trace file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tf.path = ""
			addrs, err := tf.load()
			if err != nil {
				return err
			}

			if out == "" {
				return trace.Write(cmd.OutOrStdout(), addrs)
			}

			return trace.Save(out, addrs)
		},
	}

	tf.register(cmd, "mixed", 1000)
	_ = cmd.Flags().MarkHidden("trace")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")

	return cmd
}
