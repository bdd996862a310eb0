package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/experiments"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		cf cacheFlags
		tf traceFlags
		of outputFlags
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay one trace through one cache configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := cf.params(cmd)
			if err != nil {
				return err
			}

			addrs, err := tf.load()
			if err != nil {
				return err
			}

			name := tf.path
			if name == "" {
				name = tf.pattern
			}

			return runSuite(cmd.Context(), a, cmd.OutOrStdout(), &of, []experiments.Experiment{{
				Name:   name,
				Params: p,
				Trace:  addrs,
			}})
		},
	}

	cf.register(cmd, cache.DefaultParams())
	tf.register(cmd, "mixed", 1000)
	of.register(cmd)

	return cmd
}
