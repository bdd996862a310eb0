package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/experiments"
)

func newCompareCmd(a *app) *cobra.Command {
	var (
		cf cacheFlags
		tf traceFlags
		of outputFlags
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare LRU, FIFO and Random on the same trace",
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

			return runSuite(cmd.Context(), a, cmd.OutOrStdout(), &of,
				experiments.PolicyComparison(p, addrs))
		},
	}

	defaults := cache.DefaultParams()
	defaults.Associativity = 4
	cf.register(cmd, defaults)
	tf.register(cmd, "mixed", 800)
	of.register(cmd)

	return cmd
}
