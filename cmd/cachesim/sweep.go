package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/experiments"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		cf    cacheFlags
		tf    traceFlags
		of    outputFlags
		sizes []int
		ways  []int
	)

	cmd := &cobra.Command{
		Use:       "sweep {size|assoc}",
		Short:     "Sweep the cache size or associativity over one trace",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"size", "assoc"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cf.params(cmd)
			if err != nil {
				return err
			}

			addrs, err := tf.load()
			if err != nil {
				return err
			}

			var suite []experiments.Experiment
			switch args[0] {
			case "size":
				suite = experiments.SizeSweep(p, addrs, sizes)
			case "assoc":
				suite = experiments.AssociativitySweep(p, addrs, ways)
			default:
				return fmt.Errorf("unknown sweep %q", args[0])
			}

			return runSuite(cmd.Context(), a, cmd.OutOrStdout(), &of, suite)
		},
	}

	cf.register(cmd, cache.DefaultParams())
	tf.register(cmd, "mixed", 1000)
	of.register(cmd)
	cmd.Flags().IntSliceVar(&sizes, "sizes", experiments.DefaultSizes,
		"cache sizes in bytes for the size sweep")
	cmd.Flags().IntSliceVar(&ways, "ways", experiments.DefaultWays,
		"associativities for the assoc sweep")

	return cmd
}
