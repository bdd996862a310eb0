package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/experiments"
	"github.com/sarchlab/cachesim/trace"
)

func newPatternsCmd(a *app) *cobra.Command {
	var (
		cf        cacheFlags
		of        outputFlags
		count     int
		traceSeed uint64
	)

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Compare synthetic access patterns on one cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("count must be > 0, got %d", count)
			}

			p, err := cf.params(cmd)
			if err != nil {
				return err
			}

			suite, err := experiments.PatternComparison(
				p, trace.NewSeededGenerator(traceSeed), count)
			if err != nil {
				return err
			}

			return runSuite(cmd.Context(), a, cmd.OutOrStdout(), &of, suite)
		},
	}

	cf.register(cmd, cache.DefaultParams())
	of.register(cmd)
	cmd.Flags().IntVar(&count, "count", 1000, "addresses per pattern")
	cmd.Flags().Uint64Var(&traceSeed, "trace-seed", trace.DefaultSeed, "seed for synthetic traces")

	return cmd
}
