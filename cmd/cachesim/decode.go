package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

func newDecodeCmd() *cobra.Command {
	var cf cacheFlags

	cmd := &cobra.Command{
		Use:   "decode ADDRESS...",
		Short: "Show how addresses split into tag, set and offset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := cf.params(cmd)
			if err != nil {
				return err
			}

			config, err := cache.NewConfig(p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			decoder := cache.NewDecoder(config)

			_, _ = fmt.Fprintf(out, "Config: %s\n", config)
			_, _ = fmt.Fprintf(out, "Bits: tag %d, index %d, offset %d\n",
				config.TagBits(), config.IndexBits(), config.OffsetBits())

			for _, arg := range args {
				addr, err := trace.ParseAddress(arg)
				if err != nil {
					return err
				}

				a, err := decoder.Decode(addr)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(out, "0x%08X -> tag 0x%X, set %d, offset %d\n",
					addr, a.Tag, a.SetIndex, a.Offset)
			}

			return nil
		},
	}

	cf.register(cmd, cache.DefaultParams())

	return cmd
}
