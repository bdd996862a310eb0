package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/experiments"
	"github.com/sarchlab/cachesim/recording"
	"github.com/sarchlab/cachesim/trace"
)

// cacheFlags describe the simulated cache.
type cacheFlags struct {
	configPath  string
	size        int
	block       int
	assoc       int
	full        bool
	policy      string
	seed        uint64
	addressBits int
}

func (f *cacheFlags) register(cmd *cobra.Command, d cache.Params) {
	flags := cmd.Flags()

	flags.StringVar(&f.configPath, "config", "", "path to a cache configuration JSON file")
	flags.IntVar(&f.size, "size", d.TotalSize, "total cache size in bytes")
	flags.IntVar(&f.block, "block", d.BlockSize, "block size in bytes")
	flags.IntVar(&f.assoc, "assoc", d.Associativity, "associativity (lines per set)")
	flags.BoolVar(&f.full, "fully-associative", false, "use a single set holding every line")
	flags.StringVar(&f.policy, "policy", d.Policy.String(), "replacement policy (lru, fifo, random)")
	flags.Uint64Var(&f.seed, "seed", 0, "seed for the random replacement policy")
	flags.IntVar(&f.addressBits, "address-bits", 0, "address width in bits (0 = 64-bit)")
}

// params starts from the config file (or the defaults) and applies the
// flags that were set explicitly.
func (f *cacheFlags) params(cmd *cobra.Command) (cache.Params, error) {
	p := cache.DefaultParams()
	if f.configPath != "" {
		var err error
		p, err = cache.LoadParams(f.configPath)
		if err != nil {
			return cache.Params{}, err
		}
	}

	flags := cmd.Flags()
	if f.configPath == "" || flags.Changed("size") {
		p.TotalSize = f.size
	}
	if f.configPath == "" || flags.Changed("block") {
		p.BlockSize = f.block
	}
	if f.configPath == "" || flags.Changed("assoc") {
		p.Associativity = f.assoc
	}
	if flags.Changed("fully-associative") {
		p.FullyAssociative = f.full
	}
	if f.configPath == "" || flags.Changed("policy") {
		policy, err := cache.ParsePolicy(f.policy)
		if err != nil {
			return cache.Params{}, err
		}
		p.Policy = policy
	}
	if flags.Changed("seed") {
		p = p.WithSeed(f.seed)
	}
	if flags.Changed("address-bits") {
		p.AddressBits = f.addressBits
	}

	return p, nil
}

// traceFlags select the address trace to replay.
type traceFlags struct {
	path    string
	pattern string
	count   int
	seed    uint64
}

func (f *traceFlags) register(cmd *cobra.Command, defaultPattern string, defaultCount int) {
	flags := cmd.Flags()

	flags.StringVar(&f.path, "trace", "", "trace file, one address per line (overrides --pattern)")
	flags.StringVar(&f.pattern, "pattern", defaultPattern,
		"synthetic trace pattern (sequential, random, looping, mixed)")
	flags.IntVar(&f.count, "count", defaultCount, "number of synthetic addresses")
	flags.Uint64Var(&f.seed, "trace-seed", trace.DefaultSeed, "seed for synthetic traces")
}

func (f *traceFlags) load() ([]uint64, error) {
	if f.path != "" {
		return trace.Load(f.path)
	}

	if f.count <= 0 {
		return nil, fmt.Errorf("count must be > 0, got %d", f.count)
	}

	pattern, err := trace.ParsePattern(f.pattern)
	if err != nil {
		return nil, err
	}

	return trace.NewSeededGenerator(f.seed).Generate(pattern, f.count)
}

// outputFlags control how results are reported and stored.
type outputFlags struct {
	format      string
	record      string
	skipInvalid bool
	verbose     bool
	parallelism int
}

func (f *outputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&f.format, "format", "text", "output format (text, csv, json)")
	flags.StringVar(&f.record, "record", "",
		"record results into <path>.sqlite3 (use \"auto\" for a generated name)")
	flags.BoolVar(&f.skipInvalid, "skip-invalid", false, "skip invalid addresses instead of aborting")
	flags.BoolVarP(&f.verbose, "debug", "d", false, "trace every cache access at debug level")
	flags.IntVar(&f.parallelism, "parallel", 0, "experiments run at once (0 = GOMAXPROCS)")
}

func (f *outputFlags) validate() error {
	switch f.format {
	case "text", "csv", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q", f.format)
	}
}

// runSuite runs suite through a harness and prints the results.
func runSuite(
	ctx context.Context,
	a *app,
	out io.Writer,
	output *outputFlags,
	suite []experiments.Experiment,
) error {
	if err := output.validate(); err != nil {
		return err
	}

	config := experiments.DefaultConfig()
	config.Output = out
	config.Logger = a.logger
	config.Verbose = output.verbose
	config.SkipInvalid = output.skipInvalid
	if output.parallelism > 0 {
		config.Parallelism = output.parallelism
	}

	if output.record != "" {
		path := output.record
		if path == "auto" {
			path = ""
		}

		recorder, err := recording.NewSQLiteRecorder(path)
		if err != nil {
			return err
		}
		defer func() { _ = recorder.Close() }()

		a.logger.Info("recording results", zap.String("file", recorder.Filename()))
		config.Recorder = recorder
	}

	harness := experiments.NewHarness(config)
	harness.AddExperiments(suite)

	results, err := harness.RunAll(ctx)
	if err != nil {
		return err
	}

	switch output.format {
	case "csv":
		return harness.PrintCSV(results)
	case "json":
		return harness.PrintJSON(results)
	default:
		harness.PrintResults(results)
		return nil
	}
}
