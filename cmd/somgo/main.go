// Command somgo trains a labeled self-organizing map from a CSV file and
// prints the map as a grid of mnemonic codes.
//
// Usage:
//
//	somgo -input iris.csv -upper 0.2 -lower 0.2 -shuffle -seed 42
//
// Each input line is feature_1,...,feature_N,label.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hupe1980/somgo"
	"github.com/hupe1980/somgo/dataset"
	"github.com/hupe1980/somgo/resource"
	"github.com/hupe1980/somgo/snapshot"
	"github.com/hupe1980/somgo/som"
)

type config struct {
	input       string
	upper       float64
	lower       float64
	shuffle     bool
	seed        int64
	workers     int
	compression string
	snapshotDir string
	store       string
	keep        int
	ioLimit     int64
	logLevel    string
	logJSON     bool
}

func parseFlags(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("somgo", flag.ContinueOnError)
	fs.StringVar(&cfg.input, "input", "", "CSV input file (\"-\" for stdin)")
	fs.Float64Var(&cfg.upper, "upper", somgo.DefaultUpperMargin, "upper sampling margin above the input mean")
	fs.Float64Var(&cfg.lower, "lower", somgo.DefaultLowerMargin, "lower sampling margin below the input mean")
	fs.BoolVar(&cfg.shuffle, "shuffle", false, "present inputs in a shuffled order")
	fs.Int64Var(&cfg.seed, "seed", 0, "random seed (0 uses the current time)")
	fs.IntVar(&cfg.workers, "workers", 1, "goroutines for the distance pass")
	fs.StringVar(&cfg.compression, "compression", "zstd", "snapshot compression: none, lz4 or zstd")
	fs.StringVar(&cfg.snapshotDir, "snapshot-dir", "", "local directory to save the trained map into")
	fs.StringVar(&cfg.store, "store", "", "remote store to save into: s3://bucket/prefix or minio://endpoint/bucket/prefix")
	fs.IntVar(&cfg.keep, "keep", 0, "number of snapshots to keep after saving (0 keeps all)")
	fs.Int64Var(&cfg.ioLimit, "io-limit", 0, "snapshot I/O limit in bytes per second (0 is unlimited)")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "emit JSON logs")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if cfg.input == "" {
		return config{}, fmt.Errorf("-input is required")
	}
	if cfg.snapshotDir != "" && cfg.store != "" {
		return config{}, fmt.Errorf("-snapshot-dir and -store are mutually exclusive")
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("somgo: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("somgo: %v", err)
	}
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	logger := somgo.NewTextLogger(level)
	if cfg.logJSON {
		logger = somgo.NewJSONLogger(level)
	}

	compression, err := snapshot.ParseCompression(cfg.compression)
	if err != nil {
		return err
	}

	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: cfg.ioLimit})

	inputs, err := readInput(ctx, cfg.input, rc)
	if err != nil {
		return err
	}

	mode := som.Sequential
	if cfg.shuffle {
		mode = som.Shuffled
	}

	optFns := []somgo.Option{
		somgo.WithBounds(cfg.upper, cfg.lower),
		somgo.WithMode(mode),
		somgo.WithWorkers(cfg.workers),
		somgo.WithCompression(compression),
		somgo.WithLogger(logger),
		somgo.WithResourceController(rc),
	}
	if cfg.seed != 0 {
		optFns = append(optFns, somgo.WithSeed(cfg.seed))
	}

	trainer, err := somgo.New(optFns...)
	if err != nil {
		return err
	}

	m, err := trainer.Train(ctx, inputs)
	if err != nil {
		return err
	}

	if err := report(out, m); err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil || store == nil {
		return err
	}

	name, err := trainer.Save(ctx, store, m)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nsaved %s\n", name)

	if cfg.keep > 0 {
		pruned, err := snapshot.Prune(ctx, store, cfg.keep)
		if err != nil {
			return err
		}
		for _, p := range pruned {
			fmt.Fprintf(out, "pruned %s\n", p)
		}
	}
	return nil
}

func readInput(ctx context.Context, path string, rc *resource.Controller) ([]som.Vector, error) {
	if path == "-" {
		return dataset.Read(resource.NewRateLimitedReader(ctx, os.Stdin, rc))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return dataset.Read(resource.NewRateLimitedReader(ctx, f, rc))
}

// report prints the code grid, the mnemonic table and the histogram.
func report(w io.Writer, m *somgo.Map) error {
	var b strings.Builder

	for _, row := range m.Codes() {
		b.WriteString(strings.Join(row, " "))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	for _, e := range m.Mnemonics().Entries() {
		fmt.Fprintf(&b, "%s = %s\n", e.Label, e.Code)
	}

	b.WriteByte('\n')
	for _, e := range m.Histogram().Entries() {
		fmt.Fprintf(&b, "%s = %d\n", e.Code, e.Count)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
