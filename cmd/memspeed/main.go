// Command memspeed runs the memory benchmark and prints the total elapsed
// milliseconds.
//
// Usage:
//
//	memspeed [flags] [scale]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hupe1980/memspeed"
)

var (
	threadsFlag = &cli.IntFlag{
		Name:  "threads",
		Usage: "Number of gc-stress workers",
		Value: memspeed.DefaultThreads,
	}
	seedFlag = &cli.Uint64Flag{
		Name:  "seed",
		Usage: "Base seed of every generator",
		Value: memspeed.DefaultSeed,
	}
	verifyFlag = &cli.BoolFlag{
		Name:  "verify",
		Usage: "Self-check every workload (slower, timings not comparable)",
	}
	offHeapFlag = &cli.BoolFlag{
		Name:  "offheap",
		Usage: "Use anonymous memory mappings instead of the Go heap",
	}
	memoryLimitFlag = &cli.Int64Flag{
		Name:  "memory-limit",
		Usage: "Maximum bytes reserved by arenas and bandwidth buffers (0 = unlimited)",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (debug, info, warn, error)",
		Value: "warn",
	}
	logJSONFlag = &cli.BoolFlag{
		Name:  "log-json",
		Usage: "Format logs as JSON",
	}
)

func main() {
	if err := runMain(os.Stdout, os.Stderr, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMain(stdout, stderr io.Writer, args []string) error {
	app := newApp(stdout, stderr)
	return app.Run(scaleArgs(app, args))
}

var negativeInt = regexp.MustCompile(`^-\d+$`)

// scaleArgs inserts "--" before a negative number in scale position, which
// the flag parser would otherwise take for an unknown flag. The scale then
// reaches ParseScale and falls back like any other invalid input.
func scaleArgs(app *cli.App, args []string) []string {
	takesValue := make(map[string]bool)
	for _, f := range app.Flags {
		_, isBool := f.(*cli.BoolFlag)
		for _, name := range f.Names() {
			takesValue[name] = !isBool
		}
	}

	for i := 1; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return args
		case negativeInt.MatchString(arg):
			out := append(slices.Clone(args[:i]), "--")
			return append(out, args[i:]...)
		case len(arg) > 1 && arg[0] == '-':
			name := strings.TrimLeft(arg, "-")
			if !strings.Contains(name, "=") && takesValue[name] {
				i++ // skip the flag's value
			}
		default:
			return args
		}
	}
	return args
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "memspeed",
		Usage:     "deterministic memory-subsystem benchmark",
		ArgsUsage: "[scale]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			threadsFlag,
			seedFlag,
			verifyFlag,
			offHeapFlag,
			memoryLimitFlag,
			logLevelFlag,
			logJSONFlag,
		},
		Action:          run,
		HideHelpCommand: true,
		// Report usage errors through the returned error only; stdout
		// carries nothing but the total.
		OnUsageError: func(_ *cli.Context, err error, _ bool) error {
			return err
		},
	}
}

func run(ctx *cli.Context) error {
	logger, err := makeLogger(ctx)
	if err != nil {
		return err
	}

	scale := memspeed.DefaultScale
	if ctx.NArg() > 0 {
		arg := ctx.Args().First()
		if scale, err = memspeed.ParseScale(arg); err != nil {
			logger.LogScaleFallback(ctx.Context, arg, err)
		}
		if extra := ctx.Args().Tail(); len(extra) > 0 {
			logger.WarnContext(ctx.Context, "ignoring extra arguments", "args", extra)
		}
	}

	report, err := memspeed.Run(ctx.Context, scale,
		memspeed.WithLogger(logger),
		memspeed.WithThreads(ctx.Int(threadsFlag.Name)),
		memspeed.WithSeed(ctx.Uint64(seedFlag.Name)),
		memspeed.WithVerify(ctx.Bool(verifyFlag.Name)),
		memspeed.WithOffHeap(ctx.Bool(offHeapFlag.Name)),
		memspeed.WithMemoryLimit(ctx.Int64(memoryLimitFlag.Name)),
	)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(ctx.App.Writer, memspeed.FormatMillis(report.TotalMillis()))
	return err
}

func makeLogger(ctx *cli.Context) (*memspeed.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(ctx.String(logLevelFlag.Name))); err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", logLevelFlag.Name, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	w := ctx.App.ErrWriter
	if ctx.Bool(logJSONFlag.Name) {
		return memspeed.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return memspeed.NewLogger(slog.NewTextHandler(w, opts)), nil
}
