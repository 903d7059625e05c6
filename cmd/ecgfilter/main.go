// Command ecgfilter cleans ECG recordings with the baseline/powerline/noise
// filter cascade and replays them in a browser.
//
// Usage:
//
//	ecgfilter <command> [flags]
//
// Commands:
//
//	filter    filter a recording and export (time, original, filtered)
//	response  print the magnitude response of the cascade
//	synth     write a synthetic ECG with wander, hum and noise
//	play      serve the live view of a recording
//
// Examples:
//
//	ecgfilter synth -out test.csv -seconds 30
//	ecgfilter filter -in test.csv -out clean.parquet -report
//	ecgfilter filter -in lead.edf -signal "ECG II" -out clean.edf -watch
//	ecgfilter filter -in mitbih.txt -rate 360 -resample 500 -out clean.csv
//	ecgfilter response -rate 360 -powerline 60
//	ecgfilter play -in test.csv -addr :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-ecg/ecg/cascade"
	"github.com/cwbudde/algo-ecg/internal/logging"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

var commands = []command{
	{"filter", "filter a recording and export (time, original, filtered)", runFilter},
	{"response", "print the magnitude response of the cascade", runResponse},
	{"synth", "write a synthetic ECG with wander, hum and noise", runSynth},
	{"play", "serve the live view of a recording", runPlay},
}

// usageError is a bad invocation; it exits with status 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	name := args[0]
	if name == "-h" || name == "-help" || name == "--help" || name == "help" {
		printUsage(stdout)
		return 0
	}

	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(ctx, args[1:], stdout, stderr)
		var ue usageError
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.As(err, &ue):
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		case errors.Is(err, errFlagParse):
			return 2
		default:
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "error: unknown command %q\n\n", name)
	printUsage(stderr)
	return 2
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: ecgfilter <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'ecgfilter <command> -h' for the flags of a command.\n")
}

// errFlagParse marks a flag error the flag package has already reported.
var errFlagParse = errors.New("invalid flags")

type logFlags struct {
	level string
	json  bool
}

// newFlagSet returns a flag set that reports to stderr and carries the
// logging flags shared by every command.
func newFlagSet(name, usage string, stderr io.Writer) (*flag.FlagSet, *logFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: ecgfilter %s %s\n\nFlags:\n", name, usage)
		fs.PrintDefaults()
	}

	lf := &logFlags{}
	fs.StringVar(&lf.level, "log-level", "info", "log level: debug, info, warn, error")
	fs.BoolVar(&lf.json, "log-json", false, "log JSON lines instead of console text")
	return fs, lf
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errFlagParse
	}
	if fs.NArg() > 0 {
		return usageError{fmt.Sprintf("%s: unexpected arguments %q", fs.Name(), fs.Args())}
	}
	return nil
}

func (lf *logFlags) logger(stderr io.Writer) *zap.Logger {
	return logging.New(
		logging.WithLevel(lf.level),
		logging.WithConsole(!lf.json),
		logging.WithOutput(stderr),
	)
}

// powerlineOptions maps the -powerline flag to cascade options.
func powerlineOptions(hz int) ([]cascade.Option, error) {
	switch hz {
	case 50:
		return nil, nil
	case 60:
		return []cascade.Option{cascade.WithPowerline60Hz()}, nil
	default:
		return nil, usageError{fmt.Sprintf("-powerline must be 50 or 60, got %d", hz)}
	}
}
