// Package main provides a CLI that prints the character frequencies of a text.
// Usage: charfreq [-file PATH | -url URL | -html URL | -feed URL] [-threads N] [-case MODE] [-top N] [-json] [-compare]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"charfreq/internal/config"
	"charfreq/internal/domain/entity"
	"charfreq/internal/infra/source"
	"charfreq/internal/observability/logging"
	"charfreq/pkg/charfreq"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// maxStdinBytes bounds text read from standard input.
const maxStdinBytes = 64 << 20

// FrequencyOutput represents the JSON output format.
type FrequencyOutput struct {
	Mode        string        `json:"mode"`
	Threads     int           `json:"threads"`
	Length      int           `json:"length"`
	Distinct    int           `json:"distinct"`
	Frequencies []EntryOutput `json:"frequencies"`
}

// EntryOutput is one character and its count.
type EntryOutput struct {
	Char  string `json:"char"`
	Count int    `json:"count"`
}

// options holds the parsed command line.
type options struct {
	src     *entity.Source
	threads int
	mode    charfreq.CaseMode
	top     int
	json    bool
	compare bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	logger := logging.NewLoggerTo(stderr, logging.FormatText)
	ctx = logging.WithLogger(ctx, logger)

	text, err := readText(ctx, opts.src, stdin)
	if err != nil {
		logger.Error("failed to read text", slog.Any("error", err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	counter := charfreq.NewCounter(
		charfreq.WithThreads(opts.threads),
		charfreq.WithCaseMode(opts.mode),
		charfreq.WithLogger(logger),
	)

	if opts.compare {
		if err := compare(ctx, counter, text, opts.mode, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	}

	freqs, err := counter.Count(ctx, text)
	if err != nil {
		fmt.Fprintf(stderr, "Error: counting failed (%s): %v\n", charfreq.ErrorKind(err), err)
		return exitError
	}

	output := newFrequencyOutput(freqs, counter, opts.top)
	if opts.json {
		err = outputJSON(stdout, output)
	} else {
		err = outputText(stdout, output)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to write output: %v\n", err)
		return exitError
	}
	return exitOK
}

// parseFlags parses args. At most one source flag may be set; without one
// the text is read from standard input.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("charfreq", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		file, pageURL, htmlURL, feedURL string
		caseName                        string
		opts                            options
	)
	fs.StringVar(&file, "file", "", "Count the text of a local file")
	fs.StringVar(&pageURL, "url", "", "Count the main article text of a web page")
	fs.StringVar(&htmlURL, "html", "", "Count the full body text of a web page")
	fs.StringVar(&feedURL, "feed", "", "Count the titles and contents of an RSS/Atom feed")
	fs.IntVar(&opts.threads, "threads", 0, "Number of counting goroutines (0 = available CPUs)")
	fs.StringVar(&caseName, "case", charfreq.DefaultCaseMode.String(), "Case mode: sensitive, insensitive-ascii or insensitive")
	fs.IntVar(&opts.top, "top", 0, "Print only the N most frequent characters (0 = all)")
	fs.BoolVar(&opts.json, "json", false, "Print JSON instead of a table")
	fs.BoolVar(&opts.compare, "compare", false, "Time the sequential and parallel paths and check they agree")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: charfreq [-file PATH | -url URL | -html URL | -feed URL] [flags]")
		fmt.Fprintln(fs.Output(), "")
		fmt.Fprintln(fs.Output(), "Reads standard input when no source is given.")
		fmt.Fprintln(fs.Output(), "")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	mode, err := charfreq.ParseCaseMode(caseName)
	if err != nil {
		return nil, err
	}
	opts.mode = mode

	if opts.threads < 0 {
		return nil, fmt.Errorf("threads must not be negative, got %d", opts.threads)
	}
	if opts.top < 0 {
		return nil, fmt.Errorf("top must not be negative, got %d", opts.top)
	}

	candidates := []entity.Source{
		{Kind: entity.KindFile, Location: file},
		{Kind: entity.KindURL, Location: pageURL},
		{Kind: entity.KindHTML, Location: htmlURL},
		{Kind: entity.KindFeed, Location: feedURL},
	}
	for i := range candidates {
		if candidates[i].Location == "" {
			continue
		}
		if opts.src != nil {
			return nil, errors.New("only one of -file, -url, -html and -feed may be set")
		}
		src := candidates[i]
		src.Name = "cli"
		if err := src.Validate(); err != nil {
			return nil, err
		}
		opts.src = &src
	}

	return &opts, nil
}

// readText loads src, or standard input when src is nil.
func readText(ctx context.Context, src *entity.Source, stdin io.Reader) (string, error) {
	if src == nil {
		data, err := io.ReadAll(io.LimitReader(stdin, maxStdinBytes+1))
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if len(data) > maxStdinBytes {
			return "", fmt.Errorf("stdin exceeds %d bytes", maxStdinBytes)
		}
		return string(data), nil
	}

	loader := source.NewLoader(config.DefaultFetchConfig())
	return loader.Load(ctx, *src)
}

// compare runs the sequential and parallel paths on the same text, prints
// both timings and fails when the results differ.
func compare(ctx context.Context, counter *charfreq.Counter, s string, mode charfreq.CaseMode, w io.Writer) error {
	text := charfreq.NewText(s)

	start := time.Now()
	sequential, err := counter.Sequential(ctx, text, mode)
	if err != nil {
		return fmt.Errorf("sequential count: %w", err)
	}
	sequentialTime := time.Since(start)

	start = time.Now()
	parallel, err := counter.CountText(ctx, text, counter.Threads(), mode)
	if err != nil {
		return fmt.Errorf("parallel count: %w", err)
	}
	parallelTime := time.Since(start)

	if !sequential.Equal(parallel) {
		return errors.New("sequential and parallel results differ")
	}

	fmt.Fprintf(w, "Characters: %d (%d distinct)\n", text.Len(), len(sequential))
	fmt.Fprintf(w, "Sequential time: %v\n", sequentialTime)
	fmt.Fprintf(w, "Parallel time (%d threads): %v\n", counter.Threads(), parallelTime)
	return nil
}

func newFrequencyOutput(freqs charfreq.Frequencies, counter *charfreq.Counter, top int) FrequencyOutput {
	entries := freqs.Sorted()
	if top > 0 && top < len(entries) {
		entries = entries[:top]
	}

	out := FrequencyOutput{
		Mode:        counter.CaseMode().String(),
		Threads:     counter.Threads(),
		Length:      freqs.Total(),
		Distinct:    len(freqs),
		Frequencies: make([]EntryOutput, len(entries)),
	}
	for i, e := range entries {
		out.Frequencies[i] = EntryOutput{Char: string(e.Char), Count: e.Count}
	}
	return out
}

// outputText prints the frequencies as an aligned table. Characters are
// quoted so that whitespace and control characters stay visible.
func outputText(w io.Writer, out FrequencyOutput) error {
	fmt.Fprintf(w, "Characters: %d (%d distinct), mode %s, %d threads\n\n", out.Length, out.Distinct, out.Mode, out.Threads)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHAR\tCOUNT")
	for _, e := range out.Frequencies {
		fmt.Fprintf(tw, "%q\t%d\n", e.Char, e.Count)
	}
	return tw.Flush()
}

// outputJSON prints the frequencies in JSON format.
func outputJSON(w io.Writer, out FrequencyOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
