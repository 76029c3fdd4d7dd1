package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"charfreq/internal/config"
	"charfreq/internal/domain/entity"
	"charfreq/internal/infra/source"
	"charfreq/internal/observability/logging"
	"charfreq/pkg/charfreq"
)

// Diagnostic statuses.
const (
	StatusOK         = "OK"
	StatusEmpty      = "EMPTY"
	StatusLoadError  = "LOAD_ERROR"
	StatusCountError = "COUNT_ERROR"
	StatusTimeout    = "TIMEOUT"
)

// SourceDiagnostic represents the diagnostic result for a single source
type SourceDiagnostic struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Location     string `json:"location"`
	Status       string `json:"status"`
	Characters   int    `json:"characters"`
	Distinct     int    `json:"distinct"`
	TopChars     string `json:"top_chars,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

func main() {
	sourcesPath := flag.String("sources", "sources.yaml", "Sources YAML file")
	timeout := flag.Duration("timeout", 30*time.Second, "Timeout per source")
	out := flag.String("out", "source_diagnostic_report", "Report file prefix (.txt and .json are appended)")
	flag.Parse()

	cfg, err := config.LoadSourcesConfig(*sourcesPath)
	if err != nil {
		log.Fatalf("Failed to load sources: %v", err)
	}

	loader := source.NewLoader(cfg.Fetch, source.WithBaseDir(filepath.Dir(*sourcesPath)))
	counter := charfreq.NewCounter()

	log.Printf("Diagnosing %d sources...\n", len(cfg.Sources))

	diagnostics := make([]SourceDiagnostic, 0, len(cfg.Sources))
	for i, src := range cfg.Sources {
		log.Printf("[%d/%d] Diagnosing: %s", i+1, len(cfg.Sources), src.Name)
		diagnostics = append(diagnostics, diagnoseSource(loader, counter, src, *timeout))
	}

	if err := writeTextReport(*out+".txt", diagnostics); err != nil {
		log.Printf("Failed to write text report: %v", err)
	}
	if err := writeJSONReport(*out+".json", diagnostics); err != nil {
		log.Printf("Failed to write JSON report: %v", err)
	}
}

func diagnoseSource(loader *source.Loader, counter *charfreq.Counter, src entity.Source, timeout time.Duration) (diag SourceDiagnostic) {
	diag = SourceDiagnostic{
		Name:     src.Name,
		Kind:     string(src.Kind),
		Location: src.Location,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	defer func() { diag.ResponseTime = time.Since(start).Milliseconds() }()

	text, err := loader.Load(ctx, src)
	if err != nil {
		diag.Status = StatusLoadError
		if errors.Is(err, context.DeadlineExceeded) {
			diag.Status = StatusTimeout
		}
		diag.ErrorMessage = logging.SanitizeError(err)
		return diag
	}

	freqs, err := counter.CountText(ctx, charfreq.NewText(text), counter.Threads(), src.Mode(counter.CaseMode()))
	if err != nil {
		diag.Status = StatusCountError
		diag.ErrorKind = charfreq.ErrorKind(err)
		diag.ErrorMessage = err.Error()
		return diag
	}

	diag.Characters = freqs.Total()
	diag.Distinct = len(freqs)
	if diag.Characters == 0 {
		diag.Status = StatusEmpty
		return diag
	}

	diag.Status = StatusOK
	for i, e := range freqs.Sorted() {
		if i == 5 {
			break
		}
		diag.TopChars += fmt.Sprintf("%q:%d ", e.Char, e.Count)
	}
	return diag
}

func writeTextReport(path string, diagnostics []SourceDiagnostic) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	statusCount := make(map[string]int)
	for _, d := range diagnostics {
		statusCount[d.Status]++
	}

	fmt.Fprintf(f, "===============================================\n")
	fmt.Fprintf(f, "Source Diagnostic Report\n")
	fmt.Fprintf(f, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(f, "Total Sources: %d\n", len(diagnostics))
	fmt.Fprintf(f, "===============================================\n\n")

	fmt.Fprintf(f, "STATUS BREAKDOWN:\n")
	for _, status := range []string{StatusOK, StatusEmpty, StatusLoadError, StatusCountError, StatusTimeout} {
		fmt.Fprintf(f, "  %s: %d\n", status, statusCount[status])
	}
	fmt.Fprintf(f, "\nDETAILED RESULTS:\n")
	fmt.Fprintf(f, "-------------------------------------------\n")

	for _, d := range diagnostics {
		fmt.Fprintf(f, "Name: %s (%s)\n", d.Name, d.Kind)
		fmt.Fprintf(f, "  Location: %s\n", d.Location)
		fmt.Fprintf(f, "  Status: %s | Response: %dms\n", d.Status, d.ResponseTime)
		if d.Status == StatusOK {
			fmt.Fprintf(f, "  Characters: %d | Distinct: %d\n", d.Characters, d.Distinct)
			fmt.Fprintf(f, "  Top: %s\n", d.TopChars)
		}
		if d.ErrorMessage != "" {
			fmt.Fprintf(f, "  Error: %s\n", d.ErrorMessage)
		}
		fmt.Fprintf(f, "\n")
	}

	log.Printf("Text report generated: %s", path)
	return nil
}

func writeJSONReport(path string, diagnostics []SourceDiagnostic) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(diagnostics); err != nil {
		return err
	}

	log.Printf("JSON report generated: %s", path)
	return nil
}
