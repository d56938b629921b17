// redline is a command-line tool for redlining loop drawings.
//
// It renders the first page of a drawing, recognizes the text of the title
// block region, finds the FCS markers and node labels and writes a copy of
// the drawing with the renumbered values, connector lines and a stamp on a
// separate layer. Pages are turned by 90 degrees and searched again when
// nothing is found, up to the configured number of rotations.
//
// Usage:
//
//	redline -pdf drawing.pdf [options]
//	redline -url https://host/drawing.pdf [options]
//	redline -batch jobs.yaml -report report.yaml [options]
//
// Input options (one required):
//
//	-pdf string       Path to the drawing to redline
//	-url string       URL of the drawing to redline
//	-batch string     YAML list of jobs (doc_number, name, link)
//
// Output options:
//
//	-output string    Output PDF path (default <input>_annotated.pdf)
//	-out-dir string   Output directory of batch jobs
//	-report string    Path to save the batch report as YAML
//	-overwrite        Overwrite the output file if it exists
//
// Processing options:
//
//	-config string    Path to a YAML configuration file
//	-format string    Drawing format, "current" or "legacy"
//	-dpi int          Rendering resolution
//	-retries int      Number of 90 degree rotations to try (0 to 3)
//	-node-only        Accept a page with node labels but no FCS marker
//	-debug-dir string Directory to save the intermediate images
//	-debug-api string Path to save the raw Document AI responses
//	-debug            Enable debug mode (outlines text boxes)
//	-force            Redline even if a redline layer already exists
//
// OCR engines are selected in the configuration file:
//
//	ocr:
//	  engine: gdocai
//	  gdocai:
//	    project_id: "your-gcp-project-id"
//	    location: "us"
//	    processor_id: "your-processor-id"
//
// Variables from a .env file in the working directory are loaded before the
// configuration, so GOOGLE_APPLICATION_CREDENTIALS may be set there.
//
// Example:
//
//	redline -pdf 4711.pdf -format legacy -debug-dir ./debug
//	redline -config redline.yml -batch jobs.yaml -out-dir ./pdfs -report report.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/gardar/redliner/pkg/ocr"
	"github.com/gardar/redliner/pkg/rederr"
	"github.com/gardar/redliner/pkg/redline"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	pdfPath := flag.String("pdf", "", "Path to the drawing to redline")
	pdfURL := flag.String("url", "", "URL of the drawing to redline")
	batchPath := flag.String("batch", "", "YAML list of jobs to redline")
	outputPath := flag.String("output", "", "Output PDF path (default <input>_annotated.pdf)")
	outDir := flag.String("out-dir", "", "Output directory of batch jobs")
	reportPath := flag.String("report", "", "Path to save the batch report as YAML")
	overwriteOutput := flag.Bool("overwrite", false, "Overwrite the output PDF if it already exists")
	format := flag.String("format", "", "Drawing format: current or legacy")
	dpi := flag.Int("dpi", 0, "Rendering resolution")
	retries := flag.Int("retries", -1, "Number of 90 degree rotations to try (0 to 3)")
	nodeOnly := flag.Bool("node-only", false, "Accept a page with node labels but no FCS marker")
	debugDir := flag.String("debug-dir", "", "Directory to save the intermediate images")
	debugAPIPath := flag.String("debug-api", "", "Path to save the raw Document AI responses")
	debug := flag.Bool("debug", false, "Enable debug mode")
	force := flag.Bool("force", false, "Redline even if a redline layer is already detected")
	flag.Parse()

	inputs := 0
	for _, v := range []string{*pdfPath, *pdfURL, *batchPath} {
		if v != "" {
			inputs++
		}
	}
	if inputs != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -pdf, -url or -batch must be provided")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *batchPath == "" && *reportPath != "" {
		fmt.Println("Warning: -report is only applicable with -batch. Ignoring -report.")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	cfg := redline.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = redline.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *format != "" {
		cfg.Format = *format
	}
	if *dpi > 0 {
		cfg.DPI = *dpi
	}
	if *retries >= 0 {
		cfg.RotationRetries = retries
	}
	if *nodeOnly {
		cfg.RequireMarker = false
	}
	if *debugDir != "" {
		cfg.DebugDir = *debugDir
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Force = cfg.Force || *force

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var dump io.Writer
	if *debugAPIPath != "" {
		f, err := os.Create(*debugAPIPath)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *debugAPIPath, err)
		}
		defer f.Close()
		dump = f
	}

	engine, err := ocr.Init(func() (ocr.Engine, error) {
		return newEngine(ctx, cfg.OCR, cfg.DPI, dump)
	})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer engine.Close()

	session, err := redline.NewSession(cfg, engine)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *batchPath != "" {
		jobs, err := redline.LoadJobs(*batchPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("Found %d jobs in %s\n", len(jobs), *batchPath)
		reports, err := session.RunBatch(ctx, jobs, *outDir)
		if err != nil {
			log.Fatalf("%v", err)
		}
		failed := 0
		for _, r := range reports {
			if !r.Outcome.Success() {
				failed++
			}
			fmt.Printf("%s\t%s\n", r.DocNumber, r.Result)
		}
		if *reportPath != "" {
			if err := redline.WriteReport(*reportPath, reports); err != nil {
				log.Fatalf("Failed to write report: %v", err)
			}
		}
		fmt.Printf("%d of %d documents redlined\n", len(reports)-failed, len(reports))
		return
	}

	source := *pdfPath
	if source == "" {
		source = *pdfURL
	}
	output := *outputPath
	if output == "" {
		output = redline.AnnotatedPath(source)
	}
	if _, err := os.Stat(output); err == nil {
		if !*overwriteOutput {
			fmt.Printf("Output file %s already exists. Use -overwrite to overwrite.\n", output)
			os.Exit(1)
		}
	}

	outcome, err := session.MakeRedline(ctx, source, output)
	if err != nil {
		if errors.Is(err, rederr.ErrAlreadyAnnotated) {
			fmt.Println("Skipped:", outcome.Status)
			return
		}
		fmt.Printf("Failed to redline %s: %s\n", source, outcome.Status)
		os.Exit(1)
	}
	fmt.Println("Redlined PDF created:", outcome.Output)
}
