package gdocai

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/gardar/redliner/pkg/ocr"
)

type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error)

// Engine is an ocr.Engine backed by a Document AI OCR processor.
type Engine struct {
	cfg     Config
	process processFunc
	close   func() error
}

// NewEngine creates the Document AI client for cfg.
func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	creds := cfg.CredentialsFile
	if creds == "" {
		creds = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	if creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &Engine{
		cfg: cfg,
		process: func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
			return client.ProcessDocument(ctx, req)
		},
		close: client.Close,
	}, nil
}

func (e *Engine) Name() string { return "gdocai" }

// Recognize submits img to the processor and converts the first page of
// the response into blocks.
func (e *Engine) Recognize(ctx context.Context, img image.Image) (*ocr.Pass, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	doc, err := e.ProcessImage(ctx, buf.Bytes(), "image/png")
	if err != nil {
		return nil, err
	}
	if len(doc.GetPages()) == 0 {
		return ocr.PassOf(), nil
	}

	size := img.Bounds().Size()
	page := doc.GetPages()[0]
	return ocr.NewPass(blocksFromPage(page, doc.GetText(), e.cfg.Level, float64(size.X), float64(size.Y))), nil
}

// ProcessImage sends raw image bytes to Document AI and returns the
// document of the response.
func (e *Engine) ProcessImage(ctx context.Context, content []byte, mimeType string) (*documentaipb.Document, error) {
	req := &documentaipb.ProcessRequest{
		Name: e.cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	}

	resp, err := e.process(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	if e.cfg.Dump != nil {
		if js, err := ToJSON(resp.GetDocument()); err == nil {
			fmt.Fprintln(e.cfg.Dump, js)
		}
	}
	return resp.GetDocument(), nil
}

func (e *Engine) Close() error {
	if e.close == nil {
		return nil
	}
	return e.close()
}
