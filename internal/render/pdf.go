package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Printer turns an HTML page into PDF bytes
type Printer interface {
	Print(ctx context.Context, html string) ([]byte, error)
}

// PDFRenderer renders the HTML document and prints it with a Printer
type PDFRenderer struct {
	html    *HTMLRenderer
	printer Printer
	logger  *zap.Logger
}

func NewPDFRenderer(html *HTMLRenderer, printer Printer, logger *zap.Logger) *PDFRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{html: html, printer: printer, logger: logger}
}

func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, doc Document, opts Options) error {
	var page bytes.Buffer
	if err := r.html.Render(ctx, &page, doc, opts); err != nil {
		return err
	}

	r.logger.Debug("printing pdf",
		zap.Int("html_bytes", page.Len()),
		zap.String("theme", opts.Theme.Name),
		zap.Bool("mobile", opts.Mobile))

	pdf, err := r.printer.Print(ctx, page.String())
	if err != nil {
		return fmt.Errorf("failed to print pdf: %w", err)
	}
	if _, err := w.Write(pdf); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// ChromePrinter prints through a headless Chrome or Chromium. If Bin is empty, rod looks up a
// local browser and downloads one when none is found.
type ChromePrinter struct {
	Bin string
}

func (p ChromePrinter) Print(ctx context.Context, html string) ([]byte, error) {
	l := launcher.New().Headless(true).Context(ctx)
	if p.Bin != "" {
		l = l.Bin(p.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for document: %w", err)
	}

	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print page: %w", err)
	}
	defer stream.Close()

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf stream: %w", err)
	}
	return pdf, nil
}
