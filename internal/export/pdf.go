package export

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/autoapply/internal/types"
)

// DefaultPDFTimeout bounds a single headless-browser render.
const DefaultPDFTimeout = 60 * time.Second

// PDFRenderer prints resumes to PDF with headless Chrome.
// Requires Chrome/Chromium to be installed on the system.
type PDFRenderer struct {
	// ExecPath overrides the browser binary; CHROME_PATH is used when empty.
	ExecPath string
	Timeout  time.Duration
}

// NewPDFRenderer creates a renderer with the default timeout.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{ExecPath: os.Getenv("CHROME_PATH"), Timeout: DefaultPDFTimeout}
}

// RenderPDF renders the resume as an A4 PDF.
func (r *PDFRenderer) RenderPDF(ctx context.Context, resume *types.ResumeDocument) ([]byte, error) {
	html, err := RenderHTML(resume)
	if err != nil {
		return nil, err
	}
	return r.PrintHTML(ctx, html)
}

// PrintHTML prints an HTML page to PDF.
func (r *PDFRenderer) PrintHTML(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to create temp dir", Cause: err}
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to write HTML", Cause: err}
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Format: "pdf", Message: "browser rendering failed", Cause: err}
	}

	log.Printf("[export] rendered PDF: %d bytes", len(pdf))
	return pdf, nil
}
