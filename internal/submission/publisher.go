package submission

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/autoapply/internal/export"
	"github.com/jonathan/autoapply/internal/storage"
	"github.com/jonathan/autoapply/internal/types"
	"golang.org/x/sync/errgroup"
)

// Artifacts are the download URLs of a published resume.
type Artifacts struct {
	PDFURL  string
	DOCXURL string
}

// ArtifactPublisher produces the downloadable files of an optimized resume.
type ArtifactPublisher interface {
	Publish(ctx context.Context, id uuid.UUID, resume *types.ResumeDocument) (Artifacts, error)
	// Unpublish removes what Publish produced for id.
	Unpublish(ctx context.Context, id uuid.UUID) error
}

// ArtifactKey is the object key of one artifact of an optimized resume.
func ArtifactKey(id uuid.UUID, ext string) string {
	return fmt.Sprintf("optimized-resumes/%s/resume.%s", id, ext)
}

// PlaceholderPublisher synthesizes URLs under a base URL without rendering
// anything. The files are expected to be produced downstream.
type PlaceholderPublisher struct {
	BaseURL string
}

// Publish implements ArtifactPublisher.
func (p PlaceholderPublisher) Publish(_ context.Context, id uuid.UUID, _ *types.ResumeDocument) (Artifacts, error) {
	base := strings.TrimRight(p.BaseURL, "/")
	return Artifacts{
		PDFURL:  base + "/" + ArtifactKey(id, "pdf"),
		DOCXURL: base + "/" + ArtifactKey(id, "docx"),
	}, nil
}

// Unpublish implements ArtifactPublisher. Nothing was stored.
func (PlaceholderPublisher) Unpublish(context.Context, uuid.UUID) error { return nil }

// PDFRenderer renders a resume to PDF bytes.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, resume *types.ResumeDocument) ([]byte, error)
}

// StoragePublisher renders the PDF and DOCX concurrently and uploads both to
// object storage.
type StoragePublisher struct {
	store      storage.ObjectStore
	pdf        PDFRenderer
	renderDOCX func(*types.ResumeDocument) ([]byte, error)
}

// NewStoragePublisher creates a StoragePublisher using export.RenderDOCX.
func NewStoragePublisher(store storage.ObjectStore, pdf PDFRenderer) *StoragePublisher {
	return &StoragePublisher{store: store, pdf: pdf, renderDOCX: export.RenderDOCX}
}

const (
	contentTypePDF  = "application/pdf"
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Publish implements ArtifactPublisher. Either artifact failing fails both,
// and an artifact already uploaded is deleted again.
func (p *StoragePublisher) Publish(ctx context.Context, id uuid.UUID, resume *types.ResumeDocument) (Artifacts, error) {
	var (
		out      Artifacts
		mu       sync.Mutex
		uploaded []string
	)
	put := func(gctx context.Context, ext, contentType string, data []byte) (string, error) {
		key := ArtifactKey(id, ext)
		url, err := p.store.Put(gctx, key, contentType, data)
		if err != nil {
			return "", err
		}
		mu.Lock()
		uploaded = append(uploaded, key)
		mu.Unlock()
		return url, nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := p.pdf.RenderPDF(gctx, resume)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
		url, err := put(gctx, "pdf", contentTypePDF, data)
		if err != nil {
			return err
		}
		out.PDFURL = url
		return nil
	})

	g.Go(func() error {
		data, err := p.renderDOCX(resume)
		if err != nil {
			return fmt.Errorf("failed to render DOCX: %w", err)
		}
		url, err := put(gctx, "docx", contentTypeDOCX, data)
		if err != nil {
			return err
		}
		out.DOCXURL = url
		return nil
	})

	if err := g.Wait(); err != nil {
		p.deleteKeys(ctx, uploaded)
		return Artifacts{}, err
	}
	log.Printf("[submission] published artifacts for %s", id)
	return out, nil
}

// Unpublish implements ArtifactPublisher.
func (p *StoragePublisher) Unpublish(ctx context.Context, id uuid.UUID) error {
	return p.deleteKeys(ctx, []string{ArtifactKey(id, "pdf"), ArtifactKey(id, "docx")})
}

// deleteKeys attempts every key and returns the first failure.
func (p *StoragePublisher) deleteKeys(ctx context.Context, keys []string) error {
	var first error
	for _, key := range keys {
		if err := p.store.Delete(ctx, key); err != nil {
			log.Printf("[submission] warning: failed to delete artifact %s: %v", key, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
