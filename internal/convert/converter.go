package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/pdf2docx/internal/assembler"
	"github.com/dgallion1/pdf2docx/internal/config"
	"github.com/dgallion1/pdf2docx/internal/document"
	"github.com/dgallion1/pdf2docx/internal/extractor"
	"github.com/dgallion1/pdf2docx/internal/segment"
)

// ErrBusy is returned by Submit while a conversion is in flight. Only one
// conversion runs at a time; there is no queue and no cancellation.
var ErrBusy = errors.New("a conversion is already in progress")

// Converter runs conversions: extract pages, segment each page into
// paragraphs, assemble the .docx.
type Converter struct {
	jobs *JobStore
	log  *slog.Logger
	cfg  config.Config
	seg  segment.Segmenter

	busy   atomic.Bool
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConverter creates the converter.
func NewConverter(cfg config.Config, log *slog.Logger) *Converter {
	return &Converter{
		jobs: NewJobStore(cfg.JobTTL),
		log:  log,
		cfg:  cfg,
		seg:  segment.Segmenter{MaxParagraphChars: cfg.MaxParagraphChars},
	}
}

// Start launches the job store cleanup loop.
func (c *Converter) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				c.jobs.Cleanup()
			}
		}
	}()
}

// Stop waits for the in-flight conversion, if any, and the cleanup loop.
func (c *Converter) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Submit accepts a job unless a conversion is already running.
func (c *Converter) Submit(job *Job) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	c.jobs.Put(job)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.busy.Store(false)
		c.process(job)
	}()
	return nil
}

// GetJob returns a job by ID.
func (c *Converter) GetJob(id string) *Job {
	return c.jobs.Get(id)
}

// process runs the full conversion for a job. Every failure is terminal for
// the attempt: the job fails with the collaborator's message and no result
// is produced.
func (c *Converter) process(job *Job) {
	log := c.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Extract
	job.SetStatus(StatusExtracting, "extracting pages")
	ex, err := extractor.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail(err.Error())
		return
	}
	if pdfEx, ok := ex.(*extractor.PDFExtractor); ok {
		pdfEx.FallbackPdftotext = c.cfg.PDFFallbackPdftotext
	}

	pages, err := ex.Extract(bytes.NewReader(job.FileData()), job.Filename, job.SetExtracting)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.Fail(fmt.Sprintf("extract: %s", err))
		return
	}
	log.Info("extracted pages", "pages", len(pages))

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting paragraphs")
	doc := BuildDocument(job.Filename, pages, c.seg, job.PageBreaks)
	total := 0
	for _, page := range doc.Pages {
		total += len(page.Paragraphs)
	}
	job.SetParagraphs(total)
	log.Info("segmented document", "pages", len(doc.Pages), "paragraphs", total)

	// Phase 3: Assemble
	job.SetStatus(StatusAssembling, "assembling document")
	data, err := assembler.BuildDOCX(doc)
	if err != nil {
		log.Error("assembly failed", "error", err)
		job.Fail(fmt.Sprintf("assemble: %s", err))
		return
	}

	job.SetResult(data)
	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete", "bytes", len(data))
}

// BuildDocument segments each page's text into paragraphs. Page break flags
// are set only between consecutive pages, never after the last.
func BuildDocument(filename string, pages []string, seg segment.Segmenter, pageBreaks bool) *document.Document {
	doc := &document.Document{
		Title: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
	}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, document.Page{
			Number:     i + 1,
			Paragraphs: seg.Segment(text),
			BreakAfter: pageBreaks && i < len(pages)-1,
		})
	}
	return doc
}

// OutputName maps a source filename to its .docx download name.
func OutputName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "converted"
	}
	return base + ".docx"
}
