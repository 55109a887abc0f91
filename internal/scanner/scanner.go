package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/order-scanner/internal/models"
	"github.com/insightdelivered/order-scanner/internal/parser"
	"github.com/insightdelivered/order-scanner/internal/source"
)

// TextExtractor converts PDF bytes into plain text, best effort.
type TextExtractor interface {
	Text(ctx context.Context, data []byte) string
}

// ProgressFunc is called after each document, from the worker goroutine
// that processed it. done counts finished documents.
type ProgressFunc func(done, total int, doc models.Document)

// Outcome is what happened to one document.
type Outcome struct {
	Document models.Document
	Result   models.ExtractionResult
	// Err is set when the document could not be fetched. Result then only
	// carries the file name.
	Err error
}

// Report collects the outcomes of a scan in listing order.
type Report struct {
	RunID    string
	Folder   string
	Outcomes []Outcome
}

// Results returns every extraction result, matched or not.
func (r *Report) Results() []models.ExtractionResult {
	out := make([]models.ExtractionResult, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		out = append(out, o.Result)
	}
	return out
}

// Matched returns the results that carry an order identifier.
func (r *Report) Matched() []models.ExtractionResult {
	var out []models.ExtractionResult
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Result.Matched() {
			out = append(out, o.Result)
		}
	}
	return out
}

// Unmatched returns the documents that were read but yielded no order identifier.
func (r *Report) Unmatched() []models.ExtractionResult {
	var out []models.ExtractionResult
	for _, o := range r.Outcomes {
		if o.Err == nil && !o.Result.Matched() {
			out = append(out, o.Result)
		}
	}
	return out
}

// Failed returns the outcomes whose document could not be fetched.
func (r *Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Scanner runs the extraction engine over every document of a folder.
type Scanner struct {
	source    source.Source
	extractor TextExtractor
	engine    *parser.Engine
	workers   int
	logger    *zap.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers sets how many documents are processed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithEngine replaces the default extraction engine.
func WithEngine(e *parser.Engine) Option {
	return func(s *Scanner) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Scanner reading from src and converting with ext.
func New(src source.Source, ext TextExtractor, opts ...Option) *Scanner {
	s := &Scanner{
		source:    src,
		extractor: ext,
		engine:    parser.Default(),
		workers:   4,
		logger:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan lists folder and extracts every document. A document that cannot be
// fetched is recorded on its Outcome and does not stop the scan; listing
// errors and cancellation do.
func (s *Scanner) Scan(ctx context.Context, folder string, progress ProgressFunc) (*Report, error) {
	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("folder", folder))

	docs, err := s.source.List(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	logger.Info("scan started", zap.Int("documents", len(docs)), zap.Int("workers", s.workers))

	outcomes := make([]Outcome, len(docs))
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = s.process(gctx, doc, logger)
			if progress != nil {
				progress(int(done.Add(1)), len(docs), doc)
			}
			if errors.Is(outcomes[i].Err, context.Canceled) || errors.Is(outcomes[i].Err, context.DeadlineExceeded) {
				return outcomes[i].Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", folder, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", folder, err)
	}

	report := &Report{RunID: runID, Folder: folder, Outcomes: outcomes}
	logger.Info("scan finished",
		zap.Int("documents", len(docs)),
		zap.Int("matched", len(report.Matched())),
		zap.Int("unmatched", len(report.Unmatched())),
		zap.Int("failed", len(report.Failed())))
	return report, nil
}

func (s *Scanner) process(ctx context.Context, doc models.Document, logger *zap.Logger) Outcome {
	data, err := s.source.Fetch(ctx, doc)
	if err != nil {
		logger.Warn("fetch failed", zap.String("file", doc.Name), zap.Error(err))
		return Outcome{
			Document: doc,
			Result:   models.ExtractionResult{Platform: models.PlatformUnknown, SourceFileName: doc.Name},
			Err:      err,
		}
	}

	text := s.extractor.Text(ctx, data)
	result := s.engine.Extract(text, doc.Name)

	logger.Debug("document processed",
		zap.String("file", doc.Name),
		zap.Int("text_len", len(text)),
		zap.String("platform", string(result.Platform)),
		zap.String("order_id", result.OrderID),
		zap.String("folio", result.Folio))
	return Outcome{Document: doc, Result: result}
}
