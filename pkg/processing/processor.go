package processing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"mdnav-hq/mdnav/pkg/config"
	"mdnav-hq/mdnav/pkg/history"
	"mdnav-hq/mdnav/pkg/markdown"
	"mdnav-hq/mdnav/pkg/telemetry/metrics"
	"mdnav-hq/mdnav/pkg/telemetry/tracing"
	"mdnav-hq/mdnav/pkg/tql/engine"
	tqlerrors "mdnav-hq/mdnav/pkg/tql/errors"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// errorKindInternal labels failures that are not query errors.
const errorKindInternal = "internal"

// Processor runs queries against markdown documents and reports each run to
// metrics, tracing and the history store. All of those are optional.
// It is safe for concurrent use.
type Processor struct {
	parser         *markdown.Parser
	maxQueryLength int
	metrics        *metrics.Collector
	tracer         *tracing.Tracer
	history        history.Store
	logger         *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithMetrics records parse and query metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Processor) { p.metrics = c }
}

// WithTracer wraps each run in a span.
func WithTracer(t *tracing.Tracer) Option {
	return func(p *Processor) { p.tracer = t }
}

// WithHistory records every run in store.
func WithHistory(store history.Store) Option {
	return func(p *Processor) { p.history = store }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// NewProcessor creates a processor with the query settings from cfg.
func NewProcessor(cfg *config.QueryConfig, opts ...Option) *Processor {
	p := &Processor{
		parser:         markdown.New(),
		maxQueryLength: cfg.MaxQueryLength,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "processing")
	return p
}

// Process parses req.Content and runs req.Query against it.
func (p *Processor) Process(ctx context.Context, req *Request) (*Result, error) {
	if err := p.checkQuery(req.Query); err != nil {
		p.record(ctx, req, nil, err, 0)
		return nil, err
	}

	prep, err := p.Prepare(ctx, req.Content, req.Path)
	if err != nil {
		p.record(ctx, req, nil, err, 0)
		return nil, err
	}

	values, queryDuration, err := p.run(ctx, prep.Engine, req)
	if err != nil {
		return nil, err
	}

	return &Result{
		RequestID:     req.RequestID,
		Document:      prep.Document,
		Values:        values,
		ParseDuration: prep.ParseDuration,
		QueryDuration: queryDuration,
	}, nil
}

// Prepare parses content and builds a query engine for it. The engine can
// be reused for any number of Run calls.
func (p *Processor) Prepare(ctx context.Context, content []byte, path string) (*Prepared, error) {
	start := time.Now()

	doc, err := p.parser.Parse(content, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", displayPath(path), err)
	}

	eng, err := engine.New(doc,
		engine.WithBlockParser(p.parser),
		engine.WithLinkExtractor(p.parser),
		engine.WithLogger(p.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", displayPath(path), err)
	}

	elapsed := time.Since(start)
	p.metrics.RecordDocumentParsed(elapsed, len(content))
	p.logger.DebugContext(ctx, "document parsed",
		"document", path,
		"bytes", len(content),
		"headings", len(doc.Headings),
		"duration_ms", elapsed.Milliseconds(),
	)

	return &Prepared{Document: doc, Engine: eng, ParseDuration: elapsed}, nil
}

// Run evaluates req.Query with a prepared document. req.Content is ignored.
func (p *Processor) Run(ctx context.Context, prep *Prepared, req *Request) ([]value.Value, error) {
	if err := p.checkQuery(req.Query); err != nil {
		p.record(ctx, req, nil, err, 0)
		return nil, err
	}
	values, _, err := p.run(ctx, prep.Engine, req)
	return values, err
}

func (p *Processor) run(ctx context.Context, eng *engine.Engine, req *Request) ([]value.Value, time.Duration, error) {
	ctx, span := p.tracer.Start(ctx, "tql.query", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	tracing.SetQueryAttributes(span, req.Query, req.Path)
	tracing.SetRequestID(span, req.RequestID)

	start := time.Now()
	values, err := eng.Execute(req.Query)
	elapsed := time.Since(start)

	if err != nil {
		tracing.SetErrorAttributes(span, err, errorKind(err))
		p.record(ctx, req, nil, err, elapsed)
		return nil, elapsed, err
	}

	tracing.SetResultAttributes(span, "", len(values))
	p.record(ctx, req, values, nil, elapsed)
	return values, elapsed, nil
}

func (p *Processor) checkQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	if p.maxQueryLength > 0 && len(query) > p.maxQueryLength {
		return fmt.Errorf("%w: %d > %d bytes", ErrQueryTooLong, len(query), p.maxQueryLength)
	}
	return nil
}

// record reports one run to metrics and history. A history failure is
// logged and never fails the query.
func (p *Processor) record(ctx context.Context, req *Request, values []value.Value, err error, elapsed time.Duration) {
	var entry *history.Entry
	if p.history != nil {
		entry = history.NewEntry(req.Query, req.Source)
	}

	if err != nil {
		kind := errorKind(err)
		p.metrics.RecordQuery(metrics.StatusError, elapsed, 0)
		p.metrics.RecordQueryError(kind)
		p.logger.DebugContext(ctx, "query failed",
			"request_id", req.RequestID,
			"query", req.Query,
			"kind", kind,
			"error", err,
		)
		if entry != nil {
			entry.Fail(err, kind, elapsed)
		}
	} else {
		p.metrics.RecordQuery(metrics.StatusSuccess, elapsed, len(values))
		p.logger.DebugContext(ctx, "query executed",
			"request_id", req.RequestID,
			"query", req.Query,
			"results", len(values),
			"duration_ms", elapsed.Milliseconds(),
		)
		if entry != nil {
			entry.Succeed(len(values), elapsed)
		}
	}

	if entry == nil {
		return
	}
	if herr := p.history.Record(ctx, entry); herr != nil {
		p.logger.WarnContext(ctx, "failed to record query history", "error", herr)
	}
}

// ErrorKind returns the query error kind for err, or "internal".
func ErrorKind(err error) string {
	return errorKind(err)
}

func errorKind(err error) string {
	if kind := tqlerrors.KindOf(err); kind != "" {
		return string(kind)
	}
	return errorKindInternal
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "<stdin>"
	}
	return path
}
