package engine

import (
	"fmt"
	"log/slog"
	"time"

	"mdnav-hq/mdnav/pkg/document"
	"mdnav-hq/mdnav/pkg/markdown"
	"mdnav-hq/mdnav/pkg/tql/ast"
	"mdnav-hq/mdnav/pkg/tql/functions"
	"mdnav-hq/mdnav/pkg/tql/parser"
	"mdnav-hq/mdnav/pkg/tql/value"
)

// Engine evaluates queries against one document. The context is extracted
// once in New and shared read-only by every Execute call, so an Engine may
// be used from several goroutines.
type Engine struct {
	ctx      *Context
	registry *functions.Registry
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	registry *functions.Registry
	blocks   document.BlockParser
	links    document.LinkExtractor
	logger   *slog.Logger
}

// WithRegistry replaces the default built-in registry.
func WithRegistry(r *functions.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithBlockParser sets the parser used to derive code, image, table and
// list inventories.
func WithBlockParser(p document.BlockParser) Option {
	return func(o *options) { o.blocks = p }
}

// WithLinkExtractor sets the extractor used to derive the link inventory.
func WithLinkExtractor(x document.LinkExtractor) Option {
	return func(o *options) { o.links = x }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds the evaluation context for doc. Unless overridden, blocks and
// links come from the goldmark-backed markdown parser.
func New(doc *document.Document, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = functions.Default()
	}
	if o.blocks == nil || o.links == nil {
		md := markdown.New()
		if o.blocks == nil {
			o.blocks = md
		}
		if o.links == nil {
			o.links = md
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	ctx, err := NewContext(doc, o.blocks, o.links)
	if err != nil {
		return nil, fmt.Errorf("building context for %q: %w", doc.Path, err)
	}

	logger := o.logger.With("component", "tql.engine")
	if fmErr := ctx.FrontMatterError(); fmErr != nil {
		logger.Warn("invalid front matter, exposing it as raw text",
			"document", doc.Path,
			"error", fmErr,
		)
	}

	return &Engine{
		ctx:      ctx,
		registry: o.registry,
		logger:   logger,
	}, nil
}

// Context returns the evaluation context.
func (e *Engine) Context() *Context {
	return e.ctx
}

// Execute parses and evaluates query. The result is never nil; an empty
// slice means nothing matched.
func (e *Engine) Execute(query string) ([]value.Value, error) {
	q, err := parser.Parse(query)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(q)
}

// Evaluate runs an already parsed query. Each top-level expression is
// evaluated independently against the document and the results are
// concatenated.
func (e *Engine) Evaluate(q *ast.Query) ([]value.Value, error) {
	start := time.Now()
	ev := &evaluator{ctx: e.ctx, registry: e.registry}

	results := []value.Value{}
	root := value.Value(e.ctx.Document())
	for _, expr := range q.Expressions {
		out, err := ev.eval(expr, root)
		if err != nil {
			e.logger.Debug("query failed",
				"query", q.Source,
				"error", err,
				"duration", time.Since(start),
			)
			return nil, err
		}
		results = append(results, out...)
	}

	e.logger.Debug("query executed",
		"query", q.Source,
		"results", len(results),
		"duration", time.Since(start),
	)
	return results, nil
}
