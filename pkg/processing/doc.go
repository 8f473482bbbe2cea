// Package processing is the query pipeline shared by the CLI, watch mode and
// the HTTP API.
//
// A run parses the markdown source, builds a query engine over it and
// evaluates the query. Each run is observed the same way regardless of
// where it came from:
//
//   - a "tql.query" span with the query, document and result count
//   - query and document parse metrics
//   - a history entry with the outcome, when a store is configured
//
// # Usage
//
//	p := processing.NewProcessor(&cfg.Query,
//	    processing.WithMetrics(collector),
//	    processing.WithHistory(store),
//	)
//	res, err := p.Process(ctx, &processing.Request{
//	    Content: source,
//	    Path:    "README.md",
//	    Query:   ".h2 | .text",
//	    Source:  processing.SourceCLI,
//	})
//
// Watch mode calls Prepare once per file change and Run with the prepared
// engine.
package processing
