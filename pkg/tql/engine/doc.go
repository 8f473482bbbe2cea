// Package engine evaluates tql queries against a markdown document.
//
// New extracts an immutable Context from a document.Document: headings
// with their section content, and the code, link, image, table and list
// inventories derived by a document.BlockParser and document.LinkExtractor.
// Execute then walks the query AST with stream broadcasting: each
// expression maps one input to zero or more outputs, and a pipeline stage
// runs once per output of the stage before it.
//
//	eng, err := engine.New(doc)
//	results, err := eng.Execute(`.h1 > .h2 | select(.text | contains("api")) | .text`)
//
// Structural misses (out of range indexes, filters that match nothing)
// produce empty results. Unknown functions, wrong arity, unknown
// properties, invalid regular expressions and division by zero abort the
// query with a *errors.Error.
package engine
