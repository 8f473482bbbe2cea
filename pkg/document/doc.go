// Package document defines the parsed markdown snapshot consumed by the
// query engine and the block and link inventories derived from it.
package document
