// Package markdown parses markdown documents with goldmark.
//
// Parser produces the document.Document snapshot the query engine reads
// (content, front matter and top-level headings) and implements the two
// extraction contracts the engine re-runs over the content:
//
//   - ParseBlocks returns code blocks, tables, lists, images, blockquotes
//     and <details> elements as a tree, nested containers included.
//   - ExtractLinks returns inline, auto, wiki and HTML links with their
//     link type.
//
// A leading "---" YAML front matter block is blanked out before block
// parsing so offsets and line numbers always refer to the original content.
package markdown
