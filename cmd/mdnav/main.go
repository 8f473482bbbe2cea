// mdnav queries markdown documents with a jq-like language.
//
// It selects headings, code blocks, links, images, tables and lists, scopes
// them by section, and pipes the results through built-in functions:
//
//	# Second-level headings of a README
//	mdnav query README.md '.h2 | .text'
//
//	# Every bash snippet under the "Install" section
//	mdnav q README.md '.h2["Install"] >> .code[bash]' --format md
//
//	# Re-run on every save
//	mdnav q notes.md '.link[external] | .url' --watch
//
//	# Check a query without running it
//	mdnav lint '.h2 | lenght'
//
//	# Serve the query API
//	mdnav serve --config mdnav.yaml
package main

func main() {
	Execute()
}
