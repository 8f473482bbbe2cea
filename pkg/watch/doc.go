// Package watch implements `mdnav query --watch`: it watches one markdown
// file with fsnotify and re-runs a callback, debounced, whenever the file
// is written or replaced.
package watch
