// Package types defines the request and response bodies of the mdnav HTTP
// API, shared by the server handlers and middleware.
package types
