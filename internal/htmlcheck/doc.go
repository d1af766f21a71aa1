// Package htmlcheck performs structural sanity checks on model output. It
// never parses or rewrites HTML; it only decides whether the text plausibly
// is a complete document before it is handed back to the caller.
package htmlcheck
