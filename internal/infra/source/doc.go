// Package source loads the text of configured sources.
//
// Local files are read directly. Network sources (url, html, feed) are
// fetched over HTTP through a shared rate limiter, a per-kind circuit
// breaker and retry with backoff, and are reduced to plain text:
//
//   - url: the main article, extracted with go-readability
//   - html: the visible text of the page body
//   - feed: item titles and contents of an RSS, Atom or JSON feed
package source
