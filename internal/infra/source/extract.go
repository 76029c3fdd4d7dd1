package source

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

// articleText extracts the main article of an HTML page. Pages on which
// readability finds nothing fall back to the body text.
func articleText(body []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		if text := normalizeSpace(article.TextContent); text != "" {
			return text, nil
		}
	}
	return bodyText(body)
}

// bodyText returns the visible text of the page body.
func bodyText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	text := normalizeSpace(doc.Find("body").Text())
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

// feedText parses an RSS, Atom or JSON feed and returns the title and the
// content (or description) of each item, one per line, with markup removed.
func feedText(body []byte) (string, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	lines := make([]string, 0, 2*len(feed.Items))
	for _, item := range feed.Items {
		if title := stripMarkup(item.Title); title != "" {
			lines = append(lines, title)
		}
		content := item.Content
		if content == "" {
			content = item.Description
		}
		if text := stripMarkup(content); text != "" {
			lines = append(lines, text)
		}
	}
	if len(lines) == 0 {
		return "", ErrNoContent
	}
	return strings.Join(lines, "\n"), nil
}

// stripMarkup returns the text of an HTML fragment. Plain text passes
// through unchanged apart from whitespace.
func stripMarkup(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return normalizeSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return normalizeSpace(fragment)
	}
	return normalizeSpace(doc.Text())
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
