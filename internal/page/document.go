package page

import (
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// newDocument parses an HTML body into UTF-8. The charset comes from
// contentType, or is sniffed from the markup when contentType names none.
// An empty contentType means the body is already UTF-8 (rendered DOM).
// location becomes the base URL.
func newDocument(body io.Reader, contentType, location string) (*goquery.Document, error) {
	if contentType != "" {
		if r, err := charset.NewReader(body, contentType); err == nil {
			body = r
		}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	if location != "" {
		if u, err := url.Parse(location); err == nil {
			doc.Url = u
		}
	}
	return doc, nil
}
