package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MondainMessiah/daily-boss-checker/internal/models"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Locate finds the first element whose id equals anchor, in document order,
// and decodes its text content as JSON.
func Locate(doc models.RawDocument, anchor string) (any, error) {
	r, err := charset.NewReader(bytes.NewReader(doc.Body), doc.ContentType)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	page, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	block := page.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		id, _ := s.Attr("id")
		return id == anchor
	}).First()
	if block.Length() == 0 {
		return nil, ErrAnchorNotFound{Anchor: anchor}
	}

	raw := strings.TrimSpace(block.Text())
	if raw == "" {
		return nil, ErrPayloadMalformed{Anchor: anchor, Err: errors.New("empty content")}
	}

	// numbers stay json.Number so one out-of-range chance only drops its record
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, ErrPayloadMalformed{Anchor: anchor, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrPayloadMalformed{Anchor: anchor, Err: errors.New("unexpected data after JSON value")}
	}
	return payload, nil
}
