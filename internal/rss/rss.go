// Package rss parses RSS documents far enough to read a channel's
// podcast namespace metadata and its remoteItem pointers.
package rss

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoChannel is returned when a document has no channel element.
var ErrNoChannel = errors.New("rss: document has no channel")

// Document is a parsed RSS channel.
type Document struct {
	Title       string
	Link        string
	Description string
	GUID        string // podcast:guid
	Medium      string // podcast:medium

	remoteItems []element
}

// element is a generic XML element: its attributes, its own text and its
// direct children.
type element struct {
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []element  `xml:",any"`

	XMLName xml.Name
}

type channel struct {
	Title       string    `xml:"title"`
	Links       []element `xml:"link"`
	Description string    `xml:"description"`
	GUID        string    `xml:"guid"`
	Medium      string    `xml:"medium"`
	RemoteItems []element `xml:"remoteItem"`
}

// Parse reads an RSS document and returns its first channel.
//
// The channel may be the root element or be nested in rss. Namespace
// prefixes are ignored, so podcast:remoteItem and remoteItem are the
// same element.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		// Feeds routinely declare ISO-8859-1 or windows-1252 while
		// sending ASCII guids; pass the bytes through.
		return input, nil
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, ErrNoChannel
		}
		if err != nil {
			return nil, fmt.Errorf("rss: failed to parse document: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "channel" {
			continue
		}

		var ch channel
		if err := dec.DecodeElement(&ch, &start); err != nil {
			return nil, fmt.Errorf("rss: failed to parse channel: %w", err)
		}

		return &Document{
			Title:       strings.TrimSpace(ch.Title),
			Link:        channelLink(ch.Links),
			Description: strings.TrimSpace(ch.Description),
			GUID:        strings.TrimSpace(ch.GUID),
			Medium:      strings.TrimSpace(ch.Medium),
			remoteItems: ch.RemoteItems,
		}, nil
	}
}

// channelLink returns the text of the first un-namespaced link element,
// falling back to the first link with any text. atom:link carries its URL
// in href and never wins over the channel's own link.
func channelLink(links []element) string {
	fallback := ""
	for _, l := range links {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if l.XMLName.Space == "" {
			return text
		}
		if fallback == "" {
			fallback = text
		}
	}
	return fallback
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}
