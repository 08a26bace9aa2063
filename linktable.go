package doxyprep

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// DefaultLinkPrefix is the prefix of documented function names in the index.
const DefaultLinkPrefix = "AL_"

// IndexFormat selects how the index document is parsed.
type IndexFormat string

// Supported index formats.
const (
	IndexXHTML IndexFormat = "xhtml" // well-formed XHTML, malformed input is an error
	IndexHTML  IndexFormat = "html"  // HTML5, parsed leniently
)

// ParseIndexFormat converts a user-supplied name into an IndexFormat.
// An empty name selects IndexXHTML.
func ParseIndexFormat(name string) (IndexFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(IndexXHTML):
		return IndexXHTML, nil
	case string(IndexHTML):
		return IndexHTML, nil
	default:
		return "", fmt.Errorf("%w: %q (must be xhtml or html)", ErrInvalidIndexFormat, name)
	}
}

// listItemExpr selects every list item regardless of namespace.
var listItemExpr = xpath.MustCompile("//*[local-name()='li']")

// LinkTable maps function names to documentation URLs.
// It is built once and only read afterwards. The zero value and a nil
// *LinkTable are both empty tables.
type LinkTable struct {
	links map[string]string
}

// NewLinkTable returns an empty table.
func NewLinkTable() *LinkTable {
	return &LinkTable{links: make(map[string]string)}
}

// Add registers href under name. A later Add with the same name wins.
func (t *LinkTable) Add(name, href string) {
	if t.links == nil {
		t.links = make(map[string]string)
	}
	t.links[name] = href
}

// Lookup returns the URL registered for name.
func (t *LinkTable) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	href, ok := t.links[name]
	return href, ok
}

// Resolve finds the URL for the text of a diagram label.
// The exact text is tried first, then the text with its signature stripped
// ("AL_Foo(int)" resolves through "AL_Foo").
func (t *LinkTable) Resolve(text string) (string, bool) {
	if href, ok := t.Lookup(text); ok {
		return href, true
	}
	name, _, found := strings.Cut(text, "(")
	if !found {
		return "", false
	}
	return t.Lookup(strings.TrimSpace(name))
}

// Len returns the number of entries.
func (t *LinkTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.links)
}

// Names returns the registered names in sorted order.
func (t *LinkTable) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.links))
	for name := range t.links {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadLinkTable builds a table from the index document at path.
func LoadLinkTable(path string, opts ...LinkTableOption) (*LinkTable, error) {
	if path == "" {
		return nil, ErrEmptyIndexPath
	}

	f, err := os.Open(path) // #nosec G304 -- index path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadIndex, err)
	}
	defer func() { _ = f.Close() }()

	table, err := BuildLinkTable(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// BuildLinkTable extracts function links from an index document.
//
// Every list item whose leading text starts with the link prefix and whose
// first direct hyperlink child carries an href becomes an entry keyed by the
// text before the first parenthesis. Other list items are ignored.
func BuildLinkTable(r io.Reader, opts ...LinkTableOption) (*LinkTable, error) {
	cfg := linkTableConfig{prefix: DefaultLinkPrefix, format: IndexXHTML}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch cfg.format {
	case IndexXHTML:
		return buildFromXHTML(r, cfg.prefix)
	case IndexHTML:
		return buildFromHTML(r, cfg.prefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidIndexFormat, cfg.format)
	}
}

func buildFromXHTML(r io.Reader, prefix string) (*LinkTable, error) {
	doc, err := xmlquery.ParseWithOptions(r, xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict: true,
			Entity: xml.HTMLEntity,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseIndex, err)
	}

	table := NewLinkTable()
	for _, li := range xmlquery.QuerySelectorAll(doc, listItemExpr) {
		name := leadingText(li)
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		a := firstChildElement(li, "a")
		if a == nil {
			continue
		}
		if href, ok := attrValue(a, "href"); ok {
			table.Add(functionName(name), href)
		}
	}
	return table, nil
}

func buildFromHTML(r io.Reader, prefix string) (*LinkTable, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseIndex, err)
	}

	table := NewLinkTable()
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			registerHTMLItem(table, n, prefix)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return table, nil
}

func registerHTMLItem(table *LinkTable, li *html.Node, prefix string) {
	var b strings.Builder
	var link *html.Node
	leading := true
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if leading {
				b.WriteString(c.Data)
			}
		case html.ElementNode:
			leading = false
			if link == nil && c.Data == "a" {
				link = c
			}
		}
	}

	name := b.String()
	if !strings.HasPrefix(name, prefix) || link == nil {
		return
	}
	for _, attr := range link.Attr {
		if attr.Namespace == "" && attr.Key == "href" {
			table.Add(functionName(name), attr.Val)
			return
		}
	}
}

// functionName strips the signature from an index entry.
func functionName(text string) string {
	name, _, _ := strings.Cut(text, "(")
	return name
}
