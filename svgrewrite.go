package doxyprep

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alnah/go-doxyprep/internal/fileutil"
	"github.com/antchfx/xmlquery"
)

// SVGNamespace is the namespace of diagram elements.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Rewriter defaults.
const (
	DefaultFontMarker = " embedded"
	DefaultLinkTarget = "_top"
)

const outputPermissions = 0o644

// Stats counts the changes made by a rewrite.
type Stats struct {
	DefsRemoved    int
	FontsFixed     int
	SpansCollapsed int
	LinksAdded     int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.DefsRemoved += other.DefsRemoved
	s.FontsFixed += other.FontsFixed
	s.SpansCollapsed += other.SpansCollapsed
	s.LinksAdded += other.LinksAdded
}

// Rewriter cleans generated SVG diagrams and links function labels.
// A Rewriter holds no per-document state and is safe for concurrent use
// as long as its LinkTable is not modified.
type Rewriter struct {
	links      *LinkTable
	fontMarker string
	target     string
}

// NewRewriter creates a Rewriter. Without WithLinkTable no links are added.
func NewRewriter(opts ...Option) *Rewriter {
	rw := &Rewriter{
		fontMarker: DefaultFontMarker,
		target:     DefaultLinkTarget,
	}
	for _, opt := range opts {
		opt(rw)
	}
	return rw
}

// Rewrite reads a diagram from r and writes the cleaned diagram to w.
func (rw *Rewriter) Rewrite(r io.Reader, w io.Writer) error {
	_, err := rw.RewriteWithStats(r, w)
	return err
}

// RewriteWithStats is Rewrite that also reports what changed.
func (rw *Rewriter) RewriteWithStats(r io.Reader, w io.Writer) (Stats, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %v", ErrParseDiagram, err)
	}

	stats, err := rw.RewriteDocument(doc)
	if err != nil {
		return stats, err
	}

	if _, err := io.WriteString(w, doc.OutputXML(true)); err != nil {
		return stats, fmt.Errorf("%w: %v", ErrWriteDiagram, err)
	}
	return stats, nil
}

// RewriteFile rewrites the diagram at inPath into outPath.
// The output is replaced atomically, so inPath and outPath may be equal.
func (rw *Rewriter) RewriteFile(inPath, outPath string) (Stats, error) {
	content, err := os.ReadFile(inPath) // #nosec G304 -- diagram path is user-provided
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrReadDiagram, err)
	}

	var buf bytes.Buffer
	stats, err := rw.RewriteWithStats(bytes.NewReader(content), &buf)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", inPath, err)
	}

	if err := fileutil.WriteFileAtomic(outPath, buf.Bytes(), outputPermissions); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrWriteDiagram, err)
	}
	return stats, nil
}

// RewriteDocument applies the rewrite to an already parsed document in place.
func (rw *Rewriter) RewriteDocument(doc *xmlquery.Node) (Stats, error) {
	root := rootElement(doc)
	if root == nil || root.Data != "svg" {
		return Stats{}, ErrNoDiagramRoot
	}

	var stats Stats
	rw.removeDefs(root, &stats)
	rw.fixFonts(root, &stats)
	rw.rewriteLevel(root, &stats)
	return stats, nil
}

// removeDefs drops the definitions blocks directly under the root.
func (rw *Rewriter) removeDefs(root *xmlquery.Node, stats *Stats) {
	children := childNodes(root)
	kept := make([]*xmlquery.Node, 0, len(children))
	for _, child := range children {
		if isSVGElement(child, "defs") {
			stats.DefsRemoved++
			continue
		}
		kept = append(kept, child)
	}
	setChildren(root, kept)
}

// fixFonts removes the font marker from every font-family attribute, top-down.
func (rw *Rewriter) fixFonts(n *xmlquery.Node, stats *Stats) {
	if rw.fontMarker == "" {
		return
	}
	if n.Type == xmlquery.ElementNode {
		for i := range n.Attr {
			attr := &n.Attr[i]
			if attr.Name.Space != "" || attr.Name.Local != "font-family" {
				continue
			}
			if strings.Contains(attr.Value, rw.fontMarker) {
				attr.Value = strings.ReplaceAll(attr.Value, rw.fontMarker, "")
				stats.FontsFixed++
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		rw.fixFonts(child, stats)
	}
}

// rewriteLevel recurses into nested groups, then collapses and links the
// text elements of this level. The level's child list is rebuilt rather
// than edited while iterating.
func (rw *Rewriter) rewriteLevel(parent *xmlquery.Node, stats *Stats) {
	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		if isSVGElement(child, "g") {
			rw.rewriteLevel(child, stats)
		}
	}

	children := childNodes(parent)
	rebuilt := make([]*xmlquery.Node, 0, len(children))
	for _, child := range children {
		if isSVGElement(child, "text") {
			if label, ok := collapseSpan(child); ok {
				stats.SpansCollapsed++
				if href, found := rw.links.Resolve(label); found {
					child = rw.wrapLink(child, href)
					stats.LinksAdded++
				}
			}
		}
		rebuilt = append(rebuilt, child)
	}
	setChildren(parent, rebuilt)
}

// wrapLink returns a hyperlink element containing text.
func (rw *Rewriter) wrapLink(text *xmlquery.Node, href string) *xmlquery.Node {
	link := &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         "a",
		Prefix:       text.Prefix,
		NamespaceURI: text.NamespaceURI,
		Attr: []xmlquery.Attr{
			{Name: xml.Name{Local: "href"}, Value: href},
			{Name: xml.Name{Local: "target"}, Value: rw.target},
		},
	}
	xmlquery.AddChild(link, text)
	return link
}

// collapseSpan moves the text of a single tspan child into text and drops
// the span. It reports the new label and whether a collapse happened.
func collapseSpan(text *xmlquery.Node) (string, bool) {
	var span *xmlquery.Node
	for child := text.FirstChild; child != nil; child = child.NextSibling {
		if !isSVGElement(child, "tspan") {
			continue
		}
		if span != nil {
			return "", false
		}
		span = child
	}
	if span == nil {
		return "", false
	}

	label := leadingText(span)
	rebuilt := make([]*xmlquery.Node, 0, 2)
	if label != "" {
		rebuilt = append(rebuilt, &xmlquery.Node{Type: xmlquery.TextNode, Data: label})
	}
	for _, child := range childNodes(text) {
		switch {
		case child == span:
		case child.Type == xmlquery.TextNode, child.Type == xmlquery.CharDataNode:
		default:
			rebuilt = append(rebuilt, child)
		}
	}
	setChildren(text, rebuilt)
	return label, true
}

// rootElement returns the first element child of a document node.
func rootElement(doc *xmlquery.Node) *xmlquery.Node {
	if doc == nil {
		return nil
	}
	if doc.Type == xmlquery.ElementNode {
		return doc
	}
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}
	return nil
}

func isSVGElement(n *xmlquery.Node, local string) bool {
	return n.Type == xmlquery.ElementNode && n.Data == local && n.NamespaceURI == SVGNamespace
}

// childNodes snapshots the children of n.
func childNodes(n *xmlquery.Node) []*xmlquery.Node {
	var children []*xmlquery.Node
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	return children
}

// setChildren replaces the children of parent with nodes, in order.
func setChildren(parent *xmlquery.Node, nodes []*xmlquery.Node) {
	parent.FirstChild = nil
	parent.LastChild = nil
	for _, n := range nodes {
		n.PrevSibling = nil
		xmlquery.AddChild(parent, n)
	}
}

// leadingText returns the text of n that precedes its first element child.
func leadingText(n *xmlquery.Node) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(child.Data)
		case xmlquery.ElementNode:
			return b.String()
		}
	}
	return b.String()
}

// firstChildElement returns the first direct element child named local.
func firstChildElement(n *xmlquery.Node, local string) *xmlquery.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == local {
			return child
		}
	}
	return nil
}

// attrValue returns the value of an unqualified attribute and whether it exists.
func attrValue(n *xmlquery.Node, local string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Name.Space == "" && attr.Name.Local == local {
			return attr.Value, true
		}
	}
	return "", false
}
