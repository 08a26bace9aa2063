package doxyprep

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithLinkTable sets the table used to turn function names into hyperlinks.
// A nil table disables linking.
func WithLinkTable(t *LinkTable) Option {
	return func(rw *Rewriter) {
		rw.links = t
	}
}

// WithFontMarker sets the substring removed from font-family values.
// An empty marker disables the font fix-up.
func WithFontMarker(marker string) Option {
	return func(rw *Rewriter) {
		rw.fontMarker = marker
	}
}

// WithLinkTarget sets the browsing context of generated hyperlinks.
func WithLinkTarget(target string) Option {
	if target == "" {
		panic("doxyprep: WithLinkTarget target must not be empty")
	}
	return func(rw *Rewriter) {
		rw.target = target
	}
}

// LinkTableOption configures link table construction.
type LinkTableOption func(*linkTableConfig)

type linkTableConfig struct {
	prefix string
	format IndexFormat
}

// WithLinkPrefix sets the prefix a list item must start with to be registered.
func WithLinkPrefix(prefix string) LinkTableOption {
	return func(c *linkTableConfig) {
		c.prefix = prefix
	}
}

// WithIndexFormat selects the parser used for the index document.
func WithIndexFormat(format IndexFormat) LinkTableOption {
	return func(c *linkTableConfig) {
		c.format = format
	}
}

// StripperOption configures a Stripper.
type StripperOption func(*stripperConfig)

type stripperConfig struct {
	introspectMarker string
	alignedMarker    string
}

// WithIntrospectMarker sets the macro name that wraps struct declarations.
func WithIntrospectMarker(marker string) StripperOption {
	return func(c *stripperConfig) {
		c.introspectMarker = marker
	}
}

// WithAlignedMarker sets the alignment attribute macro name.
func WithAlignedMarker(marker string) StripperOption {
	return func(c *stripperConfig) {
		c.alignedMarker = marker
	}
}
