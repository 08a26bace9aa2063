package doxyprep

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
)

// Default annotation macro names.
const (
	DefaultIntrospectMarker = "AL_INTROSPECT"
	DefaultAlignedMarker    = "__AL_ALIGNED__"
)

// structKeyword is what an introspection wrapper collapses to.
const structKeyword = "struct"

// Stripper removes annotation macros from source lines so a documentation
// generator sees plain declarations.
type Stripper struct {
	introspect *regexp.Regexp // MARKER(args) struct -> struct, greedy
	aligned    *regexp.Regexp // MARKER(d) -> "", single digit only
}

var defaultStripper = mustStripper()

func mustStripper() *Stripper {
	s, err := NewStripper()
	if err != nil {
		panic(err)
	}
	return s
}

// NewStripper compiles the annotation patterns.
func NewStripper(opts ...StripperOption) (*Stripper, error) {
	cfg := stripperConfig{
		introspectMarker: DefaultIntrospectMarker,
		alignedMarker:    DefaultAlignedMarker,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.introspectMarker == "" || cfg.alignedMarker == "" {
		return nil, ErrEmptyMarker
	}

	return &Stripper{
		introspect: regexp.MustCompile(regexp.QuoteMeta(cfg.introspectMarker) + `[ ]*\(.*\)[ ]*` + structKeyword),
		aligned:    regexp.MustCompile(regexp.QuoteMeta(cfg.alignedMarker) + `[ ]*\(\d\)`),
	}, nil
}

// StripLine applies both rewrites to a single line using the default markers.
func StripLine(line string) string {
	return defaultStripper.StripLine(line)
}

// Strip copies r to w with the default markers. See Stripper.Strip.
func Strip(r io.Reader, w io.Writer) error {
	return defaultStripper.Strip(r, w)
}

// StripLine applies both rewrites to a single line. Line terminators are
// left untouched.
func (s *Stripper) StripLine(line string) string {
	line = s.introspect.ReplaceAllLiteralString(line, structKeyword)
	return s.aligned.ReplaceAllLiteralString(line, "")
}

// Strip copies r to w line by line, stripping annotations. Each line is
// written as soon as it has been read.
func (s *Stripper) Strip(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if _, werr := io.WriteString(w, s.StripLine(line)); werr != nil {
				return fmt.Errorf("%w: %v", ErrWriteOutput, werr)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadSource, err)
		}
	}
}
