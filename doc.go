// Package doxyprep post-processes doxygen output and pre-processes the C
// sources doxygen reads.
//
// # Diagram Links
//
// Doxygen renders call and inheritance graphs as SVG with embedded fonts and
// plain-text function labels. A Rewriter drops the embedded font definitions,
// removes the " embedded" suffix from font-family values and turns each
// function label into a hyperlink to its documentation page:
//
//	links, err := doxyprep.LoadLinkTable("html/globals_func.html")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rw := doxyprep.NewRewriter(doxyprep.WithLinkTable(links))
//	stats, err := rw.RewriteFile("html/graph.svg", "html/graph.svg")
//
// The LinkTable is built once from the functions index page and is only read
// afterwards, so a single Rewriter can be shared across goroutines.
//
// Labels are matched exactly first, then by the name before the argument
// list, so "AL_Foo(int)" links to the entry for "AL_Foo".
//
// # Index Formats
//
// The index page is parsed as XHTML by default, which is what doxygen writes.
// Pages that are not well-formed XML can be read with the lenient HTML
// parser:
//
//	links, err := doxyprep.LoadLinkTable(path,
//	    doxyprep.WithIndexFormat(doxyprep.IndexHTML),
//	    doxyprep.WithLinkPrefix("AL_"),
//	)
//
// # Annotation Stripping
//
// A Stripper removes the AL_INTROSPECT(...) wrapper in front of struct
// declarations and single-digit __AL_ALIGNED__(N) attributes, line by line:
//
//	if err := doxyprep.Strip(src, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// NewStripper with WithIntrospectMarker and WithAlignedMarker targets other
// macro names. StripLine applies the default rules to a single line.
package doxyprep
