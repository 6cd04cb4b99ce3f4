package matroska

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// defaultBinarySizeLimit caps how much of a binary element's payload is
// actually read into memory when Options.BinarySizeLimit is left at its
// zero value -- large CodecPrivate/FileData blobs are still walked (Size
// and Pos/DataPos are always accurate) but not copied in full unless the
// caller opts in. -1 removes the cap entirely.
const defaultBinarySizeLimit = int64(16 << 20)

// Options configures a Parse call.
type Options struct {
	// IncludeSections names which top-level Segment children are read.
	// Each is read when the sequential pass meets it; any the pass did not
	// reach (because it stopped at an unwanted Cluster) is then fetched
	// through SeekHead or a tail scan. Sections not named here are not
	// read, except SeekHead, which is always read. Two meta-values are
	// recognized: "*common*" (Info, Tracks, Chapters, Attachments -- the
	// default when this is left nil) and "*" (everything, including
	// Tags/Cues/SeekHead/Cluster).
	IncludeSections []string

	// ExhaustiveSearch makes the sequential walk step over unwanted
	// Clusters and keep going, so sections stored after them are reached
	// in order, instead of stopping the walk the moment an unwanted
	// Cluster is seen. Cluster contents are still not read unless
	// "Cluster" is in IncludeSections.
	ExhaustiveSearch bool

	// BinarySizeLimit caps how many bytes of a binary element's value are
	// retained in memory; 0 selects defaultBinarySizeLimit, -1 means
	// unlimited. SeekID is always read in full regardless, since the whole
	// SeekHead index depends on it.
	BinarySizeLimit int64

	// KeepStreamOpen, when true, leaves the io.ReadSeeker passed to Parse
	// open after the Document is returned (and after Document.Close),
	// for callers that own the stream's lifetime themselves.
	KeepStreamOpen bool

	// Logger receives structured diagnostic tracing of parser decisions.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// EntryCallback, if set, is invoked once for every element as it
	// finishes reading -- a leaf right after its value is decoded, a
	// container right after all of its children have been read and cooked
	// (spec §5's "immediately after its header is read for containers and
	// immediately after its value is decoded for leaves" collapses to this
	// single post-read hook here, since cooking itself must run before the
	// callback fires and cooking needs the fully-read element). It is not
	// invoked for the EBMLHeader and Segment elements themselves, nor for a
	// Segment section fetched through SeekHead or a tail scan (that
	// section's own children are still reported). Returning
	// false aborts the remainder of the parse early (the Document returned
	// is whatever was built so far, with no error -- this is not a failure
	// condition).
	EntryCallback func(el *Element) bool
}

func (o *Options) normalize() *Options {
	out := *o
	if out.BinarySizeLimit == 0 {
		out.BinarySizeLimit = defaultBinarySizeLimit
	}
	return &out
}

// Document is the parsed tree: the EBML header(s) and Segment(s) found at
// the top level of the stream. Nearly every real file has exactly
// one of each; the slices exist because EBML permits concatenating more
// than one complete document (linked/split Segments), which some muxers
// produce.
type Document struct {
	EBML     []*Element
	Segments []*Element

	diag   *diagnostics
	closer io.Closer
}

// Header returns the first EBML header element, or nil if none was parsed.
func (d *Document) Header() *Element {
	if len(d.EBML) == 0 {
		return nil
	}
	return d.EBML[0]
}

// Segment returns the first Segment element, or nil if none was parsed.
func (d *Document) Segment() *Element {
	if len(d.Segments) == 0 {
		return nil
	}
	return d.Segments[0]
}

// Warnings returns every recoverable condition encountered while parsing,
// combined with go.uber.org/multierr.
func (d *Document) Warnings() error {
	return d.diag.Warnings()
}

// Close releases the underlying stream, unless Options.KeepStreamOpen was
// set or the stream passed to Parse didn't implement io.Closer.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// Parse reads a Matroska/WebM document from rs. Only
// NotAMatroskaFile and an underlying I/O error abort outright; every other
// condition (a damaged element, an unrecognized child, a malformed VINT) is
// recorded as a warning and recovered from locally, so a single corrupt
// section never prevents the rest of the document from being returned.
func Parse(rs io.ReadSeeker, opts *Options) (*Document, error) {
	if opts == nil {
		opts = &Options{}
	}
	o := opts.normalize()
	diag := newDiagnostics(o.Logger)

	src, err := newByteSource(rs)
	if err != nil {
		return nil, newParseError(kindIOError, "/", err)
	}

	start, err := findDocumentStart(src)
	if err != nil {
		return nil, err
	}
	if err := src.seek(start); err != nil {
		return nil, newParseError(kindIOError, "/", err)
	}

	doc := &Document{diag: diag}
	if c, ok := rs.(io.Closer); ok && !o.KeepStreamOpen {
		doc.closer = c
	}

	p := newParser(src, o, diag)

	for {
		id, size, unknownSize, headPos, dataPos, err := p.readHeader()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errInvalidVint) {
			diag.warn(kindInvalidVINT, "/", err)
			if rerr := resyncInvalidVint(src, src.len()); rerr != nil {
				break
			}
			continue
		}
		if err != nil {
			diag.warn(kindTruncatedElement, "/", err)
			break
		}

		switch id {
		case idEBMLHeader:
			el, err := p.readElement(ebmlHeaderEntry, headPos, dataPos, size, unknownSize, nil, nil, 0)
			if err != nil {
				diag.warn(kindTruncatedElement, "/EBMLHeader", err)
				continue
			}
			if err := validateDocType(el); err != nil {
				return nil, err
			}
			doc.EBML = append(doc.EBML, el)

		case idSegment:
			segEl, abort, err := p.parseOneSegment(headPos, dataPos, size, unknownSize)
			if err != nil {
				diag.warn(kindTruncatedElement, "/Segment", err)
			}
			if segEl != nil {
				doc.Segments = append(doc.Segments, segEl)
			}
			if abort {
				return doc, nil
			}

		default:
			diag.warn(kindUnknownElement, "/", fmt.Errorf("top-level id %#x", id))
			if err := src.skip(size); err != nil {
				diag.warn(kindTruncatedElement, "/", err)
				return doc, nil
			}
		}
	}

	return doc, nil
}

// ebmlHeaderEntry is the synthetic schema entry for the document's one
// always-present, always-at-depth-0 container: EBMLHeader itself never
// appears as anyone's child, so it has no natural home in csSegment or any
// other containerSchema.
var ebmlHeaderEntry = &SchemaEntry{
	Name:     "EBMLHeader",
	ID:       idEBMLHeader,
	Type:     typeContainer,
	Children: csEBMLHeader,
}

// segmentEntry is ebmlHeaderEntry's counterpart for Segment.
var segmentEntry = &SchemaEntry{
	Name:     "Segment",
	ID:       idSegment,
	Type:     typeContainer,
	Children: csSegment,
}

// parseOneSegment reads a single Segment's direct children via the
// sequential fast path, then resolves whatever the caller asked for but
// the fast path deferred, via SeekHead/tail-scan (selective.go).
func (p *parser) parseOneSegment(pos, dataPos, size int64, unknownSize bool) (el *Element, abort bool, err error) {
	el = &Element{
		Name:    segmentEntry.Name,
		Type:    typeContainer,
		ID:      segmentEntry.ID,
		Pos:     pos,
		DataPos: dataPos,
		Level:   0,
		Path:    "/Segment",
	}
	el.root = el

	var segEnd int64
	if !unknownSize {
		segEnd = dataPos + size
	}

	container, err := p.readSegmentChildren(el, dataPos, segEnd, unknownSize)
	if err == errAbort {
		el.Value = container
		finishSegmentSize(p, el, dataPos, size, unknownSize)
		return el, true, nil
	}
	if err != nil {
		el.Value = container
		finishSegmentSize(p, el, dataPos, size, unknownSize)
		return el, false, err
	}

	if derr := p.resolveDeferred(container, el, dataPos, segEnd); derr != nil {
		err = derr
	}

	el.Value = container
	finishSegmentSize(p, el, dataPos, size, unknownSize)

	if !unknownSize {
		if serr := p.src.seek(segEnd); serr != nil && err == nil {
			err = serr
		}
	}
	return el, false, err
}

func finishSegmentSize(p *parser, el *Element, dataPos, size int64, unknownSize bool) {
	if unknownSize {
		el.Size = p.src.position() - dataPos
	} else {
		el.Size = size
	}
}

// validateDocType rejects a document whose EBML header names a DocType
// other than "matroska"/"webm" outright, as kindNotAMatroskaFile rather
// than a recoverable warning, since every other element-decoding rule in
// this package assumes one of those two schemas.
func validateDocType(ebmlHeader *Element) error {
	c := ebmlHeader.Container()
	if c == nil {
		return newParseError(kindNotAMatroskaFile, "/EBMLHeader", fmt.Errorf("empty EBML header"))
	}
	docType := c.Element("DocType")
	if docType == nil {
		return newParseError(kindNotAMatroskaFile, "/EBMLHeader/DocType", fmt.Errorf("missing DocType"))
	}
	switch docType.String() {
	case "matroska", "webm":
		return nil
	default:
		return newParseError(kindNotAMatroskaFile, "/EBMLHeader/DocType", fmt.Errorf("unrecognized DocType %q", docType.String()))
	}
}
