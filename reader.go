package matroska

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// parser drives one pass over a byteSource: reading element headers,
// resolving them against the schema, deciding (via selectiveController)
// whether to descend or skip, and building the Container tree as it goes.
// Grounded on the teacher's ebml.go `ReadElement`/`ReadElementHeader`
// (header-then-data sequencing) and parser.go's `parseSegmentChildren`
// per-child-ID dispatch, generalized from a hard-coded switch into a
// schema-driven walk.
type parser struct {
	src       *byteSource
	diag      *diagnostics
	opts      *Options
	selective *selectiveController
	cooker    *cookState
}

func newParser(src *byteSource, opts *Options, diag *diagnostics) *parser {
	return &parser{
		src:       src,
		diag:      diag,
		opts:      opts,
		selective: newSelectiveController(opts, diag),
		cooker:    newCookState(),
	}
}

// readHeader reads one element's ID VINT (ID form) and size VINT (length
// form), returning the element's start position, its data start position,
// and whether the size was the unknown/indefinite-length sentinel.
func (p *parser) readHeader() (id uint32, size int64, unknownSize bool, pos, dataPos int64, err error) {
	pos = p.src.position()
	idv, _, _, err := readVint(p.src, true)
	if err != nil {
		return 0, 0, false, pos, 0, err
	}
	sizev, _, unknown, err := readVint(p.src, false)
	if err != nil {
		return 0, 0, false, pos, 0, err
	}
	dataPos = p.src.position()
	return uint32(idv), int64(sizev), unknown, pos, dataPos, nil
}

func buildPath(parent *Element, name string) string {
	if parent == nil {
		return "/" + name
	}
	return parent.Path + "/" + name
}

// readElement decodes one already-headered element (container or leaf) and
// returns the fully populated Element, recursing into readGenericContainer
// for containers.
func (p *parser) readElement(entry *SchemaEntry, pos, dataPos, size int64, unknownSize bool, parent, root *Element, level int) (*Element, error) {
	el := &Element{
		Name:    entry.Name,
		Type:    entry.Type,
		ID:      entry.ID,
		Pos:     pos,
		DataPos: dataPos,
		Level:   level,
		Path:    buildPath(parent, entry.Name),
		parent:  parent,
		root:    root,
	}
	if root == nil {
		el.root = el
	}

	if entry.Type == typeContainer {
		var childEnd int64
		if !unknownSize {
			childEnd = dataPos + size
		}
		container, err := p.readGenericContainer(entry.Children, el, el.root, level+1, childEnd, unknownSize)
		if err != nil {
			return el, err
		}
		el.Value = container
		if unknownSize {
			el.Size = p.src.position() - dataPos
		} else {
			el.Size = size
		}
		return el, nil
	}

	el.Size = size
	if err := p.decodeLeaf(el, entry, size); err != nil {
		return el, err
	}
	return el, nil
}

// decodeLeaf reads a leaf's payload and fills in el.Value (and
// el.Truncated, for a binary value capped by Options.BinarySizeLimit).
func (p *parser) decodeLeaf(el *Element, entry *SchemaEntry, size int64) error {
	data, truncated, err := p.readLeafData(entry, size)
	if err != nil {
		return newParseError(kindTruncatedElement, el.Path, err)
	}
	el.Truncated = truncated

	// A zero-size element carries no bytes to decode at all: spec §4.3
	// says its value is the schema default if one is declared, else a
	// type-appropriate zero -- not an UnexpectedFloatSize/DateSize
	// warning, since "absent" and "malformed" are different conditions.
	if size == 0 {
		el.Value = leafDefaultValue(entry)
		return nil
	}

	switch entry.Type {
	case typeUint:
		el.Value = decodeUint(data)
	case typeInt:
		el.Value = decodeInt(data)
	case typeFloat:
		v, ok := decodeFloat(data)
		if !ok {
			p.diag.warn(kindUnexpectedFloatSize, el.Path, fmt.Errorf("%d-byte float", len(data)))
		}
		el.Value = v
	case typeDate:
		t, ok := decodeDate(data)
		if !ok {
			p.diag.warn(kindUnexpectedDateSize, el.Path, fmt.Errorf("%d-byte date", len(data)))
		}
		el.Value = t
	case typeString:
		el.Value = decodeString(data)
	default: // typeBinary, typeUnknown
		el.Value = data
	}
	return nil
}

// leafDefaultValue is the value a zero-size leaf takes on: the schema's
// declared default if it has one, otherwise a type-appropriate zero value
// (spec §4.3).
func leafDefaultValue(entry *SchemaEntry) any {
	if entry.Default != nil {
		return entry.Default
	}
	switch entry.Type {
	case typeUint:
		return uint64(0)
	case typeInt:
		return int64(0)
	case typeFloat:
		return float64(0)
	case typeDate:
		return matroskaEpoch
	case typeString:
		return ""
	default:
		return []byte{}
	}
}

// readLeafData reads a leaf element's raw payload, honoring
// Options.BinarySizeLimit for binary values -- except SeekID, which spec §6
// says is always read in full regardless of the limit, since the whole
// SeekHead mechanism depends on it.
func (p *parser) readLeafData(entry *SchemaEntry, size int64) (data []byte, truncated bool, err error) {
	limit := p.opts.BinarySizeLimit
	if entry.Type != typeBinary || limit < 0 || entry.Name == "SeekID" || size <= limit {
		data, err = p.src.readExact(size)
		return data, false, err
	}
	data, err = p.src.readExact(limit)
	if err != nil {
		return data, true, err
	}
	if err = p.src.skip(size - limit); err != nil {
		return data, true, err
	}
	return data, true, nil
}

// readGenericContainer reads every legal child of cs until boundEnd (or,
// for an unknown-size container, until it meets a sibling ID that isn't
// legal here, or end of stream -- the open question spec §9 flags,
// resolved that way and documented in DESIGN.md). Every child is fully
// read: the selective-read classification in selective.go only ever
// applies to Segment's direct children, handled separately by
// readSegmentChildren.
func (p *parser) readGenericContainer(cs *containerSchema, parent, root *Element, level int, boundEnd int64, unknownSize bool) (*Container, error) {
	container := newContainer()
	for {
		if !unknownSize && p.src.position() >= boundEnd {
			break
		}
		id, size, childUnknown, pos, dataPos, err := p.readHeader()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errInvalidVint) {
			p.diag.warn(kindInvalidVINT, parent.Path, err)
			bound := boundEnd
			if unknownSize {
				bound = p.src.len()
			}
			if rerr := resyncInvalidVint(p.src, bound); rerr != nil {
				break
			}
			continue
		}
		if err != nil {
			return container, err
		}

		entry, ok := cs.resolve(id)
		if !ok {
			if unknownSize {
				if err := p.src.seek(pos); err != nil {
					return container, err
				}
				break
			}
			p.diag.warn(kindUnknownElement, parent.Path, fmt.Errorf("id %#x", id))
			if err := p.src.skip(size); err != nil {
				return container, err
			}
			continue
		}

		el, err := p.readElement(entry, pos, dataPos, size, childUnknown, parent, root, level)
		if err != nil {
			return container, err
		}
		container.append(entry.Name, el)
		p.cooker.cook(p.diag, container, el)
		if p.opts.EntryCallback != nil && !p.opts.EntryCallback(el) {
			return container, errAbort
		}
	}
	return container, nil
}

// readSegmentChildren is the sequential fast-path walk over Segment's
// direct children (spec §4.7): it consults the selective-read controller
// on every child and stops outright at the first unwanted Cluster rather
// than reading media data it was never asked for.
func (p *parser) readSegmentChildren(segEl *Element, segDataPos, segEnd int64, unknownSegSize bool) (*Container, error) {
	container := newContainer()
	for {
		if !unknownSegSize && p.src.position() >= segEnd {
			break
		}
		pos := p.src.position()
		id, size, unknownChildSize, _, dataPos, err := p.readHeader()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, errInvalidVint) {
			p.diag.warn(kindInvalidVINT, "/Segment", err)
			bound := segEnd
			if unknownSegSize {
				bound = p.src.len()
			}
			if rerr := resyncInvalidVint(p.src, bound); rerr != nil {
				break
			}
			continue
		}
		if err != nil {
			return container, err
		}

		entry, ok := csSegment.resolve(id)
		if !ok {
			if unknownSegSize {
				if err := p.src.seek(pos); err != nil {
					return container, err
				}
				break
			}
			p.diag.warn(kindUnknownElement, "/Segment", fmt.Errorf("id %#x", id))
			if err := p.src.skip(size); err != nil {
				return container, err
			}
			continue
		}

		switch p.selective.classifySegmentChild(entry.Name) {
		case decStop:
			if err := p.src.seek(pos); err != nil {
				return container, err
			}
			p.diag.debug("stopping sequential scan at unwanted Cluster", zap.Int64("offset", pos))
			return container, nil

		case decSkip, decDeferred:
			if unknownChildSize {
				// An indefinite-length section that is not being kept
				// (typically a Cluster stepped over under ExhaustiveSearch):
				// there is no way to skip it without reading it, so read
				// and discard its structure.
				if _, err := p.readElement(entry, pos, dataPos, size, unknownChildSize, segEl, segEl, 1); err != nil {
					return container, err
				}
				continue
			}
			if err := p.src.skip(size); err != nil {
				return container, err
			}

		case decInclude:
			el, err := p.readElement(entry, pos, dataPos, size, unknownChildSize, segEl, segEl, 1)
			if err != nil {
				return container, err
			}
			container.append(entry.Name, el)
			p.cooker.cook(p.diag, container, el)
			if p.opts.EntryCallback != nil && !p.opts.EntryCallback(el) {
				return container, errAbort
			}
		}
	}
	return container, nil
}

// readElementAt seeks to abs and reads exactly one Segment-level section,
// used by selective.go's SeekHead-directed and tail-scan resolution passes.
// parent/root may be nil, meaning "this element becomes its own root" (used
// when following a SeekHead found through recursion, before the outer
// Segment element is in scope).
func (p *parser) readElementAt(abs int64, parent, root *Element, level int) (*Element, error) {
	if err := p.src.seek(abs); err != nil {
		return nil, err
	}
	id, size, unknownSize, pos, dataPos, err := p.readHeader()
	if err != nil {
		return nil, err
	}
	entry, ok := csSegment.resolve(id)
	if !ok {
		return nil, fmt.Errorf("matroska: seek target %#x at %d is not a recognized segment-level element", id, abs)
	}
	return p.readElement(entry, pos, dataPos, size, unknownSize, parent, root, level)
}
