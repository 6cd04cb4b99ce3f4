package matroska

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// readDecision is what the selective-read controller tells the sequential
// Segment walk to do with a direct child it has just seen the header of
// (spec §4.7).
type readDecision int

const (
	decInclude readDecision = iota
	decSkip
	decDeferred
	decStop
)

// defaultIncludeSections is what gets fully read by a sequential pass when
// Options.IncludeSections is left nil: the sections small and cheap enough
// that reading them unconditionally never costs a meaningful seek (spec
// §4.7's "default include set").
var defaultIncludeSections = []string{"Info", "Tracks", "Chapters", "Attachments"}

// allSections is every top-level Segment child the selective-read
// machinery knows how to classify, for Options.IncludeSections == []string{"*"}.
var allSections = []string{"Info", "Tracks", "Chapters", "Attachments", "Tags", "Cues", "SeekHead", "Cluster"}

// selectiveController decides, for each direct child of Segment seen during
// the sequential walk, whether to fully read it now (include), step over it
// (deferred: every section not in the include set, plus an unwanted
// Cluster under ExhaustiveSearch), or abandon the sequential walk entirely
// (stop). Included sections the walk did not reach are fetched afterwards
// by resolveDeferred; a deferred section is not in that set and is not
// revisited. classifySegmentChild never returns decSkip, which the walk
// treats the same as decDeferred. Stop happens at the first unwanted
// Cluster -- the fast path spec
// §1 calls out: "opening a large file and reading only its metadata must
// not require scanning Cluster data").
type selectiveController struct {
	include    map[string]bool
	exhaustive bool
	diag       *diagnostics
}

func newSelectiveController(opts *Options, diag *diagnostics) *selectiveController {
	names := opts.IncludeSections
	if len(names) == 0 {
		names = defaultIncludeSections
	}
	include := make(map[string]bool, len(names))
	for _, n := range names {
		switch n {
		case "*common*":
			for _, d := range defaultIncludeSections {
				include[d] = true
			}
		case "*":
			for _, d := range allSections {
				include[d] = true
			}
		default:
			include[n] = true
		}
	}
	return &selectiveController{include: include, exhaustive: opts.ExhaustiveSearch, diag: diag}
}

// classifySegmentChild applies the state machine of spec §4.7 to one
// top-level Segment child, identified by its schema name.
func (sc *selectiveController) classifySegmentChild(name string) readDecision {
	if name == "SeekHead" {
		// Always read the index itself; it's tiny and unlocks everything
		// else without a tail scan.
		return decInclude
	}
	if name == "Cluster" {
		switch {
		case sc.include["Cluster"]:
			return decInclude
		case sc.exhaustive:
			return decDeferred
		default:
			return decStop
		}
	}
	if sc.include[name] {
		return decInclude
	}
	return decDeferred
}

// wantedButMissing returns the subset of the controller's requested
// sections not already present in have, skipping Cluster/SeekHead which are
// handled by the sequential walk itself rather than by deferred resolution.
func (sc *selectiveController) wantedButMissing(have *Container) []string {
	var missing []string
	for _, name := range allSections {
		if name == "Cluster" || name == "SeekHead" {
			continue
		}
		if sc.include[name] && have.Element(name) == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// resolveDeferred runs after the sequential Segment walk stops (at an
// unwanted Cluster, or at EOF): it tries to satisfy every section the
// caller wants but that wasn't read in order, first via the SeekHead
// index, then by tail-scanning the end of the Segment (spec §4.7 steps
// 2-3).
func (p *parser) resolveDeferred(container *Container, segEl *Element, segDataPos, segEnd int64) error {
	missing := p.selective.wantedButMissing(container)
	if len(missing) == 0 {
		return nil
	}

	wanted := make(map[string]bool, len(missing))
	for _, n := range missing {
		wanted[n] = true
	}

	found := make(map[string]int64)
	if sh := container.Element("SeekHead"); sh != nil {
		if c := sh.Container(); c != nil {
			p.followSeekHead(c, segDataPos, wanted, found, 0)
		}
	}

	for name, abs := range found {
		if err := p.readDeferredAt(container, segEl, abs, name); err != nil {
			p.diag.warn(kindTruncatedElement, "/Segment/"+name, err)
			continue
		}
		delete(wanted, name)
	}

	if len(wanted) == 0 {
		return nil
	}

	return p.tailScan(container, segEl, segDataPos, segEnd, wanted)
}

// followSeekHead walks a SeekHead's Seek entries, recording the absolute
// offset of every entry matching a name in wanted, and recursing into
// SeekHead-of-SeekHead entries up to a small fixed depth (spec §4.4's
// "SeekHead may itself be indexed by another SeekHead").
func (p *parser) followSeekHead(seekHead *Container, segDataPos int64, wanted map[string]bool, found map[string]int64, depth int) {
	const maxSeekHeadDepth = 4
	if depth > maxSeekHeadDepth {
		return
	}
	for _, seekEl := range seekHead.All("Seek") {
		c := seekEl.Container()
		if c == nil {
			continue
		}
		idEl, posEl := c.Element("SeekID"), c.Element("SeekPosition")
		if idEl == nil || posEl == nil {
			continue
		}
		targetID := uint32(decodeUint(idEl.Bytes()))
		abs := segDataPos + int64(posEl.Uint())

		entry, ok := csSegment.byID[targetID]
		if !ok {
			continue
		}
		if entry.Name == "SeekHead" {
			sub, err := p.readElementAt(abs, nil, nil, 1)
			if err != nil || sub == nil {
				continue
			}
			if c2 := sub.Container(); c2 != nil {
				p.followSeekHead(c2, segDataPos, wanted, found, depth+1)
			}
			continue
		}
		if wanted[entry.Name] {
			found[entry.Name] = abs
		}
	}
}

// readDeferredAt seeks to abs and reads the single Segment-level section
// expected there, appending it to container under name.
func (p *parser) readDeferredAt(container *Container, segEl *Element, abs int64, name string) error {
	p.diag.debug("seek-directed read", zap.String("section", name), zap.Int64("offset", abs))
	el, err := p.readElementAt(abs, segEl, segEl, 1)
	if err != nil {
		return err
	}
	if el == nil {
		return fmt.Errorf("matroska: seek target for %s did not resolve", name)
	}
	container.append(name, el)
	p.cooker.cook(p.diag, container, el)
	return nil
}

// tailScanWindow and tailScanBudget bound the backward scan of spec §4.7
// step 3: read back in tailScanWindow-byte chunks, never examining more
// than tailScanBudget bytes total, looking for the byte pattern of one of
// the still-missing section IDs followed by a plausible size VINT.
const (
	tailScanWindow = 4096
	tailScanBudget = 1 << 20
)

// tailScan is the fallback for files with no SeekHead (or one missing an
// entry): it walks backward from the end of the Segment a window at a time,
// probing every offset for a VINT matching a wanted element's ID and a size
// VINT whose implied end lands exactly on the current boundary (the Segment
// end, then the start of each section already accepted).
func (p *parser) tailScan(container *Container, segEl *Element, segDataPos, segEnd int64, wanted map[string]bool) error {
	wantedIDs := make(map[uint32]string, len(wanted))
	for name := range wanted {
		for id, e := range csSegment.byID {
			if e.Name == name {
				wantedIDs[id] = name
			}
		}
	}

	scanEnd := segEnd
	scanned := int64(0)
	// boundary is the offset the next accepted candidate's header+size must
	// land on exactly (spec §4.7 step 4: "checking candidate.pos + header +
	// size == segment.end"). It starts at the Segment's own end and shrinks
	// to each accepted candidate's start, so a trailing run of
	// back-to-back sections (…Cues, Tags, end-of-Segment) is found as a
	// chain rather than by loosely fitting every candidate under the
	// original Segment end, which would accept spurious matches deep
	// inside Cluster data.
	boundary := segEnd
	for scanEnd > segDataPos && scanned < tailScanBudget {
		winStart := scanEnd - tailScanWindow
		if winStart < segDataPos {
			winStart = segDataPos
		}
		window, err := p.readWindow(winStart, scanEnd)
		if err != nil {
			return err
		}
		p.diag.debug("tail scan window", zap.Int64("start", winStart), zap.String("size", humanize.Bytes(uint64(len(window)))))

		for off := len(window) - 1; off >= 0; off-- {
			abs := winStart + int64(off)
			name, ok := p.probeCandidate(window, off, abs, boundary, wantedIDs)
			if !ok {
				continue
			}
			el, err := p.readElementAt(abs, segEl, segEl, 1)
			if err != nil || el == nil {
				continue
			}
			container.append(name, el)
			p.cooker.cook(p.diag, container, el)
			delete(wanted, name)
			boundary = abs
			if len(wanted) == 0 {
				return nil
			}
		}

		scanned += int64(len(window))
		scanEnd = winStart
	}
	return nil
}

// readWindow reads [start, end) without disturbing the parser's logical
// seek position for long, since tailScan itself repositions before every
// candidate it tries to fully parse.
func (p *parser) readWindow(start, end int64) ([]byte, error) {
	if err := p.src.seek(start); err != nil {
		return nil, err
	}
	return p.src.readExact(end - start)
}

// probeCandidate checks whether window[off:] begins with a wanted element's
// ID VINT followed by a size VINT whose implied span lands exactly on
// boundary (spec §4.7 step 4's candidate.pos + header + size == boundary
// check).
func (p *parser) probeCandidate(window []byte, off int, abs, boundary int64, wantedIDs map[uint32]string) (string, bool) {
	r := &byteWindowReader{data: window[off:]}
	id, _, _, err := readVint(r, true)
	if err != nil {
		return "", false
	}
	name, ok := wantedIDs[uint32(id)]
	if !ok {
		return "", false
	}
	size, _, unknown, err := readVint(r, false)
	if err != nil {
		return "", false
	}
	if unknown || abs+int64(r.pos)+int64(size) != boundary {
		return "", false
	}
	return name, true
}

// byteWindowReader adapts an in-memory slice to io.ByteReader for
// probeCandidate's speculative VINT reads.
type byteWindowReader struct {
	data []byte
	pos  int
}

func (b *byteWindowReader) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, fmt.Errorf("matroska: window exhausted")
	}
	c := b.data[b.pos]
	b.pos++
	return c, nil
}
