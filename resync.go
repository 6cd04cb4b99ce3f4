package matroska

import (
	"bytes"
	"fmt"
)

// ebmlMagic is the fixed 4-byte ID of the EBML header element, used both to
// validate a stream's very first bytes and, when that fails, as a needle to
// search for (spec §7's "resync after unrecognized leading data").
var ebmlMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}

// resyncScanBudget bounds how far findDocumentStart will search forward for
// the EBML magic before giving up and reporting kindNotAMatroskaFile.
const resyncScanBudget = 1 << 20

// findDocumentStart locates the EBML header's start offset. It first checks
// offset 0 (the overwhelmingly common case), and only falls back to a
// bounded forward scan if that fails -- e.g. a stream with leading
// container framing or garbage this package doesn't otherwise understand.
// Grounded on the teacher's parser.go, which simply requires
// `element.ID == IDEBMLHeader` at offset 0 and fails otherwise; this
// generalizes that hard requirement into a recoverable scan, per spec §7's
// "InvalidVINT" / resync guidance.
func findDocumentStart(src *byteSource) (int64, error) {
	if err := src.seek(0); err != nil {
		return 0, err
	}
	head, err := src.readExact(int64(len(ebmlMagic)))
	if err == nil && bytes.Equal(head, ebmlMagic) {
		return 0, nil
	}

	limit := src.len()
	if limit < 0 || limit > resyncScanBudget {
		limit = resyncScanBudget
	}
	window, err := readAt(src, 0, limit)
	if err != nil {
		return 0, newParseError(kindNotAMatroskaFile, "/", err)
	}
	if idx := bytes.Index(window, ebmlMagic); idx >= 0 {
		return int64(idx), nil
	}
	return 0, newParseError(kindNotAMatroskaFile, "/", fmt.Errorf("no EBML header found in first %d bytes", len(window)))
}

// readAt reads length bytes starting at offset without requiring the
// caller to track the source's prior position; it restores nothing, since
// every caller immediately seeks again to wherever it actually wants to be.
func readAt(src *byteSource, offset, length int64) ([]byte, error) {
	if err := src.seek(offset); err != nil {
		return nil, err
	}
	return src.readExact(length)
}

// resyncInvalidVint is called when readVint reports errInvalidVint (a
// leading 0x00 byte, spec §7's InvalidVINT condition) partway through a
// container. It steps forward one byte at a time, looking for the first
// position where the byte's top bit pattern make it a plausible VINT lead
// byte again (i.e. simply non-zero -- it is up to the next header read to
// decide whether what follows actually makes sense), bounded to avoid
// scanning past the enclosing container's end.
func resyncInvalidVint(src *byteSource, bound int64) error {
	for src.position() < bound {
		b, err := src.readExact(1)
		if err != nil {
			return err
		}
		if b[0] != 0x00 {
			return src.seek(src.position() - 1)
		}
	}
	return fmt.Errorf("matroska: could not resync before bound %d", bound)
}
