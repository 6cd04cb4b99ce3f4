package matroska

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// defaultTimecodeScale is the value Matroska assumes when no TimecodeScale
// element is present in Info.
const defaultTimecodeScale = uint64(1000000)

// cookState is the per-parse semantic post-processing pass: it rewrites
// TimecodeScale-dependent numeric fields into time.Duration spans, maps
// TrackType's numeric code to a symbolic string (appending the owning
// TrackEntry into its parent Tracks container under that symbolic key as it
// goes), derives a frame rate display from video tracks' Default{,DecodedField}Duration,
// and formats 16-byte UID fields as UUID strings.
//
// TimecodeScale commonly precedes the fields it scales, but the format
// never guarantees it: cookState keeps a pending list of elements cooked
// under the default scale and re-cooks them the moment TimecodeScale
// itself is read, making the whole pass idempotent with respect to field
// order.
type cookState struct {
	scale      uint64
	scaleKnown bool
	pending    []pendingCook
}

type pendingCook struct {
	el       *Element
	rawUnits float64
}

func newCookState() *cookState {
	return &cookState{scale: defaultTimecodeScale}
}

// cook is invoked once for every Element immediately after it's appended to
// its parent container, whether read sequentially or via a seek-directed or
// tail-scan pass.
func (cs *cookState) cook(diag *diagnostics, container *Container, el *Element) {
	switch el.Name {
	case "TimecodeScale":
		cs.scale = el.Uint()
		if cs.scale == 0 {
			cs.scale = defaultTimecodeScale
		}
		cs.scaleKnown = true
		cs.recookPending()

	case "Duration":
		cs.cookScaledFloat(el)
	case "Timecode", "CueTime", "CueDuration", "BlockDuration":
		cs.cookScaledUint(el)

	case "ChapterTimeStart", "ChapterTimeEnd":
		// Direct nanoseconds, never scaled by TimecodeScale.
		raw := el.Uint()
		el.RawValue = el.Value
		el.Value = time.Duration(raw)

	case "TrackType":
		cookTrackType(el)
	case "TrackEntry":
		indexTrackEntry(container, el)

	case "DefaultDuration", "DefaultDecodedFieldDuration":
		cookTrackDuration(container, el)

	case "SegmentUID", "TrackUID", "PrevUID", "NextUID", "SegmentFamily",
		"ChapterUID", "EditionUID":
		cookUID(el)
	}
}

// cookScaledUint rewrites an integer tick count into a time.Duration using
// the current (possibly still-default) TimecodeScale, remembering the raw
// unit count so it can be redone once the real scale is known.
func (cs *cookState) cookScaledUint(el *Element) {
	raw := float64(el.Uint())
	el.RawValue = el.Value
	el.Value = time.Duration(raw * float64(cs.scale))
	if !cs.scaleKnown {
		cs.pending = append(cs.pending, pendingCook{el: el, rawUnits: raw})
	}
}

// cookScaledFloat is cookScaledUint for Info's Duration, which the format
// stores as a float64 count of TimecodeScale units rather than an integer.
func (cs *cookState) cookScaledFloat(el *Element) {
	raw := el.Float()
	el.RawValue = el.Value
	el.Value = time.Duration(raw * float64(cs.scale))
	if !cs.scaleKnown {
		cs.pending = append(cs.pending, pendingCook{el: el, rawUnits: raw})
	}
}

// recookPending redoes every scaled duration cooked before TimecodeScale
// was known, now that the real scale is available.
func (cs *cookState) recookPending() {
	for _, p := range cs.pending {
		p.el.Value = time.Duration(p.rawUnits * float64(cs.scale))
	}
	cs.pending = nil
}

// trackTypeNames maps TrackType's numeric code to the symbolic string spec
// §4.8 calls for ({Video, Audio, Logo, Subtitle, Buttons, Control}, plus the
// two further codes the Matroska element table reserves alongside them).
// The codes are bit-pattern values, not a dense enum: 1, 2, 3 are taken but
// the rest of the low nibble (0x04-0x0F) is reserved, and the remaining
// kinds resume at 0x10.
var trackTypeNames = map[uint64]string{
	0x01: "Video",
	0x02: "Audio",
	0x03: "Complex",
	0x10: "Logo",
	0x11: "Subtitle",
	0x12: "Buttons",
	0x20: "Control",
	0x21: "Metadata",
}

// cookTrackType relabels a TrackEntry's TrackType as its symbolic name.
func cookTrackType(el *Element) {
	code := el.Uint()
	kind, ok := trackTypeNames[code]
	if !ok {
		kind = "Unknown"
	}
	el.RawValue = el.Value
	el.Value = kind
	el.DisplayString = kind
}

// indexTrackEntry appends a completed TrackEntry into its owning Tracks
// container a second time, under its symbolic TrackType key ("Video",
// "Audio", ...) alongside the usual "TrackEntry" key (spec §4.6: "the
// TrackEntry is additionally appended to its parent (Tracks) under the
// symbolic type key"), so a caller can fetch every video track as
// tracks.Element("Video")/tracks.All("Video") without scanning TrackEntry
// itself. Fired when TrackEntry itself (not TrackType) is appended, since
// that's the point at which both the TrackEntry's own children (including
// its already-cooked TrackType) and the Tracks-level container passed in by
// the caller are available -- TrackType's own cook call happens one level
// down, before the Tracks element's Value holds its container, so the
// Tracks container cannot be reached from TrackType at that point.
func indexTrackEntry(tracks *Container, trackEntry *Element) {
	if tracks == nil {
		return
	}
	kind := trackEntry.Container().Element("TrackType").String()
	if kind == "" {
		return
	}
	tracks.append(kind, trackEntry)
}

// cookTrackDuration rewrites a TrackEntry's Default{,DecodedField}Duration
// -- a nanosecond frame/field period -- into a time.Duration (spec §4.8:
// "shown as milliseconds"), and, for a video track only, also derives a
// frames-per-second DisplayString from it.
func cookTrackDuration(trackEntry *Container, el *Element) {
	ns := el.Uint()
	el.RawValue = el.Value
	el.Value = time.Duration(ns)
	if ns == 0 {
		return
	}
	if trackEntry == nil || trackEntry.Element("TrackType").String() != "Video" {
		return
	}
	fps := 1e9 / float64(ns)
	el.DisplayString = fmt.Sprintf("%.3f fps", fps)
}

// cookUID renders a 16-byte UID field as a standard UUID string, the
// display form callers actually want instead of 16 raw bytes. Fields that
// aren't exactly 16 bytes (some encoders write shorter family IDs) are left
// as plain binary.
func cookUID(el *Element) {
	data := el.Bytes()
	if len(data) != 16 {
		return
	}
	id, err := uuid.FromBytes(data)
	if err != nil {
		return
	}
	el.DisplayString = id.String()
}
