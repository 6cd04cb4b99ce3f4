package matroska

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// SchemaEntry is one row of the element DTD (spec §9: "schema both as data
// and as control... an immutable value built once at startup"). It tells
// the reader everything it needs to decode a child it has just seen the ID
// of, without any per-container switch statement.
type SchemaEntry struct {
	Name string
	ID   uint32
	Type elementType

	// Multi marks an element that may legally repeat as a sibling under
	// the same parent. Container.append in tree.go does not consult it:
	// a child is promoted from *Element to []*Element only when its name
	// actually occurs a second time.
	Multi bool

	// Global marks an element legal under *any* container at *any* depth
	// (CRC32, Void, SignatureSlot) rather than only the containers that
	// name it as a child.
	Global bool

	// RecursiveNesting marks a container that may legally contain another
	// instance of itself (ChapterAtom nests ChapterAtom, SimpleTag nests
	// SimpleTag), per spec §4.4.
	RecursiveNesting bool

	// FixedSize, when >= 0, records the constant width the format defines
	// for the element; -1 means none is declared. The reader does not
	// consult it: an element's size is always taken from its wire-encoded
	// size VINT.
	FixedSize int64

	// Default is the value a leaf takes when it is present with size=0
	// (see decodeLeaf in reader.go). nil means no schema default is
	// declared, and the type's zero value is used instead. An element
	// absent from the stream is not synthesized from its Default: it is
	// simply missing from its parent Container.
	Default any

	// Children is the nested schema consulted when Type == typeContainer.
	// Nil for leaf entries.
	Children *containerSchema
}

// containerSchema is the set of legal children for one container kind,
// indexed by wire ID (the hot path, used on every child header) and also
// by name (byName is filled alongside byID; no lookup in this package
// reads it).
type containerSchema struct {
	name   string
	byID   map[uint32]*SchemaEntry
	byName map[string]*SchemaEntry
}

func newContainerSchema(name string) *containerSchema {
	return &containerSchema{
		name:   name,
		byID:   make(map[uint32]*SchemaEntry),
		byName: make(map[string]*SchemaEntry),
	}
}

func (cs *containerSchema) add(e *SchemaEntry) *SchemaEntry {
	cs.byID[e.ID] = e
	cs.byName[e.Name] = e
	return e
}

// The full element graph. Declared as package vars (rather than built
// lazily) so recursiveNesting entries can reference their own
// containerSchema by pointer -- see init() below, which populates them.
// Entries hold their child schemas by pointer, so the order of the init*
// calls does not matter.
var (
	csEBMLHeader        = newContainerSchema("EBMLHeader")
	csSegment           = newContainerSchema("Segment")
	csSeekHead          = newContainerSchema("SeekHead")
	csSeek              = newContainerSchema("Seek")
	csInfo              = newContainerSchema("Info")
	csTracks            = newContainerSchema("Tracks")
	csTrackEntry        = newContainerSchema("TrackEntry")
	csVideo             = newContainerSchema("Video")
	csAudio             = newContainerSchema("Audio")
	csCluster           = newContainerSchema("Cluster")
	csBlockGroup        = newContainerSchema("BlockGroup")
	csCues              = newContainerSchema("Cues")
	csCuePoint          = newContainerSchema("CuePoint")
	csCueTrackPositions = newContainerSchema("CueTrackPositions")
	csChapters          = newContainerSchema("Chapters")
	csEditionEntry      = newContainerSchema("EditionEntry")
	csChapterAtom       = newContainerSchema("ChapterAtom")
	csChapterDisplay    = newContainerSchema("ChapterDisplay")
	csTags              = newContainerSchema("Tags")
	csTag               = newContainerSchema("Tag")
	csTargets           = newContainerSchema("Targets")
	csSimpleTag         = newContainerSchema("SimpleTag")
	csAttachments       = newContainerSchema("Attachments")
	csAttachedFile      = newContainerSchema("AttachedFile")

	// csGlobal holds the handful of elements legal anywhere: CRC-32, Void
	// padding, and the signature slot. Looked up as a fallback whenever a
	// child ID isn't found in the current container's own schema.
	csGlobal = newContainerSchema("*global*")
)

func init() {
	initGlobalSchema()
	initEBMLHeaderSchema()
	initSegmentSchema()
	initSeekHeadSchema()
	initInfoSchema()
	initTracksSchema()
	initClusterSchema()
	initCuesSchema()
	initChaptersSchema()
	initTagsSchema()
	initAttachmentsSchema()
}

func initGlobalSchema() {
	csGlobal.add(&SchemaEntry{Name: "CRC32", ID: idCRC32, Type: typeBinary, Global: true, FixedSize: -1})
	csGlobal.add(&SchemaEntry{Name: "Void", ID: idVoid, Type: typeBinary, Global: true, FixedSize: -1})
	csGlobal.add(&SchemaEntry{Name: "SignatureSlot", ID: idSignatureSlot, Type: typeContainer, Global: true, FixedSize: -1})
}

func initEBMLHeaderSchema() {
	cs := csEBMLHeader
	cs.add(&SchemaEntry{Name: "EBMLVersion", ID: idEBMLVersion, Type: typeUint, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "EBMLReadVersion", ID: idEBMLReadVersion, Type: typeUint, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "EBMLMaxIDLength", ID: idEBMLMaxIDLength, Type: typeUint, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "EBMLMaxSizeLength", ID: idEBMLMaxSizeLength, Type: typeUint, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "DocType", ID: idEBMLDocType, Type: typeString, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "DocTypeVersion", ID: idEBMLDocTypeVersion, Type: typeUint, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "DocTypeReadVersion", ID: idEBMLDocTypeReadVersion, Type: typeUint, FixedSize: -1})
}

func initSegmentSchema() {
	cs := csSegment
	cs.add(&SchemaEntry{Name: "SeekHead", ID: idSeekHead, Type: typeContainer, Multi: true, Children: csSeekHead, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Info", ID: idInfo, Type: typeContainer, Multi: true, Children: csInfo, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Tracks", ID: idTracks, Type: typeContainer, Multi: true, Children: csTracks, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Cluster", ID: idCluster, Type: typeContainer, Multi: true, Children: csCluster, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Cues", ID: idCues, Type: typeContainer, Multi: true, Children: csCues, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Chapters", ID: idChapters, Type: typeContainer, Multi: true, Children: csChapters, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Tags", ID: idTags, Type: typeContainer, Multi: true, Children: csTags, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Attachments", ID: idAttachments, Type: typeContainer, Multi: true, Children: csAttachments, FixedSize: -1})
}

func initSeekHeadSchema() {
	csSeekHead.add(&SchemaEntry{Name: "Seek", ID: idSeek, Type: typeContainer, Multi: true, Children: csSeek, FixedSize: -1})
	csSeek.add(&SchemaEntry{Name: "SeekID", ID: idSeekID, Type: typeBinary, FixedSize: -1})
	csSeek.add(&SchemaEntry{Name: "SeekPosition", ID: idSeekPos, Type: typeUint, FixedSize: -1})
}

func initInfoSchema() {
	cs := csInfo
	cs.add(&SchemaEntry{Name: "SegmentUID", ID: idSegmentUID, Type: typeBinary, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "SegmentFilename", ID: idSegmentFilename, Type: typeString, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "PrevUID", ID: idPrevUID, Type: typeBinary, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "PrevFilename", ID: idPrevFilename, Type: typeString, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "NextUID", ID: idNextUID, Type: typeBinary, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "NextFilename", ID: idNextFilename, Type: typeString, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "SegmentFamily", ID: idSegmentFamily, Type: typeBinary, Multi: true, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "TimecodeScale", ID: idTimecodeScale, Type: typeUint, Default: uint64(1000000), FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Duration", ID: idDuration, Type: typeFloat, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "DateUTC", ID: idDateUTC, Type: typeDate, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "Title", ID: idTitle, Type: typeString, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "MuxingApp", ID: idMuxingApp, Type: typeString, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "WritingApp", ID: idWritingApp, Type: typeString, FixedSize: -1})
}

func initTracksSchema() {
	cs := csTracks
	cs.add(&SchemaEntry{Name: "TrackEntry", ID: idTrackEntry, Type: typeContainer, Multi: true, Children: csTrackEntry, FixedSize: -1})

	te := csTrackEntry
	te.add(&SchemaEntry{Name: "TrackNumber", ID: idTrackNumber, Type: typeUint, FixedSize: -1})
	te.add(&SchemaEntry{Name: "TrackUID", ID: idTrackUID, Type: typeUint, FixedSize: -1})
	te.add(&SchemaEntry{Name: "TrackType", ID: idTrackType, Type: typeUint, FixedSize: 1})
	te.add(&SchemaEntry{Name: "FlagEnabled", ID: idFlagEnabled, Type: typeUint, Default: uint64(1), FixedSize: -1})
	te.add(&SchemaEntry{Name: "FlagDefault", ID: idFlagDefault, Type: typeUint, Default: uint64(1), FixedSize: -1})
	te.add(&SchemaEntry{Name: "FlagForced", ID: idFlagForced, Type: typeUint, Default: uint64(0), FixedSize: -1})
	te.add(&SchemaEntry{Name: "FlagLacing", ID: idFlagLacing, Type: typeUint, Default: uint64(1), FixedSize: -1})
	te.add(&SchemaEntry{Name: "DefaultDuration", ID: idDefaultDuration, Type: typeUint, FixedSize: -1})
	te.add(&SchemaEntry{Name: "DefaultDecodedFieldDuration", ID: idDefaultDecodedFieldDuration, Type: typeUint, FixedSize: -1})
	te.add(&SchemaEntry{Name: "Name", ID: idTrackName, Type: typeString, FixedSize: -1})
	te.add(&SchemaEntry{Name: "Language", ID: idLanguage, Type: typeString, Default: "eng", FixedSize: -1})
	te.add(&SchemaEntry{Name: "CodecID", ID: idCodecID, Type: typeString, FixedSize: -1})
	te.add(&SchemaEntry{Name: "CodecPrivate", ID: idCodecPrivate, Type: typeBinary, FixedSize: -1})
	te.add(&SchemaEntry{Name: "CodecName", ID: idCodecName, Type: typeString, FixedSize: -1})
	te.add(&SchemaEntry{Name: "Video", ID: idVideo, Type: typeContainer, Children: csVideo, FixedSize: -1})
	te.add(&SchemaEntry{Name: "Audio", ID: idAudio, Type: typeContainer, Children: csAudio, FixedSize: -1})

	v := csVideo
	v.add(&SchemaEntry{Name: "FlagInterlaced", ID: idFlagInterlaced, Type: typeUint, Default: uint64(0), FixedSize: -1})
	v.add(&SchemaEntry{Name: "PixelWidth", ID: idPixelWidth, Type: typeUint, FixedSize: -1})
	v.add(&SchemaEntry{Name: "PixelHeight", ID: idPixelHeight, Type: typeUint, FixedSize: -1})
	v.add(&SchemaEntry{Name: "DisplayWidth", ID: idDisplayWidth, Type: typeUint, FixedSize: -1})
	v.add(&SchemaEntry{Name: "DisplayHeight", ID: idDisplayHeight, Type: typeUint, FixedSize: -1})
	v.add(&SchemaEntry{Name: "DisplayUnit", ID: idDisplayUnit, Type: typeUint, Default: uint64(0), FixedSize: -1})

	a := csAudio
	a.add(&SchemaEntry{Name: "SamplingFrequency", ID: idSamplingFrequency, Type: typeFloat, Default: float64(8000), FixedSize: -1})
	a.add(&SchemaEntry{Name: "OutputSamplingFrequency", ID: idOutputSamplingFrequency, Type: typeFloat, FixedSize: -1})
	a.add(&SchemaEntry{Name: "Channels", ID: idChannels, Type: typeUint, Default: uint64(1), FixedSize: -1})
	a.add(&SchemaEntry{Name: "BitDepth", ID: idBitDepth, Type: typeUint, FixedSize: -1})
}

func initClusterSchema() {
	cs := csCluster
	cs.add(&SchemaEntry{Name: "Timecode", ID: idTimecode, Type: typeUint, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "SimpleBlock", ID: idSimpleBlock, Type: typeBinary, Multi: true, FixedSize: -1})
	cs.add(&SchemaEntry{Name: "BlockGroup", ID: idBlockGroup, Type: typeContainer, Multi: true, Children: csBlockGroup, FixedSize: -1})

	bg := csBlockGroup
	bg.add(&SchemaEntry{Name: "Block", ID: idBlock, Type: typeBinary, FixedSize: -1})
	bg.add(&SchemaEntry{Name: "BlockDuration", ID: idBlockDuration, Type: typeUint, FixedSize: -1})
	bg.add(&SchemaEntry{Name: "ReferenceBlock", ID: idReferenceBlock, Type: typeInt, Multi: true, FixedSize: -1})
}

func initCuesSchema() {
	cs := csCues
	cs.add(&SchemaEntry{Name: "CuePoint", ID: idCuePoint, Type: typeContainer, Multi: true, Children: csCuePoint, FixedSize: -1})

	cp := csCuePoint
	cp.add(&SchemaEntry{Name: "CueTime", ID: idCueTime, Type: typeUint, FixedSize: -1})
	cp.add(&SchemaEntry{Name: "CueTrackPositions", ID: idCueTrackPositions, Type: typeContainer, Multi: true, Children: csCueTrackPositions, FixedSize: -1})

	ctp := csCueTrackPositions
	ctp.add(&SchemaEntry{Name: "CueTrack", ID: idCueTrack, Type: typeUint, FixedSize: -1})
	ctp.add(&SchemaEntry{Name: "CueClusterPosition", ID: idCueClusterPosition, Type: typeUint, FixedSize: -1})
	ctp.add(&SchemaEntry{Name: "CueDuration", ID: idCueDuration, Type: typeUint, FixedSize: -1})
	ctp.add(&SchemaEntry{Name: "CueBlockNumber", ID: idCueBlockNumber, Type: typeUint, Default: uint64(1), FixedSize: -1})
}

func initChaptersSchema() {
	cs := csChapters
	cs.add(&SchemaEntry{Name: "EditionEntry", ID: idEditionEntry, Type: typeContainer, Multi: true, Children: csEditionEntry, FixedSize: -1})

	ee := csEditionEntry
	ee.add(&SchemaEntry{Name: "EditionUID", ID: idEditionUID, Type: typeUint, FixedSize: -1})
	ee.add(&SchemaEntry{Name: "ChapterAtom", ID: idChapterAtom, Type: typeContainer, Multi: true, Children: csChapterAtom, FixedSize: -1})

	ca := csChapterAtom
	ca.add(&SchemaEntry{Name: "ChapterAtom", ID: idChapterAtom, Type: typeContainer, Multi: true, RecursiveNesting: true, Children: csChapterAtom, FixedSize: -1})
	ca.add(&SchemaEntry{Name: "ChapterUID", ID: idChapterUID, Type: typeUint, FixedSize: -1})
	ca.add(&SchemaEntry{Name: "ChapterTimeStart", ID: idChapterTimeStart, Type: typeUint, FixedSize: -1})
	ca.add(&SchemaEntry{Name: "ChapterTimeEnd", ID: idChapterTimeEnd, Type: typeUint, FixedSize: -1})
	ca.add(&SchemaEntry{Name: "ChapterDisplay", ID: idChapterDisplay, Type: typeContainer, Multi: true, Children: csChapterDisplay, FixedSize: -1})

	cd := csChapterDisplay
	cd.add(&SchemaEntry{Name: "ChapString", ID: idChapString, Type: typeString, FixedSize: -1})
	cd.add(&SchemaEntry{Name: "ChapLanguage", ID: idChapLanguage, Type: typeString, Default: "eng", Multi: true, FixedSize: -1})
}

func initTagsSchema() {
	cs := csTags
	cs.add(&SchemaEntry{Name: "Tag", ID: idTag, Type: typeContainer, Multi: true, Children: csTag, FixedSize: -1})

	tag := csTag
	tag.add(&SchemaEntry{Name: "Targets", ID: idTargets, Type: typeContainer, Children: csTargets, FixedSize: -1})
	tag.add(&SchemaEntry{Name: "SimpleTag", ID: idSimpleTag, Type: typeContainer, Multi: true, Children: csSimpleTag, FixedSize: -1})

	csTargets.add(&SchemaEntry{Name: "TargetTypeValue", ID: idTargetTypeValue, Type: typeUint, Default: uint64(50), FixedSize: -1})

	st := csSimpleTag
	st.add(&SchemaEntry{Name: "TagName", ID: idTagName, Type: typeString, FixedSize: -1})
	st.add(&SchemaEntry{Name: "TagLanguage", ID: idTagLanguage, Type: typeString, Default: "und", FixedSize: -1})
	st.add(&SchemaEntry{Name: "TagDefault", ID: idTagDefault, Type: typeUint, Default: uint64(1), FixedSize: -1})
	st.add(&SchemaEntry{Name: "TagString", ID: idTagString, Type: typeString, FixedSize: -1})
	st.add(&SchemaEntry{Name: "TagBinary", ID: idTagBinary, Type: typeBinary, FixedSize: -1})
	st.add(&SchemaEntry{Name: "SimpleTag", ID: idSimpleTag, Type: typeContainer, Multi: true, RecursiveNesting: true, Children: csSimpleTag, FixedSize: -1})
}

func initAttachmentsSchema() {
	cs := csAttachments
	cs.add(&SchemaEntry{Name: "AttachedFile", ID: idAttachedFile, Type: typeContainer, Multi: true, Children: csAttachedFile, FixedSize: -1})

	af := csAttachedFile
	af.add(&SchemaEntry{Name: "FileDescription", ID: idFileDescription, Type: typeString, FixedSize: -1})
	af.add(&SchemaEntry{Name: "FileName", ID: idFileName, Type: typeString, FixedSize: -1})
	af.add(&SchemaEntry{Name: "FileMimeType", ID: idFileMimeType, Type: typeString, FixedSize: -1})
	af.add(&SchemaEntry{Name: "FileData", ID: idFileData, Type: typeBinary, FixedSize: -1})
	af.add(&SchemaEntry{Name: "FileUID", ID: idFileUID, Type: typeUint, FixedSize: -1})
}

// schemaKey is the cache key for resolved (container, wire ID) lookups.
type schemaKey struct {
	container string
	id        uint32
}

// schemaCache memoizes containerSchema.resolve, since the same (container,
// ID) pair is looked up once per sibling and Cluster-heavy files can repeat
// the same handful of IDs millions of times. Sized generously enough to
// hold every entry in the whole graph without eviction churn -- the graph
// is small and fixed at compile time, so the cache exists purely to avoid
// repeating the two-map lookup in resolve, not to bound memory.
var schemaCache = mustLRU(512)

func mustLRU(size int) *lru.Cache[schemaKey, *SchemaEntry] {
	c, err := lru.New[schemaKey, *SchemaEntry](size)
	if err != nil {
		panic(err)
	}
	return c
}

// resolve looks up id as a child of cs, falling back to the global table
// (spec §4.4) when cs doesn't name it directly. ok is false for an entirely
// unknown ID, which the reader treats as a recoverable condition rather than
// an error: it records an UnknownElement warning and skips the payload. The
// unknown element is not stored in the tree.
func (cs *containerSchema) resolve(id uint32) (*SchemaEntry, bool) {
	key := schemaKey{cs.name, id}
	if cached, ok := schemaCache.Get(key); ok {
		return cached, cached != nil
	}

	e, ok := cs.byID[id]
	if !ok {
		e, ok = csGlobal.byID[id]
	}
	if !ok {
		schemaCache.Add(key, nil)
		return nil, false
	}
	schemaCache.Add(key, e)
	return e, true
}
