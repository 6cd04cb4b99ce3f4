package matroska

// EBML and Matroska element IDs.
//
// Every ID is a VINT in "ID form" (the length marker bit is kept, so the
// value below is exactly the byte pattern that appears on the wire). These
// are the numeric keys the schema in schema.go indexes by; see §4.4 of the
// design notes for how a container's children map ID -> *SchemaEntry.
const (
	// EBML header elements.
	idEBMLHeader             = 0x1A45DFA3
	idEBMLVersion            = 0x4286
	idEBMLReadVersion        = 0x42F7
	idEBMLMaxIDLength        = 0x42F2
	idEBMLMaxSizeLength      = 0x42F3
	idEBMLDocType            = 0x4282
	idEBMLDocTypeVersion     = 0x4287
	idEBMLDocTypeReadVersion = 0x4285

	// Segment.
	idSegment = 0x18538067

	// Meta Seek Information.
	idSeekHead = 0x114D9B74
	idSeek     = 0x4DBB
	idSeekID   = 0x53AB
	idSeekPos  = 0x53AC

	// Segment Information.
	idInfo             = 0x1549A966
	idSegmentUID       = 0x73A4
	idSegmentFilename  = 0x7384
	idPrevUID          = 0x3CB923
	idPrevFilename     = 0x3C83AB
	idNextUID          = 0x3EB923
	idNextFilename     = 0x3E83BB
	idSegmentFamily    = 0x4444
	idTimecodeScale    = 0x2AD7B1
	idDuration         = 0x4489
	idDateUTC          = 0x4461
	idTitle            = 0x7BA9
	idMuxingApp        = 0x4D80
	idWritingApp       = 0x5741

	// Tracks.
	idTracks                      = 0x1654AE6B
	idTrackEntry                  = 0xAE
	idTrackNumber                 = 0xD7
	idTrackUID                    = 0x73C5
	idTrackType                   = 0x83
	idFlagEnabled                 = 0xB9
	idFlagDefault                 = 0x88
	idFlagForced                  = 0x55AA
	idFlagLacing                  = 0x9C
	idDefaultDuration             = 0x23E383
	idDefaultDecodedFieldDuration = 0x234E7A
	idTrackName                   = 0x536E
	idLanguage                    = 0x22B59C
	idCodecID                     = 0x86
	idCodecPrivate                = 0x63A2
	idCodecName                   = 0x258688

	// Video settings.
	idVideo          = 0xE0
	idFlagInterlaced = 0x9A
	idPixelWidth     = 0xB0
	idPixelHeight    = 0xBA
	idDisplayWidth   = 0x54B0
	idDisplayHeight  = 0x54BA
	idDisplayUnit    = 0x54B2

	// Audio settings.
	idAudio                   = 0xE1
	idSamplingFrequency       = 0xB5
	idOutputSamplingFrequency = 0x78B5
	idChannels                = 0x9F
	idBitDepth                = 0x6264

	// Cluster.
	idCluster       = 0x1F43B675
	idTimecode      = 0xE7
	idSimpleBlock   = 0xA3
	idBlockGroup    = 0xA0
	idBlock         = 0xA1
	idBlockDuration = 0x9B
	idReferenceBlock = 0xFB

	// Cues.
	idCues               = 0x1C53BB6B
	idCuePoint           = 0xBB
	idCueTime            = 0xB3
	idCueTrackPositions  = 0xB7
	idCueTrack           = 0xF7
	idCueClusterPosition = 0xF1
	idCueDuration        = 0xB2
	idCueBlockNumber     = 0x5378

	// Chapters.
	idChapters         = 0x1043A770
	idEditionEntry     = 0x45B9
	idEditionUID       = 0x45BC
	idChapterAtom      = 0xB6
	idChapterUID       = 0x73C4
	idChapterTimeStart = 0x91
	idChapterTimeEnd   = 0x92
	idChapterDisplay   = 0x80
	idChapString       = 0x85
	idChapLanguage     = 0x437C

	// Tags.
	idTags           = 0x1254C367
	idTag            = 0x7373
	idTargets        = 0x63C0
	idTargetTypeValue = 0x68CA
	idSimpleTag      = 0x67C8
	idTagName        = 0x45A3
	idTagLanguage    = 0x447A
	idTagDefault     = 0x4484
	idTagString      = 0x4487
	idTagBinary      = 0x4485

	// Attachments.
	idAttachments     = 0x1941A469
	idAttachedFile    = 0x61A7
	idFileDescription = 0x467E
	idFileName        = 0x466E
	idFileMimeType    = 0x4660
	idFileData        = 0x465C
	idFileUID         = 0x46AE

	// Global elements (may appear as a child of any container).
	idCRC32         = 0xBF
	idVoid          = 0xEC
	idSignatureSlot = 0x1B538667
)

// elementType is the schema value type an Element carries in its Type
// field; String renders it as a lowercase name (see §3 of the design notes).
type elementType int

const (
	typeUnknown elementType = iota
	typeInt
	typeUint
	typeFloat
	typeDate
	typeString
	typeBinary
	typeContainer
)

func (t elementType) String() string {
	switch t {
	case typeInt:
		return "int"
	case typeUint:
		return "uint"
	case typeFloat:
		return "float"
	case typeDate:
		return "date"
	case typeString:
		return "string"
	case typeBinary:
		return "binary"
	case typeContainer:
		return "container"
	default:
		return "unknown"
	}
}
