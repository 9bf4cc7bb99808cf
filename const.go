package cfbf

// ========================================================================= //
// Sizes and magic values for the Compound File Binary Format (CFBF / OLE2).
// ========================================================================= //

const (
	HeaderLen               = 512 // length of the CFB file header, in bytes
	SectorLen               = 512 // length of a regular sector, in bytes
	MiniSectorLen            = 64 // length of a mini sector, in bytes
	DirEntryLen              = 128 // length of a directory entry, in bytes
	NumDifatEntriesInHeader  = 109 // DIFAT entries stored directly in the header

	MiniStreamCutoff = 4096 // streams shorter than this live in the mini-stream

	// MaxStreamSize is the largest stream size the writer will emit: 2 GiB - 1.
	MaxStreamSize = 2_147_483_647
)

const (
	MinorVersion    uint16 = 0x003E
	ByteOrderMark   uint16 = 0xFFFE
	SectorShift     uint16 = 9 // 2^9 = 512
	MiniSectorShift uint16 = 6 // 2^6 = 64
)

// MagicNumber is the fixed 8-byte CFB file signature.
var MagicNumber = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Sector ID sentinels (little-endian on disk).
const (
	MaxRegSect uint32 = 0xFFFFFFFA // highest ordinary sector ID
	DifSect    uint32 = 0xFFFFFFFC // this FAT slot names a DIFAT sector
	FatSect    uint32 = 0xFFFFFFFD // this FAT slot names a FAT sector
	EndOfChain uint32 = 0xFFFFFFFE // chain terminator
	FreeSect   uint32 = 0xFFFFFFFF // unused slot
	NoStream   uint32 = 0xFFFFFFFF // directory "no sibling/child"
)

// Directory entry type bytes.
const (
	ObjUnallocated ObjectType = 0
	ObjStorage     ObjectType = 1
	ObjStream      ObjectType = 2
	ObjRoot        ObjectType = 5
)

// Directory entry color bytes.
const (
	ColorRed   Color = 0
	ColorBlack Color = 1
)

// RootEntryName is the fixed name of directory entry 0.
const RootEntryName = "Root Entry"

// RootStorage is the directory entry ID of the Root Entry, and the parent
// ID a caller passes to address the top-level storage.
const RootStorage uint32 = 0
