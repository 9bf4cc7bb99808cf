package cfbf

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// DirEntry is the 128-byte on-disk directory entry record, shared by
// reader and writer.
type DirEntry struct {
	Name           string
	ObjType        ObjectType
	Color          Color
	LeftSibling    uint32
	RightSibling   uint32
	Child          uint32
	CLSID          uuid.UUID
	StateBits      uint32
	CreationTime   uint64
	ModifiedTime   uint64
	StartingSector uint32
	StreamSize     uint64
}

// NewDirEntry builds a writer-side directory entry with the sentinels a
// freshly created object uses before it is linked into a sibling tree.
func NewDirEntry(name string, objType ObjectType) *DirEntry {
	start := EndOfChain
	if objType.IsStorageLike() {
		start = RootStorage
	}
	return &DirEntry{
		Name:         name,
		ObjType:      objType,
		Color:        ColorBlack,
		LeftSibling:  NoStream,
		RightSibling: NoStream,
		Child:        NoStream,
		StartingSector: start,
	}
}

// Encode writes the entry in its fixed 128-byte on-disk layout.
func (d *DirEntry) Encode() ([]byte, error) {
	nameBytes, err := EncodeUTF16LE(d.Name)
	if err != nil {
		return nil, err
	}
	if len(nameBytes) > 62 {
		return nil, fmt.Errorf("name %q: %w", d.Name, ErrFilenameTooLong)
	}

	buf := make([]byte, DirEntryLen)
	copy(buf[0:64], nameBytes)
	// Name Length includes the 2-byte NUL terminator, per MS-CFB.
	binary.LittleEndian.PutUint16(buf[64:66], uint16(len(nameBytes)+2))
	buf[66] = byte(d.ObjType)
	buf[67] = byte(d.Color)
	binary.LittleEndian.PutUint32(buf[68:72], d.LeftSibling)
	binary.LittleEndian.PutUint32(buf[72:76], d.RightSibling)
	binary.LittleEndian.PutUint32(buf[76:80], d.Child)
	clsidBytes, err := d.CLSID.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal clsid: %w", err)
	}
	copy(buf[80:96], clsidBytes)
	binary.LittleEndian.PutUint32(buf[96:100], d.StateBits)
	binary.LittleEndian.PutUint64(buf[100:108], d.CreationTime)
	binary.LittleEndian.PutUint64(buf[108:116], d.ModifiedTime)
	binary.LittleEndian.PutUint32(buf[116:120], d.StartingSector)
	binary.LittleEndian.PutUint64(buf[120:128], d.StreamSize)
	return buf, nil
}

// DecodeDirEntry parses one 128-byte directory entry record.
func DecodeDirEntry(buf []byte) (*DirEntry, error) {
	if len(buf) != DirEntryLen {
		return nil, fmt.Errorf("directory entry must be %d bytes, got %d: %w", DirEntryLen, len(buf), ErrInvalidCFB)
	}

	nameLen := binary.LittleEndian.Uint16(buf[64:66])
	var name string
	if nameLen >= 2 {
		raw := buf[0:66]
		if int(nameLen)-2 > 64 {
			return nil, fmt.Errorf("directory entry name length %d exceeds field: %w", nameLen, ErrInvalidCFB)
		}
		raw = buf[0 : nameLen-2]
		decoded, err := DecodeUTF16LE(raw)
		if err != nil {
			return nil, err
		}
		name = decoded
	}

	clsid, err := uuid.FromBytes(buf[80:96])
	if err != nil {
		return nil, fmt.Errorf("parse clsid: %w", err)
	}

	return &DirEntry{
		Name:           name,
		ObjType:        ObjectType(buf[66]),
		Color:          Color(buf[67]),
		LeftSibling:    binary.LittleEndian.Uint32(buf[68:72]),
		RightSibling:   binary.LittleEndian.Uint32(buf[72:76]),
		Child:          binary.LittleEndian.Uint32(buf[76:80]),
		CLSID:          clsid,
		StateBits:      binary.LittleEndian.Uint32(buf[96:100]),
		CreationTime:   binary.LittleEndian.Uint64(buf[100:108]),
		ModifiedTime:   binary.LittleEndian.Uint64(buf[108:116]),
		StartingSector: binary.LittleEndian.Uint32(buf[116:120]),
		StreamSize:     binary.LittleEndian.Uint64(buf[120:128]),
	}, nil
}
