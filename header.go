package cfbf

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header is the fixed 512-byte CFB file header.
type Header struct {
	Version Version

	NumFatSectors      uint32
	FirstDirSector     uint32
	FirstMinifatSector uint32
	NumMinifatSectors  uint32
	FirstDifatSector   uint32
	NumDifatSectors    uint32

	// DifatInHeader holds the 109 DIFAT entries stored directly in the
	// header; FreeSect marks an unused slot.
	DifatInHeader [NumDifatEntriesInHeader]uint32
}

// DecodeHeader parses and validates the 512-byte header. Version 4
// (sector shift 12) is rejected: this reader only supports version 3.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) != HeaderLen {
		return nil, fmt.Errorf("header must be %d bytes, got %d: %w", HeaderLen, len(buf), ErrInvalidCFB)
	}

	if !bytes.Equal(buf[0:8], MagicNumber) {
		return nil, fmt.Errorf("bad magic number: %w", ErrInvalidCFB)
	}

	byteOrderMark := binary.LittleEndian.Uint16(buf[28:30])
	if byteOrderMark != ByteOrderMark {
		return nil, fmt.Errorf("byte order mark 0x%04x, expected 0x%04x: %w", byteOrderMark, ByteOrderMark, ErrInvalidCFB)
	}

	majorVersion := binary.LittleEndian.Uint16(buf[26:28])
	version, err := VersionNumber(majorVersion)
	if err != nil {
		return nil, err
	}

	sectorShift := binary.LittleEndian.Uint16(buf[30:32])
	if sectorShift != SectorShift {
		return nil, fmt.Errorf("sector shift %d, expected %d: %w", sectorShift, SectorShift, ErrUnsupportedVersion)
	}

	miniSectorShift := binary.LittleEndian.Uint16(buf[32:34])
	if miniSectorShift != MiniSectorShift {
		return nil, fmt.Errorf("mini sector shift %d, expected %d: %w", miniSectorShift, MiniSectorShift, ErrInvalidCFB)
	}

	miniStreamCutoff := binary.LittleEndian.Uint32(buf[56:60])
	if miniStreamCutoff != MiniStreamCutoff {
		return nil, fmt.Errorf("mini stream cutoff %d, expected %d: %w", miniStreamCutoff, MiniStreamCutoff, ErrInvalidCFB)
	}

	h := &Header{
		Version:            version,
		NumFatSectors:      binary.LittleEndian.Uint32(buf[44:48]),
		FirstDirSector:     binary.LittleEndian.Uint32(buf[48:52]),
		FirstMinifatSector: binary.LittleEndian.Uint32(buf[60:64]),
		NumMinifatSectors:  binary.LittleEndian.Uint32(buf[64:68]),
		FirstDifatSector:   binary.LittleEndian.Uint32(buf[68:72]),
		NumDifatSectors:    binary.LittleEndian.Uint32(buf[72:76]),
	}

	// Some writers use FreeSect to mean "no DIFAT sectors" instead of
	// EndOfChain; normalize here so downstream chain walks see one
	// consistent terminator.
	if h.FirstDifatSector == FreeSect {
		h.FirstDifatSector = EndOfChain
	}

	for i := 0; i < NumDifatEntriesInHeader; i++ {
		off := 76 + i*4
		h.DifatInHeader[i] = binary.LittleEndian.Uint32(buf[off : off+4])
	}

	return h, nil
}

// Encode writes h in its fixed 512-byte on-disk layout.
func (h *Header) Encode() []byte {
	buf := make([]byte, HeaderLen)
	copy(buf[0:8], MagicNumber)
	// buf[8:24] CLSID, reserved, left zero.
	binary.LittleEndian.PutUint16(buf[24:26], MinorVersion)
	binary.LittleEndian.PutUint16(buf[26:28], uint16(h.Version))
	binary.LittleEndian.PutUint16(buf[28:30], ByteOrderMark)
	binary.LittleEndian.PutUint16(buf[30:32], SectorShift)
	binary.LittleEndian.PutUint16(buf[32:34], MiniSectorShift)
	// buf[34:40] reserved, left zero.
	// buf[40:44] number of directory sectors, always 0 in version 3.
	binary.LittleEndian.PutUint32(buf[44:48], h.NumFatSectors)
	binary.LittleEndian.PutUint32(buf[48:52], h.FirstDirSector)
	// buf[52:56] transaction signature, unused, left zero.
	binary.LittleEndian.PutUint32(buf[56:60], MiniStreamCutoff)
	binary.LittleEndian.PutUint32(buf[60:64], h.FirstMinifatSector)
	binary.LittleEndian.PutUint32(buf[64:68], h.NumMinifatSectors)
	binary.LittleEndian.PutUint32(buf[68:72], h.FirstDifatSector)
	binary.LittleEndian.PutUint32(buf[72:76], h.NumDifatSectors)

	for i := 0; i < NumDifatEntriesInHeader; i++ {
		off := 76 + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], h.DifatInHeader[i])
	}

	return buf
}
