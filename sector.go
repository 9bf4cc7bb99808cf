package cfbf

import (
	"fmt"
	"io"
)

// Sectors addresses the 512-byte-sector space of a reader, sector IDs
// numbered from 0 immediately after the 512-byte header.
type Sectors struct {
	NumSectors uint32

	inner io.ReadSeeker
}

// Sector is a read cursor positioned somewhere inside one sector.
type Sector struct {
	Len    int64
	Offset int64

	reader io.ReadSeeker
}

// NewSectors builds a Sectors view over a reader of the given total
// byte length (header included).
func NewSectors(bufferLength int64, reader io.ReadSeeker) *Sectors {
	numSectors := int64(0)
	if bufferLength > HeaderLen {
		numSectors = (bufferLength - HeaderLen + SectorLen - 1) / SectorLen
	}
	return &Sectors{
		NumSectors: uint32(numSectors),
		inner:      reader,
	}
}

// SeekToSector positions a new Sector cursor at the start of sectorID.
func (s *Sectors) SeekToSector(sectorID uint32) (*Sector, error) {
	return s.SeekWithinSector(sectorID, 0)
}

// SeekWithinSector positions a new Sector cursor at the given byte
// offset within sectorID.
func (s *Sectors) SeekWithinSector(sectorID uint32, offset int64) (*Sector, error) {
	if sectorID >= s.NumSectors {
		return nil, fmt.Errorf("sector %d out of range (have %d sectors): %w", sectorID, s.NumSectors, ErrOutOfRange)
	}

	if _, err := s.inner.Seek(int64(HeaderLen)+int64(sectorID)*SectorLen+offset, io.SeekStart); err != nil {
		return nil, err
	}

	return &Sector{
		Len:    SectorLen,
		Offset: offset,
		reader: s.inner,
	}, nil
}

// Remaining is the number of unread bytes left in the sector.
func (s *Sector) Remaining() int64 {
	return s.Len - s.Offset
}

// Read implements io.Reader, bounded to the remainder of the sector.
func (s *Sector) Read(p []byte) (int, error) {
	max := int64(len(p))
	if remaining := s.Remaining(); remaining < max {
		max = remaining
	}
	if max == 0 {
		return 0, io.EOF
	}

	n, err := s.reader.Read(p[:max])
	if err != nil {
		return 0, err
	}

	s.Offset += int64(n)
	return n, nil
}
