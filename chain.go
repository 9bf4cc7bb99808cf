package cfbf

import (
	"fmt"
	"io"
)

// Chain is the reader's materialized sector chain: the full list of
// sector IDs a stream occupies, walked once up front, plus a read
// cursor over the concatenation of those sectors.
type Chain struct {
	Allocator *Allocator
	SectorIDs []uint32
	offset    uint64
}

// NewChain walks the FAT starting at startingSectorID until it reaches
// EndOfChain, guarding against cycles by bounding the walk at the
// number of sectors the FAT actually describes.
func NewChain(allocator *Allocator, startingSectorID uint32) (*Chain, error) {
	var sectorIDs []uint32
	seen := make(map[uint32]bool)
	current := startingSectorID

	for current != EndOfChain {
		if seen[current] {
			return nil, fmt.Errorf("chain revisits sector %d: %w", current, ErrCyclicChain)
		}
		seen[current] = true
		sectorIDs = append(sectorIDs, current)

		if len(sectorIDs) > len(allocator.Fat) {
			return nil, fmt.Errorf("chain longer than the fat itself: %w", ErrCyclicChain)
		}

		next, err := allocator.Next(current)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return &Chain{Allocator: allocator, SectorIDs: sectorIDs}, nil
}

func (c *Chain) NumSectors() uint32 {
	return uint32(len(c.SectorIDs))
}

// Len is the total byte length of the chain's backing sectors (not the
// logical stream size, which may be shorter due to sector padding).
func (c *Chain) Len() uint64 {
	return uint64(SectorLen) * uint64(len(c.SectorIDs))
}

func (c *Chain) Read(p []byte) (int, error) {
	remaining := c.Len() - c.offset
	max := uint64(len(p))
	if remaining < max {
		max = remaining
	}
	if max == 0 {
		return 0, io.EOF
	}

	sectorIndex := uint32(c.offset / SectorLen)
	sectorID := c.SectorIDs[sectorIndex]
	withinSector := int64(c.offset % SectorLen)

	sector, err := c.Allocator.Sectors.SeekWithinSector(sectorID, withinSector)
	if err != nil {
		return 0, err
	}
	if remSector := uint64(sector.Remaining()); max > remSector {
		max = remSector
	}

	n, err := sector.Read(p[:max])
	if err != nil {
		return 0, err
	}

	c.offset += uint64(n)
	return n, nil
}

func (c *Chain) Seek(offset int64, whence int) (int64, error) {
	length := int64(c.Len())
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = int64(c.offset) + offset
	case io.SeekEnd:
		newOffset = length + offset
	}

	if newOffset < 0 || newOffset > length {
		return 0, fmt.Errorf("seek to %d out of range [0,%d]: %w", newOffset, length, ErrOutOfRange)
	}

	c.offset = uint64(newOffset)
	return newOffset, nil
}
