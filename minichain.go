package cfbf

import (
	"fmt"
	"io"
)

// MiniChain is the mini-FAT counterpart to Chain: the full list of
// mini-sector IDs a sub-cutoff stream occupies, plus a read cursor.
type MiniChain struct {
	MiniAlloc *MiniAlloc
	SectorIDs []uint32
	offset    uint64
}

// NewMiniChain walks the mini-FAT starting at sectorID, guarding
// against cycles the same way NewChain does for the regular FAT.
func NewMiniChain(miniAlloc *MiniAlloc, sectorID uint32) (*MiniChain, error) {
	var sectorIDs []uint32
	seen := make(map[uint32]bool)
	current := sectorID

	for current != EndOfChain {
		if seen[current] {
			return nil, fmt.Errorf("mini chain revisits sector %d: %w", current, ErrCyclicChain)
		}
		seen[current] = true
		sectorIDs = append(sectorIDs, current)

		if len(sectorIDs) > len(miniAlloc.Minifat) {
			return nil, fmt.Errorf("mini chain longer than the minifat itself: %w", ErrCyclicChain)
		}

		next, err := miniAlloc.Next(current)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return &MiniChain{MiniAlloc: miniAlloc, SectorIDs: sectorIDs}, nil
}

func (c *MiniChain) Len() uint64 {
	return uint64(MiniSectorLen) * uint64(len(c.SectorIDs))
}

func (c *MiniChain) Read(p []byte) (int, error) {
	remaining := c.Len() - c.offset
	max := uint64(len(p))
	if remaining < max {
		max = remaining
	}
	if max == 0 {
		return 0, io.EOF
	}

	sectorIndex := uint32(c.offset / MiniSectorLen)
	sectorID := c.SectorIDs[sectorIndex]
	withinSector := c.offset % MiniSectorLen

	buf := make([]byte, MiniSectorLen)
	if _, err := c.MiniAlloc.ReadAt(sectorID, buf); err != nil {
		return 0, err
	}

	n := copy(p[:max], buf[withinSector:])
	c.offset += uint64(n)
	return n, nil
}

func (c *MiniChain) Seek(offset int64, whence int) (int64, error) {
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
