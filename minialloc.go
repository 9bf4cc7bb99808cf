package cfbf

import (
	"fmt"
	"io"
)

// MiniAlloc is the reader's view of the mini-FAT: mini-sector chains
// live inside the mini-stream, which itself is an ordinary chain of
// regular sectors rooted at the Root Entry.
type MiniAlloc struct {
	Minifat   []uint32
	RootChain *Chain // backs the mini-stream itself
}

// NewMiniAlloc validates the mini-FAT against the Root Entry's declared
// stream size before returning a usable MiniAlloc.
func NewMiniAlloc(minifat []uint32, rootStreamSize uint64, rootChain *Chain) (*MiniAlloc, error) {
	a := &MiniAlloc{Minifat: minifat, RootChain: rootChain}
	if err := a.Validate(rootStreamSize); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *MiniAlloc) Validate(rootStreamSize uint64) error {
	availableMiniSectors := rootStreamSize / MiniSectorLen

	pointees := make(map[uint32]bool, len(a.Minifat))
	for idx, next := range a.Minifat {
		if next == FreeSect {
			continue
		}
		// The minifat sector is padded with FreeSect out to a whole
		// 512-byte sector, so len(a.Minifat) routinely exceeds the mini
		// sectors the root stream actually backs; only a slot some
		// chain actually occupies needs to fall within rootStreamSize.
		if uint64(idx) >= availableMiniSectors {
			return fmt.Errorf("minifat[%d] is in use, but root stream has only %d mini sectors: %w",
				idx, availableMiniSectors, ErrInvalidCFB)
		}
		if next > MaxRegSect {
			continue
		}
		if next >= uint32(len(a.Minifat)) {
			return fmt.Errorf("minifat[%d] points to out-of-range mini sector %d: %w", idx, next, ErrOutOfRange)
		}
		if pointees[next] {
			return fmt.Errorf("mini sector %d pointed to twice: %w", next, ErrCorruptFAT)
		}
		pointees[next] = true
	}

	return nil
}

// Next returns the mini sector following index in its chain.
func (a *MiniAlloc) Next(index uint32) (uint32, error) {
	if index >= uint32(len(a.Minifat)) {
		return 0, fmt.Errorf("minifat index %d out of range: %w", index, ErrOutOfRange)
	}
	next := a.Minifat[index]
	if next != EndOfChain && next > MaxRegSect {
		return 0, fmt.Errorf("minifat[%d] has unknown sentinel %#x: %w", index, next, ErrCorruptFAT)
	}
	return next, nil
}

// ReadAt reads length bytes of a mini sector's backing bytes out of the
// mini-stream (which lives inside RootChain, the Root Entry's regular
// sector chain), at mini-sector miniSectorID.
func (a *MiniAlloc) ReadAt(miniSectorID uint32, buf []byte) (int, error) {
	offset := int64(miniSectorID) * MiniSectorLen
	if _, err := a.RootChain.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	return io.ReadFull(a.RootChain, buf)
}

// miniStreamAllocator is the writer's forward counterpart to MiniAlloc:
// it accumulates mini-stream bytes and mini-FAT entries at 64-byte
// granularity, mirroring sectorAllocator at the mini-sector scale.
type miniStreamAllocator struct {
	stream []byte
	minifat []uint32
}

// allocate pads data to a whole number of mini-sectors, appends it to
// the mini-stream buffer, links the new mini-sectors into a chain, and
// returns the chain's head mini-sector ID.
func (ma *miniStreamAllocator) allocate(data []byte) uint32 {
	if len(data) == 0 {
		return EndOfChain
	}

	head := uint32(len(ma.minifat))
	n := ceilDiv(len(data), MiniSectorLen)
	padded := make([]byte, n*MiniSectorLen)
	copy(padded, data)
	ma.stream = append(ma.stream, padded...)

	start := len(ma.minifat)
	for i := 0; i < n; i++ {
		ma.minifat = append(ma.minifat, EndOfChain)
		if i > 0 {
			ma.minifat[start+i-1] = uint32(start + i)
		}
	}
	return head
}
