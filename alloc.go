package cfbf

import "fmt"

// Allocator is the reader's view of the FAT: it validates the table
// against the DIFAT's own bookkeeping sectors and steps chains one link
// at a time.
type Allocator struct {
	Sectors        *Sectors
	DifatSectorIDs []uint32
	FatSectorIDs   []uint32
	Fat            []uint32
	Validation     Validation
}

// NewAllocator validates fat/difatSectorIDs/fatSectorIDs against each
// other and the sector count before returning a usable Allocator.
func NewAllocator(sectors *Sectors, difatSectorIDs, fatSectorIDs, fat []uint32, validation Validation) (*Allocator, error) {
	a := &Allocator{
		Sectors:        sectors,
		DifatSectorIDs: difatSectorIDs,
		FatSectorIDs:   fatSectorIDs,
		Fat:            fat,
		Validation:     validation,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Next returns the sector that follows index in its chain, one of a
// regular sector ID or EndOfChain.
func (a *Allocator) Next(index uint32) (uint32, error) {
	if index >= uint32(len(a.Fat)) {
		return 0, fmt.Errorf("fat index %d out of range (%d entries): %w", index, len(a.Fat), ErrOutOfRange)
	}

	next := a.Fat[index]
	if next == EndOfChain {
		return next, nil
	}
	if next == FreeSect {
		return 0, fmt.Errorf("sector %d chains to a free sector: %w", index, ErrCorruptFAT)
	}
	if next > MaxRegSect {
		return 0, fmt.Errorf("sector %d chains to reserved sentinel %#x: %w", index, next, ErrCorruptFAT)
	}
	if next >= uint32(len(a.Fat)) {
		return 0, fmt.Errorf("sector %d chains to out-of-range sector %d: %w", index, next, ErrOutOfRange)
	}
	return next, nil
}

// Validate cross-checks that every sector the DIFAT claims is a FAT
// sector is marked FatSect in the FAT itself (and that every regular
// FAT entry points at a sector at most once), repairing minor
// inconsistencies in permissive mode.
func (a *Allocator) Validate() error {
	if len(a.Fat) > int(a.Sectors.NumSectors) {
		return fmt.Errorf("fat has %d entries, but file has %d sectors: %w",
			len(a.Fat), a.Sectors.NumSectors, ErrInvalidCFB)
	}

	for _, difatSector := range a.DifatSectorIDs {
		if difatSector >= uint32(len(a.Fat)) {
			return fmt.Errorf("fat has %d entries, but difat chain lists %d as a difat sector: %w",
				len(a.Fat), difatSector, ErrInvalidCFB)
		}
		if a.Fat[difatSector] != DifSect {
			if a.Validation.IsStrict() {
				return fmt.Errorf("sector %d is not marked DifSect in the fat: %w", difatSector, ErrInvalidCFB)
			}
			a.Fat[difatSector] = DifSect
		}
	}

	for _, fatSector := range a.FatSectorIDs {
		if fatSector >= uint32(len(a.Fat)) {
			return fmt.Errorf("fat has %d entries, but difat lists %d as a fat sector: %w",
				len(a.Fat), fatSector, ErrInvalidCFB)
		}
		if a.Fat[fatSector] != FatSect {
			if a.Validation.IsStrict() {
				return fmt.Errorf("sector %d is not marked FatSect in the fat: %w", fatSector, ErrInvalidCFB)
			}
			a.Fat[fatSector] = FatSect
		}
	}

	pointees := make(map[uint32]bool, len(a.Fat))
	for idx, next := range a.Fat {
		if next > MaxRegSect {
			if next == FreeSect {
				continue
			}
			if next != FatSect && next != DifSect && next != EndOfChain {
				return fmt.Errorf("fat entry %d has unknown sentinel %#x: %w", idx, next, ErrCorruptFAT)
			}
			continue
		}
		if next >= uint32(len(a.Fat)) {
			return fmt.Errorf("fat entry %d points to out-of-range sector %d: %w", idx, next, ErrOutOfRange)
		}
		if pointees[next] {
			return fmt.Errorf("fat entry %d points to sector %d, already claimed by another chain: %w", idx, next, ErrCorruptFAT)
		}
		pointees[next] = true
	}

	return nil
}

// sectorAllocator is the writer's forward counterpart: it appends data
// to a growing regular-sector buffer, one FAT entry per sector, and
// returns the chain's head sector ID.
type sectorAllocator struct {
	sectors []byte   // concatenated 512-byte sectors
	fat     []uint32 // one entry per sector in sectors
}

// allocate pads data to a whole number of sectors, appends it to the
// buffer, links the new sectors into a chain terminated by EndOfChain,
// and returns the chain's head sector ID. Empty data allocates nothing
// and returns EndOfChain, matching spec.md §3's empty-stream rule.
func (sa *sectorAllocator) allocate(data []byte) uint32 {
	if len(data) == 0 {
		return EndOfChain
	}

	head := uint32(len(sa.fat))
	n := ceilDiv(len(data), SectorLen)
	padded := make([]byte, n*SectorLen)
	copy(padded, data)
	sa.sectors = append(sa.sectors, padded...)

	start := len(sa.fat)
	for i := 0; i < n; i++ {
		sa.fat = append(sa.fat, EndOfChain)
		if i > 0 {
			sa.fat[start+i-1] = uint32(start + i)
		}
	}
	return head
}
