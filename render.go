package cfbf

import (
	"encoding/binary"
	"fmt"
)

// Render serializes the Document into a complete CFBF byte stream,
// following spec.md §2's writer data flow: allocate every stream,
// assemble the mini-stream, build and allocate the directory, allocate
// the mini-FAT, then let the FAT/DIFAT finalizer close the loop and
// prepend the header.
func (d *Document) Render() ([]byte, error) {
	if len(d.objects) == 1 {
		return nil, ErrEmpty
	}

	sa := &sectorAllocator{}
	ma := &miniStreamAllocator{}
	alloc := make(map[uint32]allocationInfo, len(d.objects))

	for _, obj := range d.objects {
		if obj.isStorage {
			continue
		}
		if len(obj.data) > MaxStreamSize {
			return nil, fmt.Errorf("stream %q is %d bytes: %w", obj.name, len(obj.data), ErrFileTooLarge)
		}

		size := uint64(len(obj.data))
		var start uint32
		if size == 0 {
			start = EndOfChain
		} else if size < MiniStreamCutoff {
			start = ma.allocate(obj.data)
		} else {
			start = sa.allocate(obj.data)
		}
		alloc[obj.id] = allocationInfo{startSector: start, size: size}
	}

	rootSize := uint64(len(ma.stream))
	rootStart := sa.allocate(ma.stream)

	dirBytes, err := buildDirectory(d, alloc, rootStart, rootSize)
	if err != nil {
		return nil, err
	}
	firstDirSector := sa.allocate(dirBytes)

	minifatBytes := encodeMiniFAT(ma.minifat)
	firstMinifatSector := sa.allocate(minifatBytes)
	numMinifatSectors := uint32(0)
	if len(minifatBytes) > 0 {
		numMinifatSectors = uint32(ceilDiv(len(minifatBytes), SectorLen))
	}

	firstDifatSector, numDifatSectors, numFatSectors, difatInHeader := sa.finalize()

	header := &Header{
		Version:            V3,
		NumFatSectors:      numFatSectors,
		FirstDirSector:      firstDirSector,
		FirstMinifatSector: firstMinifatSector,
		NumMinifatSectors:  numMinifatSectors,
		FirstDifatSector:   firstDifatSector,
		NumDifatSectors:    numDifatSectors,
		DifatInHeader:      difatInHeader,
	}

	out := make([]byte, 0, HeaderLen+len(sa.sectors))
	out = append(out, header.Encode()...)
	out = append(out, sa.sectors...)
	return out, nil
}

// encodeMiniFAT packs the mini-FAT entries into their on-disk uint32
// array form, padding the final sector with FreeSect (spec.md §4.3) so
// the buffer handed to sa.allocate is already sector-aligned and its
// trailing slots read back as free, not as spurious chain links.
func encodeMiniFAT(minifat []uint32) []byte {
	total := ceilDiv(len(minifat), fatEntriesPerSector) * fatEntriesPerSector
	buf := make([]byte, total*4)
	for i := 0; i < total; i++ {
		v := FreeSect
		if i < len(minifat) {
			v = minifat[i]
		}
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	return buf
}
