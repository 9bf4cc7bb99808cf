package cfbf

import "encoding/binary"

// ceilDiv is integer division rounded up, used throughout the writer
// for sector/mini-sector padding arithmetic.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

const (
	fatEntriesPerSector    = SectorLen / 4        // 128
	difatForwardPerSector  = fatEntriesPerSector - 1 // 127, last slot is the next-DIFAT-sector pointer
)

// sizeFAT is the self-referential fixed point at the heart of §4.5: the
// FAT must describe every sector in the file, including the FAT's own
// sectors and any DIFAT overflow sectors, so its size depends on
// itself. The loop is monotonic (each iteration's sector count is never
// smaller than the last) and bounded (fatCount/difatCount cannot exceed
// payloadSectors+1), so it always terminates.
func sizeFAT(payloadSectors int) (fatCount, difatCount int) {
	for {
		total := payloadSectors + fatCount + difatCount
		newFatCount := ceilDiv(total, fatEntriesPerSector)
		newDifatCount := 0
		if newFatCount > NumDifatEntriesInHeader {
			newDifatCount = ceilDiv(newFatCount-NumDifatEntriesInHeader, difatForwardPerSector)
		}
		if newFatCount == fatCount && newDifatCount == difatCount {
			return fatCount, difatCount
		}
		fatCount, difatCount = newFatCount, newDifatCount
	}
}

// encodeFATSectors packs fat into fatCount whole 512-byte sectors,
// padding any unused trailing entries with FreeSect.
func encodeFATSectors(fat []uint32, fatCount int) []byte {
	total := fatCount * fatEntriesPerSector
	buf := make([]byte, total*4)
	for i := 0; i < total; i++ {
		v := FreeSect
		if i < len(fat) {
			v = fat[i]
		}
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	return buf
}

// encodeDIFATSectors packs the FAT sector IDs that didn't fit in the
// header's 109 DIFAT slots into difatSectorIDs, chaining each sector to
// the next via its final entry.
func encodeDIFATSectors(overflow []uint32, difatSectorIDs []uint32) []byte {
	buf := make([]byte, 0, len(difatSectorIDs)*SectorLen)
	for i := range difatSectorIDs {
		start := i * difatForwardPerSector
		end := start + difatForwardPerSector
		if end > len(overflow) {
			end = len(overflow)
		}
		var chunk []uint32
		if start < len(overflow) {
			chunk = overflow[start:end]
		}

		sector := make([]byte, SectorLen)
		for j := 0; j < difatForwardPerSector; j++ {
			v := FreeSect
			if j < len(chunk) {
				v = chunk[j]
			}
			binary.LittleEndian.PutUint32(sector[j*4:j*4+4], v)
		}

		next := EndOfChain
		if i+1 < len(difatSectorIDs) {
			next = difatSectorIDs[i+1]
		}
		binary.LittleEndian.PutUint32(sector[difatForwardPerSector*4:fatEntriesPerSector*4], next)

		buf = append(buf, sector...)
	}
	return buf
}

// finalize appends the FAT's own sectors (and, if the FAT itself grew
// past 109 sectors, DIFAT overflow sectors) to sa, marking their FAT
// entries FatSect/DifSect, and returns the header fields describing
// them.
func (sa *sectorAllocator) finalize() (firstDifatSector, numDifatSectors, numFatSectors uint32, difatInHeader [NumDifatEntriesInHeader]uint32) {
	payload := len(sa.fat)
	fatCount, difatCount := sizeFAT(payload)

	base := uint32(len(sa.fat))
	fatSectorIDs := make([]uint32, fatCount)
	for i := range fatSectorIDs {
		fatSectorIDs[i] = base + uint32(i)
	}
	difatSectorIDs := make([]uint32, difatCount)
	for i := range difatSectorIDs {
		difatSectorIDs[i] = base + uint32(fatCount) + uint32(i)
	}

	for range fatSectorIDs {
		sa.fat = append(sa.fat, FatSect)
	}
	for range difatSectorIDs {
		sa.fat = append(sa.fat, DifSect)
	}

	sa.sectors = append(sa.sectors, encodeFATSectors(sa.fat, fatCount)...)

	for i := range difatInHeader {
		difatInHeader[i] = FreeSect
	}
	headerCount := fatCount
	if headerCount > NumDifatEntriesInHeader {
		headerCount = NumDifatEntriesInHeader
	}
	copy(difatInHeader[:headerCount], fatSectorIDs[:headerCount])

	first := uint32(EndOfChain)
	if difatCount > 0 {
		first = difatSectorIDs[0]
		overflow := fatSectorIDs[NumDifatEntriesInHeader:]
		sa.sectors = append(sa.sectors, encodeDIFATSectors(overflow, difatSectorIDs)...)
	}

	return first, uint32(difatCount), uint32(fatCount), difatInHeader
}
