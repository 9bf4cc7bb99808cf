package cfbf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// CompoundFile is an opened CFBF container: a parsed header, FAT,
// directory tree, and mini-FAT, all addressable against the backing
// io.ReadSeeker.
type CompoundFile struct {
	Header     *Header
	Allocator  *Allocator
	Directory  *Directory
	MiniAlloc  *MiniAlloc
	Validation Validation

	reader io.ReadSeeker
}

// Open parses r as a CFBF container, validating its header, FAT,
// DIFAT, and directory tree under validation v.
func Open(r io.ReadSeeker, v Validation) (*CompoundFile, error) {
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if size < HeaderLen {
		return nil, fmt.Errorf("file is only %d bytes: %w", size, ErrInvalidCFB)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	headerBuf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, headerBuf); err != nil {
		return nil, err
	}
	header, err := DecodeHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	sectors := NewSectors(size, r)

	difatSectorIDs, fatSectorIDs, err := readDIFAT(sectors, header)
	if err != nil {
		return nil, err
	}
	if v.IsStrict() && header.NumDifatSectors != uint32(len(difatSectorIDs)) {
		return nil, fmt.Errorf("header says %d difat sectors, chain has %d: %w",
			header.NumDifatSectors, len(difatSectorIDs), ErrInvalidCFB)
	}

	fat, err := readFAT(sectors, fatSectorIDs)
	if err != nil {
		return nil, err
	}
	if v.IsStrict() && header.NumFatSectors != uint32(len(fatSectorIDs)) {
		return nil, fmt.Errorf("header says %d fat sectors, difat says %d: %w",
			header.NumFatSectors, len(fatSectorIDs), ErrInvalidCFB)
	}

	allocator, err := NewAllocator(sectors, difatSectorIDs, fatSectorIDs, fat, v)
	if err != nil {
		return nil, err
	}

	dirChain, err := NewChain(allocator, header.FirstDirSector)
	if err != nil {
		return nil, err
	}
	dirBytes, err := io.ReadAll(dirChain)
	if err != nil {
		return nil, err
	}
	dirEntries, err := decodeDirEntries(dirBytes)
	if err != nil {
		return nil, err
	}

	directory, err := NewDirectory(allocator, dirEntries, header.FirstDirSector)
	if err != nil {
		return nil, err
	}

	var minifat []uint32
	if header.FirstMinifatSector != EndOfChain {
		minifatChain, err := NewChain(allocator, header.FirstMinifatSector)
		if err != nil {
			return nil, err
		}
		if v.IsStrict() && header.NumMinifatSectors != minifatChain.NumSectors() {
			return nil, fmt.Errorf("header says %d minifat sectors, chain has %d: %w",
				header.NumMinifatSectors, minifatChain.NumSectors(), ErrInvalidCFB)
		}
		minifatBytes, err := io.ReadAll(minifatChain)
		if err != nil {
			return nil, err
		}
		minifat = decodeUint32Array(minifatBytes)
	}

	root := directory.RootDirEntry()
	rootChain, err := NewChain(allocator, root.StartingSector)
	if err != nil {
		return nil, err
	}

	miniAlloc, err := NewMiniAlloc(minifat, root.StreamSize, rootChain)
	if err != nil {
		return nil, err
	}

	return &CompoundFile{
		Header:     header,
		Allocator:  allocator,
		Directory:  directory,
		MiniAlloc:  miniAlloc,
		Validation: v,
		reader:     r,
	}, nil
}

// readDIFAT collects every FAT sector ID, starting with the 109 stored
// directly in the header and continuing through any DIFAT overflow
// sectors, returning both the DIFAT sector IDs themselves (needed to
// cross-validate the FAT) and the ordered list of FAT sector IDs.
func readDIFAT(sectors *Sectors, header *Header) (difatSectorIDs []uint32, fatSectorIDs []uint32, err error) {
	for _, id := range header.DifatInHeader {
		if id != FreeSect {
			fatSectorIDs = append(fatSectorIDs, id)
		}
	}

	current := header.FirstDifatSector
	seen := make(map[uint32]bool)
	for current != EndOfChain {
		if seen[current] {
			return nil, nil, fmt.Errorf("difat chain revisits sector %d: %w", current, ErrCyclicChain)
		}
		seen[current] = true
		difatSectorIDs = append(difatSectorIDs, current)

		sector, err := sectors.SeekToSector(current)
		if err != nil {
			return nil, nil, err
		}
		buf := make([]byte, SectorLen)
		if _, err := io.ReadFull(sector, buf); err != nil {
			return nil, nil, err
		}

		for i := 0; i < difatForwardPerSector; i++ {
			v := binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
			if v != FreeSect {
				fatSectorIDs = append(fatSectorIDs, v)
			}
		}
		current = binary.LittleEndian.Uint32(buf[difatForwardPerSector*4 : fatEntriesPerSector*4])
	}

	return difatSectorIDs, fatSectorIDs, nil
}

// readFAT reads and concatenates every FAT sector named by fatSectorIDs,
// then drops trailing FreeSect entries past the file's sector count (the
// padding of the last FAT sector), so the FAT describes only sectors that
// exist.
func readFAT(sectors *Sectors, fatSectorIDs []uint32) ([]uint32, error) {
	var fat []uint32
	for _, id := range fatSectorIDs {
		sector, err := sectors.SeekToSector(id)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, SectorLen)
		if _, err := io.ReadFull(sector, buf); err != nil {
			return nil, err
		}
		fat = append(fat, decodeUint32Array(buf)...)
	}
	for len(fat) > int(sectors.NumSectors) && fat[len(fat)-1] == FreeSect {
		fat = fat[:len(fat)-1]
	}
	return fat, nil
}

func decodeUint32Array(buf []byte) []uint32 {
	out := make([]uint32, len(buf)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return out
}

func decodeDirEntries(buf []byte) ([]*DirEntry, error) {
	if len(buf)%DirEntryLen != 0 {
		return nil, fmt.Errorf("directory stream length %d is not a multiple of %d: %w", len(buf), DirEntryLen, ErrInvalidCFB)
	}
	out := make([]*DirEntry, len(buf)/DirEntryLen)
	for i := range out {
		e, err := DecodeDirEntry(buf[i*DirEntryLen : (i+1)*DirEntryLen])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// OpenStream opens a streaming reader for the stream at path.
func (cf *CompoundFile) OpenStream(path string) (*Stream, error) {
	names := NameChainFromPath(path)
	id, err := cf.Directory.StreamIDForNameChain(names)
	if err != nil {
		return nil, err
	}

	entry := cf.Directory.DirEntries[id]
	if entry.ObjType != ObjStream {
		return nil, fmt.Errorf("%q is not a stream: %w", path, ErrNotAStream)
	}

	if entry.StreamSize < MiniStreamCutoff {
		chain, err := NewMiniChain(cf.MiniAlloc, entry.StartingSector)
		if err != nil {
			return nil, err
		}
		return newStream(chain, entry.StreamSize), nil
	}

	chain, err := NewChain(cf.Allocator, entry.StartingSector)
	if err != nil {
		return nil, err
	}
	return newStream(chain, entry.StreamSize), nil
}
