package cfbf

import "sort"

// allocationInfo records where a single stream's (or the mini-stream's)
// bytes ended up once the sector/mini-sector allocators ran.
type allocationInfo struct {
	startSector uint32
	size        uint64
}

// buildDirectory shapes the Document's object tree into one balanced
// sibling BST per storage (spec.md §4.4 steps 1-2), then encodes every
// directory entry into its fixed 128-byte record, padding the result
// with unallocated entries up to a whole number of sectors (step 3).
func buildDirectory(d *Document, alloc map[uint32]allocationInfo, rootStart uint32, rootSize uint64) ([]byte, error) {
	entries := make([]*DirEntry, len(d.objects))

	for _, obj := range d.objects {
		var objType ObjectType
		var start uint32
		var size uint64

		switch {
		case obj.id == RootStorage:
			objType = ObjRoot
			start = rootStart
			size = rootSize
		case obj.isStorage:
			objType = ObjStorage
			start = RootStorage
		default:
			objType = ObjStream
			info := alloc[obj.id]
			start = info.startSector
			size = info.size
		}

		entries[obj.id] = NewDirEntry(obj.name, objType)
		entries[obj.id].StartingSector = start
		entries[obj.id].StreamSize = size
	}

	for _, obj := range d.objects {
		if !obj.isStorage {
			continue
		}
		children := append([]uint32(nil), obj.children...)
		sort.Slice(children, func(i, j int) bool {
			return CompareNames(d.objects[children[i]].name, d.objects[children[j]].name) == OrderLess
		})
		entries[obj.id].Child = buildSubtree(children, entries)
	}

	buf := make([]byte, 0, len(entries)*DirEntryLen)
	for _, e := range entries {
		b, err := e.Encode()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}

	perSector := SectorLen / DirEntryLen
	for len(buf)/DirEntryLen%perSector != 0 {
		unused := NewDirEntry("", ObjUnallocated)
		// Pad entries are red, not black (spec.md §4.4 step 3) — only
		// named/data entries are colored black.
		unused.Color = ColorRed
		b, err := unused.Encode()
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}

	return buf, nil
}

// buildSubtree recursively splits a sorted slice of sibling IDs at its
// midpoint, wiring the midpoint entry's LeftSibling/RightSibling to the
// roots of the two halves. Returns NoStream for an empty slice.
func buildSubtree(ids []uint32, entries []*DirEntry) uint32 {
	if len(ids) == 0 {
		return NoStream
	}
	mid := len(ids) / 2
	root := ids[mid]
	entries[root].LeftSibling = buildSubtree(ids[:mid], entries)
	entries[root].RightSibling = buildSubtree(ids[mid+1:], entries)
	return root
}
