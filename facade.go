package cfbf

import "io"

// Files returns every stream in the container as a FileEntry, in the
// same in-order sibling/child walk Directory.Entries performs.
func (cf *CompoundFile) Files() ([]FileEntry, error) {
	entries, err := cf.Directory.Entries()
	if err != nil {
		return nil, err
	}

	root := cf.Directory.RootDirEntry()
	var out []FileEntry
	for _, e := range entries {
		if e.ObjType != ObjStream {
			continue
		}
		out = append(out, fileEntryFrom(e, root.StartingSector))
	}
	return out, nil
}

// FileData reads the whole of entry's stream data into memory.
func (cf *CompoundFile) FileData(entry FileEntry) ([]byte, error) {
	stream, err := cf.OpenStream(entry.Path)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(stream)
}
