package cfbf

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a directory entry as exposed by the directory tree walk,
// carrying its resolved path alongside the raw DirEntry fields.
type Entry struct {
	Name         string
	Path         string
	ObjType      ObjectType
	CLSID        uuid.UUID
	StateBits    uint32
	CreationTime uint64
	ModifiedTime uint64
	StreamLen    uint64

	StartingSector uint32
}

// NewEntry builds a walk-result Entry from a decoded DirEntry and the
// path the walk reconstructed for it.
func NewEntry(dirEntry *DirEntry, path string) *Entry {
	return &Entry{
		Name:           dirEntry.Name,
		Path:           path,
		ObjType:        dirEntry.ObjType,
		CLSID:          dirEntry.CLSID,
		StateBits:      dirEntry.StateBits,
		CreationTime:   dirEntry.CreationTime,
		ModifiedTime:   dirEntry.ModifiedTime,
		StreamLen:      dirEntry.StreamSize,
		StartingSector: dirEntry.StartingSector,
	}
}

// FileEntry is the reader's public, per-stream result, as named in
// spec.md §6/§3.
type FileEntry struct {
	Path             string
	StartSector      uint32
	Size             uint64
	CLSID            string
	CreationTime     *time.Time
	ModifiedTime     *time.Time
	MiniStreamSector *uint32
}

// fileEntryFrom converts a walk Entry into the public FileEntry shape,
// given the Root Entry's start sector (the mini-stream's backing
// regular-sector chain head).
func fileEntryFrom(e *Entry, rootStart uint32) FileEntry {
	fe := FileEntry{
		Path:         e.Path,
		StartSector:  e.StartingSector,
		Size:         e.StreamLen,
		CLSID:        e.CLSID.String(),
		CreationTime: filetimeToTime(e.CreationTime),
		ModifiedTime: filetimeToTime(e.ModifiedTime),
	}
	if e.StreamLen < MiniStreamCutoff {
		sector := rootStart
		fe.MiniStreamSector = &sector
	}
	return fe
}
