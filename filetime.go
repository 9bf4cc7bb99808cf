package cfbf

import "time"

// filetimeEpochOffset100ns is the number of 100ns ticks between the
// Windows FILETIME epoch (1601-01-01) and the Unix epoch (1970-01-01).
const filetimeEpochOffset100ns = 116444736000000000

// filetimeToTime converts a FILETIME value to a Unix time. A zero
// FILETIME (unset, as the writer always emits) has no well-defined
// Unix time and converts to nil.
func filetimeToTime(ft uint64) *time.Time {
	if ft == 0 {
		return nil
	}
	micros := (int64(ft) - filetimeEpochOffset100ns) / 10
	t := time.UnixMicro(micros).UTC()
	return &t
}
