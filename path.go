package cfbf

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// MaxNameLen is the longest name the writer will accept, in UTF-16 code
// units (the 64-byte name field holds at most 31 code units plus a NUL
// terminator).
const MaxNameLen = 31

// Ordering is the result of CompareNames.
type Ordering int

const (
	OrderLess Ordering = iota
	OrderEqual
	OrderGreater
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// EncodeUTF16LE encodes a Go string to UTF-16LE bytes, the encoding
// every name field in a CFBF container uses on disk.
func EncodeUTF16LE(s string) ([]byte, error) {
	b, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %q as utf-16le: %w", s, ErrInvalidName)
	}
	return b, nil
}

// DecodeUTF16LE decodes UTF-16LE bytes as stored in a name field back to
// a Go string.
func DecodeUTF16LE(b []byte) (string, error) {
	out, err := utf16LE.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode utf-16le name: %w", ErrInvalidName)
	}
	return string(out), nil
}

// ValidateName rejects names the writer will not emit: any of the four
// characters MS-CFB reserves for path separators and drive markers, and
// names that would overflow the 31-code-unit name field.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\:!") {
		return fmt.Errorf("name %q contains a reserved character: %w", name, ErrInvalidName)
	}
	b, err := EncodeUTF16LE(name)
	if err != nil {
		return err
	}
	if len(b)/2 > MaxNameLen {
		return fmt.Errorf("name %q: %w", name, ErrFilenameTooLong)
	}
	return nil
}

// CompareNames implements the MS-CFB canonical sibling ordering: the
// UTF-16LE byte length of the uppercased name, then lexicographic
// UTF-16LE code-unit comparison of the uppercased names. Names that
// fail to encode compare as though empty, so Ordering is still total.
func CompareNames(nameLeft, nameRight string) Ordering {
	left, _ := EncodeUTF16LE(strings.ToUpper(nameLeft))
	right, _ := EncodeUTF16LE(strings.ToUpper(nameRight))

	if len(left) != len(right) {
		if len(left) < len(right) {
			return OrderLess
		}
		return OrderGreater
	}

	for i := 0; i+1 < len(left); i += 2 {
		lu := uint16(left[i]) | uint16(left[i+1])<<8
		ru := uint16(right[i]) | uint16(right[i+1])<<8
		if lu != ru {
			if lu < ru {
				return OrderLess
			}
			return OrderGreater
		}
	}
	return OrderEqual
}

// NameChainFromPath splits a slash-separated path into its component
// names, cleaning "." and ".." segments and dropping a leading "Root
// Entry" segment if present (the prefix PathFromNameChain adds). A path
// that climbs above its root (e.g. "foo/../../baz") yields an empty
// chain.
func NameChainFromPath(s string) []string {
	s = path.Clean(s)
	if s == "" {
		return []string{}
	}

	if s[0] == '/' {
		s = s[1:]
	}

	if s == "" {
		return []string{}
	}

	if strings.HasPrefix(s, "..") {
		return []string{}
	}

	names := strings.Split(s, "/")
	if len(names) > 0 && names[0] == RootEntryName {
		names = names[1:]
	}
	return names
}

// PathFromNameChain joins a chain of directory entry names into a
// Root-Entry-prefixed slash-separated path, the inverse of
// NameChainFromPath.
func PathFromNameChain(names []string) string {
	if len(names) == 0 {
		return RootEntryName
	}
	return RootEntryName + "/" + strings.Join(names, "/")
}
