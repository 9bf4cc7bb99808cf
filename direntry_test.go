package cfbf

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDirEntryEncodeDecodeRoundTrip(t *testing.T) {
	d := NewDirEntry("Data1", ObjStream)
	d.LeftSibling = 3
	d.RightSibling = 4
	d.Child = NoStream
	d.CLSID = uuid.New()
	d.StateBits = 7
	d.CreationTime = 132223104000000000
	d.ModifiedTime = 132223104000000000
	d.StartingSector = 9
	d.StreamSize = 1234

	buf, err := d.Encode()
	require.NoError(t, err)
	require.Len(t, buf, DirEntryLen)

	got, err := DecodeDirEntry(buf)
	require.NoError(t, err)
	require.Equal(t, d, got)
}

func TestDirEntryEncodeRejectsLongName(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "x"
	}
	d := NewDirEntry(long, ObjStream)
	_, err := d.Encode()
	require.ErrorIs(t, err, ErrFilenameTooLong)
}

func TestDirEntryEncodeNameLengthIncludesTerminator(t *testing.T) {
	d := NewDirEntry(RootEntryName, ObjRoot)
	buf, err := d.Encode()
	require.NoError(t, err)

	nameBytes, err := EncodeUTF16LE(RootEntryName)
	require.NoError(t, err)
	require.Equal(t, uint16(len(nameBytes)+2), leUint16(buf[64:66]))
}

func leUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func TestNewDirEntryDefaults(t *testing.T) {
	d := NewDirEntry("S1", ObjStorage)
	require.Equal(t, ColorBlack, d.Color)
	require.Equal(t, NoStream, d.LeftSibling)
	require.Equal(t, NoStream, d.RightSibling)
	require.Equal(t, NoStream, d.Child)
	require.Equal(t, RootStorage, d.StartingSector)

	s := NewDirEntry("stream", ObjStream)
	require.Equal(t, EndOfChain, s.StartingSector)
}
