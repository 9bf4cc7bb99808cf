package cfbf

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// withBackings runs fn against both an in-memory buffer and a real
// *os.File-backed io.ReadSeeker wrapping the same bytes, so a round-trip
// test that uses it exercises both addressing paths.
func withBackings(t *testing.T, data []byte, fn func(t *testing.T, r io.ReadSeeker)) {
	t.Run("bytes.Reader", func(t *testing.T) {
		fn(t, bytes.NewReader(data))
	})

	t.Run("os.File", func(t *testing.T) {
		f, err := ioutil.TempFile("", "cfbf-*.bin")
		require.NoError(t, err)
		defer os.Remove(f.Name())

		_, err = f.Write(data)
		require.NoError(t, err)
		_, err = f.Seek(0, io.SeekStart)
		require.NoError(t, err)
		defer f.Close()

		fn(t, f)
	})
}

func filePaths(files []FileEntry) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)
	return paths
}

// S1: a single small stream at the root, living in the mini-stream.
func TestRoundTripSingleSmallStream(t *testing.T) {
	d := New()
	_, err := d.AddStream(RootStorage, "Data1", []byte("hello, world"))
	require.NoError(t, err)

	data, err := d.Render()
	require.NoError(t, err)

	withBackings(t, data, func(t *testing.T, r io.ReadSeeker) {
		cf, err := Open(r, ValidationStrict)
		require.NoError(t, err)

		files, err := cf.Files()
		require.NoError(t, err)
		require.Equal(t, []string{"Root Entry/Data1"}, filePaths(files))
		require.NotNil(t, files[0].MiniStreamSector)

		got, err := cf.FileData(files[0])
		require.NoError(t, err)
		require.Equal(t, "hello, world", string(got))

		stream, err := cf.OpenStream("/Data1")
		require.NoError(t, err)
		require.EqualValues(t, 12, stream.Size())
	})
}

// S2: a nested storage holding a stream large enough to live outside the
// mini-stream.
func TestRoundTripNestedStorageLargeStream(t *testing.T) {
	d := New()
	sub, err := d.AddStorage(RootStorage, "Storage1")
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("x"), MiniStreamCutoff+100)
	_, err = d.AddStream(sub, "Big", payload)
	require.NoError(t, err)

	data, err := d.Render()
	require.NoError(t, err)

	withBackings(t, data, func(t *testing.T, r io.ReadSeeker) {
		cf, err := Open(r, ValidationStrict)
		require.NoError(t, err)

		files, err := cf.Files()
		require.NoError(t, err)
		require.Equal(t, []string{"Root Entry/Storage1/Big"}, filePaths(files))
		require.Nil(t, files[0].MiniStreamSector)

		got, err := cf.FileData(files[0])
		require.NoError(t, err)
		require.Equal(t, payload, got)
	})
}

// S3: four mini streams, exercising canonical sibling ordering.
func TestRoundTripFourMiniStreamsCanonicalOrder(t *testing.T) {
	d := New()
	names := []string{"Zed", "Alpha", "Middle", "Beta"}
	for _, name := range names {
		_, err := d.AddStream(RootStorage, name, []byte(name))
		require.NoError(t, err)
	}

	data, err := d.Render()
	require.NoError(t, err)

	withBackings(t, data, func(t *testing.T, r io.ReadSeeker) {
		cf, err := Open(r, ValidationStrict)
		require.NoError(t, err)

		files, err := cf.Files()
		require.NoError(t, err)
		// Canonical order: shorter names first (Zed, Beta, Alpha, Middle),
		// so Files must return them in that order, unsorted.
		walkOrder := make([]string, len(files))
		for i, f := range files {
			walkOrder[i] = f.Path
		}
		require.Equal(t,
			[]string{"Root Entry/Zed", "Root Entry/Beta", "Root Entry/Alpha", "Root Entry/Middle"},
			walkOrder)

		for _, f := range files {
			got, err := cf.FileData(f)
			require.NoError(t, err)
			require.Equal(t, strings.TrimPrefix(f.Path, RootEntryName+"/"), string(got))
		}
	})
}

// S4: a stream large enough to push the FAT past its 109-sector header
// capacity and force a DIFAT overflow sector.
func TestRoundTripForcesDIFATOverflow(t *testing.T) {
	d := New()
	payload := bytes.Repeat([]byte("z"), 58*1024*1024)
	_, err := d.AddStream(RootStorage, "Huge", payload)
	require.NoError(t, err)

	data, err := d.Render()
	require.NoError(t, err)

	cf, err := Open(bytes.NewReader(data), ValidationStrict)
	require.NoError(t, err)
	require.Greater(t, cf.Header.NumDifatSectors, uint32(0))
	require.NotEqual(t, EndOfChain, cf.Header.FirstDifatSector)

	files, err := cf.Files()
	require.NoError(t, err)
	require.Equal(t, []string{"Root Entry/Huge"}, filePaths(files))

	got, err := cf.FileData(files[0])
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

// S5: a stream sized right at the FAT's self-referential fixed point,
// where the FAT sector added to describe the payload tips the payload
// itself into needing a second FAT sector (see TestSizeFATFixedPoint).
func TestRoundTripAtFATFixedPointEdge(t *testing.T) {
	payload := bytes.Repeat([]byte("y"), 127*SectorLen)

	d := New()
	_, err := d.AddStream(RootStorage, "Edge", payload)
	require.NoError(t, err)

	data, err := d.Render()
	require.NoError(t, err)

	cf, err := Open(bytes.NewReader(data), ValidationStrict)
	require.NoError(t, err)
	require.EqualValues(t, 0, cf.Header.NumDifatSectors)

	files, err := cf.Files()
	require.NoError(t, err)
	got, err := cf.FileData(files[0])
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

// S6: an empty document cannot be rendered.
func TestRenderEmptyDocument(t *testing.T) {
	d := New()
	_, err := d.Render()
	require.ErrorIs(t, err, ErrEmpty)
}

// S7: a name exceeding the 31-code-unit field is rejected up front, not
// deferred to Render.
func TestAddStreamRejectsNameTooLong(t *testing.T) {
	d := New()
	long := ""
	for i := 0; i < 32; i++ {
		long += "a"
	}
	_, err := d.AddStream(RootStorage, long, nil)
	require.ErrorIs(t, err, ErrFilenameTooLong)
}

func TestRoundTripEmptyStream(t *testing.T) {
	d := New()
	_, err := d.AddStream(RootStorage, "Empty", nil)
	require.NoError(t, err)
	_, err = d.AddStream(RootStorage, "NonEmpty", []byte("x"))
	require.NoError(t, err)

	data, err := d.Render()
	require.NoError(t, err)

	cf, err := Open(bytes.NewReader(data), ValidationStrict)
	require.NoError(t, err)

	stream, err := cf.OpenStream("/Empty")
	require.NoError(t, err)
	require.EqualValues(t, 0, stream.Size())

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestOpenStreamRejectsUnknownPath(t *testing.T) {
	d := New()
	_, err := d.AddStream(RootStorage, "Data1", []byte("a"))
	require.NoError(t, err)
	data, err := d.Render()
	require.NoError(t, err)

	cf, err := Open(bytes.NewReader(data), ValidationStrict)
	require.NoError(t, err)

	_, err = cf.OpenStream("/NoSuchStream")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	d := New()
	_, err := d.AddStream(RootStorage, "Data1", []byte("hello"))
	require.NoError(t, err)
	data, err := d.Render()
	require.NoError(t, err)

	_, err = Open(bytes.NewReader(data[:HeaderLen-1]), ValidationStrict)
	require.ErrorIs(t, err, ErrInvalidCFB)
}

func TestRoundTripDeepHierarchy(t *testing.T) {
	d := New()
	var parent uint32 = RootStorage
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("Level%d", i)
		id, err := d.AddStorage(parent, name)
		require.NoError(t, err)
		parent = id
	}
	_, err := d.AddStream(parent, "Leaf", []byte("deep"))
	require.NoError(t, err)

	data, err := d.Render()
	require.NoError(t, err)

	cf, err := Open(bytes.NewReader(data), ValidationStrict)
	require.NoError(t, err)

	stream, err := cf.OpenStream("/Level0/Level1/Level2/Level3/Level4/Leaf")
	require.NoError(t, err)
	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	require.Equal(t, "deep", string(got))
}
