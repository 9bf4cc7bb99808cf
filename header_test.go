package cfbf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := &Header{
		Version:            V3,
		NumFatSectors:      3,
		FirstDirSector:     1,
		FirstMinifatSector: 2,
		NumMinifatSectors:  1,
		FirstDifatSector:   EndOfChain,
		NumDifatSectors:    0,
	}
	for i := range h.DifatInHeader {
		h.DifatInHeader[i] = FreeSect
	}
	h.DifatInHeader[0] = 4
	h.DifatInHeader[1] = 5

	buf := h.Encode()
	require.Len(t, buf, HeaderLen)

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	h := &Header{Version: V3, FirstDifatSector: EndOfChain}
	buf := h.Encode()
	buf[0] = 0x00

	_, err := DecodeHeader(buf)
	require.ErrorIs(t, err, ErrInvalidCFB)
}

func TestDecodeHeaderRejectsWrongLength(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderLen-1))
	require.ErrorIs(t, err, ErrInvalidCFB)
}

func TestDecodeHeaderNormalizesFreeSectDifat(t *testing.T) {
	h := &Header{Version: V3, FirstDifatSector: FreeSect}
	buf := h.Encode()

	got, err := DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, EndOfChain, got.FirstDifatSector)
}

func TestVersionNumberRejectsV4(t *testing.T) {
	_, err := VersionNumber(4)
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}
