package core

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testSeg struct {
	kind byte
	num  byte
	data []byte
}

func buildTestROM(t *testing.T, romBanks, ramBanks, tileBanks, dpcmBanks byte, segs []testSeg) []byte {
	t.Helper()

	var body bytes.Buffer
	for _, s := range segs {
		body.WriteByte(s.kind)
		body.WriteByte(s.num)
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s.data)))
		body.Write(lenBuf[:])
		body.Write(s.data)
	}

	header := make([]byte, romHeaderSize)
	copy(header[0:4], romMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(romHeaderSize+body.Len()))
	header[12] = romBanks
	header[13] = ramBanks
	header[14] = tileBanks
	header[15] = dpcmBanks
	copy(header[20:36], "test-cart")
	copy(header[36:68], "a test cart")

	return append(header, body.Bytes()...)
}

func TestLoadROMSegments(t *testing.T) {
	romFixed := bytes.Repeat([]byte{0xAA}, 16)
	romSwap := bytes.Repeat([]byte{0xBB}, 16)
	ramSwap := bytes.Repeat([]byte{0xCC}, 16)
	tile := bytes.Repeat([]byte{0xDD}, 16)
	dpcm := bytes.Repeat([]byte{0xEE}, 16)

	data := buildTestROM(t, 1, 1, 1, 1, []testSeg{
		{segROMFixed, 0, romFixed},
		{segROMSwap, 0, romSwap},
		{segRAMSwap, 0, ramSwap},
		{segTileSwap, 0, tile},
		{segDPCMSwap, 0, dpcm},
	})

	cart, err := LoadROM(data)
	require.NoError(t, err)
	require.Equal(t, "test-cart", cart.Name)
	require.Equal(t, "a test cart", cart.Description)
	require.Equal(t, romFixed, cart.RomFixed[:len(romFixed)])
	require.Equal(t, romSwap, cart.RomSwap[0][:len(romSwap)])
	require.Equal(t, ramSwap, cart.RamSwap[0][:len(ramSwap)])
	require.Equal(t, tile, cart.Tile[0][:len(tile)])
	require.Equal(t, dpcm, cart.DPCM[0][:len(dpcm)])
}

func TestLoadROMRejectsBadMagic(t *testing.T) {
	data := buildTestROM(t, 0, 0, 0, 0, nil)
	data[0] = 'X'
	_, err := LoadROM(data)
	require.True(t, errors.Is(err, ErrRomHeaderInvalid))
}

func TestLoadROMRejectsTruncated(t *testing.T) {
	data := buildTestROM(t, 0, 0, 0, 0, []testSeg{{segROMFixed, 0, []byte{1, 2, 3}}})
	data = data[:len(data)-2] // chop off the last segment's tail
	_, err := LoadROM(data)
	require.True(t, errors.Is(err, ErrRomTruncated))
}

func TestLoadROMRejectsUnknownSegmentType(t *testing.T) {
	data := buildTestROM(t, 0, 0, 0, 0, []testSeg{{0x7F, 0, []byte{1}}})
	_, err := LoadROM(data)
	require.True(t, errors.Is(err, ErrSegmentTypeUnknown))
}

func TestLoadROMRejectsBankIndexOutOfRange(t *testing.T) {
	data := buildTestROM(t, 1, 0, 0, 0, []testSeg{{segROMSwap, 3, []byte{1}}})
	_, err := LoadROM(data)
	require.True(t, errors.Is(err, ErrBankIndexOutOfRange))
}

func TestCartPersistentRoundTrip(t *testing.T) {
	var c Cart
	for i := range c.Persist {
		c.Persist[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, c.SavePersistent(&buf))

	var loaded Cart
	require.NoError(t, loaded.LoadPersistent(&buf))
	require.Equal(t, c.Persist, loaded.Persist)
}
