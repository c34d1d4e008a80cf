package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetEngines(t *testing.T) {
	require.Equal(t, binary.ByteOrder(binary.LittleEndian), binary.ByteOrder(GetLittleEndianEngine()))
	require.Equal(t, binary.ByteOrder(binary.BigEndian), binary.ByteOrder(GetBigEndianEngine()))
}

func TestLittleEndianAppend(t *testing.T) {
	engine := GetLittleEndianEngine()
	buf := engine.AppendUint32(nil, 0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)
	require.Equal(t, uint32(0x01020304), engine.Uint32(buf))
}

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.True(t, order == binary.LittleEndian || order == binary.BigEndian)
	require.Equal(t, order == binary.LittleEndian, IsNativeLittleEndian())
}
