// Package endian provides byte order utilities for the posting-list wire formats.
//
// Both posting codecs store their fixed-width integers little-endian so that
// index files are portable across machines. This package combines the
// ByteOrder and AppendByteOrder interfaces from encoding/binary into a single
// EndianEngine interface; the encoding package reads and writes its wire
// integers through one package-level engine so that the byte order is pinned
// in exactly one place.
//
// Most callers should use GetLittleEndianEngine, the default for seki:
//
//	engine := endian.GetLittleEndianEngine()
//	id := engine.Uint32(blob[:4])
//
// CheckEndianness is available for diagnostics when reading index blobs that
// were written by the original host-native implementation.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for byte order operations.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian, so it is fully
// compatible with existing code while also providing append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. A little-endian host stores the LSB (0x00) first,
	// a big-endian host stores the MSB (0x01) first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host is little-endian.
func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
