// Package endian supplies the byte-order engine used to pack the CSX control
// stream's fixed-width integers. It exists so the builder can target either
// byte order without branching on every write, matching the natural-alignment
// load order a given execution engine expects.
package endian

import "encoding/binary"

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface, satisfied directly by binary.LittleEndian/BigEndian.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// LittleEndian returns the little-endian engine, the default for the CSX
// control stream.
func LittleEndian() Engine { return binary.LittleEndian }

// BigEndian returns the big-endian engine.
func BigEndian() Engine { return binary.BigEndian }
