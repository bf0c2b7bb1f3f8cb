package endian

import "testing"

func TestLittleEndian_RoundTrips(t *testing.T) {
	eng := LittleEndian()
	buf := eng.AppendUint64(nil, 0x0102030405060708)
	if buf[0] != 0x08 {
		t.Fatalf("expected little-endian byte order, got %x", buf)
	}
	if got := eng.Uint64(buf); got != 0x0102030405060708 {
		t.Fatalf("round trip mismatch: got %x", got)
	}
}

func TestBigEndian_RoundTrips(t *testing.T) {
	eng := BigEndian()
	buf := eng.AppendUint64(nil, 0x0102030405060708)
	if buf[0] != 0x01 {
		t.Fatalf("expected big-endian byte order, got %x", buf)
	}
	if got := eng.Uint64(buf); got != 0x0102030405060708 {
		t.Fatalf("round trip mismatch: got %x", got)
	}
}
