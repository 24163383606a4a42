package wire

import (
	"testing"

	"github.com/pippo1980/pbrowreader/bytesource"
)

func newTestReader(b []byte) *Reader {
	return New(bytesource.NewRewindable(b))
}

func TestReadVarintSingleByte(t *testing.T) {
	r := newTestReader([]byte{0x01})
	start := r.cursor
	v, err := r.readVarint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	if r.cursor-start != 1 {
		t.Fatalf("cursor advanced by %d, want 1", r.cursor-start)
	}
}

func TestReadVarintMultiByte(t *testing.T) {
	// 300 = 0b100101100 -> low 7 bits 0101100 with continuation, then 0b10
	r := newTestReader([]byte{0xAC, 0x02})
	v, err := r.readVarint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 300 {
		t.Fatalf("got %d, want 300", v)
	}
}

func TestReadVarintMaxUint64TenBytesWithLegalTerminator(t *testing.T) {
	// 9 bytes of 0xFF (continuation set, all data bits set) followed by the
	// only legal 10th byte, 0x01.
	buf := append([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0x01)
	r := newTestReader(buf)
	start := r.cursor
	v, err := r.readVarint()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != ^uint64(0) {
		t.Fatalf("got %d, want max uint64", v)
	}
	if r.cursor-start != 10 {
		t.Fatalf("cursor advanced by %d, want 10", r.cursor-start)
	}
}

func TestReadVarintTenthByteMustBeOne(t *testing.T) {
	buf := append([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 0x02)
	r := newTestReader(buf)
	if _, err := r.readVarint(); err == nil {
		t.Fatalf("expected FormatError for illegal 10th byte")
	}
}

func TestReadVarintNeverTerminates(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	r := newTestReader(buf)
	if _, err := r.readVarint(); err == nil {
		t.Fatalf("expected FormatError for runaway continuation")
	}
}

func TestReadVarintTruncated(t *testing.T) {
	r := newTestReader([]byte{0x80})
	if _, err := r.readVarint(); err == nil {
		t.Fatalf("expected FormatError for truncated varint")
	}
}

func TestIgnoreVarintAdvancesCursorLikeRead(t *testing.T) {
	buf := []byte{0xAC, 0x02}
	r := newTestReader(buf)
	start := r.cursor
	if err := r.ignoreVarint(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.cursor-start != 2 {
		t.Fatalf("cursor advanced by %d, want 2", r.cursor-start)
	}
}

func TestZigZag32RoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 2, -2, 2147483647, -2147483648}
	for _, v := range cases {
		got := DecodeZigZag32(EncodeZigZag32(v))
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestZigZag64RoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 2, -2, 9223372036854775807, -9223372036854775808}
	for _, v := range cases {
		got := DecodeZigZag64(EncodeZigZag64(v))
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestZigZagKnownEncodings(t *testing.T) {
	// from the protobuf spec's own worked examples
	cases := map[int32]uint64{0: 0, -1: 1, 1: 2, -2: 3, 2: 4}
	for v, want := range cases {
		if got := EncodeZigZag32(v); got != want {
			t.Errorf("EncodeZigZag32(%d) = %d, want %d", v, got, want)
		}
	}
}
