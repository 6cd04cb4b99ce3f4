package matroska

import (
	"math"
	"testing"
	"time"
)

func TestDecodeUintInt(t *testing.T) {
	if got := decodeUint([]byte{0x01, 0x02}); got != 0x0102 {
		t.Errorf("decodeUint = %#x, want 0x102", got)
	}
	if got := decodeInt([]byte{0xFF}); got != -1 {
		t.Errorf("decodeInt(0xFF) = %d, want -1", got)
	}
	if got := decodeInt([]byte{0x01}); got != 1 {
		t.Errorf("decodeInt(0x01) = %d, want 1", got)
	}
	if got := decodeInt([]byte{0x80, 0x00}); got != -32768 {
		t.Errorf("decodeInt(0x8000) = %d, want -32768", got)
	}
}

func TestDecodeFloat32And64(t *testing.T) {
	four := []byte{0x3F, 0x80, 0x00, 0x00} // 1.0 as float32
	v, ok := decodeFloat(four)
	if !ok || v != 1.0 {
		t.Errorf("decodeFloat(4-byte 1.0) = (%v, %v), want (1, true)", v, ok)
	}

	eight := make([]byte, 8)
	bits := math.Float64bits(-2.5)
	for i := 0; i < 8; i++ {
		eight[i] = byte(bits >> uint(56-8*i))
	}
	v, ok = decodeFloat(eight)
	if !ok || v != -2.5 {
		t.Errorf("decodeFloat(8-byte -2.5) = (%v, %v), want (-2.5, true)", v, ok)
	}
}

func TestDecodeFloatBadSize(t *testing.T) {
	if _, ok := decodeFloat([]byte{0x00, 0x00}); ok {
		t.Errorf("decodeFloat(2 bytes) reported ok, want false")
	}
}

func TestDecodeFloat80Zero(t *testing.T) {
	data := make([]byte, 10)
	if v := decodeFloat80(data); v != 0 {
		t.Errorf("decodeFloat80(all zero) = %v, want 0", v)
	}
}

func TestDecodeFloat80One(t *testing.T) {
	// 1.0 in 80-bit extended: exponent biased = 0x3FFF, explicit integer
	// bit set, fraction zero.
	data := []byte{0x3F, 0xFF, 0x80, 0, 0, 0, 0, 0, 0, 0}
	got := decodeFloat80(data)
	if got != 1.0 {
		t.Errorf("decodeFloat80(1.0) = %v, want 1", got)
	}
}

func TestDecodeFloat80NegativeTwo(t *testing.T) {
	// -2.0: sign bit set, exponent 0x4000 (1.0's exponent + 1), same
	// significand as 1.0.
	data := []byte{0xC0, 0x00, 0x80, 0, 0, 0, 0, 0, 0, 0}
	got := decodeFloat80(data)
	if got != -2.0 {
		t.Errorf("decodeFloat80(-2.0) = %v, want -2", got)
	}
}

func TestDecodeFloat80Infinity(t *testing.T) {
	data := []byte{0x7F, 0xFF, 0x80, 0, 0, 0, 0, 0, 0, 0}
	got := decodeFloat80(data)
	if !math.IsInf(got, 1) {
		t.Errorf("decodeFloat80(+Inf pattern) = %v, want +Inf", got)
	}
}

func TestDecodeFloat80NaN(t *testing.T) {
	data := []byte{0x7F, 0xFF, 0xC0, 0, 0, 0, 0, 0, 0, 0}
	got := decodeFloat80(data)
	if !math.IsNaN(got) {
		t.Errorf("decodeFloat80(NaN pattern) = %v, want NaN", got)
	}
}

func TestDecodeFloat80Overflow(t *testing.T) {
	// A finite but enormous exponent that rebiases past binary64's range
	// should surface as overflow (+/-Inf), not wrap or panic.
	data := []byte{0x7F, 0xFE, 0x80, 0, 0, 0, 0, 0, 0, 0}
	got := decodeFloat80(data)
	if !math.IsInf(got, 1) {
		t.Errorf("decodeFloat80(overflow) = %v, want +Inf", got)
	}
}

func TestDecodeDate(t *testing.T) {
	// Exactly one second after the Matroska epoch.
	data := []byte{0, 0, 0, 0, 0x3B, 0x9A, 0xCA, 0x00} // 1e9 ns
	got, ok := decodeDate(data)
	if !ok {
		t.Fatal("decodeDate reported !ok for valid 8-byte input")
	}
	want := matroskaEpoch.Add(time.Second)
	if !got.Equal(want) {
		t.Errorf("decodeDate = %v, want %v", got, want)
	}
}

func TestDecodeDateBadSize(t *testing.T) {
	if _, ok := decodeDate([]byte{0, 0, 0}); ok {
		t.Errorf("decodeDate(3 bytes) reported ok, want false")
	}
}

func TestDecodeString(t *testing.T) {
	if got := decodeString([]byte("eng")); got != "eng" {
		t.Errorf("decodeString(%q) = %q", "eng", got)
	}
	if got := decodeString([]byte("eng\x00")); got != "eng" {
		t.Errorf("decodeString with trailing NUL = %q, want %q", got, "eng")
	}
}

func TestLeafDefaultValue(t *testing.T) {
	withDefault := &SchemaEntry{Type: typeString, Default: "eng"}
	if got := leafDefaultValue(withDefault); got != "eng" {
		t.Errorf("leafDefaultValue(declared default) = %v, want eng", got)
	}

	noDefault := &SchemaEntry{Type: typeUint}
	if got := leafDefaultValue(noDefault); got != uint64(0) {
		t.Errorf("leafDefaultValue(no default, uint) = %v, want 0", got)
	}

	floatNoDefault := &SchemaEntry{Type: typeFloat}
	if got := leafDefaultValue(floatNoDefault); got != float64(0) {
		t.Errorf("leafDefaultValue(no default, float) = %v, want 0", got)
	}
}

func TestElementNilAccessorsAreSafe(t *testing.T) {
	var e *Element
	if e.Uint() != 0 || e.Int() != 0 || e.Float() != 0 || e.String() != "" || e.Bytes() != nil || e.Container() != nil {
		t.Errorf("nil *Element accessors returned non-zero values")
	}
}
