package matroska

import (
	"bytes"
	"testing"
)

func TestByteSourceReadExactAndPosition(t *testing.T) {
	src, err := newByteSource(bytes.NewReader([]byte("hello world")))
	if err != nil {
		t.Fatal(err)
	}
	got, err := src.readExact(5)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("readExact(5) = %q, want %q", got, "hello")
	}
	if src.position() != 5 {
		t.Errorf("position = %d, want 5", src.position())
	}
}

func TestByteSourceSkipWithinBuffer(t *testing.T) {
	src, err := newByteSource(bytes.NewReader([]byte("0123456789")))
	if err != nil {
		t.Fatal(err)
	}
	// Reading one byte fills the read-ahead buffer, so the skip below is
	// served from buffered data rather than by a seek.
	if _, err := src.readExact(1); err != nil {
		t.Fatal(err)
	}
	if err := src.skip(3); err != nil {
		t.Fatal(err)
	}
	got, err := src.readExact(2)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "45" {
		t.Errorf("readExact after skip = %q, want %q", got, "45")
	}
}

func TestByteSourceSkipBeyondBuffer(t *testing.T) {
	data := make([]byte, 1024)
	for i := range data {
		data[i] = byte(i)
	}
	src, err := newByteSource(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.skip(500); err != nil {
		t.Fatal(err)
	}
	if src.position() != 500 {
		t.Errorf("position = %d, want 500", src.position())
	}
	got, err := src.readExact(1)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != data[500] {
		t.Errorf("byte at 500 = %d, want %d", got[0], data[500])
	}
}

func TestByteSourceSeek(t *testing.T) {
	src, err := newByteSource(bytes.NewReader([]byte("abcdefgh")))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.seek(6); err != nil {
		t.Fatal(err)
	}
	got, err := src.readExact(2)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "gh" {
		t.Errorf("readExact after seek = %q, want %q", got, "gh")
	}
}

func TestByteSourceLen(t *testing.T) {
	src, err := newByteSource(bytes.NewReader([]byte("0123456789")))
	if err != nil {
		t.Fatal(err)
	}
	if src.len() != 10 {
		t.Errorf("len() = %d, want 10", src.len())
	}
}
