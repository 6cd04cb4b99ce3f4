package matroska

import (
	"bufio"
	"io"
)

// sourceBufferSize bounds the read-ahead buffer kept in front of the
// underlying seekable stream. Spec §4.1 calls for "small (<=64 B)
// read-ahead... a larger read-ahead is avoided because every container
// boundary may induce a seek" -- any bytes buffered past a seek are wasted
// work, so this stays deliberately small rather than defaulting to
// bufio's usual 4 KiB.
const sourceBufferSize = 64

// byteSource is the seekable, buffered random-access reader every other
// component in this package addresses by absolute offset (spec §4.1, C1).
// It wraps an io.ReadSeeker with a small bufio.Reader so single-byte VINT
// reads don't each cost a syscall, while keeping seeks cheap by never
// buffering more than sourceBufferSize bytes ahead of the logical position.
type byteSource struct {
	rs  io.ReadSeeker
	buf *bufio.Reader
	pos int64
	end int64 // cached stream length
}

// newByteSource wraps rs, measuring the stream length once by seeking to
// the end and back to the starting offset. The length is cached in end and
// reported by len(); a failed seek is returned as an error.
func newByteSource(rs io.ReadSeeker) (*byteSource, error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err = rs.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	return &byteSource{
		rs:  rs,
		buf: bufio.NewReaderSize(rs, sourceBufferSize),
		pos: start,
		end: end,
	}, nil
}

// ReadByte implements io.ByteReader, letting readVint consume the source
// directly without an intermediate []byte allocation.
func (s *byteSource) ReadByte() (byte, error) {
	b, err := s.buf.ReadByte()
	if err == nil {
		s.pos++
	}
	return b, err
}

// readExact reads exactly n bytes, per spec §4.1's read_exact(n) operation.
func (s *byteSource) readExact(n int64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	read, err := io.ReadFull(s.buf, out)
	s.pos += int64(read)
	return out, err
}

// skip advances the logical position by n bytes without retaining the data,
// preferring a real seek over discarding through the buffer once n exceeds
// whatever is already buffered -- this is what lets the selective-read
// controller (selective.go) step over multi-gigabyte Clusters for the cost
// of a single seek rather than an n-byte read loop.
func (s *byteSource) skip(n int64) error {
	if n <= 0 {
		return nil
	}
	if buffered := int64(s.buf.Buffered()); buffered >= n {
		_, err := s.buf.Discard(int(n))
		if err == nil {
			s.pos += n
		}
		return err
	}
	n -= int64(s.buf.Buffered())
	s.buf.Reset(s.rs)
	newPos, err := s.rs.Seek(n, io.SeekCurrent)
	if err != nil {
		return err
	}
	s.pos = newPos
	return nil
}

// seek moves to an absolute offset, per spec §4.1's seek(abs) operation.
func (s *byteSource) seek(abs int64) error {
	newPos, err := s.rs.Seek(abs, io.SeekStart)
	if err != nil {
		return err
	}
	s.pos = newPos
	s.buf.Reset(s.rs)
	return nil
}

// position returns the current logical offset.
func (s *byteSource) position() int64 { return s.pos }

// len returns the total stream length, per spec §4.1's len() operation.
func (s *byteSource) len() int64 { return s.end }
