package storage

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrUnexpectedEnd is returned by ReadFully when fewer bytes remain
	// than were requested.  It wraps io.ErrUnexpectedEOF.
	ErrUnexpectedEnd = fmt.Errorf("unexpected end of data: %w", io.ErrUnexpectedEOF)
	ErrInvalidSeek   = errors.New("invalid seek position")
)

// ByteSource is a seekable reader over an immutable, fully materialized
// byte slice.  It gives a Parquet decoder the contract of a seekable file
// stream (footer-first backward seeks, forward page scans, mark/reset)
// without doing any I/O.  The slice must not be modified while the source
// is in use.  A ByteSource is not safe for concurrent use, except for
// ReadAt, which does not touch the cursor.
type ByteSource struct {
	data []byte
	pos  int
	mark int
}

var (
	_ io.ReadSeekCloser = (*ByteSource)(nil)
	_ io.ReaderAt       = (*ByteSource)(nil)
	_ io.ByteReader     = (*ByteSource)(nil)
)

func NewByteSource(b []byte) *ByteSource {
	return &ByteSource{data: b, mark: -1}
}

// ReadByte returns the next byte and advances the position by one.  It
// returns io.EOF once the position has reached the end.
func (s *ByteSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	c := s.data[s.pos]
	s.pos++
	return c, nil
}

// Read copies up to len(b) bytes from the current position.  Fewer bytes
// are returned only when the end of the data is reached.  Read returns
// 0, io.EOF if the position is already at the end.
func (s *ByteSource) Read(b []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := copy(b, s.data[s.pos:])
	s.pos += n
	return n, nil
}

// ReadFully copies exactly len(b) bytes and advances the position by
// len(b).  If fewer bytes remain, nothing is copied, the position is
// unchanged, and the error wraps ErrUnexpectedEnd.
func (s *ByteSource) ReadFully(b []byte) error {
	if len(b) > len(s.data)-s.pos {
		return fmt.Errorf("%w: need %d bytes at offset %d, %d remain", ErrUnexpectedEnd, len(b), s.pos, len(s.data)-s.pos)
	}
	s.pos += copy(b, s.data[s.pos:])
	return nil
}

// ReadAt implements io.ReaderAt.  It does not affect the position.
func (s *ByteSource) ReadAt(b []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidSeek, off)
	}
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(b, s.data[off:])
	if n < len(b) {
		return n, io.EOF
	}
	return n, nil
}

// Pos returns the current offset from the start of the data.
func (s *ByteSource) Pos() int64 {
	return int64(s.pos)
}

// SeekTo sets the position to pos.  Positions outside [0, Size()] fail
// with ErrInvalidSeek and leave the position unchanged.
func (s *ByteSource) SeekTo(pos int64) error {
	if pos < 0 || pos > int64(len(s.data)) {
		return fmt.Errorf("%w: %d (size %d)", ErrInvalidSeek, pos, len(s.data))
	}
	s.pos = int(pos)
	return nil
}

// Seek implements io.Seeker on top of SeekTo, so seeking past the end is
// an error rather than a silently clamped position.
func (s *ByteSource) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += int64(s.pos)
	case io.SeekEnd:
		offset += int64(len(s.data))
	default:
		return int64(s.pos), fmt.Errorf("%w: bad whence %d", ErrInvalidSeek, whence)
	}
	if err := s.SeekTo(offset); err != nil {
		return int64(s.pos), err
	}
	return offset, nil
}

// Skip advances the position by min(n, remaining) and returns the number
// of bytes actually skipped.  A negative n skips nothing.
func (s *ByteSource) Skip(n int64) int64 {
	if n <= 0 {
		return 0
	}
	if remaining := int64(len(s.data) - s.pos); n > remaining {
		n = remaining
	}
	s.pos += int(n)
	return n
}

// Mark records the current position, replacing any earlier mark.
func (s *ByteSource) Mark() {
	s.mark = s.pos
}

// Reset moves the position back to the mark.  Without a prior Mark it does
// nothing.
func (s *ByteSource) Reset() {
	if s.mark >= 0 {
		s.pos = s.mark
	}
}

// Size returns the total length of the data.
func (s *ByteSource) Size() int64 {
	return int64(len(s.data))
}

// Len returns the number of bytes between the position and the end.
func (s *ByteSource) Len() int {
	return len(s.data) - s.pos
}

func (*ByteSource) Close() error {
	return nil
}
