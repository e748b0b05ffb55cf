// Package binaryserializer reads and writes fixed width little-endian
// primitives. Short reads surface as io.ErrUnexpectedEOF (or io.EOF when no
// byte at all was available), wrapped with a stack trace.
package binaryserializer

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/pkg/errors"
)

// bufferPool holds 8 byte scratch buffers, enough for any primitive up to
// uint64.
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 8)
		return &buf
	},
}

func borrow(size int) (*[]byte, []byte) {
	bufPtr := bufferPool.Get().(*[]byte)
	return bufPtr, (*bufPtr)[:size]
}

func readFull(r io.Reader, size int) (*[]byte, []byte, error) {
	bufPtr, buf := borrow(size)
	if _, err := io.ReadFull(r, buf); err != nil {
		bufferPool.Put(bufPtr)
		return nil, nil, errors.WithStack(err)
	}
	return bufPtr, buf, nil
}

// Uint8 reads a single byte from r.
func Uint8(r io.Reader) (uint8, error) {
	bufPtr, buf, err := readFull(r, 1)
	if err != nil {
		return 0, err
	}
	rv := buf[0]
	bufferPool.Put(bufPtr)
	return rv, nil
}

// Uint32 reads four little-endian bytes from r.
func Uint32(r io.Reader) (uint32, error) {
	bufPtr, buf, err := readFull(r, 4)
	if err != nil {
		return 0, err
	}
	rv := binary.LittleEndian.Uint32(buf)
	bufferPool.Put(bufPtr)
	return rv, nil
}

// Uint64 reads eight little-endian bytes from r.
func Uint64(r io.Reader) (uint64, error) {
	bufPtr, buf, err := readFull(r, 8)
	if err != nil {
		return 0, err
	}
	rv := binary.LittleEndian.Uint64(buf)
	bufferPool.Put(bufPtr)
	return rv, nil
}

// Bytes reads exactly len(dst) bytes from r into dst.
func Bytes(r io.Reader, dst []byte) error {
	_, err := io.ReadFull(r, dst)
	return errors.WithStack(err)
}

// PutUint8 writes a single byte to w.
func PutUint8(w io.Writer, val uint8) error {
	bufPtr, buf := borrow(1)
	buf[0] = val
	_, err := w.Write(buf)
	bufferPool.Put(bufPtr)
	return errors.WithStack(err)
}

// PutUint32 writes val to w as four little-endian bytes.
func PutUint32(w io.Writer, val uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return errors.WithStack(err)
}

// PutUint64 writes val to w as eight little-endian bytes.
func PutUint64(w io.Writer, val uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return errors.WithStack(err)
}

// PutBytes writes src to w as is.
func PutBytes(w io.Writer, src []byte) error {
	_, err := w.Write(src)
	return errors.WithStack(err)
}
