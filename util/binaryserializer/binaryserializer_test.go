package binaryserializer

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestPrimitives(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := PutUint8(buf, 0x01); err != nil {
		t.Fatalf("TestPrimitives: PutUint8: %s", err)
	}
	if err := PutUint32(buf, 0x02030405); err != nil {
		t.Fatalf("TestPrimitives: PutUint32: %s", err)
	}
	if err := PutUint64(buf, 0x060708090a0b0c0d); err != nil {
		t.Fatalf("TestPrimitives: PutUint64: %s", err)
	}
	if err := PutBytes(buf, []byte{0xee, 0xff}); err != nil {
		t.Fatalf("TestPrimitives: PutBytes: %s", err)
	}

	expected := []byte{
		0x01,
		0x05, 0x04, 0x03, 0x02,
		0x0d, 0x0c, 0x0b, 0x0a, 0x09, 0x08, 0x07, 0x06,
		0xee, 0xff,
	}
	if !bytes.Equal(buf.Bytes(), expected) {
		t.Fatalf("TestPrimitives: encoded %x, want %x", buf.Bytes(), expected)
	}

	r := bytes.NewReader(expected)
	u8, err := Uint8(r)
	if err != nil || u8 != 0x01 {
		t.Fatalf("TestPrimitives: Uint8 returned (%x, %v)", u8, err)
	}
	u32, err := Uint32(r)
	if err != nil || u32 != 0x02030405 {
		t.Fatalf("TestPrimitives: Uint32 returned (%x, %v)", u32, err)
	}
	u64, err := Uint64(r)
	if err != nil || u64 != 0x060708090a0b0c0d {
		t.Fatalf("TestPrimitives: Uint64 returned (%x, %v)", u64, err)
	}
	tail := make([]byte, 2)
	err = Bytes(r, tail)
	if err != nil || !bytes.Equal(tail, []byte{0xee, 0xff}) {
		t.Fatalf("TestPrimitives: Bytes returned (%x, %v)", tail, err)
	}
}

func TestShortReads(t *testing.T) {
	_, err := Uint8(bytes.NewReader(nil))
	if !errors.Is(err, io.EOF) {
		t.Fatalf("TestShortReads: Uint8 on empty input returned %v, want io.EOF", err)
	}
	_, err = Uint32(bytes.NewReader([]byte{1, 2}))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("TestShortReads: Uint32 on short input returned %v, want io.ErrUnexpectedEOF", err)
	}
	_, err = Uint64(bytes.NewReader([]byte{1, 2, 3, 4, 5, 6, 7}))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("TestShortReads: Uint64 on short input returned %v, want io.ErrUnexpectedEOF", err)
	}
	err = Bytes(bytes.NewReader([]byte{1}), make([]byte, 2))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("TestShortReads: Bytes on short input returned %v, want io.ErrUnexpectedEOF", err)
	}
}
