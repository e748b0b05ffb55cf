package serialization

import (
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/util/binaryserializer"
)

// SerializeFields writes value to w by walking its structure field by field
// in declaration order: integers and bools in fixed width little endian,
// arrays and byte slices element by element with no length prefix, nested
// structs and pointers recursively.
//
// It knows nothing about the types it is given, which makes it the reference
// that hand written canonical encoders are checked against.
func SerializeFields(w io.Writer, value interface{}) error {
	return serializeValue(w, reflect.ValueOf(value))
}

// FieldsSize returns the number of bytes SerializeFields writes for value.
func FieldsSize(value interface{}) (int, error) {
	counter := &countingWriter{}
	err := SerializeFields(counter, value)
	if err != nil {
		return 0, err
	}
	return counter.count, nil
}

type countingWriter struct {
	count int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.count += len(p)
	return len(p), nil
}

func serializeValue(w io.Writer, value reflect.Value) error {
	switch value.Kind() {
	case reflect.Bool:
		return WriteElement(w, value.Bool())

	case reflect.Uint8:
		return binaryserializer.PutUint8(w, uint8(value.Uint()))

	case reflect.Uint32:
		return binaryserializer.PutUint32(w, uint32(value.Uint()))

	case reflect.Uint64:
		return binaryserializer.PutUint64(w, value.Uint())

	case reflect.Int32:
		return binaryserializer.PutUint32(w, uint32(value.Int()))

	case reflect.Int64:
		return binaryserializer.PutUint64(w, uint64(value.Int()))

	case reflect.Array, reflect.Slice:
		if value.Type().Elem().Kind() == reflect.Uint8 {
			return binaryserializer.PutBytes(w, byteSlice(value))
		}
		for i := 0; i < value.Len(); i++ {
			err := serializeValue(w, value.Index(i))
			if err != nil {
				return err
			}
		}
		return nil

	case reflect.Struct:
		for i := 0; i < value.NumField(); i++ {
			if value.Type().Field(i).PkgPath != "" {
				return errors.Errorf("cannot serialize unexported field %s of %s",
					value.Type().Field(i).Name, value.Type())
			}
			err := serializeValue(w, value.Field(i))
			if err != nil {
				return errors.Wrapf(err, "failed to serialize field %s of %s",
					value.Type().Field(i).Name, value.Type())
			}
		}
		return nil

	case reflect.Ptr, reflect.Interface:
		if value.IsNil() {
			return errors.Errorf("cannot serialize a nil %s", value.Type())
		}
		return serializeValue(w, value.Elem())
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write kind %s", value.Kind())
}

func byteSlice(value reflect.Value) []byte {
	if value.Kind() == reflect.Slice {
		return value.Bytes()
	}
	bytes := make([]byte, value.Len())
	for i := range bytes {
		bytes[i] = uint8(value.Index(i).Uint())
	}
	return bytes
}
