package packet

import (
	"errors"
	"fmt"
)

var (
	ErrUninitialized  = errors.New("packet: record not initialized")
	ErrKeyMismatch    = errors.New("packet: key name mismatch")
	ErrLengthMismatch = errors.New("packet: value count mismatch")
	ErrInputKind      = errors.New("packet: values must be a map or an ordered slice")
	ErrValueEncoding  = errors.New("packet: value does not fit field type")
	ErrChecksum       = errors.New("packet: checksum mismatch")
	ErrShortBuffer    = errors.New("packet: buffer shorter than checksum trailer")
	ErrSizeMismatch   = errors.New("packet: payload length does not match schema size")
)

// SchemaError reports an invalid field definition at schema construction.
type SchemaError struct {
	Field string
	Type  FieldType
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("packet: invalid type %q for field %q", string(e.Type), e.Field)
}
