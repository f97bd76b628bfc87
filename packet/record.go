package packet

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Smart-Ag/corncobs/crc16"
	"github.com/Smart-Ag/corncobs/observability"
)

// Source yields one frame's worth of already-delimited payload bytes per
// call. An empty result means no frame was available.
type Source interface {
	ReadFrame() ([]byte, error)
}

// Record holds live field values bound to one schema. The zero state is
// uninitialized: values must be assigned through Init, InitNamed,
// InitOrdered, or Unpack before the record can be packed.
type Record struct {
	schema *Schema
	values map[string]any
}

// NewRecord returns an uninitialized record for schema.
func NewRecord(schema *Schema) *Record {
	return &Record{schema: schema}
}

// NewRecordValues returns a record pre-populated from values, which may be a
// name-keyed map or an ordered slice.
func NewRecordValues(schema *Schema, values any) (*Record, error) {
	r := NewRecord(schema)
	if err := r.Init(values); err != nil {
		return nil, err
	}
	return r, nil
}

// Schema returns the shared, read-only schema.
func (r *Record) Schema() *Schema { return r.schema }

// Initialized reports whether any values have been assigned.
func (r *Record) Initialized() bool { return r.values != nil }

// Init fully replaces the value map. It accepts a map[string]any or an
// ordered []any and fails with ErrInputKind for anything else.
func (r *Record) Init(values any) error {
	switch v := values.(type) {
	case map[string]any:
		return r.InitNamed(v)
	case []any:
		return r.InitOrdered(v)
	default:
		return fmt.Errorf("%w: got %T", ErrInputKind, values)
	}
}

// InitNamed replaces the value map from a name-keyed mapping. Every key must
// name a schema field.
func (r *Record) InitNamed(values map[string]any) error {
	for name := range values {
		if !r.schema.has(name) {
			return fmt.Errorf("%w: %q", ErrKeyMismatch, name)
		}
	}
	m := make(map[string]any, len(values))
	for name, v := range values {
		m[name] = v
	}
	r.values = m
	return nil
}

// InitOrdered replaces the value map from values in schema declaration
// order. The count must match the field count exactly.
func (r *Record) InitOrdered(values []any) error {
	if len(values) != len(r.schema.defs) {
		return fmt.Errorf("%w: got %d values for %d fields",
			ErrLengthMismatch, len(values), len(r.schema.defs))
	}
	m := make(map[string]any, len(values))
	for i, d := range r.schema.defs {
		m[d.Name] = values[i]
	}
	r.values = m
	return nil
}

// SetField assigns one field. The record must already be initialized; width
// checking against the declared type is deferred to Pack.
func (r *Record) SetField(name string, value any) error {
	if r.values == nil {
		return ErrUninitialized
	}
	if !r.schema.has(name) {
		return fmt.Errorf("%w: %q", ErrKeyMismatch, name)
	}
	r.values[name] = value
	return nil
}

// Pack serializes the fields in schema order into the little-endian layout
// and appends the 2-byte checksum over the payload. The returned buffer is
// schema size + 2 bytes long.
func (r *Record) Pack() ([]byte, error) {
	if r.values == nil {
		return nil, ErrUninitialized
	}
	buf := make([]byte, 0, r.schema.size+crc16.Size)
	for _, d := range r.schema.defs {
		v, ok := r.values[d.Name]
		if !ok {
			return nil, fmt.Errorf("%w: no value for field %q", ErrValueEncoding, d.Name)
		}
		var err error
		buf, err = appendValue(buf, d, v)
		if err != nil {
			return nil, err
		}
	}
	return crc16.Append(buf, buf), nil
}

// PackValues performs Init with values and then packs.
func (r *Record) PackValues(values any) ([]byte, error) {
	if err := r.Init(values); err != nil {
		return nil, err
	}
	return r.Pack()
}

// Unpack splits the trailing 2 bytes as the checksum, verifies it over the
// payload, decodes the fields in schema order into the value map
// (initializing it if necessary), and returns a snapshot of the values.
func (r *Record) Unpack(buf []byte) (map[string]any, error) {
	if len(buf) < crc16.Size {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortBuffer, len(buf))
	}
	payload := buf[:len(buf)-crc16.Size]
	trailer := buf[len(buf)-crc16.Size:]
	if !crc16.Verify(payload, trailer) {
		observability.RecordChecksumError()
		log.Debug().Int("len", len(payload)).Msg("packet checksum mismatch")
		return nil, fmt.Errorf("%w: computed %#04x, trailer %#04x",
			ErrChecksum, crc16.Checksum(payload), binary.LittleEndian.Uint16(trailer))
	}
	if len(payload) != r.schema.size {
		return nil, fmt.Errorf("%w: got %d bytes, schema is %d",
			ErrSizeMismatch, len(payload), r.schema.size)
	}
	if r.values == nil {
		r.values = make(map[string]any, len(r.schema.defs))
	}
	offset := 0
	for _, d := range r.schema.defs {
		w := d.width()
		r.values[d.Name] = decodeValue(payload[offset:offset+w], d)
		offset += w
	}
	return r.Values(), nil
}

// UnpackFrom reads one frame from src and unpacks it. An empty read yields
// no result and no error.
func (r *Record) UnpackFrom(src Source) (map[string]any, error) {
	data, err := src.ReadFrame()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return r.Unpack(data)
}

// Values returns an independent snapshot of the value map.
func (r *Record) Values() map[string]any {
	if r.values == nil {
		return nil
	}
	out := make(map[string]any, len(r.values))
	for name, v := range r.values {
		out[name] = v
	}
	return out
}

// Copy returns an independent record sharing the same schema.
func (r *Record) Copy() *Record {
	return &Record{schema: r.schema, values: r.Values()}
}

// Equal reports whether both records hold equal value maps. Schemas are not
// compared.
func (r *Record) Equal(other *Record) bool {
	if other == nil || len(r.values) != len(other.values) {
		return false
	}
	for name, v := range r.values {
		ov, ok := other.values[name]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

func appendValue(buf []byte, d FieldDef, v any) ([]byte, error) {
	encErr := func() error {
		return fmt.Errorf("%w: field %q (%s) cannot hold %v (%T)",
			ErrValueEncoding, d.Name, d.Type, v, v)
	}
	switch d.Type {
	case Uint8:
		u, ok := asUint64(v)
		if !ok || u > math.MaxUint8 {
			return nil, encErr()
		}
		return append(buf, byte(u)), nil
	case Uint16:
		u, ok := asUint64(v)
		if !ok || u > math.MaxUint16 {
			return nil, encErr()
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(u)), nil
	case Uint32:
		u, ok := asUint64(v)
		if !ok || u > math.MaxUint32 {
			return nil, encErr()
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(u)), nil
	case Int8:
		n, ok := asInt64(v)
		if !ok || n < math.MinInt8 || n > math.MaxInt8 {
			return nil, encErr()
		}
		return append(buf, byte(int8(n))), nil
	case Int16:
		n, ok := asInt64(v)
		if !ok || n < math.MinInt16 || n > math.MaxInt16 {
			return nil, encErr()
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(int16(n))), nil
	case Int32:
		n, ok := asInt64(v)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return nil, encErr()
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(int32(n))), nil
	case Float32, Float:
		f, ok := asFloat64(v)
		if !ok {
			return nil, encErr()
		}
		f32 := float32(f)
		// A finite value that converts to an infinity does not fit the
		// declared width.
		if math.IsInf(float64(f32), 0) && !math.IsInf(f, 0) {
			return nil, encErr()
		}
		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(f32)), nil
	case String:
		s, ok := v.(string)
		if !ok {
			return nil, encErr()
		}
		w := d.width()
		b := make([]byte, w)
		copy(b, s)
		return append(buf, b...), nil
	}
	return nil, encErr()
}

func decodeValue(data []byte, d FieldDef) any {
	switch d.Type {
	case Uint8:
		return data[0]
	case Uint16:
		return binary.LittleEndian.Uint16(data)
	case Uint32:
		return binary.LittleEndian.Uint32(data)
	case Int8:
		return int8(data[0])
	case Int16:
		return int16(binary.LittleEndian.Uint16(data))
	case Int32:
		return int32(binary.LittleEndian.Uint32(data))
	case Float32, Float:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(data)))
	case String:
		return string(data)
	}
	return nil
}
