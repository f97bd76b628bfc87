// Package packet maps named, typed values onto a fixed little-endian binary
// layout with a CRC-16 trailer. A Schema declares the layout; a Record holds
// live values bound to one schema and serializes to and from the wire form.
package packet

// FieldType is the declared binary interpretation of one field.
type FieldType string

const (
	Float32 FieldType = "float32"
	Float   FieldType = "float"
	Uint8   FieldType = "uint8"
	Uint16  FieldType = "uint16"
	Uint32  FieldType = "uint32"
	Int8    FieldType = "int8"
	Int16   FieldType = "int16"
	Int32   FieldType = "int32"
	String  FieldType = "string"
)

var typeWidths = map[FieldType]int{
	Float32: 4,
	Float:   4,
	Uint8:   1,
	Uint16:  2,
	Uint32:  4,
	Int8:    1,
	Int16:   2,
	Int32:   4,
	String:  1,
}

// FieldDef declares one field of a schema. Size applies to String fields
// only: the fixed character count, defaulting to 1.
type FieldDef struct {
	Name string
	Type FieldType
	Size int
}

func (d FieldDef) width() int {
	if d.Type == String {
		if d.Size > 1 {
			return d.Size
		}
		return 1
	}
	return typeWidths[d.Type]
}

// Schema is an ordered, immutable sequence of field definitions. Field order
// fixes the layout offsets; names are relied upon to be unique.
type Schema struct {
	defs []FieldDef
	size int
}

// NewSchema validates every type tag and returns the schema. An unknown tag
// or a negative string size fails with a *SchemaError naming the field.
func NewSchema(defs []FieldDef) (*Schema, error) {
	s := &Schema{defs: make([]FieldDef, len(defs))}
	for i, d := range defs {
		if _, ok := typeWidths[d.Type]; !ok {
			return nil, &SchemaError{Field: d.Name, Type: d.Type}
		}
		if d.Size < 0 {
			return nil, &SchemaError{Field: d.Name, Type: d.Type}
		}
		s.defs[i] = d
		s.size += d.width()
	}
	return s, nil
}

// Size is the payload byte length of one packed record, checksum excluded.
func (s *Schema) Size() int { return s.size }

// Fields returns the field definitions in declaration order.
func (s *Schema) Fields() []FieldDef {
	out := make([]FieldDef, len(s.defs))
	copy(out, s.defs)
	return out
}

func (s *Schema) has(name string) bool {
	for _, d := range s.defs {
		if d.Name == name {
			return true
		}
	}
	return false
}
