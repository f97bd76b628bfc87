// Package channel composes a framing engine with one fixed record schema to
// exchange whole records instead of raw bytes.
package channel

import (
	"github.com/Smart-Ag/corncobs/frame"
	"github.com/Smart-Ag/corncobs/packet"
	"github.com/Smart-Ag/corncobs/transport"
)

// Channel reads and writes records of one schema over a framing engine.
type Channel struct {
	engine *frame.Engine
	record *packet.Record
}

// New binds a caller-supplied stream capability to schema.
func New(stream frame.Stream, schema *packet.Schema) *Channel {
	return &Channel{
		engine: frame.NewEngine(stream),
		record: packet.NewRecord(schema),
	}
}

// Open constructs the transport adapter named by cfg and binds it to schema.
func Open(cfg transport.Config, schema *packet.Schema) (*Channel, error) {
	stream, err := transport.Open(cfg)
	if err != nil {
		return nil, err
	}
	return New(stream, schema), nil
}

// Read extracts the next frame and unpacks it, returning an independent
// record copy. A nil record with a nil error means no frame was available.
func (c *Channel) Read() (*packet.Record, error) {
	values, err := c.record.UnpackFrom(c.engine)
	if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, nil
	}
	return c.record.Copy(), nil
}

// Write packs rec and transmits it as one frame, returning the byte count
// reported by the underlying write.
func (c *Channel) Write(rec *packet.Record) (int, error) {
	data, err := rec.Pack()
	if err != nil {
		return 0, err
	}
	return c.engine.Write(data)
}

// Engine exposes the underlying framing engine for listener registration and
// loop control.
func (c *Channel) Engine() *frame.Engine { return c.engine }

// Close closes the underlying stream capability.
func (c *Channel) Close() error { return c.engine.Close() }
