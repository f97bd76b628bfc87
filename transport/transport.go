// Package transport constructs the stream capabilities a framing engine can
// own: a serial port or a streaming socket, selected by a closed set of
// adapter kinds. Callers with their own byte stream hand it to the engine
// directly instead of going through the factory.
package transport

import (
	"errors"
	"fmt"

	"github.com/Smart-Ag/corncobs/frame"
)

// Kind names one transport adapter.
type Kind string

const (
	KindStream Kind = "stream"
	KindSerial Kind = "serial"
	KindSocket Kind = "socket"
)

var (
	ErrUnknownKind      = errors.New("transport: unknown adapter kind")
	ErrStreamKindDirect = errors.New("transport: stream kind takes a caller-supplied stream, not the factory")
)

// Open constructs the stream capability named by cfg. The returned stream
// implements io.Closer and is expected to be owned by one engine.
func Open(cfg Config) (frame.Stream, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case KindSerial:
		return openSerial(cfg.Serial)
	case KindSocket:
		return openSocket(cfg.Socket)
	case KindStream:
		return nil, ErrStreamKindDirect
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}
