// Package frame extracts zero-delimited, byte-stuffed frames from a raw byte
// stream and dispatches decoded payloads to registered listeners. It owns the
// stream capability for its lifetime and can drive itself on a background
// goroutine.
package frame

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Smart-Ag/corncobs/cobs"
	"github.com/Smart-Ag/corncobs/observability"
)

// Stream is the byte-stream capability an engine owns. Read may return fewer
// bytes than requested; io.EOF signals end of stream. Close is optional: a
// stream additionally implementing io.Closer is closed by the engine.
type Stream interface {
	io.Reader
	io.Writer
}

// Listener receives one decoded frame payload.
type Listener func(payload []byte)

const (
	delimiter = 0x00

	// DefaultMaxBytes bounds the raw frame buffer on a desynchronized
	// stream.
	DefaultMaxBytes = 255

	// syncReserve is subtracted from maxBytes to form the scan-phase
	// attempt budget.
	syncReserve = 5

	// maxReadRetries bounds consecutive transient read failures inside the
	// accumulation phase. The counter resets on every successful byte.
	maxReadRetries = 255
)

// Engine frames and unframes payloads over one stream capability.
type Engine struct {
	stream    Stream
	wmu       sync.Mutex
	listeners []Listener
	loopMu    sync.Mutex
	running   atomic.Bool
	done      chan struct{}
	log       zerolog.Logger
}

// NewEngine returns an engine owning stream. The engine is responsible for
// eventually closing it.
func NewEngine(stream Stream) *Engine {
	return &Engine{
		stream: stream,
		log:    log.With().Str("component", "frame").Logger(),
	}
}

// Write stuffs data, wraps it in delimiters, and writes the whole framed
// buffer in a single call. It returns the count reported by the underlying
// write. Writes are serialized against each other; callers must still avoid
// concurrent read/write on transports that are not full-duplex safe.
func (e *Engine) Write(data []byte) (int, error) {
	encoded := cobs.Encode(data)
	buf := make([]byte, 0, len(encoded)+2)
	buf = append(buf, delimiter)
	buf = append(buf, encoded...)
	buf = append(buf, delimiter)

	e.wmu.Lock()
	n, err := e.stream.Write(buf)
	e.wmu.Unlock()
	if err != nil {
		return n, err
	}
	observability.RecordFrameWritten(len(data))
	return n, nil
}

// Read scans for the next delimited frame and returns its decoded payload.
// A nil payload with a nil error is the no-frame sentinel: synchronization
// timed out, the raw frame hit maxBytes, the stream ended, or the frame was
// too short to be valid. Callers should treat it as "try again". A stuffed
// sequence that cannot be inverted returns cobs.ErrMalformed.
func (e *Engine) Read(maxBytes int) ([]byte, error) {
	var b [1]byte

	// Synchronization phase: hunt for a delimiter, retrying read errors,
	// within the attempt budget.
	synced := false
	for i := 0; i < maxBytes-syncReserve; i++ {
		// A byte delivered alongside an error still counts; io.Reader
		// may return both.
		n, _ := e.stream.Read(b[:])
		if n == 0 {
			continue
		}
		if b[0] == delimiter {
			synced = true
			break
		}
	}
	if !synced {
		observability.RecordNoFrame("desync")
		return nil, nil
	}

	// Accumulation phase: collect bytes until the closing delimiter.
	raw := make([]byte, 0, maxBytes)
	retries := 0
	for {
		n, err := e.stream.Read(b[:])
		if n > 0 {
			retries = 0
			if b[0] == delimiter {
				break
			}
			if len(raw) == maxBytes {
				observability.RecordNoFrame("too_long")
				return nil, nil
			}
			raw = append(raw, b[0])
			continue
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			observability.RecordNoFrame("eof")
			return nil, nil
		}
		retries++
		if retries >= maxReadRetries {
			observability.RecordNoFrame("read_errors")
			e.log.Warn().Err(err).Msg("giving up mid-frame after repeated read errors")
			return nil, nil
		}
	}

	if len(raw) < 2 {
		observability.RecordNoFrame("short")
		return nil, nil
	}
	payload, err := cobs.Decode(raw)
	if err != nil {
		observability.RecordDecodeError()
		return nil, err
	}
	observability.RecordFrameRead(len(payload))
	return payload, nil
}

// ReadFrame reads one frame with the default length budget. It satisfies
// packet.Source.
func (e *Engine) ReadFrame() ([]byte, error) {
	return e.Read(DefaultMaxBytes)
}

// Update performs one read and, for a non-empty payload, invokes every
// registered listener in registration order, synchronously.
func (e *Engine) Update() error {
	payload, err := e.Read(DefaultMaxBytes)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	for _, fn := range e.listeners {
		fn(payload)
	}
	return nil
}

// AddListener appends a callback to the ordered listener list. There is no
// deduplication and no removal.
func (e *Engine) AddListener(fn Listener) {
	e.listeners = append(e.listeners, fn)
}

// LoopStart launches the background loop, at most one per engine. The loop
// calls Update until LoopStop clears the running flag; a failed or panicking
// iteration is logged and the loop continues.
func (e *Engine) LoopStart() {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	if !e.running.CompareAndSwap(false, true) {
		return
	}
	e.done = make(chan struct{})
	go e.loop()
}

func (e *Engine) loop() {
	defer close(e.done)
	for e.running.Load() {
		e.runOnce()
	}
}

func (e *Engine) runOnce() {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("frame loop iteration panicked")
		}
	}()
	if err := e.Update(); err != nil {
		e.log.Error().Err(err).Msg("frame loop update failed")
	}
}

// LoopStop clears the running flag, closes the stream to unblock a pending
// read, and waits for the background goroutine to exit.
func (e *Engine) LoopStop() error {
	e.loopMu.Lock()
	defer e.loopMu.Unlock()
	wasRunning := e.running.CompareAndSwap(true, false)
	err := e.Close()
	if wasRunning {
		<-e.done
	}
	return err
}

// Close closes the stream capability if it supports closing; otherwise it is
// a no-op.
func (e *Engine) Close() error {
	if c, ok := e.stream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
