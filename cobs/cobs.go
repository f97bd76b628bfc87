// Package cobs implements Consistent Overhead Byte Stuffing: a reversible
// transform over arbitrary byte sequences whose output never contains 0x00,
// so a zero byte can delimit frames on the wire.
package cobs

import "errors"

// ErrMalformed is returned by Decode when the input cannot be inverted:
// a zero byte inside the encoded form, a block header overrunning the
// buffer, or an empty input.
var ErrMalformed = errors.New("cobs: malformed encoding")

const maxBlock = 254

// Encode stuffs data so the result contains no zero byte. The empty input
// encodes to a single 0x01.
func Encode(data []byte) []byte {
	out := make([]byte, 0, len(data)+1+len(data)/maxBlock)
	code := byte(1)
	codeIdx := 0
	out = append(out, 0)
	for _, b := range data {
		if b == 0 {
			out[codeIdx] = code
			code = 1
			codeIdx = len(out)
			out = append(out, 0)
			continue
		}
		out = append(out, b)
		code++
		if code == maxBlock+1 {
			out[codeIdx] = code
			code = 1
			codeIdx = len(out)
			out = append(out, 0)
		}
	}
	out[codeIdx] = code
	return out
}

// Decode inverts Encode. It fails with ErrMalformed rather than guessing at
// corrupted input.
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrMalformed
	}
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		code := data[i]
		if code == 0 {
			return nil, ErrMalformed
		}
		i++
		end := i + int(code) - 1
		if end > len(data) {
			return nil, ErrMalformed
		}
		for ; i < end; i++ {
			if data[i] == 0 {
				return nil, ErrMalformed
			}
			out = append(out, data[i])
		}
		if code <= maxBlock && i < len(data) {
			out = append(out, 0)
		}
	}
	return out, nil
}
