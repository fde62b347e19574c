// Package sample lazily unpacks a NetSDR data-frame body into a
// sequence of signed integer I/Q samples.
//
// Samples are little-endian, byte-aligned, and never cross a byte
// boundary: a width-24 sample always occupies exactly 3 bytes, never
// 3 bytes straddling a 4th. This is a deliberate simplification
// matching the receiver's supported widths of 8/16/24/32 bits;
// narrower widths (1-23 excluding those) still round up to whole
// bytes per sample rather than packing bits across byte boundaries.
package sample

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidWidth is returned when width is outside the supported
// 1..32 bit range.
var ErrInvalidWidth = errors.New("sample: invalid width")

// InvalidWidthError carries the offending width for callers that want
// it without string-parsing ErrInvalidWidth's message.
type InvalidWidthError struct {
	Width int
}

func (e *InvalidWidthError) Error() string {
	return fmt.Sprintf("sample: width %d is outside the supported range 1..32", e.Width)
}

func (e *InvalidWidthError) Unwrap() error { return ErrInvalidWidth }

// BytesPerSample returns ceil(width/8), the number of bytes one sample
// of the given bit width occupies on the wire.
func BytesPerSample(width int) (int, error) {
	if width < 1 || width > 32 {
		return 0, &InvalidWidthError{Width: width}
	}
	return (width + 7) / 8, nil
}

// Samples returns a lazy, restartable sequence of signed samples
// unpacked from body at the given bit width.
//
// The sequence is a plain function of (width, body): calling Samples
// again with the same arguments walks the same bytes from the start,
// so there is no shared iterator state to reset. Iteration stops at
// the last complete sample; a trailing partial sample (fewer than
// BytesPerSample(width) bytes left) is silently skipped, and an empty
// body yields an empty sequence. width outside 1..32 returns
// ErrInvalidWidth instead of a sequence.
func Samples(width int, body []byte) (iter.Seq[int32], error) {
	n, err := BytesPerSample(width)
	if err != nil {
		return nil, err
	}
	return func(yield func(int32) bool) {
		for off := 0; off+n <= len(body); off += n {
			if !yield(decodeLE(body[off : off+n])) {
				return
			}
		}
	}, nil
}

// decodeLE decodes a little-endian byte-aligned sample into an int32.
// Leftover high bits in the final byte (for widths that aren't a
// multiple of 8) are carried through unmasked, matching the standard
// widths of 8/16/24/32.
func decodeLE(b []byte) int32 {
	var v int32
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | int32(b[i])
	}
	return v
}

// Count returns the number of complete samples body contains at the
// given width, without materializing them.
func Count(width int, body []byte) (int, error) {
	n, err := BytesPerSample(width)
	if err != nil {
		return 0, err
	}
	return len(body) / n, nil
}
