package client

import "netsdr-client/protocol"

// reassembler turns the unstructured byte chunks a Control transport
// delivers into complete, length-delimited frames, using the frame
// header's own length field as the delimiter. A raw byte stream has no
// guarantee that one transport read lines up with one frame, so this
// is the length-prefix framer a production deployment needs above the
// transport.
//
// Not safe for concurrent use. Session.onControlMessage calls feed
// without locking, so the control transport must deliver chunks from
// one goroutine at a time.
type reassembler struct {
	buf []byte
}

// minFrameLength is the smallest length a header word can validly
// declare: the header word itself. Anything shorter can't be a real
// frame.
const minFrameLength = 2

// feed appends chunk to the internal buffer and returns every complete
// frame it can now extract, oldest first. Left-over bytes (a partial
// frame) are retained for the next feed.
//
// A header declaring a length below minFrameLength is dropped header
// word at a time rather than treated as a partial frame: control
// headers have no zero-length escape, so a corrupt or garbage prefix
// would otherwise never shrink the buffer and feed would spin forever.
func (r *reassembler) feed(chunk []byte) [][]byte {
	r.buf = append(r.buf, chunk...)

	var frames [][]byte
	for {
		length, ok := protocol.PeekLength(r.buf)
		if !ok {
			break
		}
		if length < minFrameLength {
			r.buf = r.buf[minFrameLength:]
			continue
		}
		if len(r.buf) < length {
			break
		}
		frame := make([]byte, length)
		copy(frame, r.buf[:length])
		frames = append(frames, frame)
		r.buf = r.buf[length:]
	}
	return frames
}
