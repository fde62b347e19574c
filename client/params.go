package client

import "encoding/binary"

// receiverStateMode is the second byte of a ReceiverState SetControlItem
// request. The three-probe handshake deliberately avoids guessing
// payload layouts, but the run/idle toggle needs a concrete encoding to
// be usable at all; this mirrors the NetSDR interface's run/stop byte
// and is documented as an implementer decision in DESIGN.md.
type receiverStateMode byte

const (
	receiverIdle receiverStateMode = 0x01
	receiverRun  receiverStateMode = 0x02
)

// receiverStateParams builds the 2-byte body of a ReceiverState
// SetControlItem request: channel 0 (the only channel this client
// drives) followed by the run/idle mode byte.
func receiverStateParams(mode receiverStateMode) []byte {
	return []byte{0x00, byte(mode)}
}

// frequencyParams builds the body of a ReceiverFrequency
// SetControlItem request: a 1-byte channel selector followed by the
// frequency in Hz as a 5-byte little-endian unsigned integer — the
// width the NetSDR wire protocol uses so a 32-bit Hz value isn't
// insufficient for receivers tuned above ~4.3 GHz.
func frequencyParams(channel byte, hz int64) []byte {
	var wide [8]byte
	binary.LittleEndian.PutUint64(wide[:], uint64(hz))

	buf := make([]byte, 6)
	buf[0] = channel
	copy(buf[1:], wide[:5])
	return buf
}
