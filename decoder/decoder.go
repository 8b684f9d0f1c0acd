// Package decoder implements an incremental, fault-tolerant reader for a
// length-prefixed, CRC-protected binary event-stream framing protocol.
// Bytes arrive in arbitrary chunks through Feed; the decoder buffers
// whatever is incomplete and returns whichever frames it could fully
// assemble and validate.
package decoder

import (
	"encoding/binary"
	"hash/crc32"

	"eventstream/config"
	"eventstream/logger"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// Decoder holds the partial-frame buffer and lifecycle state for one
// event-stream connection. It is not safe for concurrent use; callers
// must serialize calls to Feed and Reset the same way the teacher
// corpus serializes access to its own stream parsers.
type Decoder struct {
	state       State
	buffer      []byte
	errorCount  uint32
	maxErrors   uint32
	validateCRC bool

	messagesParsed uint64
	crcErrors      uint64
}

// New constructs a Decoder. maxErrors bounds how many consecutive failed
// parse attempts are tolerated before the decoder moves to StateStopped;
// validateCRC toggles whether the two CRC32C checks run at all (an
// escape hatch for feeds known to be trusted, matching §6 of the wire
// format's configuration options).
func New(maxErrors uint32, validateCRC bool) *Decoder {
	return &Decoder{
		state:       StateReady,
		buffer:      make([]byte, 0, config.DefaultBufferCapacity),
		maxErrors:   maxErrors,
		validateCRC: validateCRC,
	}
}

// State reports the decoder's current lifecycle phase.
func (d *Decoder) State() State { return d.state }

// MessagesParsed is the cumulative count of frames successfully decoded
// across this decoder's lifetime. It survives Reset.
func (d *Decoder) MessagesParsed() uint64 { return d.messagesParsed }

// CrcErrors is the cumulative count of CRC mismatches observed across
// this decoder's lifetime. It survives Reset.
func (d *Decoder) CrcErrors() uint64 { return d.crcErrors }

// Reset returns the decoder to StateReady, drops any buffered partial
// frame, and clears the transient per-attempt error count. The
// cumulative counters are untouched.
func (d *Decoder) Reset() {
	d.state = StateReady
	d.buffer = d.buffer[:0]
	d.errorCount = 0
}

// Feed appends data to the internal buffer and decodes as many complete
// frames as it can. A Decoder in StateStopped ignores all input until
// Reset.
func (d *Decoder) Feed(data []byte) []ParsedMessage {
	if d.state == StateStopped {
		return nil
	}

	d.buffer = append(d.buffer, data...)

	var messages []ParsedMessage

	for {
		if d.state == StateRecovering {
			if !d.tryRecover() {
				break
			}
			d.state = StateReady
		}

		if len(d.buffer) < 12 {
			break
		}

		d.state = StateParsing
		msg, err := d.tryParseMessage()
		if err != nil {
			d.errorCount++
			if d.errorCount >= d.maxErrors {
				d.state = StateStopped
				logger.Warn("decoder stopped: error budget exhausted",
					logger.Err(err), logger.Uint64("crc_errors", d.crcErrors))
				break
			}
			d.state = StateRecovering
			logger.Warn("parse failed, entering recovery",
				logger.Err(err), logger.Int("error_count", int(d.errorCount)))
			continue
		}
		if msg == nil {
			// Not enough data buffered yet for the frame length already
			// declared at the front of the buffer. State intentionally
			// stays Parsing; the next Feed call re-enters the loop and
			// behaves as if it were Ready.
			break
		}

		d.state = StateReady
		d.errorCount = 0
		d.messagesParsed++
		messages = append(messages, *msg)
	}

	return messages
}

// tryParseMessage attempts to decode exactly one frame from the front
// of the buffer. It returns (nil, nil) when the buffer doesn't yet hold
// the full frame the length prefix promises. Bytes are always consumed
// from the buffer once total_length is known to be satisfiable, whether
// or not the frame goes on to pass CRC validation — a corrupt frame of
// a known size is never retried.
func (d *Decoder) tryParseMessage() (*ParsedMessage, error) {
	totalLength := binary.BigEndian.Uint32(d.buffer[0:4])

	if totalLength < config.MinMessageSize || totalLength > config.MaxMessageSize {
		return nil, wrapInvalidLength(totalLength)
	}

	if uint32(len(d.buffer)) < totalLength {
		return nil, nil
	}

	// Copy the frame out before consuming: consume shifts the remaining
	// bytes down over the front of the same backing array.
	messageData := append([]byte(nil), d.buffer[:totalLength]...)
	d.consume(int(totalLength))

	if d.validateCRC {
		preludeCRCExpected := binary.BigEndian.Uint32(messageData[8:12])
		preludeCRCActual := crc32.Checksum(messageData[0:8], castagnoli)
		if preludeCRCExpected != preludeCRCActual {
			d.crcErrors++
			return nil, wrapCRCMismatch(ErrPreludeCRCMismatch, preludeCRCExpected, preludeCRCActual)
		}

		msgLen := len(messageData)
		messageCRCExpected := binary.BigEndian.Uint32(messageData[msgLen-4:])
		messageCRCActual := crc32.Checksum(messageData[:msgLen-4], castagnoli)
		if messageCRCExpected != messageCRCActual {
			d.crcErrors++
			return nil, wrapCRCMismatch(ErrMessageCRCMismatch, messageCRCExpected, messageCRCActual)
		}
	}

	headersLength := binary.BigEndian.Uint32(messageData[4:8])
	if headersLength > totalLength-config.MinMessageSize {
		// The declared headers segment does not fit inside the frame.
		return nil, wrapInvalidLength(totalLength)
	}
	headers, err := parseHeaders(messageData[12 : 12+headersLength])
	if err != nil {
		return nil, err
	}

	payloadStart := 12 + headersLength
	payloadEnd := totalLength - 4
	payload, hasPayload := decodePayload(messageData[payloadStart:payloadEnd])

	return &ParsedMessage{
		Headers:     headers,
		Payload:     payload,
		HasPayload:  hasPayload,
		TotalLength: totalLength,
	}, nil
}

// tryRecover resynchronizes the buffer after a failed parse attempt. It
// always forces at least one byte of progress, then scans for the next
// 8-byte prelude whose CRC32C matches the 4 bytes that follow it. If no
// candidate sync point is found and the buffer has grown past
// config.RecoveryTrimThreshold, it is trimmed down to its trailing
// config.RecoveryTailSize bytes so a never-synchronizing stream doesn't
// grow the buffer unboundedly; the decoder stays in StateRecovering
// either way until a sync point is actually found.
func (d *Decoder) tryRecover() bool {
	if len(d.buffer) < 12 {
		return false
	}

	d.consume(1)

	limit := len(d.buffer) - 11
	for i := 0; i < limit; i++ {
		totalLength := binary.BigEndian.Uint32(d.buffer[i : i+4])
		if totalLength < config.MinMessageSize || totalLength > config.MaxMessageSize {
			continue
		}
		if len(d.buffer) < i+12 {
			continue
		}

		prelude := d.buffer[i : i+8]
		preludeCRC := binary.BigEndian.Uint32(d.buffer[i+8 : i+12])
		if crc32.Checksum(prelude, castagnoli) == preludeCRC {
			d.consume(i)
			return true
		}
	}

	if len(d.buffer) > config.RecoveryTrimThreshold {
		trim := len(d.buffer) - config.RecoveryTailSize
		d.consume(trim)
	}

	return false
}

// consume drops the first n bytes of the buffer in place.
func (d *Decoder) consume(n int) {
	copy(d.buffer, d.buffer[n:])
	d.buffer = d.buffer[:len(d.buffer)-n]
}
