package decoder

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// buildFrame assembles a well-formed frame with correct CRC32C prelude
// and message checksums, mirroring the wire layout in §4.1: total_length
// | headers_length | prelude_crc | headers | payload | message_crc.
func buildFrame(headers []byte, payload []byte) []byte {
	headersLen := uint32(len(headers))
	totalLen := uint32(4 + 4 + 4 + len(headers) + len(payload) + 4)

	prelude := &bytes.Buffer{}
	binary.Write(prelude, binary.BigEndian, totalLen)
	binary.Write(prelude, binary.BigEndian, headersLen)
	preludeCRC := crc32.Checksum(prelude.Bytes(), castagnoli)

	msg := &bytes.Buffer{}
	msg.Write(prelude.Bytes())
	binary.Write(msg, binary.BigEndian, preludeCRC)
	msg.Write(headers)
	msg.Write(payload)

	messageCRC := crc32.Checksum(msg.Bytes(), castagnoli)
	binary.Write(msg, binary.BigEndian, messageCRC)

	return msg.Bytes()
}

// writeHeader appends one TLV header triple with a string (type 7) value.
func writeHeader(buf *bytes.Buffer, name, value string) {
	nameBytes := []byte(name)
	buf.WriteByte(byte(len(nameBytes)))
	buf.Write(nameBytes)
	buf.WriteByte(byte(ValueTypeString))
	binary.Write(buf, binary.BigEndian, uint16(len(value)))
	buf.WriteString(value)
}

// corruptByte flips one bit at index i of a copy of b.
func corruptByte(b []byte, i int) []byte {
	out := append([]byte(nil), b...)
	out[i] ^= 0x01
	return out
}
