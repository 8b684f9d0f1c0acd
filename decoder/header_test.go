package decoder

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadersAllValueTypes(t *testing.T) {
	buf := &bytes.Buffer{}

	buf.WriteByte(4)
	buf.WriteString("flag")
	buf.WriteByte(byte(ValueTypeBoolTrue))

	buf.WriteByte(2)
	buf.WriteString("no")
	buf.WriteByte(byte(ValueTypeBoolFalse))

	buf.WriteByte(2)
	buf.WriteString("i8")
	buf.WriteByte(byte(ValueTypeByte))
	buf.WriteByte(0xFE) // -2

	buf.WriteByte(3)
	buf.WriteString("i16")
	buf.WriteByte(byte(ValueTypeShort))
	binary.Write(buf, binary.BigEndian, int16(-1000))

	buf.WriteByte(3)
	buf.WriteString("i32")
	buf.WriteByte(byte(ValueTypeInteger))
	binary.Write(buf, binary.BigEndian, int32(-70000))

	buf.WriteByte(3)
	buf.WriteString("i64")
	buf.WriteByte(byte(ValueTypeLong))
	binary.Write(buf, binary.BigEndian, int64(-5000000000))

	uuidBytes := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}
	buf.WriteByte(4)
	buf.WriteString("uuid")
	buf.WriteByte(byte(ValueTypeUUID))
	buf.Write(uuidBytes)

	buf.WriteByte(5)
	buf.WriteString("bytes")
	buf.WriteByte(byte(ValueTypeByteArray))
	binary.Write(buf, binary.BigEndian, uint16(3))
	buf.Write([]byte{0xDE, 0xAD, 0xBE})

	headers, err := parseHeaders(buf.Bytes())
	require.NoError(t, err)

	assert.True(t, headers["flag"].Bool)
	assert.False(t, headers["no"].Bool)
	assert.EqualValues(t, -2, headers["i8"].Int)
	assert.EqualValues(t, -1000, headers["i16"].Int)
	assert.EqualValues(t, -70000, headers["i32"].Int)
	assert.EqualValues(t, -5000000000, headers["i64"].Int)
	assert.Equal(t, hex.EncodeToString(uuidBytes), headers["uuid"].Str)
	assert.Equal(t, "deadbe", headers["bytes"].Str)
}

func TestParseHeadersShortReadIsTolerated(t *testing.T) {
	buf := &bytes.Buffer{}
	writeHeader(buf, "complete", "value")
	// Truncated trailing triple: name_length + name + value_type only,
	// missing its 2-byte length and value bytes entirely.
	buf.WriteByte(4)
	buf.WriteString("cut!")
	buf.WriteByte(byte(ValueTypeString))

	headers, err := parseHeaders(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Equal(t, "value", headers["complete"].Str)
}

func TestParseHeadersUnknownTypeIsHardError(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.WriteByte(4)
	buf.WriteString("bad!")
	buf.WriteByte(99)

	_, err := parseHeaders(buf.Bytes())
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrInvalidHeaderType, pe.Kind)
}

func TestParseHeadersInvalidUTF8NameIsHardError(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.WriteByte(2)
	buf.Write([]byte{0xFF, 0xFE})
	buf.WriteByte(byte(ValueTypeBoolTrue))

	_, err := parseHeaders(buf.Bytes())
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ErrUTF8, pe.Kind)
}
