package decoder

import (
	"encoding/binary"
	"encoding/hex"
	"unicode/utf8"
)

// ValueType is the wire tag of a single TLV header value.
type ValueType byte

const (
	ValueTypeBoolTrue  ValueType = 0
	ValueTypeBoolFalse ValueType = 1
	ValueTypeByte      ValueType = 2
	ValueTypeShort     ValueType = 3
	ValueTypeInteger   ValueType = 4
	ValueTypeLong      ValueType = 5
	ValueTypeByteArray ValueType = 6
	ValueTypeString    ValueType = 7
	ValueTypeTimestamp ValueType = 8
	ValueTypeUUID      ValueType = 9
)

// HeaderValue is a single decoded header, tagged by its wire type. Byte
// arrays and UUIDs are normalized to lowercase hex in Str; everything
// else uses the field matching its Go type.
type HeaderValue struct {
	Type ValueType
	Bool bool
	Int  int64
	Str  string
}

// parseHeaders walks one complete headers segment. It never returns an
// error for a segment that simply runs out of bytes mid-field: a short
// read just ends the scan early with whatever headers were already
// decoded, matching the tolerant behavior of the wire format's other
// implementations. Only an unknown value type or a header name that is
// not valid UTF-8 is a hard error. Duplicate names overwrite: last one
// in the segment wins.
func parseHeaders(data []byte) (map[string]HeaderValue, error) {
	headers := make(map[string]HeaderValue)
	offset := 0

	for offset < len(data) {
		nameLength := int(data[offset])
		offset++

		if offset+nameLength > len(data) {
			break
		}
		nameBytes := data[offset : offset+nameLength]
		if !utf8.Valid(nameBytes) {
			return headers, wrapParse(ErrUTF8)
		}
		name := string(nameBytes)
		offset += nameLength

		if offset >= len(data) {
			break
		}
		valueType := ValueType(data[offset])
		offset++

		var value HeaderValue
		switch valueType {
		case ValueTypeBoolTrue:
			value = HeaderValue{Type: valueType, Bool: true}
		case ValueTypeBoolFalse:
			value = HeaderValue{Type: valueType, Bool: false}
		case ValueTypeByte:
			if offset >= len(data) {
				return headers, nil
			}
			value = HeaderValue{Type: valueType, Int: int64(int8(data[offset]))}
			offset++
		case ValueTypeShort:
			if offset+2 > len(data) {
				return headers, nil
			}
			value = HeaderValue{Type: valueType, Int: int64(int16(binary.BigEndian.Uint16(data[offset : offset+2])))}
			offset += 2
		case ValueTypeInteger:
			if offset+4 > len(data) {
				return headers, nil
			}
			value = HeaderValue{Type: valueType, Int: int64(int32(binary.BigEndian.Uint32(data[offset : offset+4])))}
			offset += 4
		case ValueTypeLong, ValueTypeTimestamp:
			if offset+8 > len(data) {
				return headers, nil
			}
			value = HeaderValue{Type: valueType, Int: int64(binary.BigEndian.Uint64(data[offset : offset+8]))}
			offset += 8
		case ValueTypeByteArray, ValueTypeString:
			if offset+2 > len(data) {
				return headers, nil
			}
			valueLength := int(binary.BigEndian.Uint16(data[offset : offset+2]))
			offset += 2
			if offset+valueLength > len(data) {
				return headers, nil
			}
			raw := data[offset : offset+valueLength]
			offset += valueLength
			if valueType == ValueTypeString {
				value = HeaderValue{Type: valueType, Str: lossyUTF8(raw)}
			} else {
				value = HeaderValue{Type: valueType, Str: hex.EncodeToString(raw)}
			}
		case ValueTypeUUID:
			if offset+16 > len(data) {
				return headers, nil
			}
			value = HeaderValue{Type: valueType, Str: hex.EncodeToString(data[offset : offset+16])}
			offset += 16
		default:
			return headers, wrapInvalidHeaderType(byte(valueType))
		}

		headers[name] = value
	}

	return headers, nil
}

// lossyUTF8 replaces invalid sequences the way Rust's
// String::from_utf8_lossy does, with the standard replacement character.
func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	buf := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		buf = append(buf, r)
		b = b[size:]
	}
	return string(buf)
}
