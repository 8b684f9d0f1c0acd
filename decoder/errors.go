package decoder

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseErrorKind is the taxonomy of reasons a single frame parse attempt
// can fail. A ParseError never crosses Feed's public boundary; callers only ever see
// the decoder's State and counters change.
type ParseErrorKind int

const (
	ErrInvalidLength ParseErrorKind = iota
	ErrPreludeCRCMismatch
	ErrMessageCRCMismatch
	ErrInvalidHeaderType
	ErrUTF8
)

type ParseError struct {
	Kind ParseErrorKind
	// Expected/Actual are populated for the two CRC mismatch kinds.
	Expected uint32
	Actual   uint32
	// Length is populated for ErrInvalidLength.
	Length uint32
	// HeaderType is populated for ErrInvalidHeaderType.
	HeaderType byte
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrInvalidLength:
		return fmt.Sprintf("invalid total_length: %d", e.Length)
	case ErrPreludeCRCMismatch:
		return fmt.Sprintf("prelude crc mismatch: expected %08x, actual %08x", e.Expected, e.Actual)
	case ErrMessageCRCMismatch:
		return fmt.Sprintf("message crc mismatch: expected %08x, actual %08x", e.Expected, e.Actual)
	case ErrInvalidHeaderType:
		return fmt.Sprintf("invalid header value type: %d", e.HeaderType)
	case ErrUTF8:
		return "invalid utf-8 in header name"
	default:
		return "unknown parse error"
	}
}

func wrapParse(kind ParseErrorKind) error {
	return errors.WithStack(&ParseError{Kind: kind})
}

func wrapInvalidLength(length uint32) error {
	return errors.WithStack(&ParseError{Kind: ErrInvalidLength, Length: length})
}

func wrapCRCMismatch(kind ParseErrorKind, expected, actual uint32) error {
	return errors.WithStack(&ParseError{Kind: kind, Expected: expected, Actual: actual})
}

func wrapInvalidHeaderType(t byte) error {
	return errors.WithStack(&ParseError{Kind: ErrInvalidHeaderType, HeaderType: t})
}
