package decoder

import "github.com/bytedance/sonic"

// ParsedMessage is one fully decoded frame.
type ParsedMessage struct {
	Headers     map[string]HeaderValue
	Payload     any
	HasPayload  bool
	TotalLength uint32
}

// decodePayload mirrors the wire format's payload contract: try JSON
// first, and if that fails, fall back to a lossy UTF-8 string rather
// than surfacing a parse error. An empty payload segment yields no
// payload at all.
func decodePayload(data []byte) (any, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var v any
	if err := sonic.ConfigStd.Unmarshal(data, &v); err == nil {
		return v, true
	}
	return lossyUTF8(data), true
}
