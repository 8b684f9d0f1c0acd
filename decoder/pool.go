package decoder

import "sync"

// Pool recycles Decoder instances so a server handling many short-lived
// streams doesn't pay for a fresh 64 KiB buffer allocation per
// connection. Get always returns a Decoder in StateReady with zeroed
// counters, since Reset alone would leave messages_parsed/crc_errors
// from the previous tenant.
type Pool struct {
	maxErrors   uint32
	validateCRC bool
	pool        sync.Pool
}

// NewPool builds a Pool whose Decoders all share the given construction
// options.
func NewPool(maxErrors uint32, validateCRC bool) *Pool {
	p := &Pool{maxErrors: maxErrors, validateCRC: validateCRC}
	p.pool.New = func() any {
		return New(p.maxErrors, p.validateCRC)
	}
	return p
}

// Get returns a Decoder ready for a new stream.
func (p *Pool) Get() *Decoder {
	return p.pool.Get().(*Decoder)
}

// Put returns a Decoder to the pool. The counters are reset to zero
// before reuse; unlike Decoder.Reset, a pooled Decoder must not leak a
// previous stream's cumulative statistics into the next one.
func (p *Pool) Put(d *Decoder) {
	d.Reset()
	d.messagesParsed = 0
	d.crcErrors = 0
	p.pool.Put(d)
}
