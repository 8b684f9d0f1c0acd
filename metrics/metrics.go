// Package metrics exposes a decoder.Decoder's cumulative counters and
// current state as Prometheus collectors. It is a read-through view: it
// owns no state of its own and never influences decode behavior.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"eventstream/decoder"
)

var (
	messagesParsedDesc = prometheus.NewDesc(
		"eventstream_messages_parsed_total",
		"Cumulative frames successfully decoded.",
		nil, nil,
	)
	crcErrorsDesc = prometheus.NewDesc(
		"eventstream_crc_errors_total",
		"Cumulative CRC32C mismatches observed across both prelude and message checks.",
		nil, nil,
	)
	stateDesc = prometheus.NewDesc(
		"eventstream_decoder_state",
		"Current decoder lifecycle state, one info-style gauge per known state label.",
		[]string{"state"}, nil,
	)
)

// Collector adapts a *decoder.Decoder to prometheus.Collector. Reads are
// not synchronized beyond what the caller already guarantees for the
// wrapped Decoder: Collect must not run concurrently with Feed on the
// same Decoder.
type Collector struct {
	d *decoder.Decoder
}

// NewCollector wraps d for Prometheus registration.
func NewCollector(d *decoder.Decoder) *Collector {
	return &Collector{d: d}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- messagesParsedDesc
	ch <- crcErrorsDesc
	ch <- stateDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(messagesParsedDesc, prometheus.CounterValue, float64(c.d.MessagesParsed()))
	ch <- prometheus.MustNewConstMetric(crcErrorsDesc, prometheus.CounterValue, float64(c.d.CrcErrors()))

	current := c.d.State()
	for _, s := range []decoder.State{decoder.StateReady, decoder.StateParsing, decoder.StateRecovering, decoder.StateStopped} {
		var v float64
		if s == current {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(stateDesc, prometheus.GaugeValue, v, s.String())
	}
}
