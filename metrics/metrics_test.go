package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventstream/decoder"
)

func TestCollectorReportsCounters(t *testing.T) {
	d := decoder.New(3, true)
	c := NewCollector(d)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	var sawMessagesParsed, sawCrcErrors, sawState bool
	for _, f := range families {
		switch f.GetName() {
		case "eventstream_messages_parsed_total":
			sawMessagesParsed = true
			assert.Zero(t, f.Metric[0].GetCounter().GetValue())
		case "eventstream_crc_errors_total":
			sawCrcErrors = true
		case "eventstream_decoder_state":
			sawState = true
			assert.Len(t, f.Metric, 4)
			assert.True(t, hasActiveLabel(f.Metric, "ready"))
		}
	}

	assert.True(t, sawMessagesParsed)
	assert.True(t, sawCrcErrors)
	assert.True(t, sawState)
}

func hasActiveLabel(metrics []*dto.Metric, label string) bool {
	for _, m := range metrics {
		for _, l := range m.GetLabel() {
			if l.GetValue() == label {
				return m.GetGauge().GetValue() == 1
			}
		}
	}
	return false
}
