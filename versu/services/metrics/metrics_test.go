package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordTurn(t *testing.T) {
	before := testutil.ToFloat64(TurnsTotal.WithLabelValues(OutcomeFallback))
	RecordTurn(OutcomeFallback)
	assert.Equal(t, before+1, testutil.ToFloat64(TurnsTotal.WithLabelValues(OutcomeFallback)))
}

func TestRecordRequestLabelsStatus(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/health", "200"))
	RecordRequest("GET", "/api/health", 200, 0.01)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/health", "200")))
}
