package obsmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/stasais/flowshop/internal/obsmetrics"
)

func TestEvaluations_IncrementsPerMethod(t *testing.T) {
	before := testutil.ToFloat64(obsmetrics.Evaluations.WithLabelValues("TestMethod"))
	obsmetrics.Evaluations.WithLabelValues("TestMethod").Inc()
	after := testutil.ToFloat64(obsmetrics.Evaluations.WithLabelValues("TestMethod"))
	assert.Equal(t, before+1, after)
}

func TestSearchDuration_ObserveDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		obsmetrics.SearchDuration.WithLabelValues("TestMethod").Observe(0.05)
	})
}

func TestBestMakespan_ObserveDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		obsmetrics.BestMakespan.WithLabelValues("TestMethod").Observe(123.4)
	})
}
