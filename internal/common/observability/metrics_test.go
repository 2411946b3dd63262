package observability

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
)

func gatheredNames(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func containsName(names []string, part string) bool {
	for _, n := range names {
		if strings.Contains(n, part) {
			return true
		}
	}
	return false
}

func TestObservability_RecordEvaluation(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := New("clinical-score-test", otelprom.WithRegisterer(reg))
	require.NoError(t, err)
	defer func() { assert.NoError(t, obs.Shutdown()) }()

	ctx := context.Background()
	obs.RecordEvaluation(ctx, "cha2ds2-vasc", "high risk", 5)

	names := gatheredNames(t, reg)
	assert.True(t, containsName(names, "score_evaluations"), "got %v", names)
	assert.True(t, containsName(names, "score_value"), "got %v", names)
}

func TestObservability_ZeroValueIsNoOp(t *testing.T) {
	var obs Observability
	assert.NotPanics(t, func() {
		obs.RecordEvaluation(context.Background(), "fast", "stroke likely", 3)
	})
	assert.NoError(t, obs.Shutdown())
}
