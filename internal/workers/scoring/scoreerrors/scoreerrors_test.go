package scoreerrors

import (
	"context"
	"fmt"
	"testing"

	"clinical-score-workers/internal/common/errors"
	"clinical-score-workers/internal/instruments"
	"clinical-score-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"unknown factor", fmt.Errorf("%w: %q", scoring.ErrUnknownFactor, "smoker"), errors.ErrCodeUnknownFactor},
		{"unknown instrument", fmt.Errorf("%w: %q", instruments.ErrUnknownInstrument, "apache"), errors.ErrCodeUnknownInstrument},
		{"invalid instrument", fmt.Errorf("%w: no tiers", scoring.ErrInvalidInstrument), errors.ErrCodeInvalidInstrument},
		{"deadline", fmt.Errorf("evaluate: %w", context.DeadlineExceeded), errors.ErrCodeScoreEvaluationFailed},
		{"canceled", context.Canceled, errors.ErrCodeScoreEvaluationFailed},
		{"standard error passthrough", fmt.Errorf("wrapped: %w", errors.NewInvalidInputError("x")), errors.ErrCodeInvalidInput},
		{"other", fmt.Errorf("boom"), errors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdErr := Map(tt.err)
			require.NotNil(t, stdErr)
			assert.Equal(t, tt.code, stdErr.Code)
			assert.False(t, stdErr.Retryable)
		})
	}

	assert.Nil(t, Map(nil))
}
