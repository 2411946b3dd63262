// internal/workers/scoring/scoreerrors/scoreerrors.go
package scoreerrors

import (
	"context"
	stderrors "errors"

	"clinical-score-workers/internal/common/errors"
	"clinical-score-workers/internal/instruments"
	"clinical-score-workers/internal/scoring"
)

// Map turns scoring and catalog sentinels into StandardErrors with stable
// codes. Anything unrecognised becomes INTERNAL_ERROR.
func Map(err error) *errors.StandardError {
	var stdErr *errors.StandardError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &stdErr):
		return stdErr
	case stderrors.Is(err, scoring.ErrUnknownFactor):
		return errors.NewUnknownFactorError(err.Error())
	case stderrors.Is(err, instruments.ErrUnknownInstrument):
		return errors.NewUnknownInstrumentError(err.Error())
	case stderrors.Is(err, scoring.ErrInvalidInstrument):
		return errors.NewInvalidInstrumentError(err)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		return errors.NewScoreEvaluationFailedError(err)
	default:
		return errors.Normalize(err)
	}
}
