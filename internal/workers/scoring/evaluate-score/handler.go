// internal/workers/scoring/evaluate-score/handler.go
package evaluatescore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinical-score-workers/internal/common/errors"
	"clinical-score-workers/internal/common/logger"
	"clinical-score-workers/internal/common/metrics"
	"clinical-score-workers/internal/instruments"
	"clinical-score-workers/internal/scoring"
	"clinical-score-workers/internal/workers/scoring/scoreerrors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "evaluate-clinical-score"
)

// Recorder receives one call per successful evaluation.
type Recorder interface {
	RecordEvaluation(ctx context.Context, instrument, tier string, score int)
}

type Handler struct {
	config       *Config
	catalog      *instruments.Catalog
	recorder     Recorder
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, catalog *instruments.Catalog, recorder Recorder, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		catalog:      catalog,
		recorder:     recorder,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := parseInput(job.Variables)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	if !h.completeJob(client, job, output) {
		metrics.ObserveJob(TaskType, string(errors.ErrCodeCompleteJobFailed), time.Since(start).Seconds())
		return
	}
	metrics.ObserveJob(TaskType, "", time.Since(start).Seconds())
}

func parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.InstrumentID == "" {
		return nil, errors.NewInvalidInputError("instrumentId is required")
	}

	evaluator, err := h.catalog.Get(input.InstrumentID)
	if err != nil {
		return nil, errors.NewUnknownInstrumentError(input.InstrumentID)
	}

	ids := make([]scoring.FactorID, 0, len(input.SelectedFactors))
	for _, id := range input.SelectedFactors {
		ids = append(ids, scoring.FactorID(id))
	}

	if h.config.RejectGroupConflicts {
		if err := checkGroupConflicts(evaluator, ids); err != nil {
			return nil, err
		}
	}

	selection, err := evaluator.Select(ids...)
	if err != nil {
		return nil, scoreerrors.Map(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewScoreEvaluationFailedError(err)
	}

	result := evaluator.Evaluate(selection)

	metrics.ScoreEvaluations.WithLabelValues(result.InstrumentID, result.Tier.Label).Inc()
	if h.recorder != nil {
		h.recorder.RecordEvaluation(ctx, result.InstrumentID, result.Tier.Label, result.Score)
	}

	h.logger.Info("score evaluated", map[string]interface{}{
		"instrumentId": result.InstrumentID,
		"score":        result.Score,
		"maxScore":     result.MaxScore,
		"tier":         result.Tier.Label,
		"patientRef":   input.PatientRef,
	})

	return &Output{
		EvaluationID:    uuid.NewString(),
		InstrumentID:    result.InstrumentID,
		InstrumentName:  evaluator.Name(),
		Score:           result.Score,
		MaxScore:        result.MaxScore,
		Tier:            toTierOutput(result.Tier),
		SelectedFactors: selection.Strings(),
		PatientRef:      input.PatientRef,
	}, nil
}

func checkGroupConflicts(evaluator *scoring.Evaluator, ids []scoring.FactorID) error {
	seen := make(map[string]scoring.FactorID)
	for _, id := range ids {
		f, ok := evaluator.Factor(id)
		if !ok || f.Group == "" {
			continue
		}
		if prev, dup := seen[f.Group]; dup && prev != id {
			return errors.NewInvalidInputError(
				fmt.Sprintf("factors %q and %q are mutually exclusive", prev, id))
		}
		seen[f.Group] = id
	}
	return nil
}

func toTierOutput(t scoring.Tier) TierOutput {
	considerations := t.Considerations
	if considerations == nil {
		considerations = []string{}
	}
	return TierOutput{
		Label:          t.Label,
		MinScore:       t.MinScore,
		Recommendation: t.Recommendation,
		Considerations: considerations,
		RiskPercent:    t.RiskPercent,
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) bool {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return false
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return false
	}
	return true
}

// failJob runs on a fresh context so a job that hit its timeout can still
// be reported.
func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := h.errorHandler.HandleJobError(context.Background(), client, job, scoreerrors.Map(err))
	metrics.ObserveJob(TaskType, string(stdErr.Code), time.Since(start).Seconds())
}
