// internal/workers/scoring/toggle-factor/handler.go
package togglefactor

import (
	"context"
	"encoding/json"
	"time"

	"clinical-score-workers/internal/common/errors"
	"clinical-score-workers/internal/common/logger"
	"clinical-score-workers/internal/common/metrics"
	"clinical-score-workers/internal/instruments"
	"clinical-score-workers/internal/scoring"
	"clinical-score-workers/internal/workers/scoring/scoreerrors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "toggle-score-factor"
)

type Handler struct {
	config       *Config
	catalog      *instruments.Catalog
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, catalog *instruments.Catalog, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		catalog:      catalog,
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

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewParseError(err), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.InstrumentID == "" {
		return nil, errors.NewInvalidInputError("instrumentId is required")
	}
	if !input.Reset && input.FactorID == "" {
		return nil, errors.NewInvalidInputError("factorId is required unless reset is set")
	}

	evaluator, err := h.catalog.Get(input.InstrumentID)
	if err != nil {
		return nil, errors.NewUnknownInstrumentError(input.InstrumentID)
	}

	selection, err := h.nextSelection(evaluator, input)
	if err != nil {
		return nil, scoreerrors.Map(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewScoreEvaluationFailedError(err)
	}

	score := evaluator.ComputeScore(selection)
	tier := evaluator.Classify(score)

	h.logger.Debug("factor toggled", map[string]interface{}{
		"instrumentId": evaluator.ID(),
		"factorId":     input.FactorID,
		"reset":        input.Reset,
		"score":        score,
		"tier":         tier.Label,
	})

	considerations := tier.Considerations
	if considerations == nil {
		considerations = []string{}
	}
	return &Output{
		SelectedFactors: selection.Strings(),
		Score:           score,
		Tier: TierOutput{
			Label:          tier.Label,
			MinScore:       tier.MinScore,
			Recommendation: tier.Recommendation,
			Considerations: considerations,
			RiskPercent:    tier.RiskPercent,
		},
	}, nil
}

// nextSelection rebuilds the current selection and applies one step to it.
func (h *Handler) nextSelection(evaluator *scoring.Evaluator, input *Input) (scoring.Selection, error) {
	if input.Reset {
		return evaluator.Reset(), nil
	}

	current := make([]scoring.FactorID, 0, len(input.SelectedFactors))
	for _, id := range input.SelectedFactors {
		current = append(current, scoring.FactorID(id))
	}
	selection, err := evaluator.Select(current...)
	if err != nil {
		return selection, err
	}
	return evaluator.Toggle(selection, scoring.FactorID(input.FactorID))
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

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	stdErr := h.errorHandler.HandleJobError(context.Background(), client, job, scoreerrors.Map(err))
	metrics.ObserveJob(TaskType, string(stdErr.Code), time.Since(start).Seconds())
}
