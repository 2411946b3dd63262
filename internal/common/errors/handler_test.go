package errors

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"clinical-score-workers/internal/common/camunda/camundatest"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) Error(msg string, _ map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func testJob(retries int32) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                42,
		Type:               "evaluate-clinical-score",
		ProcessInstanceKey: 7,
		Retries:            retries,
	}}
}

func TestHandleJobError_ThrowsNonRetryable(t *testing.T) {
	client := camundatest.NewJobClient()
	handler := NewErrorHandler(&recordingLogger{})

	stdErr := handler.HandleJobError(context.Background(), client, testJob(3), NewUnknownFactorError("smoker"))
	assert.Equal(t, ErrCodeUnknownFactor, stdErr.Code)

	assert.Empty(t, client.Gateway.Failed())
	thrown := client.Gateway.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, int64(42), thrown[0].GetJobKey())
	assert.Equal(t, "UNKNOWN_FACTOR", thrown[0].GetErrorCode())
	assert.Contains(t, thrown[0].GetVariables(), "originalErrorCode")
}

func TestHandleJobError_RetryableSpendsRetries(t *testing.T) {
	client := camundatest.NewJobClient()
	handler := NewErrorHandler(&recordingLogger{})

	job := testJob(3)
	var sent []int32
	for job.Retries > 0 {
		handler.HandleJobError(context.Background(), client, job, NewExternalServiceError("zeebe", fmt.Errorf("unavailable")))
		failed := client.Gateway.Failed()
		require.NotEmpty(t, failed)
		last := failed[len(failed)-1]
		sent = append(sent, last.GetRetries())
		job.Retries = last.GetRetries()
		require.Less(t, len(sent), 5, "retries never ran out")
	}

	assert.Equal(t, []int32{2, 1, 0}, sent)
	assert.Empty(t, client.Gateway.Thrown())
	assert.Contains(t, client.Gateway.Failed()[0].GetVariables(), "EXTERNAL_SERVICE_ERROR")
}

func TestHandleJobError_RetryableWithoutRetriesLeftThrows(t *testing.T) {
	client := camundatest.NewJobClient()
	handler := NewErrorHandler(&recordingLogger{})

	handler.HandleJobError(context.Background(), client, testJob(0), NewTimeoutError("zeebe", fmt.Errorf("slow")))

	assert.Empty(t, client.Gateway.Failed())
	require.Len(t, client.Gateway.Thrown(), 1)
	assert.Equal(t, "TIMEOUT_ERROR", client.Gateway.Thrown()[0].GetErrorCode())
}

func TestHandleJobError_LogsSendFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"throw", NewInvalidInputError("x"), "failed to send throw error command"},
		{"fail", NewExternalServiceError("zeebe", fmt.Errorf("down")), "failed to send fail job command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := camundatest.NewJobClient()
			client.Gateway.SendErr = fmt.Errorf("gateway unavailable")
			log := &recordingLogger{}

			NewErrorHandler(log).HandleJobError(context.Background(), client, testJob(3), tt.err)

			assert.Contains(t, log.messages, "job failed")
			assert.Contains(t, log.messages, tt.want)
		})
	}
}

func TestRemainingRetries(t *testing.T) {
	tests := []struct {
		jobRetries int32
		maxRetries int
		want       int32
	}{
		{jobRetries: 3, maxRetries: 3, want: 2},
		{jobRetries: 5, maxRetries: 2, want: 2},
		{jobRetries: 1, maxRetries: 3, want: 0},
		{jobRetries: 0, maxRetries: 3, want: 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.jobRetries, tt.maxRetries), func(t *testing.T) {
			assert.Equal(t, tt.want, remainingRetries(tt.jobRetries, tt.maxRetries))
		})
	}
}
