// internal/common/errors/errors_test.go
package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewRecommendationFailedError(errors.New("redis unavailable"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "RECOMMENDATION_FAILED", bpmnErr.Code)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "RECOMMENDATION_FAILED", bpmnErr.ErrorVariables["originalErrorCode"])
	assert.NotEmpty(t, bpmnErr.ErrorVariables["timestamp"])
}

func TestConvertToBPMNError_NonRetryableDropsRetries(t *testing.T) {
	stdErr := NewProfileNotFoundError("cand-404")

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "PROFILE_NOT_FOUND", bpmnErr.Code)
	assert.False(t, bpmnErr.Retryable)
	assert.Equal(t, 0, bpmnErr.Retries)
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeQueryFailed, 3},
		{ErrCodeNotificationSendFailed, 3},
		{ErrCodeQueryTimeout, 2},
		{ErrCodeOracleFailed, 2},
		{ErrCodeOracleTimeout, 1},
		{ErrCodeProfileValidationFailed, 0},
		{ErrCodeInvalidSource, 0},
		{ErrCodeParseError, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeSearchFailed))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeOracleTimeout))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "RANKING", GetErrorCategory(ErrCodeRecommendationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory("SOMETHING_ELSE"))
}

func TestToErrorVariables(t *testing.T) {
	bpmnErr := &BPMNError{
		Code:      "QUERY_FAILED",
		Message:   "Listing query failed",
		Details:   "connection reset",
		Retryable: true,
		ErrorVariables: map[string]interface{}{
			"attempt": 2,
		},
	}

	vars := bpmnErr.ToErrorVariables()

	assert.Equal(t, "QUERY_FAILED", vars["errorCode"])
	assert.Equal(t, "Listing query failed", vars["errorMessage"])
	assert.Equal(t, "connection reset", vars["errorDetails"])
	assert.Equal(t, true, vars["retryable"])
	assert.Equal(t, 2, vars["attempt"])
}
