package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubErrorWrapping(t *testing.T) {
	root := fmt.Errorf("connection reset")
	err := NewNetworkError(root, "failed to fetch index").WithContext("url", "https://example.com/index_v2.csv")

	assert.Equal(t, "failed to fetch index: connection reset", err.Error())
	assert.True(t, errors.Is(err, root))
	assert.True(t, err.Retryable)
	assert.Contains(t, err.FormatDetailed(), "https://example.com/index_v2.csv")

	wrapped := fmt.Errorf("refresh: %w", err)
	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeNetwork, got.Code)
}

func TestHasCode_WalksNestedHubErrors(t *testing.T) {
	inner := NewNotFoundError(CodeItemNotFound, "item w1 not found")
	outer := WrapError(inner, ErrorTypeUnknown, "DOWNLOAD", "download failed")

	assert.True(t, HasCode(outer, CodeItemNotFound))
	assert.True(t, HasCode(outer, "DOWNLOAD"))
	assert.False(t, HasCode(outer, CodeNoFileName))
	assert.False(t, HasCode(fmt.Errorf("plain"), CodeItemNotFound))
}

func TestIs_MatchesTypeAndCode(t *testing.T) {
	err := NewNotFoundError(CodeItemNotFound, "a")
	assert.True(t, errors.Is(err, &HubError{Type: ErrorTypeNotFound, Code: CodeItemNotFound}))
	assert.False(t, errors.Is(err, &HubError{Type: ErrorTypeNotFound, Code: CodeNoFileName}))
}

func TestErrorHandler_Stats(t *testing.T) {
	h := NewErrorHandler(nil)

	assert.Nil(t, h.Handle(nil))
	got := h.Handle(fmt.Errorf("boom"))
	require.NotNil(t, got)
	assert.Equal(t, ErrorTypeUnknown, got.Type)

	h.Handle(NewValidationError(CodeInvalidArgument, "bad limit"))

	stats := h.GetStats()
	assert.Equal(t, 2, stats.TotalErrors)
	assert.Equal(t, 1, stats.ErrorsByCode[CodeInvalidArgument])
}

func TestFormatDetailed_SortsContext(t *testing.T) {
	err := NewNotFoundError(CodeItemNotFound, "item w1 not found").
		WithContext("stage", "manifest_v2").
		WithContext("item", "w1")

	out := err.FormatDetailed()
	assert.True(t, strings.HasPrefix(out, "NOT_FOUND error [ITEM_NOT_FOUND]: item w1 not found"))
	assert.Less(t, strings.Index(out, "item: w1"), strings.Index(out, "stage: manifest_v2"))
	assert.Contains(t, out, "wearhub update")
	assert.NotContains(t, out, "can be retried")
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrorTypeNotFound.String())
	assert.Equal(t, "UNKNOWN", ErrorType(42).String())
}
