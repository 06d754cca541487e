package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/gameshelfapp/gameshelf-server/internal/errors"
)

// testEnvelope mirrors the wire envelope for decoding in tests. Error
// envelopes flatten the code fields alongside the version.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestEnvelopeTransformer_Success(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "200", map[string]string{"hello": "world"})
	require.NoError(t, err)

	env, ok := out.(APIEnvelope)
	require.True(t, ok)
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Error)
}

func TestEnvelopeTransformer_CodedError(t *testing.T) {
	apiErr := &APIError{
		status:  404,
		Code:    string(domainerrors.CodeNotFound),
		Message: "game not found",
	}

	out, err := EnvelopeTransformer(nil, "404", apiErr)
	require.NoError(t, err)

	env, ok := out.(APIErrorEnvelope)
	require.True(t, ok)
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.Equal(t, "game not found", env.Message)
}

func TestEnvelopeTransformer_PlainError(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "500", assert.AnError)
	require.NoError(t, err)

	env, ok := out.(APIEnvelope)
	require.True(t, ok)
	assert.False(t, env.Success)
	assert.Equal(t, assert.AnError.Error(), env.Error)
}

// The version field is named exactly "v"; clients key off it.
func TestEnvelope_VersionFieldName(t *testing.T) {
	out, err := EnvelopeTransformer(nil, "200", "payload")
	require.NoError(t, err)

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "v")
	assert.EqualValues(t, 1, decoded["v"])
}

func TestRegisterErrorHandler_MapsDomainErrors(t *testing.T) {
	RegisterErrorHandler()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domainerrors.NotFound("library not found"), 404, "NOT_FOUND"},
		{"conflict", domainerrors.Conflict("game is borrowed"), 409, "CONFLICT"},
		{"validation", domainerrors.Validation("name is required"), 400, "VALIDATION"},
		{"forbidden", domainerrors.Forbidden("not a member"), 403, "FORBIDDEN"},
		{"unavailable", domainerrors.Unavailable("BGG down"), 502, "UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statusErr := newAPIError(tt.err)
			require.NotNil(t, statusErr)
			assert.Equal(t, tt.wantStatus, statusErr.GetStatus())
			assert.Equal(t, tt.wantCode, statusErr.Code)
		})
	}
}

// newAPIError runs an error through the registered huma error hook.
func newAPIError(err error) *APIError {
	statusErr := huma.NewError(http.StatusInternalServerError, "internal error", err)
	apiErr, _ := statusErr.(*APIError)
	return apiErr
}
