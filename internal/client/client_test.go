package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

func TestRequestGenerationBlankDescriptionMakesNoCall(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).RequestGeneration(context.Background(), "   ", "ctx", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestRequestGenerationSendsTrimmedFields(t *testing.T) {
	var got models.GenerationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate-prompt", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prompt":"Act as a mentor."}`))
	}))
	defer srv.Close()

	out, err := New(srv.URL+"/api/", time.Second).RequestGeneration(context.Background(), " mentor ", " junior dev ", "")
	require.NoError(t, err)
	assert.Equal(t, "Act as a mentor.", out)
	assert.Equal(t, models.GenerationRequest{Description: "mentor", UserContext: "junior dev"}, got)
}

func TestRequestGenerationDecodesErrorBody(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   apperrors.ErrorCode
		msg    string
	}{
		{"generation failed", http.StatusBadGateway, `{"error":"GENERATION_FAILED","message":"Prompt generation failed: quota exceeded"}`, apperrors.ErrCodeGenerationFailed, "Prompt generation failed: quota exceeded"},
		{"rate limited", http.StatusTooManyRequests, `{"error":"RATE_LIMITED","message":"slow down"}`, apperrors.ErrCodeRateLimited, "slow down"},
		{"legacy body", http.StatusInternalServerError, `{"error":"OpenAI request failed"}`, apperrors.ErrCodeGenerationFailed, "OpenAI request failed"},
		{"no body", http.StatusServiceUnavailable, ``, apperrors.ErrCodeGenerationFailed, "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second).RequestGeneration(context.Background(), "x", "", "")
			require.Error(t, err)
			appErr := apperrors.GetAppError(err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.msg, appErr.Message)
			assert.Equal(t, tt.status, appErr.Context["status"])
		})
	}
}

func TestRequestGenerationTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL, 5*time.Second).RequestGeneration(ctx, "x", "", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeTimeout))
}

func TestRequestGenerationUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).RequestGeneration(context.Background(), "x", "", "")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNetworkFailure))
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	assert.NoError(t, New(srv.URL, time.Second).Health(context.Background()))
}
