// Package client calls the generation endpoint of a running prompt builder server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/dpshade/prompt-builder/internal/errors"
	"github.com/dpshade/prompt-builder/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 45 * time.Second

	maxBodyBytes = 1 << 20
)

// Client is an HTTP client for the /api endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. An empty baseURL selects DefaultBaseURL and a zero timeout DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateResponse struct {
	Prompt string `json:"prompt"`
}

// RequestGeneration asks the server for a prompt. A blank description fails
// locally without a request.
func (c *Client) RequestGeneration(ctx context.Context, description, userContext, additionalContext string) (string, error) {
	req := models.GenerationRequest{
		Description:       description,
		UserContext:       userContext,
		AdditionalContext: additionalContext,
	}.Trimmed()
	if req.Description == "" {
		return "", apperrors.ValidationError("description is required")
	}

	var out generateResponse
	if err := c.post(ctx, "/generate-prompt", req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Prompt) == "" {
		return "", apperrors.GenerationFailed(fmt.Errorf("server returned an empty prompt"))
	}
	return out.Prompt, nil
}

// Generate satisfies the service Generator interface
func (c *Client) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	return c.RequestGeneration(ctx, req.Description, req.UserContext, req.AdditionalContext)
}

// Health reports whether the server answers {ok: true}
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return apperrors.NetworkError("build request", err)
	}
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(httpReq, &out); err != nil {
		return err
	}
	if !out.OK {
		return apperrors.NewAppError(apperrors.ErrCodeNetworkFailure, "server reported unhealthy")
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to encode request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return apperrors.NetworkError("build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq, out)
}

func (c *Client) do(httpReq *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var netErr net.Error
		if httpReq.Context().Err() != nil || (stderrors.As(err, &netErr) && netErr.Timeout()) {
			return apperrors.Wrap(err, apperrors.ErrCodeTimeout, "request cancelled or timed out")
		}
		return apperrors.NetworkError(httpReq.Method+" "+httpReq.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperrors.NetworkError("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeGenerationFailed, "malformed response from server").
			WithDetails(err.Error())
	}
	return nil
}

// decodeError maps an {error, message} body back into an AppError. Bodies that do
// not name a known code become GENERATION_FAILED.
func decodeError(status int, data []byte) error {
	var body apperrors.ErrorBody
	_ = json.Unmarshal(data, &body)

	code, ok := apperrors.KnownCode(body.Error)
	if !ok {
		code = apperrors.ErrCodeGenerationFailed
	}

	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}

	return apperrors.NewAppError(code, message).
		WithContext("status", status)
}
