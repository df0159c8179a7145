package dana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"dana-report-card/internal/config"
	"dana-report-card/internal/logger"
	"dana-report-card/internal/model"
	"dana-report-card/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://dana.medu.ir/core-api/v1"
	ServiceID      = "dana.medu.ir"
	ReportCardKey  = "finalMedu/user/final-report-card"

	dataSourcePath     = "/data-provider/get-data-source"
	implPathParam      = "implPath"
	defaultTimeout     = 60 * time.Second
	defaultConcurrency = 4

	headerAccept      = "application/json, text/plain, */*"
	headerContentType = "application/json; charset=UTF-8"
)

// Client talks to the portal's data-provider endpoint. It keeps no
// per-call state and is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	credential  model.Credential
	secretKey   string
	concurrency int
	log         zerolog.Logger
}

type dataSourceRequest struct {
	ServiceID string         `json:"serviceId"`
	Key       string         `json:"key"`
	Params    map[string]any `json:"params"`
}

func NewClient(cred model.Credential, opts ...Option) (*Client, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	o := clientOptions{
		baseURL:          DefaultBaseURL,
		timeout:          defaultTimeout,
		fallbackClientID: FallbackClientID,
		concurrency:      defaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: o.timeout,
		}
	}

	log := logger.Get()
	if o.log != nil {
		log = *o.log
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(o.baseURL, "/"),
		credential:  cred,
		secretKey:   DeriveKey(cred.ClientID, o.fallbackClientID),
		concurrency: o.concurrency,
		log:         log.With().Str("component", "dana").Logger(),
	}, nil
}

func NewClientFromConfig(cfg *config.Config) (*Client, error) {
	return NewClient(cfg.Credential(),
		WithBaseURL(cfg.Dana.BaseURL),
		WithTimeout(cfg.Dana.Timeout),
		WithConcurrency(cfg.Dana.Concurrency),
	)
}

// FetchData posts a data-source request for key and returns the response
// payload, decrypting it when the server answers with a token.
func (c *Client) FetchData(ctx context.Context, key string, params map[string]any) (json.RawMessage, error) {
	if params == nil {
		params = map[string]any{}
	}

	jsonData, err := json.Marshal(dataSourceRequest{
		ServiceID: ServiceID,
		Key:       key,
		Params:    params,
	})
	if err != nil {
		return nil, errors.NewConfigurationError("params", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+dataSourcePath, bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.NewConfigurationError("base_url", err)
	}

	req.Header.Set("Accept", headerAccept)
	req.Header.Set("Client-Id", c.credential.ClientID)
	req.Header.Set("Content-Type", headerContentType)
	req.Header.Set("Cookie", c.credential.Cookie)

	log := c.log.With().Str("request_id", uuid.NewString()).Str("key", key).Logger()
	log.Debug().Msg("Sending data source request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewAPIError(key, 0, err.Error(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAPIError(key, resp.StatusCode, err.Error(), err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debug().Int("status", resp.StatusCode).Msg("Data source request rejected")
		return nil, errors.NewAPIError(key, resp.StatusCode, errorBody(body), fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	if !json.Valid(body) {
		return nil, errors.NewAPIError(key, resp.StatusCode, "malformed response body", errors.ErrAPI)
	}

	if token, ok := envelopeToken(body); ok {
		log.Debug().Msg("Decrypting response envelope")
		return c.decrypt(token)
	}

	log.Debug().Msg("Received plain response")
	return unwrapResult(body), nil
}

// GetReportCard fetches the report card identified by implPath.
func (c *Client) GetReportCard(ctx context.Context, implPath string) (*model.ReportCard, error) {
	if implPath == "" {
		return nil, errors.NewConfigurationError("impl_path", errors.ErrMissingImpl)
	}

	raw, err := c.FetchData(ctx, ReportCardKey, map[string]any{implPathParam: implPath})
	if err != nil {
		return nil, err
	}

	return model.NewReportCard(raw), nil
}

func (c *Client) decrypt(token json.RawMessage) (json.RawMessage, error) {
	var ciphertext string
	if err := json.Unmarshal(token, &ciphertext); err != nil {
		return nil, errors.NewDecryptionError(fmt.Errorf("token is not a string"))
	}

	plaintext, err := DecryptEnvelope(ciphertext, c.secretKey)
	if err != nil {
		return nil, errors.NewDecryptionError(err)
	}
	if !utf8.Valid(plaintext) {
		return nil, errors.NewDecryptionError(fmt.Errorf("malformed UTF-8 data"))
	}
	if len(plaintext) == 0 {
		return nil, errors.NewDecryptionError(errors.ErrEmptyPlaintext)
	}

	// The plaintext is JSON text encoded a second time as a JSON string.
	var inner string
	if err := json.Unmarshal(plaintext, &inner); err != nil {
		return nil, errors.NewDecryptionError(fmt.Errorf("decoding plaintext: %w", err))
	}
	if !json.Valid([]byte(inner)) {
		return nil, errors.NewDecryptionError(fmt.Errorf("decoding payload: invalid JSON"))
	}

	return unwrapResult(json.RawMessage(inner)), nil
}

// envelopeToken reports the token field of an encrypted envelope. Null and
// empty-string tokens mean the body is a plain envelope.
func envelopeToken(body []byte) (json.RawMessage, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, false
	}

	token, ok := obj["token"]
	if !ok {
		return nil, false
	}
	switch string(bytes.TrimSpace(token)) {
	case "null", `""`:
		return nil, false
	}
	return token, true
}

// unwrapResult returns the Result field when present and non-null,
// otherwise the value itself.
func unwrapResult(raw json.RawMessage) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return raw
	}

	result, ok := obj["Result"]
	if !ok || string(bytes.TrimSpace(result)) == "null" {
		return raw
	}
	return result
}

func errorBody(body []byte) string {
	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil {
			return buf.String()
		}
	}
	quoted, _ := json.Marshal(string(body))
	return string(quoted)
}
