// Package classifier calls an external automated payslip-format classifier
// over HTTP. Replies are schema-validated before use; any failure degrades
// to "no classification", never to an extraction error.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/devfolarin/payslip-extractor/constants"
	"github.com/devfolarin/payslip-extractor/internal/format"
)

type Config struct {
	URL     string
	Timeout time.Duration
	APIKey  string
}

// Client implements format.Classifier against an HTTP endpoint.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Format     string  `json:"format"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Classify posts the document text and returns the classifier's verdict.
// The raw reply is validated against a JSON Schema before decoding; the
// caller applies its own confidence gate on top.
func (c *Client) Classify(ctx context.Context, text string) (format.Result, error) {
	raw, status, err := c.sendJSON(ctx, classifyRequest{Text: text})
	if err != nil {
		return format.Result{}, err
	}
	if status/100 != 2 {
		return format.Result{}, fmt.Errorf("classifier: non-2xx status %d", status)
	}

	if err := validateReply(raw); err != nil {
		c.logger.Warn("classifier.reply.invalid", "error", err)
		return format.Result{}, err
	}

	var reply classifyResponse
	if err := json.Unmarshal(raw, &reply); err != nil {
		return format.Result{}, fmt.Errorf("decode reply: %w", err)
	}

	detected := constants.ParseFormat(reply.Format)
	if detected == constants.FormatAuto {
		detected = constants.FormatUnknown
	}
	return format.Result{
		Format:     detected,
		Confidence: reply.Confidence,
		Reasoning:  reply.Reasoning,
	}, nil
}

func (c *Client) sendJSON(ctx context.Context, body any) ([]byte, int, error) {
	reqID := uuid.New().String()
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.Info("classifier.http.request", "req_id", reqID, "content_length", len(bs))

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("classifier.http.send_error", "req_id", reqID, "error", err)
		return nil, 0, err
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("classifier.http.body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("classifier.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return raw, resp.StatusCode, nil
}
