package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"campusmarket/pkg/apperror"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/middleware"
)

// TokenSource hands out the bearer credential for authenticated calls.
// A nil source means anonymous calls.
type TokenSource interface {
	Token() (string, error)
}

// Client is the shared transport under the typed endpoint clients. Every
// call goes through the middleware chain (logging, metrics) and the rate
// limiter before it reaches the wire.
type Client struct {
	apiURL  string
	log     logger.Logger
	client  *http.Client
	limiter *rate.Limiter
	tokens  TokenSource
	call    middleware.CallFunc
}

func NewClient(apiURL string, timeout time.Duration, ratePerSecond float64, tokens TokenSource, writer io.Writer, logPrefix string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if ratePerSecond <= 0 {
		ratePerSecond = 5
	}
	c := &Client{
		apiURL:  apiURL,
		log:     logger.NewLogger(writer, logPrefix),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1),
		tokens:  tokens,
	}
	c.call = middleware.Chain(c.doRequest, middleware.Logging(c.log), middleware.Prometheus())
	return c
}

// multipartPayload routes a multipart submission through the same CallFunc
// chain as JSON bodies.
type multipartPayload struct {
	fields    map[string]string
	fileField string
	filename  string
	file      io.Reader
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
	return c.call(ctx, method, endpoint, requestBody, response)
}

func (c *Client) doMultipart(ctx context.Context, method, endpoint string, payload *multipartPayload, response interface{}) error {
	return c.call(ctx, method, endpoint, payload, response)
}

func (c *Client) doRequest(ctx context.Context, method, endpoint string, requestBody, response interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var body io.Reader
	contentType := "application/json"

	switch payload := requestBody.(type) {
	case nil:
	case *multipartPayload:
		buf, boundary, err := encodeMultipart(payload)
		if err != nil {
			return fmt.Errorf("failed to encode multipart body: %w", err)
		}
		body = buf
		contentType = boundary
	default:
		bodyBytes, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", c.apiURL, endpoint), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	c.setAuthorizationHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return &apperror.FetchError{Endpoint: endpoint, Err: err}
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &apperror.FetchError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  decodeErrorMessage(respBody),
		}
	}

	if response == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, response); err != nil {
		return fmt.Errorf("failed to unmarshal response from %s: %w", endpoint, err)
	}
	return nil
}

func encodeMultipart(payload *multipartPayload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for field, value := range payload.fields {
		if err := writer.WriteField(field, value); err != nil {
			return nil, "", err
		}
	}
	if payload.file != nil {
		part, err := writer.CreateFormFile(payload.fileField, payload.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, payload.file); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

// decodeErrorMessage pulls the backend's message out of an error body. The
// backend answers either {"error": "..."} or {"message": "..."}.
func decodeErrorMessage(body []byte) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}
