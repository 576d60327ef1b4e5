package client

import (
	"bytes"
	"card_quiz_backend/internal/quiz"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HTTPTransport posts hearts updates and answer submissions to the quiz API.
type HTTPTransport struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Log     *zap.Logger
}

func NewHTTPTransport(baseURL, token string, log *zap.Logger) *HTTPTransport {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

type heartsRequest struct {
	Hearts int `json:"hearts"`
}

// submitResponse accepts both a bare {"redirect"} body and the API envelope.
type submitResponse struct {
	Redirect string `json:"redirect"`
	Data     *struct {
		Redirect string `json:"redirect"`
	} `json:"data"`
}

// UpdateHearts 同步剩余生命，响应内容忽略
func (t *HTTPTransport) UpdateHearts(ctx context.Context, index int) error {
	body, err := json.Marshal(heartsRequest{Hearts: index})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL+"/update_hearts", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := t.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// SubmitResult posts the form payload plus is_correct to the form action.
func (t *HTTPTransport) SubmitResult(ctx context.Context, action string, sub quiz.Submission, isCorrect bool) (quiz.SubmitResponse, error) {
	form := url.Values{}
	for k, vs := range sub.Values {
		form[k] = vs
	}
	form.Set(quiz.FieldIsCorrect, strconv.FormatBool(isCorrect))
	payload := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.resolve(action), strings.NewReader(payload))
	if err != nil {
		return quiz.SubmitResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.do(req)
	if err != nil {
		return quiz.SubmitResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return quiz.SubmitResponse{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return quiz.SubmitResponse{}, nil
	}
	var result submitResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return quiz.SubmitResponse{}, fmt.Errorf("decode submit response: %w", err)
	}
	redirect := result.Redirect
	if redirect == "" && result.Data != nil {
		redirect = result.Data.Redirect
	}
	return quiz.SubmitResponse{Redirect: redirect}, nil
}

func (t *HTTPTransport) do(req *http.Request) (*http.Response, error) {
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		t.Log.Debug("quiz api rejected request",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("quiz API error (status %d): %s", resp.StatusCode, string(body))
	}
	return resp, nil
}

func (t *HTTPTransport) resolve(action string) string {
	if strings.HasPrefix(action, "http://") || strings.HasPrefix(action, "https://") {
		return action
	}
	if action == "" {
		return t.BaseURL
	}
	if !strings.HasPrefix(action, "/") {
		action = "/" + action
	}
	return t.BaseURL + action
}

var _ quiz.Transport = (*HTTPTransport)(nil)
