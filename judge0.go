package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"codestop/stopper"
)

var (
	ErrExecutionTimeout    = errors.New("execution timed out")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

const (
	judge0StatusInQueue    = 1
	judge0StatusProcessing = 2
	judge0StatusAccepted   = 3

	judge0ResultFields = "stdout,stderr,compile_output,message,status,time,memory"
)

// Judge0Client runs code on a Judge0 CE instance.
// Judge0Client запускает код на сервере Judge0 CE.
type Judge0Client struct {
	BaseURL      string
	APIKey       string
	Host         string
	HTTP         *http.Client
	PollInterval time.Duration
	Timeout      time.Duration
	logger       *slog.Logger
}

// SubmissionStatus is the Judge0 status object.
type SubmissionStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// SubmissionResult is a decoded Judge0 submission.
type SubmissionResult struct {
	Stdout        string
	Stderr        string
	CompileOutput string
	Message       string
	Status        SubmissionStatus
	Time          string
	Memory        int
}

// Pending reports whether Judge0 is still queueing or running the submission.
func (r SubmissionResult) Pending() bool {
	return r.Status.ID == judge0StatusInQueue || r.Status.ID == judge0StatusProcessing
}

type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type submissionResponse struct {
	Token string `json:"token"`
}

type rawSubmission struct {
	Stdout        *string          `json:"stdout"`
	Stderr        *string          `json:"stderr"`
	CompileOutput *string          `json:"compile_output"`
	Message       *string          `json:"message"`
	Status        SubmissionStatus `json:"status"`
	Time          *string          `json:"time"`
	Memory        *int             `json:"memory"`
}

// NewJudge0Client builds a client from the judge0 config section.
func NewJudge0Client(cfg Judge0Config, logger *slog.Logger) *Judge0Client {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	host := cfg.Host
	if host == "" {
		if u, err := url.Parse(cfg.URL); err == nil {
			host = u.Host
		}
	}
	return &Judge0Client{
		BaseURL: strings.TrimRight(cfg.URL, "/"),
		APIKey:  cfg.APIKey,
		Host:    host,
		HTTP: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.Timeout,
		logger:       logger,
	}
}

func (c *Judge0Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.APIKey)
	}
	if c.Host != "" {
		req.Header.Set("X-RapidAPI-Host", c.Host)
	}
	return req, nil
}

func (c *Judge0Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("judge0 returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("invalid judge0 response: %w", err)
	}
	return nil
}

// Submit creates a submission and returns its token.
func (c *Judge0Client) Submit(ctx context.Context, code string, languageID int, stdin string) (string, error) {
	payload := submissionRequest{
		SourceCode: base64.StdEncoding.EncodeToString([]byte(code)),
		LanguageID: languageID,
	}
	if stdin != "" {
		payload.Stdin = base64.StdEncoding.EncodeToString([]byte(stdin))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/submissions?base64_encoded=true&wait=false", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	var resp submissionResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("failed to create submission: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("failed to create submission: empty token")
	}
	return resp.Token, nil
}

// Result fetches a submission and decodes its base64 outputs.
func (c *Judge0Client) Result(ctx context.Context, token string) (SubmissionResult, error) {
	path := "/submissions/" + url.PathEscape(token) + "?base64_encoded=true&fields=" + judge0ResultFields
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return SubmissionResult{}, err
	}
	var raw rawSubmission
	if err := c.do(req, &raw); err != nil {
		return SubmissionResult{}, fmt.Errorf("failed to get submission: %w", err)
	}

	res := SubmissionResult{Status: raw.Status}
	if raw.Message != nil {
		res.Message = *raw.Message
	}
	if raw.Time != nil {
		res.Time = *raw.Time
	}
	if raw.Memory != nil {
		res.Memory = *raw.Memory
	}
	for dst, src := range map[*string]*string{
		&res.Stdout:        raw.Stdout,
		&res.Stderr:        raw.Stderr,
		&res.CompileOutput: raw.CompileOutput,
	} {
		if src == nil {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(strings.TrimSpace(*src), "\n", ""))
		if err != nil {
			return SubmissionResult{}, fmt.Errorf("failed to decode submission output: %w", err)
		}
		*dst = string(decoded)
	}
	return res, nil
}

// Wait polls the submission until it leaves the queue. A context deadline
// turns into ErrExecutionTimeout.
func (c *Judge0Client) Wait(ctx context.Context, token string) (SubmissionResult, error) {
	interval := c.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		res, err := c.Result(ctx, token)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return SubmissionResult{}, ErrExecutionTimeout
			}
			return SubmissionResult{}, err
		}
		if !res.Pending() {
			return res, nil
		}
		c.logger.Debug("submission pending", "token", token, "status", res.Status.Description)

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return SubmissionResult{}, ErrExecutionTimeout
			}
			return SubmissionResult{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Run submits code for lang and waits for the result within c.Timeout.
func (c *Judge0Client) Run(ctx context.Context, code string, lang stopper.Language, stdin string) (SubmissionResult, error) {
	id, ok := judge0Languages[lang]
	if !ok {
		return SubmissionResult{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := c.Submit(ctx, code, id, stdin)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return SubmissionResult{}, ErrExecutionTimeout
		}
		return SubmissionResult{}, err
	}
	c.logger.Info("submission created", "token", token, "language", lang.String())
	return c.Wait(ctx, token)
}
