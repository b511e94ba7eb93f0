package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

const (
	defaultStartupTimeout = 2 * time.Minute
	healthPollInterval    = 250 * time.Millisecond
	releaseWait           = 5 * time.Second
)

var dataPrefix = []byte("data: ")

// LlamaServer loads models by spawning a llama.cpp llama-server process and
// talking to its HTTP completion endpoint. Release kills the process, which
// is how the runtime gives the weights back to the OS.
type LlamaServer struct {
	Binary         string        `json:"binary"`
	Port           int           `json:"port"`
	StartupTimeout time.Duration `json:"-"`
	client         *http.Client
	debug          bool
}

func NewLlamaServer(binary string, port int) *LlamaServer {
	if binary == "" {
		binary = "llama-server"
	}
	if port == 0 {
		port = 8688
	}
	return &LlamaServer{
		Binary:         binary,
		Port:           port,
		StartupTimeout: defaultStartupTimeout,
		client:         &http.Client{},
		debug:          misc.Truthy(os.Getenv("DEBUG")),
	}
}

func (l *LlamaServer) baseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%v", l.Port)
}

// Load starts a server process for modelPath and polls its health endpoint
// until the model is live. A corrupt or incompatible file surfaces as the
// process exiting during startup.
func (l *LlamaServer) Load(ctx context.Context, modelPath string) (Handle, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("failed to stat model file: %w", err)
	}
	cmd := exec.Command(l.Binary, "-m", modelPath, "--host", "127.0.0.1", "--port", fmt.Sprint(l.Port))
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if l.debug {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start '%v': %w", l.Binary, err)
	}
	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	h := &llamaHandle{
		cmd:     cmd,
		exited:  exited,
		baseURL: l.baseURL(),
		client:  l.client,
		debug:   l.debug,
	}
	if err := h.awaitHealthy(ctx, l.StartupTimeout); err != nil {
		h.Release()
		return nil, fmt.Errorf("engine rejected model file '%v': %w", modelPath, err)
	}
	if l.debug {
		ancli.Okf("llama-server live at %v with model %v\n", l.baseURL(), modelPath)
	}
	return h, nil
}

type llamaHandle struct {
	cmd         *exec.Cmd
	exited      chan error
	baseURL     string
	client      *http.Client
	debug       bool
	procGone    bool
	releaseOnce sync.Once
	releaseErr  error
}

func (h *llamaHandle) awaitHealthy(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-h.exited:
			h.procGone = true
			return fmt.Errorf("server process exited during startup: %v", err)
		case <-time.After(healthPollInterval):
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/health", nil)
		if err != nil {
			return fmt.Errorf("failed to create health request: %w", err)
		}
		res, err := h.client.Do(req)
		if err != nil {
			continue
		}
		res.Body.Close()
		if res.StatusCode == http.StatusOK {
			return nil
		}
	}
	return fmt.Errorf("timed out waiting for %v/health", h.baseURL)
}

type completionReq struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict,omitempty"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
	Stream      bool     `json:"stream"`
	CachePrompt bool     `json:"cache_prompt"`
}

type completionChunk struct {
	Content string `json:"content"`
	Stop    bool   `json:"stop"`
}

// Complete streams the completion for prompt, invoking onToken per received
// chunk. The accumulated text returned on stop is the authoritative result.
func (h *llamaHandle) Complete(ctx context.Context, prompt string, opts Options, onToken func(string)) (string, error) {
	reqData := completionReq{
		Prompt:      prompt,
		NPredict:    opts.MaxTokens,
		Temperature: opts.Temperature,
		Stop:        opts.StopSequences,
		Stream:      true,
		CachePrompt: true,
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/completion", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	res, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("unexpected status code: %v, body: %v", res.Status, string(body))
	}

	var full strings.Builder
	br := bufio.NewReader(res.Body)
	for {
		if ctx.Err() != nil {
			return full.String(), ctx.Err()
		}
		line, readErr := br.ReadBytes('\n')
		token := bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(line), dataPrefix))
		if len(token) > 0 {
			var chunk completionChunk
			if jsonErr := json.Unmarshal(token, &chunk); jsonErr != nil {
				if h.debug {
					// Expect some failing unmarshalls, which seems to be fine
					ancli.PrintWarn(fmt.Sprintf("failed to unmarshal token: %v, err: %v\n", string(token), jsonErr))
				}
			} else {
				if chunk.Content != "" {
					full.WriteString(chunk.Content)
					if onToken != nil {
						onToken(chunk.Content)
					}
				}
				if chunk.Stop {
					return full.String(), nil
				}
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return full.String(), nil
			}
			return full.String(), fmt.Errorf("failed to read line: %w", readErr)
		}
	}
}

// Release kills the server process. Idempotent, subsequent calls return the
// first result.
func (h *llamaHandle) Release() error {
	h.releaseOnce.Do(func() {
		if h.procGone {
			return
		}
		if h.cmd.Process != nil {
			_ = h.cmd.Process.Kill()
		}
		select {
		case <-h.exited:
		case <-time.After(releaseWait):
			h.releaseErr = errors.New("timed out waiting for server process to exit")
		}
	})
	return h.releaseErr
}
