// internal/agent/http.go
package agent

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/voxbench/internal/appconfig"
	"github.com/mwiater/voxbench/internal/logging"
)

// HTTPRuntime implements the Runtime interface over the agent runtime's
// voice HTTP endpoints.
type HTTPRuntime struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	debug   bool
}

// NewHTTPRuntime constructs an HTTPRuntime configured with the
// application's request timeout.
func NewHTTPRuntime(cfg *appconfig.Config) *HTTPRuntime {
	timeout := cfg.RequestTimeout()
	return &HTTPRuntime{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		baseURL: strings.TrimRight(cfg.RuntimeURL, "/"),
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

type transcribeRequest struct {
	AudioBase64 string `json:"audioBase64"`
}

type transcribeResponse struct {
	Text string `json:"text"`
}

// messageChunk is one NDJSON frame of a streaming /voice/message response.
// The final frame carries done=true plus the response envelope.
type messageChunk struct {
	Text         string   `json:"text"`
	Done         bool     `json:"done"`
	Actions      []string `json:"actions,omitempty"`
	Providers    []string `json:"providers,omitempty"`
	StateExcerpt string   `json:"stateExcerpt,omitempty"`
}

type ttsRequest struct {
	Text string `json:"text"`
}

type ttsResponse struct {
	AudioBase64 string `json:"audioBase64"`
}

type sessionRequest struct {
	Profile   string          `json:"profile"`
	Character json.RawMessage `json:"character,omitempty"`
}

// StartSession announces the benchmark profile and persona to the runtime
// before the first iteration runs.
func (r *HTTPRuntime) StartSession(ctx context.Context, profile string, character json.RawMessage) error {
	payload, err := json.Marshal(sessionRequest{Profile: profile, Character: character})
	if err != nil {
		return err
	}
	if _, err := r.post(ctx, "session", "/voice/session", payload); err != nil {
		return fmt.Errorf("session capability: %w", err)
	}
	return nil
}

// Transcribe sends audio to the runtime's STT provider and returns the text.
func (r *HTTPRuntime) Transcribe(ctx context.Context, audio []byte) (string, error) {
	payload, err := json.Marshal(transcribeRequest{
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
	})
	if err != nil {
		return "", err
	}

	body, err := r.post(ctx, "transcribe", "/voice/transcribe", payload)
	if err != nil {
		return "", fmt.Errorf("transcription capability: %w", err)
	}

	var result transcribeResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("transcription capability: decode response: %w", err)
	}
	return result.Text, nil
}

// GenerateResponse streams the runtime's reply. Every frame with text is
// forwarded to onChunk; the final frame supplies the response envelope.
func (r *HTTPRuntime) GenerateResponse(ctx context.Context, msg Message, onChunk ChunkFunc) (*Response, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}

	endpoint := r.baseURL + "/voice/message"
	if r.debug {
		logging.LogRequest("VOXBENCH->RUNTIME", "message", endpoint, payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation capability: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generation capability: /voice/message returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)))
	}

	decoder := json.NewDecoder(resp.Body)
	var final messageChunk
	for {
		var chunk messageChunk
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("generation capability: decode stream: %w", err)
		}
		if r.debug {
			if data, merr := json.Marshal(chunk); merr == nil {
				logging.LogRequest("RUNTIME->VOXBENCH", "message", endpoint, data)
			}
		}
		if chunk.Text != "" && onChunk != nil {
			onChunk(Chunk{Text: chunk.Text})
		}
		if chunk.Done {
			final = chunk
		}
	}

	return &Response{
		Text:         final.Text,
		Actions:      final.Actions,
		Providers:    final.Providers,
		StateExcerpt: final.StateExcerpt,
	}, nil
}

// SynthesizeSpeech sends text to the runtime's TTS provider and returns the
// decoded audio bytes.
func (r *HTTPRuntime) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	payload, err := json.Marshal(ttsRequest{Text: text})
	if err != nil {
		return nil, err
	}

	body, err := r.post(ctx, "tts", "/voice/tts", payload)
	if err != nil {
		return nil, fmt.Errorf("tts capability: %w", err)
	}

	var result ttsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("tts capability: decode response: %w", err)
	}
	return CoerceAudioBytes(result.AudioBase64), nil
}

// Trajectory fetches the runtime's trajectory log.
func (r *HTTPRuntime) Trajectory(ctx context.Context) (*TrajectoryLog, error) {
	endpoint := r.baseURL + "/voice/trajectory"

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("trajectory capability: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trajectory capability: /voice/trajectory returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trajectory capability: read response: %w", err)
	}

	var result TrajectoryLog
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("trajectory capability: decode response: %w", err)
	}
	return &result, nil
}

// Close requests a clean runtime shutdown. Shutdown is best-effort teardown;
// a runtime that has already exited is not an error.
func (r *HTTPRuntime) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := r.post(ctx, "shutdown", "/voice/shutdown", []byte(`{}`)); err != nil {
		logging.LogEvent("runtime shutdown request failed: %v", err)
	}
	r.client.CloseIdleConnections()
	return nil
}

func (r *HTTPRuntime) post(ctx context.Context, capability, path string, payload []byte) ([]byte, error) {
	endpoint := r.baseURL + path
	if r.debug {
		logging.LogRequest("VOXBENCH->RUNTIME", capability, endpoint, payload)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if r.debug {
		logging.LogRequest("RUNTIME->VOXBENCH", capability, endpoint, body)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

// CoerceAudioBytes decodes a TTS payload that may arrive as a base64 string
// or a data: URI. Payloads that fail to decode are treated as raw bytes so a
// provider returning plain audio text never breaks byte accounting.
func CoerceAudioBytes(payload string) []byte {
	data := strings.TrimSpace(payload)
	if data == "" {
		return []byte{}
	}
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx >= 0 {
			data = data[idx+1:]
		}
	}
	if pad := (4 - len(data)%4) % 4; pad > 0 {
		data += strings.Repeat("=", pad)
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return []byte(payload)
	}
	return decoded
}
