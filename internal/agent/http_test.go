package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/voxbench/internal/appconfig"
)

func newTestRuntime(t *testing.T, handler http.Handler) (*HTTPRuntime, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &appconfig.Config{RuntimeURL: server.URL, TimeoutSeconds: 5}
	return NewHTTPRuntime(cfg), server
}

func TestTranscribe(t *testing.T) {
	runtime, _ := newTestRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice/transcribe" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			AudioBase64 string `json:"audioBase64"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			t.Fatalf("decode audio: %v", err)
		}
		if string(audio) != "fake-wav" {
			t.Fatalf("unexpected audio payload %q", audio)
		}
		fmt.Fprint(w, `{"text": "Hello there."}`)
	}))

	text, err := runtime.Transcribe(context.Background(), []byte("fake-wav"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "Hello there." {
		t.Fatalf("transcript = %q", text)
	}
}

func TestTranscribeFailureIsTerminal(t *testing.T) {
	runtime, _ := newTestRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stt provider unavailable", http.StatusBadGateway)
	}))

	if _, err := runtime.Transcribe(context.Background(), []byte("x")); err == nil {
		t.Fatal("expected error from failing capability")
	}
}

func TestGenerateResponseStreamsChunks(t *testing.T) {
	runtime, _ := newTestRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice/message" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var msg Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		if msg.CorrelationID == "" {
			t.Fatal("correlation id missing")
		}
		fmt.Fprintln(w, `{"text": "Partial"}`)
		fmt.Fprintln(w, `{"text": "Partial answer."}`)
		fmt.Fprintln(w, `{"text": "Full answer.", "done": true, "actions": ["REPLY"], "providers": ["time"], "stateExcerpt": "state"}`)
	}))

	var chunks []string
	resp, err := runtime.GenerateResponse(context.Background(),
		Message{Text: "hi", CorrelationID: "corr-1"},
		func(c Chunk) { chunks = append(chunks, c.Text) })
	if err != nil {
		t.Fatalf("GenerateResponse: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %v", chunks)
	}
	if resp.Text != "Full answer." || len(resp.Actions) != 1 || resp.StateExcerpt != "state" {
		t.Fatalf("unexpected final response: %+v", resp)
	}
}

func TestSynthesizeSpeechDecodesAudio(t *testing.T) {
	audio := []byte{0x52, 0x49, 0x46, 0x46, 0x00, 0x01}
	runtime, _ := newTestRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/voice/tts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		payload := map[string]string{"audioBase64": base64.StdEncoding.EncodeToString(audio)}
		_ = json.NewEncoder(w).Encode(payload)
	}))

	got, err := runtime.SynthesizeSpeech(context.Background(), "Hello.")
	if err != nil {
		t.Fatalf("SynthesizeSpeech: %v", err)
	}
	if string(got) != string(audio) {
		t.Fatalf("audio mismatch: %v", got)
	}
}

func TestTrajectoryFiltering(t *testing.T) {
	runtime, _ := newTestRuntime(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"llmCalls": [
				{"correlationId": "a", "model": "m1", "purpose": "response", "latencyMs": 12},
				{"correlationId": "b", "model": "m1", "purpose": "response", "latencyMs": 20}
			],
			"providerAccesses": [
				{"correlationId": "a", "providerName": "time", "purpose": "compose"}
			]
		}`)
	}))

	log, err := runtime.Trajectory(context.Background())
	if err != nil {
		t.Fatalf("Trajectory: %v", err)
	}

	filtered := log.ForCorrelation("a")
	if len(filtered.LLMCalls) != 1 || len(filtered.ProviderAccesses) != 1 {
		t.Fatalf("filtered log: %+v", filtered)
	}
	if filtered.LLMCalls[0].LatencyMs != 12 {
		t.Fatalf("wrong call kept: %+v", filtered.LLMCalls[0])
	}
}

func TestCoerceAudioBytes(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("pcm"))
	cases := map[string]string{
		encoded:                       "pcm",
		"data:audio/wav;base64," + encoded: "pcm",
		"":                            "",
	}
	for input, want := range cases {
		if got := string(CoerceAudioBytes(input)); got != want {
			t.Fatalf("CoerceAudioBytes(%q) = %q, want %q", input, got, want)
		}
	}

	// Unpadded base64 gains padding before decode.
	if got := string(CoerceAudioBytes("aGVsbG8")); got != "hello" {
		t.Fatalf("unpadded decode = %q, want %q", got, "hello")
	}

	// Payloads that are not base64 fall back to their raw bytes.
	if got := string(CoerceAudioBytes("not base64 at all!")); got != "not base64 at all!" {
		t.Fatalf("raw fallback = %q", got)
	}
}
