package translator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMyMemoryService_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("langpair"); got != "en|fr" {
			t.Errorf("expected langpair en|fr, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "Hello" {
			t.Errorf("expected q=Hello, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseData":   map[string]interface{}{"translatedText": "Bonjour", "match": 0.98},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	svc := &MyMemoryService{baseURL: server.URL, client: server.Client()}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "fr",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Bonjour" {
		t.Errorf("expected 'Bonjour', got %q", result.TranslatedText)
	}
	if result.Confidence != 0.98 {
		t.Errorf("expected confidence 0.98, got %v", result.Confidence)
	}
}

func TestMyMemoryService_Translate_AutoSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "autodetect|bn" {
			t.Errorf("expected langpair autodetect|bn, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseData":   map[string]interface{}{"translatedText": "নমস্কার", "match": 1},
			"responseStatus": 200,
		})
	}))
	defer server.Close()

	svc := &MyMemoryService{baseURL: server.URL, client: server.Client()}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "नमस्ते",
		SourceLang: AutoDetect,
		TargetLang: "bn",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "নমস্কার" {
		t.Errorf("unexpected translation %q", result.TranslatedText)
	}
}

func TestMyMemoryService_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"responseData":    map[string]interface{}{"translatedText": ""},
			"responseStatus":  "403",
			"responseDetails": "INVALID LANGUAGE PAIR",
		})
	}))
	defer server.Close()

	svc := &MyMemoryService{baseURL: server.URL, client: server.Client()}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "xx",
		TargetLang: "fr",
	})

	if err == nil {
		t.Error("expected error for API error status")
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestMyMemoryService_Name(t *testing.T) {
	svc := NewMyMemoryService("")

	if svc.Name() != "mymemory" {
		t.Errorf("expected 'mymemory', got %q", svc.Name())
	}
}

func TestMyMemoryService_SupportedLanguages(t *testing.T) {
	svc := NewMyMemoryService("")

	langs, err := svc.SupportedLanguages(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(langs) == 0 {
		t.Error("expected non-empty language list")
	}
}

func TestSystranService_Translate_NoAPIKey(t *testing.T) {
	svc := NewSystranService("")

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "fr",
	})

	if err == nil {
		t.Error("expected error when no API key")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestSystranService_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Errorf("expected API key header")
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["source"]; ok {
			t.Error("expected source to be omitted for auto detection")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"outputs": []map[string]string{{"output": "Monde"}},
		})
	}))
	defer server.Close()

	svc := &SystranService{apiKey: "test-key", baseURL: server.URL, client: server.Client()}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "World",
		SourceLang: AutoDetect,
		TargetLang: "fr",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Monde" {
		t.Errorf("expected 'Monde', got %q", result.TranslatedText)
	}
}

func TestSystranService_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Forbidden"))
	}))
	defer server.Close()

	svc := &SystranService{
		apiKey:  "test-key",
		baseURL: server.URL,
		client:  server.Client(),
	}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "fr",
	})

	if err == nil {
		t.Error("expected error for non-OK status")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
}

func TestSystranService_IsAvailable(t *testing.T) {
	if err := NewSystranService("").IsAvailable(context.Background()); err == nil {
		t.Error("expected error when no API key")
	}
	if err := NewSystranService("test-key").IsAvailable(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOllamaTranslator_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"response": "Привіт",
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc := &OllamaTranslator{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "uk",
	})

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
	if result.TranslatedText != "Привіт" {
		t.Errorf("expected 'Привіт', got %q", result.TranslatedText)
	}
	if result.Metadata["model"] != "llama3.2" {
		t.Errorf("expected model in metadata, got %v", result.Metadata)
	}
}

func TestOllamaTranslator_Translate_PromptNamesLanguages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		system, _ := req["system"].(string)
		if !strings.Contains(system, "Sanskrit") || !strings.Contains(system, "French") {
			t.Errorf("expected language names in system prompt, got %q", system)
		}
		if req["prompt"] != "धर्म" {
			t.Errorf("expected the fragment as prompt, got %v", req["prompt"])
		}
		if req["model"] != "gemma2:2b" {
			t.Errorf("expected configured model, got %v", req["model"])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "\"Dharma.\""})
	}))
	defer server.Close()

	svc := &OllamaTranslator{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	result, err := svc.Translate(context.Background(), ServiceConfig{Model: "gemma2:2b"}, TranslateRequest{
		Text:       "धर्म",
		SourceLang: "sa",
		TargetLang: "fr",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Dharma" {
		t.Errorf("expected cleaned translation, got %q", result.TranslatedText)
	}
}

func TestOllamaTranslator_Translate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := &OllamaTranslator{
		baseURL: server.URL,
		models:  []string{"llama3.2"},
		client:  server.Client(),
	}

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "uk",
	})

	if err == nil {
		t.Error("expected error for non-OK status")
	}
	if result == nil {
		t.Fatal("expected non-nil result")
	}
}

func TestOllamaTranslator_Translate_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "<think>hmm</think>"})
	}))
	defer server.Close()

	svc := &OllamaTranslator{baseURL: server.URL, client: server.Client()}

	_, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "uk",
	})

	if err == nil {
		t.Error("expected error for empty translation")
	}
}

func TestOllamaTranslator_IsAvailable_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := &OllamaTranslator{
		baseURL: server.URL,
		client:  server.Client(),
	}

	err := svc.IsAvailable(context.Background())
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOllamaTranslator_IsAvailable_NotRunning(t *testing.T) {
	svc := &OllamaTranslator{
		baseURL: "http://localhost:19999",
		client:  &http.Client{Timeout: 100 * time.Millisecond},
	}

	err := svc.IsAvailable(context.Background())
	if err == nil {
		t.Error("expected error when Ollama not available")
	}
}

func TestOllamaTranslator_SetModels(t *testing.T) {
	svc := NewOllamaTranslator("", []string{"llama3.2"})

	svc.SetModels([]string{})
	if got := svc.GetModels(); len(got) != 1 {
		t.Errorf("expected 1 model (unchanged), got %d", len(got))
	}

	svc.SetModels([]string{"gemma2:2b", "qwen2.5:3b"})
	if got := svc.GetModels(); len(got) != 2 {
		t.Errorf("expected 2 models, got %d", len(got))
	}
	if got := svc.model(ServiceConfig{}); got != "gemma2:2b" {
		t.Errorf("expected first model to be used, got %q", got)
	}
}

func TestOpenRouterService_Translate_NoAPIKey(t *testing.T) {
	svc := NewOpenRouterService("", "", nil)

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		TargetLang: "fr",
	})

	if err == nil {
		t.Error("expected error when no API key")
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestOpenRouterService_Translate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("expected bearer token")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "Here is the translation: Monde"}},
			},
			"usage": map[string]int{"prompt_tokens": 40, "completion_tokens": 2},
		})
	}))
	defer server.Close()

	svc := NewOpenRouterService("key", server.URL, []string{"test/model"})
	svc.client = server.Client()

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "World",
		SourceLang: "en",
		TargetLang: "fr",
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "Monde" {
		t.Errorf("expected 'Monde', got %q", result.TranslatedText)
	}
	if result.Metadata["model"] != "test/model" {
		t.Errorf("expected model in metadata, got %v", result.Metadata)
	}
}

func TestOpenRouterService_Translate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	svc := NewOpenRouterService("key", server.URL, nil)
	svc.client = server.Client()

	if _, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "World", TargetLang: "fr"}); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestGoogleService_Translate_InvalidTarget(t *testing.T) {
	svc := NewGoogleService("")

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{
		Text:       "Hello",
		SourceLang: "en",
		TargetLang: "not a language",
	})

	if err == nil {
		t.Error("expected error for invalid target language")
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Close without client failed: %v", err)
	}
}

func TestLanguageName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"de", "German"},
		{"sa", "Sanskrit"},
		{"fr", "French"},
		{"auto", "the detected language"},
		{"", "the detected language"},
		{"not a tag", "not a tag"},
	}

	for _, tt := range tests {
		if got := languageName(tt.code); got != tt.want {
			t.Errorf("languageName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
