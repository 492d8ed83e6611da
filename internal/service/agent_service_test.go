package service

import (
	"context"
	"cybertrain_backend/internal/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newAgentService(baseURL string, maxRetries int) *AgentService {
	cfg := &config.Config{}
	cfg.Agent = config.AgentConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Timeout:        2 * time.Second,
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
	}
	return NewAgentService(cfg)
}

func TestGenerateQuestionsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/questions/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"questions":[{"type":"multiple_choice","content":"Which URL is suspicious?","options":["a","b"],"correct_answer":"1","points":2}]}`))
	}))
	defer server.Close()

	svc := newAgentService(server.URL, 3)
	questions, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{
		SkillName: "Phishing Detection",
		Count:     1,
	})
	if err != nil {
		t.Fatalf("GenerateQuestions returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(questions))
	}
	if questions[0].CorrectAnswer != "1" || questions[0].Points != 2 {
		t.Errorf("unexpected question payload: %+v", questions[0])
	}
}

func TestAgentRetriesOnServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"questions":[]}`))
	}))
	defer server.Close()

	svc := newAgentService(server.URL, 3)
	_, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{Count: 1})
	if err != nil {
		t.Fatalf("expected eventual success, got error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls (2 retries), got %d", calls)
	}
}

func TestAgentGivesUpAfterMaxRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newAgentService(server.URL, 2)
	_, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{Count: 1})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls (initial + 2 retries), got %d", calls)
	}
}

func TestAgentDoesNotRetryClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	svc := newAgentService(server.URL, 3)
	_, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{Count: 1})
	if err == nil {
		t.Fatal("expected error for 4xx response")
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 call for non-retryable error, got %d", calls)
	}
}

func TestAgentHonorsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newAgentService(server.URL, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateQuestions(ctx, GenerateQuestionsRequest{Count: 1})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestAgentConfigReloadSwapsClient(t *testing.T) {
	var oldCalls, newCalls int
	oldServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		oldCalls++
		w.Write([]byte(`{"questions":[]}`))
	}))
	defer oldServer.Close()
	newServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		newCalls++
		w.Write([]byte(`{"questions":[]}`))
	}))
	defer newServer.Close()

	svc := newAgentService(oldServer.URL, 1)
	if _, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{Count: 1}); err != nil {
		t.Fatalf("request before reload failed: %v", err)
	}

	before := svc.client
	reloaded := &config.Config{}
	reloaded.Agent = config.AgentConfig{
		BaseURL:        newServer.URL,
		Timeout:        time.Second,
		MaxRetries:     1,
		InitialBackoff: time.Millisecond,
	}
	svc.UpdateConfig(reloaded)

	// 在途请求持有旧client快照，热更新必须换入新实例而非改写旧的
	if svc.client == before {
		t.Fatal("expected a fresh http client after config reload")
	}
	if svc.client.Timeout != time.Second {
		t.Errorf("client timeout = %v, want %v", svc.client.Timeout, time.Second)
	}

	if _, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{Count: 1}); err != nil {
		t.Fatalf("request after reload failed: %v", err)
	}
	if oldCalls != 1 || newCalls != 1 {
		t.Errorf("calls = old %d / new %d, want 1 / 1", oldCalls, newCalls)
	}
}

func TestAgentUnconfiguredBaseURL(t *testing.T) {
	svc := newAgentService("", 1)
	_, err := svc.GenerateQuestions(context.Background(), GenerateQuestionsRequest{Count: 1})
	if err == nil {
		t.Fatal("expected error when base URL is empty")
	}
}
