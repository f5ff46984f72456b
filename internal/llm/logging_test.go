package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/hpquiz/internal/logger"
	"github.com/abhisek/hpquiz/internal/store"
)

func newObservedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	repo := st.EventRepo()
	log, logs := newObservedLogger()

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("slow down")}},
	)
	p := WithLogging(mock, ProviderMock, repo, log)

	ctx := WithSessionID(WithPurpose(context.Background(), "question-gen"), "sess-1")
	req := Request{System: "be brief", Messages: []Message{{Role: RoleUser, Content: "hello"}}}

	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("second call: expected error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failed event = %+v", failed.LLMRequestEventData)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.OutputTokens != 4 {
		t.Errorf("ok event = %+v", ok.LLMRequestEventData)
	}
	if ok.SessionID != "sess-1" || ok.Purpose != "question-gen" || ok.Provider != ProviderMock {
		t.Errorf("ok event labels = %+v", ok.LLMRequestEventData)
	}
	if ok.ResponseBody != `{"ok":true}` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}
	if want := "[system]\nbe brief\n\n[user]\nhello\n\n"; ok.RequestBody != want {
		t.Errorf("request body = %q, want %q", ok.RequestBody, want)
	}

	if n := logs.FilterMessage("llm request").Len(); n != 1 {
		t.Errorf("debug lines = %d, want 1", n)
	}
	if n := logs.FilterMessage("llm request failed").Len(); n != 1 {
		t.Errorf("warn lines = %d, want 1", n)
	}
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Errorf("model = %q", p.ModelID())
	}
}

func TestSessionIDContext(t *testing.T) {
	if id := SessionIDFrom(context.Background()); id != "" {
		t.Fatalf("expected empty, got %q", id)
	}
	if id := SessionIDFrom(WithSessionID(context.Background(), "abc")); id != "abc" {
		t.Fatalf("expected abc, got %q", id)
	}
}

func TestMockProvider_FuncAfterQueue(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`1`)})
	mock.Func = func(_ context.Context, req Request) (*Response, error) {
		return &Response{Content: json.RawMessage(`2`), Model: "func"}, nil
	}

	first, _ := mock.Generate(context.Background(), Request{})
	second, _ := mock.Generate(context.Background(), Request{System: "x"})
	if string(first.Content) != "1" || string(second.Content) != "2" {
		t.Fatalf("got %s then %s", first.Content, second.Content)
	}
	last, ok := mock.LastCall()
	if !ok || last.System != "x" {
		t.Fatalf("last call = %+v", last)
	}
}
