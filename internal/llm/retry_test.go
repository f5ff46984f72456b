package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry(t *testing.T) {
	ok := MockResponse{Content: owlBatch}
	unavailable := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("missing options")}}

	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, false, 1},
		{"transient then success", []MockResponse{unavailable, unavailable, ok}, false, 3},
		{"all attempts fail", []MockResponse{unavailable, unavailable, unavailable, ok}, true, 3},
		{"rate limit waits then succeeds", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, false, 2},
		{"truncated batch not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, true, 1},
		{"bad key not retried", []MockResponse{{Err: &ErrAuth{Err: errors.New("401")}}, ok}, true, 1},
		{"refusal not retried", []MockResponse{{Err: &ErrInvalidResponse{Err: errRefused}}, ok}, true, 1},
		{"invalid batch retried once", []MockResponse{invalid, invalid, ok}, true, 2},
		{"invalid then valid", []MockResponse{invalid, ok}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, retryConfig(), nil)

			resp, err := p.Generate(context.Background(), UserPrompt("", "Number of questions: 1", nil))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && string(resp.Content) != string(owlBatch) {
				t.Errorf("unexpected content: %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Content: owlBatch},
	)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: time.Second, Multiplier: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}

	if got := r.backoff(0, &ErrRateLimit{RetryAfter: time.Minute}); got != time.Second {
		t.Errorf("RetryAfter not capped: %s", got)
	}
	if got := r.backoff(5, errors.New("x")); got > 1200*time.Millisecond {
		t.Errorf("backoff(5) = %s, want at most MaxWait plus jitter", got)
	}
	if got := r.backoff(0, errors.New("x")); got < 80*time.Millisecond || got > 120*time.Millisecond {
		t.Errorf("backoff(0) = %s, want 100ms ±20%%", got)
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	p := WithRetry(NewMockProvider(), retryConfig(), nil)
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}
