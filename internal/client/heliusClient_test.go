package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"solana-store-bot/internal/config"

	"github.com/stretchr/testify/assert"
)

func testHeliusConfig(url string) *config.Helius {
	return &config.Helius{
		APIKey:      "test-key",
		RPCURL:      url,
		CallTimeout: 500 * time.Millisecond,
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
	}
}

func rpcStub(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)

		var req struct {
			Method string `json:"method"`
			Params []any  `json:"params"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getTransaction", req.Method)
		assert.NotEmpty(t, req.Params)

		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestVerifyTransaction_Confirmed(t *testing.T) {
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"jsonrpc":"2.0","id":1,"result":{"meta":{"status":{"Ok":null}}}}`)
	})

	verifier := NewHeliusClient(testHeliusConfig(srv.URL))
	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	assert.Equal(t, OutcomeConfirmed, result.Outcome)
	assert.Equal(t, int64(1), calls.Load())
}

func TestVerifyTransaction_NullResultIsNotFoundAndNotRetried(t *testing.T) {
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"jsonrpc":"2.0","id":1,"result":null}`)
	})

	verifier := NewHeliusClient(testHeliusConfig(srv.URL))
	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	assert.Equal(t, OutcomeNotFoundOrPending, result.Outcome)
	assert.Equal(t, int64(1), calls.Load())
}

func TestVerifyTransaction_FailedStatusIsPermanent(t *testing.T) {
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"jsonrpc":"2.0","id":1,"result":{"meta":{"status":{"Err":{"InstructionError":[0,"Custom"]}}}}}`)
	})

	verifier := NewHeliusClient(testHeliusConfig(srv.URL))
	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	// confirmed-but-failed: reported as not found, never retried
	assert.Equal(t, OutcomeNotFoundOrPending, result.Outcome)
	assert.Equal(t, int64(1), calls.Load())
}

func TestVerifyTransaction_ServerErrorRetriesExactlyMaxAttempts(t *testing.T) {
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	verifier := NewHeliusClient(testHeliusConfig(srv.URL))
	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	assert.Equal(t, OutcomeTransientError, result.Outcome)
	assert.NotEmpty(t, result.Reason)
	assert.Equal(t, int64(3), calls.Load())
}

func TestVerifyTransaction_RecoversAfterRateLimit(t *testing.T) {
	var n atomic.Int64
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, `{"jsonrpc":"2.0","id":1,"result":{"meta":{"status":{"Ok":null}}}}`)
	})

	verifier := NewHeliusClient(testHeliusConfig(srv.URL))
	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	assert.Equal(t, OutcomeConfirmed, result.Outcome)
	assert.Equal(t, int64(2), calls.Load())
}

func TestVerifyTransaction_TimeoutIsTransient(t *testing.T) {
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})

	cfg := testHeliusConfig(srv.URL)
	cfg.CallTimeout = 50 * time.Millisecond
	verifier := NewHeliusClient(cfg)

	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	assert.Equal(t, OutcomeTransientError, result.Outcome)
	assert.Equal(t, int64(3), calls.Load())
}

func TestVerifyTransaction_MalformedResponseIsTransient(t *testing.T) {
	srv, calls := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `not json at all`)
	})

	verifier := NewHeliusClient(testHeliusConfig(srv.URL))
	result := verifier.VerifyTransaction(context.Background(), "some-signature")

	assert.Equal(t, OutcomeTransientError, result.Outcome)
	assert.Equal(t, int64(3), calls.Load())
}

func TestVerifyTransaction_CancelledContextStopsRetries(t *testing.T) {
	srv, _ := rpcStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	cfg := testHeliusConfig(srv.URL)
	cfg.RetryDelay = time.Minute
	verifier := NewHeliusClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan VerifyResult, 1)
	go func() {
		done <- verifier.VerifyTransaction(ctx, "some-signature")
	}()

	select {
	case result := <-done:
		assert.Equal(t, OutcomeTransientError, result.Outcome)
	case <-time.After(2 * time.Second):
		t.Fatal("verification did not stop after context cancellation")
	}
}
