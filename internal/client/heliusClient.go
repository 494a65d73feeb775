package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"solana-store-bot/internal/config"
	"time"

	"github.com/google/uuid"
)

// VerifyOutcome is the closed set of results a verification call can produce.
// Every caller must handle all three.
type VerifyOutcome int

const (
	OutcomeConfirmed VerifyOutcome = iota
	OutcomeNotFoundOrPending
	OutcomeTransientError
)

func (o VerifyOutcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeNotFoundOrPending:
		return "not_found_or_pending"
	case OutcomeTransientError:
		return "transient_error"
	default:
		return "unknown"
	}
}

type VerifyResult struct {
	Outcome VerifyOutcome
	Reason  string // populated for transient errors
}

type ChainVerifier interface {
	VerifyTransaction(ctx context.Context, signature string) VerifyResult
}

type heliusClientImpl struct {
	httpClient  *http.Client
	rpcURL      string
	maxAttempts int
	retryDelay  time.Duration
}

func NewHeliusClient(heliusCfg *config.Helius) ChainVerifier {
	return &heliusClientImpl{
		httpClient: &http.Client{
			Timeout: heliusCfg.CallTimeout,
		},
		rpcURL:      fmt.Sprintf("%s/?api-key=%s", heliusCfg.RPCURL, heliusCfg.APIKey),
		maxAttempts: heliusCfg.MaxAttempts,
		retryDelay:  heliusCfg.RetryDelay,
	}
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result *struct {
		Meta struct {
			Status map[string]json.RawMessage `json:"status"`
		} `json:"meta"`
	} `json:"result"`
}

// VerifyTransaction asks the RPC whether a confirmed transaction with the
// given signature exists and succeeded. Transport failures, rate limiting and
// non-2xx responses are retried up to the configured bound; a well-formed
// response is never retried. Note this checks existence and Ok status only,
// not the transferred amount or destination.
func (c *heliusClientImpl) VerifyTransaction(ctx context.Context, signature string) VerifyResult {
	checkID := uuid.NewString()
	log := slog.With("check_id", checkID)

	var lastReason string
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return VerifyResult{Outcome: OutcomeTransientError, Reason: ctx.Err().Error()}
			}
		}

		result, retryable, err := c.callGetTransaction(ctx, signature)
		if err != nil {
			lastReason = err.Error()
			log.Warn("transaction lookup failed",
				"attempt", attempt,
				"retryable", retryable,
				"error", err,
			)
			if !retryable {
				return VerifyResult{Outcome: OutcomeTransientError, Reason: lastReason}
			}
			continue
		}

		log.Info("transaction lookup result", "attempt", attempt, "outcome", result.Outcome.String())
		return result
	}

	return VerifyResult{
		Outcome: OutcomeTransientError,
		Reason:  fmt.Sprintf("gave up after %d attempts: %s", c.maxAttempts, lastReason),
	}
}

// callGetTransaction performs one RPC round trip. The bool return reports
// whether a failure is worth retrying.
func (c *heliusClientImpl) callGetTransaction(ctx context.Context, signature string) (VerifyResult, bool, error) {
	payload := rpcRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  "getTransaction",
		Params:  []any{signature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return VerifyResult{}, false, fmt.Errorf("marshal rpc payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewBuffer(body))
	if err != nil {
		return VerifyResult{}, false, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return VerifyResult{}, true, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return VerifyResult{}, true, fmt.Errorf("rpc rate limited")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return VerifyResult{}, true, fmt.Errorf("rpc error status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return VerifyResult{}, true, fmt.Errorf("decode rpc response: %w", err)
	}

	// Absent result means the transaction is unknown or not yet confirmed.
	if rpcResp.Result == nil {
		return VerifyResult{Outcome: OutcomeNotFoundOrPending}, false, nil
	}

	// A present result with an Err status is a confirmed-but-failed
	// transaction. Permanent, so no retry.
	if _, failed := rpcResp.Result.Meta.Status["Err"]; failed {
		return VerifyResult{Outcome: OutcomeNotFoundOrPending}, false, nil
	}

	return VerifyResult{Outcome: OutcomeConfirmed}, false, nil
}
