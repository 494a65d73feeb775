package service

import (
	"errors"
	"fmt"
	"solana-store-bot/internal/repository"
)

var (
	// ErrUnauthorized rejects a non-admin caller. No side effects happen
	// before this check.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoSelection means the buyer has no pending purchase to act on.
	ErrNoSelection = errors.New("no product selected")

	// ErrInvalidSignature rejects a proof that fails the format check before
	// any verifier call is spent on it.
	ErrInvalidSignature = errors.New("invalid transaction signature format")

	// ErrSignatureUsed is the ledger's rejection of a reused proof.
	ErrSignatureUsed = repository.ErrSignatureUsed

	// ErrProofNotFound means the chain reported no confirmed, successful
	// transaction for the signature. The buyer may resubmit.
	ErrProofNotFound = errors.New("transaction not found or not confirmed")

	// ErrVerificationUnavailable means the RPC stayed unreachable through
	// every retry. Never to be read as "proof invalid".
	ErrVerificationUnavailable = errors.New("verification temporarily unavailable")

	ErrProductNotFound = errors.New("product not found")

	// ErrIncompleteProduct rejects saving an intake with missing fields.
	ErrIncompleteProduct = errors.New("product intake incomplete")
)

// DeliveryError reports a content delivery failure after the purchase was
// already recorded. The record stands; the signature stays consumed.
type DeliveryError struct {
	PurchaseID uint
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("content delivery failed for purchase %d: %v", e.PurchaseID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
