package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"solana-store-bot/internal/client"
	"solana-store-bot/internal/model"
	"solana-store-bot/internal/repository"
	"strings"

	"gorm.io/gorm"
)

// ContentDeliverer is the one-way delivery capability the purchase flow
// needs from the chat transport.
type ContentDeliverer interface {
	DeliverText(ctx context.Context, buyerID int64, text string) error
	DeliverFile(ctx context.Context, buyerID int64, fileID, fileName string) error
}

// Buyer identifies who is submitting a proof, for the purchase record.
type Buyer struct {
	ID   int64
	Name string
}

type PurchaseService interface {
	// SelectProduct moves the session to selected and returns the product so
	// the transport can show payment instructions.
	SelectProduct(ctx context.Context, sess *Session, productID uint) (*model.Product, error)
	// AwaitProof acknowledges "I've paid": the buyer's next text message is a
	// proof signature, not a browsing action.
	AwaitProof(sess *Session) error
	// SubmitProof runs the verification protocol for a candidate signature.
	// On success the purchase is recorded, content delivered, and the session
	// reset — in that order, and a delivery failure never unwinds the record.
	SubmitProof(ctx context.Context, sess *Session, buyer Buyer, signature string) (*model.Product, error)
}

type purchaseServiceImpl struct {
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	verifier     client.ChainVerifier
	deliverer    ContentDeliverer
	minProofLen  int
}

func NewPurchaseService(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	verifier client.ChainVerifier,
	deliverer ContentDeliverer,
	minProofLen int,
) PurchaseService {
	return &purchaseServiceImpl{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		verifier:     verifier,
		deliverer:    deliverer,
		minProofLen:  minProofLen,
	}
}

func (s *purchaseServiceImpl) SelectProduct(ctx context.Context, sess *Session, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", productID, err)
	}

	sess.Phase = PhaseSelected
	sess.ProductID = product.ID
	return product, nil
}

func (s *purchaseServiceImpl) AwaitProof(sess *Session) error {
	if sess.Phase != PhaseSelected && sess.Phase != PhaseAwaitingProof {
		return ErrNoSelection
	}
	sess.Phase = PhaseAwaitingProof
	return nil
}

func (s *purchaseServiceImpl) SubmitProof(ctx context.Context, sess *Session, buyer Buyer, signature string) (*model.Product, error) {
	if sess.Phase != PhaseAwaitingProof {
		return nil, ErrNoSelection
	}

	signature = strings.TrimSpace(signature)
	if len(signature) < s.minProofLen {
		// fail fast, no verification attempt consumed, session unchanged
		return nil, ErrInvalidSignature
	}

	// Fast-path short-circuit only. The unique index inside Record is what
	// actually guarantees single use.
	used, err := s.purchaseRepo.IsSignatureUsed(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("signature lookup: %w", err)
	}
	if used {
		sess.Reset()
		return nil, ErrSignatureUsed
	}

	sess.Phase = PhaseVerifying
	result := s.verifier.VerifyTransaction(ctx, signature)

	switch result.Outcome {
	case client.OutcomeNotFoundOrPending:
		sess.Phase = PhaseAwaitingProof
		return nil, ErrProofNotFound
	case client.OutcomeTransientError:
		sess.Phase = PhaseAwaitingProof
		return nil, fmt.Errorf("%w: %s", ErrVerificationUnavailable, result.Reason)
	case client.OutcomeConfirmed:
		// fall through
	default:
		sess.Phase = PhaseAwaitingProof
		return nil, fmt.Errorf("%w: unexpected outcome %d", ErrVerificationUnavailable, result.Outcome)
	}

	product, err := s.productRepo.FindByID(ctx, sess.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sess.Reset()
		return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, sess.ProductID)
	}
	if err != nil {
		// storage hiccup, not a missing product: keep the session so the
		// buyer can resubmit
		sess.Phase = PhaseAwaitingProof
		return nil, fmt.Errorf("find product %d: %w", sess.ProductID, err)
	}

	purchase := &model.Purchase{
		BuyerID:   buyer.ID,
		BuyerName: buyer.Name,
		ProductID: product.ID,
		Price:     product.Price,
		Signature: signature,
	}
	if err := s.purchaseRepo.Record(ctx, purchase); err != nil {
		if errors.Is(err, repository.ErrSignatureUsed) {
			// lost the race to a concurrent submission of the same signature
			sess.Reset()
			return nil, ErrSignatureUsed
		}
		sess.Phase = PhaseAwaitingProof
		return nil, fmt.Errorf("record purchase: %w", err)
	}

	if err := s.deliver(ctx, buyer.ID, product); err != nil {
		// Money captured, goods not delivered. The record stands regardless:
		// a signature is consumed by verification, not by delivery.
		slog.Error("content delivery failed after recorded purchase",
			"purchase_id", purchase.ID,
			"buyer_id", buyer.ID,
			"product_id", product.ID,
			"error", err,
		)
		sess.Reset()
		return nil, &DeliveryError{PurchaseID: purchase.ID, Err: err}
	}

	slog.Info("purchase completed",
		"purchase_id", purchase.ID,
		"buyer_id", buyer.ID,
		"product_id", product.ID,
		"price", product.Price.String(),
	)
	sess.Reset()
	return product, nil
}

func (s *purchaseServiceImpl) deliver(ctx context.Context, buyerID int64, product *model.Product) error {
	if product.IsFile {
		return s.deliverer.DeliverFile(ctx, buyerID, product.Content, product.FileName)
	}
	text := fmt.Sprintf(
		"✅ Payment verified! Thank you for your purchase.\n\nHere's your download link:\n%s",
		product.Content,
	)
	return s.deliverer.DeliverText(ctx, buyerID, text)
}
