package repository

import (
	"context"
	"errors"
	"solana-store-bot/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrSignatureUsed reports that a proof signature is already recorded.
// The unique index on purchases.signature is the authority; this error is how
// the storage layer's rejection reaches the session layer.
var ErrSignatureUsed = errors.New("transaction signature already used")

type PurchaseWithProduct struct {
	Purchase model.Purchase
	Product  model.Product
}

type PurchaseRepository interface {
	IsSignatureUsed(ctx context.Context, signature string) (bool, error)
	Record(ctx context.Context, purchase *model.Purchase) error
	TotalSales(ctx context.Context) (decimal.Decimal, error)
	FindAllWithProducts(ctx context.Context) ([]*PurchaseWithProduct, error)
	CountBuyers(ctx context.Context) (int64, error)
}

type purchaseRepoImpl struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepoImpl{
		db: db,
	}
}

func (r *purchaseRepoImpl) IsSignatureUsed(ctx context.Context, signature string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("signature = ?", signature).
		Count(&count).Error

	return count > 0, err
}

// Record inserts the proof record. The check-and-insert is a single atomic
// statement: a concurrent duplicate loses at the unique index, not at an
// application-level lookup.
func (r *purchaseRepoImpl) Record(ctx context.Context, purchase *model.Purchase) error {
	err := r.db.WithContext(ctx).Create(purchase).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSignatureUsed
	}
	return err
}

// TotalSales sums the price captured on each purchase row, so the lifetime
// figure is unaffected by products removed from the catalog afterwards.
func (r *purchaseRepoImpl) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("SUM(price)").
		Scan(&total).Error

	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *purchaseRepoImpl) FindAllWithProducts(ctx context.Context) ([]*PurchaseWithProduct, error) {
	var purchases []*model.Purchase
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}

	out := make([]*PurchaseWithProduct, 0, len(purchases))
	for _, p := range purchases {
		var product model.Product
		// product rows may have been removed since the purchase
		err := r.db.WithContext(ctx).Where("id = ?", p.ProductID).First(&product).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		out = append(out, &PurchaseWithProduct{Purchase: *p, Product: product})
	}
	return out, nil
}

func (r *purchaseRepoImpl) CountBuyers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Distinct("buyer_id").
		Count(&count).Error

	return count, err
}
