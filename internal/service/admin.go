package service

import (
	"context"
	"errors"
	"log/slog"
	"solana-store-bot/internal/model"
	"solana-store-bot/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StoreStats struct {
	TotalBuyers  int64
	TotalSales   decimal.Decimal
	ProductCount int64
	LiveSessions int
}

type AdminService interface {
	IsAdmin(userID int64) bool
	AddProduct(ctx context.Context, adminID int64, intake *ProductIntake) (*model.Product, error)
	RemoveProduct(ctx context.Context, adminID int64, productID uint) (*model.Product, error)
	ListProducts(ctx context.Context, adminID int64) ([]*model.Product, error)
	Stats(ctx context.Context, adminID int64) (*StoreStats, error)
	Buyers(ctx context.Context, adminID int64) ([]*repository.PurchaseWithProduct, error)
}

type adminServiceImpl struct {
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	sessions     *SessionStore
	adminIDs     map[int64]struct{}
}

func NewAdminService(
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	sessions *SessionStore,
	adminIDs []int64,
) AdminService {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &adminServiceImpl{
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		sessions:     sessions,
		adminIDs:     ids,
	}
}

func (s *adminServiceImpl) IsAdmin(userID int64) bool {
	_, ok := s.adminIDs[userID]
	return ok
}

func (s *adminServiceImpl) authorize(adminID int64) error {
	if !s.IsAdmin(adminID) {
		return ErrUnauthorized
	}
	return nil
}

func (s *adminServiceImpl) AddProduct(ctx context.Context, adminID int64, intake *ProductIntake) (*model.Product, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}

	product, err := intake.Build()
	if err != nil {
		return nil, err
	}

	if _, err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	slog.Info("product added", "product_id", product.ID, "title", product.Title, "admin_id", adminID)
	return product, nil
}

func (s *adminServiceImpl) RemoveProduct(ctx context.Context, adminID int64, productID uint) (*model.Product, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if err := s.productRepo.DeleteByID(ctx, productID); err != nil {
		return nil, err
	}

	slog.Info("product removed", "product_id", productID, "title", product.Title, "admin_id", adminID)
	return product, nil
}

func (s *adminServiceImpl) ListProducts(ctx context.Context, adminID int64) ([]*model.Product, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}
	return s.productRepo.FindAll(ctx)
}

func (s *adminServiceImpl) Stats(ctx context.Context, adminID int64) (*StoreStats, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}

	buyers, err := s.purchaseRepo.CountBuyers(ctx)
	if err != nil {
		return nil, err
	}
	sales, err := s.purchaseRepo.TotalSales(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &StoreStats{
		TotalBuyers:  buyers,
		TotalSales:   sales,
		ProductCount: products,
		LiveSessions: s.sessions.Len(),
	}, nil
}

func (s *adminServiceImpl) Buyers(ctx context.Context, adminID int64) ([]*repository.PurchaseWithProduct, error) {
	if err := s.authorize(adminID); err != nil {
		return nil, err
	}
	return s.purchaseRepo.FindAllWithProducts(ctx)
}
