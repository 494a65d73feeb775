package service

import (
	"context"
	"solana-store-bot/internal/model"
	"solana-store-bot/internal/repository"
)

// ProductPage is one product card out of the whole catalog.
type ProductPage struct {
	Product *model.Product
	Index   int
	Total   int
}

type StoreService interface {
	// Browse returns the product at index+step, wrapping around the catalog.
	Browse(ctx context.Context, index, step int) (*ProductPage, error)
}

type storeServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewStoreService(productRepo repository.ProductRepository) StoreService {
	return &storeServiceImpl{
		productRepo: productRepo,
	}
}

func (s *storeServiceImpl) Browse(ctx context.Context, index, step int) (*ProductPage, error) {
	products, err := s.productRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}

	n := len(products)
	idx := ((index+step)%n + n) % n

	return &ProductPage{
		Product: products[idx],
		Index:   idx,
		Total:   n,
	}, nil
}
