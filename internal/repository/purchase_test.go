package repository

import (
	"context"
	"fmt"
	"testing"

	"solana-store-bot/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.Purchase{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, title, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		Title:   title,
		Price:   decimal.RequireFromString(price),
		Content: "https://example.com/" + title,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestRecord_DuplicateSignatureRejected(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "guide", "0.1")

	first := &model.Purchase{BuyerID: 1, BuyerName: "alice", ProductID: p.ID, Price: p.Price, Signature: "sig-1"}
	require.NoError(t, repo.Record(ctx, first))

	// same signature, different buyer: the unique index still rejects it
	second := &model.Purchase{BuyerID: 2, BuyerName: "bob", ProductID: p.ID, Price: p.Price, Signature: "sig-1"}
	err := repo.Record(ctx, second)
	assert.ErrorIs(t, err, ErrSignatureUsed)

	var count int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIsSignatureUsed(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "guide", "0.1")

	used, err := repo.IsSignatureUsed(ctx, "sig-1")
	require.NoError(t, err)
	assert.False(t, used)

	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, ProductID: p.ID, Price: p.Price, Signature: "sig-1"}))

	used, err = repo.IsSignatureUsed(ctx, "sig-1")
	require.NoError(t, err)
	assert.True(t, used)
}

func TestTotalSales_SumsPurchasePrices(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()

	cheap := seedProduct(t, db, "cheap", "0.1")
	dear := seedProduct(t, db, "dear", "0.25")

	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, ProductID: cheap.ID, Price: cheap.Price, Signature: "sig-1"}))
	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 2, ProductID: cheap.ID, Price: cheap.Price, Signature: "sig-2"}))
	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, ProductID: dear.ID, Price: dear.Price, Signature: "sig-3"}))

	total, err := repo.TotalSales(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("0.45")), "got %s", total.String())
}

func TestTotalSales_SurvivesRemovedProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "guide", "0.1")
	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, ProductID: p.ID, Price: p.Price, Signature: "sig-1"}))

	total, err := repo.TotalSales(ctx)
	require.NoError(t, err)
	require.True(t, total.Equal(decimal.RequireFromString("0.1")), "got %s", total.String())

	// removing the catalog item must not shrink lifetime sales
	require.NoError(t, products.DeleteByID(ctx, p.ID))

	total, err = repo.TotalSales(ctx)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("0.1")), "got %s", total.String())
}

func TestTotalSales_EmptyLedgerIsZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)

	total, err := repo.TotalSales(context.Background())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestCountBuyers_Distinct(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "guide", "0.1")

	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, ProductID: p.ID, Price: p.Price, Signature: "sig-1"}))
	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, ProductID: p.ID, Price: p.Price, Signature: "sig-2"}))
	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 2, ProductID: p.ID, Price: p.Price, Signature: "sig-3"}))

	count, err := repo.CountBuyers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFindAllWithProducts_SurvivesRemovedProduct(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurchaseRepository(db)
	products := NewProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, "guide", "0.1")
	require.NoError(t, repo.Record(ctx, &model.Purchase{BuyerID: 1, BuyerName: "alice", ProductID: p.ID, Price: p.Price, Signature: "sig-1"}))

	require.NoError(t, products.DeleteByID(ctx, p.ID))

	all, err := repo.FindAllWithProducts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "alice", all[0].Purchase.BuyerName)
	// purchase row is intact, product details are simply gone
	assert.Empty(t, all[0].Product.Title)
}

func TestProductRepository_FindAllInCreationOrder(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)
	ctx := context.Background()

	first := seedProduct(t, db, "first", "0.1")
	second := seedProduct(t, db, "second", "0.2")

	all, err := products.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
}

func TestProductRepository_DeleteMissingID(t *testing.T) {
	db := newTestDB(t)
	products := NewProductRepository(db)

	err := products.DeleteByID(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
