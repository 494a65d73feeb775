package handler

import (
	"net/http"
	"solana-store-bot/internal/dto"
	"solana-store-bot/internal/service"

	"github.com/labstack/echo/v4"
)

// OpsHandler exposes read-only store stats over HTTP for the operator.
// Admin identity here is the configured ops token, acting on behalf of the
// first configured admin id.
type OpsHandler struct {
	adminService service.AdminService
	adminID      int64
}

func NewOpsHandler(adminService service.AdminService, adminID int64) *OpsHandler {
	return &OpsHandler{
		adminService: adminService,
		adminID:      adminID,
	}
}

func (h *OpsHandler) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.adminService.Stats(ctx, h.adminID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.StatsResponse{
		TotalBuyers:  stats.TotalBuyers,
		TotalSales:   stats.TotalSales.String(),
		ProductCount: stats.ProductCount,
		LiveSessions: stats.LiveSessions,
	})
}

func (h *OpsHandler) GetPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	purchases, err := h.adminService.Buyers(ctx, h.adminID)
	if err != nil {
		return err
	}

	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.PurchaseResponse{
			BuyerID:      p.Purchase.BuyerID,
			BuyerName:    p.Purchase.BuyerName,
			ProductID:    p.Purchase.ProductID,
			ProductTitle: p.Product.Title,
			PurchasedAt:  p.Purchase.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, out)
}
