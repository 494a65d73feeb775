package bot

import (
	"fmt"
	"solana-store-bot/internal/client"
	"solana-store-bot/internal/model"
	"solana-store-bot/internal/repository"
	"solana-store-bot/internal/service"
)

const (
	cbBrowse       = "browse"
	cbBuy          = "buy"
	cbVerify       = "verify"
	cbPrevProduct  = "prev_product"
	cbNextProduct  = "next_product"
	cbNoop         = "noop"
	cbCancelRemove = "cancel_remove"
	cbRemovePrefix = "remove_"
)

func welcomeText() string {
	return "👋 *Welcome to the store!*\n\n" +
		"Browse our digital products, pay in SOL and get your content instantly."
}

func welcomeKeyboard() *client.InlineKeyboardMarkup {
	return &client.InlineKeyboardMarkup{
		InlineKeyboard: [][]client.InlineKeyboardButton{
			{{Text: "🛍 Browse Store", CallbackData: cbBrowse}},
		},
	}
}

func productCardText(page *service.ProductPage) string {
	p := page.Product
	return fmt.Sprintf(
		"*🎯 %s*\n\n💰 *Price:* %s SOL\n\n📝 *Description:*\n%s\n\nClick the button below to purchase!",
		p.Title, p.Price.String(), p.Description,
	)
}

func productCardKeyboard(page *service.ProductPage) *client.InlineKeyboardMarkup {
	rows := [][]client.InlineKeyboardButton{
		{{Text: fmt.Sprintf("💳 Buy Now (%s SOL)", page.Product.Price.String()), CallbackData: cbBuy}},
	}
	if page.Total > 1 {
		rows = append(rows, []client.InlineKeyboardButton{
			{Text: "⬅️", CallbackData: cbPrevProduct},
			{Text: fmt.Sprintf("%d/%d", page.Index+1, page.Total), CallbackData: cbNoop},
			{Text: "➡️", CallbackData: cbNextProduct},
		})
	}
	rows = append(rows, []client.InlineKeyboardButton{
		{Text: "🔄 Refresh", CallbackData: cbBrowse},
	})
	return &client.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func paymentInfoText(product *model.Product, wallet string) string {
	price := product.Price.String()
	return fmt.Sprintf(
		"*💳 Payment Information*\n\n"+
			"Please send *%s SOL* to:\n`%s`\n\n"+
			"*Important Notes:*\n"+
			"• Make sure to send exactly %s SOL\n"+
			"• Double-check the wallet address\n"+
			"• Keep your transaction signature ready\n\n"+
			"After sending, click the button below to verify your payment.",
		price, wallet, price,
	)
}

func paymentInfoKeyboard() *client.InlineKeyboardMarkup {
	return &client.InlineKeyboardMarkup{
		InlineKeyboard: [][]client.InlineKeyboardButton{
			{{Text: "✅ I've Sent the Payment", CallbackData: cbVerify}},
			{{Text: "🔙 Back to Product", CallbackData: cbBrowse}},
		},
	}
}

func removeKeyboard(products []*model.Product) *client.InlineKeyboardMarkup {
	rows := make([][]client.InlineKeyboardButton, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []client.InlineKeyboardButton{{
			Text:         fmt.Sprintf("🗑 %s (%s SOL)", p.Title, p.Price.String()),
			CallbackData: fmt.Sprintf("%s%d", cbRemovePrefix, p.ID),
		}})
	}
	rows = append(rows, []client.InlineKeyboardButton{{Text: "❌ Cancel", CallbackData: cbCancelRemove}})
	return &client.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func statsText(stats *service.StoreStats) string {
	return fmt.Sprintf(
		"*📊 Store Statistics*\n\n👥 *Total Buyers:* %d\n💰 *Total Sales:* %s SOL\n📦 *Active Products:* %d",
		stats.TotalBuyers, stats.TotalSales.String(), stats.ProductCount,
	)
}

func buyersText(purchases []*repository.PurchaseWithProduct) string {
	if len(purchases) == 0 {
		return "📭 No buyers yet."
	}
	text := "*👥 Buyer List*\n\n"
	for _, p := range purchases {
		title := p.Product.Title
		if title == "" {
			title = fmt.Sprintf("product #%d (removed)", p.Purchase.ProductID)
		}
		text += fmt.Sprintf("• @%s: %s\n", p.Purchase.BuyerName, title)
	}
	return text
}

const (
	msgProofPrompt = "📝 Please paste the transaction signature to verify your payment.\n\n" +
		"You can find this in your Solana wallet after making the payment."
	msgInvalidSignature = "❌ That doesn't look like a transaction signature. Please check it and paste the full signature."
	msgSignatureUsed    = "❌ This transaction signature has already been used. Each payment can only be used once."
	msgProofNotFound    = "❌ Transaction not found or not confirmed yet. Please check the signature and try again."
	msgTryAgainLater    = "⏳ We couldn't reach the payment network. Your signature was not consumed — please try again in a moment."
	msgDeliveryFailed   = "⚠️ Your payment is confirmed but we couldn't deliver the content. Please contact support — your purchase is recorded."
	msgNoSelection      = "Please pick a product and complete the payment steps first."
	msgUnauthorized     = "❌ Unauthorized access."
	msgGenericError     = "❌ Something went wrong. Please try again later."
	msgNoProducts       = "📭 No products available right now. Check back soon!"
)
