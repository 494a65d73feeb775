package bot

import (
	"context"
	"fmt"
	"solana-store-bot/internal/client"
	"solana-store-bot/internal/service"
)

// telegramDeliverer adapts the Telegram client to the delivery capability the
// purchase flow depends on.
type telegramDeliverer struct {
	tg client.TelegramClient
}

func NewTelegramDeliverer(tg client.TelegramClient) service.ContentDeliverer {
	return &telegramDeliverer{tg: tg}
}

func (d *telegramDeliverer) DeliverText(ctx context.Context, buyerID int64, text string) error {
	return d.tg.SendMessage(ctx, buyerID, text, nil)
}

// DeliverFile resends the stored document by file_id. The Bot API keeps the
// name the file was uploaded with, so fileName only shows up in the caption.
func (d *telegramDeliverer) DeliverFile(ctx context.Context, buyerID int64, fileID, fileName string) error {
	caption := "✅ Payment verified! Thank you for your purchase."
	if fileName != "" {
		caption = fmt.Sprintf("✅ Payment verified! Here is your file: %s", fileName)
	}
	return d.tg.SendDocument(ctx, buyerID, fileID, caption)
}
