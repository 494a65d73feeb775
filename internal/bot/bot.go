package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"solana-store-bot/internal/client"
	"solana-store-bot/internal/service"
	"strconv"
	"strings"
	"time"
)

type Bot struct {
	tg       client.TelegramClient
	sessions *service.SessionStore
	store    service.StoreService
	purchase service.PurchaseService
	admin    service.AdminService
	wallet   string
}

func New(
	tg client.TelegramClient,
	sessions *service.SessionStore,
	store service.StoreService,
	purchase service.PurchaseService,
	admin service.AdminService,
	wallet string,
) *Bot {
	return &Bot{
		tg:       tg,
		sessions: sessions,
		store:    store,
		purchase: purchase,
		admin:    admin,
		wallet:   wallet,
	}
}

// Run long-polls for updates until the context is cancelled. Each update is
// handled on its own goroutine; per-buyer ordering comes from the session
// mutex, not from the loop.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := b.tg.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("get updates failed", "error", err)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate is the outermost boundary: a panic or unanticipated error in
// one interaction is logged and answered with an apology, never fatal.
func (b *Bot) handleUpdate(ctx context.Context, update client.Update) {
	chatID := updateChatID(update)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic handling update", "update_id", update.UpdateID, "panic", r)
			if chatID != 0 {
				_ = b.tg.SendMessage(ctx, chatID, msgGenericError, nil)
			}
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func updateChatID(update client.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message != nil {
			return update.CallbackQuery.Message.Chat.ID
		}
		if update.CallbackQuery.From != nil {
			return update.CallbackQuery.From.ID
		}
	}
	return 0
}

func (b *Bot) handleMessage(ctx context.Context, msg *client.Message) {
	from := msg.From
	chatID := msg.Chat.ID

	sess := b.sessions.Get(from.ID)
	sess.Lock()
	defer sess.Unlock()

	if cmd, ok := parseCommand(msg.Text); ok {
		b.handleCommand(ctx, sess, from, chatID, cmd)
		return
	}

	if sess.Intake != nil {
		b.handleIntakeInput(ctx, sess, from, chatID, msg)
		return
	}

	if sess.Phase == service.PhaseAwaitingProof && msg.Text != "" {
		b.handleProofSubmission(ctx, sess, from, chatID, msg.Text)
		return
	}

	// free text outside any flow: nudge toward the store
	_ = b.tg.SendMessage(ctx, chatID, welcomeText(), welcomeKeyboard())
}

func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	cmd := strings.Fields(text)[0]
	// strip the @botname suffix used in groups
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return cmd, true
}

func (b *Bot) handleCommand(ctx context.Context, sess *service.Session, from *client.User, chatID int64, cmd string) {
	switch cmd {
	case "/start":
		sess.Reset()
		sess.BrowseIndex = 0
		_ = b.tg.SendMessage(ctx, chatID, welcomeText(), welcomeKeyboard())

	case "/cancel":
		sess.Reset()
		_ = b.tg.SendMessage(ctx, chatID, "❌ Operation cancelled.", nil)

	case "/add":
		if !b.admin.IsAdmin(from.ID) {
			_ = b.tg.SendMessage(ctx, chatID, msgUnauthorized, nil)
			return
		}
		sess.Reset()
		sess.Intake = service.NewProductIntake()
		_ = b.tg.SendMessage(ctx, chatID, "📝 *Adding New Product*\n\nPlease enter the product title:", nil)

	case "/skip":
		if sess.Intake != nil && sess.Intake.Step == service.IntakePhoto {
			sess.Intake.SkipPhoto()
			_ = b.tg.SendMessage(ctx, chatID, contentPrompt, nil)
		}

	case "/remove":
		if !b.admin.IsAdmin(from.ID) {
			_ = b.tg.SendMessage(ctx, chatID, msgUnauthorized, nil)
			return
		}
		products, err := b.admin.ListProducts(ctx, from.ID)
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		if len(products) == 0 {
			_ = b.tg.SendMessage(ctx, chatID, "📭 No products available to remove.", nil)
			return
		}
		_ = b.tg.SendMessage(ctx, chatID,
			"🗑 *Select a product to remove:*\n\nClick on a product to remove it from the store.",
			removeKeyboard(products))

	case "/stats":
		stats, err := b.admin.Stats(ctx, from.ID)
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		_ = b.tg.SendMessage(ctx, chatID, statsText(stats), nil)

	case "/buyers":
		purchases, err := b.admin.Buyers(ctx, from.ID)
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		_ = b.tg.SendMessage(ctx, chatID, buyersText(purchases), nil)
	}
}

const contentPrompt = "🔗 Finally, send the product content: a download link as text, or upload the file itself."

func (b *Bot) handleIntakeInput(ctx context.Context, sess *service.Session, from *client.User, chatID int64, msg *client.Message) {
	intake := sess.Intake

	switch intake.Step {
	case service.IntakeTitle:
		if err := intake.SetTitle(msg.Text); err != nil {
			_ = b.tg.SendMessage(ctx, chatID, "❌ Please enter a non-empty title:", nil)
			return
		}
		_ = b.tg.SendMessage(ctx, chatID, "📝 Now, please enter the product description:", nil)

	case service.IntakeDescription:
		intake.SetDescription(msg.Text)
		_ = b.tg.SendMessage(ctx, chatID, "💰 Now, please enter the product price in SOL (e.g., 0.1):", nil)

	case service.IntakePrice:
		if err := intake.SetPrice(msg.Text); err != nil {
			_ = b.tg.SendMessage(ctx, chatID, "❌ Invalid price format. Please enter a valid positive number (e.g., 0.1):", nil)
			return
		}
		_ = b.tg.SendMessage(ctx, chatID, "🖼 Now, please send a photo for the product.\nSend /skip if you don't want to add a photo.", nil)

	case service.IntakePhoto:
		if len(msg.Photo) == 0 {
			_ = b.tg.SendMessage(ctx, chatID, "❌ Please send a photo, or /skip to continue without one.", nil)
			return
		}
		// last entry is the largest size
		intake.SetPhoto(msg.Photo[len(msg.Photo)-1].FileID)
		_ = b.tg.SendMessage(ctx, chatID, contentPrompt, nil)

	case service.IntakeContent:
		var err error
		if msg.Document != nil {
			err = intake.SetFile(msg.Document.FileID, msg.Document.FileName)
		} else {
			err = intake.SetLink(msg.Text)
		}
		if err != nil {
			_ = b.tg.SendMessage(ctx, chatID, "❌ Please send a download link or upload a file.", nil)
			return
		}
		b.finishIntake(ctx, sess, from, chatID)
	}
}

func (b *Bot) finishIntake(ctx context.Context, sess *service.Session, from *client.User, chatID int64) {
	intake := sess.Intake
	product, err := b.admin.AddProduct(ctx, from.ID, intake)
	sess.Intake = nil
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	confirmation := fmt.Sprintf(
		"✅ *Product Added Successfully!*\n\n*Title:* %s\n*Price:* %s SOL\n*Description:* %s\n\nThe product is now available in the store!",
		product.Title, product.Price.String(), product.Description,
	)
	if product.PhotoID != "" {
		_ = b.tg.SendPhoto(ctx, chatID, product.PhotoID, confirmation, nil)
	} else {
		_ = b.tg.SendMessage(ctx, chatID, confirmation, nil)
	}
}

func (b *Bot) handleProofSubmission(ctx context.Context, sess *service.Session, from *client.User, chatID int64, text string) {
	buyer := service.Buyer{ID: from.ID, Name: buyerName(from)}

	_, err := b.purchase.SubmitProof(ctx, sess, buyer, text)
	if err == nil {
		// content already delivered by the purchase flow
		return
	}

	var deliveryErr *service.DeliveryError
	switch {
	case errors.Is(err, service.ErrInvalidSignature):
		_ = b.tg.SendMessage(ctx, chatID, msgInvalidSignature, nil)
	case errors.Is(err, service.ErrSignatureUsed):
		_ = b.tg.SendMessage(ctx, chatID, msgSignatureUsed, nil)
	case errors.Is(err, service.ErrProofNotFound):
		_ = b.tg.SendMessage(ctx, chatID, msgProofNotFound, nil)
	case errors.Is(err, service.ErrVerificationUnavailable):
		_ = b.tg.SendMessage(ctx, chatID, msgTryAgainLater, nil)
	case errors.As(err, &deliveryErr):
		_ = b.tg.SendMessage(ctx, chatID, msgDeliveryFailed, nil)
	case errors.Is(err, service.ErrNoSelection), errors.Is(err, service.ErrProductNotFound):
		_ = b.tg.SendMessage(ctx, chatID, msgNoSelection, nil)
	default:
		slog.Error("proof submission failed", "buyer_id", from.ID, "error", err)
		_ = b.tg.SendMessage(ctx, chatID, msgGenericError, nil)
	}
}

func buyerName(from *client.User) string {
	if from.Username != "" {
		return from.Username
	}
	return strconv.FormatInt(from.ID, 10)
}

func (b *Bot) handleCallback(ctx context.Context, cb *client.CallbackQuery) {
	_ = b.tg.AnswerCallbackQuery(ctx, cb.ID)

	if cb.From == nil {
		return
	}
	chatID := cb.From.ID
	var messageID int64
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
		messageID = cb.Message.MessageID
	}

	sess := b.sessions.Get(cb.From.ID)
	sess.Lock()
	defer sess.Unlock()

	switch {
	case cb.Data == cbBrowse:
		b.showProduct(ctx, sess, chatID, messageID, 0)
	case cb.Data == cbPrevProduct:
		b.showProduct(ctx, sess, chatID, messageID, -1)
	case cb.Data == cbNextProduct:
		b.showProduct(ctx, sess, chatID, messageID, +1)

	case cb.Data == cbBuy:
		page, err := b.store.Browse(ctx, sess.BrowseIndex, 0)
		if err != nil {
			_ = b.tg.SendMessage(ctx, chatID, msgNoProducts, nil)
			return
		}
		product, err := b.purchase.SelectProduct(ctx, sess, page.Product.ID)
		if err != nil {
			b.replyError(ctx, chatID, err)
			return
		}
		b.editOrSend(ctx, chatID, messageID, paymentInfoText(product, b.wallet), paymentInfoKeyboard())

	case cb.Data == cbVerify:
		if err := b.purchase.AwaitProof(sess); err != nil {
			_ = b.tg.SendMessage(ctx, chatID, msgNoSelection, nil)
			return
		}
		_ = b.tg.SendMessage(ctx, chatID, msgProofPrompt, nil)

	case cb.Data == cbCancelRemove:
		b.editOrSend(ctx, chatID, messageID, "❌ Product removal cancelled.", nil)

	case strings.HasPrefix(cb.Data, cbRemovePrefix):
		b.handleRemove(ctx, cb.From, chatID, messageID, cb.Data)

	case cb.Data == cbNoop:
		// page-counter button
	}
}

func (b *Bot) showProduct(ctx context.Context, sess *service.Session, chatID, messageID int64, step int) {
	page, err := b.store.Browse(ctx, sess.BrowseIndex, step)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			b.editOrSend(ctx, chatID, messageID, msgNoProducts, nil)
			return
		}
		b.replyError(ctx, chatID, err)
		return
	}
	sess.BrowseIndex = page.Index

	text := productCardText(page)
	keyboard := productCardKeyboard(page)

	// a text message cannot be edited into a photo, so photo cards always go
	// out as a fresh message
	if page.Product.PhotoID != "" {
		_ = b.tg.SendPhoto(ctx, chatID, page.Product.PhotoID, text, keyboard)
		return
	}
	b.editOrSend(ctx, chatID, messageID, text, keyboard)
}

func (b *Bot) handleRemove(ctx context.Context, from *client.User, chatID, messageID int64, data string) {
	idText := strings.TrimPrefix(data, cbRemovePrefix)
	id, err := strconv.ParseUint(idText, 10, 32)
	if err != nil {
		b.editOrSend(ctx, chatID, messageID, msgGenericError, nil)
		return
	}

	product, err := b.admin.RemoveProduct(ctx, from.ID, uint(id))
	if err != nil {
		b.replyError(ctx, chatID, err)
		return
	}

	b.editOrSend(ctx, chatID, messageID, fmt.Sprintf(
		"✅ *Product Removed Successfully*\n\nThe product '%s' has been removed from the store.",
		product.Title,
	), nil)
}

func (b *Bot) editOrSend(ctx context.Context, chatID, messageID int64, text string, markup *client.InlineKeyboardMarkup) {
	if messageID != 0 {
		if err := b.tg.EditMessageText(ctx, chatID, messageID, text, markup); err == nil {
			return
		}
	}
	_ = b.tg.SendMessage(ctx, chatID, text, markup)
}

func (b *Bot) replyError(ctx context.Context, chatID int64, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		_ = b.tg.SendMessage(ctx, chatID, msgUnauthorized, nil)
	case errors.Is(err, service.ErrProductNotFound):
		_ = b.tg.SendMessage(ctx, chatID, msgNoProducts, nil)
	default:
		slog.Error("interaction failed", "chat_id", chatID, "error", err)
		_ = b.tg.SendMessage(ctx, chatID, msgGenericError, nil)
	}
}
