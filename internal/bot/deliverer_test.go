package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramDeliverer_FileCaptionNamesTheFile(t *testing.T) {
	tg := &fakeTelegram{}
	d := NewTelegramDeliverer(tg)

	require.NoError(t, d.DeliverFile(context.Background(), buyerID, "file-id-123", "ebook.pdf"))

	sent := tg.lastSent(t)
	assert.Equal(t, "sendDocument", sent.method)
	assert.Equal(t, "file-id-123", sent.text)
	assert.Contains(t, sent.caption, "ebook.pdf")
}

func TestTelegramDeliverer_NoFileNameFallsBackToThanks(t *testing.T) {
	tg := &fakeTelegram{}
	d := NewTelegramDeliverer(tg)

	require.NoError(t, d.DeliverFile(context.Background(), buyerID, "file-id-123", ""))

	sent := tg.lastSent(t)
	assert.Equal(t, "sendDocument", sent.method)
	assert.Contains(t, sent.caption, "Payment verified")
}
