package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntake_LinkProduct(t *testing.T) {
	intake := NewProductIntake()

	require.NoError(t, intake.SetTitle("  Memecoin Guide  "))
	assert.Equal(t, IntakeDescription, intake.Step)

	intake.SetDescription("A guide.")
	require.NoError(t, intake.SetPrice("0.1"))

	intake.SetPhoto("photo-file-id")
	require.NoError(t, intake.SetLink("https://example.com/guide"))

	product, err := intake.Build()
	require.NoError(t, err)
	assert.Equal(t, "Memecoin Guide", product.Title)
	assert.Equal(t, "photo-file-id", product.PhotoID)
	assert.Equal(t, "https://example.com/guide", product.Content)
	assert.False(t, product.IsFile)
}

func TestIntake_FileProduct(t *testing.T) {
	intake := NewProductIntake()
	require.NoError(t, intake.SetTitle("Ebook"))
	intake.SetDescription("")
	require.NoError(t, intake.SetPrice("1.5"))
	intake.SkipPhoto()
	require.NoError(t, intake.SetFile("doc-file-id", "ebook.pdf"))

	product, err := intake.Build()
	require.NoError(t, err)
	assert.True(t, product.IsFile)
	assert.Equal(t, "doc-file-id", product.Content)
	assert.Equal(t, "ebook.pdf", product.FileName)
	assert.Empty(t, product.PhotoID)
}

func TestIntake_RejectsBadInput(t *testing.T) {
	intake := NewProductIntake()

	assert.Error(t, intake.SetTitle("   "))
	require.NoError(t, intake.SetTitle("Guide"))
	intake.SetDescription("desc")

	assert.Error(t, intake.SetPrice("not a number"))
	assert.Error(t, intake.SetPrice("0"))
	assert.Error(t, intake.SetPrice("-1"))
	assert.Equal(t, IntakePrice, intake.Step)

	require.NoError(t, intake.SetPrice("0.1"))
	intake.SkipPhoto()
	assert.Error(t, intake.SetLink("   "))
}

func TestIntake_BuildRequiresCompletion(t *testing.T) {
	intake := NewProductIntake()
	require.NoError(t, intake.SetTitle("Guide"))

	_, err := intake.Build()
	assert.ErrorIs(t, err, ErrIncompleteProduct)
}
