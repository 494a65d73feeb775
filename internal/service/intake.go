package service

import (
	"fmt"
	"solana-store-bot/internal/model"
	"strings"

	"github.com/shopspring/decimal"
)

type IntakeStep int

const (
	IntakeTitle IntakeStep = iota
	IntakeDescription
	IntakePrice
	IntakePhoto
	IntakeContent
	IntakeDone
)

// ProductIntake accumulates the fields of a new product over the admin's
// message-by-message form. Validation of the whole happens once in Build,
// independent of how the pieces arrived.
type ProductIntake struct {
	Step IntakeStep

	Title       string
	Description string
	Price       decimal.Decimal
	PhotoID     string
	Content     string
	IsFile      bool
	FileName    string
}

func NewProductIntake() *ProductIntake {
	return &ProductIntake{Step: IntakeTitle}
}

func (b *ProductIntake) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}
	b.Title = title
	b.Step = IntakeDescription
	return nil
}

func (b *ProductIntake) SetDescription(description string) {
	b.Description = strings.TrimSpace(description)
	b.Step = IntakePrice
}

func (b *ProductIntake) SetPrice(text string) error {
	price, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("parse price: %w", err)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price must be positive")
	}
	b.Price = price
	b.Step = IntakePhoto
	return nil
}

func (b *ProductIntake) SetPhoto(photoID string) {
	b.PhotoID = photoID
	b.Step = IntakeContent
}

func (b *ProductIntake) SkipPhoto() {
	b.PhotoID = ""
	b.Step = IntakeContent
}

// SetLink finishes the form with a text download link.
func (b *ProductIntake) SetLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return fmt.Errorf("download link must not be empty")
	}
	b.Content = link
	b.IsFile = false
	b.FileName = ""
	b.Step = IntakeDone
	return nil
}

// SetFile finishes the form with an uploaded document reference.
func (b *ProductIntake) SetFile(fileID, fileName string) error {
	if fileID == "" {
		return fmt.Errorf("file reference must not be empty")
	}
	b.Content = fileID
	b.IsFile = true
	b.FileName = fileName
	b.Step = IntakeDone
	return nil
}

// Build validates completeness and returns the product to persist.
func (b *ProductIntake) Build() (*model.Product, error) {
	if b.Step != IntakeDone || b.Title == "" || b.Content == "" || !b.Price.IsPositive() {
		return nil, ErrIncompleteProduct
	}

	return &model.Product{
		Title:       b.Title,
		Description: b.Description,
		Price:       b.Price,
		PhotoID:     b.PhotoID,
		Content:     b.Content,
		IsFile:      b.IsFile,
		FileName:    b.FileName,
	}, nil
}
