package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
)

var (
	ErrReceiptRequired = errors.New("receipt is required")
	ErrEmptyCart       = errors.New("no items in cart")
	ErrProductMissing  = errors.New("cart references a missing product")
)

// ReceiptStore persists the uploaded receipt artifact before any order row
// is written referencing it.
type ReceiptStore interface {
	SaveReceipt(userID uint, name string, r io.Reader) (string, error)
}

type Service struct {
	DB       *gorm.DB
	Receipts ReceiptStore
}

type Result struct {
	Order   models.Order         `json:"order"`
	Payment models.Payment       `json:"payment"`
	Details []models.OrderDetail `json:"details"`
}

// PlaceOrder converts the user's cart into an order, its payment and one
// detail row per cart line, then clears the cart. The receipt is stored
// first; every row write happens in a single transaction so a failure never
// leaves an order without its payment or detail rows.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, receiptName string, receipt io.Reader) (*Result, error) {
	if receipt == nil || receiptName == "" {
		return nil, ErrReceiptRequired
	}

	storedReceipt, err := s.Receipts.SaveReceipt(userID, receiptName, receipt)
	if err != nil {
		return nil, fmt.Errorf("storing receipt: %w", err)
	}

	var res Result
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total float64
		details := make([]models.OrderDetail, 0, len(items))
		for _, it := range items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductMissing
				}
				return err
			}
			linePrice := p.Price * float64(it.Quantity)
			total += linePrice
			details = append(details, models.OrderDetail{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     linePrice,
			})
		}

		order := models.Order{
			UserID:      userID,
			Status:      models.OrderStatusPending,
			TotalAmount: total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		payment := models.Payment{
			OrderID:     order.ID,
			PaymentDate: order.CreatedAt,
			Amount:      total,
			ReceiptFile: storedReceipt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		for i := range details {
			details[i].OrderID = order.ID
			if err := tx.Create(&details[i]).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		res = Result{Order: order, Payment: payment, Details: details}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &res, nil
}
