package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Gender       string    `json:"gender"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type Supplier struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"not null"                 json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	StockQuantity int       `gorm:"not null;check:stock_quantity>=0" json:"stock_quantity"`
	SupplierID    uint      `gorm:"index"                    json:"supplier_id"`
	Image         string    `json:"image"`
	CreatedAt     time.Time `json:"created_at"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  int  `gorm:"not null;check:quantity>0"   json:"quantity"`
}

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
)

type Order struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	Status      string    `gorm:"not null"                 json:"status"`
	TotalAmount float64   `gorm:"not null"                 json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderDetail freezes the unit price at the moment the order was placed.
// Price is product price times quantity and never follows later catalog edits.
type OrderDetail struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `gorm:"not null"                 json:"product_id"`
	Quantity  int     `gorm:"not null"                 json:"quantity"`
	Price     float64 `gorm:"not null"                 json:"price"`
}

type Payment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     uint      `gorm:"uniqueIndex;not null"     json:"order_id"`
	PaymentDate time.Time `gorm:"not null"                 json:"payment_date"`
	Amount      float64   `gorm:"not null"                 json:"amount"`
	ReceiptFile string    `gorm:"not null"                 json:"receipt_file"`
}

type Complaint struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	OrderID   uint      `gorm:"index;not null"           json:"order_id"`
	Text      string    `gorm:"not null"                 json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
