package models

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string  `gorm:"not null"                 json:"title"`
	Price       float64 `gorm:"not null"                 json:"price"`
	Description string  `gorm:"not null"                 json:"description"`
	ImageURL    string  `gorm:"not null"                 json:"image_url"`
	UserID      uint    `gorm:"index;not null"           json:"user_id"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                  json:"id"`
	UserID    uint `gorm:"index;not null"              json:"user_id"`
	ProductID uint `gorm:"not null"                    json:"product_id"`
	Quantity  uint `gorm:"default:1;check:quantity>0"  json:"quantity"`
}

type Order struct {
	ID        uint        `gorm:"primaryKey"     json:"id"`
	UserID    uint        `gorm:"index;not null" json:"user_id"`
	UserEmail string      `gorm:"not null"       json:"user_email"`
	CreatedAt int64       `gorm:"not null"       json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// OrderItem carries a full copy of the product at purchase time.
// Invoices read only these fields, never the live product row.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey"     json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"order_id"`
	Quantity    uint    `gorm:"not null"       json:"quantity"`
	ProductID   uint    `gorm:"not null"       json:"product_id"`
	Title       string  `gorm:"not null"       json:"title"`
	Price       float64 `gorm:"not null"       json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
