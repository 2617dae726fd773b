package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CartSize is the number of catalog slots a user cart holds. The storefront
// addresses cart entries by product index 0..CartSize-1.
const CartSize = 300

// CartData maps a product index (as a decimal string, matching the JSON
// document shape) to a quantity. It is stored as a JSON text column.
type CartData map[string]int

func NewCart() CartData {
	cart := make(CartData, CartSize)
	for i := 0; i < CartSize; i++ {
		cart[strconv.Itoa(i)] = 0
	}
	return cart
}

func (cd CartData) Value() (driver.Value, error) {
	data, err := json.Marshal(cd)
	if err != nil {
		return nil, fmt.Errorf("marshal cart data: %w", err)
	}
	return string(data), nil
}

func (cd *CartData) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*cd = nil
		return nil
	default:
		return fmt.Errorf("unsupported cart data source type %T", src)
	}
	return json.Unmarshal(data, cd)
}

type Product struct {
	ID        int       `gorm:"primaryKey"        json:"id"`
	Name      string    `gorm:"not null"          json:"name"`
	Image     string    `gorm:"not null"          json:"image"`
	Category  string    `gorm:"not null"          json:"category"`
	NewPrice  float64   `gorm:"not null"          json:"new_price"`
	OldPrice  float64   `gorm:"not null"          json:"old_price"`
	Date      time.Time `gorm:"autoCreateTime"    json:"date"`
	Available bool      `json:"available"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CartData     CartData  `gorm:"type:text"                json:"cartData"`
	Date         time.Time `gorm:"autoCreateTime"           json:"date"`
}
