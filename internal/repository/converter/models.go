package converter

import "github.com/shopspring/decimal"

// Модели записей локального кэша. Ключ каждой записи хранится в поле _id.

type CategoryRefModel struct {
	ID string `json:"_id"`
}

type ProductModel struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Image       string           `json:"image,omitempty"`
	Category    CategoryRefModel `json:"category"`
}

type CategoryModel struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CartLineModel struct {
	ID               string          `json:"_id"`
	PurchaseQuantity int             `json:"purchaseQuantity"`
	Name             string          `json:"name"`
	Price            decimal.Decimal `json:"price"`
	Image            string          `json:"image,omitempty"`
}
