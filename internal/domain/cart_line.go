package domain

import "github.com/shopspring/decimal"

// CartLine — строка корзины. Идентификатор совпадает с идентификатором товара,
// поэтому в корзине не больше одной строки на товар. Поля отображения копируются
// из товара в момент добавления, чтобы строка оставалась корректной без самого товара.
type CartLine struct {
	ID               string
	PurchaseQuantity int
	Name             string
	Price            decimal.Decimal
	Image            string
}

func (c CartLine) Key() string {
	return c.ID
}

// Subtotal — стоимость строки: цена × количество.
func (c CartLine) Subtotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.PurchaseQuantity)))
}

// NewCartLine снимает копию отображаемых полей товара.
func NewCartLine(product Product, quantity int) CartLine {
	return CartLine{
		ID:               product.ID,
		PurchaseQuantity: quantity,
		Name:             product.Name,
		Price:            product.Price,
		Image:            product.Image,
	}
}

// WithQuantity возвращает копию строки с новым количеством.
func (c CartLine) WithQuantity(quantity int) CartLine {
	c.PurchaseQuantity = quantity
	return c
}
