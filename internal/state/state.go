package state

import (
	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// State — снимок состояния приложения. Снимки неизменяемы: редьюсер всегда
// возвращает новый указатель при изменении и тот же указатель, если ничего не поменялось.
type State struct {
	Products        Collection[domain.Product]
	Categories      Collection[domain.Category]
	Cart            Collection[domain.CartLine]
	CurrentCategory string // пустая строка — без фильтра
	CartOpen        bool
}

// NewState возвращает начальное состояние сессии: пустые коллекции, корзина закрыта.
func NewState() *State {
	return &State{
		Products:   NewCollection[domain.Product](nil),
		Categories: NewCollection[domain.Category](nil),
		Cart:       NewCollection[domain.CartLine](nil),
	}
}

// VisibleProducts — товары с учётом текущего фильтра категории.
func (s *State) VisibleProducts() []domain.Product {
	return s.Products.Filter(func(p domain.Product) bool {
		return p.InCategory(s.CurrentCategory)
	})
}

// CartTotal — сумма по всем строкам корзины.
func (s *State) CartTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Cart.Items() {
		total = total.Add(line.Subtotal())
	}

	return total
}

// CartItemsCount — суммарное количество единиц товара в корзине.
func (s *State) CartItemsCount() int {
	count := 0
	for _, line := range s.Cart.Items() {
		count += line.PurchaseQuantity
	}

	return count
}

func (s *State) clone() *State {
	next := *s
	return &next
}
