package usecase

import (
	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/state"
	"github.com/shopspring/decimal"
)

// LoadState — состояние загрузки одной коллекции.
type LoadState string

const (
	LoadStateEmpty    LoadState = "EMPTY"
	LoadStateLoading  LoadState = "LOADING"
	LoadStateHydrated LoadState = "HYDRATED"
)

// SyncStatus — состояние загрузки всех коллекций.
type SyncStatus struct {
	Products   LoadState
	Categories LoadState
	Cart       LoadState
}

// ProductView — товар с разрешённой ссылкой на изображение.
type ProductView struct {
	domain.Product
	ImageURL string
}

// ProductsRes — видимые товары с учётом выбранной категории.
type ProductsRes struct {
	Products        []ProductView
	CurrentCategory string
}

type CategoriesRes struct {
	Categories      []domain.Category
	CurrentCategory string
}

// CartRes — снимок корзины для отображения.
type CartRes struct {
	Lines      []domain.CartLine
	Total      decimal.Decimal
	ItemsCount int
	Open       bool
}

func NewCartRes(s *state.State) *CartRes {
	return &CartRes{
		Lines:      s.Cart.Items(),
		Total:      s.CartTotal(),
		ItemsCount: s.CartItemsCount(),
		Open:       s.CartOpen,
	}
}
