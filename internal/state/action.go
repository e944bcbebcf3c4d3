package state

import "github.com/DRSN-tech/go-storefront/internal/domain"

// ActionType — имя действия в словаре мутаций.
type ActionType string

const (
	ActionUpdateProducts        ActionType = "UPDATE_PRODUCTS"
	ActionUpdateCategories      ActionType = "UPDATE_CATEGORIES"
	ActionUpdateCurrentCategory ActionType = "UPDATE_CURRENT_CATEGORY"
	ActionAddToCart             ActionType = "ADD_TO_CART"
	ActionAddMultipleToCart     ActionType = "ADD_MULTIPLE_TO_CART"
	ActionUpdateCartQuantity    ActionType = "UPDATE_CART_QUANTITY"
	ActionRemoveFromCart        ActionType = "REMOVE_FROM_CART"
	ActionToggleCart            ActionType = "TOGGLE_CART"
)

// Action — команда для редьюсера. Распознаются только типы-значения из этого файла.
type Action interface {
	Type() ActionType
}

// UpdateProducts заменяет коллекцию товаров целиком.
type UpdateProducts struct {
	Products []domain.Product
}

// UpdateCategories заменяет коллекцию категорий целиком.
type UpdateCategories struct {
	Categories []domain.Category
}

// UpdateCurrentCategory задаёт фильтр категории. Пустой CategoryID снимает фильтр.
type UpdateCurrentCategory struct {
	CategoryID string
}

// AddToCart добавляет новую строку и открывает корзину. Quantity < 1 означает 1.
type AddToCart struct {
	Product  domain.Product
	Quantity int
}

// AddMultipleToCart заменяет корзину целиком, используется при загрузке из кэша.
type AddMultipleToCart struct {
	Lines []domain.CartLine
}

// UpdateCartQuantity задаёт количество существующей строки. Количество должно быть положительным.
type UpdateCartQuantity struct {
	ID               string
	PurchaseQuantity int
}

// RemoveFromCart удаляет строку; опустевшая корзина закрывается.
type RemoveFromCart struct {
	ID string
}

// ToggleCart переключает флаг открытой корзины.
type ToggleCart struct{}

func (UpdateProducts) Type() ActionType        { return ActionUpdateProducts }
func (UpdateCategories) Type() ActionType      { return ActionUpdateCategories }
func (UpdateCurrentCategory) Type() ActionType { return ActionUpdateCurrentCategory }
func (AddToCart) Type() ActionType             { return ActionAddToCart }
func (AddMultipleToCart) Type() ActionType     { return ActionAddMultipleToCart }
func (UpdateCartQuantity) Type() ActionType    { return ActionUpdateCartQuantity }
func (RemoveFromCart) Type() ActionType        { return ActionRemoveFromCart }
func (ToggleCart) Type() ActionType            { return ActionToggleCart }
