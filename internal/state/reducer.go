package state

import (
	"fmt"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/pkg/e"
)

// Reduce — чистая функция перехода состояния. Входное состояние не изменяется.
// Нарушенное предусловие (например, количество для отсутствующей строки) не является
// ошибкой: возвращается тот же указатель s. Неизвестное действие возвращает e.ErrUnknownAction.
func Reduce(s *State, action Action) (*State, error) {
	switch a := action.(type) {
	case UpdateProducts:
		next := s.clone()
		next.Products = NewCollection(a.Products)
		return next, nil

	case UpdateCategories:
		next := s.clone()
		next.Categories = NewCollection(a.Categories)
		return next, nil

	case UpdateCurrentCategory:
		if s.CurrentCategory == a.CategoryID {
			return s, nil
		}
		next := s.clone()
		next.CurrentCategory = a.CategoryID
		return next, nil

	case AddToCart:
		return addToCart(s, a), nil

	case AddMultipleToCart:
		return addMultipleToCart(s, a), nil

	case UpdateCartQuantity:
		return updateCartQuantity(s, a), nil

	case RemoveFromCart:
		return removeFromCart(s, a), nil

	case ToggleCart:
		next := s.clone()
		next.CartOpen = !s.CartOpen
		return next, nil

	default:
		return s, e.Wrap(fmt.Sprintf("reduce %T", action), e.ErrUnknownAction)
	}
}

func addToCart(s *State, a AddToCart) *State {
	if a.Product.ID == "" || s.Cart.Has(a.Product.ID) {
		return s
	}

	quantity := a.Quantity
	if quantity < 1 {
		quantity = 1
	}

	next := s.clone()
	next.Cart = s.Cart.with(domain.NewCartLine(a.Product, quantity))
	next.CartOpen = true
	return next
}

// addMultipleToCart отбрасывает строки без идентификатора и с неположительным количеством,
// чтобы в состоянии не появилось нулевых строк.
func addMultipleToCart(s *State, a AddMultipleToCart) *State {
	lines := make([]domain.CartLine, 0, len(a.Lines))
	for _, line := range a.Lines {
		if line.ID == "" || line.PurchaseQuantity < 1 {
			continue
		}
		lines = append(lines, line)
	}

	next := s.clone()
	next.Cart = NewCollection(lines)
	return next
}

func updateCartQuantity(s *State, a UpdateCartQuantity) *State {
	line, ok := s.Cart.Get(a.ID)
	if !ok || a.PurchaseQuantity < 1 || line.PurchaseQuantity == a.PurchaseQuantity {
		return s
	}

	next := s.clone()
	next.Cart = s.Cart.with(line.WithQuantity(a.PurchaseQuantity))
	return next
}

func removeFromCart(s *State, a RemoveFromCart) *State {
	if !s.Cart.Has(a.ID) {
		return s
	}

	next := s.clone()
	next.Cart = s.Cart.without(a.ID)
	if next.Cart.Len() == 0 {
		next.CartOpen = false
	}
	return next
}
