package state

import "github.com/DRSN-tech/go-storefront/internal/domain"

// Collection — неизменяемый набор сущностей по ключу с порядком вставки.
// Все операции изменения возвращают новую коллекцию и не трогают исходную.
type Collection[T domain.Keyed] struct {
	order []string
	items map[string]T
}

// NewCollection строит коллекцию из последовательности. Повторный ключ заменяет
// значение, но сохраняет позицию первого вхождения.
func NewCollection[T domain.Keyed](items []T) Collection[T] {
	c := Collection[T]{
		order: make([]string, 0, len(items)),
		items: make(map[string]T, len(items)),
	}

	for _, item := range items {
		key := item.Key()
		if _, ok := c.items[key]; !ok {
			c.order = append(c.order, key)
		}
		c.items[key] = item
	}

	return c
}

func (c Collection[T]) Len() int {
	return len(c.order)
}

func (c Collection[T]) Get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c Collection[T]) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// Items возвращает копию элементов в порядке вставки.
func (c Collection[T]) Items() []T {
	result := make([]T, 0, len(c.order))
	for _, key := range c.order {
		result = append(result, c.items[key])
	}

	return result
}

// Filter возвращает элементы, для которых keep вернул true, в порядке вставки.
func (c Collection[T]) Filter(keep func(T) bool) []T {
	result := make([]T, 0, len(c.order))
	for _, key := range c.order {
		if item := c.items[key]; keep(item) {
			result = append(result, item)
		}
	}

	return result
}

// with добавляет элемент в конец или заменяет существующий на его месте.
func (c Collection[T]) with(item T) Collection[T] {
	next := c.clone(1)
	key := item.Key()
	if _, ok := next.items[key]; !ok {
		next.order = append(next.order, key)
	}
	next.items[key] = item

	return next
}

// without удаляет элемент по ключу. Отсутствующий ключ возвращает копию без изменений.
func (c Collection[T]) without(id string) Collection[T] {
	next := Collection[T]{
		order: make([]string, 0, len(c.order)),
		items: make(map[string]T, len(c.items)),
	}

	for _, key := range c.order {
		if key == id {
			continue
		}
		next.order = append(next.order, key)
		next.items[key] = c.items[key]
	}

	return next
}

func (c Collection[T]) clone(extra int) Collection[T] {
	next := Collection[T]{
		order: make([]string, len(c.order), len(c.order)+extra),
		items: make(map[string]T, len(c.items)+extra),
	}
	copy(next.order, c.order)
	for key, item := range c.items {
		next.items[key] = item
	}

	return next
}
