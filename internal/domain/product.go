package domain

import "github.com/shopspring/decimal"

// CategoryRef — ссылка товара на категорию.
type CategoryRef struct {
	ID string
}

// Product описывает товар каталога. После получения из источника не меняется,
// только появляется или исчезает целиком.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // неотрицательная цена
	Image       string          // ссылка на изображение (ключ объекта)
	Category    CategoryRef
}

func (p Product) Key() string {
	return p.ID
}

// InCategory сообщает, относится ли товар к категории. Пустой id означает отсутствие фильтра.
func (p Product) InCategory(categoryID string) bool {
	return categoryID == "" || p.Category.ID == categoryID
}
