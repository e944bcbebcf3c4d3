package domain

// Category описывает категорию товара
type Category struct {
	ID   string
	Name string
}

func (c Category) Key() string {
	return c.ID
}
