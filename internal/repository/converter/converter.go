package converter

import (
	"encoding/json"

	"github.com/DRSN-tech/go-storefront/internal/domain"
)

func ProductToModel(p domain.Product) ProductModel {
	return ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    CategoryRefModel{ID: p.Category.ID},
	}
}

func ProductToEntity(m ProductModel) domain.Product {
	return domain.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Image:       m.Image,
		Category:    domain.CategoryRef{ID: m.Category.ID},
	}
}

func CategoryToModel(c domain.Category) CategoryModel {
	return CategoryModel{ID: c.ID, Name: c.Name}
}

func CategoryToEntity(m CategoryModel) domain.Category {
	return domain.Category{ID: m.ID, Name: m.Name}
}

func CartLineToModel(l domain.CartLine) CartLineModel {
	return CartLineModel{
		ID:               l.ID,
		PurchaseQuantity: l.PurchaseQuantity,
		Name:             l.Name,
		Price:            l.Price,
		Image:            l.Image,
	}
}

func CartLineToEntity(m CartLineModel) domain.CartLine {
	return domain.CartLine{
		ID:               m.ID,
		PurchaseQuantity: m.PurchaseQuantity,
		Name:             m.Name,
		Price:            m.Price,
		Image:            m.Image,
	}
}

// Marshal сериализует модель записи в JSON для хранения в движке кэша.
func Marshal[M any](model M) ([]byte, error) {
	return json.Marshal(model)
}

// Unmarshal десериализует JSON записи из движка кэша.
func Unmarshal[M any](data []byte) (M, error) {
	var model M
	err := json.Unmarshal(data, &model)
	return model, err
}
