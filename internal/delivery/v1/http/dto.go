package http

import "github.com/DRSN-tech/go-storefront/internal/usecase"

type ProductResponse struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	Image       string `json:"image,omitempty"`
	CategoryID  string `json:"category_id,omitempty"`
}

type ProductsResponse struct {
	Products        []ProductResponse `json:"products"`
	CurrentCategory string            `json:"current_category"`
}

type CategoryResponse struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type CategoriesResponse struct {
	Categories      []CategoryResponse `json:"categories"`
	CurrentCategory string             `json:"current_category"`
}

type CartLineResponse struct {
	ID               string `json:"_id"`
	Name             string `json:"name"`
	Price            string `json:"price"`
	Image            string `json:"image,omitempty"`
	PurchaseQuantity int    `json:"purchase_quantity"`
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	Total      string             `json:"total"`
	ItemsCount int                `json:"items_count"`
	Open       bool               `json:"open"`
}

type SyncStatusResponse struct {
	Products   string `json:"products"`
	Categories string `json:"categories"`
	Cart       string `json:"cart"`
}

type SelectCategoryRequest struct {
	ID string `json:"id"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequest struct {
	PurchaseQuantity *int `json:"purchase_quantity"`
}

func toProductResponse(v usecase.ProductView) ProductResponse {
	return ProductResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Price:       v.Price.StringFixed(2),
		Image:       v.ImageURL,
		CategoryID:  v.Category.ID,
	}
}

func toProductsResponse(res *usecase.ProductsRes) ProductsResponse {
	products := make([]ProductResponse, 0, len(res.Products))
	for _, v := range res.Products {
		products = append(products, toProductResponse(v))
	}

	return ProductsResponse{Products: products, CurrentCategory: res.CurrentCategory}
}

func toCategoriesResponse(res *usecase.CategoriesRes) CategoriesResponse {
	categories := make([]CategoryResponse, 0, len(res.Categories))
	for _, c := range res.Categories {
		categories = append(categories, CategoryResponse{ID: c.ID, Name: c.Name})
	}

	return CategoriesResponse{Categories: categories, CurrentCategory: res.CurrentCategory}
}

func toCartResponse(res *usecase.CartRes) CartResponse {
	items := make([]CartLineResponse, 0, len(res.Lines))
	for _, l := range res.Lines {
		items = append(items, CartLineResponse{
			ID:               l.ID,
			Name:             l.Name,
			Price:            l.Price.StringFixed(2),
			Image:            l.Image,
			PurchaseQuantity: l.PurchaseQuantity,
		})
	}

	return CartResponse{
		Items:      items,
		Total:      res.Total.StringFixed(2),
		ItemsCount: res.ItemsCount,
		Open:       res.Open,
	}
}

func toSyncStatusResponse(s usecase.SyncStatus) SyncStatusResponse {
	return SyncStatusResponse{
		Products:   string(s.Products),
		Categories: string(s.Categories),
		Cart:       string(s.Cart),
	}
}
