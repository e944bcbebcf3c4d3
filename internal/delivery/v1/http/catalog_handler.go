package http

import (
	"net/http"

	"github.com/DRSN-tech/go-storefront/internal/usecase"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// getProducts
//
//	@Summary		Список товаров
//	@Description	Товары текущей категории. При недоступности каталога отдаются данные локального кэша
//	@Tags			products
//	@Produce		json
//	@Success		200	{object}	ProductsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/products [get]
func (c *CatalogHandler) getProducts(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalogUsecase.Products(r.Context())
	if err != nil {
		c.logger.Errorf(err, "get products")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductsResponse(res))
}

// getProduct
//
//	@Summary		Товар по идентификатору
//	@Tags			products
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор товара"
//	@Success		200	{object}	ProductResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/products/{id} [get]
func (c *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	view, err := c.catalogUsecase.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(*view))
}

// getCategories
//
//	@Summary		Список категорий
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/categories [get]
func (c *CatalogHandler) getCategories(w http.ResponseWriter, r *http.Request) {
	res, err := c.catalogUsecase.Categories(r.Context())
	if err != nil {
		c.logger.Errorf(err, "get categories")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCategoriesResponse(res))
}

// selectCategory
//
//	@Summary		Выбор категории
//	@Description	Пустой id снимает фильтр
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectCategoryRequest	true	"Категория"
//	@Success		200		{object}	CategoriesResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/categories/current [put]
func (c *CatalogHandler) selectCategory(w http.ResponseWriter, r *http.Request) {
	var req SelectCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.logger.Warnf("%d %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	if err := c.catalogUsecase.SelectCategory(r.Context(), req.ID); err != nil {
		c.logger.Errorf(err, "select category")
		WriteError(w, err)
		return
	}

	c.getCategories(w, r)
}

// getSyncStatus
//
//	@Summary		Состояние загрузки коллекций
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	SyncStatusResponse
//	@Router			/sync/status [get]
func (c *CatalogHandler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toSyncStatusResponse(c.catalogUsecase.Status()))
}
