package http

import (
	"net/http"

	"github.com/DRSN-tech/go-storefront/internal/usecase"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

// getCart
//
//	@Summary		Корзина
//	@Description	При первом обращении корзина восстанавливается из локального кэша
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/cart [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	res, err := c.cartUsecase.Cart(r.Context())
	c.write(w, http.StatusOK, res, err)
}

// addItem
//
//	@Summary		Добавить товар в корзину
//	@Description	Повторное добавление увеличивает количество на единицу
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddToCartRequest	true	"Товар"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/cart/items [post]
func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.write(w, http.StatusOK, nil, err)
		return
	}
	if req.ProductID == "" {
		c.write(w, http.StatusOK, nil, e.Wrap("product_id", e.ErrMissingFields))
		return
	}

	res, err := c.cartUsecase.AddProduct(r.Context(), req.ProductID)
	c.write(w, http.StatusOK, res, err)
}

// updateItem
//
//	@Summary		Изменить количество
//	@Description	Количество 0 удаляет строку
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Идентификатор товара"
//	@Param			request	body		UpdateQuantityRequest	true	"Количество"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/cart/items/{id} [patch]
func (c *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.write(w, http.StatusOK, nil, err)
		return
	}
	if req.PurchaseQuantity == nil {
		c.write(w, http.StatusOK, nil, e.Wrap("purchase_quantity", e.ErrMissingFields))
		return
	}

	res, err := c.cartUsecase.SetQuantity(r.Context(), chi.URLParam(r, "id"), *req.PurchaseQuantity)
	c.write(w, http.StatusOK, res, err)
}

// removeItem
//
//	@Summary		Удалить строку корзины
//	@Tags			cart
//	@Produce		json
//	@Param			id	path		string	true	"Идентификатор товара"
//	@Success		200	{object}	CartResponse
//	@Router			/cart/items/{id} [delete]
func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	res, err := c.cartUsecase.Remove(r.Context(), chi.URLParam(r, "id"))
	c.write(w, http.StatusOK, res, err)
}

// toggle
//
//	@Summary		Открыть или закрыть корзину
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Router			/cart/toggle [post]
func (c *CartHandler) toggle(w http.ResponseWriter, r *http.Request) {
	res, err := c.cartUsecase.Toggle(r.Context())
	c.write(w, http.StatusOK, res, err)
}

func (c *CartHandler) write(w http.ResponseWriter, status int, res *usecase.CartRes, err error) {
	if err != nil {
		code, _ := ToHTTPResponse(err)
		if code >= http.StatusInternalServerError {
			c.logger.Errorf(err, "cart request failed")
		} else {
			c.logger.Warnf("%d %s", code, err.Error())
		}
		WriteError(w, err)
		return
	}

	WriteSuccess(w, status, toCartResponse(res))
}
