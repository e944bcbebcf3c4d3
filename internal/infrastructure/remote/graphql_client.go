package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DRSN-tech/go-storefront/internal/cfg"
	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/repository/converter"
	"github.com/DRSN-tech/go-storefront/pkg/e"
)

const (
	queryProducts = `query products {
  products {
    _id
    name
    description
    price
    image
    category {
      _id
    }
  }
}`

	queryCategories = `query categories {
  categories {
    _id
    name
  }
}`

	maxErrorBody = 512
)

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type productsData struct {
	Products []converter.ProductModel `json:"products"`
}

type categoriesData struct {
	Categories []converter.CategoryModel `json:"categories"`
}

// GraphQLClient запрашивает каталог у удалённого GraphQL-сервера.
// Любая ошибка транспорта или ответа возвращается как e.ErrRemoteUnreachable. Повторов нет.
type GraphQLClient struct {
	httpClient *http.Client
	cfg        *cfg.RemoteCfg
}

func NewGraphQLClient(httpClient *http.Client, cfg *cfg.RemoteCfg) *GraphQLClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &GraphQLClient{httpClient: httpClient, cfg: cfg}
}

func (c *GraphQLClient) Products(ctx context.Context) ([]domain.Product, error) {
	const op = "GraphQLClient.Products"

	data, err := query[productsData](ctx, c, queryProducts)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("%s: %v", op, err), e.ErrRemoteUnreachable)
	}

	products := make([]domain.Product, 0, len(data.Products))
	for _, model := range data.Products {
		products = append(products, converter.ProductToEntity(model))
	}

	return products, nil
}

func (c *GraphQLClient) Categories(ctx context.Context) ([]domain.Category, error) {
	const op = "GraphQLClient.Categories"

	data, err := query[categoriesData](ctx, c, queryCategories)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("%s: %v", op, err), e.ErrRemoteUnreachable)
	}

	categories := make([]domain.Category, 0, len(data.Categories))
	for _, model := range data.Categories {
		categories = append(categories, converter.CategoryToEntity(model))
	}

	return categories, nil
}

func query[T any](ctx context.Context, c *GraphQLClient, q string) (*T, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(graphqlRequest{Query: q})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded graphqlResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, ge := range decoded.Errors {
			messages = append(messages, ge.Message)
		}
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	if decoded.Data == nil {
		return nil, fmt.Errorf("empty data in response")
	}

	return decoded.Data, nil
}
