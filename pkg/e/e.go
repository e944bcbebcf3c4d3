package e

import "fmt"

var (
	// Ошибки конфигурации
	ErrIncorrectEnvVariable   = fmt.Errorf("incorrect environment variable")
	ErrUnsupportedCacheDriver = fmt.Errorf("unsupported cache driver")

	// Ошибки хранилища состояния
	ErrUnknownAction = fmt.Errorf("unknown action")

	// Ошибки локального кэша
	ErrCacheUnavailable    = fmt.Errorf("cache unavailable")
	ErrUnknownCollection   = fmt.Errorf("unknown collection")
	ErrSchemaTooNew        = fmt.Errorf("cache schema version is newer than supported")
	ErrEmptyID             = fmt.Errorf("entity identifier is empty")
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки удалённого источника
	ErrRemoteUnreachable = fmt.Errorf("remote data source unreachable")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrInvalidQuantity  = fmt.Errorf("purchase quantity must not be negative")
	ErrMissingFields    = fmt.Errorf("missing required fields")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
