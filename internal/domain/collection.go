package domain

// CollectionName — имя одной из трёх управляемых коллекций.
type CollectionName string

const (
	CollectionProducts   CollectionName = "products"
	CollectionCategories CollectionName = "categories"
	CollectionCart       CollectionName = "cart"
)

// Collections перечисляет все коллекции в порядке создания при обновлении схемы.
var Collections = []CollectionName{CollectionProducts, CollectionCategories, CollectionCart}

func (c CollectionName) Valid() bool {
	switch c {
	case CollectionProducts, CollectionCategories, CollectionCart:
		return true
	default:
		return false
	}
}

func (c CollectionName) String() string {
	return string(c)
}

// Keyed — сущность, хранимая в коллекции по уникальному идентификатору.
type Keyed interface {
	Key() string
}
