package port

import (
	"context"
	"errors"

	"github.com/niksmo/storefront/internal/core/domain"
)

var ErrNotFound = errors.New("not found")

type closer interface {
	Close()
}

type CatalogReader interface {
	ListProducts(context.Context) ([]domain.Product, error)
	ListCategories(context.Context) ([]domain.Category, error)
	ProductByID(ctx context.Context, id string) (domain.Product, error)
	ProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ReviewsByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

type CatalogWriter interface {
	AddProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AddCategory(context.Context, domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, id string, c domain.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CatalogRepository interface {
	CatalogReader
	CatalogWriter
}

// StateStorage is the serialization target of the session state. Load
// returns ErrNotFound for a missing key.
type StateStorage interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

type AuthProvider interface {
	Authenticate(ctx context.Context, email, password string) (domain.User, error)
	Register(ctx context.Context, r domain.Registration) (domain.User, error)
}

// ContactInbox takes messages sent through the contact form.
type ContactInbox interface {
	SubmitContact(context.Context, domain.ContactMessage) (domain.ContactReceipt, error)
}

type OrderPublisher interface {
	PublishOrder(context.Context, domain.Order) error
}

type ActivityEmitter interface {
	EmitActivity(context.Context, domain.Activity) error
}

type OrderProducer interface {
	OrderPublisher
	closer
}

// PopularityReader reports how many units of a product were added to carts.
type PopularityReader interface {
	CartAdds(ctx context.Context, productID string) (int64, error)
}
