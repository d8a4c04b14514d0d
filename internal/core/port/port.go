package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Inbound ports.

type CartManager interface {
	CreateCart(context.Context) (domain.Cart, error)
	AddToCart(ctx context.Context, cartID string, line domain.CartLineInput) (domain.Cart, error)
	RemoveFromCart(ctx context.Context, cartID, lineID string) (domain.Cart, error)
	UpdateCart(ctx context.Context, cartID string, lines []domain.CartLineUpdate) (domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (domain.Cart, error)
}

type CatalogReader interface {
	GetProduct(ctx context.Context, handle string) (domain.Product, error)
	GetProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error)
	GetCollection(ctx context.Context, handle string) (domain.Collection, error)
	GetCollections(context.Context) ([]domain.Collection, error)
	GetCollectionProducts(context.Context, domain.CollectionProductsQuery) ([]domain.Product, error)
}

type ContentReader interface {
	GetPage(ctx context.Context, handle string) (domain.Page, error)
	GetPages(context.Context) ([]domain.Page, error)
	GetMenu(ctx context.Context, handle string) ([]domain.Menu, error)
}

type Revalidator interface {
	Revalidate(ctx context.Context, topic, secret string) (bool, error)
}

// Outbound ports.

// CommerceAPI manages orders on the upstream commerce surface.
type CommerceAPI interface {
	CreateOrder(context.Context) (domain.Cart, error)
	AddOrderLine(ctx context.Context, orderID string, line domain.CartLineInput) (domain.Cart, error)
	RemoveOrderLine(ctx context.Context, orderID, lineID string) (domain.Cart, error)
	UpdateOrderLines(ctx context.Context, orderID string, lines []domain.CartLineUpdate) (domain.Cart, error)
	ReadOrder(ctx context.Context, orderID string) (domain.Cart, error)
}

// ContentAPI reads content nodes from the upstream delivery surface.
type ContentAPI interface {
	ReadProduct(ctx context.Context, handle string) (domain.Product, error)
	ListProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	ListRelatedProducts(ctx context.Context, productID string) ([]domain.Product, error)
	ReadCollection(ctx context.Context, handle string) (domain.Collection, error)
	ListCollections(context.Context) ([]domain.Collection, error)
	ListCollectionProducts(context.Context, domain.CollectionProductsQuery) ([]domain.Product, error)
	ReadPage(ctx context.Context, handle string) (domain.Page, error)
	ListPages(context.Context) ([]domain.Page, error)
	ReadMenu(ctx context.Context, handle string) ([]domain.Menu, error)
}

// TagInvalidator marks cached upstream responses carrying tag as stale.
type TagInvalidator interface {
	InvalidateTag(ctx context.Context, tag, topic string) error
}
