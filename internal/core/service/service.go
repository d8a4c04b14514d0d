package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CartManager = (*Service)(nil)
var _ port.CatalogReader = (*Service)(nil)
var _ port.ContentReader = (*Service)(nil)
var _ port.Revalidator = (*Service)(nil)

// Webhook topics mapped to the cache tag they invalidate.
var topicTags = map[string]string{
	"collections/create": domain.TagCollections,
	"collections/update": domain.TagCollections,
	"collections/delete": domain.TagCollections,
	"products/create":    domain.TagProducts,
	"products/update":    domain.TagProducts,
	"products/delete":    domain.TagProducts,
}

type Service struct {
	commerce           port.CommerceAPI
	content            port.ContentAPI
	invalidator        port.TagInvalidator
	revalidationSecret string
}

func New(
	commerce port.CommerceAPI,
	content port.ContentAPI,
	invalidator port.TagInvalidator,
	revalidationSecret string,
) Service {
	return Service{
		commerce,
		content,
		invalidator,
		revalidationSecret,
	}
}

func (s Service) CreateCart(ctx context.Context) (domain.Cart, error) {
	const op = "Service.CreateCart"

	if err := ctx.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := s.commerce.CreateOrder(ctx)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func (s Service) AddToCart(
	ctx context.Context, cartID string, line domain.CartLineInput,
) (domain.Cart, error) {
	const op = "Service.AddToCart"

	if cartID == "" || line.MerchandiseID == "" {
		return domain.Cart{}, fmt.Errorf(
			"%s: cart and merchandise ids are required: %w", op, domain.ErrInvalidInput,
		)
	}

	if line.Quantity > 1 {
		slog.With("op", op).Debug(
			"quantity is not forwarded upstream", "requested", line.Quantity,
		)
	}

	cart, err := s.commerce.AddOrderLine(ctx, cartID, line)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func (s Service) RemoveFromCart(ctx context.Context, cartID, lineID string) (domain.Cart, error) {
	const op = "Service.RemoveFromCart"

	if cartID == "" || lineID == "" {
		return domain.Cart{}, fmt.Errorf(
			"%s: cart and line ids are required: %w", op, domain.ErrInvalidInput,
		)
	}

	cart, err := s.commerce.RemoveOrderLine(ctx, cartID, lineID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func (s Service) UpdateCart(
	ctx context.Context, cartID string, lines []domain.CartLineUpdate,
) (domain.Cart, error) {
	const op = "Service.UpdateCart"

	if err := validateLineUpdates(cartID, lines); err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	cart, err := s.commerce.UpdateOrderLines(ctx, cartID, lines)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func validateLineUpdates(cartID string, lines []domain.CartLineUpdate) error {
	if cartID == "" {
		return fmt.Errorf("cart id is required: %w", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return fmt.Errorf("no lines to update: %w", domain.ErrInvalidInput)
	}
	for i, l := range lines {
		if l.ID == "" {
			return fmt.Errorf("line %d: id is required: %w", i, domain.ErrInvalidInput)
		}
		if l.Quantity < 0 {
			return fmt.Errorf("line %d: negative quantity: %w", i, domain.ErrInvalidInput)
		}
	}
	return nil
}

// GetCart returns [domain.ErrNotFound] once the order behind cartID is
// finalized.
func (s Service) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	const op = "Service.GetCart"

	if cartID == "" {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	cart, err := s.commerce.ReadOrder(ctx, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}
	return cart, nil
}

func (s Service) GetProduct(ctx context.Context, handle string) (domain.Product, error) {
	const op = "Service.GetProduct"

	if handle == "" {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	p, err := s.content.ReadProduct(ctx, handle)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) GetProducts(ctx context.Context, pq domain.ProductQuery) ([]domain.Product, error) {
	const op = "Service.GetProducts"

	if !knownSortKey(pq.SortKey) {
		return nil, fmt.Errorf("%s: sort key %q: %w", op, pq.SortKey, domain.ErrInvalidInput)
	}

	ps, err := s.content.ListProducts(ctx, pq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) GetProductRecommendations(ctx context.Context, productID string) ([]domain.Product, error) {
	const op = "Service.GetProductRecommendations"

	ps, err := s.content.ListRelatedProducts(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) GetCollection(ctx context.Context, handle string) (domain.Collection, error) {
	const op = "Service.GetCollection"

	c, err := s.content.ReadCollection(ctx, handle)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s Service) GetCollections(ctx context.Context) ([]domain.Collection, error) {
	const op = "Service.GetCollections"

	cs, err := s.content.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (s Service) GetCollectionProducts(
	ctx context.Context, q domain.CollectionProductsQuery,
) ([]domain.Product, error) {
	const op = "Service.GetCollectionProducts"

	if !knownSortKey(q.SortKey) {
		return nil, fmt.Errorf("%s: sort key %q: %w", op, q.SortKey, domain.ErrInvalidInput)
	}

	ps, err := s.content.ListCollectionProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func knownSortKey(key string) bool {
	if key == "" {
		return true
	}
	for _, s := range domain.Sorting {
		if s.SortKey == key {
			return true
		}
	}
	return false
}

func (s Service) GetPage(ctx context.Context, handle string) (domain.Page, error) {
	const op = "Service.GetPage"

	p, err := s.content.ReadPage(ctx, handle)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s Service) GetPages(ctx context.Context) ([]domain.Page, error) {
	const op = "Service.GetPages"

	ps, err := s.content.ListPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) GetMenu(ctx context.Context, handle string) ([]domain.Menu, error) {
	const op = "Service.GetMenu"

	m, err := s.content.ReadMenu(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// Revalidate invalidates the cache tag bound to a webhook topic.
//
// A wrong secret is not an error: the webhook sender retries on failures,
// so the caller answers with success and nothing is invalidated.
func (s Service) Revalidate(ctx context.Context, topic, secret string) (bool, error) {
	const op = "Service.Revalidate"
	log := slog.With("op", op, "topic", topic)

	if !s.secretMatches(secret) {
		log.Error("invalid revalidation secret")
		return false, nil
	}

	tag, ok := topicTags[topic]
	if !ok {
		log.Debug("topic ignored")
		return false, nil
	}

	if err := s.invalidator.InvalidateTag(ctx, tag, topic); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("revalidated", "tag", tag)
	return true, nil
}

func (s Service) secretMatches(secret string) bool {
	if s.revalidationSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.revalidationSecret)) == 1
}
