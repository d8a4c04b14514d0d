package umbraco

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CommerceAPI = (*Commerce)(nil)

// Commerce manages carts as orders on the commerce surface.
type Commerce struct {
	client          transport
	reshaper        Reshaper
	defaultCurrency string
}

func NewCommerce(client transport, reshaper Reshaper, defaultCurrency string) Commerce {
	return Commerce{
		client:          client,
		reshaper:        reshaper,
		defaultCurrency: defaultCurrency,
	}
}

func (c Commerce) CreateOrder(ctx context.Context) (domain.Cart, error) {
	const op = "Commerce.CreateOrder"

	var order Order
	_, err := c.client.Do(ctx, SurfaceCommerce, Request{
		Method:  http.MethodPost,
		Path:    "/orders",
		Cache:   CacheNoStore,
		Payload: createOrderPayload{Currency: c.defaultCurrency},
	}, &order)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return c.reshaper.Order(order), nil
}

// AddOrderLine adds one unit of line.MerchandiseID to the order. The
// upstream accepts a single product per call and always adds quantity 1.
func (c Commerce) AddOrderLine(
	ctx context.Context, orderID string, line domain.CartLineInput,
) (domain.Cart, error) {
	const op = "Commerce.AddOrderLine"

	var order Order
	_, err := c.client.Do(ctx, SurfaceCommerce, Request{
		Method:  http.MethodPost,
		Path:    "/order/" + url.PathEscape(orderID),
		Cache:   CacheNoStore,
		Payload: newOrderLinePayload(line.MerchandiseID),
	}, &order)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return c.reshaper.Order(order), nil
}

// newOrderLinePayload splits a "<product>:<variant>" merchandise id.
func newOrderLinePayload(merchandiseID string) orderLinePayload {
	parts := strings.Split(merchandiseID, ":")
	payload := orderLinePayload{
		ProductReference: parts[0],
		Quantity:         1,
	}
	if len(parts) == 2 {
		payload.ProductVariantReference = &parts[1]
	}
	return payload
}

func (c Commerce) RemoveOrderLine(
	ctx context.Context, orderID, lineID string,
) (domain.Cart, error) {
	const op = "Commerce.RemoveOrderLine"

	var order Order
	_, err := c.client.Do(ctx, SurfaceCommerce, Request{
		Method: http.MethodDelete,
		Path:   "/order/" + url.PathEscape(orderID) + "/item/" + url.PathEscape(lineID),
		Cache:  CacheNoStore,
	}, &order)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return c.reshaper.Order(order), nil
}

func (c Commerce) UpdateOrderLines(
	ctx context.Context, orderID string, lines []domain.CartLineUpdate,
) (domain.Cart, error) {
	const op = "Commerce.UpdateOrderLines"

	payload := make([]orderLineQuantity, len(lines))
	for i, l := range lines {
		payload[i] = orderLineQuantity{ID: l.ID, Quantity: l.Quantity}
	}

	var order Order
	_, err := c.client.Do(ctx, SurfaceCommerce, Request{
		Method:  http.MethodPatch,
		Path:    "/order/" + url.PathEscape(orderID) + "/items",
		Cache:   CacheNoStore,
		Payload: payload,
	}, &order)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	return c.reshaper.Order(order), nil
}

// ReadOrder returns [domain.ErrNotFound] for a missing or finalized order.
func (c Commerce) ReadOrder(ctx context.Context, orderID string) (domain.Cart, error) {
	const op = "Commerce.ReadOrder"

	var order Order
	_, err := c.client.Do(ctx, SurfaceCommerce, Request{
		Method: http.MethodGet,
		Path:   "/order/" + url.PathEscape(orderID),
		Cache:  CacheNoStore,
	}, &order)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("%s: %w", op, err)
	}

	if order.IsFinalized {
		return domain.Cart{}, fmt.Errorf("%s: order is finalized: %w", op, domain.ErrNotFound)
	}

	return c.reshaper.Order(order), nil
}
