package umbraco

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ContentAPI = (*Content)(nil)

// Menu handles look like "next-js-frontend-header-menu".
const (
	menuHandlePrefix = "next-js-frontend-"
	menuHandleSuffix = "-menu"
)

// Content reads catalog and page nodes from the delivery surface.
type Content struct {
	client   transport
	reshaper Reshaper
}

func NewContent(client transport, reshaper Reshaper) Content {
	return Content{client: client, reshaper: reshaper}
}

func startItem(item string) http.Header {
	if item == "" {
		return nil
	}
	return http.Header{"Start-Item": {item}}
}

func (c Content) readNode(
	ctx context.Context, handle, start string, query url.Values, tags ...string,
) (*Node, error) {
	var n Node
	_, err := c.client.Do(ctx, SurfaceContent, Request{
		Method: http.MethodGet,
		Path:   "/content/item/" + url.PathEscape(handle),
		Header: startItem(start),
		Query:  query,
		Tags:   tags,
	}, &n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (c Content) listNodes(
	ctx context.Context, query url.Values, tags ...string,
) (PagedResult[Node], error) {
	var res PagedResult[Node]
	_, err := c.client.Do(ctx, SurfaceContent, Request{
		Method: http.MethodGet,
		Path:   "/content",
		Query:  query,
		Tags:   tags,
	}, &res)
	return res, err
}

func (c Content) ReadProduct(ctx context.Context, handle string) (domain.Product, error) {
	const op = "Content.ReadProduct"

	n, err := c.readNode(ctx, handle, "products",
		url.Values{"expand": {"property:variants"}}, domain.TagProducts,
	)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := c.reshaper.Product(n, true)
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return p, nil
}

func (c Content) ListProducts(ctx context.Context, pq domain.ProductQuery) ([]domain.Product, error) {
	const op = "Content.ListProducts"

	res, err := c.listNodes(ctx, ProductsQuery(pq), domain.TagProducts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.reshaper.Products(res.Items), nil
}

// ListRelatedProducts lists products sharing a tag with productID, without
// productID itself. An absent or untagged product has no relations.
func (c Content) ListRelatedProducts(ctx context.Context, productID string) ([]domain.Product, error) {
	const op = "Content.ListRelatedProducts"
	log := slog.With("op", op)

	n, err := c.readNode(ctx, productID, "products", nil, domain.TagProducts)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn("product not found", "productID", productID)
			return []domain.Product{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, _ := n.Properties.Strings("tags")
	if len(tags) == 0 {
		return []domain.Product{}, nil
	}

	res, err := c.listNodes(ctx, RelatedProductsQuery(tags), domain.TagProducts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	others := make([]Node, 0, len(res.Items))
	for _, item := range res.Items {
		if item.ID != productID {
			others = append(others, item)
		}
	}
	return c.reshaper.Products(others), nil
}

func (c Content) ReadCollection(ctx context.Context, handle string) (domain.Collection, error) {
	const op = "Content.ReadCollection"

	n, err := c.readNode(ctx, handle, "collections", nil, domain.TagCollections)
	if err != nil {
		return domain.Collection{}, fmt.Errorf("%s: %w", op, err)
	}

	col, ok := c.reshaper.Collection(n)
	if !ok {
		return domain.Collection{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return col, nil
}

// ListCollections returns the synthetic "All" collection followed by every
// collection not hidden by its handle.
func (c Content) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	const op = "Content.ListCollections"

	res, err := c.listNodes(ctx, childrenQuery("collections"), domain.TagCollections)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	visible := VisibleCollections(c.reshaper.Collections(res.Items))
	collections := make([]domain.Collection, 0, len(visible)+1)
	collections = append(collections, c.reshaper.AllCollection())
	return append(collections, visible...), nil
}

// ListCollectionProducts reads the collection first to learn its type and
// then lists the products matching it. Unknown types yield no products.
func (c Content) ListCollectionProducts(
	ctx context.Context, q domain.CollectionProductsQuery,
) ([]domain.Product, error) {
	const op = "Content.ListCollectionProducts"
	log := slog.With("op", op, "collection", q.Collection)

	n, err := c.readNode(ctx, q.Collection, "collections", nil,
		domain.TagCollections, domain.TagProducts,
	)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		n = nil
	}

	query, err := CollectionProductsQuery(n, q.SortKey, q.Reverse)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCollectionType):
			log.Warn("unknown collection type", "err", err)
		case errors.Is(err, ErrEmptyCollection):
			log.Info("collection has no members")
		}
		return []domain.Product{}, nil
	}

	res, err := c.listNodes(ctx, query, domain.TagCollections, domain.TagProducts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if res.Items == nil {
		log.Warn("no products listed for collection")
		return []domain.Product{}, nil
	}
	return c.reshaper.Products(res.Items), nil
}

func (c Content) ReadPage(ctx context.Context, handle string) (domain.Page, error) {
	const op = "Content.ReadPage"

	n, err := c.readNode(ctx, handle, "pages", nil, domain.TagPages)
	if err != nil {
		return domain.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	page, ok := c.reshaper.Page(n)
	if !ok {
		return domain.Page{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return page, nil
}

// ListPages lists the pages not hidden from navigation.
func (c Content) ListPages(ctx context.Context) ([]domain.Page, error) {
	const op = "Content.ListPages"

	res, err := c.listNodes(ctx, childrenQuery("pages"), domain.TagPages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	visible := make([]Node, 0, len(res.Items))
	for _, n := range res.Items {
		if !n.Properties.Hidden() {
			visible = append(visible, n)
		}
	}
	return c.reshaper.Pages(visible), nil
}

// ReadMenu reads the "<name>Menu" link list from the pages root node.
func (c Content) ReadMenu(ctx context.Context, handle string) ([]domain.Menu, error) {
	const op = "Content.ReadMenu"

	root, err := c.readNode(ctx, "pages", "", nil,
		domain.TagCollections, domain.TagProducts, domain.TagPages,
	)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Menu{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	links, _ := root.Properties.Links(menuPropertyAlias(handle))
	menu := make([]domain.Menu, len(links))
	for i, l := range links {
		menu[i] = menuItem(l)
	}
	return menu, nil
}

func menuPropertyAlias(handle string) string {
	name := strings.TrimPrefix(handle, menuHandlePrefix)
	name = strings.TrimSuffix(name, menuHandleSuffix)
	return name + "Menu"
}

// menuItem points internal links to collections into the search path.
func menuItem(l Link) domain.Menu {
	path := l.URL
	if l.LinkType != "External" {
		path = ""
		if l.Route != nil {
			path = l.Route.Path
		}
	}

	isCollection := l.LinkType == "Content" &&
		strings.HasSuffix(strings.ToLower(l.DestinationType), "collection")

	prefix := "/"
	if isCollection {
		prefix = "/search/"
	}
	return domain.Menu{Title: l.Title, Path: prefix + lastSegment(path)}
}
