package umbraco

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport answers requests keyed by "METHOD path" with canned JSON.
type fakeTransport struct {
	responses map[string]string
	errs      map[string]error
	requests  []Request
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		responses: make(map[string]string),
		errs:      make(map[string]error),
	}
}

func (f *fakeTransport) on(method, path, body string) {
	f.responses[method+" "+path] = body
}

func (f *fakeTransport) fail(method, path string, err error) {
	f.errs[method+" "+path] = err
}

func (f *fakeTransport) Do(_ context.Context, _ Surface, req Request, out any) (int, error) {
	f.requests = append(f.requests, req)
	key := req.Method + " " + req.Path
	if err, ok := f.errs[key]; ok {
		return 0, err
	}
	body, ok := f.responses[key]
	if !ok {
		return 404, fmt.Errorf("fake: %s: %w", key, domain.ErrNotFound)
	}
	return 200, json.Unmarshal([]byte(body), out)
}

func newTestContent(f *fakeTransport) Content {
	return NewContent(f, testReshaper())
}

func TestContentReadProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("Visible", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/mug", baseOnlyProduct)

		p, err := newTestContent(f).ReadProduct(ctx, "mug")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)

		require.Len(t, f.requests, 1)
		req := f.requests[0]
		assert.Equal(t, "products", req.Header.Get("Start-Item"))
		assert.Equal(t, "property:variants", req.Query.Get("expand"))
		assert.Equal(t, []string{domain.TagProducts}, req.Tags)
	})

	t.Run("Hidden", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/secret", `{"id": "s", "properties": {"umbracoNaviHide": true}}`)

		_, err := newTestContent(f).ReadProduct(ctx, "secret")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Absent", func(t *testing.T) {
		_, err := newTestContent(newFakeTransport()).ReadProduct(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestContentListProducts(t *testing.T) {
	f := newFakeTransport()
	f.on("GET", "/content", `{"total": 3, "items": [
		{"id": "a", "properties": {}},
		{"id": "b", "properties": {"umbracoNaviHide": true}},
		{"id": "c", "properties": {}}
	]}`)

	products, err := newTestContent(f).ListProducts(context.Background(), domain.ProductQuery{
		Query: "shirt", SortKey: domain.SortPrice,
	})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a", products[0].ID)
	assert.Equal(t, "c", products[1].ID)

	q := f.requests[0].Query
	assert.Equal(t, "name:shirt", q.Get("filter"))
	assert.Equal(t, "price:asc", q.Get("sort"))
}

func TestContentListRelatedProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("ExcludesSelf", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/p1", `{"id": "p1", "properties": {"tags": ["kitchen"]}}`)
		f.on("GET", "/content", `{"items": [
			{"id": "p1", "properties": {}},
			{"id": "p7", "properties": {}}
		]}`)

		products, err := newTestContent(f).ListRelatedProducts(ctx, "p1")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "p7", products[0].ID)
		assert.Equal(t, "tag:kitchen", f.requests[1].Query.Get("filter"))
	})

	t.Run("Untagged", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/p1", `{"id": "p1", "properties": {}}`)

		products, err := newTestContent(f).ListRelatedProducts(ctx, "p1")
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Len(t, f.requests, 1)
	})

	t.Run("AbsentProduct", func(t *testing.T) {
		f := newFakeTransport()

		products, err := newTestContent(f).ListRelatedProducts(ctx, "gone")
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		f := newFakeTransport()
		f.fail("GET", "/content/item/p1", &domain.TransportError{Err: errors.New("dial")})

		_, err := newTestContent(f).ListRelatedProducts(ctx, "p1")
		var transportErr *domain.TransportError
		assert.ErrorAs(t, err, &transportErr)
	})
}

func TestContentListCollections(t *testing.T) {
	f := newFakeTransport()
	f.on("GET", "/content", `{"items": [
		{"id": "1", "name": "Summer", "route": {"path": "/collections/summer/"}, "properties": {}},
		{"id": "2", "name": "Home", "route": {"path": "/collections/hidden-homepage/"}, "properties": {}}
	]}`)

	collections, err := newTestContent(f).ListCollections(context.Background())
	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, "All", collections[0].Title)
	assert.Equal(t, "/search", collections[0].Path)
	assert.Equal(t, "summer", collections[1].Handle)
	assert.Equal(t, "children:collections", f.requests[0].Query.Get("fetch"))
}

func TestContentListCollectionProducts(t *testing.T) {
	ctx := context.Background()
	q := domain.CollectionProductsQuery{Collection: "summer", SortKey: domain.SortCreateDate, Reverse: true}

	t.Run("Manual", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/summer", `{"id": "c", "contentType": "manualCollection", "properties": {
			"products": [{"id": "a"}, {"id": "b"}]
		}}`)
		f.on("GET", "/content", `{"items": [{"id": "a", "properties": {}}, {"id": "b", "properties": {}}]}`)

		products, err := newTestContent(f).ListCollectionProducts(ctx, q)
		require.NoError(t, err)
		assert.Len(t, products, 2)

		require.Len(t, f.requests, 2)
		assert.Equal(t, "collections", f.requests[0].Header.Get("Start-Item"))
		assert.Equal(t, "id:a,b", f.requests[1].Query.Get("filter"))
		assert.Equal(t, "createDate:desc", f.requests[1].Query.Get("sort"))
	})

	t.Run("UnknownTypeSkipsProductFetch", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/summer", `{"id": "c", "contentType": "landingPage", "properties": {}}`)

		products, err := newTestContent(f).ListCollectionProducts(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
		assert.Len(t, f.requests, 1)
	})

	t.Run("AbsentCollection", func(t *testing.T) {
		f := newFakeTransport()

		products, err := newTestContent(f).ListCollectionProducts(ctx, q)
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Len(t, f.requests, 1)
	})

	t.Run("NoItems", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/summer", `{"id": "c", "contentType": "tagCollection", "properties": {"tags": ["sun"]}}`)
		f.on("GET", "/content", `{"total": 0}`)

		products, err := newTestContent(f).ListCollectionProducts(ctx, q)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})
}

func TestContentPages(t *testing.T) {
	ctx := context.Background()

	f := newFakeTransport()
	f.on("GET", "/content/item/about", `{"id": "pg", "name": "About", "route": {"path": "/about/"}, "properties": {}}`)
	f.on("GET", "/content", `{"items": [
		{"id": "1", "name": "About", "route": {"path": "/about/"}, "properties": {}},
		{"id": "2", "name": "Draft", "route": {"path": "/draft/"}, "properties": {"umbracoNaviHide": true}}
	]}`)
	c := newTestContent(f)

	page, err := c.ReadPage(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "about", page.Handle)
	assert.Equal(t, "pages", f.requests[0].Header.Get("Start-Item"))

	pages, err := c.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "About", pages[0].Title)

	_, err = c.ReadPage(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContentReadMenu(t *testing.T) {
	ctx := context.Background()

	t.Run("Links", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/pages", `{"id": "root", "properties": {"footerMenu": [
			{"title": "Summer", "linkType": "Content", "destinationType": "tagCollection", "route": {"path": "/collections/summer/"}},
			{"title": "About", "linkType": "Content", "destinationType": "page", "route": {"path": "/pages/about/"}},
			{"title": "Docs", "linkType": "External", "url": "https://docs.example.com/guide"}
		]}}`)

		menu, err := newTestContent(f).ReadMenu(ctx, "next-js-frontend-footer-menu")
		require.NoError(t, err)
		assert.Equal(t, []domain.Menu{
			{Title: "Summer", Path: "/search/summer"},
			{Title: "About", Path: "/about"},
			{Title: "Docs", Path: "/guide"},
		}, menu)

		assert.Nil(t, f.requests[0].Header)
	})

	t.Run("NoSuchMenu", func(t *testing.T) {
		f := newFakeTransport()
		f.on("GET", "/content/item/pages", `{"id": "root", "properties": {}}`)

		menu, err := newTestContent(f).ReadMenu(ctx, "header")
		require.NoError(t, err)
		assert.Empty(t, menu)
	})

	t.Run("AbsentRoot", func(t *testing.T) {
		menu, err := newTestContent(newFakeTransport()).ReadMenu(ctx, "header")
		require.NoError(t, err)
		assert.NotNil(t, menu)
		assert.Empty(t, menu)
	})
}

func TestMenuPropertyAlias(t *testing.T) {
	assert.Equal(t, "headerMenu", menuPropertyAlias("next-js-frontend-header-menu"))
	assert.Equal(t, "footerMenu", menuPropertyAlias("footer"))
}
