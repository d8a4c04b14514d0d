package umbraco

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
)

// Collection content types.
const (
	ManualCollection = "manualCollection"
	TagCollection    = "tagCollection"
)

var (
	ErrUnknownCollectionType = errors.New("unknown collection type")
	ErrEmptyCollection       = errors.New("collection has no members")
)

func productListingQuery() url.Values {
	return url.Values{
		"fetch":  {"children:products"},
		"expand": {"property:variants"},
	}
}

// applySort adds a field:direction sort clause unless sortKey is empty or
// relevance.
func applySort(q url.Values, sortKey string, reverse bool) {
	if sortKey == "" || sortKey == domain.SortRelevance {
		return
	}
	direction := "asc"
	if reverse {
		direction = "desc"
	}
	q.Set("sort", sortKey+":"+direction)
}

// ProductsQuery builds the product listing query with an optional name filter.
func ProductsQuery(pq domain.ProductQuery) url.Values {
	q := productListingQuery()
	if pq.Query != "" {
		q.Set("filter", "name:"+pq.Query)
	}
	applySort(q, pq.SortKey, pq.Reverse)
	return q
}

// CollectionProductsQuery builds the product listing query for the
// collection node c according to its content type.
func CollectionProductsQuery(c *Node, sortKey string, reverse bool) (url.Values, error) {
	filter, err := collectionFilter(c)
	if err != nil {
		return nil, err
	}

	q := productListingQuery()
	applySort(q, sortKey, reverse)
	q.Set("filter", filter)
	return q, nil
}

func collectionFilter(c *Node) (string, error) {
	if c == nil {
		return "", fmt.Errorf("%w: absent collection", ErrUnknownCollectionType)
	}

	switch c.ContentType {
	case ManualCollection:
		var refs []ContentRef
		c.Properties.Decode("products", &refs)
		ids := make([]string, 0, len(refs))
		for _, ref := range refs {
			if ref.ID != "" {
				ids = append(ids, ref.ID)
			}
		}
		if len(ids) == 0 {
			return "", ErrEmptyCollection
		}
		return "id:" + strings.Join(ids, ","), nil

	case TagCollection:
		tags, _ := c.Properties.Strings("tags")
		if len(tags) == 0 {
			return "", ErrEmptyCollection
		}
		return tagFilter(tags), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownCollectionType, c.ContentType)
}

func tagFilter(tags []string) string {
	return "tag:" + strings.Join(tags, ",")
}

// RelatedProductsQuery lists products sharing any of tags.
func RelatedProductsQuery(tags []string) url.Values {
	return url.Values{
		"fetch":  {"children:products"},
		"filter": {tagFilter(tags)},
	}
}

func childrenQuery(parent string) url.Values {
	return url.Values{"fetch": {"children:" + parent}}
}
