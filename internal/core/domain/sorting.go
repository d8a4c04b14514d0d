package domain

const (
	SortRelevance  = "relevance"
	SortCreateDate = "createDate"
	SortPrice      = "price"
)

type SortFilterItem struct {
	Title   string
	Slug    string
	SortKey string
	Reverse bool
}

var DefaultSort = SortFilterItem{
	Title:   "Relevance",
	SortKey: SortRelevance,
}

var Sorting = []SortFilterItem{
	DefaultSort,
	{Title: "Latest arrivals", Slug: "latest-desc", SortKey: SortCreateDate, Reverse: true},
	{Title: "Price: Low to high", Slug: "price-asc", SortKey: SortPrice},
	{Title: "Price: High to low", Slug: "price-desc", SortKey: SortPrice, Reverse: true},
}

// SortBySlug returns the sorting option for slug, falling back to DefaultSort.
func SortBySlug(slug string) SortFilterItem {
	for _, s := range Sorting {
		if s.Slug != "" && s.Slug == slug {
			return s
		}
	}
	return DefaultSort
}

// Cache tags attached to upstream reads and invalidated by webhooks.
const (
	TagCollections = "collections"
	TagProducts    = "products"
	TagPages       = "pages"
)
