package domain

type (
	Product struct {
		ID               string
		Handle           string
		AvailableForSale bool
		Title            string
		Description      string
		DescriptionHTML  string
		Options          []ProductOption
		PriceRange       PriceRange
		FeaturedImage    Image
		SEO              SEO
		Tags             []string
		UpdatedAt        string
		Variants         []ProductVariant
		Images           []Image
	}

	ProductOption struct {
		ID     string
		Name   string
		Values []string
	}

	ProductVariant struct {
		ID               string
		Title            string
		AvailableForSale bool
		SelectedOptions  []SelectedOption
		Price            Money
	}

	SelectedOption struct {
		Name  string
		Value string
	}

	PriceRange struct {
		MinVariantPrice Money
		MaxVariantPrice Money
	}
)

// ProductQuery describes a product listing request.
type ProductQuery struct {
	Query   string
	SortKey string
	Reverse bool
}

// CollectionProductsQuery describes a listing of the products of one collection.
type CollectionProductsQuery struct {
	Collection string
	SortKey    string
	Reverse    bool
}
