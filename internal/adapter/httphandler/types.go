package httphandler

import "github.com/niksmo/storefront/internal/core/domain"

type (
	Money struct {
		Amount       string `json:"amount"`
		CurrencyCode string `json:"currencyCode"`
	}

	Image struct {
		URL     string `json:"url"`
		AltText string `json:"altText"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
	}

	SEO struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	SelectedOption struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}
)

type (
	Product struct {
		ID               string           `json:"id"`
		Handle           string           `json:"handle"`
		AvailableForSale bool             `json:"availableForSale"`
		Title            string           `json:"title"`
		Description      string           `json:"description"`
		DescriptionHTML  string           `json:"descriptionHtml"`
		Options          []ProductOption  `json:"options"`
		PriceRange       PriceRange       `json:"priceRange"`
		FeaturedImage    Image            `json:"featuredImage"`
		SEO              SEO              `json:"seo"`
		Tags             []string         `json:"tags"`
		UpdatedAt        string           `json:"updatedAt"`
		Variants         []ProductVariant `json:"variants"`
		Images           []Image          `json:"images"`
	}

	ProductOption struct {
		ID     string   `json:"id"`
		Name   string   `json:"name"`
		Values []string `json:"values"`
	}

	ProductVariant struct {
		ID               string           `json:"id"`
		Title            string           `json:"title"`
		AvailableForSale bool             `json:"availableForSale"`
		SelectedOptions  []SelectedOption `json:"selectedOptions"`
		Price            Money            `json:"price"`
	}

	PriceRange struct {
		MaxVariantPrice Money `json:"maxVariantPrice"`
		MinVariantPrice Money `json:"minVariantPrice"`
	}
)

type (
	Cart struct {
		ID            string     `json:"id"`
		CheckoutURL   string     `json:"checkoutUrl"`
		TotalQuantity int        `json:"totalQuantity"`
		Cost          CartCost   `json:"cost"`
		Lines         []CartItem `json:"lines"`
	}

	CartCost struct {
		SubtotalAmount Money `json:"subtotalAmount"`
		TotalAmount    Money `json:"totalAmount"`
		TotalTaxAmount Money `json:"totalTaxAmount"`
	}

	CartItem struct {
		ID          string      `json:"id"`
		Quantity    int         `json:"quantity"`
		Cost        CartCost    `json:"cost"`
		Merchandise Merchandise `json:"merchandise"`
	}

	Merchandise struct {
		ID              string           `json:"id"`
		Title           string           `json:"title"`
		SelectedOptions []SelectedOption `json:"selectedOptions"`
		Product         Product          `json:"product"`
	}

	CartLine struct {
		MerchandiseID string `json:"merchandiseId"`
		Quantity      int    `json:"quantity"`
	}

	CartLineUpdate struct {
		ID            string `json:"id"`
		MerchandiseID string `json:"merchandiseId"`
		Quantity      int    `json:"quantity"`
	}
)

type (
	Collection struct {
		Handle      string `json:"handle"`
		Title       string `json:"title"`
		Description string `json:"description"`
		SEO         SEO    `json:"seo"`
		Path        string `json:"path"`
		UpdatedAt   string `json:"updatedAt"`
	}

	Page struct {
		ID          string `json:"id"`
		Handle      string `json:"handle"`
		Title       string `json:"title"`
		Body        string `json:"body"`
		BodySummary string `json:"bodySummary"`
		SEO         SEO    `json:"seo"`
		CreatedAt   string `json:"createdAt"`
		UpdatedAt   string `json:"updatedAt"`
	}

	Menu struct {
		Title string `json:"title"`
		Path  string `json:"path"`
	}
)

type RevalidateResult struct {
	Status      int   `json:"status"`
	Revalidated bool  `json:"revalidated,omitempty"`
	Now         int64 `json:"now,omitempty"`
}

func fromMoney(m domain.Money) Money {
	return Money{Amount: m.Amount, CurrencyCode: m.CurrencyCode}
}

func fromImage(i domain.Image) Image {
	return Image{URL: i.URL, AltText: i.AltText, Width: i.Width, Height: i.Height}
}

func fromImages(is []domain.Image) []Image {
	out := make([]Image, len(is))
	for i := range is {
		out[i] = fromImage(is[i])
	}
	return out
}

func fromSEO(s domain.SEO) SEO {
	return SEO{Title: s.Title, Description: s.Description}
}

func fromSelectedOptions(os []domain.SelectedOption) []SelectedOption {
	out := make([]SelectedOption, len(os))
	for i, o := range os {
		out[i] = SelectedOption{Name: o.Name, Value: o.Value}
	}
	return out
}

func fromProduct(p domain.Product) Product {
	options := make([]ProductOption, len(p.Options))
	for i, o := range p.Options {
		options[i] = ProductOption{ID: o.ID, Name: o.Name, Values: o.Values}
	}

	variants := make([]ProductVariant, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = ProductVariant{
			ID:               v.ID,
			Title:            v.Title,
			AvailableForSale: v.AvailableForSale,
			SelectedOptions:  fromSelectedOptions(v.SelectedOptions),
			Price:            fromMoney(v.Price),
		}
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return Product{
		ID:               p.ID,
		Handle:           p.Handle,
		AvailableForSale: p.AvailableForSale,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.DescriptionHTML,
		Options:          options,
		PriceRange: PriceRange{
			MaxVariantPrice: fromMoney(p.PriceRange.MaxVariantPrice),
			MinVariantPrice: fromMoney(p.PriceRange.MinVariantPrice),
		},
		FeaturedImage: fromImage(p.FeaturedImage),
		SEO:           fromSEO(p.SEO),
		Tags:          tags,
		UpdatedAt:     p.UpdatedAt,
		Variants:      variants,
		Images:        fromImages(p.Images),
	}
}

func fromProducts(ps []domain.Product) []Product {
	out := make([]Product, len(ps))
	for i := range ps {
		out[i] = fromProduct(ps[i])
	}
	return out
}

func fromCart(c domain.Cart) Cart {
	lines := make([]CartItem, len(c.Lines))
	for i, l := range c.Lines {
		lines[i] = CartItem{
			ID:       l.ID,
			Quantity: l.Quantity,
			Cost:     CartCost{TotalAmount: fromMoney(l.Cost.TotalAmount)},
			Merchandise: Merchandise{
				ID:              l.Merchandise.ID,
				Title:           l.Merchandise.Title,
				SelectedOptions: fromSelectedOptions(l.Merchandise.SelectedOptions),
				Product:         fromProduct(l.Merchandise.Product),
			},
		}
	}

	return Cart{
		ID:            c.ID,
		CheckoutURL:   c.CheckoutURL,
		TotalQuantity: c.TotalQuantity,
		Cost: CartCost{
			SubtotalAmount: fromMoney(c.Cost.SubtotalAmount),
			TotalAmount:    fromMoney(c.Cost.TotalAmount),
			TotalTaxAmount: fromMoney(c.Cost.TotalTaxAmount),
		},
		Lines: lines,
	}
}

func fromCollection(c domain.Collection) Collection {
	return Collection{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
		SEO:         fromSEO(c.SEO),
		Path:        c.Path,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromPage(p domain.Page) Page {
	return Page{
		ID:          p.ID,
		Handle:      p.Handle,
		Title:       p.Title,
		Body:        p.Body,
		BodySummary: p.BodySummary,
		SEO:         fromSEO(p.SEO),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (l CartLine) toDomain() domain.CartLineInput {
	return domain.CartLineInput{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity}
}

func toLineUpdates(ls []CartLineUpdate) []domain.CartLineUpdate {
	out := make([]domain.CartLineUpdate, len(ls))
	for i, l := range ls {
		out[i] = domain.CartLineUpdate{
			ID:            l.ID,
			MerchandiseID: l.MerchandiseID,
			Quantity:      l.Quantity,
		}
	}
	return out
}
