package umbraco

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultOption titles an order line without attributes.
const DefaultOption = "Default"

const hiddenCollectionPrefix = "hidden"

// Reshaper converts upstream records into storefront entities. Records
// failing a visibility rule are dropped.
type Reshaper struct {
	baseURL         string
	defaultCurrency string
	now             func() time.Time
}

func NewReshaper(baseURL, defaultCurrency string) Reshaper {
	return Reshaper{
		baseURL:         strings.TrimRight(baseURL, "/"),
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
}

func (r Reshaper) Product(n *Node, filterHidden bool) (domain.Product, bool) {
	if n == nil || (filterHidden && n.Properties.Hidden()) {
		return domain.Product{}, false
	}

	props := n.Properties
	handle := nodeHandle(n)
	description, _ := props.String("shortDescription")
	descriptionHTML, _ := props.Markup("longDescription")
	tags, _ := props.Strings("tags")
	if tags == nil {
		tags = []string{}
	}

	p := domain.Product{
		ID:               n.ID,
		Handle:           handle,
		Title:            n.Name,
		Description:      description,
		DescriptionHTML:  descriptionHTML,
		AvailableForSale: props.InStock(),
		SEO:              r.seo(n),
		Options:          []domain.ProductOption{},
		Variants:         []domain.ProductVariant{},
		Images:           []domain.Image{},
		Tags:             tags,
		UpdatedAt:        n.UpdateDate,
	}

	bounds := priceBounds{currency: r.defaultCurrency}

	basePrice, hasBasePrice := props.Price("price")
	if hasBasePrice {
		bounds.observe(basePrice)
		p.Variants = []domain.ProductVariant{{
			ID:               n.ID,
			Title:            n.Name,
			AvailableForSale: props.InStock(),
			SelectedOptions:  []domain.SelectedOption{},
			Price:            r.money(basePrice),
		}}
	}

	var variants VariantPropertyValue
	if props.Decode("variants", &variants) {
		p.Options = r.options(variants.Attributes)

		var productVariants []domain.ProductVariant
		for _, itm := range variants.Items {
			if itm.Content == nil {
				continue
			}

			variantPrice, ok := itm.Content.Properties.Price("price")
			if !ok {
				if !hasBasePrice {
					continue
				}
				variantPrice = basePrice
			}

			variantAvailable := itm.Content.Properties.InStock()
			bounds.observe(variantPrice)
			p.AvailableForSale = variantAvailable || p.AvailableForSale

			productVariants = append(productVariants, domain.ProductVariant{
				ID:               n.ID + ":" + itm.Content.ID,
				Title:            variantTitle(n.Name, itm.Content.Properties),
				AvailableForSale: variantAvailable,
				SelectedOptions:  selectedOptions(itm.Attributes, variants.Attributes),
				Price:            r.money(variantPrice),
			})
		}

		if len(productVariants) > 0 {
			p.Variants = productVariants
		}
	}

	media, ok := props.Media("images")
	if !ok {
		media, _ = props.Media("image")
	}
	if len(media) > 0 {
		p.Images = make([]domain.Image, len(media))
		for i, m := range media {
			p.Images[i] = r.Image(m)
		}
		p.FeaturedImage = p.Images[0]
	}

	p.PriceRange = bounds.priceRange()

	return p, true
}

func (r Reshaper) Products(nodes []Node) []domain.Product {
	products := make([]domain.Product, 0, len(nodes))
	for i := range nodes {
		if p, ok := r.Product(&nodes[i], true); ok {
			products = append(products, p)
		}
	}
	return products
}

// priceBounds tracks the price range across the base price and variants.
// The last observed currency wins; upstream data is single currency.
type priceBounds struct {
	min, max decimal.Decimal
	currency string
	seeded   bool
}

func (b *priceBounds) observe(p Price) {
	b.currency = p.Currency.Code
	if !b.seeded {
		b.min, b.max = p.WithTax, p.WithTax
		b.seeded = true
		return
	}
	b.min = decimal.Min(b.min, p.WithTax)
	// Running maximum against the running maximum. The storefront this adapter
	// replaces compared against the running minimum, understating the range.
	b.max = decimal.Max(b.max, p.WithTax)
}

func (b priceBounds) priceRange() domain.PriceRange {
	return domain.PriceRange{
		MinVariantPrice: domain.Money{Amount: b.min.String(), CurrencyCode: b.currency},
		MaxVariantPrice: domain.Money{Amount: b.max.String(), CurrencyCode: b.currency},
	}
}

func (r Reshaper) options(attrs []InUseAttribute) []domain.ProductOption {
	options := make([]domain.ProductOption, len(attrs))
	for i, attr := range attrs {
		values := make([]string, len(attr.Values))
		for j, v := range attr.Values {
			values[j] = v.Alias
		}
		options[i] = domain.ProductOption{
			ID:     attr.Alias,
			Name:   attr.Name,
			Values: values,
		}
	}
	return options
}

// selectedOptions lists the item attributes in option order, followed by
// any attribute unknown to the options in alphabetical order.
func selectedOptions(attrs map[string]string, order []InUseAttribute) []domain.SelectedOption {
	selected := make([]domain.SelectedOption, 0, len(attrs))
	seen := make(map[string]bool, len(attrs))

	for _, attr := range order {
		if v, ok := attrs[attr.Alias]; ok {
			selected = append(selected, domain.SelectedOption{Name: attr.Alias, Value: v})
			seen[attr.Alias] = true
		}
	}

	var rest []string
	for k := range attrs {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		selected = append(selected, domain.SelectedOption{Name: k, Value: attrs[k]})
	}

	return selected
}

func variantTitle(productName string, props Properties) string {
	sku, _ := props.String("sku")
	if sku == "" {
		return productName
	}
	return productName + " " + sku
}

func (r Reshaper) Collection(n *Node) (domain.Collection, bool) {
	if n == nil {
		return domain.Collection{}, false
	}

	handle := nodeHandle(n)
	description, _ := n.Properties.String("description")

	return domain.Collection{
		Handle:      handle,
		Title:       n.Name,
		Description: description,
		SEO:         r.seo(n),
		Path:        "/search/" + handle,
		UpdatedAt:   n.UpdateDate,
	}, true
}

func (r Reshaper) Collections(nodes []Node) []domain.Collection {
	collections := make([]domain.Collection, 0, len(nodes))
	for i := range nodes {
		if c, ok := r.Collection(&nodes[i]); ok {
			collections = append(collections, c)
		}
	}
	return collections
}

// AllCollection is the synthetic collection listing every product.
func (r Reshaper) AllCollection() domain.Collection {
	return domain.Collection{
		Handle:      "",
		Title:       "All",
		Description: "All products",
		SEO: domain.SEO{
			Title:       "All",
			Description: "All products",
		},
		Path:      "/search",
		UpdatedAt: r.timestamp(),
	}
}

// VisibleCollections drops collections whose handle starts with "hidden".
func VisibleCollections(cs []domain.Collection) []domain.Collection {
	visible := make([]domain.Collection, 0, len(cs))
	for _, c := range cs {
		if !strings.HasPrefix(c.Handle, hiddenCollectionPrefix) {
			visible = append(visible, c)
		}
	}
	return visible
}

// Page never filters; hidden pages are dropped by the listing before
// reshaping.
func (r Reshaper) Page(n *Node) (domain.Page, bool) {
	if n == nil {
		return domain.Page{}, false
	}

	body, _ := n.Properties.Markup("bodyText")
	summary, _ := n.Properties.String("summary")

	return domain.Page{
		ID:          n.ID,
		Handle:      nodeHandle(n),
		Title:       n.Name,
		Body:        body,
		BodySummary: summary,
		SEO:         r.seo(n),
		CreatedAt:   n.CreateDate,
		UpdatedAt:   n.UpdateDate,
	}, true
}

func (r Reshaper) Pages(nodes []Node) []domain.Page {
	pages := make([]domain.Page, 0, len(nodes))
	for i := range nodes {
		if p, ok := r.Page(&nodes[i]); ok {
			pages = append(pages, p)
		}
	}
	return pages
}

func (r Reshaper) Order(o Order) domain.Cart {
	lines := make([]domain.CartItem, len(o.OrderLines))
	for i, l := range o.OrderLines {
		lines[i] = r.OrderLine(l)
	}

	total := o.TotalPrice.Value
	return domain.Cart{
		ID:            o.ID,
		CheckoutURL:   r.baseURL + "/checkout?id=" + url.QueryEscape(o.ID),
		TotalQuantity: int(o.TotalQuantity.IntPart()),
		Cost: domain.CartCost{
			SubtotalAmount: r.money(o.SubtotalPrice.Value),
			TotalAmount:    r.money(total),
			TotalTaxAmount: domain.Money{
				Amount:       total.Tax.String(),
				CurrencyCode: total.Currency.Code,
			},
		},
		Lines: lines,
	}
}

func (r Reshaper) OrderLine(l OrderLine) domain.CartItem {
	title := DefaultOption
	if len(l.Attributes) > 0 {
		parts := make([]string, len(l.Attributes))
		for i, attr := range l.Attributes {
			parts[i] = attr.Name.Name + ":" + attr.Value.Name
		}
		title = strings.Join(parts, ", ")
	}

	options := make([]domain.SelectedOption, len(l.Attributes))
	for i, attr := range l.Attributes {
		options[i] = domain.SelectedOption{Name: attr.Name.Alias, Value: attr.Value.Alias}
	}

	var imageURL string
	if u := l.Properties["imageUrl"]; u != "" {
		imageURL = r.absoluteURL(u)
	}

	lineTotal := r.money(l.TotalPrice.Value)

	return domain.CartItem{
		ID:       l.ID,
		Quantity: int(l.Quantity.IntPart()),
		Cost:     domain.CartItemCost{TotalAmount: lineTotal},
		Merchandise: domain.Merchandise{
			ID:              l.ProductReference,
			Title:           title,
			SelectedOptions: options,
			Product: domain.Product{
				ID:               l.ProductReference,
				Handle:           l.ProductReference,
				AvailableForSale: true,
				Title:            l.Name,
				Options:          []domain.ProductOption{},
				PriceRange: domain.PriceRange{
					MinVariantPrice: lineTotal,
					MaxVariantPrice: lineTotal,
				},
				FeaturedImage: domain.Image{
					URL:     imageURL,
					AltText: l.Name,
				},
				Tags:      []string{},
				UpdatedAt: r.timestamp(),
				Variants:  []domain.ProductVariant{},
				Images:    []domain.Image{},
			},
		},
	}
}

func (r Reshaper) Image(m Media) domain.Image {
	alt, _ := m.Properties.String("altText")
	if alt == "" {
		alt = m.Name
	}
	return domain.Image{
		URL:     r.absoluteURL(m.URL),
		AltText: alt,
		Width:   m.Width,
		Height:  m.Height,
	}
}

func (r Reshaper) money(p Price) domain.Money {
	return domain.Money{
		Amount:       p.WithTax.String(),
		CurrencyCode: p.Currency.Code,
	}
}

func (r Reshaper) seo(n *Node) domain.SEO {
	title, _ := n.Properties.String("metaTitle")
	if title == "" {
		title = n.Name
	}
	description, _ := n.Properties.String("metaDescription")
	return domain.SEO{Title: title, Description: description}
}

func (r Reshaper) absoluteURL(u string) string {
	if strings.HasPrefix(u, "http") {
		return u
	}
	return r.baseURL + u
}

func (r Reshaper) timestamp() string {
	return r.now().UTC().Format(time.RFC3339)
}

// nodeHandle is the last segment of the route path, or the node id.
func nodeHandle(n *Node) string {
	if alias := lastSegment(n.Route.Path); alias != "" {
		return alias
	}
	return n.ID
}

func lastSegment(path string) string {
	trimmed := strings.Trim(path, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
