package umbraco

import "github.com/shopspring/decimal"

type (
	Element struct {
		ID          string     `json:"id"`
		ContentType string     `json:"contentType"`
		Properties  Properties `json:"properties"`
	}

	Node struct {
		Element
		Name       string `json:"name"`
		Route      Route  `json:"route"`
		CreateDate string `json:"createDate"`
		UpdateDate string `json:"updateDate"`
	}

	Route struct {
		Path      string    `json:"path"`
		StartItem StartItem `json:"startItem"`
	}

	StartItem struct {
		ID   string `json:"id"`
		Path string `json:"path"`
	}

	Media struct {
		ID         string     `json:"id"`
		Name       string     `json:"name"`
		MediaType  string     `json:"mediaType"`
		URL        string     `json:"url"`
		Extension  string     `json:"extension"`
		Width      int        `json:"width"`
		Height     int        `json:"height"`
		Properties Properties `json:"properties"`
	}

	Link struct {
		URL             string `json:"url"`
		Title           string `json:"title"`
		Target          string `json:"target"`
		DestinationID   string `json:"destinationId"`
		DestinationType string `json:"destinationType"`
		Route           *Route `json:"route"`
		LinkType        string `json:"linkType"`
	}

	ContentRef struct {
		ID string `json:"id"`
	}

	PagedResult[T any] struct {
		Total int `json:"total"`
		Items []T `json:"items"`
	}
)

type (
	VariantPropertyValue struct {
		Attributes []InUseAttribute `json:"attributes"`
		Items      []VariantItem    `json:"items"`
	}

	VariantItem struct {
		Content    *Element          `json:"content"`
		Attributes map[string]string `json:"attributes"`
		IsDefault  bool              `json:"isDefault"`
	}

	AliasNamePair struct {
		Alias string `json:"alias"`
		Name  string `json:"name"`
	}

	InUseAttribute struct {
		AliasNamePair
		Values []AliasNamePair `json:"values"`
	}
)

type (
	Order struct {
		ID            string            `json:"id"`
		Currency      Currency          `json:"currency"`
		OrderLines    []OrderLine       `json:"orderLines"`
		TotalQuantity decimal.Decimal   `json:"totalQuantity"`
		SubtotalPrice AdjustedPrice     `json:"subtotalPrice"`
		TotalPrice    AdjustedPrice     `json:"totalPrice"`
		Properties    map[string]string `json:"properties"`
		IsFinalized   bool              `json:"isFinalized"`
	}

	OrderLine struct {
		ID                      string                 `json:"id"`
		ProductReference        string                 `json:"productReference"`
		ProductVariantReference string                 `json:"productVariantReference"`
		SKU                     string                 `json:"sku"`
		Name                    string                 `json:"name"`
		Quantity                decimal.Decimal        `json:"quantity"`
		TotalPrice              AdjustedPrice          `json:"totalPrice"`
		Properties              map[string]string      `json:"properties"`
		Attributes              []AttributeCombination `json:"attributes"`
	}

	AttributeCombination struct {
		Name  AliasNamePair `json:"name"`
		Value AliasNamePair `json:"value"`
	}

	Currency struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}

	AdjustedPrice struct {
		Value Price `json:"value"`
	}

	Price struct {
		Currency   Currency        `json:"currency"`
		WithoutTax decimal.Decimal `json:"withoutTax"`
		Tax        decimal.Decimal `json:"tax"`
		WithTax    decimal.Decimal `json:"withTax"`
	}
)

type (
	orderLinePayload struct {
		ProductReference        string  `json:"productReference"`
		ProductVariantReference *string `json:"productVariantReference"`
		Quantity                int     `json:"quantity"`
	}

	orderLineQuantity struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	}

	createOrderPayload struct {
		Currency string `json:"currency"`
	}
)
