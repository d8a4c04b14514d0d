package domain

// Money amount is a non-negative decimal string, currency code is an ISO
// code copied from upstream.
type Money struct {
	Amount       string
	CurrencyCode string
}

type Image struct {
	URL     string
	AltText string
	Width   int
	Height  int
}

type SEO struct {
	Title       string
	Description string
}
