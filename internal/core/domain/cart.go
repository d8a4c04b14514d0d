package domain

type (
	Cart struct {
		ID            string
		CheckoutURL   string
		TotalQuantity int
		Cost          CartCost
		Lines         []CartItem
	}

	CartCost struct {
		SubtotalAmount Money
		TotalAmount    Money
		TotalTaxAmount Money
	}

	CartItem struct {
		ID          string
		Quantity    int
		Cost        CartItemCost
		Merchandise Merchandise
	}

	CartItemCost struct {
		TotalAmount Money
	}

	// Merchandise.Product is rebuilt from the order line snapshot and carries
	// no options or variants.
	Merchandise struct {
		ID              string
		Title           string
		SelectedOptions []SelectedOption
		Product         Product
	}
)

// CartLineInput is a single line to add to a cart.
type CartLineInput struct {
	MerchandiseID string
	Quantity      int
}

// CartLineUpdate sets the quantity of an existing cart line.
type CartLineUpdate struct {
	ID            string
	MerchandiseID string
	Quantity      int
}
