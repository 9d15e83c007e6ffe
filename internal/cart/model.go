package cart

import "github.com/shopspring/decimal"

// Product is the catalog shape a cart line is built from.
type Product struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Image     string
}

// LineItem is one product's presence in the cart. Name, Image and UnitPrice are
// copies captured when the line was added.
type LineItem struct {
	ProductID int64
	Name      string
	Image     string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Cart is the aggregate persisted per scope. TotalItems and TotalPrice are always
// derived from Items.
type Cart struct {
	Items      []LineItem
	TotalItems int
	TotalPrice decimal.Decimal
}

// Empty returns a cart with no items and zero totals.
func Empty() Cart {
	return Cart{Items: []LineItem{}, TotalPrice: decimal.Zero}
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Line returns the line for productID, if present.
func (c Cart) Line(productID int64) (LineItem, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

func (c Cart) indexOf(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// clone copies the item slice so mutations never alias a caller's cart.
func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

// recalculate rebuilds every line total and both aggregates from the items.
func (c Cart) recalculate() Cart {
	totalItems := 0
	totalPrice := decimal.Zero
	for i := range c.Items {
		line := &c.Items[i]
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		totalItems += line.Quantity
		totalPrice = totalPrice.Add(line.LineTotal)
	}
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	c.TotalItems = totalItems
	c.TotalPrice = totalPrice
	return c
}

func (c Cart) withAdded(product Product, quantity int) Cart {
	next := c.clone()
	if i := next.indexOf(product.ProductID); i >= 0 {
		// latest catalog price re-prices the whole line; display fields stay as captured
		next.Items[i].Quantity += quantity
		next.Items[i].UnitPrice = product.Price
		return next.recalculate()
	}
	next.Items = append(next.Items, LineItem{
		ProductID: product.ProductID,
		Name:      product.Name,
		Image:     product.Image,
		UnitPrice: product.Price,
		Quantity:  quantity,
	})
	return next.recalculate()
}

func (c Cart) withQuantity(productID int64, quantity int) Cart {
	if quantity <= 0 {
		return c.without(productID)
	}
	next := c.clone()
	if i := next.indexOf(productID); i >= 0 {
		next.Items[i].Quantity = quantity
	}
	return next.recalculate()
}

func (c Cart) without(productID int64) Cart {
	items := make([]LineItem, 0, len(c.Items))
	for _, line := range c.Items {
		if line.ProductID != productID {
			items = append(items, line)
		}
	}
	c.Items = items
	return c.recalculate()
}
