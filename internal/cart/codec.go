package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCartNotFound is returned by Load when nothing is persisted for the scope.
var ErrCartNotFound = errors.New("cart not found")

// DecodeError reports a persisted cart that could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode cart: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err wraps a DecodeError.
func IsDecodeError(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

type persistedLine struct {
	ProductID int64       `json:"productId"`
	Name      string      `json:"name"`
	Image     string      `json:"image"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
	LineTotal json.Number `json:"lineTotal"`
}

type persistedCart struct {
	Items      []persistedLine `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice json.Number     `json:"totalPrice"`
}

// Encode renders the cart in its persisted layout with numeric money fields.
func Encode(c Cart) ([]byte, error) {
	out := persistedCart{
		Items:      make([]persistedLine, 0, len(c.Items)),
		TotalItems: c.TotalItems,
		TotalPrice: json.Number(c.TotalPrice.String()),
	}
	for _, line := range c.Items {
		out.Items = append(out.Items, persistedLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			Price:     json.Number(line.UnitPrice.String()),
			Quantity:  line.Quantity,
			LineTotal: json.Number(line.LineTotal.String()),
		})
	}
	return json.Marshal(out)
}

// Decode parses a persisted cart. Stored totals are ignored and recomputed.
func Decode(raw []byte) (Cart, error) {
	var in persistedCart
	if err := json.Unmarshal(raw, &in); err != nil {
		return Cart{}, &DecodeError{Err: err}
	}

	c := Cart{Items: make([]LineItem, 0, len(in.Items))}
	seen := make(map[int64]struct{}, len(in.Items))
	for i, line := range in.Items {
		if line.Quantity <= 0 {
			return Cart{}, &DecodeError{Err: fmt.Errorf("item %d: non-positive quantity %d", i, line.Quantity)}
		}
		if _, dup := seen[line.ProductID]; dup {
			return Cart{}, &DecodeError{Err: fmt.Errorf("item %d: duplicate product %d", i, line.ProductID)}
		}
		seen[line.ProductID] = struct{}{}

		price, err := decimal.NewFromString(line.Price.String())
		if err != nil {
			return Cart{}, &DecodeError{Err: fmt.Errorf("item %d: price: %w", i, err)}
		}
		c.Items = append(c.Items, LineItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     line.Image,
			UnitPrice: price,
			Quantity:  line.Quantity,
		})
	}
	return c.recalculate(), nil
}
