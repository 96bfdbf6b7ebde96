package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (product, quantity) pairing within a cart. The product's
// name, price and category are captured when the line is created.
type CartLine struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category,omitempty"`
	UnitPrice   int64     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"added_at"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is an ordered collection of lines owned by a single user.
// No two lines reference the same product.
type Cart struct {
	UserID    string     `json:"user_id"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for userID.
func NewCart(userID string) *Cart {
	return &Cart{UserID: userID, Lines: []CartLine{}, UpdatedAt: time.Now()}
}

// AddToCart adds qty units of product. An existing line for the same product
// is increased; otherwise a new line is appended.
func (c *Cart) AddToCart(product Product, qty int) (*CartLine, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if product.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	c.UpdatedAt = time.Now()
	if i := c.indexOfProduct(product.ID); i >= 0 {
		c.Lines[i].Quantity += qty
		return &c.Lines[i], nil
	}

	c.Lines = append(c.Lines, CartLine{
		ID:          uuid.New().String(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Category:    product.Category,
		UnitPrice:   product.Price,
		Quantity:    qty,
		AddedAt:     c.UpdatedAt,
	})
	return &c.Lines[len(c.Lines)-1], nil
}

// RemoveFromCart deletes the line with the given id.
func (c *Cart) RemoveFromCart(lineID string) error {
	i := c.indexOfLine(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	c.UpdatedAt = time.Now()
	return nil
}

// UpdateQuantity replaces a line's quantity. Zero removes the line and
// negative quantities are rejected.
func (c *Cart) UpdateQuantity(lineID string, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}
	i := c.indexOfLine(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty == 0 {
		return c.RemoveFromCart(lineID)
	}
	c.Lines[i].Quantity = qty
	c.UpdatedAt = time.Now()
	return nil
}

// Subtotal is the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

// ItemCount is the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.UpdatedAt = time.Now()
}

func (c *Cart) indexOfProduct(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) indexOfLine(lineID string) int {
	for i, l := range c.Lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}
