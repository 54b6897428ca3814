// Package cart holds the shopping cart: a pure reducer over cart lines, the
// snapshot persistence, and the Store that applies actions and commits their
// side effects.
package cart

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
)

var (
	ErrInvalidProduct  = errors.New("invalid product")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInactiveProduct = errors.New("product is not available")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrExceedsStock    = errors.New("quantity exceeds available stock")
	ErrNotInCart       = errors.New("product is not in the cart")
)

// State is the cart contents in insertion order. Every line satisfies
// 1 <= Quantity <= Stock.
type State struct {
	Lines []domain.CartLine
}

type Action interface {
	isAction()
}

// Add inserts the product or increments its line, clamped to the product stock.
type Add struct {
	Product  domain.Product
	Quantity int
}

type Remove struct {
	ID int64
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
type SetQuantity struct {
	ID       int64
	Quantity int
}

type Clear struct{}

func (Add) isAction()         {}
func (Remove) isAction()      {}
func (SetQuantity) isAction() {}
func (Clear) isAction()       {}

// Reduce returns the state that results from applying a to s. s is never
// modified. On error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case Add:
		return reduceAdd(s, a)
	case Remove:
		i := s.index(a.ID)
		if i < 0 {
			return s, nil
		}
		return State{Lines: slices.Delete(s.clone(), i, i+1)}, nil
	case SetQuantity:
		return reduceSetQuantity(s, a)
	case Clear:
		return State{}, nil
	}
	return s, nil
}

func reduceAdd(s State, a Add) (State, error) {
	p := a.Product
	switch {
	case p.ID == 0:
		return s, ErrInvalidProduct
	case a.Quantity <= 0:
		return s, ErrInvalidQuantity
	case p.Stock <= 0:
		return s, ErrOutOfStock
	}

	lines := s.clone()
	if i := s.index(p.ID); i >= 0 {
		line := lines[i]
		line.Name = p.Name
		line.Price = p.Price
		line.MainImageURL = p.MainImageURL
		line.Stock = p.Stock
		line.Quantity = min(line.Quantity+a.Quantity, p.Stock)
		lines[i] = line
		return State{Lines: lines}, nil
	}

	lines = append(lines, domain.CartLine{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		MainImageURL: p.MainImageURL,
		Stock:        p.Stock,
		Quantity:     min(a.Quantity, p.Stock),
	})
	return State{Lines: lines}, nil
}

func reduceSetQuantity(s State, a SetQuantity) (State, error) {
	i := s.index(a.ID)
	if i < 0 {
		return s, ErrNotInCart
	}
	if a.Quantity <= 0 {
		return State{Lines: slices.Delete(s.clone(), i, i+1)}, nil
	}
	if a.Quantity > s.Lines[i].Stock {
		return s, ErrExceedsStock
	}

	lines := s.clone()
	lines[i].Quantity = max(1, min(a.Quantity, lines[i].Stock))
	return State{Lines: lines}, nil
}

func (s State) index(id int64) int {
	return slices.IndexFunc(s.Lines, func(l domain.CartLine) bool { return l.ID == id })
}

func (s State) clone() []domain.CartLine {
	return slices.Clone(s.Lines)
}

func (s State) Line(id int64) (domain.CartLine, bool) {
	i := s.index(id)
	if i < 0 {
		return domain.CartLine{}, false
	}
	return s.Lines[i], true
}

func (s State) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s State) ItemsCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}
