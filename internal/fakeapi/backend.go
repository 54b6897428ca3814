// Package fakeapi is an in-memory implementation of the storefront REST API
// for local runs and tests. It keeps everything in one process and forgets it
// on restart.
package fakeapi

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmailTaken        = errors.New("email already registered")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError lists every problem with a request body.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

type account struct {
	user     domain.User
	password string
}

type Backend struct {
	mu sync.Mutex

	accounts map[string]*account // by email
	tokens   map[string]int64    // token -> user id
	products map[int64]*domain.Product
	orders   map[int64]*ownedOrder

	nextUserID    int64
	nextProductID int64
	nextOrderID   int64

	now func() time.Time
}

type ownedOrder struct {
	order   domain.Order
	ownerID int64
}

func NewBackend() *Backend {
	return &Backend{
		accounts:      map[string]*account{},
		tokens:        map[string]int64{},
		products:      map[int64]*domain.Product{},
		orders:        map[int64]*ownedOrder{},
		nextUserID:    1,
		nextProductID: 1,
		nextOrderID:   1,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Seed adds an admin account and a few products.
func (b *Backend) Seed() {
	_, _ = b.Register(domain.RegisterRequest{
		Email: "admin@example.com", Password: "admin", FirstName: "Store", LastName: "Admin",
	}, domain.RoleAdmin)

	for _, in := range []domain.ProductInput{
		{Name: "Ceramic mug", Description: "350ml, dishwasher safe", Price: decimal.RequireFromString("12.50"), Stock: 20, IsActive: true, Category: "kitchen"},
		{Name: "Linen apron", Price: decimal.RequireFromString("34.00"), Stock: 5, IsActive: true, Category: "kitchen"},
		{Name: "Tote bag", Price: decimal.RequireFromString("9.90"), Stock: 0, IsActive: true, Category: "accessories"},
		{Name: "Winter scarf", Price: decimal.RequireFromString("27.00"), Stock: 8, IsActive: false, Category: "accessories"},
	} {
		_, _ = b.CreateProduct(in)
	}
}

func (b *Backend) Register(req domain.RegisterRequest, role domain.Role) (*domain.AuthResponse, error) {
	var problems []string
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		problems = append(problems, "email must be a valid address")
	}
	if len(req.Password) < 4 {
		problems = append(problems, "password must have at least 4 characters")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		problems = append(problems, "first and last name are required")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.accounts[email]; ok {
		return nil, ErrEmailTaken
	}
	acc := &account{
		user: domain.User{
			ID:        b.nextUserID,
			Email:     email,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     req.Phone,
			Role:      role,
		},
		password: req.Password,
	}
	b.nextUserID++
	b.accounts[email] = acc

	return b.issueToken(acc.user), nil
}

func (b *Backend) Login(creds domain.Credentials) (*domain.AuthResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
	if !ok || acc.password != creds.Password {
		return nil, ErrUnauthorized
	}
	return b.issueToken(acc.user), nil
}

func (b *Backend) issueToken(user domain.User) *domain.AuthResponse {
	token := uuid.NewString()
	b.tokens[token] = user.ID
	return &domain.AuthResponse{Token: token, User: user}
}

// Authenticate resolves a bearer token.
func (b *Backend) Authenticate(token string) (domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, ok := b.tokens[token]
	if !ok {
		return domain.User{}, ErrUnauthorized
	}
	acc := b.accountByID(id)
	if acc == nil {
		return domain.User{}, ErrUnauthorized
	}
	return acc.user, nil
}

func (b *Backend) accountByID(id int64) *account {
	for _, acc := range b.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (b *Backend) UpdateProfile(userID int64, upd domain.ProfileUpdate) (*domain.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc := b.accountByID(userID)
	if acc == nil {
		return nil, ErrNotFound
	}
	if v := strings.TrimSpace(upd.FirstName); v != "" {
		acc.user.FirstName = v
	}
	if v := strings.TrimSpace(upd.LastName); v != "" {
		acc.user.LastName = v
	}
	if v := strings.TrimSpace(upd.Phone); v != "" {
		acc.user.Phone = v
	}
	user := acc.user
	return &user, nil
}

func validateProduct(in domain.ProductInput) error {
	var problems []string
	if strings.TrimSpace(in.Name) == "" {
		problems = append(problems, "name should not be empty")
	}
	if in.Price.IsNegative() {
		problems = append(problems, "price must not be negative")
	}
	if in.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (b *Backend) CreateProduct(in domain.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p := &domain.Product{
		ID:          b.nextProductID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    in.IsActive,
		Category:    in.Category,
		CreatedAt:   b.now(),
	}
	b.nextProductID++
	b.products[p.ID] = p

	out := *p
	return &out, nil
}

func (b *Backend) UpdateProduct(id int64, in domain.ProductInput) (*domain.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	p.IsActive = in.IsActive
	p.Category = in.Category

	out := *p
	return &out, nil
}

func (b *Backend) SetProductImage(id int64, url string) (*domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.MainImageURL = url
	out := *p
	return &out, nil
}

func (b *Backend) DeleteProduct(id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.products[id]; !ok {
		return ErrNotFound
	}
	delete(b.products, id)
	return nil
}

func (b *Backend) Product(id int64) (*domain.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

// Products filters by name/description substring, category and active flag,
// then pages the result ordered by id. Page numbers start at 1.
func (b *Backend) Products(q domain.ProductQuery) []domain.Product {
	b.mu.Lock()
	defer b.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := []domain.Product{}
	for _, p := range b.products {
		if q.ActiveOnly && !p.IsActive {
			continue
		}
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Description), search) {
			continue
		}
		out = append(out, *p)
	}
	slices.SortFunc(out, func(x, y domain.Product) int { return cmp.Compare(x.ID, y.ID) })

	if q.Limit > 0 {
		page := max(q.Page, 1)
		start := min((page-1)*q.Limit, len(out))
		end := min(start+q.Limit, len(out))
		out = out[start:end]
	}
	return out
}

// CreateOrder reserves stock for every line or none of them.
func (b *Backend) CreateOrder(owner domain.User, req domain.CreateOrderRequest) (*domain.Order, error) {
	var problems []string
	if strings.TrimSpace(req.CustomerName) == "" {
		problems = append(problems, "customerName should not be empty")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		problems = append(problems, "customerEmail should not be empty")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		problems = append(problems, "customerPhone should not be empty")
	}
	if len(req.Items) == 0 {
		problems = append(problems, "items should not be empty")
	}
	for _, it := range req.Items {
		if it.Quantity < 1 {
			problems = append(problems, fmt.Sprintf("quantity for product %d must be at least 1", it.ProductID))
		}
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]domain.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		p, ok := b.products[it.ProductID]
		if !ok || !p.IsActive {
			return nil, fmt.Errorf("product %d: %w", it.ProductID, ErrNotFound)
		}
		if p.Stock < it.Quantity {
			return nil, fmt.Errorf("only %d units of %s available: %w", p.Stock, p.Name, ErrInsufficientStock)
		}
		subtotal := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
		})
		total = total.Add(subtotal)
	}
	for _, it := range items {
		b.products[it.ProductID].Stock -= it.Quantity
	}

	o := &ownedOrder{
		ownerID: owner.ID,
		order: domain.Order{
			ID:            b.nextOrderID,
			Status:        domain.NewStatus(domain.StatusPendingPayment),
			CustomerName:  strings.TrimSpace(req.CustomerName),
			CustomerEmail: strings.TrimSpace(req.CustomerEmail),
			CustomerPhone: strings.TrimSpace(req.CustomerPhone),
			Items:         items,
			Total:         total,
			CreatedAt:     b.now(),
		},
	}
	b.nextOrderID++
	b.orders[o.order.ID] = o

	return copyOrder(o.order), nil
}

func copyOrder(o domain.Order) *domain.Order {
	o.Items = slices.Clone(o.Items)
	return &o
}

// Orders lists orders newest first. A zero ownerID lists everyone's.
func (b *Backend) Orders(ownerID int64, filter func(domain.Order) bool) []domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := []domain.Order{}
	for _, o := range b.orders {
		if ownerID != 0 && o.ownerID != ownerID {
			continue
		}
		if filter != nil && !filter(o.order) {
			continue
		}
		out = append(out, *copyOrder(o.order))
	}
	slices.SortFunc(out, func(x, y domain.Order) int { return cmp.Compare(y.ID, x.ID) })
	return out
}

// Order returns order id. Customers only see their own orders.
func (b *Backend) Order(user domain.User, id int64) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, err := b.visibleOrder(user, id)
	if err != nil {
		return nil, err
	}
	return copyOrder(o.order), nil
}

func (b *Backend) visibleOrder(user domain.User, id int64) (*ownedOrder, error) {
	o, ok := b.orders[id]
	if !ok || (!user.IsAdmin() && o.ownerID != user.ID) {
		return nil, ErrNotFound
	}
	return o, nil
}

func (b *Backend) AttachReceipt(user domain.User, id int64, url string) (*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	o, err := b.visibleOrder(user, id)
	if err != nil {
		return nil, err
	}
	if !o.order.Status.CanUploadReceipt() {
		return nil, fmt.Errorf("order is %s: %w", o.order.Status.Text(), ErrInvalidTransition)
	}

	at := b.now()
	o.order.PaymentReceiptURL = url
	o.order.PaymentReceiptUploadedAt = &at
	o.order.Status = domain.NewStatus(domain.StatusPaymentSubmitted)
	return copyOrder(o.order), nil
}

// Review approves or rejects a submitted payment. Rejection requires notes.
func (b *Backend) Review(id int64, approve bool, notes string) (*domain.Order, error) {
	notes = strings.TrimSpace(notes)
	if !approve && notes == "" {
		return nil, &ValidationError{Problems: []string{"adminNotes should not be empty"}}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !o.order.Status.AwaitingReview() {
		return nil, fmt.Errorf("order is %s: %w", o.order.Status.Text(), ErrInvalidTransition)
	}

	o.order.AdminNotes = notes
	if approve {
		o.order.Status = domain.NewStatus(domain.StatusPaymentApproved)
	} else {
		o.order.Status = domain.NewStatus(domain.StatusPaymentRejected)
	}
	return copyOrder(o.order), nil
}
