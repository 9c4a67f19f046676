package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
)

// Notifier is the best-effort broadcast channel; implementations must
// never block or return an error to the order flow.
type Notifier interface {
	Broadcast(event string, payload any)
}

const (
	EventNewOrder      = "newOrder"
	EventStatusUpdated = "orderStatusUpdated"
)

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// ComputeTotal returns sum(price*quantity) + deliveryFee. The result is
// a creation-time snapshot and is never recomputed afterwards.
func ComputeTotal(items []CreateOrderItem, deliveryFee decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return decimal.Zero, apperr.Validation("invalid item price")
		}
		if price.IsNegative() {
			return decimal.Zero, apperr.Validation("item price must not be negative")
		}
		if it.Quantity <= 0 {
			return decimal.Zero, apperr.Validation("item quantity must be positive")
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Add(deliveryFee), nil
}

func (s *Service) Create(ctx context.Context, userID string, req CreateOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}
	fee := decimal.Zero
	if req.DeliveryFee != "" {
		var err error
		fee, err = decimal.NewFromString(req.DeliveryFee)
		if err != nil || fee.IsNegative() {
			return nil, apperr.Validation("invalid delivery fee")
		}
	}
	total, err := ComputeTotal(req.Items, fee)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		Status:      StatusPending,
		Total:       total.String(),
		DeliveryFee: fee.String(),
	}
	items := make([]Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			PerfumeID: it.PerfumeID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	addr := &Address{
		ID:         uuid.NewString(),
		OrderID:    o.ID,
		Street:     req.ShippingAddress.Street,
		City:       req.ShippingAddress.City,
		State:      req.ShippingAddress.State,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	}
	if err := s.repo.Create(ctx, o, items, addr); err != nil {
		return nil, apperr.Persistence("create order", err)
	}

	created, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return nil, apperr.Persistence("load created order", err)
	}
	s.notifier.Broadcast(EventNewOrder, created)
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Persistence("get order", err)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Order, error) {
	out, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return out, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Order, error) {
	out, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}
	return out, nil
}

// UpdateStatus validates the value against the status enum only; any
// recognized status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	if !ValidStatus(status) {
		return nil, apperr.Validation("invalid order status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, apperr.Persistence("update order status", err)
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Persistence("load updated order", err)
	}
	s.notifier.Broadcast(EventStatusUpdated, map[string]string{
		"orderId": id,
		"status":  status,
	})
	return o, nil
}

func (s *Service) Cancel(ctx context.Context, id string) (*Order, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}
