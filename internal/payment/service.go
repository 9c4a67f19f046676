package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/HANSBIANDJI/bksmell/internal/apperr"
	"github.com/HANSBIANDJI/bksmell/internal/order"
)

// OrderStatusSetter is the slice of the order service the webhook flow
// needs: move the parent order and broadcast the change.
type OrderStatusSetter interface {
	UpdateStatus(ctx context.Context, id, status string) (*order.Order, error)
}

type Service struct {
	repo          Repository
	orders        OrderStatusSetter
	client        ProcessorClient
	webhookSecret string
	currency      string
	log           zerolog.Logger
	now           func() time.Time
}

func NewService(repo Repository, orders OrderStatusSetter, client ProcessorClient, webhookSecret string, log zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		orders:        orders,
		client:        client,
		webhookSecret: webhookSecret,
		currency:      "eur",
		log:           log,
		now:           time.Now,
	}
}

type IntentResult struct {
	ClientSecret string   `json:"clientSecret"`
	Payment      *Payment `json:"payment"`
}

// CreateIntent asks the processor for a payment intent and records the
// local PENDING payment keyed by the intent id. The processor is paid
// in minor currency units; amount here is in major units.
func (s *Service) CreateIntent(ctx context.Context, orderID, amount string) (*IntentResult, error) {
	if orderID == "" {
		return nil, apperr.Validation("orderId is required")
	}
	amt, err := decimal.NewFromString(amount)
	if err != nil || !amt.IsPositive() {
		return nil, apperr.Validation("invalid amount")
	}
	minor := amt.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	in, err := s.client.CreateIntent(ctx, minor, s.currency, orderID)
	if err != nil {
		return nil, apperr.External("payment processor error", err)
	}

	p := &Payment{
		ID:              uuid.NewString(),
		OrderID:         orderID,
		Amount:          amt.String(),
		Status:          StatusPending,
		Provider:        "stripe",
		PaymentIntentID: in.ID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperr.Persistence("create payment", err)
	}
	return &IntentResult{ClientSecret: in.ClientSecret, Payment: p}, nil
}

func (s *Service) GetStatus(ctx context.Context, id string) (*Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.NotFound("payment not found")
	}
	return p, nil
}

// HandleWebhook reconciles a processor delivery. Terminal transitions
// are applied at most once; retries and unknown event types are
// acknowledged without side effects.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if sigHeader == "" {
		return apperr.Signature("missing signature header")
	}
	if err := VerifySignature(payload, sigHeader, s.webhookSecret, s.now()); err != nil {
		return apperr.Signature("invalid webhook signature")
	}

	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return apperr.Validation("malformed event payload")
	}

	switch ev.Type {
	case EventIntentSucceeded:
		return s.reconcile(ctx, ev.Data.Object.ID, StatusSucceeded, order.StatusProcessing)
	case EventIntentFailed:
		return s.reconcile(ctx, ev.Data.Object.ID, StatusFailed, order.StatusCancelled)
	default:
		// Unknown event types are acked so the processor stops retrying.
		return nil
	}
}

func (s *Service) reconcile(ctx context.Context, intentID, paymentStatus, orderStatus string) error {
	applied, p, err := s.repo.TransitionFromPending(ctx, intentID, paymentStatus)
	if errors.Is(err, ErrNotFound) {
		// No local payment for this intent. Ack so the processor does
		// not retry forever, but leave a trace.
		s.log.Warn().Str("payment_intent_id", intentID).Msg("webhook for unknown payment intent")
		return nil
	}
	if err != nil {
		return apperr.Persistence("transition payment", err)
	}
	if !applied {
		// Duplicate delivery; the first one already did the work.
		return nil
	}
	if _, err := s.orders.UpdateStatus(ctx, p.OrderID, orderStatus); err != nil {
		return err
	}
	return nil
}
