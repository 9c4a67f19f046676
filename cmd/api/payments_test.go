package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	ord "github.com/HANSBIANDJI/bksmell/internal/order"
	pay "github.com/HANSBIANDJI/bksmell/internal/payment"
)

//
// ---------- STUBS & FAKES ----------
//

// memPaymentRepo implements pay.Repository in memory.
type memPaymentRepo struct {
	mu       sync.Mutex
	byIntent map[string]*pay.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{byIntent: make(map[string]*pay.Payment)}
}

func (r *memPaymentRepo) Create(ctx context.Context, p *pay.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.byIntent[p.PaymentIntentID] = &cp
	return nil
}

func (r *memPaymentRepo) GetByID(ctx context.Context, id string) (*pay.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byIntent {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, pay.ErrNotFound
}

func (r *memPaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*pay.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byIntent[intentID]
	if !ok {
		return nil, pay.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPaymentRepo) TransitionFromPending(ctx context.Context, intentID, newStatus string) (bool, *pay.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byIntent[intentID]
	if !ok {
		return false, nil, pay.ErrNotFound
	}
	if p.Status != pay.StatusPending {
		cp := *p
		return false, &cp, nil
	}
	p.Status = newStatus
	cp := *p
	return true, &cp, nil
}

// newProcessorServer fakes the processor's payment_intents endpoint and
// records the last form it received.
func newProcessorServer(t *testing.T) (*httptest.Server, *map[string]string) {
	t.Helper()
	last := map[string]string{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/payment_intents", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, `{"error":"bad form"}`, http.StatusBadRequest)
			return
		}
		for k, v := range r.PostForm {
			last[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_test_1",
			"client_secret": "pi_test_1_secret",
			"amount":        350000,
			"status":        "requires_payment_method",
		})
	})
	return httptest.NewServer(mux), &last
}

const webhookSecret = "whsec_handlers"

func newPaymentStack(t *testing.T) (*pay.Service, *memPaymentRepo, *stubOrderRepo, *map[string]string, func()) {
	t.Helper()
	psrv, lastForm := newProcessorServer(t)
	orderRepo := &stubOrderRepo{}
	orders := ord.NewService(orderRepo, noopNotifier{})
	repo := newMemPaymentRepo()
	svc := pay.NewService(repo, orders, pay.NewStripeClient(psrv.URL, "sk_test"), webhookSecret, zerolog.Nop())
	return svc, repo, orderRepo, lastForm, psrv.Close
}

func signedWebhook(payload []byte) *http.Request {
	ts := time.Now().Unix()
	sig := fmt.Sprintf("t=%d,v1=%s", ts, pay.ComputeSignature(ts, payload, webhookSecret))
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", sig)
	return req
}

func succeededPayload(intentID, orderID string) []byte {
	b, _ := json.Marshal(map[string]any{
		"id":   "evt_h1",
		"type": "payment_intent.succeeded",
		"data": map[string]any{"object": map[string]any{
			"id":       intentID,
			"amount":   350000,
			"metadata": map[string]string{"orderId": orderID},
		}},
	})
	return b
}

//
// ---------- TESTS ----------
//

func TestCreatePaymentIntent(t *testing.T) {
	t.Parallel()

	svc, repo, _, lastForm, done := newPaymentStack(t)
	defer done()

	r := gin.New()
	r.POST("/payments/intent", createPaymentIntentHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/intent",
		bytes.NewBufferString(`{"orderId":"order-1","amount":3500}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	// Processor saw minor currency units.
	if (*lastForm)["amount"] != "350000" {
		t.Fatalf("processor amount=%s, expected 350000", (*lastForm)["amount"])
	}
	if (*lastForm)["metadata[orderId]"] != "order-1" {
		t.Fatalf("processor metadata missing orderId: %v", *lastForm)
	}
	p, err := repo.GetByIntentID(context.Background(), "pi_test_1")
	if err != nil {
		t.Fatalf("payment not persisted: %v", err)
	}
	if p.Status != pay.StatusPending {
		t.Fatalf("status=%s, expected PENDING", p.Status)
	}
	var res pay.IntentResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if res.ClientSecret != "pi_test_1_secret" {
		t.Fatalf("clientSecret=%s", res.ClientSecret)
	}
}

func TestWebhook_SucceededMovesOrderToProcessing(t *testing.T) {
	t.Parallel()

	svc, repo, orderRepo, _, done := newPaymentStack(t)
	defer done()

	orderRepo.lastOrder = &ord.Order{ID: "order-1", Status: ord.StatusPending, Total: "3500", DeliveryFee: "1000"}
	_ = repo.Create(context.Background(), &pay.Payment{
		ID: "pm-1", OrderID: "order-1", Amount: "3500",
		Status: pay.StatusPending, Provider: "stripe", PaymentIntentID: "pi_test_1",
	})

	r := gin.New()
	r.POST("/payments/webhook", paymentWebhookHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhook(succeededPayload("pi_test_1", "order-1")))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	p, _ := repo.GetByIntentID(context.Background(), "pi_test_1")
	if p.Status != pay.StatusSucceeded {
		t.Fatalf("payment status=%s, expected SUCCEEDED", p.Status)
	}
	if orderRepo.lastOrder.Status != ord.StatusProcessing {
		t.Fatalf("order status=%s, expected PROCESSING", orderRepo.lastOrder.Status)
	}
}

func TestWebhook_DuplicateDelivery(t *testing.T) {
	t.Parallel()

	svc, repo, orderRepo, _, done := newPaymentStack(t)
	defer done()

	orderRepo.lastOrder = &ord.Order{ID: "order-1", Status: ord.StatusPending, Total: "3500", DeliveryFee: "1000"}
	_ = repo.Create(context.Background(), &pay.Payment{
		ID: "pm-1", OrderID: "order-1", Amount: "3500",
		Status: pay.StatusPending, Provider: "stripe", PaymentIntentID: "pi_test_1",
	})

	r := gin.New()
	r.POST("/payments/webhook", paymentWebhookHandler(svc))

	payload := succeededPayload("pi_test_1", "order-1")
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, signedWebhook(payload))
		if w.Code != http.StatusOK {
			t.Fatalf("delivery %d: status=%d body=%s", i, w.Code, w.Body.String())
		}
	}
	// Push the order somewhere else, redeliver, and check the webhook
	// does not drag it back: the transition ran exactly once.
	orderRepo.lastOrder.Status = ord.StatusShipped
	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhook(payload))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if orderRepo.lastOrder.Status != ord.StatusShipped {
		t.Fatalf("duplicate delivery re-applied the transition: %s", orderRepo.lastOrder.Status)
	}
}

func TestWebhook_BadSignature(t *testing.T) {
	t.Parallel()

	svc, repo, orderRepo, _, done := newPaymentStack(t)
	defer done()

	orderRepo.lastOrder = &ord.Order{ID: "order-1", Status: ord.StatusPending, Total: "3500", DeliveryFee: "1000"}
	_ = repo.Create(context.Background(), &pay.Payment{
		ID: "pm-1", OrderID: "order-1", Amount: "3500",
		Status: pay.StatusPending, Provider: "stripe", PaymentIntentID: "pi_test_1",
	})

	r := gin.New()
	r.POST("/payments/webhook", paymentWebhookHandler(svc))

	req := httptest.NewRequest(http.MethodPost, "/payments/webhook",
		bytes.NewReader(succeededPayload("pi_test_1", "order-1")))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	p, _ := repo.GetByIntentID(context.Background(), "pi_test_1")
	if p.Status != pay.StatusPending {
		t.Fatalf("payment mutated on bad signature: %s", p.Status)
	}
	if orderRepo.lastOrder.Status != ord.StatusPending {
		t.Fatalf("order mutated on bad signature: %s", orderRepo.lastOrder.Status)
	}
}

func TestWebhook_UnknownIntentAcked(t *testing.T) {
	t.Parallel()

	svc, _, orderRepo, _, done := newPaymentStack(t)
	defer done()

	r := gin.New()
	r.POST("/payments/webhook", paymentWebhookHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, signedWebhook(succeededPayload("pi_ghost", "order-x")))

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (expected 200 ack)", w.Code, w.Body.String())
	}
	if orderRepo.lastOrder != nil {
		t.Fatalf("state changed for unknown intent")
	}
}

func TestPaymentStatus(t *testing.T) {
	t.Parallel()

	svc, repo, _, _, done := newPaymentStack(t)
	defer done()

	_ = repo.Create(context.Background(), &pay.Payment{
		ID: "pm-1", OrderID: "order-1", Amount: "3500",
		Status: pay.StatusPending, Provider: "stripe", PaymentIntentID: "pi_test_1",
	})

	r := gin.New()
	r.GET("/payments/:id/status", paymentStatusHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/pm-1/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/missing/status", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (expected 404)", w.Code, w.Body.String())
	}
}

func TestPaymentMethods(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/payments/methods", paymentMethodsHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments/methods", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var methods []pay.Method
	if err := json.Unmarshal(w.Body.Bytes(), &methods); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(methods) == 0 {
		t.Fatalf("no payment methods returned")
	}
}
