package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ord "github.com/HANSBIANDJI/bksmell/internal/order"
)

//
// ---------- STUBS & FAKES ----------
//

// stubOrderRepo implements ord.Repository in memory.
type stubOrderRepo struct {
	lastOrder *ord.Order
	lastItems []ord.Item
	lastAddr  *ord.Address
}

func (s *stubOrderRepo) Create(ctx context.Context, o *ord.Order, items []ord.Item, addr *ord.Address) error {
	cp := *o
	s.lastOrder = &cp
	s.lastItems = append([]ord.Item(nil), items...)
	a := *addr
	s.lastAddr = &a
	return nil
}

func (s *stubOrderRepo) GetByID(ctx context.Context, id string) (*ord.Order, error) {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return nil, ord.ErrNotFound
	}
	cp := *s.lastOrder
	cp.Items = append([]ord.Item(nil), s.lastItems...)
	cp.Address = s.lastAddr
	return &cp, nil
}

func (s *stubOrderRepo) List(ctx context.Context, limit, offset int) ([]ord.Order, error) {
	if s.lastOrder == nil {
		return []ord.Order{}, nil
	}
	return []ord.Order{*s.lastOrder}, nil
}

func (s *stubOrderRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ord.Order, error) {
	if s.lastOrder != nil && s.lastOrder.UserID == userID {
		return []ord.Order{*s.lastOrder}, nil
	}
	return []ord.Order{}, nil
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if s.lastOrder == nil || s.lastOrder.ID != id {
		return ord.ErrNotFound
	}
	s.lastOrder.Status = status
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Broadcast(event string, payload any) {}

//
// ---------- TESTS ----------
//

func TestCreateOrder_HappyPath(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{}
	svc := ord.NewService(repo, noopNotifier{})

	r := gin.New()
	r.POST("/orders", createOrderHandler(svc))

	body := `{
		"items": [
			{"perfume_id": "` + uuid.NewString() + `", "quantity": 2, "price": "1000"},
			{"perfume_id": "` + uuid.NewString() + `", "quantity": 1, "price": "500"}
		],
		"shipping_address": {"street": "12 Rue des Jardins", "city": "Abidjan", "country": "CI"},
		"delivery_fee": "1000"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got ord.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Total != "3500" {
		t.Fatalf("total=%s, expected 3500", got.Total)
	}
	if got.Status != ord.StatusPending {
		t.Fatalf("status=%s, expected PENDING", got.Status)
	}
	if repo.lastOrder == nil || len(repo.lastItems) != 2 || repo.lastAddr == nil {
		t.Fatalf("order/items/address not persisted")
	}
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	t.Parallel()

	svc := ord.NewService(&stubOrderRepo{}, noopNotifier{})
	r := gin.New()
	r.POST("/orders", createOrderHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{"items":[],"delivery_fee":"0"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	t.Parallel()

	svc := ord.NewService(&stubOrderRepo{}, noopNotifier{})
	r := gin.New()
	r.GET("/orders/:id", getOrderHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d body=%s (expected 404)", w.Code, w.Body.String())
	}
}

func TestUpdateOrderStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	repo := &stubOrderRepo{
		lastOrder: &ord.Order{ID: oid, Status: ord.StatusPending, Total: "3500", DeliveryFee: "1000"},
	}
	svc := ord.NewService(repo, noopNotifier{})
	r := gin.New()
	r.PATCH("/orders/:id/status", updateOrderStatusHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+oid+"/status", bytes.NewBufferString(`{"status":"wtf"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s (expected 400)", w.Code, w.Body.String())
	}
	if repo.lastOrder.Status != ord.StatusPending {
		t.Fatalf("status mutated on invalid input: %s", repo.lastOrder.Status)
	}
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	addr := &ord.Address{ID: uuid.NewString(), OrderID: oid, Street: "s", City: "c", Country: "CI"}
	repo := &stubOrderRepo{
		lastOrder: &ord.Order{ID: oid, Status: ord.StatusPending, Total: "3500", DeliveryFee: "1000"},
		lastItems: []ord.Item{{ID: uuid.NewString(), OrderID: oid, PerfumeID: uuid.NewString(), Quantity: 2, Price: "1000"}},
		lastAddr:  addr,
	}
	svc := ord.NewService(repo, noopNotifier{})
	r := gin.New()
	r.POST("/orders/:id/cancel", cancelOrderHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/orders/"+oid+"/cancel", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (expected 200)", w.Code, w.Body.String())
	}
	var got ord.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Status != ord.StatusCancelled {
		t.Fatalf("status=%s, expected CANCELLED", got.Status)
	}
	if got.Total != "3500" || len(got.Items) != 1 || got.Address == nil {
		t.Fatalf("cancel must not touch total/items/address: %s", w.Body.String())
	}
}

func TestListOrders(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{
		lastOrder: &ord.Order{ID: uuid.NewString(), Status: ord.StatusPending, Total: "50.00", DeliveryFee: "0"},
	}
	svc := ord.NewService(repo, noopNotifier{})
	r := gin.New()
	r.GET("/orders", listOrdersHandler(svc))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/orders?limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s (expected 200)", w.Code, w.Body.String())
	}
	var arr []ord.Order
	if err := json.Unmarshal(w.Body.Bytes(), &arr); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(arr) != 1 {
		t.Fatalf("len=%d, expected 1. body=%s", len(arr), w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
}
