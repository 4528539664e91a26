package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"onlinestore/internal/domain"
	cartsvc "onlinestore/internal/service/cart"
)

const validLineID = "b81bc81b-dead-4e5d-abff-90865d1e13b2"

type fakeCartStore struct {
	carts   map[string]*domain.Cart
	byUser  map[string]*domain.Cart
	product *domain.Product
	cleared int
}

func (f *fakeCartStore) Create(_ context.Context, userID string) (*domain.Cart, error) {
	cart := &domain.Cart{ID: "new-cart", UserID: userID}
	f.byUser[userID] = cart
	return cart, nil
}

func (f *fakeCartStore) GetByID(_ context.Context, id string) (*domain.Cart, error) {
	if cart, ok := f.carts[id]; ok {
		return cart, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCartStore) GetCurrentByUser(_ context.Context, userID string) (*domain.Cart, error) {
	if cart, ok := f.byUser[userID]; ok {
		return cart, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCartStore) UpsertLine(_ context.Context, cartID, productID string, qty int) error {
	cart, ok := f.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	if cart.IsOrder() {
		return domain.ErrInvalidState
	}
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == productID {
			cart.Lines[i].Quantity += qty
			return nil
		}
	}
	cart.Lines = append(cart.Lines, domain.CartLine{
		ID: validLineID, CartID: cartID, ProductID: productID, Quantity: qty, PriceCents: f.product.PriceCents,
	})
	return nil
}

func (f *fakeCartStore) findLine(lineID string) (*domain.Cart, int) {
	for _, cart := range f.carts {
		for i := range cart.Lines {
			if cart.Lines[i].ID == lineID {
				return cart, i
			}
		}
	}
	return nil, -1
}

func (f *fakeCartStore) DeleteLine(_ context.Context, lineID string) (bool, error) {
	cart, i := f.findLine(lineID)
	if cart == nil {
		return false, nil
	}
	if cart.IsOrder() {
		return false, domain.ErrInvalidState
	}
	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	return true, nil
}

func (f *fakeCartStore) SetLineQuantity(_ context.Context, lineID string, qty int) error {
	cart, i := f.findLine(lineID)
	if cart == nil {
		return domain.ErrNotFound
	}
	if cart.IsOrder() {
		return domain.ErrInvalidState
	}
	cart.Lines[i].Quantity = qty
	return nil
}

func (f *fakeCartStore) ClearLines(_ context.Context, _ string) (int, error) {
	return f.cleared, nil
}

// GetByID on the product side of the cart service.
type fakeProductReader struct {
	product *domain.Product
}

func (f *fakeProductReader) GetByID(_ context.Context, _ string) (*domain.Product, error) {
	if f.product == nil {
		return nil, domain.ErrNotFound
	}
	return f.product, nil
}

func newCartFixture() (*fakeCartStore, Deps) {
	product := &domain.Product{ID: validID, Name: "Widget", PriceCents: 500, Stock: 10}
	store := &fakeCartStore{
		carts:   map[string]*domain.Cart{validID: {ID: validID, UserID: "u1"}},
		byUser:  map[string]*domain.Cart{},
		product: product,
	}
	svc := cartsvc.New(store, &fakeProductReader{product: product})
	return store, Deps{CartSvc: svc}
}

func TestGetCartCreatesWhenMissing(t *testing.T) {
	store, deps := newCartFixture()
	router := testRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/carts/"+validID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := store.byUser[validID]; !ok {
		t.Fatalf("expected a cart created for the user")
	}
	if !strings.Contains(rec.Body.String(), `"totalPriceCents":0`) {
		t.Fatalf("expected zero total for a fresh cart, got %s", rec.Body.String())
	}
}

func TestAddCartItemIncrementsExistingLine(t *testing.T) {
	store, deps := newCartFixture()
	router := testRouter(t, deps)

	body := `{"cartId":"` + validID + `","productId":"` + validID + `","quantity":2}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/carts/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	cart := store.carts[validID]
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 4 {
		t.Fatalf("expected one line with quantity 4, got %+v", cart.Lines)
	}
}

func TestAddCartItemRejectsNonPositiveQuantity(t *testing.T) {
	_, deps := newCartFixture()
	router := testRouter(t, deps)

	body := `{"cartId":"` + validID + `","productId":"` + validID + `","quantity":0}`
	req := httptest.NewRequest(http.MethodPost, "/carts/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddCartItemToCheckedOutCart(t *testing.T) {
	store, deps := newCartFixture()
	pending := domain.StatusPending
	store.carts[validID].Status = &pending
	router := testRouter(t, deps)

	body := `{"cartId":"` + validID + `","productId":"` + validID + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/carts/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for checked-out cart, got %d", rec.Code)
	}
}

func TestAddCartItemBadIDs(t *testing.T) {
	_, deps := newCartFixture()
	router := testRouter(t, deps)

	body := `{"cartId":"nope","productId":"` + validID + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/carts/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateCartItemUnknownLine(t *testing.T) {
	_, deps := newCartFixture()
	router := testRouter(t, deps)

	body := `{"lineItemId":"` + validLineID + `","quantity":2}`
	req := httptest.NewRequest(http.MethodPut, "/carts/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateCartItemOnOrderIsRejected(t *testing.T) {
	store, deps := newCartFixture()
	pending := domain.StatusPending
	cart := store.carts[validID]
	cart.Lines = []domain.CartLine{{ID: validLineID, CartID: validID, ProductID: validID, Quantity: 3, PriceCents: 500}}
	cart.Status = &pending
	router := testRouter(t, deps)

	// Overwriting the quantity after checkout would make reject restock a
	// quantity that was never reserved.
	body := `{"lineItemId":"` + validLineID + `","quantity":5}`
	req := httptest.NewRequest(http.MethodPut, "/carts/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for line on an order, got %d", rec.Code)
	}
	if cart.Lines[0].Quantity != 3 {
		t.Fatalf("order line must be untouched, got quantity %d", cart.Lines[0].Quantity)
	}
}

func TestRemoveCartItemOnOrderIsRejected(t *testing.T) {
	store, deps := newCartFixture()
	pending := domain.StatusPending
	cart := store.carts[validID]
	cart.Lines = []domain.CartLine{{ID: validLineID, CartID: validID, ProductID: validID, Quantity: 3, PriceCents: 500}}
	cart.Status = &pending
	router := testRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/carts/items/"+validLineID, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for line on an order, got %d", rec.Code)
	}
	if len(cart.Lines) != 1 {
		t.Fatalf("order line must not be deleted")
	}
}

func TestRemoveCartItem(t *testing.T) {
	store, deps := newCartFixture()
	cart := store.carts[validID]
	cart.Lines = []domain.CartLine{{ID: validLineID, CartID: validID, ProductID: validID, Quantity: 3, PriceCents: 500}}
	router := testRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/carts/items/"+validLineID, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"removed":true`) {
		t.Fatalf("expected removed=true, got %s", rec.Body.String())
	}
	if len(cart.Lines) != 0 {
		t.Fatalf("line must be deleted")
	}
}

func TestClearCartReportsWhetherAnythingRemoved(t *testing.T) {
	store, deps := newCartFixture()
	store.byUser[validID] = &domain.Cart{ID: "c-cur", UserID: validID}
	store.cleared = 0
	router := testRouter(t, deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/carts/"+validID+"/clear", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"cleared":false`) {
		t.Fatalf("expected cleared=false for empty cart, got %s", rec.Body.String())
	}
}
