package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"delicias-urbanas/internal/domain"
	"delicias-urbanas/internal/repository/history"
	"delicias-urbanas/internal/service/cart"
	"delicias-urbanas/internal/service/schedule"
	"delicias-urbanas/internal/whatsapp"
)

var art = time.FixedZone("ART", -3*60*60)

type failingStore struct {
	getErr error
	setErr error
	sets   int
}

func (f *failingStore) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, f.getErr
}

func (f *failingStore) Set(_ context.Context, _ string, _ []byte) error {
	f.sets++
	return f.setErr
}

type fixture struct {
	svc   *Service
	carts *cart.Service
	store history.Store
	ids   []string
}

func newFixture(t *testing.T, store history.Store) *fixture {
	t.Helper()
	// Monday noon.
	now := func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, art) }
	f := &fixture{carts: cart.New(now), store: store}
	f.svc = New(store, f.carts, schedule.NewValidator(art), whatsapp.New("5493875020884"), nil)
	f.svc.now = now
	seq := 0
	f.svc.newID = func() (string, error) {
		if seq < len(f.ids) {
			id := f.ids[seq]
			seq++
			return id, nil
		}
		seq++
		return strings.Repeat("Z", 8) + string(rune('A'+seq%26)), nil
	}
	return f
}

func (f *fixture) fillCart(t *testing.T, session string) {
	t.Helper()
	c := f.carts.Cart(session)
	chicken := domain.Product{ID: "p1", Name: "Pollo al Spiedo Entero", Price: 15000, Category: domain.CategoryChicken}
	fries := domain.Product{ID: "g2", Name: "Papas Fritas", Price: 4000, Category: domain.CategorySides}
	for _, p := range []domain.Product{chicken, fries, fries} {
		if _, err := c.AddProduct(p); err != nil {
			t.Fatalf("add product: %v", err)
		}
	}
}

func validDetails() domain.OrderDetails {
	return domain.OrderDetails{CustomerName: " Ana ", Phone: "3875551234", PickupTime: "13:00"}
}

func TestCheckoutCreatesPendingOrder(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	f.ids = []string{"K3J9Q2M7X"}
	f.fillCart(t, "s1")

	receipt, err := f.svc.Checkout(context.Background(), "s1", validDetails())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	o := receipt.Order
	if o.ID != "K3J9Q2M7X" || o.Total != 23000 || o.Status != domain.StatusPending {
		t.Fatalf("unexpected order %+v", o)
	}
	if o.Details.CustomerName != "Ana" || o.Details.PaymentMethod != domain.PaymentCash {
		t.Fatalf("expected normalized details, got %+v", o.Details)
	}
	if o.Timestamp != time.Date(2024, 6, 3, 12, 0, 0, 0, art).UnixMilli() {
		t.Fatalf("unexpected timestamp %d", o.Timestamp)
	}
	if f.carts.Cart("s1").Count() != 0 {
		t.Fatalf("expected cart cleared after checkout")
	}

	u, err := url.Parse(receipt.WhatsAppURL)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if !strings.Contains(u.Query().Get("text"), "💰 *TOTAL: $23.000*") {
		t.Fatalf("expected total in message, got %q", u.Query().Get("text"))
	}

	raw, err := f.store.Get(context.Background(), HistoryKey)
	if err != nil {
		t.Fatalf("history not persisted: %v", err)
	}
	var persisted []domain.Order
	if err := json.Unmarshal(raw, &persisted); err != nil || len(persisted) != 1 || persisted[0].ID != o.ID {
		t.Fatalf("unexpected persisted history %s err=%v", raw, err)
	}
}

func TestCheckoutPrependsNewestFirst(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	f.ids = []string{"AAAAAAAAA", "BBBBBBBBB"}
	for range 2 {
		f.fillCart(t, "s1")
		if _, err := f.svc.Checkout(context.Background(), "s1", validDetails()); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	}
	list := f.svc.List("s1")
	if len(list) != 2 || list[0].ID != "BBBBBBBBB" || list[1].ID != "AAAAAAAAA" {
		t.Fatalf("expected newest first, got %+v", list)
	}
	if f.svc.ActiveCount("s1") != 2 {
		t.Fatalf("expected 2 active orders, got %d", f.svc.ActiveCount("s1"))
	}
}

func TestCheckoutRejections(t *testing.T) {
	cases := []struct {
		name    string
		details func(d *domain.OrderDetails)
		fill    bool
		want    error
	}{
		{name: "empty cart", details: func(*domain.OrderDetails) {}, want: ErrEmptyCart},
		{name: "blank name", details: func(d *domain.OrderDetails) { d.CustomerName = "  " }, fill: true, want: ErrNameRequired},
		{name: "blank phone", details: func(d *domain.OrderDetails) { d.Phone = "" }, fill: true, want: ErrPhoneRequired},
		{name: "bad payment", details: func(d *domain.OrderDetails) { d.PaymentMethod = "cheque" }, fill: true, want: ErrInvalidPayment},
		{name: "closed hours", details: func(d *domain.OrderDetails) { d.PickupTime = "16:00" }, fill: true, want: schedule.ErrClosedHours},
		{name: "missing time", details: func(d *domain.OrderDetails) { d.PickupTime = "" }, fill: true, want: schedule.ErrTimeRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, history.NewMemory())
			if tc.fill {
				f.fillCart(t, "s1")
			}
			d := validDetails()
			tc.details(&d)

			_, err := f.svc.Checkout(context.Background(), "s1", d)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %T", err)
			}
			if tc.fill && f.carts.Cart("s1").Count() != 3 {
				t.Fatalf("expected cart untouched on rejection")
			}
			if len(f.svc.List("s1")) != 0 {
				t.Fatalf("expected no order recorded")
			}
		})
	}
}

func TestCheckoutRejectsSunday(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	sunday := time.Date(2024, 6, 2, 12, 0, 0, 0, art)
	f.svc.now = func() time.Time { return sunday }
	f.fillCart(t, "s1")

	_, err := f.svc.Checkout(context.Background(), "s1", validDetails())
	if !errors.Is(err, schedule.ErrClosedDay) {
		t.Fatalf("expected closed day, got %v", err)
	}
	var v domain.ValidationError
	if !errors.As(err, &v) || v.Message != schedule.Reason(schedule.ErrClosedDay) {
		t.Fatalf("expected customer-facing reason, got %v", err)
	}
	if !errors.Is(f.svc.CheckDay(), schedule.ErrClosedDay) {
		t.Fatalf("expected CheckDay to report sunday")
	}
}

func TestCancelLeavesOthersUntouched(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	f.ids = []string{"AAAAAAAAA", "BBBBBBBBB", "CCCCCCCCC"}
	for range 3 {
		f.fillCart(t, "s1")
		if _, err := f.svc.Checkout(context.Background(), "s1", validDetails()); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	}
	before := f.svc.List("s1")

	receipt, err := f.svc.Cancel(context.Background(), "s1", "BBBBBBBBB")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if receipt.Order.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", receipt.Order.Status)
	}
	u, _ := url.Parse(receipt.WhatsAppURL)
	if !strings.Contains(u.Query().Get("text"), "🆔 *Orden:* #BBBBBB") {
		t.Fatalf("expected short id in cancel message, got %q", u.Query().Get("text"))
	}

	after := f.svc.List("s1")
	for i := range after {
		if after[i].ID == "BBBBBBBBB" {
			continue
		}
		if after[i].Status != before[i].Status || after[i].ID != before[i].ID {
			t.Fatalf("order %s changed: %+v", after[i].ID, after[i])
		}
	}
	if f.svc.ActiveCount("s1") != 2 {
		t.Fatalf("expected 2 active, got %d", f.svc.ActiveCount("s1"))
	}

	if _, err := f.svc.Cancel(context.Background(), "s1", "BBBBBBBBB"); err != nil {
		t.Fatalf("second cancel should be accepted: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), "s1", "NOPE"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadRestoresHistory(t *testing.T) {
	store := history.NewMemory()
	orders := []domain.Order{
		{ID: "AAAAAAAAA", SessionID: "s1", Status: domain.StatusPreparing},
		{ID: "BBBBBBBBB", SessionID: "s1", Status: domain.StatusCancelled},
	}
	raw, _ := json.Marshal(orders)
	if err := store.Set(context.Background(), HistoryKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := newFixture(t, store)
	f.svc.Load(context.Background())

	if got := f.svc.List("s1"); len(got) != 2 {
		t.Fatalf("expected 2 orders, got %+v", got)
	}
	if f.svc.ActiveCount("s1") != 1 {
		t.Fatalf("expected preparing order to count as active")
	}
	o, err := f.svc.Get("s1", "BBBBBBBBB")
	if err != nil || o.Status != domain.StatusCancelled {
		t.Fatalf("unexpected get result %+v err=%v", o, err)
	}
}

func TestLoadToleratesBadData(t *testing.T) {
	store := history.NewMemory()
	_ = store.Set(context.Background(), HistoryKey, []byte("{not json"))
	f := newFixture(t, store)
	f.svc.Load(context.Background())
	if len(f.svc.List("s1")) != 0 {
		t.Fatalf("expected empty history on corrupt data")
	}

	f = newFixture(t, &failingStore{getErr: errors.New("down")})
	f.svc.Load(context.Background())
	if len(f.svc.List("s1")) != 0 {
		t.Fatalf("expected empty history when store is down")
	}
}

func TestPersistFailureDoesNotFailCheckout(t *testing.T) {
	store := &failingStore{getErr: domain.ErrNotFound, setErr: errors.New("disk full")}
	f := newFixture(t, store)
	f.fillCart(t, "s1")

	if _, err := f.svc.Checkout(context.Background(), "s1", validDetails()); err != nil {
		t.Fatalf("expected checkout to succeed, got %v", err)
	}
	if store.sets != 1 || len(f.svc.List("s1")) != 1 {
		t.Fatalf("expected one write attempt and one order, got sets=%d", store.sets)
	}
}

func TestUniqueIDRetriesOnCollision(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	f.ids = []string{"AAAAAAAAA", "AAAAAAAAA", "CCCCCCCCC"}
	for range 2 {
		f.fillCart(t, "s1")
		if _, err := f.svc.Checkout(context.Background(), "s1", validDetails()); err != nil {
			t.Fatalf("checkout: %v", err)
		}
	}
	if list := f.svc.List("s1"); list[0].ID != "CCCCCCCCC" {
		t.Fatalf("expected colliding id skipped, got %s", list[0].ID)
	}
}

func TestRandomIDShape(t *testing.T) {
	id, err := randomID()
	if err != nil {
		t.Fatalf("random id: %v", err)
	}
	if len(id) != 9 || strings.Trim(id, idAlphabet) != "" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestCheckoutTotalsPlainAndBundleLines(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	c := f.carts.Cart("s1")
	sandwich := domain.Product{ID: "s1", Name: "Sándwich Jamón y Queso", Price: 1500, Category: domain.CategorySandwiches}
	dozen := domain.Product{
		ID: "d1", Name: "Docena de Sándwiches de Miga", Price: 20000, Category: domain.CategoryPromos,
		Customization: &domain.Customization{Groups: []domain.FlavorGroup{{Title: "Elegí", Limit: 12, Options: []string{"Jamón y Queso"}}}},
	}
	c.AddProduct(sandwich)
	c.AddProduct(sandwich)
	if _, err := c.AddCustomized(dozen, "12x Jamón y Queso"); err != nil {
		t.Fatalf("add bundle: %v", err)
	}

	receipt, err := f.svc.Checkout(context.Background(), "s1", validDetails())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if receipt.Order.Total != 23000 || len(receipt.Order.Items) != 2 {
		t.Fatalf("unexpected order %+v", receipt.Order)
	}
	if len(c.Items()) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestOrdersAreScopedToTheirSession(t *testing.T) {
	f := newFixture(t, history.NewMemory())
	f.ids = []string{"AAAAAAAAA"}
	f.fillCart(t, "s1")
	if _, err := f.svc.Checkout(context.Background(), "s1", validDetails()); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if got := f.svc.List("s2"); len(got) != 0 {
		t.Fatalf("expected other session to see nothing, got %+v", got)
	}
	if f.svc.ActiveCount("s2") != 0 {
		t.Fatalf("expected no active orders for other session")
	}
	if _, err := f.svc.Get("s2", "AAAAAAAAA"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for other session, got %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), "s2", "AAAAAAAAA"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected other session cancel to be rejected, got %v", err)
	}
	o, err := f.svc.Get("s1", "AAAAAAAAA")
	if err != nil || o.Status != domain.StatusPending || o.SessionID != "s1" {
		t.Fatalf("expected owner's order untouched, got %+v err=%v", o, err)
	}
}

func TestLoadSkipsMalformedOrders(t *testing.T) {
	store := history.NewMemory()
	sandwich := domain.Product{ID: "s1", Name: "Sándwich", Price: 1500}
	orders := []domain.Order{
		{ID: "AAAAAAAAA", SessionID: "s1", Status: domain.StatusPending, Items: []domain.LineItem{domain.NewPlainItem(sandwich)}},
		{ID: "BBBBBBBBB", SessionID: "s1", Status: domain.StatusPending, Items: []domain.LineItem{
			{ID: "s1", Kind: domain.LinePlain, Product: sandwich, Quantity: 1, Flavors: "12x Jamón"},
		}},
		{ID: "CCCCCCCCC", Status: domain.StatusPending},
	}
	raw, _ := json.Marshal(orders)
	if err := store.Set(context.Background(), HistoryKey, raw); err != nil {
		t.Fatalf("seed: %v", err)
	}

	f := newFixture(t, store)
	f.svc.Load(context.Background())

	got := f.svc.List("s1")
	if len(got) != 1 || got[0].ID != "AAAAAAAAA" {
		t.Fatalf("expected only the well-formed order, got %+v", got)
	}
}
