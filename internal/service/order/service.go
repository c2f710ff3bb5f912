package order

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"delicias-urbanas/internal/domain"
	"delicias-urbanas/internal/repository/history"
	"delicias-urbanas/internal/service/cart"
	"delicias-urbanas/internal/service/schedule"
	"delicias-urbanas/internal/whatsapp"
)

// HistoryKey is where the order list lives in the key-value store.
const HistoryKey = "delicias_urbanas_orders"

const (
	idLength   = 9
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idAttempts = 8
)

var (
	ErrNameRequired   = domain.NewValidationError("Ingresá tu nombre")
	ErrPhoneRequired  = domain.NewValidationError("Ingresá tu teléfono")
	ErrInvalidPayment = domain.NewValidationError("Método de pago inválido")
	ErrEmptyCart      = domain.NewValidationError("El carrito está vacío")
)

// Carts resolves a session to its cart.
type Carts interface {
	Cart(sessionID string) *cart.Store
}

// Receipt is an order together with the chat link that notifies the shop.
type Receipt struct {
	Order       domain.Order `json:"order"`
	WhatsAppURL string       `json:"whatsappUrl"`
}

type Service struct {
	mu     sync.Mutex
	orders []domain.Order

	store  history.Store
	carts  Carts
	pickup *schedule.Validator
	chat   *whatsapp.Composer
	logger *log.Logger

	now   func() time.Time
	newID func() (string, error)
}

func New(store history.Store, carts Carts, pickup *schedule.Validator, chat *whatsapp.Composer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		store:  store,
		carts:  carts,
		pickup: pickup,
		chat:   chat,
		logger: logger,
		now:    time.Now,
		newID:  randomID,
	}
}

// Load reads the persisted history once. Missing or unreadable data
// starts an empty history.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil

	raw, err := s.store.Get(ctx, HistoryKey)
	if errors.Is(err, domain.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Printf("orders: load failed err=%v", err)
		return
	}
	var orders []domain.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		s.logger.Printf("orders: discarding unreadable history err=%v", err)
		return
	}
	kept := orders[:0]
	for _, o := range orders {
		if err := validOrder(o); err != nil {
			s.logger.Printf("orders: skipping stored order id=%s err=%v", o.ID, err)
			continue
		}
		kept = append(kept, o)
	}
	s.orders = kept
	s.logger.Printf("orders: loaded count=%d", len(kept))
}

// ValidatePickup checks a requested pickup time against the current clock.
func (s *Service) ValidatePickup(pickup string) error {
	return s.pickup.Validate(s.now(), pickup)
}

// CheckDay reports whether orders are taken today at all.
func (s *Service) CheckDay() error {
	return s.pickup.CheckDay(s.now())
}

// Checkout turns the session's cart into a pending order and empties the cart.
func (s *Service) Checkout(ctx context.Context, sessionID string, details domain.OrderDetails) (*Receipt, error) {
	details.CustomerName = strings.TrimSpace(details.CustomerName)
	details.Phone = strings.TrimSpace(details.Phone)
	details.PickupTime = strings.TrimSpace(details.PickupTime)
	details.Notes = strings.TrimSpace(details.Notes)

	if details.CustomerName == "" {
		return nil, ErrNameRequired
	}
	if details.Phone == "" {
		return nil, ErrPhoneRequired
	}
	method, ok := domain.ParsePaymentMethod(string(details.PaymentMethod))
	if !ok {
		return nil, ErrInvalidPayment
	}
	details.PaymentMethod = method

	now := s.now()
	if err := s.pickup.Validate(now, details.PickupTime); err != nil {
		return nil, pickupError(err)
	}

	var created domain.Order
	err := s.carts.Cart(sessionID).Checkout(func(items []domain.LineItem, total int64) error {
		s.mu.Lock()
		defer s.mu.Unlock()

		id, err := s.uniqueIDLocked()
		if err != nil {
			return err
		}
		created = domain.Order{
			ID:        id,
			SessionID: sessionID,
			Details:   details,
			Items:     items,
			Total:     total,
			Timestamp: now.UnixMilli(),
			Status:    domain.StatusPending,
		}
		s.orders = append([]domain.Order{created}, s.orders...)
		s.persistLocked(ctx)
		return nil
	})
	if errors.Is(err, cart.ErrEmptyCart) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}

	s.logger.Printf("orders: created id=%s total=%d lines=%d pickup=%s", created.ID, created.Total, len(created.Items), created.Details.PickupTime)
	return &Receipt{Order: created, WhatsAppURL: s.chat.OrderLink(created)}, nil
}

// Cancel marks one of the session's orders cancelled. Cancelling twice is
// allowed; orders of other sessions are reported as not found.
func (s *Service) Cancel(ctx context.Context, sessionID, id string) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.ownedIndexLocked(sessionID, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	s.orders[idx].Status = domain.StatusCancelled
	s.persistLocked(ctx)

	o := s.orders[idx]
	s.logger.Printf("orders: cancelled id=%s", o.ID)
	return &Receipt{Order: o, WhatsAppURL: s.chat.CancelLink(o)}, nil
}

// List returns the session's history, newest first.
func (s *Service) List(sessionID string) []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	return out
}

func (s *Service) Get(sessionID, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.ownedIndexLocked(sessionID, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	o := s.orders[idx]
	return &o, nil
}

// ActiveCount is the number of the session's orders still waiting for pickup.
func (s *Service) ActiveCount(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.orders {
		if o.SessionID == sessionID && o.Status.Active() {
			n++
		}
	}
	return n
}

func (s *Service) indexLocked(id string) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) ownedIndexLocked(sessionID, id string) int {
	idx := s.indexLocked(id)
	if idx < 0 || s.orders[idx].SessionID != sessionID {
		return -1
	}
	return idx
}

func validOrder(o domain.Order) error {
	if o.ID == "" || o.SessionID == "" {
		return errors.New("missing id or session")
	}
	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) uniqueIDLocked() (string, error) {
	for range idAttempts {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("generate order id: %w", err)
		}
		if s.indexLocked(id) < 0 {
			return id, nil
		}
	}
	return "", errors.New("generate order id: too many collisions")
}

// persistLocked rewrites the whole history. Failures are logged only; the
// in-memory history stays authoritative for this process.
func (s *Service) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.orders)
	if err != nil {
		s.logger.Printf("orders: encode history err=%v", err)
		return
	}
	if err := s.store.Set(context.WithoutCancel(ctx), HistoryKey, raw); err != nil {
		s.logger.Printf("orders: persist history err=%v", err)
	}
}

func pickupError(err error) error {
	return fmt.Errorf("%w: %w", domain.NewValidationError(schedule.Reason(err)), err)
}

func randomID() (string, error) {
	buf := make([]byte, idLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf), nil
}
