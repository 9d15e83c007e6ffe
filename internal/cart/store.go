package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	pkgerrors "github.com/angelmondragon/greenhouse-storefront/pkg/errors"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
	"github.com/angelmondragon/greenhouse-storefront/pkg/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	opRead     = "read"
	opAdd      = "add"
	opUpdate   = "update_quantity"
	opRemove   = "remove"
	opClear    = "clear"
	opTransfer = "transfer"
)

// kvStore is the device-partitioned key-value substrate carts are persisted in.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DeviceKey(deviceID, key string) string
}

// Store maintains one cart per scope.
//
// Every mutation is a read-modify-write of a single key without locking, so two
// callers mutating the same scope concurrently may lose an update.
type Store interface {
	// Read returns the scope's cart, or the empty cart when nothing usable is stored.
	Read(ctx context.Context, scope Scope) Cart
	// Load is Read without collapsing: ErrCartNotFound, *DecodeError or a
	// substrate error are returned as such.
	Load(ctx context.Context, scope Scope) (Cart, error)
	Add(ctx context.Context, scope Scope, product Product, quantity int) (Cart, error)
	UpdateQuantity(ctx context.Context, scope Scope, productID int64, quantity int) (Cart, error)
	Remove(ctx context.Context, scope Scope, productID int64) (Cart, error)
	Clear(ctx context.Context, scope Scope) (Cart, error)
	// TransferGuestCart moves the device's guest cart to the user's key,
	// overwriting whatever the user had there.
	TransferGuestCart(ctx context.Context, deviceID string, userID int64) error
}

// Options tunes persistence and limits.
type Options struct {
	TTL             time.Duration
	MaxLineQuantity int
	Metrics         *metrics.CartMetrics
}

type store struct {
	kv      kvStore
	logg    *logger.Logger
	ttl     time.Duration
	maxQty  int
	metrics *metrics.CartMetrics
}

// NewStore builds a cart store over the provided key-value substrate.
func NewStore(kv kvStore, logg *logger.Logger, opts Options) (Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("cart kv store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("cart ttl must not be negative")
	}
	return &store{
		kv:      kv,
		logg:    logg,
		ttl:     opts.TTL,
		maxQty:  opts.MaxLineQuantity,
		metrics: opts.Metrics,
	}, nil
}

func (s *store) Read(ctx context.Context, scope Scope) Cart {
	c, err := s.current(ctx, scope)
	s.metrics.ObserveOperation(opRead, err)
	if err != nil {
		s.logg.Warn(s.logContext(ctx, scope, err), "cart read failed; serving empty cart")
		return Empty()
	}
	return c
}

func (s *store) Load(ctx context.Context, scope Scope) (Cart, error) {
	if err := validateScope(scope); err != nil {
		return Empty(), err
	}
	raw, err := s.kv.Get(ctx, s.key(scope))
	if errors.Is(err, redis.Nil) {
		return Empty(), ErrCartNotFound
	}
	if err != nil {
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}
	return Decode([]byte(raw))
}

func (s *store) Add(ctx context.Context, scope Scope, product Product, quantity int) (out Cart, err error) {
	defer func() { s.metrics.ObserveOperation(opAdd, err) }()

	if quantity < 1 {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if product.ProductID <= 0 {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if product.Price.IsNegative() {
		return Empty(), pkgerrors.New(pkgerrors.CodeValidation, "product price must not be negative")
	}

	c, err := s.current(ctx, scope)
	if err != nil {
		return Empty(), err
	}
	if err := s.checkMergedQuantity(c, product.ProductID, quantity); err != nil {
		return c, err
	}
	return s.persist(ctx, scope, c.withAdded(product, quantity))
}

func (s *store) UpdateQuantity(ctx context.Context, scope Scope, productID int64, quantity int) (out Cart, err error) {
	defer func() { s.metrics.ObserveOperation(opUpdate, err) }()

	c, err := s.current(ctx, scope)
	if err != nil {
		return Empty(), err
	}
	if _, ok := c.Line(productID); !ok {
		return c, nil
	}
	next := c.withQuantity(productID, quantity)
	if err := s.checkLineLimit(next, productID); err != nil {
		return c, err
	}
	return s.persist(ctx, scope, next)
}

func (s *store) Remove(ctx context.Context, scope Scope, productID int64) (out Cart, err error) {
	defer func() { s.metrics.ObserveOperation(opRemove, err) }()

	c, err := s.current(ctx, scope)
	if err != nil {
		return Empty(), err
	}
	if _, ok := c.Line(productID); !ok {
		return c, nil
	}
	return s.persist(ctx, scope, c.without(productID))
}

func (s *store) Clear(ctx context.Context, scope Scope) (out Cart, err error) {
	defer func() { s.metrics.ObserveOperation(opClear, err) }()

	if err := validateScope(scope); err != nil {
		return Empty(), err
	}
	return s.persist(ctx, scope, Empty())
}

func (s *store) TransferGuestCart(ctx context.Context, deviceID string, userID int64) (err error) {
	defer func() { s.metrics.ObserveOperation(opTransfer, err) }()

	guest := GuestScope(deviceID)
	if err := validateScope(guest); err != nil {
		return err
	}
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user := UserScope(deviceID, userID)
	ctx = s.logg.WithFields(ctx, map[string]any{"device_id": guest.DeviceID, "user_id": userID})

	raw, err := s.kv.Get(ctx, s.key(guest))
	if errors.Is(err, redis.Nil) {
		s.metrics.IncTransfer("skipped")
		return nil
	}
	if err != nil {
		s.metrics.IncTransfer("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read guest cart")
	}

	if err := s.kv.Set(ctx, s.key(user), raw, s.ttl); err != nil {
		s.metrics.IncTransfer("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write user cart")
	}
	if err := s.kv.Del(ctx, s.key(guest)); err != nil {
		s.metrics.IncTransfer("error")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete guest cart")
	}

	s.metrics.IncTransfer("moved")
	s.logg.Info(ctx, "guest cart transferred")
	return nil
}

// current loads the cart for a mutation. Absent and corrupt carts both start
// from empty; substrate failures are returned so an unreadable cart is never
// overwritten.
func (s *store) current(ctx context.Context, scope Scope) (Cart, error) {
	c, err := s.Load(ctx, scope)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, ErrCartNotFound):
		return Empty(), nil
	case IsDecodeError(err):
		s.metrics.IncDecodeFailure()
		s.logg.Warn(s.logContext(ctx, scope, err), "corrupt cart treated as empty")
		return Empty(), nil
	default:
		return Empty(), err
	}
}

func (s *store) persist(ctx context.Context, scope Scope, c Cart) (Cart, error) {
	raw, err := Encode(c)
	if err != nil {
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.key(scope), string(raw), s.ttl); err != nil {
		return Empty(), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write cart")
	}
	return c, nil
}

// checkMergedQuantity validates the quantity a line would hold after adding
// quantity to it, before the addition happens.
func (s *store) checkMergedQuantity(c Cart, productID int64, quantity int) error {
	existing := 0
	if line, ok := c.Line(productID); ok {
		existing = line.Quantity
	}
	if existing > math.MaxInt-quantity {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity is too large").WithDetails(map[string]any{
			"product_id": productID,
		})
	}
	if s.maxQty > 0 && existing+quantity > s.maxQty {
		return s.lineLimitError(productID)
	}
	return nil
}

func (s *store) checkLineLimit(c Cart, productID int64) error {
	if s.maxQty <= 0 {
		return nil
	}
	line, ok := c.Line(productID)
	if !ok || line.Quantity <= s.maxQty {
		return nil
	}
	return s.lineLimitError(productID)
}

func (s *store) lineLimitError(productID int64) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line limit").WithDetails(map[string]any{
		"product_id":   productID,
		"max_quantity": s.maxQty,
	})
}

func (s *store) key(scope Scope) string {
	return s.kv.DeviceKey(scope.DeviceID, scope.Key())
}

func (s *store) logContext(ctx context.Context, scope Scope, err error) context.Context {
	return s.logg.WithFields(ctx, map[string]any{
		"device_id": scope.DeviceID,
		"cart_key":  scope.Key(),
		"error":     err.Error(),
	})
}

func validateScope(scope Scope) error {
	if scope.DeviceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}
	return nil
}
