package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/cart"
	"github.com/fekuna/omnipos-pos-service/internal/catalog"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/order"
	"github.com/fekuna/omnipos-pos-service/internal/pricing"
	"github.com/fekuna/omnipos-pos-service/internal/selection"
	"github.com/fekuna/omnipos-pos-service/internal/settings"
	"github.com/fekuna/omnipos-pos-service/internal/terminal"
	"github.com/fekuna/omnipos-pos-service/internal/terminal/dto"
	"github.com/fekuna/omnipos-pos-service/pkg/apperror"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
	"github.com/fekuna/omnipos-pos-service/pkg/restclient"
)

type Options struct {
	ScanCooldown        time.Duration
	ExpiringWindowDays  int
	FreshCategoryParity bool
}

type terminalUseCase struct {
	catalog  catalog.UseCase
	orders   order.Repository
	settings settings.UseCase
	opts     Options
	metrics  *metrics.Metrics
	logger   logger.ZapLogger
	now      func() time.Time

	mu       sync.Mutex
	stations map[string]*station
}

func NewTerminalUseCase(catalog catalog.UseCase, orders order.Repository, settings settings.UseCase, opts Options, m *metrics.Metrics, log logger.ZapLogger) terminal.UseCase {
	return newTerminalUseCase(catalog, orders, settings, opts, m, log)
}

func newTerminalUseCase(catalog catalog.UseCase, orders order.Repository, settings settings.UseCase, opts Options, m *metrics.Metrics, log logger.ZapLogger) *terminalUseCase {
	return &terminalUseCase{
		catalog:  catalog,
		orders:   orders,
		settings: settings,
		opts:     opts,
		metrics:  m,
		logger:   log,
		now:      time.Now,
		stations: make(map[string]*station),
	}
}

func (uc *terminalUseCase) station(terminalID string) *station {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	st, ok := uc.stations[terminalID]
	if !ok {
		st = newStation(uc.catalog, uc.opts.ExpiringWindowDays)
		uc.stations[terminalID] = st
	}
	return st
}

func (uc *terminalUseCase) log(ctx context.Context, terminalID string) logger.ZapLogger {
	return logger.FromContext(ctx, uc.logger).With(zap.String("terminal_id", terminalID))
}

// record counts an operation outcome. Rejections are labeled by message id.
func (uc *terminalUseCase) record(operation string, err error) {
	if err == nil {
		uc.metrics.RecordCartOperation(operation)
		return
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		uc.metrics.RecordCartRejection(operation, appErr.MessageID)
		return
	}
	uc.metrics.RecordCartRejection(operation, "error")
}

// lookup fetches a product by code, outside any station lock.
func (uc *terminalUseCase) lookup(ctx context.Context, code string) (*model.ProductLookup, error) {
	lookup, err := uc.catalog.LookupByCode(ctx, code)
	if err != nil {
		var apiErr *restclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, terminal.ProductNotFound(code)
		}
		return nil, fmt.Errorf("lookup product %s: %w", code, err)
	}
	if lookup.Product.ID == "" {
		return nil, terminal.ProductNotFound(code)
	}
	if lookup.OutOfStock {
		return nil, terminal.OutOfStock(lookup.Product.Name)
	}
	return lookup, nil
}

// AddProduct handles a product picked on screen. Batch products open the
// selection workflow, which fetches their batches itself.
func (uc *terminalUseCase) AddProduct(ctx context.Context, terminalID, productCode string) (*dto.AddResult, error) {
	lookup, err := uc.lookup(ctx, productCode)
	if err != nil {
		uc.record("add", err)
		return nil, err
	}

	st := uc.station(terminalID)
	if selection.RequiresBatchSelection(&lookup.Product, uc.opts.FreshCategoryParity) {
		err := st.workflow.Begin(ctx, &lookup.Product)
		if errors.Is(err, selection.ErrSuperseded) {
			// a later action owns the workflow now
			err = nil
		}
		uc.record("select_begin", err)
		if err != nil {
			return nil, err
		}
		return uc.selectionResult(ctx, st)
	}

	return uc.addSimple(ctx, terminalID, st, &lookup.Product, "add")
}

// Scan handles a decoded barcode or QR code. Repeats of the same code within
// the cooldown and scans while one is still being looked up are dropped.
func (uc *terminalUseCase) Scan(ctx context.Context, terminalID, code string) (*dto.AddResult, error) {
	st := uc.station(terminalID)

	st.mu.Lock()
	now := uc.now()
	switch {
	case st.scanning:
		st.mu.Unlock()
		uc.record("scan", terminal.ErrScanInFlight)
		return nil, terminal.ErrScanInFlight
	case code == st.lastCode && now.Sub(st.lastScanAt) < uc.opts.ScanCooldown:
		st.mu.Unlock()
		err := terminal.ScanCooldown(code)
		uc.record("scan", err)
		return nil, err
	}
	st.scanning = true
	st.lastCode = code
	st.lastScanAt = now
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.scanning = false
		st.mu.Unlock()
	}()

	lookup, err := uc.lookup(ctx, code)
	if err != nil {
		// a failed lookup did not process the scan, so the cashier may retry at once
		st.mu.Lock()
		if st.lastCode == code && st.lastScanAt.Equal(now) {
			st.lastCode = ""
		}
		st.mu.Unlock()
		uc.record("scan", err)
		return nil, err
	}

	if selection.RequiresBatchSelection(&lookup.Product, uc.opts.FreshCategoryParity) {
		err := st.workflow.Present(&lookup.Product, lookup.Batches)
		uc.record("scan", err)
		if err != nil {
			return nil, err
		}
		return uc.selectionResult(ctx, st)
	}

	return uc.addSimple(ctx, terminalID, st, &lookup.Product, "scan")
}

func (uc *terminalUseCase) addSimple(ctx context.Context, terminalID string, st *station, p *model.Product, operation string) (*dto.AddResult, error) {
	st.mu.Lock()
	if st.checkingOut {
		st.mu.Unlock()
		uc.record(operation, terminal.ErrCheckoutInFlight)
		return nil, terminal.ErrCheckoutInFlight
	}
	line, err := st.cart.AddSimple(p)
	st.mu.Unlock()

	uc.record(operation, err)
	if err != nil {
		uc.log(ctx, terminalID).Debug("add rejected", zap.String("product_id", p.ID), zap.Error(err))
		return nil, err
	}

	view, err := uc.view(ctx, st)
	if err != nil {
		return nil, err
	}
	return &dto.AddResult{Outcome: dto.OutcomeAdded, Line: &line, Cart: view}, nil
}

func (uc *terminalUseCase) selectionResult(ctx context.Context, st *station) (*dto.AddResult, error) {
	sel := st.workflow.View()
	view, err := uc.view(ctx, st)
	if err != nil {
		return nil, err
	}
	return &dto.AddResult{Outcome: dto.OutcomeSelection, Selection: &sel, Cart: view}, nil
}

// mutate runs fn under the station lock unless a checkout is in flight.
func (uc *terminalUseCase) mutate(ctx context.Context, terminalID, operation string, fn func(st *station) error) (*dto.CartView, error) {
	st := uc.station(terminalID)

	st.mu.Lock()
	var err error
	if st.checkingOut {
		err = terminal.ErrCheckoutInFlight
	} else {
		err = fn(st)
	}
	st.mu.Unlock()

	uc.record(operation, err)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, st)
}

func (uc *terminalUseCase) UpdateQuantity(ctx context.Context, terminalID, key string, quantity int) (*dto.CartView, error) {
	return uc.mutate(ctx, terminalID, "update", func(st *station) error {
		_, err := st.cart.UpdateQuantity(key, quantity)
		return err
	})
}

func (uc *terminalUseCase) RemoveLine(ctx context.Context, terminalID, key string) (*dto.CartView, error) {
	return uc.mutate(ctx, terminalID, "remove", func(st *station) error {
		if !st.cart.Remove(key) {
			return cart.ErrLineNotFound
		}
		return nil
	})
}

func (uc *terminalUseCase) Clear(ctx context.Context, terminalID string, confirmed bool) (*dto.CartView, error) {
	return uc.mutate(ctx, terminalID, "clear", func(st *station) error {
		return st.cart.Clear(confirmed)
	})
}

func (uc *terminalUseCase) Cart(ctx context.Context, terminalID string) (*dto.CartView, error) {
	return uc.view(ctx, uc.station(terminalID))
}

func (uc *terminalUseCase) Selection(ctx context.Context, terminalID string) selection.View {
	return uc.station(terminalID).workflow.View()
}

func (uc *terminalUseCase) ConfirmSelection(ctx context.Context, terminalID, batchID string, quantity int) (*dto.CartView, error) {
	return uc.mutate(ctx, terminalID, "select_confirm", func(st *station) error {
		_, err := st.workflow.Confirm(batchID, quantity)
		return err
	})
}

func (uc *terminalUseCase) CancelSelection(ctx context.Context, terminalID string) selection.View {
	st := uc.station(terminalID)
	st.workflow.Cancel()
	return st.workflow.View()
}

// SetCustomer selects who the sale is for. Nil or a guest clears any
// customer discount.
func (uc *terminalUseCase) SetCustomer(ctx context.Context, terminalID string, customer *model.Customer) (*dto.CartView, error) {
	var selected *model.Customer
	if customer != nil {
		c := *customer
		if c.CustomerType == "" {
			c.CustomerType = model.CustomerGuest
		}
		if !c.CustomerType.Valid() {
			err := settings.UnknownCustomerType(string(c.CustomerType))
			uc.record("customer", err)
			return nil, err
		}
		selected = &c
	}

	return uc.mutate(ctx, terminalID, "customer", func(st *station) error {
		st.customer = selected
		return nil
	})
}

// Checkout submits the cart as one paid pickup order. Nothing is retried:
// a refusal from the store API comes back as *order.RejectedError and the
// cart is left as it was.
func (uc *terminalUseCase) Checkout(ctx context.Context, terminalID string) (*dto.CheckoutResult, error) {
	log := uc.log(ctx, terminalID)
	st := uc.station(terminalID)

	st.mu.Lock()
	if st.checkingOut {
		st.mu.Unlock()
		uc.metrics.RecordCheckout("rejected")
		return nil, terminal.ErrCheckoutInFlight
	}
	lines := st.cart.Lines()
	if len(lines) == 0 {
		st.mu.Unlock()
		uc.metrics.RecordCheckout("rejected")
		return nil, cart.ErrEmpty
	}
	var customer *model.Customer
	if st.customer != nil {
		c := *st.customer
		customer = &c
	}
	st.checkingOut = true
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.checkingOut = false
		st.mu.Unlock()
	}()

	totals, err := uc.totals(ctx, lines, customer)
	if err != nil {
		uc.metrics.RecordCheckout("error")
		return nil, err
	}

	req := buildOrder(lines, customer)
	created, err := uc.orders.Create(ctx, req)
	if err != nil {
		var rejected *order.RejectedError
		if errors.As(err, &rejected) {
			uc.metrics.RecordCheckout("rejected")
			log.Warn("order rejected by store api", zap.Int("status", rejected.Status), zap.String("message", rejected.Message))
			return nil, err
		}
		uc.metrics.RecordCheckout("error")
		log.Error("order submission failed", zap.Error(err))
		return nil, fmt.Errorf("submit order: %w", err)
	}

	st.mu.Lock()
	st.cart.Reset()
	st.customer = nil
	st.workflow.Cancel()
	st.mu.Unlock()

	uc.metrics.RecordCheckout("success")
	log.Info("order completed",
		zap.String("order_id", created.ID),
		zap.Int("lines", len(lines)),
		zap.Float64("total", totals.Total),
	)

	return &dto.CheckoutResult{
		Order:          created,
		Totals:         totals,
		FormattedTotal: pricing.FormatVND(totals.Total),
	}, nil
}

func buildOrder(lines []model.CartLineItem, customer *model.Customer) *model.OrderRequest {
	req := &model.OrderRequest{
		Items:         make([]model.OrderItem, 0, len(lines)),
		DeliveryType:  "pickup",
		Status:        "completed",
		PaymentStatus: "paid",
	}
	if customer != nil {
		req.Customer = customer.ID
	}
	for _, l := range lines {
		item := model.OrderItem{
			Product:   l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
		}
		if l.Batch != nil {
			item.Batch = l.Batch.ID
		}
		req.Items = append(req.Items, item)
	}
	return req
}

func (uc *terminalUseCase) Reset(ctx context.Context, terminalID string) {
	uc.mu.Lock()
	st, ok := uc.stations[terminalID]
	delete(uc.stations, terminalID)
	uc.mu.Unlock()

	if ok {
		st.workflow.Cancel()
	}
	uc.log(ctx, terminalID).Debug("terminal state reset")
}

func (uc *terminalUseCase) view(ctx context.Context, st *station) (*dto.CartView, error) {
	st.mu.Lock()
	lines := st.cart.Lines()
	var customer *model.Customer
	if st.customer != nil {
		c := *st.customer
		customer = &c
	}
	st.mu.Unlock()

	totals, err := uc.totals(ctx, lines, customer)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return &dto.CartView{
		Lines:          lines,
		ItemCount:      count,
		Totals:         totals,
		FormattedTotal: pricing.FormatVND(totals.Total),
		Customer:       customer,
	}, nil
}

func (uc *terminalUseCase) totals(ctx context.Context, lines []model.CartLineItem, customer *model.Customer) (model.Totals, error) {
	var table model.DiscountTable
	if customer != nil && customer.CustomerType != model.CustomerGuest {
		var err error
		table, err = uc.settings.DiscountTable(ctx)
		if err != nil {
			return model.Totals{}, fmt.Errorf("load customer discounts: %w", err)
		}
	}
	return cart.CalculateTotals(lines, customer, table), nil
}
