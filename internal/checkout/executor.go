package checkout

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/petfeliz/storefront-backend/internal/upstream"
	pkgerrors "github.com/petfeliz/storefront-backend/pkg/errors"
	"github.com/petfeliz/storefront-backend/pkg/logger"
	"github.com/petfeliz/storefront-backend/pkg/metrics"
	"github.com/petfeliz/storefront-backend/pkg/types"
)

// State tracks where one finalize attempt currently is.
type State string

const (
	StateIdle                 State = "idle"
	StateSummarizing          State = "summarizing"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateSubmitting           State = "submitting"
	StateSucceeded            State = "succeeded"
	StateRetriableFailure     State = "retriable_failure"
	StateTerminalFailure      State = "terminal_failure"
	StateAbandoned            State = "abandoned"
)

// FinalizeRequest is one user-initiated attempt to place the order. Token is
// minted once per attempt and reused verbatim across automatic retries so
// the backend can deduplicate.
type FinalizeRequest struct {
	Token      string
	CouponCode string
	Delivery   types.DeliveryInfo
}

// Executor turns a confirmed cart into an order exactly once per token.
type Executor interface {
	Finalize(ctx context.Context, req FinalizeRequest) (*types.Order, error)
	Abandon(token string)
	StateOf(token string) State
}

// ExecutorConfig bounds the automatic retry behavior.
type ExecutorConfig struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
}

type attempt struct {
	mu        sync.Mutex
	state     State
	abandoned bool
}

func (a *attempt) transition(next State) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.abandoned {
		return false
	}
	a.state = next
	return true
}

func (a *attempt) abandon() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.abandoned = true
	a.state = StateAbandoned
}

func (a *attempt) current() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

type executor struct {
	transport  *upstream.Client
	calculator Calculator
	cfg        ExecutorConfig
	logg       *logger.Logger
	metrics    *metrics.CheckoutMetrics

	mu       sync.Mutex
	attempts map[string]*attempt
}

// NewExecutor wires the finalize flow. Metrics may be nil.
func NewExecutor(transport *upstream.Client, calculator Calculator, cfg ExecutorConfig, logg *logger.Logger, m *metrics.CheckoutMetrics) (Executor, error) {
	if transport == nil {
		return nil, fmt.Errorf("checkout: transport is required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("checkout: calculator is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout: logger is required")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("checkout: max retries must not be negative")
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	return &executor{
		transport:  transport,
		calculator: calculator,
		cfg:        cfg,
		logg:       logg,
		metrics:    m,
		attempts:   make(map[string]*attempt),
	}, nil
}

type finalizePayload struct {
	CouponCode string             `json:"coupon_code,omitempty"`
	Delivery   types.DeliveryInfo `json:"delivery"`
	Summary    struct {
		Subtotal     string `json:"subtotal"`
		ShippingCost string `json:"shipping_cost"`
		Discount     string `json:"discount"`
		Total        string `json:"total"`
	} `json:"summary"`
}

// Finalize prices the cart one last time, then submits the order under the
// attempt token. Transient failures are retried automatically with the same
// token; terminal failures surface immediately and leave the cart as it was.
// A result arriving after the attempt was abandoned is discarded.
func (e *executor) Finalize(ctx context.Context, req FinalizeRequest) (order *types.Order, err error) {
	if req.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "idempotency token is required")
	}

	att, fresh := e.register(req.Token)
	if !fresh {
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "finalize already in progress for this token")
	}

	started := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "failure"
			if pkgerrors.Retryable(err) {
				outcome = "retriable_failure"
			}
		}
		e.metrics.ObserveFinalize(outcome, time.Since(started))
	}()

	ctx = e.logg.WithCheckoutToken(ctx, req.Token)

	if !att.transition(StateSummarizing) {
		return nil, abandonedErr()
	}
	summary, err := e.calculator.Summarize(ctx, SummaryRequest{CouponCode: req.CouponCode, Delivery: req.Delivery})
	if err != nil {
		e.resolve(att, err)
		return nil, err
	}

	// A user who abandons after seeing the price must never reach submission.
	if !att.transition(StateAwaitingConfirmation) || !att.transition(StateSubmitting) {
		return nil, abandonedErr()
	}

	payload := finalizePayload{CouponCode: req.CouponCode, Delivery: req.Delivery}
	payload.Summary.Subtotal = summary.Subtotal.String()
	payload.Summary.ShippingCost = summary.ShippingCost.String()
	payload.Summary.Discount = summary.Discount.String()
	payload.Summary.Total = summary.Total.String()

	backoff := retry.WithMaxRetries(uint64(e.cfg.MaxRetries), retry.NewFibonacci(e.cfg.RetryBaseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		var result types.Order
		submitErr := e.transport.DoJSON(ctx, http.MethodPost, "/checkout/finalize", payload, &result,
			upstream.WithIdempotencyKey(req.Token))
		if submitErr != nil {
			if pkgerrors.Retryable(submitErr) && !att.current().terminal() {
				e.metrics.IncRetry()
				e.logg.Warn(ctx, fmt.Sprintf("finalize attempt failed, will retry: %v", submitErr))
				return retry.RetryableError(submitErr)
			}
			return submitErr
		}
		order = &result
		return nil
	})
	if err != nil {
		e.resolve(att, err)
		return nil, err
	}

	// The order may have been created while the user walked away. Report
	// the conflict instead of handing a stale order to a new flow.
	if !att.transition(StateSucceeded) {
		return nil, abandonedErr()
	}

	e.logg.Info(e.logg.WithField(ctx, "order_id", order.ID), "checkout finalized")
	return order, nil
}

// Abandon marks the attempt dead. Any response still in flight for the token
// is discarded when it lands.
func (e *executor) Abandon(token string) {
	e.mu.Lock()
	att, ok := e.attempts[token]
	e.mu.Unlock()
	if ok {
		att.abandon()
	}
}

// StateOf reports the current state for a token, or StateIdle for an
// unknown one.
func (e *executor) StateOf(token string) State {
	e.mu.Lock()
	att, ok := e.attempts[token]
	e.mu.Unlock()
	if !ok {
		return StateIdle
	}
	return att.current()
}

func (e *executor) register(token string) (*attempt, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if existing, ok := e.attempts[token]; ok {
		state := existing.current()
		if !state.terminal() && state != StateAbandoned {
			return existing, false
		}
	}
	att := &attempt{state: StateIdle}
	e.attempts[token] = att
	return att, true
}

func (e *executor) resolve(att *attempt, err error) {
	if pkgerrors.Retryable(err) {
		att.transition(StateRetriableFailure)
		return
	}
	att.transition(StateTerminalFailure)
}

func (s State) terminal() bool {
	switch s {
	case StateSucceeded, StateRetriableFailure, StateTerminalFailure, StateAbandoned:
		return true
	}
	return false
}

func abandonedErr() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout attempt was abandoned")
}
