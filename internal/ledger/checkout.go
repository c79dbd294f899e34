package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/gourmet-ledger/internal/domain"
)

type FlowState string

const (
	FlowIdle       FlowState = "IDLE"
	FlowConfirming FlowState = "CONFIRMING"
	FlowPlaced     FlowState = "PLACED"
	FlowCancelled  FlowState = "CANCELLED"
)

func (s FlowState) IsTerminal() bool {
	return s == FlowPlaced || s == FlowCancelled
}

// Confirmer is the accept/decline gate shown to the user before an order is placed.
type Confirmer interface {
	Confirm(ctx context.Context, totals domain.Totals) (bool, error)
}

type ConfirmerFunc func(ctx context.Context, totals domain.Totals) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, totals domain.Totals) (bool, error) {
	return f(ctx, totals)
}

// AutoConfirm accepts every order, for non-interactive callers.
var AutoConfirm = ConfirmerFunc(func(context.Context, domain.Totals) (bool, error) {
	return true, nil
})

type FlowResult struct {
	State FlowState
	Order *domain.OrderRecord
}

// CheckoutFlow drives Idle -> Confirming -> Placed | Cancelled for one ledger.
// ClearDelay holds the result back after a successful placement so the
// confirmation can be shown; the ledger itself is already empty by then.
type CheckoutFlow struct {
	Ledger     *Ledger
	Confirmer  Confirmer
	ClearDelay time.Duration

	state FlowState
}

func NewCheckoutFlow(l *Ledger, confirmer Confirmer, clearDelay time.Duration) *CheckoutFlow {
	return &CheckoutFlow{
		Ledger:     l,
		Confirmer:  confirmer,
		ClearDelay: clearDelay,
		state:      FlowIdle,
	}
}

func (f *CheckoutFlow) State() FlowState {
	if f.state == "" {
		return FlowIdle
	}
	return f.state
}

func (f *CheckoutFlow) Run(ctx context.Context) (FlowResult, error) {
	f.state = FlowIdle

	if err := f.Ledger.validate(); err != nil {
		return FlowResult{State: FlowIdle}, err
	}

	f.state = FlowConfirming

	confirmer := f.Confirmer
	if confirmer == nil {
		confirmer = AutoConfirm
	}

	accepted, err := confirmer.Confirm(ctx, f.Ledger.Totals())
	if err != nil {
		f.state = FlowIdle
		return FlowResult{State: FlowIdle}, fmt.Errorf("confirmer.Confirm: %w", err)
	}

	if !accepted {
		f.state = FlowCancelled
		return FlowResult{State: FlowCancelled}, nil
	}

	record, err := f.Ledger.Checkout(ctx)
	if err != nil {
		f.state = FlowIdle
		return FlowResult{State: FlowIdle}, err
	}

	f.state = FlowPlaced

	if f.ClearDelay > 0 {
		timer := time.NewTimer(f.ClearDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
		case <-timer.C:
		}
	}

	return FlowResult{State: FlowPlaced, Order: &record}, nil
}
