package purchase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"campusmarket/internal/core/models"
	"campusmarket/metrics"
	"campusmarket/pkg/logger"
	"campusmarket/pkg/notice"
)

// SoldMarker is the slice of the products API the flow confirms through.
type SoldMarker interface {
	MarkSold(ctx context.Context, productID string) (*models.Product, error)
}

// ListingReconciler receives the sold-transition once the backend accepted it.
type ListingReconciler interface {
	ApplySold(productID string)
}

var (
	// ErrNoSelection is returned when Confirm is called with nothing targeted.
	ErrNoSelection = errors.New("no product selected for purchase")
	// ErrConfirmInFlight rejects a second confirm while one is already on the
	// wire for the same product, so a sale can never be fired twice.
	ErrConfirmInFlight = errors.New("purchase confirmation already in flight")
)

type State int

const (
	StateIdle State = iota
	StateSelected
	StateConfirming
)

// Flow is the modal-gated purchase confirmation shared by the Buy, Cart and
// Dashboard sections: Idle -> Selected -> Confirming -> back to Idle on
// success, back to Selected on failure so the user can retry.
type Flow struct {
	mu       sync.Mutex
	products SoldMarker
	listings ListingReconciler
	notices  *notice.Center
	log      logger.Logger

	state    State
	selected *models.Product
	inFlight map[string]bool
}

func NewFlow(products SoldMarker, listings ListingReconciler, notices *notice.Center, writer io.Writer) *Flow {
	return &Flow{
		products: products,
		listings: listings,
		notices:  notices,
		log:      logger.NewLogger(writer, "[purchase]"),
		inFlight: make(map[string]bool),
	}
}

// Select targets a product and shows the modal. Re-entrant: selecting while
// something is already targeted overwrites the target, last write wins, and
// the modal stays open. Selecting while a confirm is on the wire is allowed
// too: the outstanding call still resolves against its own target, and once
// it completes the flow settles on Selected with the new product, ready for
// its own Confirm.
func (f *Flow) Select(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	selected := p
	f.selected = &selected
	if f.state == StateIdle {
		f.state = StateSelected
	}
}

// Cancel hides the modal and clears the target without any backend call.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateIdle
	f.selected = nil
}

// Confirm issues the single backend call that marks the selected product
// sold. At most one confirm can be outstanding per target id; a concurrent
// second call gets ErrConfirmInFlight and no network traffic. On success the
// modal hides immediately, the matching listing flips to Sold, and a
// transient success notice appears. On failure the flow stays at Selected
// with the target intact.
func (f *Flow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.selected == nil {
		f.mu.Unlock()
		return ErrNoSelection
	}
	target := *f.selected
	if f.state == StateConfirming || f.inFlight[target.ID] {
		f.mu.Unlock()
		return ErrConfirmInFlight
	}
	f.state = StateConfirming
	f.inFlight[target.ID] = true
	f.mu.Unlock()

	_, err := f.products.MarkSold(ctx, target.ID)

	f.mu.Lock()
	delete(f.inFlight, target.ID)
	if err != nil {
		f.log.Log("confirm failed for %s: %v", target.ID, err)
		// остаёмся в Selected, чтобы пользователь мог повторить
		if f.selected != nil && f.state == StateConfirming {
			f.state = StateSelected
		}
		f.mu.Unlock()
		metrics.RecordPurchase("failure")
		return err
	}

	switch {
	case f.selected != nil && f.selected.ID == target.ID:
		f.state = StateIdle
		f.selected = nil
	case f.selected != nil && f.state == StateConfirming:
		// цель сменилась во время подтверждения — модалка остаётся на новой
		f.state = StateSelected
	}
	f.mu.Unlock()

	if f.listings != nil {
		f.listings.ApplySold(target.ID)
	}
	if f.notices != nil {
		f.notices.Flash(notice.KindSuccess,
			fmt.Sprintf("Successfully purchased %s for ₹%.2f", target.Name, target.Price))
	}
	metrics.RecordPurchase("success")
	f.log.Log("purchased %s for ₹%.2f", target.Name, target.Price)
	return nil
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Selected returns a copy of the targeted product, or nil when idle.
func (f *Flow) Selected() *models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == nil {
		return nil
	}
	p := *f.selected
	return &p
}

// ModalVisible mirrors the confirmation modal's visibility.
func (f *Flow) ModalVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state != StateIdle
}
