package purchase

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"campusmarket/internal/core/models"
	"campusmarket/internal/listing"
	"campusmarket/pkg/apperror"
	"campusmarket/pkg/notice"
)

type fakeMarker struct {
	mu    sync.Mutex
	calls int
	err   error
	block chan struct{} // when non-nil, every MarkSold waits on it
}

func (f *fakeMarker) MarkSold(ctx context.Context, productID string) (*models.Product, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	err := f.err
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (f *fakeMarker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type manualTimer struct {
	fn      func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	m.stopped = true
	return true
}

func newFixture(marker *fakeMarker) (*Flow, *listing.Store, *notice.Center, *[]*manualTimer) {
	timers := &[]*manualTimer{}
	notices := notice.NewCenterWithTimer(notice.DefaultTTL, func(d time.Duration, fn func()) notice.Timer {
		mt := &manualTimer{fn: fn}
		*timers = append(*timers, mt)
		return mt
	})
	listings := listing.NewStore(nil, nil, notices, nil)
	flow := NewFlow(marker, listings, notices, nil)
	return flow, listings, notices, timers
}

func Test_confirmScenario(t *testing.T) {
	marker := &fakeMarker{}
	flow, listings, notices, timers := newFixture(marker)

	listings.Replace([]models.Product{{ID: "1", Name: "Pen", Price: 10, Status: models.StatusAvailable}})

	flow.Select(models.Product{ID: "1", Name: "Pen", Price: 10})
	if !flow.ModalVisible() {
		t.Fatal("selecting must show the modal")
	}

	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := listings.List()
	if len(got) != 1 || got[0].Status != models.StatusSold {
		t.Errorf("expected the matching listing to flip to Sold, got %+v", got)
	}
	if flow.ModalVisible() {
		t.Error("modal must hide immediately on success")
	}
	if flow.State() != StateIdle {
		t.Errorf("expected Idle after success, got %v", flow.State())
	}
	n := notices.Current()
	if n == nil || n.Kind != notice.KindSuccess {
		t.Fatalf("expected a success notice, got %+v", n)
	}

	// the 3s window elapses on the simulated clock
	(*timers)[len(*timers)-1].fn()
	if notices.Current() != nil {
		t.Error("notice must clear after its display window")
	}
}

func Test_confirmTouchesOnlyMatchingListing(t *testing.T) {
	marker := &fakeMarker{}
	flow, listings, _, _ := newFixture(marker)
	listings.Replace([]models.Product{
		{ID: "1", Name: "Pen", Status: models.StatusAvailable},
		{ID: "2", Name: "Book", Status: models.StatusAvailable},
	})

	flow.Select(models.Product{ID: "2", Name: "Book"})
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := listings.List()
	if got[0].Status != models.StatusAvailable {
		t.Errorf("unrelated listing changed: %+v", got[0])
	}
	if got[1].Status != models.StatusSold {
		t.Errorf("target listing did not change: %+v", got[1])
	}
}

func Test_doubleConfirmFiresExactlyOneRequest(t *testing.T) {
	marker := &fakeMarker{block: make(chan struct{})}
	flow, _, _, _ := newFixture(marker)

	flow.Select(models.Product{ID: "1", Name: "Pen", Price: 10})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- flow.Confirm(context.Background())
	}()

	// wait for the first confirm to be on the wire
	for marker.callCount() != 1 {
		runtime.Gosched()
	}

	if err := flow.Confirm(context.Background()); !errors.Is(err, ErrConfirmInFlight) {
		t.Errorf("second confirm must be rejected, got %v", err)
	}

	close(marker.block)
	if err := <-firstDone; err != nil {
		t.Fatal(err)
	}
	if marker.callCount() != 1 {
		t.Errorf("expected exactly one network call, got %d", marker.callCount())
	}
}

func Test_confirmFailureKeepsSelection(t *testing.T) {
	marker := &fakeMarker{err: &apperror.FetchError{Status: 409, Message: "product already sold"}}
	flow, listings, notices, _ := newFixture(marker)
	listings.Replace([]models.Product{{ID: "1", Name: "Pen", Status: models.StatusAvailable}})

	flow.Select(models.Product{ID: "1", Name: "Pen", Price: 10})
	err := flow.Confirm(context.Background())
	if err == nil {
		t.Fatal("expected the backend rejection to surface")
	}

	if flow.State() != StateSelected {
		t.Errorf("failure must leave the user at Selected so they can retry, got %v", flow.State())
	}
	if flow.Selected() == nil || flow.Selected().ID != "1" {
		t.Errorf("target must stay intact, got %+v", flow.Selected())
	}
	if got := listings.List(); got[0].Status != models.StatusAvailable {
		t.Errorf("no destructive mutation on failure, got %+v", got[0])
	}
	if notices.Current() != nil {
		t.Errorf("no success notice on failure")
	}

	// retry succeeds once the backend recovers
	marker.mu.Lock()
	marker.err = nil
	marker.mu.Unlock()
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatal(err)
	}
	if flow.State() != StateIdle {
		t.Errorf("expected Idle after the retry, got %v", flow.State())
	}
}

func Test_reselectDuringConfirmSettlesOnNewSelection(t *testing.T) {
	marker := &fakeMarker{block: make(chan struct{})}
	flow, _, _, _ := newFixture(marker)

	flow.Select(models.Product{ID: "1", Name: "Pen", Price: 10})

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- flow.Confirm(context.Background())
	}()
	for marker.callCount() != 1 {
		runtime.Gosched()
	}

	// the user changes their mind while the first confirm is on the wire
	flow.Select(models.Product{ID: "2", Name: "Book", Price: 20})

	close(marker.block)
	if err := <-firstDone; err != nil {
		t.Fatal(err)
	}

	if flow.State() != StateSelected {
		t.Fatalf("expected Selected with the new target once the old confirm resolved, got %v", flow.State())
	}
	if got := flow.Selected(); got == nil || got.ID != "2" {
		t.Fatalf("new target must survive the old confirm, got %+v", got)
	}

	// the new target has its own, fully functional confirm
	if err := flow.Confirm(context.Background()); err != nil {
		t.Fatal(err)
	}
	if flow.State() != StateIdle {
		t.Errorf("expected Idle after confirming the new target, got %v", flow.State())
	}
	if marker.callCount() != 2 {
		t.Errorf("expected one call per target, got %d", marker.callCount())
	}
}

func Test_reselectOverwritesTarget(t *testing.T) {
	flow, _, _, _ := newFixture(&fakeMarker{})

	flow.Select(models.Product{ID: "1", Name: "Pen"})
	flow.Select(models.Product{ID: "2", Name: "Book"})

	if got := flow.Selected(); got == nil || got.ID != "2" {
		t.Errorf("last select must win, got %+v", got)
	}
	if !flow.ModalVisible() {
		t.Error("modal must stay open across reselection")
	}
}

func Test_cancelClearsSelectionWithoutNetwork(t *testing.T) {
	marker := &fakeMarker{}
	flow, _, _, _ := newFixture(marker)

	flow.Select(models.Product{ID: "1", Name: "Pen"})
	flow.Cancel()

	if flow.ModalVisible() || flow.Selected() != nil {
		t.Error("cancel must hide the modal and clear the target")
	}
	if marker.callCount() != 0 {
		t.Errorf("cancel must not call the backend, got %d calls", marker.callCount())
	}
	if err := flow.Confirm(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Errorf("confirm with no selection must be rejected, got %v", err)
	}
}
