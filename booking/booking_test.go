package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"playpal/apperr"
	"playpal/locks"
	"playpal/models"
	"playpal/storage/memstore"
)

type captureNotifier struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	calls int
}

func (n *captureNotifier) Notify(_ context.Context, receiverID, content string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.fail {
		return errors.New("notifier down")
	}
	n.sent = append(n.sent, receiverID+": "+content)
	return nil
}

func seedUser(t *testing.T, store *memstore.Store, u *models.User) {
	t.Helper()
	if err := store.AddUser(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func newTestService(store *memstore.Store, notifier Notifier) *Service {
	return NewService(store, locks.NewMemLocker(), notifier)
}

func approvedTrainer(id string, rate models.Cents) *models.User {
	return &models.User{
		UserID:    id,
		Name:      "Coach",
		Email:     id + "@example.com",
		Role:      models.RoleTrainer,
		Specialty: "Tennis",
		Rate:      rate,
		Approved:  true,
		CreatedAt: time.Now(),
	}
}

func player(id string, balance models.Cents) *models.User {
	return &models.User{
		UserID:    id,
		Name:      "Pat",
		Email:     id + "@example.com",
		Role:      models.RolePlayer,
		Balance:   balance,
		CreatedAt: time.Now(),
	}
}

func TestBookTrainerTransfersFunds(t *testing.T) {
	store := memstore.New()
	notifier := &captureNotifier{}
	svc := newTestService(store, notifier)
	ctx := context.Background()

	seedUser(t, store, player("player-1", models.CentsFromUnits(100, 0)))
	seedUser(t, store, approvedTrainer("trainer-1", models.CentsFromUnits(25, 0)))

	b, err := svc.BookTrainer(ctx, "player-1", "trainer-1", 2)
	if err != nil {
		t.Fatalf("BookTrainer: %v", err)
	}
	if b.Amount != models.CentsFromUnits(50, 0) {
		t.Errorf("amount = %s, want $50.00", b.Amount)
	}

	p, _ := store.FindUserByIDPrefix(ctx, "player-1")
	tr, _ := store.FindUserByIDPrefix(ctx, "trainer-1")
	if p.Balance != models.CentsFromUnits(50, 0) {
		t.Errorf("player balance = %s, want $50.00", p.Balance)
	}
	if tr.Balance != models.CentsFromUnits(50, 0) {
		t.Errorf("trainer balance = %s, want $50.00", tr.Balance)
	}
	if p.Balance+tr.Balance != models.CentsFromUnits(100, 0) {
		t.Errorf("total balance changed: %s", p.Balance+tr.Balance)
	}

	if notifier.calls != 2 {
		t.Errorf("notifications sent = %d, want 2", notifier.calls)
	}

	got, err := store.FindBookingsByTrainerID(ctx, "trainer-1")
	if err != nil || len(got) != 1 {
		t.Fatalf("trainer bookings = %v (err %v), want 1", got, err)
	}
}

func TestBookTrainerInsufficientFunds(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store, &captureNotifier{})
	ctx := context.Background()

	// $50.00 on hand against a $100.00 cost.
	seedUser(t, store, player("player-1", models.CentsFromUnits(50, 0)))
	seedUser(t, store, approvedTrainer("trainer-1", models.CentsFromUnits(100, 0)))

	_, err := svc.BookTrainer(ctx, "player-1", "trainer-1", 1)
	var fundsErr *apperr.InsufficientFundsError
	if !errors.As(err, &fundsErr) {
		t.Fatalf("err = %v, want InsufficientFundsError", err)
	}
	if fundsErr.Required != models.CentsFromUnits(100, 0) || fundsErr.Available != models.CentsFromUnits(50, 0) {
		t.Errorf("shortfall = required %s available %s", fundsErr.Required, fundsErr.Available)
	}

	// Neither balance may move on a failed booking.
	p, _ := store.FindUserByIDPrefix(ctx, "player-1")
	tr, _ := store.FindUserByIDPrefix(ctx, "trainer-1")
	if p.Balance != models.CentsFromUnits(50, 0) || tr.Balance != 0 {
		t.Errorf("balances mutated: player %s trainer %s", p.Balance, tr.Balance)
	}
	if got, _ := store.FindBookingsByTrainerID(ctx, "trainer-1"); len(got) != 0 {
		t.Errorf("booking persisted on failure: %v", got)
	}
}

func TestBookTrainerValidationOrder(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store, &captureNotifier{})
	ctx := context.Background()

	seedUser(t, store, player("player-1", 0))
	seedUser(t, store, player("player-2", 0))
	unapproved := approvedTrainer("trainer-1", models.CentsFromUnits(10, 0))
	unapproved.Approved = false
	seedUser(t, store, unapproved)

	cases := []struct {
		name       string
		playerID   string
		prefix     string
		wantReason string
	}{
		{"not logged in", "", "trainer-1", "not logged in"},
		{"trainer missing", "player-1", "nope", "trainer not found"},
		{"target not a trainer", "player-1", "player-2", "not a trainer"},
		{"trainer unapproved", "player-1", "trainer-1", "not approved"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.BookTrainer(ctx, tc.playerID, tc.prefix, 1)
			var bf *apperr.BookingFailedError
			if !errors.As(err, &bf) {
				t.Fatalf("err = %v, want BookingFailedError", err)
			}
			if bf.Reason != tc.wantReason {
				t.Errorf("reason = %q, want %q", bf.Reason, tc.wantReason)
			}
		})
	}
}

func TestBookTrainerNotificationFailureDoesNotRollBack(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store, &captureNotifier{fail: true})
	ctx := context.Background()

	seedUser(t, store, player("player-1", models.CentsFromUnits(30, 0)))
	seedUser(t, store, approvedTrainer("trainer-1", models.CentsFromUnits(30, 0)))

	if _, err := svc.BookTrainer(ctx, "player-1", "trainer-1", 1); err != nil {
		t.Fatalf("BookTrainer: %v", err)
	}
	tr, _ := store.FindUserByIDPrefix(ctx, "trainer-1")
	if tr.Balance != models.CentsFromUnits(30, 0) {
		t.Errorf("trainer balance = %s, want $30.00", tr.Balance)
	}
}

func TestBookTrainerConcurrentDoubleSpend(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store, &captureNotifier{})
	ctx := context.Background()

	// Enough for exactly one session.
	seedUser(t, store, player("player-1", models.CentsFromUnits(40, 0)))
	seedUser(t, store, approvedTrainer("trainer-1", models.CentsFromUnits(40, 0)))

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.BookTrainer(ctx, "player-1", "trainer-1", 1)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var fundsErr *apperr.InsufficientFundsError
		if !errors.As(err, &fundsErr) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want exactly 1", succeeded)
	}

	p, _ := store.FindUserByIDPrefix(ctx, "player-1")
	if p.Balance != 0 {
		t.Errorf("player balance = %s, want $0.00", p.Balance)
	}
}

func TestUpdateTrainerProfile(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store, &captureNotifier{})
	ctx := context.Background()

	seedUser(t, store, approvedTrainer("trainer-1", models.CentsFromUnits(10, 0)))

	if err := svc.UpdateTrainerProfile(ctx, "trainer-1", "Padel", models.CentsFromUnits(35, 50)); err != nil {
		t.Fatalf("UpdateTrainerProfile: %v", err)
	}
	tr, _ := store.FindUserByIDPrefix(ctx, "trainer-1")
	if tr.Specialty != "Padel" || tr.Rate != models.CentsFromUnits(35, 50) {
		t.Errorf("profile = %q %s", tr.Specialty, tr.Rate)
	}

	if err := svc.UpdateTrainerProfile(ctx, "", "Padel", 0); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Errorf("unauthenticated update err = %v", err)
	}
}

func TestSearchTrainersOnlyApproved(t *testing.T) {
	store := memstore.New()
	svc := newTestService(store, &captureNotifier{})
	ctx := context.Background()

	seedUser(t, store, approvedTrainer("trainer-1", models.CentsFromUnits(10, 0)))
	pending := approvedTrainer("trainer-2", models.CentsFromUnits(10, 0))
	pending.Approved = false
	seedUser(t, store, pending)

	got, err := svc.SearchTrainers(ctx, "tennis")
	if err != nil {
		t.Fatalf("SearchTrainers: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "trainer-1" {
		t.Errorf("results = %v, want only trainer-1", got)
	}
}
