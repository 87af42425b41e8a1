package cancellation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"railres/internal/booking"
	"railres/internal/catalog"
	"railres/internal/fare"
	"railres/internal/inventory"
	"railres/internal/shared/config"
	"railres/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTxRunner struct{}

func (fakeTxRunner) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// fakeBookingStore is an in-memory booking.Repository keyed by PNR. The
// cascade is driven against it exactly as it would run against postgres,
// minus the row locks the fake does not need.
type fakeBookingStore struct {
	mu      sync.Mutex
	tickets map[string]*booking.Ticket
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{tickets: make(map[string]*booking.Ticket)}
}

func copyTicket(t *booking.Ticket) *booking.Ticket {
	cp := *t
	cp.Lines = make([]booking.PassengerLine, len(t.Lines))
	copy(cp.Lines, t.Lines)
	return &cp
}

func (s *fakeBookingStore) CreateTicket(_ context.Context, _ *gorm.DB, ticket *booking.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	for i := range ticket.Lines {
		if ticket.Lines[i].ID == uuid.Nil {
			ticket.Lines[i].ID = uuid.New()
		}
		ticket.Lines[i].TicketID = ticket.ID
	}
	s.tickets[ticket.PNR] = copyTicket(ticket)
	return nil
}

func (s *fakeBookingStore) GetTicketByPNR(_ context.Context, pnr string) (*booking.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[pnr]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	return copyTicket(t), nil
}

func (s *fakeBookingStore) GetTicketByID(_ context.Context, id uuid.UUID) (*booking.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.ID == id {
			return copyTicket(t), nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

func (s *fakeBookingStore) PNRExists(_ context.Context, pnr string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tickets[pnr]
	return ok, nil
}

func (s *fakeBookingStore) GetTicketForUpdate(ctx context.Context, _ *gorm.DB, pnr string) (*booking.Ticket, error) {
	return s.GetTicketByPNR(ctx, pnr)
}

func (s *fakeBookingStore) OccupiedSeats(_ context.Context, _ *gorm.DB, journeyID, classID uuid.UUID) (map[int]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	occupied := make(map[int]bool)
	for _, t := range s.tickets {
		for i := range t.Lines {
			l := &t.Lines[i]
			if l.JourneyID == journeyID && l.ClassID == classID &&
				l.Status == booking.LineConfirmed && l.SeatNumber > 0 {
				occupied[l.SeatNumber] = true
			}
		}
	}
	return occupied, nil
}

func (s *fakeBookingStore) QueueLinesForUpdate(_ context.Context, _ *gorm.DB, journeyID, classID uuid.UUID, status booking.LineStatus) ([]booking.PassengerLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var lines []booking.PassengerLine
	for _, t := range s.tickets {
		for i := range t.Lines {
			l := t.Lines[i]
			if l.JourneyID == journeyID && l.ClassID == classID && l.Status == status {
				lines = append(lines, l)
			}
		}
	}
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j].QueuePosition < lines[j-1].QueuePosition; j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
	return lines, nil
}

func (s *fakeBookingStore) SaveLine(_ context.Context, _ *gorm.DB, line *booking.PassengerLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		for i := range t.Lines {
			if t.Lines[i].ID == line.ID {
				t.Lines[i] = *line
				return nil
			}
		}
	}
	return apperrors.ErrInvalidReference
}

func (s *fakeBookingStore) UpdateTicketStatus(_ context.Context, _ *gorm.DB, id uuid.UUID, status booking.TicketStatus, cancelledAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.ID == id {
			t.Status = status
			t.CancelledAt = cancelledAt
			return nil
		}
	}
	return apperrors.ErrTicketNotFound
}

func (s *fakeBookingStore) QueuePositions(ctx context.Context, journeyID, classID uuid.UUID, tier inventory.Tier) ([]int, error) {
	lines, err := s.QueueLinesForUpdate(ctx, nil, journeyID, classID, booking.LineStatus(tier))
	if err != nil {
		return nil, err
	}
	positions := make([]int, 0, len(lines))
	for i := range lines {
		positions = append(positions, lines[i].QueuePosition)
	}
	return positions, nil
}

type fakeInvRepo struct {
	mu  sync.Mutex
	inv inventory.SeatClassInventory
}

func (s *fakeInvRepo) Create(_ context.Context, inv *inventory.SeatClassInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv = *inv
	return nil
}

func (s *fakeInvRepo) GetByJourneyClass(_ context.Context, journeyID, classID uuid.UUID) (*inventory.SeatClassInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inv.JourneyID != journeyID || s.inv.ClassID != classID {
		return nil, apperrors.ErrInvalidReference
	}
	cp := s.inv
	return &cp, nil
}

func (s *fakeInvRepo) ListAll(_ context.Context) ([]inventory.SeatClassInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return []inventory.SeatClassInventory{s.inv}, nil
}

func (s *fakeInvRepo) LockForUpdate(_ context.Context, _ *gorm.DB, journeyID, classID uuid.UUID) (*inventory.SeatClassInventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inv.JourneyID != journeyID || s.inv.ClassID != classID {
		return nil, apperrors.ErrInvalidReference
	}
	cp := s.inv
	return &cp, nil
}

func (s *fakeInvRepo) SaveCounters(_ context.Context, _ *gorm.DB, inv *inventory.SeatClassInventory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inv.ConfirmedCount = inv.ConfirmedCount
	s.inv.RacCurrent = inv.RacCurrent
	s.inv.WaitlistCurrent = inv.WaitlistCurrent
	s.inv.Version++
	return nil
}

func (s *fakeInvRepo) snapshot() inventory.SeatClassInventory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv
}

type fakeCancelStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*CancellationRecord
}

func newFakeCancelStore() *fakeCancelStore {
	return &fakeCancelStore{records: make(map[uuid.UUID]*CancellationRecord)}
}

func (s *fakeCancelStore) CreateRecord(_ context.Context, _ *gorm.DB, record *CancellationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	cp := *record
	s.records[record.ID] = &cp
	return nil
}

func (s *fakeCancelStore) GetRecordByID(_ context.Context, id uuid.UUID) (*CancellationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return nil, apperrors.ErrInvalidReference
	}
	cp := *record
	return &cp, nil
}

func (s *fakeCancelStore) GetRecordsByTicketID(_ context.Context, ticketID uuid.UUID) ([]CancellationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CancellationRecord
	for _, record := range s.records {
		if record.TicketID == ticketID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *fakeCancelStore) ListPendingBefore(_ context.Context, cutoff time.Time) ([]CancellationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []CancellationRecord
	for _, record := range s.records {
		if record.RefundStatus == RefundPending && record.RequestedAt.Before(cutoff) {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *fakeCancelStore) MarkProcessed(_ context.Context, id uuid.UUID, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[id]
	if !ok {
		return apperrors.ErrInvalidReference
	}
	record.RefundStatus = RefundProcessed
	record.ProcessedAt = &processedAt
	return nil
}

type fakeFacts struct {
	facts catalog.JourneyFacts
}

func (c *fakeFacts) GetJourneyFacts(_ context.Context, journeyID, classID uuid.UUID) (*catalog.JourneyFacts, error) {
	if journeyID != c.facts.JourneyID || classID != c.facts.ClassID {
		return nil, apperrors.ErrInvalidReference
	}
	cp := c.facts
	return &cp, nil
}

type stubNotifier struct {
	cancelled int
	promoted  []booking.PassengerLine
}

func (n *stubNotifier) TicketCancelled(context.Context, *booking.Ticket, *CancellationRecord) {
	n.cancelled++
}

func (n *stubNotifier) LinesPromoted(_ context.Context, lines []booking.PassengerLine) {
	n.promoted = append(n.promoted, lines...)
}

// cascadeFixture wires a real booking allocator and a real cancellation
// engine over shared in-memory state, so tickets enter the system the way
// they do in production.
type cascadeFixture struct {
	booking  booking.Service
	cancel   Service
	store    *fakeBookingStore
	inv      *fakeInvRepo
	records  *fakeCancelStore
	notifier *stubNotifier
	journey  uuid.UUID
	class    uuid.UUID
}

func newCascadeFixture(t *testing.T, totalSeats, racMax, waitMax int, departIn time.Duration) *cascadeFixture {
	t.Helper()

	journeyID := uuid.New()
	classID := uuid.New()

	invRepo := &fakeInvRepo{inv: inventory.SeatClassInventory{
		ID:            uuid.New(),
		JourneyID:     journeyID,
		ClassID:       classID,
		TotalSeats:    totalSeats,
		RacMax:        racMax,
		WaitlistMax:   waitMax,
		SeatsPerCoach: 72,
	}}
	store := newFakeBookingStore()
	records := newFakeCancelStore()
	notifier := &stubNotifier{}
	facts := &fakeFacts{facts: catalog.JourneyFacts{
		JourneyID:   journeyID,
		ClassID:     classID,
		ClassCode:   "3A",
		TrainNumber: 12841,
		TrainName:   "Coromandel Express",
		SourceCode:  "HWH",
		DestCode:    "MAS",
		DistanceKm:  500,
		RatePerKm:   2.0,
		DepartureAt: time.Now().Add(departIn),
	}}

	calc := fare.NewCalculator(config.FareConfig{ServiceCharge: 30, TaxRate: 0.05})
	locker := inventory.NewJourneyClassLocker()

	bookingSvc := booking.NewService(store, invRepo, facts, calc, fakeTxRunner{}, locker, nil)
	cancelSvc := NewService(records, store, invRepo, facts, testPolicy, fakeTxRunner{}, locker, notifier)

	return &cascadeFixture{
		booking:  bookingSvc,
		cancel:   cancelSvc,
		store:    store,
		inv:      invRepo,
		records:  records,
		notifier: notifier,
		journey:  journeyID,
		class:    classID,
	}
}

// book places a party of n and returns its PNR.
func (f *cascadeFixture) book(t *testing.T, n int) string {
	t.Helper()
	passengers := make([]booking.PassengerInput, n)
	for i := range passengers {
		passengers[i] = booking.PassengerInput{Name: "Traveller", Age: 30, Gender: "F"}
	}
	resp, err := f.booking.CreateTicket(context.Background(), booking.CreateTicketRequest{
		JourneyID:    f.journey,
		ClassID:      f.class,
		Passengers:   passengers,
		ContactEmail: "party@example.com",
	})
	require.NoError(t, err)
	return resp.PNR
}

func (f *cascadeFixture) lines(t *testing.T, pnr string) []booking.PassengerLine {
	t.Helper()
	ticket, err := f.store.GetTicketByPNR(context.Background(), pnr)
	require.NoError(t, err)
	return ticket.Lines
}

func TestCancelTicketRunsFullCascade(t *testing.T) {
	f := newCascadeFixture(t, 3, 2, 3, 48*time.Hour)

	confirmedPNR := f.book(t, 3) // seats 1,2,3
	racPNR := f.book(t, 2)       // RAC 1,2
	waitPNR := f.book(t, 2)      // WL 1,2

	resp, err := f.cancel.CancelTicket(context.Background(), confirmedPNR, CancelTicketRequest{
		Reason: "change of plans",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.CancelledLines)
	assert.Equal(t, 2, resp.PromotedToConfirmed)
	assert.Equal(t, 2, resp.PromotedToRAC)
	assert.Equal(t, RefundPending, resp.RefundStatus)

	// Fare for 3 passengers is 3181.50; 48h out pays the early rate.
	assert.Equal(t, 2863.35, resp.RefundAmount)
	assert.Equal(t, 318.15, resp.CancellationCharges)

	// The cancelled ticket holds nothing and is flagged terminal.
	ticket, err := f.store.GetTicketByPNR(context.Background(), confirmedPNR)
	require.NoError(t, err)
	assert.Equal(t, booking.TicketCancelled, ticket.Status)
	require.NotNil(t, ticket.CancelledAt)
	for i := range ticket.Lines {
		assert.Equal(t, booking.LineCancelled, ticket.Lines[i].Status)
		assert.Equal(t, 0, ticket.Lines[i].QueuePosition)
	}

	// Both RAC holders take the lowest freed seats in queue order.
	racLines := f.lines(t, racPNR)
	assert.Equal(t, booking.LineConfirmed, racLines[0].Status)
	assert.Equal(t, 1, racLines[0].SeatNumber)
	assert.Equal(t, inventory.BerthLower, racLines[0].Berth)
	assert.Equal(t, "S1", racLines[0].Coach)
	assert.Equal(t, booking.LineConfirmed, racLines[1].Status)
	assert.Equal(t, 2, racLines[1].SeatNumber)
	assert.Equal(t, inventory.BerthMiddle, racLines[1].Berth)

	// The waitlist moves into the vacated RAC slots, renumbered from 1.
	waitLines := f.lines(t, waitPNR)
	assert.Equal(t, booking.LineRAC, waitLines[0].Status)
	assert.Equal(t, 1, waitLines[0].QueuePosition)
	assert.Equal(t, booking.LineRAC, waitLines[1].Status)
	assert.Equal(t, 2, waitLines[1].QueuePosition)

	inv := f.inv.snapshot()
	assert.Equal(t, 2, inv.ConfirmedCount)
	assert.Equal(t, 2, inv.RacCurrent)
	assert.Equal(t, 0, inv.WaitlistCurrent)

	assert.Equal(t, 1, f.notifier.cancelled)
	assert.Len(t, f.notifier.promoted, 4)
}

func TestCancelTicketPartialPromotesOwnLine(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, 48*time.Hour)

	pnr := f.book(t, 3) // seats 1,2 + own RAC 1
	lines := f.lines(t, pnr)

	resp, err := f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{
		Reason:  "one traveller dropped out",
		LineIDs: []uuid.UUID{lines[0].ID},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CancelledLines)
	assert.Equal(t, 1, resp.PromotedToConfirmed)

	// Refund covers the cancelled line's share of the fare: 3181.50 / 3.
	assert.Equal(t, 954.45, resp.RefundAmount)
	assert.Equal(t, 106.05, resp.CancellationCharges)

	// The ticket's own RAC line takes the freed seat, so every surviving
	// line is confirmed.
	ticket, err := f.store.GetTicketByPNR(context.Background(), pnr)
	require.NoError(t, err)
	assert.Equal(t, booking.TicketConfirmed, ticket.Status)
	assert.Nil(t, ticket.CancelledAt)

	after := ticket.Lines
	assert.Equal(t, booking.LineCancelled, after[0].Status)
	assert.Equal(t, booking.LineConfirmed, after[1].Status)
	assert.Equal(t, 2, after[1].SeatNumber)
	assert.Equal(t, booking.LineConfirmed, after[2].Status)
	assert.Equal(t, 1, after[2].SeatNumber)

	inv := f.inv.snapshot()
	assert.Equal(t, 2, inv.ConfirmedCount)
	assert.Equal(t, 0, inv.RacCurrent)
}

func TestCancelTicketTwiceReportsAlreadyCancelled(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, 48*time.Hour)

	pnr := f.book(t, 1)

	_, err := f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{Reason: "first"})
	require.NoError(t, err)

	_, err = f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{Reason: "second"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyCancelled))
	assert.Equal(t, 1, f.notifier.cancelled)
}

func TestCancelTicketRejectsUnknownLine(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, 48*time.Hour)

	pnr := f.book(t, 2)

	_, err := f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{
		Reason:  "typo in line id",
		LineIDs: []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyCancelled))

	// Nothing changed.
	ticket, err := f.store.GetTicketByPNR(context.Background(), pnr)
	require.NoError(t, err)
	assert.Equal(t, booking.TicketConfirmed, ticket.Status)
}

func TestCancelTicketAfterDepartureRefundsNothing(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, -2*time.Hour)

	storeTicket := &booking.Ticket{
		PNR:          "BCDFGHJKLM",
		JourneyID:    f.journey,
		ClassID:      f.class,
		Status:       booking.TicketConfirmed,
		TotalFare:    1080.0,
		ContactEmail: "party@example.com",
		BookedAt:     time.Now().Add(-72 * time.Hour),
		Lines: []booking.PassengerLine{{
			JourneyID:  f.journey,
			ClassID:    f.class,
			Name:       "Traveller",
			Age:        30,
			Gender:     "F",
			Status:     booking.LineConfirmed,
			SeatNumber: 1,
			Coach:      "S1",
			Berth:      inventory.BerthLower,
		}},
	}
	require.NoError(t, f.store.CreateTicket(context.Background(), nil, storeTicket))
	f.inv.inv.ConfirmedCount = 1

	resp, err := f.cancel.CancelTicket(context.Background(), "BCDFGHJKLM", CancelTicketRequest{Reason: "missed it"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Equal(t, 1080.0, resp.CancellationCharges)
}

func TestCancelTicketAfterDepartureIgnoresOverride(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, -2*time.Hour)

	storeTicket := &booking.Ticket{
		PNR:          "BCDFGHJKLN",
		JourneyID:    f.journey,
		ClassID:      f.class,
		Status:       booking.TicketConfirmed,
		TotalFare:    1080.0,
		ContactEmail: "party@example.com",
		BookedAt:     time.Now().Add(-72 * time.Hour),
		Lines: []booking.PassengerLine{{
			JourneyID:  f.journey,
			ClassID:    f.class,
			Name:       "Traveller",
			Age:        30,
			Gender:     "F",
			Status:     booking.LineConfirmed,
			SeatNumber: 1,
			Coach:      "S1",
			Berth:      inventory.BerthLower,
		}},
	}
	require.NoError(t, f.store.CreateTicket(context.Background(), nil, storeTicket))
	f.inv.inv.ConfirmedCount = 1

	// Asking for the full fare back on a departed journey changes nothing.
	override := 1080.0
	resp, err := f.cancel.CancelTicket(context.Background(), "BCDFGHJKLN", CancelTicketRequest{
		Reason:       "trying my luck",
		RefundAmount: &override,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, resp.RefundAmount)
	assert.Equal(t, 1080.0, resp.CancellationCharges)
}

func TestCancelTicketHonorsRefundOverride(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, 48*time.Hour)

	pnr := f.book(t, 1) // fare 1081.50
	override := 200.0

	resp, err := f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{
		Reason:       "goodwill adjustment",
		RefundAmount: &override,
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, resp.RefundAmount)
	assert.Equal(t, 881.50, resp.CancellationCharges)
}

func TestGetRecordsForTicket(t *testing.T) {
	f := newCascadeFixture(t, 4, 1, 1, 48*time.Hour)

	pnr := f.book(t, 2)
	lines := f.lines(t, pnr)

	_, err := f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{
		Reason:  "first line",
		LineIDs: []uuid.UUID{lines[0].ID},
	})
	require.NoError(t, err)
	_, err = f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{Reason: "rest of the party"})
	require.NoError(t, err)

	records, err := f.cancel.GetRecordsForTicket(context.Background(), pnr)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestCascadeConservesEveryLine(t *testing.T) {
	f := newCascadeFixture(t, 3, 2, 3, 48*time.Hour)

	confirmedPNR := f.book(t, 3)
	f.book(t, 2) // RAC 1,2
	f.book(t, 2) // WL 1,2
	const everBooked = 7

	_, err := f.cancel.CancelTicket(context.Background(), confirmedPNR, CancelTicketRequest{
		Reason: "conservation check",
	})
	require.NoError(t, err)

	// Every line ever booked is still accounted for in exactly one state,
	// and the live states agree with the counter row.
	byStatus := make(map[booking.LineStatus]int)
	total := 0
	for _, ticket := range f.store.tickets {
		for i := range ticket.Lines {
			byStatus[ticket.Lines[i].Status]++
			total++
		}
	}
	assert.Equal(t, everBooked, total)
	assert.Equal(t, everBooked,
		byStatus[booking.LineConfirmed]+byStatus[booking.LineRAC]+
			byStatus[booking.LineWaitlisted]+byStatus[booking.LineCancelled])
	assert.Equal(t, 3, byStatus[booking.LineCancelled])

	inv := f.inv.snapshot()
	assert.Equal(t, byStatus[booking.LineConfirmed], inv.ConfirmedCount)
	assert.Equal(t, byStatus[booking.LineRAC], inv.RacCurrent)
	assert.Equal(t, byStatus[booking.LineWaitlisted], inv.WaitlistCurrent)
}

func TestProcessPendingRefundsSweepsElapsedOnly(t *testing.T) {
	f := newCascadeFixture(t, 2, 1, 1, 48*time.Hour)

	pnr := f.book(t, 1)
	resp, err := f.cancel.CancelTicket(context.Background(), pnr, CancelTicketRequest{Reason: "sweep test"})
	require.NoError(t, err)

	// Fresh record: inside the processing delay, nothing to sweep.
	processed, err := f.cancel.ProcessPendingRefunds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)

	// Age the record past the delay.
	f.records.mu.Lock()
	f.records.records[resp.RecordID].RequestedAt = time.Now().Add(-testPolicy.ProcessingDelay - time.Hour)
	f.records.mu.Unlock()

	processed, err = f.cancel.ProcessPendingRefunds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	record, err := f.records.GetRecordByID(context.Background(), resp.RecordID)
	require.NoError(t, err)
	assert.Equal(t, RefundProcessed, record.RefundStatus)
	require.NotNil(t, record.ProcessedAt)

	// Idempotent: a second sweep finds nothing pending.
	processed, err = f.cancel.ProcessPendingRefunds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
}
