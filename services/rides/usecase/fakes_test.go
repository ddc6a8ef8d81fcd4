package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blazevtc/blazeride/internal/pkg/apperrors"
	"github.com/blazevtc/blazeride/internal/pkg/models"
	"github.com/blazevtc/blazeride/internal/pkg/realtime"
)

// fakeRideRepo is an in-memory RideRepo. UpdateInTx takes a per-ride
// mutex so concurrent transitions contend the same way they would on a
// row lock.
type fakeRideRepo struct {
	mu     sync.Mutex
	nextID int64
	rides  map[int64]*models.Ride
	locks  map[int64]*sync.Mutex
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{
		rides: make(map[int64]*models.Ride),
		locks: make(map[int64]*sync.Mutex),
	}
}

func (f *fakeRideRepo) rowLock(id int64) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()
	mu, ok := f.locks[id]
	if !ok {
		mu = &sync.Mutex{}
		f.locks[id] = mu
	}
	return mu
}

func (f *fakeRideRepo) CreateRide(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *ride
	cp.ID = f.nextID
	f.rides[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRideRepo) GetRide(_ context.Context, id int64) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return nil, apperrors.NotFoundf("ride %d not found", id)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRideRepo) activeWhere(match func(*models.Ride) bool) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rides {
		if !r.Status.Terminal() && match(r) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperrors.NotFoundf("no active ride")
}

func (f *fakeRideRepo) ActiveRideForCustomer(_ context.Context, customerID int64) (*models.Ride, error) {
	return f.activeWhere(func(r *models.Ride) bool { return r.CustomerID == customerID })
}

func (f *fakeRideRepo) ActiveRideForDriver(_ context.Context, driverID int64) (*models.Ride, error) {
	return f.activeWhere(func(r *models.Ride) bool { return r.AssignedTo(driverID) })
}

func (f *fakeRideRepo) UpdateInTx(_ context.Context, id int64, fn func(*models.Ride) error) (*models.Ride, error) {
	lock := f.rowLock(id)
	lock.Lock()
	defer lock.Unlock()

	f.mu.Lock()
	r, ok := f.rides[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperrors.NotFoundf("ride %d not found", id)
	}
	cp := *r
	f.mu.Unlock()

	if err := fn(&cp); err != nil {
		return nil, err
	}

	f.mu.Lock()
	stored := cp
	f.rides[id] = &stored
	f.mu.Unlock()

	out := cp
	return &out, nil
}

func (f *fakeRideRepo) UpdateDriverPosition(_ context.Context, id int64, lat, lng float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rides[id]
	if !ok {
		return apperrors.NotFoundf("ride %d not found", id)
	}
	r.DriverLat = &lat
	r.DriverLng = &lng
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]*models.Payment)}
}

func (f *fakePaymentRepo) CreatePayment(_ context.Context, p *models.Payment) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.payments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakePaymentRepo) PaymentByRide(_ context.Context, rideID int64) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.RideID == rideID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFoundf("no payment for ride %d", rideID)
}

func (f *fakePaymentRepo) PaymentByProviderRef(_ context.Context, ref string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ProviderTxID == ref || p.IdempotencyKey == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFoundf("no payment for reference %s", ref)
}

func (f *fakePaymentRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status models.PaymentStatus, providerTxID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return apperrors.NotFoundf("payment %s not found", id)
	}
	p.Status = status
	if providerTxID != "" {
		p.ProviderTxID = providerTxID
	}
	return nil
}

type fakePresenceRepo struct {
	mu       sync.Mutex
	lastSeen map[int64]time.Time
	touches  map[int64]int
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{
		lastSeen: make(map[int64]time.Time),
		touches:  make(map[int64]int),
	}
}

func (f *fakePresenceRepo) Touch(_ context.Context, driverID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeen[driverID] = time.Now()
	f.touches[driverID]++
	return nil
}

func (f *fakePresenceRepo) setLastSeen(driverID int64, t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSeen[driverID] = t
}

func (f *fakePresenceRepo) LastSeen(_ context.Context, driverID int64) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.lastSeen[driverID]
	if !ok {
		return time.Time{}, apperrors.NotFoundf("no presence for driver %d", driverID)
	}
	return t, nil
}

func (f *fakePresenceRepo) RecordLocation(_ context.Context, _ string, _ int64, _, _ float64) error {
	return nil
}

type fakeGateway struct {
	mu        sync.Mutex
	published []string
}

func (f *fakeGateway) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, name)
	return nil
}

func (f *fakeGateway) PublishRideCreated(context.Context, *models.Ride) error {
	return f.record("created")
}
func (f *fakeGateway) PublishRideAccepted(context.Context, *models.Ride) error {
	return f.record("accepted")
}
func (f *fakeGateway) PublishRideStarted(context.Context, *models.Ride) error {
	return f.record("started")
}
func (f *fakeGateway) PublishRideCompleted(context.Context, *models.Ride) error {
	return f.record("completed")
}
func (f *fakeGateway) PublishRideCancelled(context.Context, *models.Ride) error {
	return f.record("cancelled")
}
func (f *fakeGateway) PublishPaymentStatus(context.Context, *models.Payment) error {
	return f.record("payment")
}

type fakeGeocoder struct {
	area string
	err  error
}

func (f *fakeGeocoder) ReverseArea(context.Context, float64, float64) (string, error) {
	return f.area, f.err
}

type pushRecord struct {
	userID int64
	title  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	pushes []pushRecord
}

func (f *fakeNotifier) Push(_ context.Context, userID int64, title, _ string, _ map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, pushRecord{userID: userID, title: title})
	return nil
}

type published struct {
	topic string
	event realtime.Event
}

// fakeBroadcaster records every publish in order.
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []published
}

func (f *fakeBroadcaster) Publish(topic string, event realtime.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{topic: topic, event: event})
}

func (f *fakeBroadcaster) PublishAll(topics []string, event realtime.Event) {
	for _, t := range topics {
		f.Publish(t, event)
	}
}

func (f *fakeBroadcaster) onTopic(topic string) []realtime.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []realtime.Event
	for _, p := range f.events {
		if p.topic == topic {
			out = append(out, p.event)
		}
	}
	return out
}

// ucFixture bundles a rideUC with all its fakes.
type ucFixture struct {
	uc       *rideUC
	rides    *fakeRideRepo
	payments *fakePaymentRepo
	presence *fakePresenceRepo
	gw       *fakeGateway
	geocoder *fakeGeocoder
	notifier *fakeNotifier
	bc       *fakeBroadcaster
}

func testConfig() *models.Config {
	return &models.Config{
		Rides: models.RidesConfig{
			FreeAllowanceSeconds:  300,
			PauseRatePerMinute:    250,
			ArrivalGraceSeconds:   300,
			OfflineTimeoutSeconds: 300,
			IdleTimeoutSeconds:    90,
			Currency:              "XAF",
		},
	}
}

func newFixture() *ucFixture {
	f := &ucFixture{
		rides:    newFakeRideRepo(),
		payments: newFakePaymentRepo(),
		presence: newFakePresenceRepo(),
		gw:       &fakeGateway{},
		geocoder: &fakeGeocoder{area: "city-center"},
		notifier: &fakeNotifier{},
		bc:       &fakeBroadcaster{},
	}
	uc, _ := NewRideUC(testConfig(), f.rides, f.payments, f.presence, f.gw, f.geocoder, f.notifier, f.bc)
	f.uc = uc.(*rideUC)
	return f
}

// seedRide inserts a ride directly, bypassing dispatch.
func (f *ucFixture) seedRide(ride *models.Ride) *models.Ride {
	created, _ := f.rides.CreateRide(context.Background(), ride)
	return created
}
