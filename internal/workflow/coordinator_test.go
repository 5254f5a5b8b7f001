package workflow

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_hub/internal/models"
)

// fakeStore is an in-memory EntityStore with the same guarded-update
// semantics the database store provides.
type fakeStore struct {
	mu         sync.Mutex
	deliveries map[uint]*models.DeliveryRequest
	passes     map[uint]*models.GatePass
	nextID     uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deliveries: make(map[uint]*models.DeliveryRequest),
		passes:     make(map[uint]*models.GatePass),
	}
}

func (s *fakeStore) allocID() uint {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) GetDelivery(id uint) (*models.DeliveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivery, ok := s.deliveries[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *delivery
	return &copied, nil
}

func (s *fakeStore) GetGatePass(id uint) (*models.GatePass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pass, ok := s.passes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *pass
	return &copied, nil
}

func (s *fakeStore) CreateDelivery(d *models.DeliveryRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.allocID()
	copied := *d
	s.deliveries[d.ID] = &copied
	return nil
}

func (s *fakeStore) CreateGatePass(gp *models.GatePass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gp.ID = s.allocID()
	copied := *gp
	s.passes[gp.ID] = &copied
	return nil
}

func (s *fakeStore) CreateGatedDelivery(d *models.DeliveryRequest, pass func(deliveryID uint) *models.GatePass) (*models.GatePass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.allocID()
	deliveryCopy := *d
	s.deliveries[d.ID] = &deliveryCopy

	gp := pass(d.ID)
	gp.ID = s.allocID()
	passCopy := *gp
	s.passes[gp.ID] = &passCopy
	return gp, nil
}

func (s *fakeStore) UpdateDelivery(id uint, expect models.DeliveryStatus, changes map[string]interface{}) (*models.DeliveryRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delivery, ok := s.deliveries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if delivery.Status != expect {
		return nil, &ConflictError{Entity: EntityDelivery, ID: id}
	}
	for key, value := range changes {
		switch key {
		case "status":
			delivery.Status = value.(models.DeliveryStatus)
		case "rider_id":
			delivery.RiderID = value.(uint)
		case "rider_name":
			delivery.RiderName = value.(string)
		default:
			return nil, fmt.Errorf("fakeStore: unsupported delivery column %q", key)
		}
	}
	copied := *delivery
	return &copied, nil
}

func (s *fakeStore) UpdateGatePass(id uint, expect models.GatePassStatus, changes map[string]interface{}) (*models.GatePass, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pass, ok := s.passes[id]
	if !ok {
		return nil, ErrNotFound
	}
	if pass.Status != expect {
		return nil, &ConflictError{Entity: EntityGatePass, ID: id}
	}
	for key, value := range changes {
		switch key {
		case "status":
			pass.Status = value.(models.GatePassStatus)
		case "qr_code":
			pass.QRCode = value.(string)
		default:
			return nil, fmt.Errorf("fakeStore: unsupported gate pass column %q", key)
		}
	}
	copied := *pass
	return &copied, nil
}

// recorder captures published change events.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Publish(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) byEntity(entity string) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Entity == entity {
			out = append(out, e)
		}
	}
	return out
}

func sequentialTokens() TokenSource {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("QR-TEST-%d", n)
	}
}

func resident(id uint, name string) *models.User {
	u := &models.User{Name: name, Role: models.RoleResident, Lat: 6.5250, Lng: 3.3790}
	u.ID = id
	return u
}

func rider(id uint, name string, outside, online bool) *models.User {
	u := &models.User{
		Name: name, Role: models.RoleDispatchRider,
		OperatesOutsideEstate: outside, Lat: 6.5240, Lng: 3.3785,
	}
	u.ID = id
	u.Rider = &models.Rider{UserID: id, IsOnline: online}
	return u
}

func details() DeliveryDetails {
	return DeliveryDetails{
		PickupAddress:  "Mama Chi's Groceries",
		DropoffAddress: "Block 1, Apt 2A",
		Description:    "Weekly grocery shopping",
		EstimatedCost:  500,
		PickupLat:      6.5260,
		PickupLng:      3.3800,
	}
}

func TestRequiresGate(t *testing.T) {
	assert.False(t, RequiresGate(nil))
	assert.False(t, RequiresGate(rider(1, "Musa", false, true)))
	assert.True(t, RequiresGate(rider(2, "David", true, false)))
}

func TestCreateDeliveryRequest_ExternalVisitorCreatesLinkedPair(t *testing.T) {
	store := newFakeStore()
	events := &recorder{}
	coord := New(store, sequentialTokens(), events)

	requester := resident(10, "Ngozi Eze")
	external := rider(20, "David Jones", true, false)

	delivery, err := coord.CreateDeliveryRequest(requester, details(), external)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryAwaitingGatePass, delivery.Status)
	assert.Zero(t, delivery.RiderID, "dispatch is deferred until the pass is approved")

	require.Len(t, store.passes, 1)
	var pass *models.GatePass
	for _, gp := range store.passes {
		pass = gp
	}
	assert.Equal(t, models.GatePassPending, pass.Status)
	assert.Equal(t, models.QRPlaceholder, pass.QRCode)
	assert.Equal(t, delivery.ID, pass.LinkedDeliveryID)
	assert.Equal(t, external.ID, pass.TargetVisitorID)
	assert.Equal(t, requester.ID, pass.ResidentID)
	assert.Equal(t, fmt.Sprintf("Delivery pickup for job #%d", delivery.ID), pass.Purpose)

	assert.Len(t, events.byEntity(EntityDelivery), 1)
	assert.Len(t, events.byEntity(EntityGatePass), 1)
}

func TestCreateDeliveryRequest_InsideVisitorSkipsGate(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	requester := resident(10, "Chinedu Okoro")
	inside := rider(21, "Musa Aliyu", false, true)

	delivery, err := coord.CreateDeliveryRequest(requester, details(), inside)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, delivery.Status)
	assert.Equal(t, inside.ID, delivery.RiderID)
	assert.Equal(t, "Musa Aliyu", delivery.RiderName)
	assert.Empty(t, store.passes, "no gate pass for in-estate visitors")
}

func TestCreateDeliveryRequest_NoVisitor(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Chinedu Okoro"), details(), nil)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, delivery.Status)
	assert.Zero(t, delivery.RiderID)
}

func TestCreateDeliveryRequest_Validation(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)
	requester := resident(10, "Chinedu Okoro")

	tests := []struct {
		name   string
		mutate func(*DeliveryDetails)
	}{
		{"missing pickup address", func(d *DeliveryDetails) { d.PickupAddress = "" }},
		{"missing dropoff address", func(d *DeliveryDetails) { d.DropoffAddress = "" }},
		{"missing description", func(d *DeliveryDetails) { d.Description = "" }},
		{"latitude out of range", func(d *DeliveryDetails) { d.PickupLat = 91 }},
		{"longitude out of range", func(d *DeliveryDetails) { d.PickupLng = -181 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := details()
			tc.mutate(&in)
			_, err := coord.CreateDeliveryRequest(requester, in, nil)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Empty(t, store.deliveries, "nothing written on validation failure")
		})
	}
}

func TestResolveGatePass_ApproveReleasesLinkedDelivery(t *testing.T) {
	store := newFakeStore()
	events := &recorder{}
	coord := New(store, sequentialTokens(), events)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Ngozi Eze"), details(), rider(20, "David Jones", true, false))
	require.NoError(t, err)
	passID := passIDFor(t, store, delivery.ID)

	pass, err := coord.ResolveGatePass(passID, models.GatePassApproved)
	require.NoError(t, err)
	assert.Equal(t, models.GatePassApproved, pass.Status)
	assert.NotEqual(t, models.QRPlaceholder, pass.QRCode)

	updated, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, updated.Status)

	deliveryEvents := events.byEntity(EntityDelivery)
	require.Len(t, deliveryEvents, 2)
	assert.Equal(t, string(models.DeliveryPending), deliveryEvents[1].NewStatus)
}

func TestResolveGatePass_DeclineCancelsLinkedDelivery(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Ngozi Eze"), details(), rider(20, "David Jones", true, false))
	require.NoError(t, err)
	passID := passIDFor(t, store, delivery.ID)

	pass, err := coord.ResolveGatePass(passID, models.GatePassDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.GatePassDeclined, pass.Status)
	assert.Equal(t, models.QRPlaceholder, pass.QRCode, "declined passes keep the placeholder")

	updated, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryCancelled, updated.Status)
}

func TestResolveGatePass_SecondResolutionFails(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Ngozi Eze"), details(), rider(20, "David Jones", true, false))
	require.NoError(t, err)
	passID := passIDFor(t, store, delivery.ID)

	_, err = coord.ResolveGatePass(passID, models.GatePassApproved)
	require.NoError(t, err)

	_, err = coord.ResolveGatePass(passID, models.GatePassDeclined)
	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Equal(t, string(models.GatePassPending), precondition.Want)
	assert.Equal(t, string(models.GatePassApproved), precondition.Got)

	// The linked delivery must not have been mutated again.
	updated, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, updated.Status)
}

func TestResolveGatePass_InvalidDecision(t *testing.T) {
	coord := New(newFakeStore(), sequentialTokens(), nil)
	_, err := coord.ResolveGatePass(1, models.GatePassUsed)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestResolveGatePass_StaleLinkLeavesDeliveryUntouched(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Ngozi Eze"), details(), rider(20, "David Jones", true, false))
	require.NoError(t, err)
	passID := passIDFor(t, store, delivery.ID)

	// The delivery left Awaiting Gate Pass before the admin got to the pass.
	store.mu.Lock()
	store.deliveries[delivery.ID].Status = models.DeliveryCancelled
	store.mu.Unlock()

	pass, err := coord.ResolveGatePass(passID, models.GatePassApproved)
	require.NoError(t, err)
	assert.Equal(t, models.GatePassApproved, pass.Status)

	updated, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryCancelled, updated.Status)
}

func TestResolveGatePass_UnlinkedPass(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	pass, err := coord.CreateGatePass(resident(10, "Chinedu Okoro"), GatePassDetails{
		VisitorName:   "Femi Adekunle (Plumber)",
		VisitorType:   models.RoleServiceProvider,
		Purpose:       "Fix leaking kitchen sink",
		VisitDateTime: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, models.QRPlaceholder, pass.QRCode)

	resolved, err := coord.ResolveGatePass(pass.ID, models.GatePassApproved)
	require.NoError(t, err)
	assert.Equal(t, models.GatePassApproved, resolved.Status)
	assert.NotEqual(t, models.QRPlaceholder, resolved.QRCode)
}

func TestCreateGatePass_Validation(t *testing.T) {
	coord := New(newFakeStore(), sequentialTokens(), nil)
	owner := resident(10, "Chinedu Okoro")

	valid := GatePassDetails{
		VisitorName:   "Family Visit",
		VisitorType:   models.RoleResident,
		Purpose:       "Visiting family",
		VisitDateTime: time.Now(),
	}

	tests := []struct {
		name   string
		mutate func(*GatePassDetails)
	}{
		{"missing visitor name", func(d *GatePassDetails) { d.VisitorName = "" }},
		{"missing purpose", func(d *GatePassDetails) { d.Purpose = "" }},
		{"missing visit time", func(d *GatePassDetails) { d.VisitDateTime = time.Time{} }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := coord.CreateGatePass(owner, in)
			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestAcceptJob(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Chinedu Okoro"), details(), nil)
	require.NoError(t, err)

	online := rider(21, "Musa Aliyu", false, true)
	accepted, err := coord.AcceptJob(delivery.ID, online)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryAccepted, accepted.Status)
	assert.Equal(t, online.ID, accepted.RiderID)
	assert.Equal(t, "Musa Aliyu", accepted.RiderName)
}

func TestAcceptJob_Preconditions(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Chinedu Okoro"), details(), nil)
	require.NoError(t, err)

	t.Run("offline rider", func(t *testing.T) {
		_, err := coord.AcceptJob(delivery.ID, rider(22, "Samson Ade", false, false))
		var precondition *PreconditionError
		require.ErrorAs(t, err, &precondition)
		assert.Equal(t, "online", precondition.Want)
	})

	t.Run("non-rider caller", func(t *testing.T) {
		_, err := coord.AcceptJob(delivery.ID, resident(11, "Funke Adebayo"))
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("already taken", func(t *testing.T) {
		_, err := coord.AcceptJob(delivery.ID, rider(21, "Musa Aliyu", false, true))
		require.NoError(t, err)
		_, err = coord.AcceptJob(delivery.ID, rider(23, "Tunde Bakare", false, true))
		var precondition *PreconditionError
		require.ErrorAs(t, err, &precondition)
		assert.Equal(t, string(models.DeliveryPending), precondition.Want)
		assert.Equal(t, string(models.DeliveryAccepted), precondition.Got)
	})
}

// staleReadStore serves every read from the same Pending snapshot so two
// racing accepts both pass the precondition check and the guarded write
// decides the winner, as it would against the real database.
type staleReadStore struct {
	*fakeStore
	snapshot models.DeliveryRequest
}

func (s *staleReadStore) GetDelivery(id uint) (*models.DeliveryRequest, error) {
	copied := s.snapshot
	return &copied, nil
}

func TestAcceptJob_RaceHasOneWinner(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	delivery, err := coord.CreateDeliveryRequest(resident(10, "Chinedu Okoro"), details(), nil)
	require.NoError(t, err)

	snapshot, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	racing := New(&staleReadStore{fakeStore: store, snapshot: *snapshot}, sequentialTokens(), nil)

	riders := []*models.User{
		rider(21, "Musa Aliyu", false, true),
		rider(23, "Tunde Bakare", false, true),
	}

	errs := make([]error, len(riders))
	var wg sync.WaitGroup
	for i := range riders {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = racing.AcceptJob(delivery.ID, riders[i])
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	final, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryAccepted, final.Status)
}

func TestAdvanceJob(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	assigned := rider(21, "Musa Aliyu", false, true)
	delivery, err := coord.CreateDeliveryRequest(resident(10, "Chinedu Okoro"), details(), nil)
	require.NoError(t, err)
	_, err = coord.AcceptJob(delivery.ID, assigned)
	require.NoError(t, err)

	t.Run("complete before start rejected", func(t *testing.T) {
		_, err := coord.AdvanceJob(delivery.ID, assigned, models.DeliveryCompleted)
		var precondition *PreconditionError
		require.ErrorAs(t, err, &precondition)
	})

	t.Run("only listed transitions allowed", func(t *testing.T) {
		_, err := coord.AdvanceJob(delivery.ID, assigned, models.DeliveryCancelled)
		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("unassigned rider rejected", func(t *testing.T) {
		_, err := coord.AdvanceJob(delivery.ID, rider(23, "Tunde Bakare", false, true), models.DeliveryInTransit)
		var precondition *PreconditionError
		require.ErrorAs(t, err, &precondition)
	})

	t.Run("start then complete", func(t *testing.T) {
		inTransit, err := coord.AdvanceJob(delivery.ID, assigned, models.DeliveryInTransit)
		require.NoError(t, err)
		assert.Equal(t, models.DeliveryInTransit, inTransit.Status)

		completed, err := coord.AdvanceJob(delivery.ID, assigned, models.DeliveryCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.DeliveryCompleted, completed.Status)
	})
}

func TestCancelJob(t *testing.T) {
	store := newFakeStore()
	coord := New(store, sequentialTokens(), nil)

	requester := resident(10, "Chinedu Okoro")
	delivery, err := coord.CreateDeliveryRequest(requester, details(), nil)
	require.NoError(t, err)

	t.Run("only the requester may cancel", func(t *testing.T) {
		_, err := coord.CancelJob(delivery.ID, resident(11, "Funke Adebayo"))
		var precondition *PreconditionError
		require.ErrorAs(t, err, &precondition)
	})

	t.Run("requester cancels pending job", func(t *testing.T) {
		cancelled, err := coord.CancelJob(delivery.ID, requester)
		require.NoError(t, err)
		assert.Equal(t, models.DeliveryCancelled, cancelled.Status)
	})

	t.Run("cancelled job stays cancelled", func(t *testing.T) {
		_, err := coord.CancelJob(delivery.ID, requester)
		var precondition *PreconditionError
		require.ErrorAs(t, err, &precondition)
	})
}

// End-to-end scenario from the estate's point of view: resident orders from
// an external store, admin approves the pass, the job becomes dispatchable.
func TestExternalStoreScenario(t *testing.T) {
	store := newFakeStore()
	coord := New(store, UUIDTokens(), nil)

	requester := resident(10, "Chinedu Okoro")
	externalStore := &models.User{
		Name: "Gbenga Peters", Role: models.RoleStore,
		OperatesOutsideEstate: true, Lat: 6.5340, Lng: 3.3940,
	}
	externalStore.ID = 30
	externalStore.Store = &models.Store{UserID: 30, BusinessName: "QuickFix Hardware"}

	in := details()
	in.PickupAddress = "45, Industrial Layout"
	in.DropoffAddress = "Block 1, Apt 2A"

	delivery, err := coord.CreateDeliveryRequest(requester, in, externalStore)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryAwaitingGatePass, delivery.Status)

	passID := passIDFor(t, store, delivery.ID)
	pass, err := store.GetGatePass(passID)
	require.NoError(t, err)
	assert.Equal(t, "QuickFix Hardware", pass.VisitorName, "pass names the business")

	resolved, err := coord.ResolveGatePass(passID, models.GatePassApproved)
	require.NoError(t, err)
	assert.Equal(t, models.GatePassApproved, resolved.Status)
	assert.NotEqual(t, models.QRPlaceholder, resolved.QRCode)

	released, err := store.GetDelivery(delivery.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryPending, released.Status)
}

func passIDFor(t *testing.T, store *fakeStore, deliveryID uint) uint {
	t.Helper()
	store.mu.Lock()
	defer store.mu.Unlock()
	for id, gp := range store.passes {
		if gp.LinkedDeliveryID == deliveryID {
			return id
		}
	}
	t.Fatalf("no gate pass linked to delivery %d", deliveryID)
	return 0
}
