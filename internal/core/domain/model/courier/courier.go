package courier

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// MaxRating is the rating of a courier with only successful deliveries.
	MaxRating = 5.0

	minPhoneLength = 10
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when creating a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrWorkZoneIsRequired is returned when creating a courier without a work zone.
	ErrWorkZoneIsRequired = errs.NewValueIsRequiredError("work zone")
	// ErrInvalidEmail is returned for emails without both '@' and '.'.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPhone is returned for phones not in international format.
	ErrInvalidPhone = errors.New("phone must be in international format starting with +")
	// ErrInvalidMaxDistance is returned for a non-positive max distance.
	ErrInvalidMaxDistance = errors.New("max distance must be positive")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
	// ErrInvalidStatusTransition is the sentinel behind StatusTransitionError.
	ErrInvalidStatusTransition = errors.New("invalid courier status transition")
	// ErrCourierNotAvailable is returned when a courier that is neither Free nor Busy is given a package.
	ErrCourierNotAvailable = errors.New("courier is not available")
	// ErrCourierArchived is returned when mutating an archived courier.
	ErrCourierArchived = errors.New("courier is archived")
	// ErrCourierHasActivePackages is returned when an operation requires an empty courier.
	ErrCourierHasActivePackages = errors.New("courier has active packages")
)

// RuntimeState is the part of a courier that lives in the hot store rather
// than in the durable profile.
type RuntimeState struct {
	Status               Status
	CurrentLoad          int
	MaxLoad              int
	Rating               float64
	SuccessfulDeliveries int
	FailedDeliveries     int
	WorkZone             string
}

// DefaultRuntimeState is what a courier without hot state is treated as:
// Unavailable, empty, unrated.
func DefaultRuntimeState(transport TransportType, workZone string) RuntimeState {
	return RuntimeState{
		Status:   Unavailable,
		MaxLoad:  transport.MaxLoad(),
		WorkZone: workZone,
	}
}

// Courier is the aggregate root for a delivery courier.
//
// The aggregate spans two stores. The profile (identity, contact data,
// transport, schedule, zone) is durable and optimistic-locked by version.
// The runtime state (status, capacity, rating, delivery counters) is kept in
// the hot store and attached with RestoreRuntimeState.
//
// Business rules:
//   - a new courier starts Unavailable with an empty capacity and rating 0
//   - max load is derived from the transport type and re-derived when it changes
//   - transport cannot change while the courier carries packages
//   - rating = successful / (successful + failed) × 5 once any delivery is recorded
//   - Archived is terminal
//   - every mutation bumps version and updatedAt
//
// Example:
//
//	start, _ := courier.NewTimeOfDay(9, 0, 0)
//	end, _ := courier.NewTimeOfDay(18, 0, 0)
//	hours, _ := courier.NewWorkHours(start, end, []int{1, 2, 3, 4, 5})
//	c, err := courier.NewCourier(kernel.NewUUID(), "John Doe", "+491234567890",
//	    "john@example.com", courier.Bicycle, 10, "Berlin-Mitte", hours, nil)
//	if err != nil {
//	    // handle validation error
//	}
//	_ = c.GoOnline()
type Courier struct {
	id            kernel.UUID
	name          string
	phone         string
	email         string
	transportType TransportType
	maxDistanceKm float64
	workZone      string
	workHours     WorkHours
	pushToken     *string

	status               Status
	capacity             Capacity
	rating               float64
	successfulDeliveries int
	failedDeliveries     int

	createdAt        time.Time
	updatedAt        time.Time
	version          int
	persistedVersion int

	guard guard.ConstructorGuard
}

// NewCourier registers a brand-new courier.
//
// Parameters:
//   - id: unique identifier
//   - name: non-empty display name
//   - phone: starts with '+' and is at least 10 characters long
//   - email: contains '@' and '.'
//   - transportType: determines max load and speed
//   - maxDistanceKm: positive radius the courier accepts pickups within
//   - workZone: non-empty zone identifier
//   - workHours: weekly schedule
//   - pushToken: optional notification token
//
// Returns:
//   - *Courier: Unavailable, version 1, not yet persisted
//   - error: every validation failure joined together
func NewCourier(
	id kernel.UUID,
	name, phone, email string,
	transportType TransportType,
	maxDistanceKm float64,
	workZone string,
	workHours WorkHours,
	pushToken *string,
) (*Courier, error) {
	now := time.Now().UTC()
	c := &Courier{
		status:    Unavailable,
		pushToken: copyString(pushToken),
		createdAt: now,
		updatedAt: now,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPhone(phone),
		c.setEmail(email),
		c.setTransportType(transportType),
		c.setMaxDistance(maxDistanceKm),
		c.setWorkZone(workZone),
		c.setWorkHours(workHours),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a courier profile loaded from the durable store.
// The runtime state starts at DefaultRuntimeState; attach the hot state with
// RestoreRuntimeState. The loaded version becomes PersistedVersion.
func RestoreCourier(
	id kernel.UUID,
	name, phone, email string,
	transportType TransportType,
	maxDistanceKm float64,
	workZone string,
	workHours WorkHours,
	pushToken *string,
	createdAt, updatedAt time.Time,
	version int,
) (*Courier, error) {
	c := &Courier{
		status:    Unavailable,
		pushToken: copyString(pushToken),
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPhone(phone),
		c.setEmail(email),
		c.setTransportType(transportType),
		c.setMaxDistance(maxDistanceKm),
		c.setWorkZone(workZone),
		c.setWorkHours(workHours),
		c.setVersion(version),
	); err != nil {
		return nil, err
	}
	c.persistedVersion = version

	return c, nil
}

// RestoreRuntimeState attaches hot-store state to a restored profile. A zero
// MaxLoad falls back to the transport's max load. It does not bump version.
func (c *Courier) RestoreRuntimeState(state RuntimeState) error {
	if err := state.Status.Validate(); err != nil {
		return err
	}
	maxLoad := state.MaxLoad
	if maxLoad <= 0 {
		maxLoad = c.transportType.MaxLoad()
	}
	capacity, err := RestoreCapacity(state.CurrentLoad, maxLoad)
	if err != nil {
		return err
	}
	if state.Rating < 0 || state.Rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", state.Rating, 0.0, MaxRating)
	}
	if state.SuccessfulDeliveries < 0 || state.FailedDeliveries < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery counters",
			fmt.Errorf("%d/%d must not be negative", state.SuccessfulDeliveries, state.FailedDeliveries))
	}

	c.status = state.Status
	c.capacity = capacity
	c.rating = state.Rating
	c.successfulDeliveries = state.SuccessfulDeliveries
	c.failedDeliveries = state.FailedDeliveries
	return nil
}

// RuntimeState returns the hot-store view of the courier.
func (c *Courier) RuntimeState() RuntimeState {
	return RuntimeState{
		Status:               c.status,
		CurrentLoad:          c.capacity.CurrentLoad(),
		MaxLoad:              c.capacity.MaxLoad(),
		Rating:               c.rating,
		SuccessfulDeliveries: c.successfulDeliveries,
		FailedDeliveries:     c.failedDeliveries,
		WorkZone:             c.workZone,
	}
}

// IsEqual compares couriers by identity.
func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Phone() string {
	return c.phone
}

func (c *Courier) Email() string {
	return c.email
}

func (c *Courier) TransportType() TransportType {
	return c.transportType
}

func (c *Courier) MaxDistanceKm() float64 {
	return c.maxDistanceKm
}

func (c *Courier) WorkZone() string {
	return c.workZone
}

func (c *Courier) WorkHours() WorkHours {
	return c.workHours
}

func (c *Courier) PushToken() *string {
	return copyString(c.pushToken)
}

func (c *Courier) Status() Status {
	return c.status
}

func (c *Courier) Capacity() Capacity {
	return c.capacity
}

func (c *Courier) CurrentLoad() int {
	return c.capacity.CurrentLoad()
}

func (c *Courier) MaxLoad() int {
	return c.capacity.MaxLoad()
}

func (c *Courier) Rating() float64 {
	return c.rating
}

func (c *Courier) SuccessfulDeliveries() int {
	return c.successfulDeliveries
}

func (c *Courier) FailedDeliveries() int {
	return c.failedDeliveries
}

func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Courier) UpdatedAt() time.Time {
	return c.updatedAt
}

// Version is the current version including unsaved mutations.
func (c *Courier) Version() int {
	return c.version
}

// PersistedVersion is the version the durable store holds for this courier,
// or 0 if the courier was never saved.
func (c *Courier) PersistedVersion() int {
	return c.persistedVersion
}

// MarkPersisted records that the current version has been written.
func (c *Courier) MarkPersisted() {
	c.persistedVersion = c.version
}

// GoOnline moves an Unavailable courier to Free.
func (c *Courier) GoOnline() error {
	if c.status != Unavailable {
		return newStatusTransitionError(c.status, Free)
	}
	return c.transitionTo(Free)
}

// GoOffline moves a Free courier to Unavailable. It is a no-op for a courier
// that is already Unavailable and fails for Busy or Archived couriers.
func (c *Courier) GoOffline() error {
	if c.status == Unavailable {
		return nil
	}
	return c.transitionTo(Unavailable)
}

// Archive soft-deletes the courier. It fails if the courier is already
// archived or still carries packages.
func (c *Courier) Archive() error {
	if c.status == Archived {
		return ErrCourierArchived
	}
	if !c.capacity.IsEmpty() {
		return ErrCourierHasActivePackages
	}
	return c.transitionTo(Archived)
}

// AcceptPackage adds one package to the courier's load. A courier whose
// capacity fills up becomes Busy.
func (c *Courier) AcceptPackage() error {
	if c.status != Free && c.status != Busy {
		return ErrCourierNotAvailable
	}

	capacity, err := c.capacity.Add()
	if err != nil {
		return err
	}
	c.capacity = capacity

	if !c.capacity.CanAccept() && c.status == Free {
		c.status = Busy
	}
	c.touch()
	return nil
}

// CompleteDelivery releases one package and records the outcome. A Busy
// courier that regains room becomes Free.
func (c *Courier) CompleteDelivery(success bool) error {
	capacity, err := c.capacity.Release()
	if err != nil {
		return err
	}
	c.capacity = capacity

	if success {
		c.successfulDeliveries++
	} else {
		c.failedDeliveries++
	}
	c.rating = CalculateRating(c.successfulDeliveries, c.failedDeliveries)

	if c.status == Busy && c.capacity.CanAccept() {
		c.status = Free
	}
	c.touch()
	return nil
}

// CanAcceptAssignment reports whether the courier is Free and has room.
func (c *Courier) CanAcceptAssignment() bool {
	return c.status.CanAcceptAssignment() && c.capacity.CanAccept()
}

// UpdateContactInfo changes only the fields that are non-nil. At least one
// field must be given.
func (c *Courier) UpdateContactInfo(phone, email, pushToken *string) error {
	if err := c.ensureNotArchived(); err != nil {
		return err
	}
	if phone == nil && email == nil && pushToken == nil {
		return errs.NewValueIsRequiredError("contact info")
	}

	var errPhone, errEmail error
	if phone != nil {
		errPhone = c.setPhone(*phone)
	}
	if email != nil {
		errEmail = c.setEmail(*email)
	}
	if err := errors.Join(errPhone, errEmail); err != nil {
		return err
	}
	if pushToken != nil {
		c.pushToken = copyString(pushToken)
	}
	c.touch()
	return nil
}

func (c *Courier) UpdateWorkSchedule(workHours WorkHours) error {
	if err := c.ensureNotArchived(); err != nil {
		return err
	}
	if err := c.setWorkHours(workHours); err != nil {
		return err
	}
	c.touch()
	return nil
}

// ChangeWorkZone returns the previous zone so callers can move free-set membership.
func (c *Courier) ChangeWorkZone(workZone string) (string, error) {
	if err := c.ensureNotArchived(); err != nil {
		return "", err
	}
	previous := c.workZone
	if err := c.setWorkZone(workZone); err != nil {
		return "", err
	}
	c.touch()
	return previous, nil
}

func (c *Courier) UpdateMaxDistance(maxDistanceKm float64) error {
	if err := c.ensureNotArchived(); err != nil {
		return err
	}
	if err := c.setMaxDistance(maxDistanceKm); err != nil {
		return err
	}
	c.touch()
	return nil
}

// ChangeTransportType switches transport and re-derives max load. It is
// rejected while the courier carries packages.
func (c *Courier) ChangeTransportType(transportType TransportType) error {
	if err := c.ensureNotArchived(); err != nil {
		return err
	}
	if !c.capacity.IsEmpty() {
		return ErrCourierHasActivePackages
	}
	if err := c.setTransportType(transportType); err != nil {
		return err
	}
	c.touch()
	return nil
}

// CalculateRating maps the success ratio onto [0, MaxRating]. With no
// deliveries the rating is 0.
func CalculateRating(successful, failed int) float64 {
	total := successful + failed
	if total <= 0 {
		return 0
	}
	return float64(successful) / float64(total) * MaxRating
}

func (c *Courier) transitionTo(to Status) error {
	if !CanTransition(c.status, to) {
		return newStatusTransitionError(c.status, to)
	}
	c.status = to
	c.touch()
	return nil
}

func (c *Courier) ensureNotArchived() error {
	if c.status == Archived {
		return ErrCourierArchived
	}
	return nil
}

func (c *Courier) touch() {
	c.updatedAt = time.Now().UTC()
	c.version++
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	if !strings.HasPrefix(phone, "+") || len(phone) < minPhoneLength {
		return errs.NewValueIsInvalidErrorWithCause("phone", ErrInvalidPhone)
	}
	c.phone = phone
	return nil
}

func (c *Courier) setEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errs.NewValueIsInvalidErrorWithCause("email", ErrInvalidEmail)
	}
	c.email = email
	return nil
}

func (c *Courier) setTransportType(transportType TransportType) error {
	if err := transportType.Validate(); err != nil {
		return err
	}
	capacity, err := RestoreCapacity(c.capacity.CurrentLoad(), transportType.MaxLoad())
	if err != nil {
		return err
	}
	c.transportType = transportType
	c.capacity = capacity
	return nil
}

func (c *Courier) setMaxDistance(maxDistanceKm float64) error {
	if !(maxDistanceKm > 0) {
		return errs.NewValueIsInvalidErrorWithCause("max distance", ErrInvalidMaxDistance)
	}
	c.maxDistanceKm = maxDistanceKm
	return nil
}

func (c *Courier) setWorkZone(workZone string) error {
	if strings.TrimSpace(workZone) == "" {
		return ErrWorkZoneIsRequired
	}
	c.workZone = workZone
	return nil
}

func (c *Courier) setWorkHours(workHours WorkHours) error {
	if err := workHours.Validate(); err != nil {
		return err
	}
	c.workHours = workHours
	return nil
}

func (c *Courier) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidError("version", fmt.Errorf("%d is less than 1", version))
	}
	c.version = version
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
