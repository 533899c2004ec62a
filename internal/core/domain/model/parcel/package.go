package parcel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrPackageIsNotConstructed is returned when using an improperly initialized Package.
	ErrPackageIsNotConstructed = errors.New("Package must be created via NewPackage or RestorePackage constructor")
	// ErrInvalidTransition is the sentinel behind TransitionError.
	ErrInvalidTransition = errors.New("invalid package status transition")
	// ErrAlreadyAssigned is returned by AssignTo when a courier is already set.
	ErrAlreadyAssigned = errors.New("package is already assigned to a courier")
	// ErrNotAssigned is returned when a package without a courier reaches a courier-bearing status.
	ErrNotAssigned = errors.New("package is not assigned to a courier")
	// ErrZoneIsRequired is returned when creating a package without a delivery zone.
	ErrZoneIsRequired = errs.NewValueIsRequiredError("zone")
	// ErrReasonIsRequired is returned by MarkNotDelivered without a reason.
	ErrReasonIsRequired = errs.NewValueIsRequiredError("not delivered reason")
)

// Contact holds the optional customer and recipient contact data of a package.
type Contact struct {
	CustomerPhone  *string
	RecipientName  *string
	RecipientPhone *string
	RecipientEmail *string
}

func (c Contact) clone() Contact {
	return Contact{
		CustomerPhone:  copyString(c.CustomerPhone),
		RecipientName:  copyString(c.RecipientName),
		RecipientPhone: copyString(c.RecipientPhone),
		RecipientEmail: copyString(c.RecipientEmail),
	}
}

// Package is the aggregate root for a parcel moving from pickup to delivery.
//
// Business rules:
//   - weight must be positive and a delivery zone is required
//   - the delivery period start is before its end
//   - status changes go through CanTransition
//   - an Assigned package always has a courier and an assigned_at
//   - returning to the pool clears courier, assigned_at and the failure reason
//   - every mutation bumps version and updatedAt
//
// Example:
//
//	pickupPoint, _ := kernel.NewCoordinates(52.52, 13.405)
//	pickup, _ := parcel.NewAddress("Alexanderplatz 1", "Berlin", "10178", pickupPoint)
//	period, _ := parcel.NewDeliveryPeriod(time.Now().Add(time.Hour), time.Now().Add(3*time.Hour))
//	p, err := parcel.NewPackage(kernel.NewUUID(), orderID, customerID, parcel.Contact{},
//	    pickup, delivery, period, 2.5, parcel.Normal, "Berlin-Mitte")
//	if err != nil {
//	    // handle validation error
//	}
//	_ = p.MoveToPool()
type Package struct {
	id         kernel.UUID
	orderID    kernel.UUID
	customerID kernel.UUID
	contact    Contact

	pickup         Address
	delivery       Address
	deliveryPeriod DeliveryPeriod
	weightKg       float64
	priority       Priority
	zone           string

	status             Status
	courierID          *kernel.UUID
	notDeliveredReason *string

	createdAt   time.Time
	updatedAt   time.Time
	assignedAt  *time.Time
	deliveredAt *time.Time

	version          int
	persistedVersion int

	guard guard.ConstructorGuard
}

// NewPackage creates a package in status Accepted, version 1, not yet persisted.
//
// Parameters:
//   - id: unique identifier of the package
//   - orderID, customerID: identifiers of the originating order and its customer
//   - contact: optional customer and recipient contact data
//   - pickup, delivery: where the courier collects and drops the package
//   - period: the promised delivery window
//   - weightKg: must be greater than 0
//   - priority: Normal or Urgent
//   - zone: the delivery zone used to find couriers
//
// Returns:
//   - *Package: the created package
//   - error: every validation failure joined together
func NewPackage(
	id, orderID, customerID kernel.UUID,
	contact Contact,
	pickup, delivery Address,
	period DeliveryPeriod,
	weightKg float64,
	priority Priority,
	zone string,
) (*Package, error) {
	now := time.Now().UTC()
	p := &Package{
		contact:   contact.clone(),
		status:    Accepted,
		createdAt: now,
		updatedAt: now,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setIDs(id, orderID, customerID),
		p.setAddresses(pickup, delivery),
		p.setDeliveryPeriod(period),
		p.setWeight(weightKg),
		p.setPriority(priority),
		p.setZone(zone),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Snapshot is the full persisted state of a package, used by RestorePackage.
type Snapshot struct {
	ID                 kernel.UUID
	OrderID            kernel.UUID
	CustomerID         kernel.UUID
	Contact            Contact
	Pickup             Address
	Delivery           Address
	DeliveryPeriod     DeliveryPeriod
	WeightKg           float64
	Priority           Priority
	Zone               string
	Status             Status
	CourierID          *kernel.UUID
	NotDeliveredReason *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	AssignedAt         *time.Time
	DeliveredAt        *time.Time
	Version            int
}

// RestorePackage rebuilds a package loaded from storage. Besides the field
// rules of NewPackage it checks that status and courier assignment agree.
// The loaded version becomes PersistedVersion.
func RestorePackage(s Snapshot) (*Package, error) {
	p := &Package{
		contact:            s.Contact.clone(),
		courierID:          copyUUID(s.CourierID),
		notDeliveredReason: copyString(s.NotDeliveredReason),
		createdAt:          s.CreatedAt.UTC(),
		updatedAt:          s.UpdatedAt.UTC(),
		assignedAt:         copyTime(s.AssignedAt),
		deliveredAt:        copyTime(s.DeliveredAt),
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setIDs(s.ID, s.OrderID, s.CustomerID),
		p.setAddresses(s.Pickup, s.Delivery),
		p.setDeliveryPeriod(s.DeliveryPeriod),
		p.setWeight(s.WeightKg),
		p.setPriority(s.Priority),
		p.setZone(s.Zone),
		p.setStatus(s.Status),
		p.setVersion(s.Version),
	); err != nil {
		return nil, err
	}
	p.persistedVersion = s.Version

	return p, nil
}

// Snapshot exports the current state for persistence.
func (p *Package) Snapshot() Snapshot {
	return Snapshot{
		ID:                 p.id,
		OrderID:            p.orderID,
		CustomerID:         p.customerID,
		Contact:            p.contact.clone(),
		Pickup:             p.pickup,
		Delivery:           p.delivery,
		DeliveryPeriod:     p.deliveryPeriod,
		WeightKg:           p.weightKg,
		Priority:           p.priority,
		Zone:               p.zone,
		Status:             p.status,
		CourierID:          copyUUID(p.courierID),
		NotDeliveredReason: copyString(p.notDeliveredReason),
		CreatedAt:          p.createdAt,
		UpdatedAt:          p.updatedAt,
		AssignedAt:         copyTime(p.assignedAt),
		DeliveredAt:        copyTime(p.deliveredAt),
		Version:            p.version,
	}
}

func (p *Package) Validate() error {
	if p == nil {
		return ErrPackageIsNotConstructed
	}
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

func (p *Package) ID() kernel.UUID {
	return p.id
}

func (p *Package) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Package) CustomerID() kernel.UUID {
	return p.customerID
}

func (p *Package) Contact() Contact {
	return p.contact.clone()
}

func (p *Package) Pickup() Address {
	return p.pickup
}

func (p *Package) Delivery() Address {
	return p.delivery
}

func (p *Package) DeliveryPeriod() DeliveryPeriod {
	return p.deliveryPeriod
}

func (p *Package) WeightKg() float64 {
	return p.weightKg
}

func (p *Package) Priority() Priority {
	return p.priority
}

func (p *Package) Zone() string {
	return p.zone
}

func (p *Package) Status() Status {
	return p.status
}

// CourierID returns a copy of the assigned courier id, or nil.
func (p *Package) CourierID() *kernel.UUID {
	return copyUUID(p.courierID)
}

// IsAssignedTo reports whether courierID is the package's courier.
func (p *Package) IsAssignedTo(courierID kernel.UUID) bool {
	return p.courierID != nil && p.courierID.IsEqual(courierID)
}

func (p *Package) NotDeliveredReason() *string {
	return copyString(p.notDeliveredReason)
}

func (p *Package) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Package) UpdatedAt() time.Time {
	return p.updatedAt
}

func (p *Package) AssignedAt() *time.Time {
	return copyTime(p.assignedAt)
}

func (p *Package) DeliveredAt() *time.Time {
	return copyTime(p.deliveredAt)
}

// Version is the current version including unsaved mutations.
func (p *Package) Version() int {
	return p.version
}

// PersistedVersion is the version the store holds, or 0 for a new package.
// Saves compare against it.
func (p *Package) PersistedVersion() int {
	return p.persistedVersion
}

// MarkPersisted records that the current version has been written.
func (p *Package) MarkPersisted() {
	p.persistedVersion = p.version
}

// CanBeAssigned reports whether the package waits in the pool without a courier.
func (p *Package) CanBeAssigned() bool {
	return p.status == InPool && p.courierID == nil
}

// MoveToPool makes an Accepted package available for dispatch.
func (p *Package) MoveToPool() error {
	if err := p.transitionTo(InPool); err != nil {
		return err
	}
	p.touch()
	return nil
}

// AssignTo hands the package to a courier and records assigned_at.
func (p *Package) AssignTo(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if p.courierID != nil {
		return ErrAlreadyAssigned
	}
	if err := p.transitionTo(Assigned); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.courierID = &courierID
	p.assignedAt = &now
	p.touch()
	return nil
}

func (p *Package) StartTransit() error {
	if err := p.transitionTo(InTransit); err != nil {
		return err
	}
	p.touch()
	return nil
}

func (p *Package) MarkDelivered() error {
	if err := p.transitionTo(Delivered); err != nil {
		return err
	}
	now := time.Now().UTC()
	p.deliveredAt = &now
	p.touch()
	return nil
}

// MarkNotDelivered records a failed attempt. The reason is required.
func (p *Package) MarkNotDelivered(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrReasonIsRequired
	}
	if err := p.transitionTo(NotDelivered); err != nil {
		return err
	}
	p.notDeliveredReason = &reason
	p.touch()
	return nil
}

// RequireHandling flags a NotDelivered package for an operator.
func (p *Package) RequireHandling() error {
	if err := p.transitionTo(RequiresHandling); err != nil {
		return err
	}
	p.touch()
	return nil
}

// ReturnToPool puts a failed package back up for dispatch. A NotDelivered
// package passes through RequiresHandling first, so the version grows by
// one per status step. Courier, assigned_at and the failure reason are cleared.
func (p *Package) ReturnToPool() error {
	if p.status == NotDelivered {
		if err := p.RequireHandling(); err != nil {
			return err
		}
	}
	if err := p.transitionTo(InPool); err != nil {
		return err
	}

	p.courierID = nil
	p.assignedAt = nil
	p.notDeliveredReason = nil
	p.touch()
	return nil
}

func (p *Package) transitionTo(to Status) error {
	if !CanTransition(p.status, to) {
		return &TransitionError{From: p.status, To: to}
	}
	p.status = to
	return nil
}

func (p *Package) touch() {
	p.updatedAt = time.Now().UTC()
	p.version++
}

func (p *Package) setIDs(id, orderID, customerID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate(), customerID.Validate()); err != nil {
		return err
	}
	p.id = id
	p.orderID = orderID
	p.customerID = customerID
	return nil
}

func (p *Package) setAddresses(pickup, delivery Address) error {
	var errPickup, errDelivery error
	if err := pickup.Validate(); err != nil {
		errPickup = fmt.Errorf("pickup: %w", err)
	}
	if err := delivery.Validate(); err != nil {
		errDelivery = fmt.Errorf("delivery: %w", err)
	}
	if err := errors.Join(errPickup, errDelivery); err != nil {
		return err
	}
	p.pickup = pickup
	p.delivery = delivery
	return nil
}

func (p *Package) setDeliveryPeriod(period DeliveryPeriod) error {
	if err := period.Validate(); err != nil {
		return err
	}
	p.deliveryPeriod = period
	return nil
}

func (p *Package) setWeight(weightKg float64) error {
	if !(weightKg > 0) {
		return errs.NewValueIsInvalidErrorWithCause(
			"weight",
			fmt.Errorf("%v is not greater than 0", weightKg),
		)
	}
	p.weightKg = weightKg
	return nil
}

func (p *Package) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	p.priority = priority
	return nil
}

func (p *Package) setZone(zone string) error {
	if strings.TrimSpace(zone) == "" {
		return ErrZoneIsRequired
	}
	p.zone = zone
	return nil
}

func (p *Package) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if status.HasCourier() && p.courierID == nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier",
			fmt.Errorf("%w: status %s", ErrNotAssigned, status),
		)
	}
	if !status.HasCourier() && p.courierID != nil {
		return errs.NewValueIsInvalidErrorWithCause(
			"courier",
			fmt.Errorf("status %s cannot have a courier", status),
		)
	}
	if status == Assigned && p.assignedAt == nil {
		return errs.NewValueIsRequiredError("assigned at")
	}
	p.status = status
	return nil
}

func (p *Package) setVersion(version int) error {
	if version < 1 {
		return errs.NewVersionIsInvalidError("version", fmt.Errorf("%d is less than 1", version))
	}
	p.version = version
	return nil
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyUUID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
