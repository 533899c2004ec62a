// Package courierstate keeps courier runtime state and the free-courier
// indexes in Redis.
package courierstate

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	freeCouriersKey = "couriers:free"

	fieldStatus               = "status"
	fieldCurrentLoad          = "current_load"
	fieldMaxLoad              = "max_load"
	fieldRating               = "rating"
	fieldSuccessfulDeliveries = "successful_deliveries"
	fieldFailedDeliveries     = "failed_deliveries"
	fieldWorkZone             = "work_zone"
)

func stateKey(id kernel.UUID) string {
	return fmt.Sprintf("courier:%s:state", id)
}

func zoneFreeKey(zone string) string {
	return fmt.Sprintf("couriers:zone:%s:free", zone)
}
