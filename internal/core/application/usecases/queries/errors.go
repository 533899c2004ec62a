package queries

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/tracking"
)

var (
	ErrCourierNotFound = errors.New("courier not found")
	ErrPackageNotFound = errors.New("package not found")
	ErrEmptyBatch      = errors.New("at least one courier id is required")
	ErrBatchTooLarge   = fmt.Errorf("at most %d courier ids may be requested at once", tracking.MaxBatchSize)
)
