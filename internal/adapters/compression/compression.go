package compression

import (
	"fmt"
	"time"

	"github.com/iamNilotpal/zblock/internal/core/domain"
	zerrors "github.com/iamNilotpal/zblock/pkg/errors"
	"github.com/iamNilotpal/zblock/pkg/pool"
)

const (
	// MaxPoolSlots caps the per-direction context pool. Anything larger
	// stops being a cache and starts being a memory commitment.
	MaxPoolSlots = 8192

	// MinSlotTimeout and MaxSlotTimeout bound the idle reclaim timer.
	MinSlotTimeout = time.Second
	MaxSlotTimeout = time.Hour
)

// Returns AdapterOptions initialized with the recommended default values:
// a pool sized to the machine's CPU count and the standard two minute
// idle timeout.
func DefaultOptions() *domain.AdapterOptions {
	return &domain.AdapterOptions{
		PoolSlots:   pool.DefaultSlots(),
		SlotTimeout: pool.DefaultTimeout,
	}
}

// Checks if the adapter options are valid and returns an error if any
// option is outside acceptable bounds. Zero values are allowed and select
// the defaults.
func Validate(input *domain.AdapterOptions) error {
	if input.PoolSlots < 0 || input.PoolSlots > MaxPoolSlots {
		return zerrors.NewValidationError(
			"PoolSlots", input.PoolSlots,
			fmt.Errorf("pool slots must be between 0 and %d, got %d", MaxPoolSlots, input.PoolSlots),
		)
	}

	if input.SlotTimeout != 0 &&
		(input.SlotTimeout < MinSlotTimeout || input.SlotTimeout > MaxSlotTimeout) {
		return zerrors.NewValidationError(
			"SlotTimeout", input.SlotTimeout,
			fmt.Errorf("slot timeout must be between %s and %s, got %s", MinSlotTimeout, MaxSlotTimeout, input.SlotTimeout),
		)
	}

	return nil
}
