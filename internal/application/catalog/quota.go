package catalog

import (
	"fmt"

	"github.com/sokohub/backend/internal/domain/identity"
	"github.com/sokohub/backend/internal/domain/shared"
)

// QuotaExceededError rejects a product creation that would push a vendor
// past their tier limit. It carries the numbers the client renders in
// the upgrade prompt and unwraps to shared.ErrQuotaExceeded.
type QuotaExceededError struct {
	CurrentCount int64
	Limit        int
	Tier         identity.VendorTier
}

// Error implements the error interface
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("product quota reached: %d of %d on the %s tier", e.CurrentCount, e.Limit, e.Tier)
}

// Unwrap lets errors.Is match shared.ErrQuotaExceeded
func (e *QuotaExceededError) Unwrap() error {
	return shared.ErrQuotaExceeded
}
