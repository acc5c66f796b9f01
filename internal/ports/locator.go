package ports

import (
	"context"
	"place-picker-service/internal/domain"
)

// Contract for obtaining the user's current position.
type Locator interface {
	// Return a single position fix. Implementations must honor ctx cancellation.
	Locate(ctx context.Context) (domain.Coordinates, error)
}
