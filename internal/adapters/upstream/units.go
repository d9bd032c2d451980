package upstream

import (
	"context"
	"time"

	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// UnitDirectoryClient implements secondary.UnitDirectory over HTTP.
type UnitDirectoryClient struct {
	client
}

// NewUnitDirectoryClient creates a unit-directory client against baseURL.
func NewUnitDirectoryClient(baseURL string, timeout time.Duration) *UnitDirectoryClient {
	return &UnitDirectoryClient{client: newClient(baseURL, timeout)}
}

// ListUnits retrieves all units of a building. Failures, including
// timeouts, surface as UpstreamUnavailableError so callers never mistake
// an outage for an empty building.
func (c *UnitDirectoryClient) ListUnits(ctx context.Context, buildingID string) ([]secondary.Unit, error) {
	var payload struct {
		Units []secondary.Unit `json:"units"`
	}
	if err := c.getJSON(ctx, "/buildings/"+buildingID+"/units", nil, &payload); err != nil {
		return nil, faults.Upstream("unit directory", err)
	}
	return payload.Units, nil
}
