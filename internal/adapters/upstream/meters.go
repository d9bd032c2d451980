package upstream

import (
	"context"
	"net/url"
	"time"

	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// MeterRegistryClient implements secondary.MeterRegistry over HTTP.
type MeterRegistryClient struct {
	client
}

// NewMeterRegistryClient creates a meter-registry client against baseURL.
func NewMeterRegistryClient(baseURL string, timeout time.Duration) *MeterRegistryClient {
	return &MeterRegistryClient{client: newClient(baseURL, timeout)}
}

// ListMeters retrieves the meters of a building for one service. Failures
// surface as UpstreamUnavailableError, never as "no readings".
func (c *MeterRegistryClient) ListMeters(ctx context.Context, buildingID, serviceID string) ([]secondary.Meter, error) {
	query := url.Values{"serviceId": {serviceID}}

	var payload struct {
		Meters []secondary.Meter `json:"meters"`
	}
	if err := c.getJSON(ctx, "/buildings/"+buildingID+"/meters", query, &payload); err != nil {
		return nil, faults.Upstream("meter registry", err)
	}
	return payload.Meters, nil
}
