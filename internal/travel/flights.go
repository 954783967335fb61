package travel

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const maxOffers = 10

// FlightQuery selects one-way offers. Origin and Destination are IATA codes,
// Date is YYYY-MM-DD.
type FlightQuery struct {
	Origin      string
	Destination string
	Date        string
	Adults      int // default: 1
}

// FlightOffers are the provider's offers, passed through untouched.
type FlightOffers []json.RawMessage

type offersResponse struct {
	Data FlightOffers `json:"data"`
}

// SearchFlights returns up to 10 flight offers. Failures are *UpstreamError.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) (FlightOffers, error) {
	if q.Origin == "" || q.Destination == "" || q.Date == "" {
		return nil, errors.New("origin, destination and date are required")
	}
	if q.Adults <= 0 {
		q.Adults = 1
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.Date)
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("max", strconv.Itoa(maxOffers))

	var resp offersResponse
	if err := c.getJSON(ctx, offersPath, params, &resp); err != nil {
		c.logger.Warn("flight search failed",
			zap.String("origin", q.Origin),
			zap.String("destination", q.Destination),
			zap.String("date", q.Date),
			zap.Error(err),
		)
		return nil, err
	}

	if resp.Data == nil {
		resp.Data = FlightOffers{}
	}
	return resp.Data, nil
}
