package travel

import (
	"context"
	"net/url"

	"go.uber.org/zap"
)

const maxAirports = 10

type Airport struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// FallbackAirports is served when the location search fails.
var FallbackAirports = []Airport{
	{Code: "BER", Name: "Berlin Brandenburg", City: "Berlin", Country: "Deutschland"},
	{Code: "JFK", Name: "John F. Kennedy", City: "New York", Country: "USA"},
	{Code: "LHR", Name: "Heathrow", City: "London", Country: "UK"},
}

type locationsResponse struct {
	Data []struct {
		IATACode string `json:"iataCode"`
		Name     string `json:"name"`
		Address  struct {
			CityName    string `json:"cityName"`
			CountryName string `json:"countryName"`
		} `json:"address"`
	} `json:"data"`
}

// SearchAirports returns up to 10 airports and cities matching keyword.
// It never fails: provider errors are logged and the fallback list is returned.
func (c *Client) SearchAirports(ctx context.Context, keyword string) []Airport {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("subType", "AIRPORT,CITY")

	var resp locationsResponse
	if err := c.getJSON(ctx, locationsPath, params, &resp); err != nil {
		c.logger.Warn("airport search failed, serving fallback list",
			zap.String("keyword", keyword),
			zap.Error(err),
		)
		return fallbackAirports()
	}

	n := min(len(resp.Data), maxAirports)
	airports := make([]Airport, 0, n)
	for _, loc := range resp.Data[:n] {
		airports = append(airports, Airport{
			Code:    loc.IATACode,
			Name:    loc.Name,
			City:    loc.Address.CityName,
			Country: loc.Address.CountryName,
		})
	}
	return airports
}

func fallbackAirports() []Airport {
	return append([]Airport(nil), FallbackAirports...)
}
