package countries

import "github.com/AbdulWasayUl/country-cache-api/models"

// countryAPIRecord mirrors one element of the catalog response when requested
// with the fields list name,capital,region,population,flag,currencies.
type countryAPIRecord struct {
	Name       string  `json:"name"`
	Capital    *string `json:"capital"`
	Region     *string `json:"region"`
	Population *int64  `json:"population"`
	Flag       *string `json:"flag"`
	Currencies []struct {
		Code   string `json:"code"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
}

func (r countryAPIRecord) toRaw() models.RawCountry {
	raw := models.RawCountry{
		Name:       r.Name,
		Capital:    r.Capital,
		Region:     r.Region,
		Population: r.Population,
		FlagURL:    r.Flag,
	}
	for _, c := range r.Currencies {
		raw.Currencies = append(raw.Currencies, models.RawCurrency{
			Code:   c.Code,
			Name:   c.Name,
			Symbol: c.Symbol,
		})
	}
	return raw
}
