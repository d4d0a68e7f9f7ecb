package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RawCountry is one record as delivered by the external catalog, before
// validation or enrichment. Pointer fields distinguish "absent" from
// zero values; population in particular must be present to pass validation.
type RawCountry struct {
	Name       string
	Capital    *string
	Region     *string
	Population *int64
	FlagURL    *string
	Currencies []RawCurrency
}

// RawCurrency is a currency descriptor attached to a raw record. Only the
// code matters downstream; name and symbol are carried for completeness.
type RawCurrency struct {
	Code   string
	Name   string
	Symbol string
}

// FirstCurrencyCode returns the code of the first currency descriptor, or ""
// when the record has no usable currency.
func (r RawCountry) FirstCurrencyCode() string {
	if len(r.Currencies) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Currencies[0].Code)
}

// Country is the persisted cache entity. One row per country name; the whole
// set is replaced by each refresh cycle.
//
// ExchangeRate and EstimatedGdp stay nil when the record has no currency code
// or its rate could not be resolved; EstimatedGdp is 0.0 (non-nil) for the
// no-currency case.
type Country struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	NameKey         string             `bson:"name_key" json:"-"`
	Capital         *string            `bson:"capital" json:"capital"`
	Region          *string            `bson:"region" json:"region"`
	Population      int64              `bson:"population" json:"population"`
	CurrencyCode    *string            `bson:"currency_code" json:"currency_code"`
	ExchangeRate    *float64           `bson:"exchange_rate" json:"exchange_rate"`
	EstimatedGdp    *float64           `bson:"estimated_gdp" json:"estimated_gdp"`
	FlagURL         *string            `bson:"flag_url" json:"flag_url"`
	LastRefreshedAt time.Time          `bson:"last_refreshed_at" json:"last_refreshed_at"`
}

// NormalizeName is the case-insensitive identity used for lookup, delete and
// the unique index.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Status is the derived cache aggregate: row count plus the newest refresh
// timestamp, or nil when the cache is empty. It is always computed on read,
// never stored.
type Status struct {
	TotalCountries  int64      `json:"total_countries"`
	LastRefreshedAt *time.Time `json:"last_refreshed_at"`
}
