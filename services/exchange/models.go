package exchange

// rateAPIResponse mirrors the rate service payload: a result flag plus a map
// of currency code to USD-based rate.
type rateAPIResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}
