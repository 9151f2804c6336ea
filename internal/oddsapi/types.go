package oddsapi

import "errors"

// Market keys used by The Odds API v4.
const (
	MarketMoneyline = "h2h"
	MarketSpreads   = "spreads"
	MarketTotals    = "totals"
)

// Totals outcome names used by the provider.
const (
	OutcomeOver  = "Over"
	OutcomeUnder = "Under"
)

// RawGame is one game object from the odds endpoint, untouched except for
// JSON decoding. CommenceTime stays a string: parsing it is the normalizer's
// job so a bad timestamp fails one record, not the fetch.
type RawGame struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	CommenceTime string         `json:"commence_time"`
	AwayTeam     string         `json:"away_team"`
	HomeTeam     string         `json:"home_team"`
	Bookmakers   []RawBookmaker `json:"bookmakers"`
}

// RawBookmaker is one bookmaker's market set within a game payload.
type RawBookmaker struct {
	Key     string      `json:"key"`
	Title   string      `json:"title"`
	Markets []RawMarket `json:"markets"`
}

// RawMarket is one market (h2h, spreads, totals) with its outcome list.
type RawMarket struct {
	Key      string       `json:"key"`
	Outcomes []RawOutcome `json:"outcomes"`
}

// RawOutcome is one priced side of a market. Point is only present for
// spreads and totals.
type RawOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point"`
}

// RawScore is one game object from the scores endpoint. Scores may be empty
// or partial at any time; the provider sends score values as strings.
type RawScore struct {
	ID           string         `json:"id"`
	SportKey     string         `json:"sport_key"`
	Completed    bool           `json:"completed"`
	AwayTeam     string         `json:"away_team"`
	HomeTeam     string         `json:"home_team"`
	Scores       []RawTeamScore `json:"scores"`
	LastUpdate   *string        `json:"last_update"`
	CommenceTime string         `json:"commence_time"`
}

// RawTeamScore is one {team, score} pair within a scores payload.
type RawTeamScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Endpoint string // "odds" or "scores"
	Code     string // error code (e.g. "server_error")
	Message  string
	Err      error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Endpoint + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Endpoint + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// ErrMissingAPIKey is returned when the client is constructed without a key.
var ErrMissingAPIKey = errors.New("odds API key is not configured")

// NewProviderError creates a new provider error
func NewProviderError(endpoint, code, message string, err error) ProviderError {
	return ProviderError{Endpoint: endpoint, Code: code, Message: message, Err: err}
}
