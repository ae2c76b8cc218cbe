package models

import "fmt"

// Defaults applied when a request omits an optional field.
const (
	DefaultForm             = "WWW"
	DefaultHomeXG           = 1.5
	DefaultAwayXG           = 1.2
	DefaultPossession       = 50.0
	DefaultDefensiveRating  = 0.75
	DefaultHomeAdvantage    = true
	DefaultCompetitionStage = "mid"
)

// MatchInput is the request body accepted by the prediction endpoints.
// Pointer fields distinguish "absent" from a zero value so defaults can be applied.
type MatchInput struct {
	HomeTeamID          int              `json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID          int              `json:"away_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
	HomeForm            *string          `json:"home_form,omitempty" validate:"omitempty,max=20,form"`
	AwayForm            *string          `json:"away_form,omitempty" validate:"omitempty,max=20,form"`
	HomeXG              *float64         `json:"home_xg,omitempty" validate:"omitempty,gte=0,lte=10"`
	AwayXG              *float64         `json:"away_xg,omitempty" validate:"omitempty,gte=0,lte=10"`
	HomePossession      *float64         `json:"home_possession,omitempty" validate:"omitempty,gte=0,lte=100"`
	AwayPossession      *float64         `json:"away_possession,omitempty" validate:"omitempty,gte=0,lte=100"`
	HomeDefensiveRating *float64         `json:"home_defensive_rating,omitempty" validate:"omitempty,gte=0,lte=1"`
	AwayDefensiveRating *float64         `json:"away_defensive_rating,omitempty" validate:"omitempty,gte=0,lte=1"`
	IsHomeAdvantage     *bool            `json:"is_home_advantage,omitempty"`
	Extended            *ExtendedContext `json:"extended,omitempty" validate:"omitempty"`
}

// MatchContext is the fully defaulted, immutable input to the prediction engine.
type MatchContext struct {
	HomeTeamID          int
	AwayTeamID          int
	HomeForm            string
	AwayForm            string
	HomeXG              float64
	AwayXG              float64
	HomePossession      float64
	AwayPossession      float64
	HomeDefensiveRating float64
	AwayDefensiveRating float64
	HomeAdvantage       bool
	Extended            *ExtendedContext
}

// ExtendedContext carries the optional data used by the advanced feature set.
type ExtendedContext struct {
	Home                 TeamContext             `json:"home_team"`
	Away                 TeamContext             `json:"away_team"`
	CompetitionStage     string                  `json:"competition_stage,omitempty" validate:"omitempty,oneof=early mid late"`
	HomeCupParticipation bool                    `json:"home_cup_participation,omitempty"`
	AwayCupParticipation bool                    `json:"away_cup_participation,omitempty"`
	Weather              *WeatherData            `json:"weather,omitempty"`
	RefereeID            string                  `json:"referee_id,omitempty"`
	Referees             map[string]RefereeStats `json:"referee_data,omitempty" validate:"omitempty,dive"`
}

// TeamContext holds per-team history. Pointer fields default to league-typical values.
type TeamContext struct {
	RecentResults          []string         `json:"recent_results,omitempty" validate:"omitempty,max=20,dive,oneof=W D L"`
	PointsLast5            int              `json:"points_last_5,omitempty" validate:"gte=0"`
	PointsLast10           int              `json:"points_last_10,omitempty" validate:"gte=0"`
	PointsLast20           int              `json:"points_last_20,omitempty" validate:"gte=0"`
	HomeRecord             HomeRecord       `json:"home_record"`
	XGAvg                  *float64         `json:"xg_avg,omitempty" validate:"omitempty,gte=0"`
	CleanSheets            int              `json:"clean_sheets,omitempty" validate:"gte=0"`
	GoalsConceded          int              `json:"goals_conceded,omitempty" validate:"gte=0"`
	MatchesPlayed          *int             `json:"matches_played,omitempty" validate:"omitempty,gte=0"`
	DaysSinceLastMatch     *int             `json:"days_since_last_match,omitempty" validate:"omitempty,gte=0"`
	MatchesIn14Days        *int             `json:"matches_in_14_days,omitempty" validate:"omitempty,gte=0"`
	SquadDepth             *int             `json:"squad_depth,omitempty" validate:"omitempty,gte=0"`
	KeyPlayersOut          int              `json:"key_players_out,omitempty" validate:"gte=0"`
	PreviousResults        []PreviousResult `json:"previous_results,omitempty" validate:"omitempty,dive"`
	ChampionshipContention bool             `json:"championship_contention,omitempty"`
	WeatherAffinity        WeatherAffinity  `json:"weather_affinity"`
}

// HomeRecord is a team's record in home fixtures.
type HomeRecord struct {
	Wins   int `json:"wins" validate:"gte=0"`
	Played int `json:"played" validate:"gte=0"`
}

// PreviousResult is one entry of a team's chronological result list.
type PreviousResult struct {
	Result string `json:"result" validate:"oneof=W D L"`
}

// WeatherData describes forecast conditions for the fixture.
type WeatherData struct {
	WindSpeed       *float64 `json:"wind_speed,omitempty"`
	RainProbability *float64 `json:"rain_probability,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// WeatherAffinity describes how sensitive a team is to wind and rain.
type WeatherAffinity struct {
	WindResistance *float64 `json:"wind_resistance,omitempty"`
	RainAffinity   *float64 `json:"rain_affinity,omitempty"`
}

// RefereeStats summarises a referee's officiating history.
type RefereeStats struct {
	HomeWins     int `json:"home_wins" validate:"gte=0"`
	AwayWins     int `json:"away_wins" validate:"gte=0"`
	YellowCards  int `json:"yellow_cards" validate:"gte=0"`
	TotalMatches int `json:"total_matches" validate:"gte=0"`
}

// MatchID returns the identifier used for a fixture, e.g. "12_vs_40".
func (m MatchInput) MatchID() string {
	return fmt.Sprintf("%d_vs_%d", m.HomeTeamID, m.AwayTeamID)
}

// ToContext fills every absent optional field with its default.
func (m MatchInput) ToContext() MatchContext {
	return MatchContext{
		HomeTeamID:          m.HomeTeamID,
		AwayTeamID:          m.AwayTeamID,
		HomeForm:            stringOr(m.HomeForm, DefaultForm),
		AwayForm:            stringOr(m.AwayForm, DefaultForm),
		HomeXG:              floatOr(m.HomeXG, DefaultHomeXG),
		AwayXG:              floatOr(m.AwayXG, DefaultAwayXG),
		HomePossession:      floatOr(m.HomePossession, DefaultPossession),
		AwayPossession:      floatOr(m.AwayPossession, DefaultPossession),
		HomeDefensiveRating: floatOr(m.HomeDefensiveRating, DefaultDefensiveRating),
		AwayDefensiveRating: floatOr(m.AwayDefensiveRating, DefaultDefensiveRating),
		HomeAdvantage:       boolOr(m.IsHomeAdvantage, DefaultHomeAdvantage),
		Extended:            m.Extended,
	}
}

// MatchID returns the identifier used for a fixture.
func (c MatchContext) MatchID() string {
	return fmt.Sprintf("%d_vs_%d", c.HomeTeamID, c.AwayTeamID)
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// FloatOr returns *v, or def when v is nil.
func FloatOr(v *float64, def float64) float64 { return floatOr(v, def) }

// IntOr returns *v, or def when v is nil.
func IntOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
