package duel

import "strings"

type RoundSummary struct {
	Number    int    `json:"number"`
	CreatureA string `json:"creature_a"`
	CreatureB string `json:"creature_b"`
	Rule      Stat   `json:"rule"`
	Forced    bool   `json:"forced,omitempty"`
	WinnerID  string `json:"winner_id,omitempty"`
	Rerolled  bool   `json:"rerolled,omitempty"`
	Special   bool   `json:"special,omitempty"`
	EnergyA   int    `json:"energy_a"`
	EnergyB   int    `json:"energy_b"`
	ScoreA    int    `json:"score_a"`
	ScoreB    int    `json:"score_b"`
}

type Result struct {
	AID        string         `json:"a_id"`
	BID        string         `json:"b_id"`
	WinnerID   string         `json:"winner_id,omitempty"`
	LoserID    string         `json:"loser_id,omitempty"`
	Draw       bool           `json:"draw"`
	SpecialWin bool           `json:"special_win,omitempty"`
	ScoreA     int            `json:"score_a"`
	ScoreB     int            `json:"score_b"`
	Rounds     []RoundSummary `json:"rounds"`
	Log        []string       `json:"log"`
}

func (r *Result) Won(id string) bool {
	return !r.Draw && r.WinnerID == id
}

// Margin is the winner's score minus the loser's.
func (r *Result) Margin() int {
	m := r.ScoreA - r.ScoreB
	if m < 0 {
		return -m
	}
	return m
}

func (r *Result) Text() string {
	return strings.Join(r.Log, "\n")
}
