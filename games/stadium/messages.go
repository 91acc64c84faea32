/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import "time"

// Notifier delivers outbound messages. Implementations must not block and
// must not call back into the Match.
type Notifier interface {
	Broadcast(msg any)
	Send(id string, msg any)
}

// Scheduler runs fn every interval until the returned cancel func is called.
// fn must run on the same goroutine that drives the Match.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (cancel func())
}

// ClientMessage is everything a client may send. Pointer fields let the
// transport tell a missing coordinate from a zero one.
type ClientMessage struct {
	Type          string   `json:"type"`                    // "join", "submitGuess", "startRound", ...
	Name          string   `json:"name,omitempty"`          // join
	Lat           *float64 `json:"lat,omitempty"`           // submitGuess
	Lng           *float64 `json:"lng,omitempty"`           // submitGuess
	TimeRemaining *float64 `json:"timeRemaining,omitempty"` // submitGuess
}

// PlayerView is the public face of a Player.
type PlayerView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	RoundScores []int  `json:"roundScores"`
}

// SessionInfoMessage is sent on connect so the client knows its role.
type SessionInfoMessage struct {
	Type   string `json:"type"` // "sessionInfo"
	ID     string `json:"id"`
	IsHost bool   `json:"isHost"`
}

// GameStateMessage is the private snapshot sent to a player after joining.
type GameStateMessage struct {
	Type         string       `json:"type"` // "gameState"
	CurrentRound int          `json:"currentRound"`
	TotalRounds  int          `json:"totalRounds"`
	Players      []PlayerView `json:"players"`
	RoundActive  bool         `json:"roundActive"`
}

type PlayerJoinedMessage struct {
	Type         string       `json:"type"` // "playerJoined"
	Player       PlayerView   `json:"player"`
	TotalPlayers int          `json:"totalPlayers"`
	AllPlayers   []PlayerView `json:"allPlayers"`
}

type PlayerLeftMessage struct {
	Type         string `json:"type"` // "playerLeft"
	PlayerName   string `json:"playerName"`
	TotalPlayers int    `json:"totalPlayers"`
}

type RoundStartMessage struct {
	Type        string `json:"type"`  // "roundStart"
	Round       int    `json:"round"` // 1-based
	TotalRounds int    `json:"totalRounds"`
	Image       string `json:"image"`
}

type RevealProgressMessage struct {
	Type     string `json:"type"`     // "revealProgress"
	Progress int    `json:"progress"` // seconds since round start
}

// GuessSubmittedMessage confirms a guess to the player who made it.
type GuessSubmittedMessage struct {
	Type          string  `json:"type"` // "guessSubmitted"
	Distance      int     `json:"distance"`
	Score         int     `json:"score"`
	TimeRemaining float64 `json:"timeRemaining"`
}

// RoundResult is one player's line in the round summary. Pointer fields are
// null for players who did not guess.
type RoundResult struct {
	PlayerName string   `json:"playerName"`
	Score      int      `json:"score"`
	Distance   *int     `json:"distance"`
	GuessLat   *float64 `json:"guessLat"`
	GuessLng   *float64 `json:"guessLng"`
	TotalScore int      `json:"totalScore"`
}

type RoundEndMessage struct {
	Type        string        `json:"type"` // "roundEnd"
	StadiumName string        `json:"stadiumName"`
	StadiumLat  float64       `json:"stadiumLat"`
	StadiumLng  float64       `json:"stadiumLng"`
	Results     []RoundResult `json:"results"`
	Leaderboard []PlayerView  `json:"leaderboard"`
}

type ReadyForNextRoundMessage struct {
	Type         string `json:"type"` // "readyForNextRound"
	CurrentRound int    `json:"currentRound"`
	TotalRounds  int    `json:"totalRounds"`
}

type GameOverMessage struct {
	Type        string       `json:"type"` // "gameOver"
	FinalScores []PlayerView `json:"finalScores"`
}

type GameRestartedMessage struct {
	Type string `json:"type"` // "gameRestarted"
}

// ErrorMessage is only ever sent to the offending client.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Kind    string `json:"kind"` // "name-taken", "game-full", "not-host", "already-joined"
	Message string `json:"message"`
}

var errorText = map[string]string{
	"name-taken":     "Name already taken",
	"game-full":      "Game is full",
	"not-host":       "Only the host can do that",
	"already-joined": "You have already joined",
}

// NewErrorMessage builds the private error event for kind.
func NewErrorMessage(kind string) ErrorMessage {
	return ErrorMessage{
		Type:    "error",
		Kind:    kind,
		Message: errorText[kind],
	}
}
