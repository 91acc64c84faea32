/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package stadium

import (
	"fmt"
	"math"
	"slices"
	"time"
)

func (m *Match) currentStadium() (Stadium, error) {
	if m.currentRound < 0 || m.currentRound >= len(m.stadiums) {
		return Stadium{}, fmt.Errorf("%w %d", ErrMissingStadium, m.currentRound+1)
	}

	return m.stadiums[m.currentRound], nil
}

func (m *Match) stopReveal() {
	if m.cancelReveal != nil {
		m.cancelReveal()
		m.cancelReveal = nil
	}
}

// StartRound opens the current round for guesses and starts the reveal.
// Once every round has been played it announces the final standings
// instead and changes nothing.
func (m *Match) StartRound() error {
	if m.currentRound >= m.totalRounds {
		m.notify.Broadcast(GameOverMessage{
			Type:        "gameOver",
			FinalScores: m.leaderboard(),
		})

		return nil
	}

	stadium, err := m.currentStadium()
	if err != nil {
		m.logf("ERROR: Unable to start round: %v", err)

		return err
	}

	m.stopReveal()

	m.roundSeq++
	m.roundActive = true
	m.roundEnded = false
	m.roundStartTime = m.now()
	m.revealProgress = 0
	m.guesses = make(map[string]*Guess)

	m.logf("GAMES: Round %d/%d started", m.currentRound+1, m.totalRounds)

	m.notify.Broadcast(RoundStartMessage{
		Type:        "roundStart",
		Round:       m.currentRound + 1,
		TotalRounds: m.totalRounds,
		Image:       stadium.Image,
	})

	seq := m.roundSeq
	m.cancelReveal = m.schedule.Every(revealInterval, func() {
		m.tick(seq)
	})

	return nil
}

func (m *Match) tick(seq uint64) {
	if seq != m.roundSeq || !m.roundActive || m.revealProgress >= RoundSeconds {
		return
	}

	m.revealProgress++

	m.notify.Broadcast(RevealProgressMessage{
		Type:     "revealProgress",
		Progress: m.revealProgress,
	})

	if m.revealProgress >= RoundSeconds {
		m.stopReveal()
	}
}

func validLat(v float64) bool {
	return !math.IsNaN(v) && v >= -90 && v <= 90
}

func validLng(v float64) bool {
	return !math.IsNaN(v) && v >= -180 && v <= 180
}

func validTimeRemaining(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= RoundSeconds
}

// SubmitGuess records a player's single guess for the active round.
// Anything that cannot be scored is ignored.
func (m *Match) SubmitGuess(id string, lat, lng, timeRemaining float64) {
	if !m.roundActive {
		return
	}

	if _, ok := m.guesses[id]; ok {
		return
	}

	p, ok := m.players[id]
	if !ok {
		return
	}

	if !validLat(lat) || !validLng(lng) || !validTimeRemaining(timeRemaining) {
		return
	}

	stadium, err := m.currentStadium()
	if err != nil {
		return
	}

	distance := Distance(stadium.Lat, stadium.Lng, lat, lng)
	score := Score(distance, timeRemaining)

	m.guesses[id] = &Guess{
		Lat:           lat,
		Lng:           lng,
		Distance:      distance,
		Score:         score,
		TimeRemaining: timeRemaining,
	}

	p.RoundScores = append(p.RoundScores, score)
	p.Score += score

	m.logf("GAMES: Player %q guessed %.0f miles away for %d points", p.Name, distance, score)

	m.notify.Send(id, GuessSubmittedMessage{
		Type:          "guessSubmitted",
		Distance:      int(math.Round(distance)),
		Score:         score,
		TimeRemaining: timeRemaining,
	})
}

// EndRound closes the active round and publishes its results.
func (m *Match) EndRound() error {
	if !m.roundActive {
		return nil
	}

	m.roundActive = false
	m.roundEnded = true
	m.stopReveal()

	stadium, err := m.currentStadium()
	if err != nil {
		m.logf("ERROR: Unable to end round: %v", err)

		return err
	}

	results := make([]RoundResult, 0, len(m.order))
	for _, id := range m.order {
		p := m.players[id]

		result := RoundResult{
			PlayerName: p.Name,
			TotalScore: p.Score,
		}

		if g, ok := m.guesses[id]; ok {
			distance := int(math.Round(g.Distance))
			lat, lng := g.Lat, g.Lng

			result.Score = g.Score
			result.Distance = &distance
			result.GuessLat = &lat
			result.GuessLng = &lng
		}

		results = append(results, result)
	}

	slices.SortStableFunc(results, func(a, b RoundResult) int {
		return b.Score - a.Score
	})

	m.logf("GAMES: Round %d/%d ended after %s with %d guesses",
		m.currentRound+1, m.totalRounds, m.now().Sub(m.roundStartTime).Round(time.Millisecond), len(m.guesses))

	m.notify.Broadcast(RoundEndMessage{
		Type:        "roundEnd",
		StadiumName: stadium.Name,
		StadiumLat:  stadium.Lat,
		StadiumLng:  stadium.Lng,
		Results:     results,
		Leaderboard: m.leaderboard(),
	})

	return nil
}

// NextRound advances to the following round without starting it.
func (m *Match) NextRound() {
	if m.currentRound >= m.totalRounds {
		return
	}

	m.currentRound++
	m.roundEnded = false

	m.notify.Broadcast(ReadyForNextRoundMessage{
		Type:         "readyForNextRound",
		CurrentRound: m.currentRound,
		TotalRounds:  m.totalRounds,
	})
}

// Restart rewinds to the first round and wipes every score, keeping the
// players.
func (m *Match) Restart() {
	m.stopReveal()

	m.roundSeq++
	m.currentRound = 0
	m.roundActive = false
	m.roundEnded = false
	m.revealProgress = 0
	m.guesses = make(map[string]*Guess)

	for _, p := range m.players {
		p.Score = 0
		p.RoundScores = []int{}
	}

	m.logf("GAMES: Game restarted with %d players", len(m.players))

	m.notify.Broadcast(GameRestartedMessage{
		Type: "gameRestarted",
	})
}
