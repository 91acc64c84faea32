/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package stadium implements the stadium guessing game: players join a match,
// a host runs rounds, and each round players click a map to guess where an
// obscured stadium photo was taken. Guesses are scored by distance and speed.
//
// A Match is not safe for concurrent use. The owner must call every method,
// and every Scheduler callback, from a single goroutine.
package stadium

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultRounds     = 10
	DefaultMaxPlayers = 50
	DefaultNameLength = 20

	revealInterval = time.Second
)

type Phase int

const (
	Idle Phase = iota
	RoundActive
	RoundEnded
	GameOver
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case RoundActive:
		return "round-active"
	case RoundEnded:
		return "round-ended"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

type Player struct {
	ID          string
	Name        string
	Score       int
	RoundScores []int
}

func (p *Player) view() PlayerView {
	return PlayerView{
		ID:          p.ID,
		Name:        p.Name,
		Score:       p.Score,
		RoundScores: slices.Clone(p.RoundScores),
	}
}

type Guess struct {
	Lat           float64
	Lng           float64
	Distance      float64
	Score         int
	TimeRemaining float64
}

// Options configures a Match. Zero values fall back to the defaults.
type Options struct {
	Stadiums   []Stadium
	Rounds     int
	MaxPlayers int
	NameLength int
	Notifier   Notifier
	Scheduler  Scheduler
	Logf       func(format string, args ...any)
	Now        func() time.Time
}

type Match struct {
	stadiums   []Stadium
	maxPlayers int
	nameLength int

	notify   Notifier
	schedule Scheduler
	logf     func(format string, args ...any)
	now      func() time.Time

	currentRound   int
	totalRounds    int
	roundActive    bool
	roundEnded     bool
	roundStartTime time.Time
	revealProgress int

	// roundSeq identifies the current round so stale reveal ticks can be
	// recognised and dropped.
	roundSeq     uint64
	cancelReveal func()

	players map[string]*Player
	order   []string
	guesses map[string]*Guess
}

func New(opts Options) *Match {
	m := &Match{
		stadiums:    opts.Stadiums,
		totalRounds: opts.Rounds,
		maxPlayers:  opts.MaxPlayers,
		nameLength:  opts.NameLength,
		notify:      opts.Notifier,
		schedule:    opts.Scheduler,
		logf:        opts.Logf,
		now:         opts.Now,
		players:     make(map[string]*Player),
		guesses:     make(map[string]*Guess),
	}

	if m.stadiums == nil {
		m.stadiums = DefaultStadiums()
	}
	if m.totalRounds <= 0 {
		m.totalRounds = min(DefaultRounds, len(m.stadiums))
	}
	if m.maxPlayers <= 0 {
		m.maxPlayers = DefaultMaxPlayers
	}
	if m.nameLength <= 0 {
		m.nameLength = DefaultNameLength
	}
	if m.logf == nil {
		m.logf = func(string, ...any) {}
	}
	if m.now == nil {
		m.now = time.Now
	}

	return m
}

func (m *Match) CurrentRound() int   { return m.currentRound }
func (m *Match) TotalRounds() int    { return m.totalRounds }
func (m *Match) RoundActive() bool   { return m.roundActive }
func (m *Match) RevealProgress() int { return m.revealProgress }
func (m *Match) PlayerCount() int    { return len(m.players) }

func (m *Match) Phase() Phase {
	switch {
	case m.roundActive:
		return RoundActive
	case m.currentRound >= m.totalRounds:
		return GameOver
	case m.roundEnded:
		return RoundEnded
	default:
		return Idle
	}
}

// Player returns a copy of the player registered under id.
func (m *Match) Player(id string) (PlayerView, bool) {
	p, ok := m.players[id]
	if !ok {
		return PlayerView{}, false
	}

	return p.view(), true
}

// Players returns the roster in join order.
func (m *Match) Players() []PlayerView {
	views := make([]PlayerView, 0, len(m.order))
	for _, id := range m.order {
		views = append(views, m.players[id].view())
	}

	return views
}

// leaderboard returns the roster ranked by cumulative score; ties keep
// join order.
func (m *Match) leaderboard() []PlayerView {
	views := m.Players()
	slices.SortStableFunc(views, func(a, b PlayerView) int {
		return b.Score - a.Score
	})

	return views
}

func (m *Match) normalizeName(raw string) string {
	name := strings.TrimSpace(raw)

	if utf8.RuneCountInString(name) > m.nameLength {
		name = strings.TrimSpace(string([]rune(name)[:m.nameLength]))
	}

	return name
}

// Join registers a new player under id.
func (m *Match) Join(id, rawName string) (PlayerView, error) {
	name := m.normalizeName(rawName)
	if name == "" {
		return PlayerView{}, ErrInvalidName
	}

	if _, ok := m.players[id]; ok {
		return PlayerView{}, ErrAlreadyJoined
	}

	if len(m.players) >= m.maxPlayers {
		return PlayerView{}, ErrGameFull
	}

	for _, p := range m.players {
		if strings.EqualFold(p.Name, name) {
			return PlayerView{}, ErrNameTaken
		}
	}

	p := &Player{
		ID:          id,
		Name:        name,
		RoundScores: []int{},
	}
	m.players[id] = p
	m.order = append(m.order, id)

	m.logf("GAMES: Player %q joined (%d/%d)", name, len(m.players), m.maxPlayers)

	roster := m.Players()

	m.notify.Send(id, GameStateMessage{
		Type:         "gameState",
		CurrentRound: m.currentRound,
		TotalRounds:  m.totalRounds,
		Players:      roster,
		RoundActive:  m.roundActive,
	})

	m.notify.Broadcast(PlayerJoinedMessage{
		Type:         "playerJoined",
		Player:       p.view(),
		TotalPlayers: len(m.players),
		AllPlayers:   roster,
	})

	return p.view(), nil
}

// Leave removes the player registered under id, if any. A guess the player
// already made this round is dropped with them.
func (m *Match) Leave(id string) {
	p, ok := m.players[id]
	if !ok {
		return
	}

	delete(m.players, id)
	delete(m.guesses, id)
	m.order = slices.DeleteFunc(m.order, func(other string) bool {
		return other == id
	})

	m.logf("GAMES: Player %q left (%d remaining)", p.Name, len(m.players))

	m.notify.Broadcast(PlayerLeftMessage{
		Type:         "playerLeft",
		PlayerName:   p.Name,
		TotalPlayers: len(m.players),
	})
}

// Close cancels any pending reveal task.
func (m *Match) Close() {
	m.stopReveal()
}
