package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/tictoc/internal/domain"
	"github.com/jaminalder/tictoc/internal/search"
	"go.uber.org/zap"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID           string
	Game         domain.Game
	Human        string
	HumanSide    domain.Cell
	ComputerSide domain.Cell
	// LastComputer is the computer's most recent choice, nil before it moves.
	LastComputer *search.Choice
	Created      time.Time
	Updated      time.Time
}

// Status is a short human-readable summary of the match.
func (gs GameState) Status() string {
	if !gs.Game.Over {
		if gs.Game.Turn() == gs.HumanSide {
			return "Your move"
		}
		return "Computer is thinking"
	}
	switch gs.Game.Winner {
	case gs.HumanSide:
		return "You won"
	case gs.ComputerSide:
		return "Computer won"
	default:
		return "Draw"
	}
}

func (gs *GameState) clone() GameState {
	cp := *gs
	cp.Game = gs.Game.Clone()
	if gs.LastComputer != nil {
		c := *gs.LastComputer
		cp.LastComputer = &c
	}
	return cp
}

// subscriber guards its channel so a send never races a close.
type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// send delivers b without blocking. A subscriber whose buffer is full is
// closed; send reports false for it and for one already closed.
func (s *subscriber) send(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- b:
		return true
	default:
		s.closed = true
		close(s.ch)
		return false
	}
}

// Service manages games against the computer and their subscribers.
type Service struct {
	mu        sync.Mutex
	games     map[string]*GameState
	subs      map[string]map[*subscriber]struct{}
	render    func(GameState) []byte
	log       *zap.Logger
	newPlayer func() *search.Player
	rng       *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the broadcast payload renderer.
func WithRenderer(renderer func(GameState) []byte) Option {
	return func(s *Service) {
		if renderer != nil {
			s.render = renderer
		}
	}
}

// WithLogger sets the service logger; it is also handed to computer players.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSeed makes opening moves and the computer's tie-breaks reproducible.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.rng = rand.New(rand.NewSource(seed))
		s.newPlayer = func() *search.Player {
			return search.NewPlayer(search.WithSeed(s.rng.Int63()), search.WithLogger(s.log))
		}
	}
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...Option) *Service {
	s := &Service{
		games:  make(map[string]*GameState),
		subs:   make(map[string]map[*subscriber]struct{}),
		render: func(gs GameState) []byte { return nil },
		log:    zap.NewNop(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newPlayer == nil {
		s.newPlayer = func() *search.Player { return search.NewPlayer(search.WithLogger(s.log)) }
	}
	return s
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte) *Service {
	return NewService(WithRenderer(renderer))
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game. The human always plays X;
// when computerFirst is set O opens on a random cell.
func (s *Service) CreateGame(computerFirst bool) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	first := domain.X
	if computerFirst {
		first = domain.O
	}
	gs := &GameState{
		ID:           id,
		Game:         domain.NewWithFirst(first),
		HumanSide:    domain.X,
		ComputerSide: domain.O,
		Created:      now,
		Updated:      now,
	}
	if computerFirst {
		// Every opening is safe on an empty board; skip the full search.
		open := domain.Move{Row: s.rng.Intn(domain.Size), Col: s.rng.Intn(domain.Size)}
		if err := gs.Game.Play(open.Row, open.Col); err != nil {
			return nil, fmt.Errorf("opening move: %w", err)
		}
		gs.LastComputer = &search.Choice{Move: open, Verdict: search.VerdictNeutral}
	}
	s.games[id] = gs
	s.log.Info("game created", zap.String("game", id), zap.Bool("computer_first", computerFirst))
	cp := gs.clone()
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := gs.clone()
	return &cp, true
}

// Join seats the player as the human if the seat is free; returns Empty for
// spectators.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := domain.Empty
	if gs.Human == "" || gs.Human == playerID {
		gs.Human = playerID
		side = gs.HumanSide
	}
	gs.Updated = time.Now()
	cp := gs.clone()
	return side, &cp, nil
}

// Play validates seat and turn, applies the human move and the computer's
// reply, updates timestamps, and broadcasts.
func (s *Service) Play(id, playerID string, r, c int) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if gs.Human != playerID {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if !gs.Game.Over && gs.Game.Turn() != gs.HumanSide {
		s.mu.Unlock()
		return nil, ErrNotYourTurn
	}
	if err := gs.Game.Play(r, c); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.LastComputer = nil
	if !gs.Game.Over {
		// The seat is the computer's until reply returns, so other Play calls
		// fail with ErrNotYourTurn while the lock is released for the search.
		if err := s.reply(gs); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	gs.Updated = time.Now()
	if gs.Game.Over {
		s.log.Info("game finished",
			zap.String("game", id),
			zap.Stringer("outcome", gs.Game.Board.Outcome()),
			zap.Int("moves", gs.Game.Moves))
	}

	cp := gs.clone()
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.fanOut(id, subs, payload)
	return &cp, nil
}

// reply lets the computer move. It is entered and left with s.mu held, but
// drops the lock while the search runs on a private copy of the board.
func (s *Service) reply(gs *GameState) error {
	board := gs.Game.Board
	moves := gs.Game.Moves
	player := s.newPlayer()

	s.mu.Unlock()
	choice, err := player.Choose(&board)
	s.mu.Lock()
	if err != nil {
		return fmt.Errorf("computer move: %w", err)
	}
	if gs.Game.Moves != moves {
		return fmt.Errorf("computer move %v: %w", choice.Move, ErrNotYourTurn)
	}
	if err := gs.Game.Play(choice.Move.Row, choice.Move.Col); err != nil {
		return fmt.Errorf("computer move %v: %w", choice.Move, err)
	}
	gs.LastComputer = &choice
	s.log.Debug("computer moved",
		zap.String("game", gs.ID),
		zap.Int("row", choice.Move.Row),
		zap.Int("col", choice.Move.Col),
		zap.Stringer("verdict", choice.Verdict))
	return nil
}

// fanOut delivers payload, dropping subscribers that are not keeping up.
func (s *Service) fanOut(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.send(payload) {
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
	s.log.Debug("dropped slow subscribers", zap.String("game", id), zap.Int("count", len(toDrop)))
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
