package party

//go:generate mockgen -destination=mock/mock_service.go -package=mockparty -source=service.go

import (
	"fmt"
	"sync"
	"time"

	dnderr "github.com/mossvale/delve-bot-discord/internal/errors"
	"github.com/mossvale/delve-bot-discord/internal/session"
)

// JoinStatus reports the outcome of a lobby join attempt
type JoinStatus string

const (
	JoinAdded  JoinStatus = "added"
	JoinExists JoinStatus = "exists"
	JoinFull   JoinStatus = "full"
)

// VoteStatus reports the outcome of recording one ballot
type VoteStatus string

const (
	VoteNotMember VoteStatus = "not_member"
	VoteStarted   VoteStatus = "started"
	VoteUpdated   VoteStatus = "updated"
	VoteMajority  VoteStatus = "majority"
)

// VoteResult describes the ballot state after one RecordVote call
type VoteResult struct {
	Status   VoteStatus
	Choice   string
	VotesFor int
	Required int
}

// Party is one lobby: ordered membership plus at most one live ballot set
type Party struct {
	Name     string
	Capacity int

	members []string
	ballots map[string]string
	lastAct time.Time
}

// NewParty creates an empty lobby with the given capacity
func NewParty(name string, capacity int) *Party {
	if capacity < 1 {
		capacity = 1
	}
	return &Party{
		Name:     name,
		Capacity: capacity,
		ballots:  make(map[string]string),
	}
}

// Members returns the join-ordered member ids
func (p *Party) Members() []string {
	out := make([]string, len(p.members))
	copy(out, p.members)
	return out
}

// IsMember reports whether the user has joined
func (p *Party) IsMember(userID string) bool {
	for _, id := range p.members {
		if id == userID {
			return true
		}
	}
	return false
}

// Join adds the user. Joining twice reports exists, joining a lobby at
// capacity reports full without mutating membership.
func (p *Party) Join(userID string) JoinStatus {
	if p.IsMember(userID) {
		return JoinExists
	}
	if len(p.members) >= p.Capacity {
		return JoinFull
	}
	p.members = append(p.members, userID)
	return JoinAdded
}

// Leave removes the user and discards their ballot
func (p *Party) Leave(userID string) bool {
	for i, id := range p.members {
		if id == userID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			delete(p.ballots, userID)
			return true
		}
	}
	return false
}

// VotesRequired is the strict majority of current members
func (p *Party) VotesRequired() int {
	required := len(p.members)/2 + 1
	if required < 1 {
		required = 1
	}
	return required
}

// RecordVote records or overwrites the caller's ballot. Ballots older than
// ttl since the last vote activity are discarded first and voting restarts.
// A choice resolves with majority only on the ballot that reaches the
// threshold; the ballot set is cleared on resolution.
func (p *Party) RecordVote(userID, choice string, now time.Time, ttl time.Duration) VoteResult {
	if !p.IsMember(userID) {
		return VoteResult{Status: VoteNotMember, Choice: choice}
	}

	if len(p.ballots) > 0 && now.Sub(p.lastAct) > ttl {
		p.ballots = make(map[string]string)
	}
	// Ballots from users who have since left no longer count.
	for voter := range p.ballots {
		if !p.IsMember(voter) {
			delete(p.ballots, voter)
		}
	}

	fresh := len(p.ballots) == 0
	p.ballots[userID] = choice
	p.lastAct = now

	required := p.VotesRequired()
	votesFor := 0
	for _, ballot := range p.ballots {
		if ballot == choice {
			votesFor++
		}
	}

	result := VoteResult{Choice: choice, VotesFor: votesFor, Required: required}
	switch {
	case votesFor >= required:
		result.Status = VoteMajority
		p.ballots = make(map[string]string)
	case fresh:
		result.Status = VoteStarted
	default:
		result.Status = VoteUpdated
	}
	return result
}

// Service coordinates lobby parties keyed by channel
type Service interface {
	// Create makes a new lobby for the channel
	Create(key session.Key, name string) (*Party, error)

	// Get returns the channel's lobby
	Get(key session.Key) (*Party, error)

	// Disband removes the channel's lobby
	Disband(key session.Key) bool

	// Join adds the user to the channel's lobby
	Join(key session.Key, userID string) (JoinStatus, error)

	// Leave removes the user from the channel's lobby
	Leave(key session.Key, userID string) (bool, error)

	// RecordVote records the user's ballot in the channel's lobby
	RecordVote(key session.Key, userID, choice string) (VoteResult, error)

	// UniqueName reserves a process-unique display name derived from base
	UniqueName(base string) string
}

type service struct {
	parties  *session.Manager[*Party]
	capacity int
	voteTTL  time.Duration

	nameMu    sync.Mutex
	usedNames map[string]bool
}

// ServiceConfig holds configuration for the party service
type ServiceConfig struct {
	PartySize int
	VoteTTL   time.Duration
}

// NewService creates a new party service
func NewService(cfg *ServiceConfig) Service {
	svc := &service{
		parties:   session.NewManager[*Party](),
		capacity:  4,
		voteTTL:   10 * time.Minute,
		usedNames: make(map[string]bool),
	}
	if cfg != nil {
		if cfg.PartySize > 0 {
			svc.capacity = cfg.PartySize
		}
		if cfg.VoteTTL > 0 {
			svc.voteTTL = cfg.VoteTTL
		}
	}
	return svc
}

func (s *service) Create(key session.Key, name string) (*Party, error) {
	if _, ok := s.parties.Get(key); ok {
		return nil, dnderr.AlreadyExists("a party is already forming in this channel")
	}
	party := NewParty(s.UniqueName(name), s.capacity)
	s.parties.Set(key, party)
	return party, nil
}

func (s *service) Get(key session.Key) (*Party, error) {
	party, ok := s.parties.Get(key)
	if !ok {
		return nil, dnderr.NotFound("no party is forming in this channel")
	}
	return party, nil
}

func (s *service) Disband(key session.Key) bool {
	_, ok := s.parties.Pop(key)
	return ok
}

func (s *service) Join(key session.Key, userID string) (JoinStatus, error) {
	var status JoinStatus
	ok := s.parties.Update(key, func(party *Party) {
		status = party.Join(userID)
	})
	if !ok {
		return "", dnderr.NotFound("no party is forming in this channel")
	}
	return status, nil
}

func (s *service) Leave(key session.Key, userID string) (bool, error) {
	var removed bool
	ok := s.parties.Update(key, func(party *Party) {
		removed = party.Leave(userID)
	})
	if !ok {
		return false, dnderr.NotFound("no party is forming in this channel")
	}
	return removed, nil
}

func (s *service) RecordVote(key session.Key, userID, choice string) (VoteResult, error) {
	var result VoteResult
	ok := s.parties.Update(key, func(party *Party) {
		result = party.RecordVote(userID, choice, time.Now(), s.voteTTL)
	})
	if !ok {
		return VoteResult{}, dnderr.NotFound("no party is forming in this channel")
	}
	return result, nil
}

// UniqueName probes the base name, then base-2, base-3, until a free name
// turns up.
func (s *service) UniqueName(base string) string {
	if base == "" {
		base = "Adventuring Party"
	}
	s.nameMu.Lock()
	defer s.nameMu.Unlock()
	candidate := base
	for suffix := 2; ; suffix++ {
		if !s.usedNames[candidate] {
			s.usedNames[candidate] = true
			return candidate
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}
