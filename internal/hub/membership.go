package hub

import (
	"sync"
)

type Role string

const (
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

func (that Role) Valid() bool {
	return that == RolePlayer || that == RoleSpectator
}

// Subscription - live stream of snapshots for one member of a match. The
// updates channel is closed once the member is removed.
type Subscription struct {
	MatchID       string
	ParticipantID string
	Role          Role

	updates chan Snapshot
	once    sync.Once
}

func newSubscription(matchID, participantID string, role Role, buffer int) *Subscription {
	return &Subscription{
		MatchID:       matchID,
		ParticipantID: participantID,
		Role:          role,
		updates:       make(chan Snapshot, buffer),
	}
}

func (that *Subscription) Updates() <-chan Snapshot {
	return that.updates
}

func (that *Subscription) close() {
	that.once.Do(func() {
		close(that.updates)
	})
}

type member struct {
	role         Role
	subscription *Subscription
}

// membership - members of one match. Writers take the lock exclusively;
// delivery enumerates under the read lock and never blocks on a slow reader.
type membership struct {
	mu      sync.RWMutex
	members map[string]*member
}

func newMembership() *membership {
	return &membership{
		members: make(map[string]*member),
	}
}

// add - registers the participant. A player role is never downgraded to spectator.
func (that *membership) add(participantID string, role Role) {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.members[participantID]
	if !ok {
		that.members[participantID] = &member{role: role}
		return
	}

	if role == RolePlayer {
		existing.role = RolePlayer
	}
}

func (that *membership) role(participantID string) (Role, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	existing, ok := that.members[participantID]
	if !ok {
		return "", false
	}

	return existing.role, true
}

// attach - opens a fresh subscription for the participant, closing a previous one.
func (that *membership) attach(matchID, participantID string, role Role, buffer int) *Subscription {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.members[participantID]
	if !ok {
		existing = &member{role: role}
		that.members[participantID] = existing
	}

	if existing.subscription != nil {
		existing.subscription.close()
	}

	existing.subscription = newSubscription(matchID, participantID, existing.role, buffer)

	return existing.subscription
}

// detach - closes the subscription but keeps the membership.
func (that *membership) detach(subscription *Subscription) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.members[subscription.ParticipantID]
	if !ok || existing.subscription != subscription {
		return false
	}

	existing.subscription.close()
	existing.subscription = nil

	return true
}

// drop - removes the member owning subscription, unless it has resubscribed since.
func (that *membership) drop(subscription *Subscription) {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.members[subscription.ParticipantID]
	if !ok || existing.subscription != subscription {
		return
	}

	existing.subscription.close()
	delete(that.members, subscription.ParticipantID)
}

func (that *membership) remove(participantID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	existing, ok := that.members[participantID]
	if !ok {
		return
	}

	if existing.subscription != nil {
		existing.subscription.close()
	}

	delete(that.members, participantID)
}

func (that *membership) len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.members)
}

// subscribers - members with a live subscription.
func (that *membership) subscribers() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	count := 0
	for _, existing := range that.members {
		if existing.subscription != nil {
			count++
		}
	}

	return count
}

func (that *membership) closeAll() {
	that.mu.Lock()
	defer that.mu.Unlock()

	for id, existing := range that.members {
		if existing.subscription != nil {
			existing.subscription.close()
		}
		delete(that.members, id)
	}
}

// broadcast - delivers snapshot to every live subscription and returns the
// subscriptions whose buffer was full.
func (that *membership) broadcast(snapshot Snapshot) []*Subscription {
	that.mu.RLock()
	defer that.mu.RUnlock()

	var failed []*Subscription

	for _, existing := range that.members {
		if existing.subscription == nil {
			continue
		}

		select {
		case existing.subscription.updates <- snapshot:
		default:
			failed = append(failed, existing.subscription)
		}
	}

	return failed
}
