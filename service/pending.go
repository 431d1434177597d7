package service

import (
	"sync"

	"github.com/meta-betties/gatekeeper/model"
)

// Pendings is the single source of truth for members still awaiting a
// verification decision. All state transitions happen under one mutex; the
// AwaitingResult -> Resolving edge in Resolve is the only point where the
// callback arm and the deadline arm can collide.
type Pendings struct {
	mu sync.Mutex
	m  map[int64]*model.PendingVerification
}

func NewPendings() *Pendings {
	return &Pendings{m: make(map[int64]*model.PendingVerification)}
}

// PutIfAbsent inserts entry unless the member already has one. Reports
// whether the insert happened.
func (p *Pendings) PutIfAbsent(entry *model.PendingVerification) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.m[entry.MemberID]; ok {
		return false
	}
	p.m[entry.MemberID] = entry
	return true
}

// SetDeadline attaches the timer handle to the member's entry. It refuses
// when the entry is gone or already resolving, so the caller knows the timer
// it just armed is orphaned and should be stopped.
func (p *Pendings) SetDeadline(memberID int64, h model.DeadlineHandle) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.m[memberID]
	if !ok || entry.State != model.StateAwaitingResult {
		return false
	}
	entry.Deadline = h
	return true
}

// Resolve atomically transitions the member's entry from AwaitingResult to
// Resolving and hands it to the caller. Exactly one of any number of
// concurrent callers wins; the rest get ok == false. The winner owns the
// entry until it calls Delete.
func (p *Pendings) Resolve(memberID int64) (*model.PendingVerification, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.m[memberID]
	if !ok || entry.State != model.StateAwaitingResult {
		return nil, false
	}
	entry.State = model.StateResolving
	return entry, true
}

// Delete removes the member's entry. Idempotent.
func (p *Pendings) Delete(memberID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.m[memberID]; ok {
		entry.State = model.StateResolved
		delete(p.m, memberID)
	}
}

func (p *Pendings) Has(memberID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.m[memberID]
	return ok
}

func (p *Pendings) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
