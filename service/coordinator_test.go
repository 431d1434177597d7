package service

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/meta-betties/gatekeeper/analytics"
	"github.com/meta-betties/gatekeeper/model"
	"github.com/stretchr/testify/suite"
)

// fakeGateway records every mutation the coordinator attempts.
type fakeGateway struct {
	mu       sync.Mutex
	messages []string
	bans     []int64
	unbans   []int64
	sendErr  error
	banErr   error
}

func (g *fakeGateway) SendGroupMessage(html string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return g.sendErr
	}
	g.messages = append(g.messages, html)
	return nil
}

func (g *fakeGateway) Ban(memberID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.banErr != nil {
		return g.banErr
	}
	g.bans = append(g.bans, memberID)
	return nil
}

func (g *fakeGateway) Unban(memberID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unbans = append(g.unbans, memberID)
	return nil
}

func (g *fakeGateway) snapshot() (messages []string, bans, unbans []int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.messages...),
		append([]int64(nil), g.bans...),
		append([]int64(nil), g.unbans...)
}

type CoordinatorSuite struct {
	suite.Suite
	gateway *fakeGateway
	alog    *analytics.Log
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.gateway = &fakeGateway{}
	s.alog = analytics.New(filepath.Join(s.T().TempDir(), "analytics.json"))
}

func (s *CoordinatorSuite) newCoordinator(window time.Duration) *Coordinator {
	return NewCoordinator(s.gateway, s.alog, "verify.example.org", window)
}

func (s *CoordinatorSuite) entries() []model.LogEntry {
	entries, err := s.alog.Scan()
	s.Require().NoError(err)
	return entries
}

func (s *CoordinatorSuite) TestVerifyLink() {
	c := s.newCoordinator(time.Hour)
	s.Equal("https://verify.example.org?tg_id=42", c.VerifyLink(42))
}

func (s *CoordinatorSuite) TestJoinIssuesChallenge() {
	c := s.newCoordinator(time.Hour)
	c.OnMemberJoined(7, "alice")

	messages, _, _ := s.gateway.snapshot()
	s.Require().Len(messages, 1)
	s.Contains(messages[0], "https://verify.example.org?tg_id=7")
	s.Contains(messages[0], "@alice")
	s.True(c.Pendings().Has(7))
}

func (s *CoordinatorSuite) TestDuplicateJoinIsIdempotent() {
	c := s.newCoordinator(time.Hour)
	c.OnMemberJoined(7, "alice")
	c.OnMemberJoined(7, "alice")

	messages, _, _ := s.gateway.snapshot()
	s.Len(messages, 1)
	s.Equal(1, c.Pendings().Len())
}

func (s *CoordinatorSuite) TestVerifiedCallbackAdmits() {
	c := s.newCoordinator(time.Hour)
	c.OnMemberJoined(7, "alice")
	c.OnVerificationResult(7, true, "alice")

	_, bans, unbans := s.gateway.snapshot()
	s.Empty(bans)
	s.Empty(unbans)

	entries := s.entries()
	s.Require().Len(entries, 1)
	s.Equal(model.StatusVerified, entries[0].Status)
	s.Equal(model.ReasonVerified, entries[0].Reason)
	s.EqualValues(7, entries[0].UserID)
	s.False(c.Pendings().Has(7))
}

func (s *CoordinatorSuite) TestFailedCallbackRemoves() {
	c := s.newCoordinator(time.Hour)
	c.OnMemberJoined(7, "alice")
	c.OnVerificationResult(7, false, "alice")

	_, bans, unbans := s.gateway.snapshot()
	s.Equal([]int64{7}, bans)
	s.Equal([]int64{7}, unbans)

	entries := s.entries()
	s.Require().Len(entries, 1)
	s.Equal(model.StatusRemoved, entries[0].Status)
	s.Equal(model.ReasonNoNFT, entries[0].Reason)
}

func (s *CoordinatorSuite) TestDeadlineRemoves() {
	c := s.newCoordinator(20 * time.Millisecond)
	c.OnMemberJoined(7, "alice")

	s.Require().Eventually(func() bool {
		return !c.Pendings().Has(7)
	}, 2*time.Second, 10*time.Millisecond)

	_, bans, unbans := s.gateway.snapshot()
	s.Equal([]int64{7}, bans)
	s.Equal([]int64{7}, unbans)

	entries := s.entries()
	s.Require().Len(entries, 1)
	s.Equal(model.StatusRemoved, entries[0].Status)
	s.Equal(model.ReasonTimeout, entries[0].Reason)
}

func (s *CoordinatorSuite) TestCallbackCancelsDeadline() {
	c := s.newCoordinator(50 * time.Millisecond)
	c.OnMemberJoined(7, "alice")
	c.OnVerificationResult(7, true, "alice")

	// give a surviving timer every chance to misfire
	time.Sleep(200 * time.Millisecond)

	_, bans, _ := s.gateway.snapshot()
	s.Empty(bans)
	s.Require().Len(s.entries(), 1)
}

func (s *CoordinatorSuite) TestUnknownCallbackIsNoop() {
	c := s.newCoordinator(time.Hour)
	c.OnVerificationResult(404, true, "ghost")

	s.Empty(s.entries())
	s.Equal(0, c.Pendings().Len())
}

func (s *CoordinatorSuite) TestDuplicateCallbacks() {
	c := s.newCoordinator(time.Hour)
	c.OnMemberJoined(7, "alice")
	c.OnVerificationResult(7, false, "alice")
	c.OnVerificationResult(7, true, "alice")
	c.OnVerificationResult(7, false, "alice")

	_, bans, _ := s.gateway.snapshot()
	s.Equal([]int64{7}, bans)
	s.Require().Len(s.entries(), 1)
}

func (s *CoordinatorSuite) TestSendFailureKeepsClockRunning() {
	s.gateway.sendErr = fmt.Errorf("telegram unavailable")
	c := s.newCoordinator(20 * time.Millisecond)
	c.OnMemberJoined(7, "alice")
	s.True(c.Pendings().Has(7))

	s.Require().Eventually(func() bool {
		return !c.Pendings().Has(7)
	}, 2*time.Second, 10*time.Millisecond)

	entries := s.entries()
	s.Require().Len(entries, 1)
	s.Equal(model.ReasonTimeout, entries[0].Reason)
}

func (s *CoordinatorSuite) TestBanFailureStillLogsAndCleansUp() {
	s.gateway.banErr = fmt.Errorf("insufficient rights")
	c := s.newCoordinator(time.Hour)
	c.OnMemberJoined(7, "alice")
	c.OnVerificationResult(7, false, "alice")

	_, _, unbans := s.gateway.snapshot()
	s.Empty(unbans)

	entries := s.entries()
	s.Require().Len(entries, 1)
	s.Equal(model.StatusRemoved, entries[0].Status)
	s.False(c.Pendings().Has(7))
}

// TestRacingResolutionArms fires the callback and the deadline expiry
// concurrently for the same member, many rounds; exactly one terminal action
// and one log entry may result each round.
func (s *CoordinatorSuite) TestRacingResolutionArms() {
	const rounds = 50
	c := s.newCoordinator(time.Hour)

	for round := 0; round < rounds; round++ {
		id := int64(round)
		c.OnMemberJoined(id, "racer")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.OnVerificationResult(id, true, "racer")
		}()
		go func() {
			defer wg.Done()
			c.OnDeadlineExpired(id)
		}()
		wg.Wait()

		s.False(c.Pendings().Has(id))
	}

	entries := s.entries()
	s.Require().Len(entries, rounds)

	_, bans, unbans := s.gateway.snapshot()
	// a ban happens only in rounds the deadline won, never twice for a member
	seen := make(map[int64]int)
	for _, id := range bans {
		seen[id]++
		s.Equal(1, seen[id], "member %d banned twice", id)
	}
	s.Equal(len(bans), len(unbans))
}
