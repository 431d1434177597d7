package service

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/meta-betties/gatekeeper/analytics"
	"github.com/meta-betties/gatekeeper/model"
	"github.com/meta-betties/gatekeeper/pkg/log"
)

// Gateway is the mutation surface of the gated chat. The ban/unban pair
// removes a member while leaving them free to rejoin and verify again.
type Gateway interface {
	SendGroupMessage(html string) error
	Ban(memberID int64) error
	Unban(memberID int64) error
}

// Coordinator drives every member through join -> challenge -> (callback or
// deadline) -> terminal action, with exactly one terminal action per member
// no matter how the two race arms interleave.
type Coordinator struct {
	gateway  Gateway
	alog     *analytics.Log
	pendings *Pendings
	sched    *Scheduler
	host     string
	window   time.Duration
}

func NewCoordinator(gateway Gateway, alog *analytics.Log, host string, window time.Duration) *Coordinator {
	return &Coordinator{
		gateway:  gateway,
		alog:     alog,
		pendings: NewPendings(),
		sched:    NewScheduler(),
		host:     host,
		window:   window,
	}
}

// Pendings exposes the table for inspection.
func (c *Coordinator) Pendings() *Pendings {
	return c.pendings
}

// VerifyLink builds the challenge link the external verifier resolves the
// member from.
func (c *Coordinator) VerifyLink(memberID int64) string {
	u := url.URL{
		Scheme:   "https",
		Host:     c.host,
		RawQuery: "tg_id=" + strconv.FormatInt(memberID, 10),
	}
	return u.String()
}

// OnMemberJoined issues a challenge to a freshly joined member and starts the
// removal clock. Duplicate join events for a member already mid-challenge are
// no-ops. A failed challenge send does not stop the clock: a member who never
// saw the link is still removed at the deadline.
func (c *Coordinator) OnMemberJoined(memberID int64, displayName string) {
	entry := &model.PendingVerification{
		MemberID:    memberID,
		DisplayName: displayName,
		IssuedAt:    time.Now(),
		State:       model.StateAwaitingResult,
	}
	if !c.pendings.PutIfAbsent(entry) {
		return
	}
	if err := c.gateway.SendGroupMessage(c.welcome(displayName, memberID)); err != nil {
		log.Warn("send challenge to %v (%v): %v", displayName, memberID, err)
	}
	h := c.sched.Schedule(c.window, func() { c.OnDeadlineExpired(memberID) })
	if !c.pendings.SetDeadline(memberID, h) {
		// a callback resolved the member before the timer was attached
		h.Stop()
	}
}

// OnVerificationResult reconciles a result pushed by the external verifier.
// It may be called any number of times, in any order relative to the
// deadline; everything but the first resolution of a pending member is a
// deliberate no-op, since the verifier cannot retry usefully.
func (c *Coordinator) OnVerificationResult(memberID int64, verified bool, displayName string) {
	entry, ok := c.pendings.Resolve(memberID)
	if !ok {
		log.Debug("ignore callback for %v: not pending", memberID)
		return
	}
	if entry.Deadline != nil {
		entry.Deadline.Stop()
	}
	if displayName == "" {
		displayName = entry.DisplayName
	}
	reason := model.ReasonNoNFT
	if verified {
		reason = model.ReasonVerified
	}
	c.finalize(model.Outcome{
		MemberID:    memberID,
		Verified:    verified,
		DisplayName: displayName,
		Source:      model.SourceCallback,
	}, reason)
}

// OnDeadlineExpired fires when a member's verification window elapsed with no
// decision. A no-op when the callback already won the race.
func (c *Coordinator) OnDeadlineExpired(memberID int64) {
	entry, ok := c.pendings.Resolve(memberID)
	if !ok {
		return
	}
	c.finalize(model.Outcome{
		MemberID:    memberID,
		Verified:    false,
		DisplayName: entry.DisplayName,
		Source:      model.SourceTimeout,
	}, model.ReasonTimeout)
}

// finalize performs the terminal action for an outcome. The caller must have
// won the Resolve transition for the member, so this runs at most once per
// pending entry. Gateway failures are logged and swallowed: enforcement is
// best-effort, bookkeeping is not.
func (c *Coordinator) finalize(o model.Outcome, reason string) {
	status := model.StatusRemoved
	if o.Verified {
		status = model.StatusVerified
		log.Info("member %v (%v) verified via %v", o.DisplayName, o.MemberID, o.Source)
	} else {
		if err := c.gateway.Ban(o.MemberID); err != nil {
			log.Warn("ban %v (%v): %v", o.DisplayName, o.MemberID, err)
		} else if err := c.gateway.Unban(o.MemberID); err != nil {
			log.Warn("unban %v (%v): %v", o.DisplayName, o.MemberID, err)
		}
		log.Info("member %v (%v) removed via %v: %v", o.DisplayName, o.MemberID, o.Source, reason)
	}
	if err := c.alog.Append(model.NewLogEntry(o.MemberID, o.DisplayName, status, reason)); err != nil {
		// the entry is lost; the lifecycle still completes
		log.Error("append analytics entry for %v: %v", o.MemberID, err)
	}
	c.pendings.Delete(o.MemberID)
}

func (c *Coordinator) welcome(displayName string, memberID int64) string {
	minutes := int(c.window.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf(`🎉 <b>Welcome to Meta Betties Private Key!</b>

👋 Hi @%s, we're excited to have you join our exclusive community!

🔐 <b>Verification Required</b>
To access this private group, you must verify your NFT ownership.

🔗 <b>Click here to verify:</b> <a href="%s">Verify NFT Ownership</a>

⏰ <b>Time Limit:</b> You have %d minutes to complete verification, or you'll be automatically removed.

💎 <b>Supported Wallets:</b> Phantom, Solflare, Backpack, Slope, Glow, Clover, Coinbase, Exodus, Brave, Torus, Trust Wallet

Need help? Contact an admin!`, displayName, c.VerifyLink(memberID), minutes)
}
