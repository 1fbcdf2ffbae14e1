// Package interview runs the adaptive follow-up interview: score what the
// patient reported, ask about likely companion symptoms one at a time, and
// stop once the ranking is decisive or the question budget is spent.
package interview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/triagez/internal/explain"
	"github.com/abhisek/triagez/internal/logging"
	"github.com/abhisek/triagez/internal/policy"
	"github.com/abhisek/triagez/internal/ranker"
	"github.com/abhisek/triagez/internal/store"
	"github.com/abhisek/triagez/internal/symptom"
)

// Recorder persists finished interviews.
type Recorder interface {
	AppendInterview(ctx context.Context, data store.InterviewEventData) error
}

// Observer is told about interview lifecycle changes.
type Observer interface {
	InterviewStarted()
	InterviewFinished(outcome string, questions int)
	InterviewAbandoned()
}

// Config holds the optional collaborators of a Controller.
type Config struct {
	Thresholds policy.Thresholds
	Logger     *zap.Logger
	Recorder   Recorder
	Observer   Observer

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// DefaultConfig returns a Config with the product thresholds.
func DefaultConfig() Config {
	return Config{Thresholds: policy.DefaultThresholds()}
}

// Controller drives one interview at a time. Submit starts a new session and
// Answer advances it; neither may run while the other is outstanding.
// Controllers share nothing, so separate interviews can run in parallel on
// separate Controllers.
type Controller struct {
	ranker   ranker.Ranker
	asm      assembler
	th       policy.Thresholds
	logger   *zap.Logger
	recorder Recorder
	observer Observer
	now      func() time.Time
	newID    func() string

	mu         sync.Mutex
	processing bool
	generation uint64
	sess       *Session
}

// New creates a Controller. resolver may be nil to skip explanations.
func New(r ranker.Ranker, resolver explain.Resolver, cfg Config) *Controller {
	logger := logging.OrNop(cfg.Logger).Named("interview")
	c := &Controller{
		ranker:   r,
		asm:      assembler{resolver: resolver, logger: logger},
		th:       cfg.Thresholds,
		logger:   logger,
		recorder: cfg.Recorder,
		observer: cfg.Observer,
		now:      cfg.Now,
		newID:    cfg.NewID,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c
}

// Submit starts a new interview from a free-text symptom description. On
// ErrServiceUnavailable the previous session, if any, is kept untouched.
func (c *Controller) Submit(ctx context.Context, text string) (Decision, error) {
	if symptom.Normalize(text) == "" {
		return Decision{}, ErrEmptySymptoms
	}

	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return Decision{}, ErrBusy
	}
	c.processing = true
	gen := c.generation
	c.mu.Unlock()
	defer c.release(gen)

	sess := newSession(c.newID(), c.now())
	sess.Symptoms.Add(text)
	sess.State = StateScoring

	resp, err := c.rank(ctx, sess.Symptoms, false)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return Decision{}, ErrSessionAbandoned
	}
	if err != nil {
		c.mu.Unlock()
		return Decision{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	if prev := c.sess; prev != nil && prev.State != StateTerminal {
		c.notifyAbandoned()
	}
	c.sess = sess
	sess.LastRanking = resp.Candidates
	sess.SkipQuestions = resp.SkipQuestions
	sess.Pool = symptom.Dedupe(resp.SuggestedFollowUps)
	if c.observer != nil {
		c.observer.InterviewStarted()
	}

	c.logger.Debug("interview started",
		zap.String("session", sess.ID),
		zap.Int("candidates", len(sess.LastRanking)),
		zap.Int("pool", len(sess.Pool)),
		zap.Bool("skip_questions", sess.SkipQuestions))

	d := c.evaluate(sess)
	c.mu.Unlock()

	return c.conclude(ctx, gen, sess, d)
}

// Answer records the patient's reply to the pending question. A yes adds the
// symptom and re-scores; a no only counts against the budget. Answers after
// the interview ended return the final decision with ErrSessionClosed.
func (c *Controller) Answer(ctx context.Context, yes bool) (Decision, error) {
	c.mu.Lock()
	if c.processing {
		c.mu.Unlock()
		return Decision{}, ErrBusy
	}
	sess := c.sess
	switch {
	case sess == nil:
		c.mu.Unlock()
		return Decision{}, ErrNoPendingQuestion
	case sess.State == StateTerminal:
		d := *sess.Outcome
		c.mu.Unlock()
		return d, ErrSessionClosed
	case sess.Pending == "":
		c.mu.Unlock()
		return Decision{}, ErrNoPendingQuestion
	}
	c.processing = true
	gen := c.generation
	pending := sess.Pending

	if !yes {
		sess.Pending = ""
		sess.NegativeStreak++
		sess.QuestionCount++
		c.logger.Debug("declined",
			zap.String("session", sess.ID),
			zap.String("symptom", pending),
			zap.Int("negative_streak", sess.NegativeStreak),
			zap.Int("questions", sess.QuestionCount))
		d := c.evaluate(sess)
		c.mu.Unlock()
		defer c.release(gen)
		return c.conclude(ctx, gen, sess, d)
	}

	working := sess.Symptoms.Clone()
	working.Add(pending)
	sess.State = StateScoring
	c.mu.Unlock()
	defer c.release(gen)

	resp, err := c.rank(ctx, working, true)

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return Decision{}, ErrSessionAbandoned
	}
	if err != nil {
		// Nothing was applied yet; the question stays pending.
		sess.State = StateAsking
		c.mu.Unlock()
		return Decision{}, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}

	sess.Symptoms = working
	sess.Pending = ""
	sess.NegativeStreak = 0
	sess.QuestionCount++
	sess.LastRanking = resp.Candidates
	sess.SkipQuestions = resp.SkipQuestions
	c.logger.Debug("confirmed",
		zap.String("session", sess.ID),
		zap.String("symptom", pending),
		zap.Int("questions", sess.QuestionCount),
		zap.Int("candidates", len(sess.LastRanking)))

	d := c.evaluate(sess)
	c.mu.Unlock()

	return c.conclude(ctx, gen, sess, d)
}

// Abandon drops the current session. A call still in flight has its result
// discarded and returns ErrSessionAbandoned.
func (c *Controller) Abandon() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sess != nil && c.sess.State != StateTerminal {
		c.notifyAbandoned()
		c.logger.Debug("interview abandoned", zap.String("session", c.sess.ID))
	}
	c.generation++
	c.processing = false
	c.sess = nil
}

// Session returns a snapshot of the current session, if there is one.
func (c *Controller) Session() (SessionView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return SessionView{}, false
	}
	return c.sess.view(c.th), true
}

// Busy reports whether a call is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

func (c *Controller) release(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.processing = false
	}
}

func (c *Controller) rank(ctx context.Context, symptoms *symptom.Set, skipGenerative bool) (*ranker.Response, error) {
	resp, err := c.ranker.Rank(ctx, ranker.Request{
		SymptomsText:       symptoms.Join(", "),
		SkipGenerativeStep: skipGenerative,
	})
	if err != nil {
		c.logger.Warn("scoring failed", zap.Error(err))
		return nil, err
	}
	if resp == nil {
		resp = &ranker.Response{}
	}
	return resp, nil
}

// evaluate runs the policy and, for AskNext, pops the next question.
// Terminal decisions come back without a Result. Must hold c.mu.
func (c *Controller) evaluate(sess *Session) Decision {
	pd := policy.Decide(sess.policyInput(), c.th)

	if pd == policy.AskNext {
		if q := sess.queue(); len(q) > 0 {
			sess.Asked.Add(q[0])
			sess.Pending = q[0]
			sess.State = StateAsking
			c.logger.Debug("asking", zap.String("session", sess.ID), zap.String("symptom", q[0]))
			return askQuestion(q[0])
		}
		pd = policy.Exhausted
	}

	c.logger.Debug("terminal decision", zap.String("session", sess.ID), zap.Stringer("decision", pd))
	return Decision{Kind: kindFor(pd)}
}

// conclude assembles and records terminal decisions. Called without c.mu
// while the processing flag is held, so sess has no other writer.
func (c *Controller) conclude(ctx context.Context, gen uint64, sess *Session, d Decision) (Decision, error) {
	if !d.Kind.Terminal() {
		return d, nil
	}

	if d.Kind != KindNoMatch {
		d.Result = c.asm.assemble(ctx, sess.Symptoms.Clone(), sess.LastRanking)
	}

	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return Decision{}, ErrSessionAbandoned
	}
	sess.State = StateTerminal
	sess.Pending = ""
	outcome := d
	sess.Outcome = &outcome
	if c.observer != nil {
		c.observer.InterviewFinished(d.Kind.String(), sess.QuestionCount)
	}
	c.mu.Unlock()

	c.record(ctx, sess, d)
	return d, nil
}

func (c *Controller) record(ctx context.Context, sess *Session, d Decision) {
	if c.recorder == nil {
		return
	}

	data := store.InterviewEventData{
		SessionID:      sess.ID,
		Outcome:        d.Kind.String(),
		Symptoms:       normalizedSymptoms(sess.Symptoms),
		QuestionCount:  sess.QuestionCount,
		NegativeStreak: sess.NegativeStreak,
		Duration:       c.now().Sub(sess.StartedAt),
	}
	if top, ok := ranker.Top(sess.LastRanking); ok {
		data.TopScore = top.Score
	}
	if d.Result != nil {
		data.Department = d.Result.Department
		if d.Result.Explanation != nil {
			data.Explanation = d.Result.Explanation.Text
		}
	}

	if err := c.recorder.AppendInterview(context.WithoutCancel(ctx), data); err != nil {
		c.logger.Warn("failed to record interview", zap.String("session", sess.ID), zap.Error(err))
	}
}

func normalizedSymptoms(s *symptom.Set) []string {
	syms := s.Symptoms()
	out := make([]string, len(syms))
	for i, sym := range syms {
		out[i] = sym.Normalized
	}
	return out
}

func (c *Controller) notifyAbandoned() {
	if c.observer != nil {
		c.observer.InterviewAbandoned()
	}
}
