package triage

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"healthguard/internal/llm"
	"healthguard/internal/logging"
	"healthguard/internal/refdata"
	"healthguard/pkg"
)

// Phase is the coarse state of a case. It only affects the input hint shown
// to the user: classification and outbreak matching run regardless.
type Phase string

const (
	// PhaseAwaitingDemographics holds until both age and gender are known.
	PhaseAwaitingDemographics Phase = "awaiting_demographics"
	PhaseTriage               Phase = "triage"
)

var (
	// ErrEmptyInput reports a blank submission. The turn is a no-op.
	ErrEmptyInput = goerr.New("empty input")
	// ErrTurnInFlight reports that a previous turn is still waiting on the
	// generation service. There is no queueing; the submission is dropped.
	ErrTurnInFlight = goerr.New("a turn is already in flight")
	// ErrCaseReset reports that the case was reset while the turn's
	// generation call was pending; the stale response was discarded.
	ErrCaseReset = goerr.New("case was reset while the turn was pending")
)

// TurnResult is everything one completed turn produced.
type TurnResult struct {
	UserMessage pkg.Message
	Reply       pkg.Message
	// Warning is set on the single turn that first escalates the case to
	// high risk.
	Warning    *pkg.Message
	RiskLevel  pkg.RiskLevel
	Assessment pkg.RiskAssessment
	Outbreak   *pkg.OutbreakRecord
	Summary    pkg.CaseSummary
	Phase      Phase
}

// Orchestrator owns one case: its session state and transcript. It is the
// sole writer of both. A turn runs the analyzers synchronously, updates the
// state, and blocks on the generation service; while that call is pending no
// other turn is accepted.
type Orchestrator struct {
	rules *refdata.RuleSet
	llm   llm.Client

	mu         sync.Mutex
	inFlight   bool
	epoch      uint64
	state      SessionState
	transcript []pkg.Message
}

// NewOrchestrator creates a case with empty state and the opening greeting
// already on the transcript.
func NewOrchestrator(rules *refdata.RuleSet, client llm.Client) *Orchestrator {
	o := &Orchestrator{rules: rules, llm: client}
	o.resetLocked()
	return o
}

// resetLocked wipes the case back to its initial state. Bumping the epoch
// invalidates any generation call still pending against the old session, so
// its eventual response is discarded instead of applied to the fresh state.
func (o *Orchestrator) resetLocked() {
	o.epoch++
	o.inFlight = false
	o.state = NewSessionState()
	o.transcript = []pkg.Message{pkg.NewMessage(pkg.RoleModel, o.rules.Greeting, false)}
}

// Reset starts a new case file. Safe to call while a turn is in flight.
func (o *Orchestrator) Reset() pkg.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resetLocked()
	return o.transcript[0]
}

// HandleTurn processes one user submission end to end and returns the
// completed turn. It returns ErrEmptyInput for blank input, ErrTurnInFlight
// while a previous turn is pending, and ErrCaseReset when the case was reset
// under a pending generation call. Analyzer updates applied before a failed
// generation call are never rolled back.
func (o *Orchestrator) HandleTurn(ctx context.Context, input string) (*TurnResult, error) {
	content := strings.TrimSpace(input)
	if content == "" {
		return nil, ErrEmptyInput
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	o.inFlight = true
	epoch := o.epoch

	prevRisk := o.state.RiskLevel
	demo := ExtractDemographics(content)
	assessment := ClassifyRisk(o.rules, content)
	outbreak := MatchOutbreak(o.rules.Outbreaks, content)
	o.state = ApplyTurn(o.state, demo, assessment, SymptomCandidates(content))
	newLevel := o.state.RiskLevel

	userMsg := pkg.NewMessage(pkg.RoleUser, content, false)
	o.transcript = append(o.transcript, userMsg)

	contextText := BuildContext(o.state, assessment, newLevel, outbreak)

	// Edge-triggered: fires exactly once per case, on the turn that first
	// reaches high risk, and before the generation call is issued.
	var warning *pkg.Message
	if newLevel == pkg.RiskHigh && prevRisk != pkg.RiskHigh {
		w := pkg.NewMessage(pkg.RoleModel, o.rules.EmergencyWarning, true)
		o.transcript = append(o.transcript, w)
		warning = &w
	}

	history := outboundHistory(o.transcript, userMsg.ID)
	o.mu.Unlock()

	// The only suspension point. The lock is not held across it so Reset
	// stays responsive while the call is outstanding.
	reply, genErr := o.llm.Generate(ctx, llm.GenerateInput{
		Message:      WrapContext(contextText, content),
		History:      history,
		SystemPrompt: o.rules.SystemPrompt,
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.epoch != epoch {
		// Reset raced the generation call; the response targets a session
		// that no longer exists.
		return nil, ErrCaseReset
	}
	o.inFlight = false

	if genErr != nil {
		logging.From(ctx).Warn("generation failed, serving fallback reply",
			logging.ErrAttr(genErr))
		reply = o.rules.Apology
	}

	replyMsg := pkg.NewMessage(pkg.RoleModel, reply, false)
	o.transcript = append(o.transcript, replyMsg)

	if label, ok := ExtractCondition(reply); ok {
		o.state.LikelyCondition = label
	}

	return &TurnResult{
		UserMessage: userMsg,
		Reply:       replyMsg,
		Warning:     warning,
		RiskLevel:   newLevel,
		Assessment:  assessment,
		Outbreak:    outbreak,
		Summary:     o.state.Summary(),
		Phase:       phaseOf(o.state),
	}, nil
}

// outboundHistory renders the transcript as role/text pairs for the
// generation service: synthetic warnings are filtered out, and the current
// user message is excluded because it travels separately as the current
// turn.
func outboundHistory(transcript []pkg.Message, current pkg.MessageID) []llm.Turn {
	out := make([]llm.Turn, 0, len(transcript))
	for _, m := range transcript {
		if m.SyntheticWarning || m.ID == current {
			continue
		}
		out = append(out, llm.Turn{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func phaseOf(state SessionState) Phase {
	if state.Age != "" && state.Gender != pkg.GenderUnknown {
		return PhaseTriage
	}
	return PhaseAwaitingDemographics
}

// Phase reports the current case phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return phaseOf(o.state)
}

// Summary returns the current case summary snapshot.
func (o *Orchestrator) Summary() pkg.CaseSummary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Summary()
}

// Transcript returns a copy of the transcript in chronological order,
// synthetic warnings included.
func (o *Orchestrator) Transcript() []pkg.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]pkg.Message, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// Greeting returns the opening message of the current case.
func (o *Orchestrator) Greeting() pkg.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.transcript[0]
}
