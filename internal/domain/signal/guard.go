package signal

import "github.com/bonny2long/syncup-backend/internal/domain/shared"

// The emission guard is the single gatekeeper in front of the ledger.
// Decide is pure: it performs no I/O, and the caller appends the returned
// entries inside its own transaction only when the decision says to emit.

// Mentorship focus values. The allow-list is the most important business
// rule in the system: a mentorship completion may only inflate skill
// signals when the session was technical.
const (
	FocusProjectSupport    = "project_support"
	FocusTechnicalGuidance = "technical_guidance"
	FocusCareerGuidance    = "career_guidance"
	FocusLifeGuidance      = "life_guidance"
	FocusAlumniNetworking  = "alumni_networking"
)

// emitEligibleFocuses is the fixed allow-list for mentorship emissions.
var emitEligibleFocuses = map[string]struct{}{
	FocusProjectSupport:    {},
	FocusTechnicalGuidance: {},
}

// FocusEligible reports whether a mentorship session focus may emit signals.
func FocusEligible(focus string) bool {
	_, ok := emitEligibleFocuses[focus]
	return ok
}

// SkipReason classifies why the guard declined to emit. Malformed input is
// kept distinct from legitimate business skips so callers can log the former
// as a caller bug while both remain silent no-ops for the transition itself.
type SkipReason string

const (
	// SkipMalformedInput - a required field was missing. The enclosing
	// transition still succeeds, but callers should log this at WARN.
	SkipMalformedInput SkipReason = "malformed_input"

	// SkipIneligibleFocus - mentorship session focus outside the allow-list.
	// Expected business outcome, regardless of supplied skills.
	SkipIneligibleFocus SkipReason = "ineligible_focus"

	// SkipNoSkills - no skill ids supplied (after dropping invalid ones).
	SkipNoSkills SkipReason = "no_skills"
)

// GuardInput is the transition context handed to Decide.
type GuardInput struct {
	UserID     shared.UserID
	Source     SourceRef
	SignalType SignalType

	// SessionFocus is consulted only for mentorship sources.
	SessionFocus string

	// SkillIDs may contain duplicates; one ledger row is produced per
	// unique skill.
	SkillIDs []shared.SkillID

	// Weight is applied uniformly to every row in the batch.
	Weight int
}

// Decision is the guard's verdict.
type Decision struct {
	// Emit is true when Entries should be appended to the ledger.
	Emit bool

	// Reason is set when Emit is false.
	Reason SkipReason

	// Entries holds one ledger row per unique skill id.
	Entries []Entry
}

// Emitted creates an emitting decision.
func Emitted(entries []Entry) Decision {
	return Decision{Emit: true, Entries: entries}
}

// Skipped creates a non-emitting decision.
func Skipped(reason SkipReason) Decision {
	return Decision{Emit: false, Reason: reason}
}

// Decide applies the emission rules in order:
//
//  1. Missing user, source, or signal type -> skip (malformed input).
//  2. Mentorship sources emit only for an allow-listed session focus,
//     regardless of whether skills were supplied.
//  3. An empty skill set -> skip.
//  4. Skill ids are deduplicated; one entry per unique skill.
//  5. Otherwise emit, with the same weight on every entry.
//
// The signal type is recorded but not validated against the source type.
func Decide(in GuardInput) Decision {
	if !in.UserID.IsValid() || !in.Source.IsValid() || !in.SignalType.IsValid() || in.Weight <= 0 {
		return Skipped(SkipMalformedInput)
	}

	if in.Source.Type() == SourceMentorship && !FocusEligible(in.SessionFocus) {
		return Skipped(SkipIneligibleFocus)
	}

	skills := shared.DedupSkillIDs(in.SkillIDs)
	if len(skills) == 0 {
		return Skipped(SkipNoSkills)
	}

	entries := make([]Entry, 0, len(skills))
	for _, skillID := range skills {
		entries = append(entries, Entry{
			UserID:     in.UserID,
			SkillID:    skillID,
			Source:     in.Source,
			SignalType: in.SignalType,
			Weight:     in.Weight,
		})
	}
	return Emitted(entries)
}
