package model

// ConflictType classifies a detected scheduling conflict.
type ConflictType string

const (
	ConflictTypeTime     ConflictType = "time_conflict"
	ConflictTypeWorkload ConflictType = "workload_conflict"
	ConflictTypePriority ConflictType = "priority_conflict"
)

// String returns the string representation of the conflict type.
func (t ConflictType) String() string {
	return string(t)
}

// Valid reports whether t is a known conflict type.
func (t ConflictType) Valid() bool {
	switch t {
	case ConflictTypeTime, ConflictTypeWorkload, ConflictTypePriority:
		return true
	}
	return false
}

// Severity is the urgency tier assigned to a set of conflicts.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Conflict is a detected incompatibility between a candidate placement and
// existing commitments. Conflicts are transient: they live only for the
// duration of one detection/resolution interaction and are never persisted.
type Conflict struct {
	ID                 string       `json:"id"`
	Type               ConflictType `json:"type"`
	Severity           Severity     `json:"severity"`
	ParticipantTaskIDs []string     `json:"participant_task_ids"` // always at least one
	BlockIDs           []string     `json:"block_ids,omitempty"`  // existing blocks involved
	Description        string       `json:"description"`
	// AlternativeSlots holds candidate start times of day (minutes since
	// midnight) ordered by proximity to the originally requested time.
	AlternativeSlots []int `json:"alternative_slots,omitempty"`
}

// Impact describes how much a resolution option changes the user's plan.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// Effort describes how much work applying a resolution option takes.
type Effort string

const (
	EffortEasy   Effort = "Easy"
	EffortMedium Effort = "Medium"
	EffortHard   Effort = "Hard"
)

// ResolutionAction identifies one applicable remedy for a conflict.
type ResolutionAction string

const (
	ActionRescheduleFirst  ResolutionAction = "reschedule_first"
	ActionRescheduleSecond ResolutionAction = "reschedule_second"
	ActionSplitTasks       ResolutionAction = "split_tasks"
	ActionExtendDeadline   ResolutionAction = "extend_deadline"
	ActionReduceScope      ResolutionAction = "reduce_scope"
	ActionDelegateTasks    ResolutionAction = "delegate_tasks"
	ActionReprioritize     ResolutionAction = "reprioritize"
	ActionSequential       ResolutionAction = "sequential_approach"
	ActionAIOptimize       ResolutionAction = "ai_optimize"
)

// String returns the string representation of the resolution action.
func (a ResolutionAction) String() string {
	return string(a)
}

// ResolutionOption is one structured remedy for a conflict, carrying
// impact/effort metadata so the caller can rank the menu.
type ResolutionOption struct {
	ID          ResolutionAction `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Impact      Impact           `json:"impact"`
	Effort      Effort           `json:"effort"`
}
