package leave

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending                   Status = "Pending"
	StatusApprovedByHeadProgram     Status = "ApprovedByHeadProgram"
	StatusApprovedByOperational     Status = "ApprovedByOperational"
	StatusApprovedByProgramDirector Status = "ApprovedByProgramDirector"
	StatusDeclined                  Status = "Declined"

	// StatusApprovedLabel replaces any ApprovedBy* status in the approved view.
	StatusApprovedLabel Status = "Approved"
)

func (s Status) IsApproved() bool {
	switch s {
	case StatusApprovedByHeadProgram, StatusApprovedByOperational, StatusApprovedByProgramDirector:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusApprovedByProgramDirector
}

// Stage is one step of the approval chain, named after the actor.
type Stage string

const (
	StageHeadProgram     Stage = "headprogram"
	StageOperational     Stage = "operational"
	StageProgramDirector Stage = "programdirector"
)

// Stages lists the chain in order.
var Stages = []Stage{StageHeadProgram, StageOperational, StageProgramDirector}

func ParseStage(s string) (Stage, error) {
	stage := Stage(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[stage]; !ok {
		return "", ErrInvalidStage
	}
	return stage, nil
}

type Action string

const (
	ActionApproved Action = "approved"
	ActionDeclined Action = "declined"
)

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApproved, ActionDeclined:
		return Action(s), nil
	}
	return "", ErrInvalidApprovalAction
}

// Transition is one row of the approval table: the status a stage acts on
// and where each action leads.
type Transition struct {
	From     Status
	Approved Status
	Declined Status
}

var transitions = map[Stage]Transition{
	StageHeadProgram:     {From: StatusPending, Approved: StatusApprovedByHeadProgram, Declined: StatusDeclined},
	StageOperational:     {From: StatusApprovedByHeadProgram, Approved: StatusApprovedByOperational, Declined: StatusDeclined},
	StageProgramDirector: {From: StatusApprovedByOperational, Approved: StatusApprovedByProgramDirector, Declined: StatusDeclined},
}

func (s Stage) Transition() Transition {
	return transitions[s]
}

// Next resolves the guarded transition for stage and action.
func Next(stage Stage, action Action) (from Status, to Status, err error) {
	t, ok := transitions[stage]
	if !ok {
		return "", "", ErrInvalidStage
	}
	switch action {
	case ActionApproved:
		return t.From, t.Approved, nil
	case ActionDeclined:
		return t.From, t.Declined, nil
	}
	return "", "", ErrInvalidApprovalAction
}

// ApprovedSince returns every status reached once stage has approved.
func ApprovedSince(stage Stage) []Status {
	var statuses []Status
	reached := false
	for _, s := range Stages {
		if s == stage {
			reached = true
		}
		if reached {
			statuses = append(statuses, transitions[s].Approved)
		}
	}
	return statuses
}

type View string

const (
	ViewAssigned View = "assigned"
	ViewDeclined View = "declined"
	ViewApproved View = "approved"
)

func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewAssigned, ViewDeclined, ViewApproved:
		return View(s), nil
	}
	return "", ErrInvalidView
}

type LeaveType struct {
	ID             int64
	Name           string
	ConsumesAnnual bool
}

type LeaveRequest struct {
	ID             int64
	UserID         int64
	HeadProgramID  *int64
	DivisionID     *int64
	StartDate      time.Time
	EndDate        time.Time
	TotalDays      int
	LeaveTypeID    int64
	Description    string
	Phone          string
	Address        string
	AttachmentPath *string
	Status         Status
	ApproverID     *int64
	ApproverStage  *Stage
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	UserName      string
	LeaveTypeName string
	DivisionName  *string
}

// Filter narrows request listings. Empty fields are ignored.
type Filter struct {
	UserID        *int64
	Statuses      []Status
	ApproverStage *Stage
}
