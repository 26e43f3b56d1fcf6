// Package challenge holds the challenge types, their access policies, the
// attempt state machine and the author bonus rule.
package challenge

import (
	"context"

	"LiveCTF/flags"
	"LiveCTF/model"
)

// Actor is the authenticated user behind a request.
type Actor struct {
	UserID int64
	Name   string
	Admin  bool
	TeamID *int64 //没有队伍时为空
	IP     string
}

func (a *Actor) HasTeam() bool {
	return a != nil && a.TeamID != nil
}

// OwnsChallenge reports whether the actor's team authored ch.
func (a *Actor) OwnsChallenge(ch *model.Challenge) bool {
	return a.HasTeam() && ch.OwnerTeamID != 0 && *a.TeamID == ch.OwnerTeamID
}

type Operation int

const (
	OpRead Operation = iota
	OpAttempt
	OpSolve
)

func (op Operation) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpAttempt:
		return "attempt"
	case OpSolve:
		return "solve"
	}
	return "unknown"
}

// Status is what got recorded for a submission.
type Status string

const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusSelfSolve Status = "self_solve" //出题队伍解出自己的题, 记为 Fail
)

type TypeData struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Templates map[string]string `json:"templates"`
	Scripts   map[string]string `json:"scripts"`
}

type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// View is the data of a challenge as handed to the front end.
type View struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Value          int      `json:"value"`
	Description    string   `json:"description"`
	Attribution    string   `json:"attribution"`
	ConnectionInfo string   `json:"connection_info"`
	NextID         int64    `json:"next_id"`
	Category       string   `json:"category"`
	State          string   `json:"state"`
	MaxAttempts    int      `json:"max_attempts"`
	Type           string   `json:"type"`
	Tags           []string `json:"tags"`
	TypeData       TypeData `json:"type_data"`

	// management view only
	OwnerTeamID     int64     `json:"owner_team_id,omitempty"`
	Users           []UserRef `json:"users,omitempty"`
	AllowedUsers    []int64   `json:"allowed_users,omitempty"`
	AuthorizedUsers []string  `json:"authorized_users,omitempty"`
}

// ChallengeType is the capability set every registered challenge type offers.
type ChallengeType interface {
	ID() string
	TypeData() TypeData

	Create(ctx context.Context, actor *Actor, patch *Patch) (*model.Challenge, error)
	Read(ctx context.Context, actor *Actor, ch *model.Challenge, management bool) (*View, error)
	Update(ctx context.Context, actor *Actor, ch *model.Challenge, patch *Patch) (*model.Challenge, error)
	Delete(ctx context.Context, ch *model.Challenge) error

	// Attempt checks the submission without recording anything.
	Attempt(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) (flags.Verdict, error)
	Solve(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) (Status, error)
	Fail(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) error
}
