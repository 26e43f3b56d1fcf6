package challenge

import (
	"context"

	"LiveCTF/model"
)

// GetChallenge implementations return a common.ErrNotFound error for a
// missing row. Find* methods return nil, nil instead.

type ChallengeStore interface {
	CreateChallenge(ctx context.Context, ch *model.Challenge) error
	GetChallenge(ctx context.Context, id int64) (*model.Challenge, error)
	UpdateChallenge(ctx context.Context, ch *model.Challenge) error
	// DeleteChallenge removes the challenge and every row that depends on
	// it, returning the file records so the files can be removed.
	DeleteChallenge(ctx context.Context, id int64) ([]model.ChallengeFile, error)
	ListFlags(ctx context.Context, challengeID int64) ([]model.Flag, error)
	ListTags(ctx context.Context, challengeID int64) ([]model.Tag, error)
}

type OutcomeStore interface {
	InsertSolve(ctx context.Context, s *model.Solve) error
	InsertFail(ctx context.Context, f *model.Fail) error
	// CountFails counts the fails of the team when teamID is set, of the
	// user otherwise.
	CountFails(ctx context.Context, challengeID, userID int64, teamID *int64) (int64, error)
}

type SolveCounter interface {
	CountDistinctSolvingTeams(ctx context.Context, challengeID int64) (int64, error)
}

type AwardStore interface {
	FindAward(ctx context.Context, teamID int64, description string) (*model.Award, error)
	InsertAward(ctx context.Context, a *model.Award) error
}

type GrantKind string

const (
	GrantLive    GrantKind = "live"
	GrantLiveCTF GrantKind = "livectf"
)

type GrantStore interface {
	HasGrant(ctx context.Context, kind GrantKind, challengeID, userID int64) (bool, error)
	ListGrants(ctx context.Context, kind GrantKind, challengeID int64) ([]int64, error)
	// ReplaceGrants drops every grant of the challenge and inserts userIDs.
	ReplaceGrants(ctx context.Context, kind GrantKind, challengeID int64, userIDs []int64) error
}

type UserStore interface {
	FindUserByName(ctx context.Context, name string) (*model.User, error)
	GetUsers(ctx context.Context, ids []int64) ([]model.User, error)
	// ListActiveUsers returns non-admin users that are neither banned nor hidden.
	ListActiveUsers(ctx context.Context) ([]model.User, error)
}

type Store interface {
	ChallengeStore
	OutcomeStore
	SolveCounter
	AwardStore
	GrantStore
	UserStore
}

// FileRemover deletes an uploaded file by its stored location.
type FileRemover interface {
	RemoveFile(location string) error
}

// Locker serializes work on a key across requests.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// RateLimiter tracks wrong submissions per key.
type RateLimiter interface {
	Limited(ctx context.Context, key string) (bool, error)
	Record(ctx context.Context, key string) error
}
