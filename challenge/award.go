package challenge

import (
	"context"
	"strconv"
	"time"

	"LiveCTF/model"

	"github.com/rs/zerolog"
)

const (
	BonusName        = "Bonus 🩸"
	BonusDescription = "Bonus"
	BonusIcon        = "crown"
	BonusType        = "standard"
)

// Threshold pays Points to the author team when exactly Solves distinct
// teams have solved its challenge.
type Threshold struct {
	Solves int64
	Points int
}

var BonusSchedule = []Threshold{
	{0, 0},
	{1, 200},
	{2, 500},
	{3, 800},
	{4, 1200},
	{5, 1600},
	{6, 2000},
	{7, 1600},
	{8, 1200},
	{9, 800},
	{10, 500},
	{11, 200},
}

// BonusFor returns the points scheduled for n distinct solving teams.
func BonusFor(n int64) (int, bool) {
	for _, t := range BonusSchedule {
		if t.Solves == n {
			return t.Points, true
		}
	}
	return 0, false
}

type AwardResult struct {
	Solves         int64        `json:"solves"`
	Points         int          `json:"points"`
	Matched        bool         `json:"matched"`         //n 在表中
	AlreadyAwarded bool         `json:"already_awarded"` //出题队伍已有 Bonus
	Award          *model.Award `json:"award,omitempty"`
}

// AwardEngine pays the author bonus after a genuine solve. An owner team
// receives the "Bonus" award at most once.
type AwardEngine struct {
	solves SolveCounter
	awards AwardStore
	locker Locker
	now    func() time.Time
	log    zerolog.Logger
}

// NewAwardEngine builds the engine; a nil locker falls back to an
// in-process lock.
func NewAwardEngine(solves SolveCounter, awards AwardStore, locker Locker, log zerolog.Logger) *AwardEngine {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &AwardEngine{
		solves: solves,
		awards: awards,
		locker: locker,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log,
	}
}

func awardLockKey(teamID int64) string {
	return "award_lock_team_" + strconv.FormatInt(teamID, 10)
}

func (e *AwardEngine) MaybeAward(ctx context.Context, ch *model.Challenge) (*AwardResult, error) {
	res := &AwardResult{}
	if ch.OwnerTeamID == 0 {
		return res, nil
	}
	n, err := e.solves.CountDistinctSolvingTeams(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	res.Solves = n
	res.Points, res.Matched = BonusFor(n)
	if !res.Matched {
		return res, nil
	}

	unlock, err := e.locker.Lock(ctx, awardLockKey(ch.OwnerTeamID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := e.awards.FindAward(ctx, ch.OwnerTeamID, BonusDescription)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		res.AlreadyAwarded = true
		return res, nil
	}
	award := &model.Award{
		TeamID:       ch.OwnerTeamID,
		Type:         BonusType,
		Name:         BonusName,
		Description:  BonusDescription,
		Icon:         BonusIcon,
		Value:        res.Points,
		Category:     ch.Category,
		Requirements: map[string]int64{"challenge_id": ch.ID},
		Date:         e.now(),
	}
	if err := e.awards.InsertAward(ctx, award); err != nil {
		return nil, err
	}
	res.Award = award
	e.log.Info().
		Int64("challenge_id", ch.ID).
		Int64("team_id", ch.OwnerTeamID).
		Int64("solves", n).
		Int("value", award.Value).
		Msg("author bonus awarded")
	return res, nil
}
