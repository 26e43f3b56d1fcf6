package challenge

import (
	"context"
	"strconv"
	"strings"

	"LiveCTF/common"
	"LiveCTF/model"

	"github.com/rs/zerolog"
)

// Result is what the submitter gets back.
type Result struct {
	Correct bool         `json:"correct"`
	Message string       `json:"message"`
	Status  Status       `json:"status"`
	Award   *AwardResult `json:"-"`
}

// Orchestrator runs submissions through access check, flag check, outcome
// recording and the author bonus, and fronts the per-type operations.
type Orchestrator struct {
	registry *Registry
	store    Store
	awards   *AwardEngine
	limiter  RateLimiter
	log      zerolog.Logger
}

// NewOrchestrator builds the orchestrator; limiter may be nil.
func NewOrchestrator(registry *Registry, store Store, awards *AwardEngine, limiter RateLimiter, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		store:    store,
		awards:   awards,
		limiter:  limiter,
		log:      log,
	}
}

func (o *Orchestrator) Registry() *Registry {
	return o.registry
}

// load fetches a challenge and its type. Hidden and locked challenges do not
// exist for non-admins.
func (o *Orchestrator) load(ctx context.Context, actor *Actor, id int64) (*model.Challenge, ChallengeType, error) {
	ch, err := o.store.GetChallenge(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !ch.IsVisible() && (actor == nil || !actor.Admin) {
		return nil, nil, common.ErrNotFound("")
	}
	ct, err := o.registry.Get(ch.Type)
	if err != nil {
		return nil, nil, err
	}
	return ch, ct, nil
}

func rateKey(actor *Actor) string {
	return "user_" + strconv.FormatInt(actor.UserID, 10)
}

// Attempt handles one flag submission.
func (o *Orchestrator) Attempt(ctx context.Context, actor *Actor, challengeID int64, submission *string) (*Result, error) {
	if actor == nil {
		return nil, common.ErrUnauthorized()
	}
	if submission == nil {
		return nil, common.ErrInvalidInput("submission is required")
	}
	text := strings.TrimSpace(*submission)

	ch, ct, err := o.load(ctx, actor, challengeID)
	if err != nil {
		return nil, err
	}
	logger := o.log.With().
		Int64("challenge_id", ch.ID).
		Int64("user_id", actor.UserID).
		Str("ip", actor.IP).
		Logger()

	if o.limiter != nil && !actor.Admin {
		limited, err := o.limiter.Limited(ctx, rateKey(actor))
		if err != nil {
			return nil, err
		}
		if limited {
			logger.Warn().Msg("submitting too fast")
			return nil, common.ErrRateLimited()
		}
	}
	if ch.MaxAttempts > 0 {
		fails, err := o.store.CountFails(ctx, ch.ID, actor.UserID, actor.TeamID)
		if err != nil {
			return nil, err
		}
		if fails >= int64(ch.MaxAttempts) {
			return nil, common.ErrForbidden("You have 0 tries remaining")
		}
	}

	verdict, err := ct.Attempt(ctx, actor, ch, text)
	if err != nil {
		return nil, err
	}

	res := &Result{Correct: verdict.Correct, Message: verdict.Message}
	if !verdict.Correct {
		if err := ct.Fail(ctx, actor, ch, text); err != nil {
			return nil, err
		}
		if o.limiter != nil {
			if err := o.limiter.Record(ctx, rateKey(actor)); err != nil {
				logger.Error().Err(err).Msg("record wrong submission")
			}
		}
		res.Status = StatusIncorrect
		logger.Info().Str("provided", text).Msg("submission incorrect")
		return res, nil
	}

	if res.Status, err = ct.Solve(ctx, actor, ch, text); err != nil {
		return nil, err
	}
	if res.Status == StatusSelfSolve {
		logger.Info().Msg("author team solved own challenge")
		return res, nil
	}
	logger.Info().Msg("submission correct")
	if res.Award, err = o.awards.MaybeAward(ctx, ch); err != nil {
		return nil, err
	}
	return res, nil
}

// Read returns the view of a challenge for actor.
func (o *Orchestrator) Read(ctx context.Context, actor *Actor, id int64, management bool) (*View, error) {
	ch, ct, err := o.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ct.Read(ctx, actor, ch, management)
}

// Create makes a challenge of the type named in the patch, "standard" when
// none is given.
func (o *Orchestrator) Create(ctx context.Context, actor *Actor, patch *Patch) (*model.Challenge, error) {
	typ := TypeStandard
	if patch.Type != nil && *patch.Type != "" {
		typ = *patch.Type
	}
	ct, err := o.registry.Get(typ)
	if err != nil {
		return nil, common.ErrInvalidInput("unknown challenge type: " + typ)
	}
	return ct.Create(ctx, actor, patch)
}

func (o *Orchestrator) Update(ctx context.Context, actor *Actor, id int64, patch *Patch) (*model.Challenge, error) {
	ch, ct, err := o.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return ct.Update(ctx, actor, ch, patch)
}

func (o *Orchestrator) Delete(ctx context.Context, actor *Actor, id int64) error {
	ch, ct, err := o.load(ctx, actor, id)
	if err != nil {
		return err
	}
	return ct.Delete(ctx, ch)
}

// CheckAccess reports whether actor may attempt the challenge, the way
// the live plugin's check_access endpoint answers it.
func (o *Orchestrator) CheckAccess(ctx context.Context, actor *Actor, id int64) (bool, error) {
	if actor != nil && actor.Admin {
		return true, nil
	}
	ch, ct, err := o.load(ctx, actor, id)
	if err != nil {
		return false, err
	}
	st, ok := ct.(interface{ Policy() AccessPolicy })
	if !ok {
		return true, nil
	}
	return st.Policy().Allowed(ctx, actor, ch, OpAttempt)
}
