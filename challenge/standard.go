package challenge

import (
	"context"
	"errors"

	"LiveCTF/common"
	"LiveCTF/flags"
	"LiveCTF/model"

	"github.com/rs/zerolog"
)

const TypeStandard = "standard"

// Standard is the default challenge type. The live types embed it and
// override what they change.
type Standard struct {
	id        string
	templates map[string]string
	scripts   map[string]string
	keys      []string //本类型接受的属性

	store  Store
	policy AccessPolicy
	files  FileRemover
	log    zerolog.Logger
}

func assetPaths(route string) (map[string]string, map[string]string) {
	templates := map[string]string{
		"create": route + "create.html",
		"update": route + "update.html",
		"view":   route + "view.html",
	}
	scripts := map[string]string{
		"create": route + "create.js",
		"update": route + "update.js",
		"view":   route + "view.js",
	}
	return templates, scripts
}

// NewStandard builds the "standard" type. files may be nil when challenges
// have no uploads to clean up.
func NewStandard(store Store, files FileRemover, log zerolog.Logger) *Standard {
	return newStandard(TypeStandard, "/plugins/challenges/assets/", BaseKeys, store, Open{}, files, log)
}

func newStandard(id, route string, keys []string, store Store, policy AccessPolicy, files FileRemover, log zerolog.Logger) *Standard {
	templates, scripts := assetPaths(route)
	return &Standard{
		id:        id,
		templates: templates,
		scripts:   scripts,
		keys:      keys,
		store:     store,
		policy:    policy,
		files:     files,
		log:       log.With().Str("challenge_type", id).Logger(),
	}
}

func (s *Standard) ID() string {
	return s.id
}

func (s *Standard) TypeData() TypeData {
	return TypeData{ID: s.id, Name: s.id, Templates: s.templates, Scripts: s.scripts}
}

func (s *Standard) Policy() AccessPolicy {
	return s.policy
}

func (s *Standard) Create(ctx context.Context, _ *Actor, patch *Patch) (*model.Challenge, error) {
	if err := patch.Only(s.keys...); err != nil {
		return nil, err
	}
	if patch.Name == nil {
		return nil, common.ErrInvalidInput("name is required")
	}
	ch := &model.Challenge{Type: s.id, State: model.StateVisible}
	if err := patch.Apply(ch); err != nil {
		return nil, err
	}
	if err := s.store.CreateChallenge(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Standard) Read(ctx context.Context, actor *Actor, ch *model.Challenge, management bool) (*View, error) {
	if err := checkAccess(ctx, s.policy, actor, ch, OpRead); err != nil {
		return nil, err
	}
	tags, err := s.store.ListTags(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	v := &View{
		ID:             ch.ID,
		Name:           ch.Name,
		Value:          ch.Value,
		Description:    ch.Description,
		Attribution:    ch.Attribution,
		ConnectionInfo: ch.ConnectionInfo,
		NextID:         ch.NextID,
		Category:       ch.Category,
		State:          ch.State,
		MaxAttempts:    ch.MaxAttempts,
		Type:           ch.Type,
		Tags:           make([]string, 0, len(tags)),
		TypeData:       s.TypeData(),
	}
	for _, t := range tags {
		v.Tags = append(v.Tags, t.Value)
	}
	if management && actor.Admin {
		v.OwnerTeamID = ch.OwnerTeamID
	}
	// 出题队伍看到的是隐藏状态
	if actor.OwnsChallenge(ch) {
		v.State = model.StateHidden
	}
	return v, nil
}

func (s *Standard) Update(ctx context.Context, _ *Actor, ch *model.Challenge, patch *Patch) (*model.Challenge, error) {
	if err := s.applyUpdate(patch, ch); err != nil {
		return nil, err
	}
	if err := s.store.UpdateChallenge(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Standard) applyUpdate(patch *Patch, ch *model.Challenge) error {
	if patch.Type != nil && *patch.Type != ch.Type {
		return common.ErrInvalidInput("type cannot be changed")
	}
	if err := patch.Only(s.keys...); err != nil {
		return err
	}
	return patch.Apply(ch)
}

func (s *Standard) Delete(ctx context.Context, ch *model.Challenge) error {
	files, err := s.store.DeleteChallenge(ctx, ch.ID)
	if err != nil {
		return err
	}
	if s.files == nil {
		return nil
	}
	var errs []error
	for _, f := range files {
		if err := s.files.RemoveFile(f.Location); err != nil {
			s.log.Error().Err(err).Int64("challenge_id", ch.ID).Str("location", f.Location).Msg("remove challenge file")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Standard) Attempt(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) (flags.Verdict, error) {
	if err := checkAccess(ctx, s.policy, actor, ch, OpAttempt); err != nil {
		return flags.Verdict{}, err
	}
	fs, err := s.store.ListFlags(ctx, ch.ID)
	if err != nil {
		return flags.Verdict{}, err
	}
	return flags.Evaluate(fs, submission), nil
}

// Solve records a Solve, or a Fail when the actor's team wrote the challenge.
func (s *Standard) Solve(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) (Status, error) {
	if err := checkAccess(ctx, s.policy, actor, ch, OpSolve); err != nil {
		return "", err
	}
	if actor.OwnsChallenge(ch) {
		if err := s.insertFail(ctx, actor, ch, submission); err != nil {
			return "", err
		}
		return StatusSelfSolve, nil
	}
	solve := &model.Solve{
		ChallengeID: ch.ID,
		UserID:      actor.UserID,
		TeamID:      actor.TeamID,
		IP:          actor.IP,
		Provided:    submission,
	}
	if err := s.store.InsertSolve(ctx, solve); err != nil {
		return "", err
	}
	return StatusCorrect, nil
}

func (s *Standard) Fail(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) error {
	if actor == nil {
		return common.ErrUnauthorized()
	}
	return s.insertFail(ctx, actor, ch, submission)
}

func (s *Standard) insertFail(ctx context.Context, actor *Actor, ch *model.Challenge, submission string) error {
	return s.store.InsertFail(ctx, &model.Fail{
		ChallengeID: ch.ID,
		UserID:      actor.UserID,
		TeamID:      actor.TeamID,
		IP:          actor.IP,
		Provided:    submission,
	})
}
