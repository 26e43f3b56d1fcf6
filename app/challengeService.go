package app

import (
	"errors"
	"net/http"

	"LiveCTF/challenge"
	"LiveCTF/common"

	"github.com/gin-gonic/gin"
)

// listChallenges 只返回当前用户能看到的题目
func (s *Server) listChallenges(c *gin.Context) {
	actor, _ := s.actor(c)
	ctx := c.Request.Context()
	chs, err := s.db.ListChallenges(ctx, actor.Admin)
	if err != nil {
		handleErr(c, err)
		return
	}
	views := make([]*challenge.View, 0, len(chs))
	for _, ch := range chs {
		v, err := s.orch.Read(ctx, actor, ch.ID, false)
		if err != nil {
			if errors.Is(err, common.ErrForbidden("")) || errors.Is(err, common.ErrNotFound("")) {
				continue
			}
			handleErr(c, err)
			return
		}
		views = append(views, v)
	}
	c.Set("data", views)
}

func (s *Server) getChallenge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := s.actor(c)
	v, err := s.orch.Read(c.Request.Context(), actor, id, false)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", v)
}

func (s *Server) challengeTypes(c *gin.Context) {
	c.Set("data", s.orch.Registry().Types())
}

//提交 flag
func (s *Server) attempt(c *gin.Context) {
	form := new(attemptValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := check(form); err != nil {
		handleErr(c, err)
		return
	}
	actor, _ := s.actor(c)
	res, err := s.orch.Attempt(c.Request.Context(), actor, form.ChallengeID, form.Submission)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", res)
}
