package app

import (
	"net/http"

	"LiveCTF/common"
	"LiveCTF/model"

	"github.com/gin-gonic/gin"
)

func ping(c *gin.Context) {
	c.Set("ping", "pong")
}

//登陆请求
func (s *Server) login(c *gin.Context) {
	if getUserID(c) != 0 {
		deleteSession(c)
	}
	form := new(loginValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := check(form); err != nil {
		handleErr(c, err)
		return
	}
	u, err := s.db.FindUserByName(c.Request.Context(), form.Name)
	if err != nil {
		handleErr(c, err)
		return
	}
	if u == nil || !common.CheckPassword(u.Password, form.Password) {
		setError(c, http.StatusForbidden, "Your username or password is incorrect")
		return
	}
	if u.Banned {
		setError(c, http.StatusForbidden, "Your account has been banned")
		return
	}
	if err := setSession(c, u.Name, u.ID); err != nil {
		handleErr(c, err)
		return
	}
	logger(c).Info().Int64("user_id", u.ID).Msg("login")
	c.Set("data", u)
}

func (s *Server) logout(c *gin.Context) {
	if err := deleteSession(c); err != nil {
		handleErr(c, err)
		return
	}
	c.Set("msg", "ok")
}

func (s *Server) me(c *gin.Context) {
	actor, _ := s.actor(c)
	u, err := s.db.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", u)
}

func (s *Server) createUser(c *gin.Context) {
	form := new(userValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := form.isOk(); err != nil {
		handleErr(c, err)
		return
	}
	ctx := c.Request.Context()
	if exist, err := s.db.FindUserByName(ctx, form.Name); err != nil {
		handleErr(c, err)
		return
	} else if exist != nil {
		setError(c, http.StatusBadRequest, "name is already taken")
		return
	}
	u := &model.User{
		Name:   form.Name,
		Email:  form.Email,
		Type:   form.Type,
		Hidden: form.Hidden,
		Banned: form.Banned,
	}
	if form.TeamID != 0 {
		if _, err := s.db.GetTeam(ctx, form.TeamID); err != nil {
			handleErr(c, err)
			return
		}
		u.TeamID = &form.TeamID
	}
	hash, err := common.HashPassword(form.Password)
	if err != nil {
		handleErr(c, err)
		return
	}
	u.Password = hash
	if err := s.db.CreateUser(ctx, u); err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", u)
}

func (s *Server) createTeam(c *gin.Context) {
	form := new(teamValidator)
	if err := c.ShouldBind(form); err != nil {
		setError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := check(form); err != nil {
		handleErr(c, err)
		return
	}
	t := &model.Team{Name: form.Name}
	if err := s.db.CreateTeam(c.Request.Context(), t); err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", t)
}

func (s *Server) teamAwards(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := s.db.GetTeam(ctx, id); err != nil {
		handleErr(c, err)
		return
	}
	awards, err := s.db.ListAwards(ctx, id)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("data", awards)
}
