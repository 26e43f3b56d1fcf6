package app

import (
	"LiveCTF/challenge"

	"github.com/gin-gonic/gin"
)

// checkAccess 前端据此决定是否禁用提交框
func (s *Server) checkAccess(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, _ := s.actor(c)
	allowed, err := s.orch.CheckAccess(c.Request.Context(), actor, id)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.Set("success", allowed)
}

// liveUsers 可以加入 live 名单的用户
func (s *Server) liveUsers(c *gin.Context) {
	users, err := s.db.ListActiveUsers(c.Request.Context())
	if err != nil {
		handleErr(c, err)
		return
	}
	data := make([]challenge.UserRef, 0, len(users))
	for _, u := range users {
		data = append(data, challenge.UserRef{ID: u.ID, Name: u.Name})
	}
	c.Set("data", data)
}
