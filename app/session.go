package app

import (
	"errors"

	"LiveCTF/challenge"
	"LiveCTF/common"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	USERNAME_KEY   = "who"
	ID_KEY         = "which"
	SESSION_EXPIRE = 3600 * 24 * 3 //三天

	actorKey = "_actor"
)

func getUserID(c *gin.Context) int64 {
	session := sessions.Default(c)
	id, _ := session.Get(ID_KEY).(int64)
	return id
}

//设置session
func setSession(c *gin.Context, name string, id int64) error {
	session := sessions.Default(c)
	session.Set(USERNAME_KEY, name)
	session.Set(ID_KEY, id)
	return session.Save()
}

//删除session
func deleteSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(USERNAME_KEY)
	session.Delete(ID_KEY)
	return session.Save()
}

// actor 根据 session 加载当前用户, 一个请求只查一次
func (s *Server) actor(c *gin.Context) (*challenge.Actor, error) {
	if v, ok := c.Get(actorKey); ok {
		return v.(*challenge.Actor), nil
	}
	id := getUserID(c)
	if id == 0 {
		return nil, common.ErrUnauthorized()
	}
	u, err := s.db.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound("")) {
			deleteSession(c)
			return nil, common.ErrUnauthorized()
		}
		return nil, err
	}
	if u.Banned {
		return nil, common.ErrForbidden("Your account has been banned")
	}
	a := &challenge.Actor{
		UserID: u.ID,
		Name:   u.Name,
		Admin:  u.IsAdmin(),
		TeamID: u.TeamID,
		IP:     c.ClientIP(),
	}
	c.Set(actorKey, a)
	return a, nil
}
