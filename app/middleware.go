package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//中间件

const loggerKey = "_logger"

//验证是否登陆, 并把当前用户放进 context
func (s *Server) AuthLogin(c *gin.Context) {
	if _, err := s.actor(c); err != nil {
		handleErr(c, err)
		c.Abort()
	}
}

//管理员验证
func (s *Server) AuthAdmin(c *gin.Context) {
	actor, err := s.actor(c)
	if err != nil {
		handleErr(c, err)
		c.Abort()
		return
	}
	if !actor.Admin {
		setError(c, http.StatusForbidden, "没有权限")
		c.Abort()
	}
}

//c 中没有返回码时为 200, 有 errno 时用 errno 作为状态码
func jsonResponse(c *gin.Context) {
	c.Next()
	if _, exist := c.Get("noPack"); exist {
		return
	}
	status := http.StatusOK
	if errno, ok := c.Get("errno"); ok {
		status = errno.(int)
	} else if c.Writer.Status() == http.StatusNotFound && !c.Writer.Written() {
		status = http.StatusNotFound
		setError(c, status, "Not Found")
	}
	body := make(map[string]interface{}, len(c.Keys)+1)
	for k, v := range c.Keys {
		if k == sessions.DefaultKey || strings.HasPrefix(k, "_") {
			continue
		}
		body[k] = v
	}
	if _, ok := body["success"]; !ok {
		body["success"] = status < http.StatusBadRequest
	}
	c.JSON(status, body)
}

//每个请求一个带 request 信息的 logger
func requestLogger(c *gin.Context) {
	start := time.Now()
	l := log.With().
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("ip", c.ClientIP()).
		Logger()
	c.Set(loggerKey, l)
	c.Next()
	l.Info().
		Int("status", c.Writer.Status()).
		Dur("latency", time.Since(start)).
		Msg("request")
}

func logger(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		l := v.(zerolog.Logger)
		return &l
	}
	return &log.Logger
}
