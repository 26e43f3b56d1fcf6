package app

import (
	"net/http"
	"strconv"

	"LiveCTF/common"

	"github.com/gin-gonic/gin"
)

func setError(c *gin.Context, errno int, errmsg string) {
	c.Set("errno", errno)
	c.Set("errmsg", errmsg)
}

func setMap(c *gin.Context, mp map[string]interface{}) {
	for k, v := range mp {
		c.Set(k, v)
	}
}

// handleErr 把错误写进响应, 内部错误只记日志不返回细节
func handleErr(c *gin.Context, err error) {
	e := common.AsError(err)
	status := e.HttpStatusCode()
	if status >= http.StatusInternalServerError {
		logger(c).Error().Err(e.DebugInfo()).Str("code", e.Code()).Msg("request failed")
	} else if e.DebugInfo() != nil {
		logger(c).Debug().Err(e.DebugInfo()).Str("code", e.Code()).Msg(e.Error())
	}
	setError(c, status, e.Error())
}

// paramID 读取路径参数中的 id
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		setError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
