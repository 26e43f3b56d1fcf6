package common

import (
	"strconv"
	"strings"
	"time"
)

const (
	TIME_FORMAT = "2006-01-02 15:04:05"
)

//下面转换不进行错误处理

func StrToBool(s string) bool {
	ret, _ := strconv.ParseBool(s)
	return ret
}

func StrToTime(s string) time.Time {
	t, _ := time.ParseInLocation(TIME_FORMAT, s, time.UTC)
	return t
}

func TimeToStr(t time.Time) string {
	return t.UTC().Format(TIME_FORMAT)
}

// SplitList 按逗号切分, 去掉首尾空白, 丢弃空项
func SplitList(s string) []string {
	ret := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			ret = append(ret, item)
		}
	}
	return ret
}

// ParseIDList 解析逗号分隔的 id 列表, 任何一项不是数字都返回错误
func ParseIDList(s string) ([]int64, error) {
	tokens := SplitList(s)
	ret := make([]int64, 0, len(tokens))
	for _, item := range tokens {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, ErrInvalidInput("invalid user id: " + item)
		}
		ret = append(ret, id)
	}
	return ret, nil
}
