// Package flags decides whether a submission matches a challenge's flags.
package flags

import (
	"crypto/subtle"
	"regexp"
	"strings"
	"time"

	"LiveCTF/model"

	"github.com/patrickmn/go-cache"
)

const (
	TypeStatic = "static"
	TypeRegex  = "regex"

	DataCaseInsensitive = "case_insensitive"

	MsgCorrect   = "Correct"
	MsgIncorrect = "Incorrect"
)

// FlagError is a classified comparison failure, e.g. a malformed regex.
// It is shown to the user and counts as an incorrect answer.
type FlagError struct {
	Msg string
}

func (e *FlagError) Error() string {
	return e.Msg
}

type Comparator interface {
	Compare(flag *model.Flag, provided string) (bool, error)
}

type ComparatorFunc func(flag *model.Flag, provided string) (bool, error)

func (f ComparatorFunc) Compare(flag *model.Flag, provided string) (bool, error) {
	return f(flag, provided)
}

var comparators = map[string]Comparator{
	TypeStatic: ComparatorFunc(compareStatic),
	TypeRegex:  ComparatorFunc(compareRegex),
}

// Get returns the comparator for a flag type.
func Get(flagType string) (Comparator, error) {
	if c, ok := comparators[flagType]; ok {
		return c, nil
	}
	return nil, &FlagError{Msg: "Unknown flag type: " + flagType}
}

// Types lists the registered flag types.
func Types() []string {
	return []string{TypeStatic, TypeRegex}
}

func compareStatic(flag *model.Flag, provided string) (bool, error) {
	saved := flag.Content
	if flag.Data == DataCaseInsensitive {
		return strings.EqualFold(saved, provided), nil
	}
	if len(saved) != len(provided) {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(saved), []byte(provided)) == 1, nil
}

var regexCache = cache.New(30*time.Minute, time.Hour)

func compileRegex(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	expr := "^(?:" + pattern + ")"
	if caseInsensitive {
		expr = "(?i)" + expr
	}
	if re, ok := regexCache.Get(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	regexCache.SetDefault(expr, re)
	return re, nil
}

// 从开头匹配, 且匹配到的内容必须是整个提交
func compareRegex(flag *model.Flag, provided string) (bool, error) {
	re, err := compileRegex(flag.Content, flag.Data == DataCaseInsensitive)
	if err != nil {
		return false, &FlagError{Msg: "Regex parse error occured"}
	}
	loc := re.FindStringIndex(provided)
	return loc != nil && loc[1] == len(provided), nil
}

// Verdict is the outcome of checking a submission.
type Verdict struct {
	Correct bool
	Message string
}

// Evaluate checks submission against flags in order. The first matching flag
// wins; a FlagError stops evaluation with an incorrect verdict.
func Evaluate(flags []model.Flag, submission string) Verdict {
	for i := range flags {
		ok, err := compare(&flags[i], submission)
		if err != nil {
			return Verdict{Correct: false, Message: err.Error()}
		}
		if ok {
			return Verdict{Correct: true, Message: MsgCorrect}
		}
	}
	return Verdict{Correct: false, Message: MsgIncorrect}
}

func compare(flag *model.Flag, submission string) (bool, error) {
	c, err := Get(flag.Type)
	if err != nil {
		return false, err
	}
	return c.Compare(flag, submission)
}

// Validate reports whether a flag definition can be evaluated.
func Validate(flag *model.Flag) error {
	if _, err := Get(flag.Type); err != nil {
		return err
	}
	if flag.Data != "" && flag.Data != DataCaseInsensitive {
		return &FlagError{Msg: "Unknown flag data: " + flag.Data}
	}
	if flag.Type == TypeRegex {
		if _, err := compileRegex(flag.Content, flag.Data == DataCaseInsensitive); err != nil {
			return &FlagError{Msg: "Regex parse error occured"}
		}
	}
	return nil
}
