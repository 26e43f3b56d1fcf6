package app

//对请求的参数进行验证
import (
	"strings"
	"sync"

	"LiveCTF/common"
	"LiveCTF/flags"
	"LiveCTF/model"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	trans        ut.Translator
)

func initValidator() {
	validate = validator.New()
	uni := ut.New(en.New())
	trans, _ = uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(validate, trans)
}

// check 校验结构体, 错误信息翻译后拼成一行
func check(s interface{}) error {
	validateOnce.Do(initValidator)
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return common.ErrInvalidInput(err.Error())
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return common.ErrInvalidInput(strings.Join(msgs, "; "))
}

//登陆参数验证
type loginValidator struct {
	Name     string `form:"name" json:"name" validate:"required,lte=128"`
	Password string `form:"password" json:"password" validate:"required,lte=128"`
}

type attemptValidator struct {
	ChallengeID int64   `form:"challenge_id" json:"challenge_id" validate:"required,gt=0"`
	Submission  *string `form:"submission" json:"submission"`
}

type userValidator struct {
	Name     string `form:"name" json:"name" validate:"required,lte=128"`
	Password string `form:"password" json:"password" validate:"required,gte=6,lte=72,printascii"`
	Email    string `form:"email" json:"email" validate:"omitempty,email"`
	Type     string `form:"type" json:"type" validate:"omitempty,oneof=user admin"`
	TeamID   int64  `form:"team_id" json:"team_id" validate:"gte=0"`
	Hidden   bool   `form:"hidden" json:"hidden"`
	Banned   bool   `form:"banned" json:"banned"`
}

func (uv *userValidator) isOk() error {
	if strings.ContainsAny(uv.Name, " \n\t\r") {
		return common.ErrInvalidInput("name must not contain whitespace")
	}
	return check(uv)
}

type teamValidator struct {
	Name string `form:"name" json:"name" validate:"required,lte=128"`
}

type flagValidator struct {
	Type    string `form:"type" json:"type" validate:"required"`
	Content string `form:"content" json:"content" validate:"required"`
	Data    string `form:"data" json:"data"`
}

// isOk 除了字段检查还要确认 flag 能被比较
func (fv *flagValidator) isOk() error {
	if err := check(fv); err != nil {
		return err
	}
	if err := flags.Validate(&model.Flag{Type: fv.Type, Content: fv.Content, Data: fv.Data}); err != nil {
		return common.ErrInvalidInput(err.Error())
	}
	return nil
}

type tagValidator struct {
	Value string `form:"value" json:"value" validate:"required,lte=80"`
}
