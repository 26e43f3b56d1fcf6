package model

import (
	"time"
)

const (
	UserTypeUser  = "user"
	UserTypeAdmin = "admin"
)

type User struct {
	ID        int64     `json:"id" xorm:"pk autoincr"`
	CreatedAt time.Time `json:"created_at" xorm:"created"`
	Name      string    `json:"name" xorm:"varchar(128) unique index notnull"` //用户名
	Password  string    `json:"-" xorm:"varchar(128) notnull"`                 //bcrypt 哈希
	Email     string    `json:"email" xorm:"varchar(128) index"`
	Type      string    `json:"type" xorm:"varchar(80) default 'user'"`
	Banned    bool      `json:"banned" xorm:"default 0"`
	Hidden    bool      `json:"hidden" xorm:"default 0"`
	TeamID    *int64    `json:"team_id" xorm:"index"`
}

func (u *User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Type == UserTypeAdmin
}

type Team struct {
	ID        int64     `json:"id" xorm:"pk autoincr"`
	CreatedAt time.Time `json:"created_at" xorm:"created"`
	Name      string    `json:"name" xorm:"varchar(128) unique index notnull"`
}

func (t *Team) TableName() string {
	return "teams"
}
