package model

import "time"

// Solve 和 Fail 只追加, 不更新
type Solve struct {
	ID          int64     `json:"id" xorm:"pk autoincr"`
	ChallengeID int64     `json:"challenge_id" xorm:"index notnull"`
	UserID      int64     `json:"user_id" xorm:"index"`
	TeamID      *int64    `json:"team_id" xorm:"index"` //个人模式下为空
	IP          string    `json:"ip" xorm:"varchar(46)"`
	Provided    string    `json:"provided" xorm:"text"`
	Date        time.Time `json:"date" xorm:"created"`
}

func (s *Solve) TableName() string {
	return "solves"
}

type Fail struct {
	ID          int64     `json:"id" xorm:"pk autoincr"`
	ChallengeID int64     `json:"challenge_id" xorm:"index notnull"`
	UserID      int64     `json:"user_id" xorm:"index"`
	TeamID      *int64    `json:"team_id" xorm:"index"`
	IP          string    `json:"ip" xorm:"varchar(46)"`
	Provided    string    `json:"provided" xorm:"text"`
	Date        time.Time `json:"date" xorm:"created"`
}

func (f *Fail) TableName() string {
	return "fails"
}

type Award struct {
	ID           int64            `json:"id" xorm:"pk autoincr"`
	UserID       *int64           `json:"user_id"`
	TeamID       int64            `json:"team_id" xorm:"index"`
	Type         string           `json:"type" xorm:"varchar(80) default 'standard'"`
	Name         string           `json:"name" xorm:"varchar(80)"`
	Description  string           `json:"description" xorm:"varchar(255) index"`
	Icon         string           `json:"icon" xorm:"text"`
	Value        int              `json:"value"` //可以为负
	Category     string           `json:"category" xorm:"varchar(80)"`
	Requirements map[string]int64 `json:"requirements" xorm:"json"`
	Date         time.Time        `json:"date"`
}

func (a *Award) TableName() string {
	return "awards"
}
