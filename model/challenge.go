package model

type ChallengeState = string

const (
	StateVisible ChallengeState = "visible"
	StateHidden  ChallengeState = "hidden"
	StateLocked  ChallengeState = "locked"
)

type Challenge struct {
	ID             int64  `json:"id" xorm:"pk autoincr"`
	Name           string `json:"name" xorm:"varchar(80) notnull"`
	Description    string `json:"description" xorm:"text"`
	Attribution    string `json:"attribution" xorm:"text"`
	ConnectionInfo string `json:"connection_info" xorm:"text"`
	NextID         int64  `json:"next_id"` //0 表示没有后续题目
	MaxAttempts    int    `json:"max_attempts" xorm:"default 0"`
	Value          int    `json:"value"`
	Category       string `json:"category" xorm:"varchar(80) index"`
	Type           string `json:"type" xorm:"varchar(80) default 'standard'"`
	State          string `json:"state" xorm:"varchar(80) notnull default 'visible'"`
	OwnerTeamID    int64  `json:"owner_team_id" xorm:"index"` //出题队伍, 0 表示无
}

func (ch *Challenge) TableName() string {
	return "challenges"
}

func (ch *Challenge) IsVisible() bool {
	return ch.State == StateVisible
}

// Flag types: "static", "regex"; Data may be "case_insensitive".
type Flag struct {
	ID          int64  `json:"id" xorm:"pk autoincr"`
	ChallengeID int64  `json:"challenge_id" xorm:"index notnull"`
	Type        string `json:"type" xorm:"varchar(80)"`
	Content     string `json:"content" xorm:"text"`
	Data        string `json:"data" xorm:"text"`
}

func (f *Flag) TableName() string {
	return "flags"
}

type ChallengeFile struct {
	ID          int64  `json:"id" xorm:"pk autoincr"`
	ChallengeID int64  `json:"challenge_id" xorm:"index"`
	Type        string `json:"type" xorm:"varchar(80) default 'challenge'"`
	Location    string `json:"location" xorm:"text"`
}

func (f *ChallengeFile) TableName() string {
	return "files"
}

type Tag struct {
	ID          int64  `json:"id" xorm:"pk autoincr"`
	ChallengeID int64  `json:"challenge_id" xorm:"index"`
	Value       string `json:"value" xorm:"varchar(80)"`
}

func (t *Tag) TableName() string {
	return "tags"
}
