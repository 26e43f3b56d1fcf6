package model

// live 类型题目的允许用户(按用户 id 配置)
type LiveChallengeUser struct {
	ID          int64 `json:"id" xorm:"pk autoincr"`
	ChallengeID int64 `json:"challenge_id" xorm:"index"`
	UserID      int64 `json:"user_id" xorm:"index"`
}

func (l *LiveChallengeUser) TableName() string {
	return "live_challenge_users"
}

// livectf 类型题目的允许用户(按用户名配置, 写入时解析为 id)
type LiveCTFAccess struct {
	ID          int64 `json:"id" xorm:"pk autoincr"`
	ChallengeID int64 `json:"challenge_id" xorm:"index"`
	UserID      int64 `json:"user_id" xorm:"index"`
}

func (l *LiveCTFAccess) TableName() string {
	return "live_ctf_access"
}
