package model

import "time"

// Skill 网络安全技能条目（如钓鱼识别、密码管理）。
// swagger:model Skill
type Skill struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Domain      string `gorm:"size:100;index" json:"domain"` // 所属安全领域
	Description string `gorm:"type:text" json:"description"`
	Enabled     bool   `gorm:"default:true" json:"enabled"`
}

func (Skill) TableName() string {
	return "skills"
}

// UserSkill 用户×技能的熟练度记录。首次练习时惰性创建，之后只更新不删除。
// swagger:model UserSkill
type UserSkill struct {
	BaseModel
	UserID  uint `gorm:"index:idx_user_skill,unique;not null" json:"userId"`
	SkillID uint `gorm:"index:idx_user_skill,unique;not null" json:"skillId"`
	// ProficiencyLevel 始终处于 [0,100]。
	ProficiencyLevel float64    `gorm:"type:decimal(5,2);default:0" json:"proficiencyLevel"`
	PracticeCount    int        `gorm:"default:0" json:"practiceCount"`
	LastPracticedAt  *time.Time `json:"lastPracticedAt"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}
