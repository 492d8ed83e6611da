package model

import "time"

// ResourceRecommendation 外部智能体服务产出的学习资源推荐缓存。
// swagger:model ResourceRecommendation
type ResourceRecommendation struct {
	BaseModel
	UserID      uint      `gorm:"index;not null" json:"userId"`
	SkillID     uint      `gorm:"index" json:"skillId"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	URL         string    `gorm:"size:512" json:"url"`
	Kind        string    `gorm:"size:50" json:"kind"` // article / video / course / lab
	Reason      string    `gorm:"type:text" json:"reason"`
	Score       float64   `gorm:"type:decimal(5,2);default:0" json:"score"` // 智能体给出的相关度
	Dismissed   bool      `gorm:"default:false" json:"dismissed"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func (ResourceRecommendation) TableName() string {
	return "resource_recommendations"
}

// LearningPlanItem 学习计划条目，同样由智能体生成后入库。
// swagger:model LearningPlanItem
type LearningPlanItem struct {
	BaseModel
	UserID      uint       `gorm:"index;not null" json:"userId"`
	SkillID     uint       `gorm:"index" json:"skillId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Sequence    int        `gorm:"default:0" json:"sequence"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (LearningPlanItem) TableName() string {
	return "learning_plan_items"
}
