package service

import (
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SkillService struct {
	SkillRepo     *repository.SkillRepository
	UserSkillRepo *repository.UserSkillRepository
}

func NewSkillService(skillRepo *repository.SkillRepository, userSkillRepo *repository.UserSkillRepository) *SkillService {
	return &SkillService{
		SkillRepo:     skillRepo,
		UserSkillRepo: userSkillRepo,
	}
}

// SkillWithProficiency 技能条目与当前用户的熟练度合并视图。
// 从未练习过的技能熟练度为0。
type SkillWithProficiency struct {
	model.Skill
	ProficiencyLevel float64    `json:"proficiencyLevel"`
	PracticeCount    int        `json:"practiceCount"`
	LastPracticedAt  *time.Time `json:"lastPracticedAt"`
}

func (s *SkillService) ListForUser(userID uint) ([]SkillWithProficiency, error) {
	skills, err := s.SkillRepo.ListEnabled()
	if err != nil {
		return nil, err
	}

	records, err := s.UserSkillRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	bySkill := make(map[uint]model.UserSkill, len(records))
	for _, record := range records {
		bySkill[record.SkillID] = record
	}

	result := make([]SkillWithProficiency, 0, len(skills))
	for _, skill := range skills {
		entry := SkillWithProficiency{Skill: skill}
		if record, ok := bySkill[skill.ID]; ok {
			entry.ProficiencyLevel = record.ProficiencyLevel
			entry.PracticeCount = record.PracticeCount
			entry.LastPracticedAt = record.LastPracticedAt
		}
		result = append(result, entry)
	}
	return result, nil
}

func (s *SkillService) GetByID(id uint) (*model.Skill, error) {
	skill, err := s.SkillRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSkillNotFound
	}
	return skill, err
}

func (s *SkillService) Create(skill *model.Skill) error {
	return s.SkillRepo.Create(skill)
}

func (s *SkillService) Update(id uint, skill *model.Skill) (*model.Skill, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = skill.Name
	existing.Domain = skill.Domain
	existing.Description = skill.Description
	existing.Enabled = skill.Enabled

	if err := s.SkillRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}
