package database

import (
	"cybertrain_backend/internal/config"
	"cybertrain_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立 MySQL 连接。migrate 为 true 时执行 AutoMigrate 并播种
// 默认技能库；release 模式默认关闭，用 -migrate 标志显式开启。
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.Quiz{},
		&model.Chapter{},
		&model.Question{},
		&model.QuizResult{},
		&model.UserResponse{},
		&model.PracticeSession{},
		&model.PracticeQuestion{},
		&model.PracticeResponse{},
		&model.RepetitionItem{},
		&model.SkillAnalytic{},
		&model.ResourceRecommendation{},
		&model.LearningPlanItem{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认技能库（为空时插入常用网络安全技能）
	var skillCount int64
	db.Model(&model.Skill{}).Count(&skillCount)
	if skillCount == 0 {
		defaultSkills := []model.Skill{
			{Name: "Phishing Detection", Domain: "Social Engineering", Description: "识别钓鱼邮件与仿冒站点", Enabled: true},
			{Name: "Password Management", Domain: "Identity & Access", Description: "口令强度与凭据保管", Enabled: true},
			{Name: "Network Security", Domain: "Infrastructure", Description: "防火墙、IDS 与网络分段", Enabled: true},
			{Name: "Data Protection", Domain: "Data Security", Description: "加密、脱敏与数据分级", Enabled: true},
			{Name: "Incident Response", Domain: "Operations", Description: "事件研判与处置流程", Enabled: true},
			{Name: "Secure Browsing", Domain: "End User", Description: "浏览器与下载安全习惯", Enabled: true},
		}
		for _, s := range defaultSkills {
			db.Create(&s)
		}
	}

	return db, nil
}
