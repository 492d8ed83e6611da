// 手动触发分析快照全量重算脚本
//
// 同行对比接口会在访问时增量刷新快照，此脚本用于批量导入历史数据
// 或修改聚合口径后做一次全量重算。
//
// 用法: go run scripts/recalc_analytics.go
package main

import (
	"cybertrain_backend/internal/config"
	"cybertrain_backend/internal/engine"
	"cybertrain_backend/internal/model"
	"cybertrain_backend/internal/repository"
	"cybertrain_backend/pkg/database"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	var users []model.User
	if err := db.Where("disabled = ?", false).Find(&users).Error; err != nil {
		log.Fatalf("读取用户失败: %v", err)
	}

	var updated int
	for _, user := range users {
		peerIDs, err := userRepo.PeerIDs(user.Sector, user.Position, user.ID)
		if err != nil {
			log.Printf("用户 %d 同行查询失败: %v", user.ID, err)
			continue
		}

		peerStats, err := analyticsRepo.PeerSkillStats(peerIDs)
		if err != nil {
			log.Printf("用户 %d 同行聚合失败: %v", user.ID, err)
			continue
		}
		statBySkill := make(map[uint]repository.PeerSkillStat, len(peerStats))
		for _, stat := range peerStats {
			statBySkill[stat.SkillID] = stat
		}

		scores, err := analyticsRepo.UserSkillScores(user.ID)
		if err != nil {
			log.Printf("用户 %d 得分聚合失败: %v", user.ID, err)
			continue
		}

		for _, row := range scores {
			percentile := 0.0
			if stat, ok := statBySkill[row.SkillID]; ok {
				stdDev := stat.StdDevScore
				if stdDev <= 0 {
					stdDev = engine.DefaultStdDev
				}
				percentile = engine.Percentile(row.ScorePercentage, stat.AvgScore, stdDev)
			}

			if err := analyticsRepo.UpsertSnapshot(&model.SkillAnalytic{
				UserID:              user.ID,
				SkillID:             row.SkillID,
				AverageScore:        row.ScorePercentage,
				AttemptCount:        row.AttemptCount,
				BenchmarkPercentile: percentile,
			}); err != nil {
				log.Printf("用户 %d 技能 %d 快照写入失败: %v", user.ID, row.SkillID, err)
				continue
			}
			updated++
		}
	}

	log.Printf("分析快照重算完成，共更新 %d 条", updated)
}
