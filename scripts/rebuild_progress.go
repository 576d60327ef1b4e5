// 手动重建所有用户的关卡解锁状态
//
// 在导入新课程或调整关卡顺序后执行：补齐缺失的进度记录，
// 并解锁已完成关卡的下一关。已解锁或已完成的记录不会回退。
//
// 用法: go run scripts/rebuild_progress.go [-config configs/config.yaml]

package main

import (
	"card_quiz_backend/internal/config"
	"card_quiz_backend/internal/repository"
	"card_quiz_backend/internal/service"
	"card_quiz_backend/pkg/database"
	"card_quiz_backend/pkg/logger"
	"flag"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	path := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	progress := service.NewProgressService(repository.NewLevelRepository(db), repository.NewProgressRepository(db))

	allUsers, err := users.FindAll()
	if err != nil {
		log.Fatalf("查询用户失败: %v", err)
	}
	allCourses, err := courses.FindAll()
	if err != nil {
		log.Fatalf("查询课程失败: %v", err)
	}

	total := 0
	for _, c := range allCourses {
		course, err := courses.FindWithLevels(c.ID)
		if err != nil {
			logger.Log.Error("加载课程失败", zap.Uint("courseID", c.ID), zap.Error(err))
			continue
		}
		for _, u := range allUsers {
			n, err := progress.Rebuild(u.ID, course)
			if err != nil {
				logger.Log.Error("重建进度失败",
					zap.Uint("userID", u.ID), zap.Uint("courseID", c.ID), zap.Error(err))
				continue
			}
			total += n
		}
	}

	log.Printf("完成！共更新 %d 条进度记录", total)
}
