package database

import (
	"card_quiz_backend/internal/config"
	"card_quiz_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
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
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate 建表并在需要时写入示例课程与题目
func Migrate(db *gorm.DB, seed bool) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Unit{},
		&model.Level{},
		&model.UserProgress{},
		&model.KnowledgePoint{},
		&model.Question{},
		&model.UserAnswer{},
	)
	if err != nil {
		return err
	}
	if err := db.SetupJoinTable(&model.Question{}, "KnowledgePoints", &model.QuestionKnowledgePoint{}); err != nil {
		return err
	}

	log.Println("Database migration completed")

	if !seed {
		return nil
	}
	return SeedSampleData(db)
}
