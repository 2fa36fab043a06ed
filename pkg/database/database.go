package database

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
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
		// duplicate-key errors surface as gorm.ErrDuplicatedKey; the
		// attempt ledger and certificate issuer rely on this.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate creates or updates the schema, including the unique indexes
// guarding enrollment, attempt and certificate invariants.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Course{},
		&model.Lesson{},
		&model.LessonCompletion{},
		&model.Quiz{},
		&model.Question{},
		&model.AnswerChoice{},
		&model.Enrollment{},
		&model.QuizAttempt{},
		&model.Certificate{},
		&model.Review{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	seedDefaults(db)
	return nil
}

func seedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.Category{}).Count(&count)
	if count == 0 {
		defaults := []model.Category{
			{Name: "Programming", Slug: "programming", Description: "Software development and programming languages"},
			{Name: "Data Science", Slug: "data-science", Description: "Statistics, machine learning and analytics"},
			{Name: "Design", Slug: "design", Description: "UI/UX and graphic design"},
			{Name: "Business", Slug: "business", Description: "Management, marketing and entrepreneurship"},
		}
		for _, c := range defaults {
			db.Create(&c)
		}
	}
}
