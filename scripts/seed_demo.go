// Seeds a demo data set: one instructor, two students, a published
// course with lessons and quizzes.
//
// Intended for local development and first deployments. Running it twice
// is safe; existing rows are left untouched.
//
// Usage: go run scripts/seed_demo.go

package main

import (
	"elearn_backend/internal/config"
	"elearn_backend/internal/model"
	"elearn_backend/pkg/database"
	"elearn_backend/pkg/logger"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("Seeding demo data...")

	instructor := seedUser(db, "Ada Mentor", "instructor@elearn.example.com", model.Instructor)
	seedUser(db, "Sam Student", "student1@elearn.example.com", model.Student)
	seedUser(db, "Kim Learner", "student2@elearn.example.com", model.Student)

	seedCourse(db, instructor)

	log.Println("Done.")
}

func seedUser(db *gorm.DB, name, email string, role model.UserRole) *model.User {
	var user model.User
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		return &user
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hashing password: %v", err)
	}

	user = model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("creating user %s: %v", email, err)
	}
	return &user
}

func seedCourse(db *gorm.DB, instructor *model.User) {
	var existing model.Course
	if err := db.Where("slug = ?", "intro-to-go").First(&existing).Error; err == nil {
		return
	}

	course := model.Course{
		Title:            "Intro to Go",
		Slug:             "intro-to-go",
		ShortDescription: "A hands-on introduction to the Go programming language.",
		Description:      "Syntax, tooling, concurrency and testing, taught through small projects.",
		InstructorID:     instructor.ID,
		Level:            model.Beginner,
		IsPublished:      true,
		Lessons: []model.Lesson{
			{
				Title: "Getting Started",
				Slug:  "getting-started",
				Order: 1,
				Quizzes: []model.Quiz{
					{
						Title:        "Basics check",
						PassingScore: 70,
						Questions: []model.Question{
							{
								Text:  "Which keyword declares a function?",
								Type:  model.MultipleChoice,
								Order: 1,
								Choices: []model.AnswerChoice{
									{Text: "func", IsCorrect: true},
									{Text: "def"},
									{Text: "fn"},
								},
							},
							{
								Text:  "Which command builds a module?",
								Type:  model.MultipleChoice,
								Order: 2,
								Choices: []model.AnswerChoice{
									{Text: "go build", IsCorrect: true},
									{Text: "go compile"},
								},
							},
						},
					},
				},
			},
			{
				Title: "Concurrency",
				Slug:  "concurrency",
				Order: 2,
			},
		},
	}

	if err := db.Create(&course).Error; err != nil {
		log.Fatalf("creating demo course: %v", err)
	}
}
