package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(tx *gorm.DB, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := tx.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *LessonRepository) ListByCourse(tx *gorm.DB, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := tx.Preload("Quizzes").
		Where("course_id = ?", courseID).
		Order(clause.OrderByColumn{Column: clause.Column{Table: "lessons", Name: "order"}}).
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) SlugExistsInCourse(courseID uint, slug string) bool {
	var count int64
	r.DB.Model(&model.Lesson{}).
		Where("course_id = ? AND slug = ?", courseID, slug).
		Count(&count)
	return count > 0
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) CreateCompletion(tx *gorm.DB, completion *model.LessonCompletion) error {
	return tx.Create(completion).Error
}
