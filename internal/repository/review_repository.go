package repository

import (
	"elearn_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(review *model.Review) error {
	return r.DB.Create(review).Error
}

func (r *ReviewRepository) FindByID(tx *gorm.DB, id uint) (*model.Review, error) {
	var review model.Review
	err := tx.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListApprovedByCourse(courseID uint, page, limit int) ([]model.Review, int64, error) {
	query := r.DB.Model(&model.Review{}).
		Where("course_id = ? AND approved = ?", courseID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepository) ListPendingModeration(page, limit int) ([]model.Review, int64, error) {
	query := r.DB.Model(&model.Review{}).Where("approved = ?", false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := query.Order("created_at ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

// ApprovedRatingsByInstructor scans every approved review across the
// instructor's courses. The rating aggregator always recomputes from
// this full set.
func (r *ReviewRepository) ApprovedRatingsByInstructor(tx *gorm.DB, instructorID uint) ([]int, error) {
	var ratings []int
	err := tx.Model(&model.Review{}).
		Joins("JOIN courses ON courses.id = reviews.course_id").
		Where("courses.instructor_id = ? AND reviews.approved = ?", instructorID, true).
		Pluck("reviews.rating", &ratings).Error
	return ratings, err
}

func (r *ReviewRepository) SetApproved(tx *gorm.DB, id uint, approved bool) error {
	return tx.Model(&model.Review{}).Where("id = ?", id).
		Update("approved", approved).Error
}

func (r *ReviewRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.Review{}, id).Error
}
