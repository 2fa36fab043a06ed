package service

import (
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/monitoring"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ReviewService owns review submission, moderation and the instructor
// rating aggregate. The aggregate is never adjusted incrementally: every
// change to the approved set triggers a full recompute over the
// instructor's approved reviews.
type ReviewService struct {
	ReviewRepo *repository.ReviewRepository
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
	DB         *gorm.DB
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	courseRepo *repository.CourseRepository,
	userRepo *repository.UserRepository,
	db *gorm.DB,
) *ReviewService {
	return &ReviewService{
		ReviewRepo: reviewRepo,
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
		DB:         db,
	}
}

// SubmitReview records a 1-5 star rating for a course. Reviews start
// unapproved and do not affect the instructor aggregate until a
// moderator approves them.
func (s *ReviewService) SubmitReview(studentID, courseID uint, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", util.ErrInvalidSubmission)
	}

	if _, err := s.CourseRepo.FindByID(s.DB, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	review := &model.Review{
		CourseID:  courseID,
		StudentID: studentID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.ReviewRepo.Create(review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrReviewExists
		}
		return nil, err
	}
	return review, nil
}

// ApproveReview marks a review approved and recomputes the instructor
// aggregate in the same transaction. Approving an already approved
// review is a no-op.
func (s *ReviewService) ApproveReview(reviewID uint) error {
	return s.setApproved(reviewID, true)
}

// UnapproveReview retracts an approval and recomputes the aggregate.
func (s *ReviewService) UnapproveReview(reviewID uint) error {
	return s.setApproved(reviewID, false)
}

func (s *ReviewService) setApproved(reviewID uint, approved bool) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		review, err := s.ReviewRepo.FindByID(tx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrReviewNotFound
			}
			return err
		}
		if review.Approved == approved {
			return nil
		}

		if err := s.ReviewRepo.SetApproved(tx, reviewID, approved); err != nil {
			return err
		}

		course, err := s.CourseRepo.FindByID(tx, review.CourseID)
		if err != nil {
			return err
		}
		return s.recomputeInstructorRating(tx, course.InstructorID)
	})
}

// DeleteReview removes a review. When the review was approved the
// instructor aggregate is recomputed without it.
func (s *ReviewService) DeleteReview(reviewID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		review, err := s.ReviewRepo.FindByID(tx, reviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrReviewNotFound
			}
			return err
		}

		if err := s.ReviewRepo.Delete(tx, reviewID); err != nil {
			return err
		}
		if !review.Approved {
			return nil
		}

		course, err := s.CourseRepo.FindByID(tx, review.CourseID)
		if err != nil {
			return err
		}
		return s.recomputeInstructorRating(tx, course.InstructorID)
	})
}

// RecomputeInstructorRating rebuilds the aggregate from scratch. Exposed
// for admin repair of drifted aggregates.
func (s *ReviewService) RecomputeInstructorRating(instructorID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.recomputeInstructorRating(tx, instructorID)
	})
}

// recomputeInstructorRating overwrites the instructor's rating and
// review count with the mean of all approved ratings, rounded to one
// decimal. No approved reviews yields 0.0 and a zero count.
func (s *ReviewService) recomputeInstructorRating(tx *gorm.DB, instructorID uint) error {
	ratings, err := s.ReviewRepo.ApprovedRatingsByInstructor(tx, instructorID)
	if err != nil {
		return err
	}

	var rating float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		rating = Round1(float64(sum) / float64(len(ratings)))
	}

	if err := s.UserRepo.OverwriteInstructorAggregates(tx, instructorID, rating, len(ratings)); err != nil {
		return err
	}

	monitoring.RatingRecomputations.Inc()
	return nil
}

// ListCourseReviews pages through a course's approved reviews, newest
// first.
func (s *ReviewService) ListCourseReviews(courseID uint, page, limit int) ([]model.Review, int64, error) {
	if _, err := s.CourseRepo.FindByID(s.DB, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, util.ErrCourseNotFound
		}
		return nil, 0, err
	}
	return s.ReviewRepo.ListApprovedByCourse(courseID, page, limit)
}

// ListPendingReviews pages through unapproved reviews for moderation.
func (s *ReviewService) ListPendingReviews(page, limit int) ([]model.Review, int64, error) {
	return s.ReviewRepo.ListPendingModeration(page, limit)
}
