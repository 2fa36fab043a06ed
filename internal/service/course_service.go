package service

import (
	"context"
	"elearn_backend/internal/model"
	"elearn_backend/internal/repository"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	courseCacheKeyPrefix = "course:slug:"
	courseCacheTTL       = 10 * time.Minute
)

// CourseService owns course and lesson authoring. Published course pages
// are cached in Redis by slug; every mutation drops the cached entry.
type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	Redis      *redis.Client
	DB         *gorm.DB
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository, rdb *redis.Client, db *gorm.DB) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		Redis:      rdb,
		DB:         db,
	}
}

type CourseCreateRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	ShortDescription string `json:"shortDescription" binding:"max=500"`
	Description      string `json:"description"`
	CategoryID       *uint  `json:"categoryId"`
	Level            string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

type CourseUpdateRequest struct {
	Title            *string `json:"title" binding:"omitempty,max=200"`
	ShortDescription *string `json:"shortDescription" binding:"omitempty,max=500"`
	Description      *string `json:"description"`
	CategoryID       *uint   `json:"categoryId"`
	Level            *string `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

func (s *CourseService) CreateCourse(instructorID uint, req CourseCreateRequest) (*model.Course, error) {
	slug := util.UniqueSlug(util.Slugify(req.Title), s.CourseRepo.SlugExists)

	level := model.Beginner
	if req.Level != "" {
		level = model.CourseLevel(req.Level)
	}

	course := &model.Course{
		Title:            req.Title,
		Slug:             slug,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		InstructorID:     instructorID,
		CategoryID:       req.CategoryID,
		Level:            level,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetCourse loads a course page by slug, trying the Redis cache first.
// Cache failures fall through to the database.
func (s *CourseService) GetCourse(ctx context.Context, slug string) (*model.Course, error) {
	key := courseCacheKeyPrefix + slug

	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, key).Result()
		if err == nil {
			var course model.Course
			if err := json.Unmarshal([]byte(val), &course); err == nil {
				return &course, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("course cache read failed", zap.String("slug", slug), zap.Error(err))
		}
	}

	course, err := s.CourseRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if s.Redis != nil && course.IsPublished {
		if data, err := json.Marshal(course); err == nil {
			if err := s.Redis.Set(ctx, key, data, courseCacheTTL).Err(); err != nil {
				logger.Log.Warn("course cache write failed", zap.String("slug", slug), zap.Error(err))
			}
		}
	}
	return course, nil
}

func (s *CourseService) ListCourses(page, limit int, categoryID uint) ([]model.Course, int64, error) {
	return s.CourseRepo.ListPublished(page, limit, categoryID)
}

func (s *CourseService) ListInstructorCourses(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

func (s *CourseService) UpdateCourse(courseID, instructorID uint, req CourseUpdateRequest) (*model.Course, error) {
	course, err := s.ownedCourse(courseID, instructorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.ShortDescription != nil {
		course.ShortDescription = *req.ShortDescription
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.CategoryID != nil {
		course.CategoryID = req.CategoryID
	}
	if req.Level != nil {
		course.Level = model.CourseLevel(*req.Level)
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCache(course.Slug)
	return course, nil
}

// PublishCourse toggles a course's visibility. Only published courses
// accept enrollments and appear in listings.
func (s *CourseService) PublishCourse(courseID, instructorID uint, published bool) (*model.Course, error) {
	course, err := s.ownedCourse(courseID, instructorID)
	if err != nil {
		return nil, err
	}

	course.IsPublished = published
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCache(course.Slug)
	return course, nil
}

func (s *CourseService) DeleteCourse(courseID, instructorID uint) error {
	course, err := s.ownedCourse(courseID, instructorID)
	if err != nil {
		return err
	}

	if err := s.CourseRepo.Delete(courseID); err != nil {
		return err
	}
	s.invalidateCache(course.Slug)
	return nil
}

type LessonCreateRequest struct {
	Title     string `json:"title" binding:"required,max=200"`
	Content   string `json:"content"`
	VideoURL  string `json:"videoUrl"`
	Order     int    `json:"order"`
	IsPreview bool   `json:"isPreview"`
}

func (s *CourseService) AddLesson(courseID, instructorID uint, req LessonCreateRequest) (*model.Lesson, error) {
	course, err := s.ownedCourse(courseID, instructorID)
	if err != nil {
		return nil, err
	}

	slug := util.UniqueSlug(util.Slugify(req.Title), func(candidate string) bool {
		return s.LessonRepo.SlugExistsInCourse(courseID, candidate)
	})

	lesson := &model.Lesson{
		CourseID:  courseID,
		Title:     req.Title,
		Slug:      slug,
		Content:   req.Content,
		VideoURL:  req.VideoURL,
		Order:     req.Order,
		IsPreview: req.IsPreview,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	s.invalidateCache(course.Slug)
	return lesson, nil
}

type LessonUpdateRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=200"`
	Content   *string `json:"content"`
	VideoURL  *string `json:"videoUrl"`
	Order     *int    `json:"order"`
	IsPreview *bool   `json:"isPreview"`
}

// UpdateLesson edits lesson content. The slug is fixed at creation so
// student bookmarks stay valid.
func (s *CourseService) UpdateLesson(lessonID, instructorID uint, req LessonUpdateRequest) (*model.Lesson, error) {
	lesson, course, err := s.ownedLesson(lessonID, instructorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPreview != nil {
		lesson.IsPreview = *req.IsPreview
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	s.invalidateCache(course.Slug)
	return lesson, nil
}

// DeleteLesson removes a lesson. Enrollment progress is not recomputed
// here; stored percentages never regress when the lesson count shrinks.
func (s *CourseService) DeleteLesson(lessonID, instructorID uint) error {
	_, course, err := s.ownedLesson(lessonID, instructorID)
	if err != nil {
		return err
	}

	if err := s.LessonRepo.Delete(lessonID); err != nil {
		return err
	}
	s.invalidateCache(course.Slug)
	return nil
}

func (s *CourseService) SetThumbnail(courseID, instructorID uint, url string) (*model.Course, error) {
	course, err := s.ownedCourse(courseID, instructorID)
	if err != nil {
		return nil, err
	}

	course.Thumbnail = url
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCache(course.Slug)
	return course, nil
}

func (s *CourseService) ListCategories() ([]model.Category, error) {
	return s.CourseRepo.ListCategories()
}

// ownedCourse loads a course and verifies the caller is its instructor.
func (s *CourseService) ownedCourse(courseID, instructorID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(s.DB, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

// ownedLesson loads a lesson and its course, verifying ownership.
func (s *CourseService) ownedLesson(lessonID, instructorID uint) (*model.Lesson, *model.Course, error) {
	lesson, err := s.LessonRepo.FindByID(s.DB, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrLessonNotFound
		}
		return nil, nil, err
	}
	course, err := s.ownedCourse(lesson.CourseID, instructorID)
	if err != nil {
		return nil, nil, err
	}
	return lesson, course, nil
}

func (s *CourseService) invalidateCache(slug string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), courseCacheKeyPrefix+slug).Err(); err != nil {
		logger.Log.Warn("course cache invalidation failed", zap.String("slug", slug), zap.Error(err))
	}
}
