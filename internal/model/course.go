package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

// swagger:model
type Category struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Slug        string `gorm:"size:100;unique;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

// swagger:model
type Course struct {
	BaseModel
	Title            string      `gorm:"size:200;not null" json:"title"`
	Slug             string      `gorm:"size:200;unique;not null" json:"slug"`
	ShortDescription string      `gorm:"size:500" json:"shortDescription"`
	Description      string      `gorm:"type:text" json:"description"`
	InstructorID     uint        `gorm:"index;not null" json:"instructorId"`
	Instructor       *User       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	CategoryID       *uint       `gorm:"index" json:"categoryId"`
	Level            CourseLevel `gorm:"size:20;default:'beginner'" json:"level"`
	Thumbnail        string      `gorm:"size:255" json:"thumbnail"`
	IsPublished      bool        `gorm:"default:false" json:"isPublished"`
	Lessons          []Lesson    `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model
type Lesson struct {
	BaseModel
	CourseID  uint   `gorm:"index;not null;uniqueIndex:idx_course_slug,priority:1" json:"courseId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Slug      string `gorm:"size:250;not null;uniqueIndex:idx_course_slug,priority:2" json:"slug"`
	Content   string `gorm:"type:text" json:"content"`
	VideoURL  string `gorm:"size:255" json:"videoUrl"`
	Order     int    `gorm:"not null;default:0" json:"order"`
	IsPreview bool   `gorm:"default:false" json:"isPreview"`
	Quizzes   []Quiz `gorm:"foreignKey:LessonID" json:"quizzes,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonCompletion marks a lesson as explicitly consumed by a student.
// It exists to trigger progress recomputation for lessons without quizzes.
type LessonCompletion struct {
	BaseModel
	StudentID uint `gorm:"not null;uniqueIndex:idx_student_lesson,priority:1" json:"studentId"`
	LessonID  uint `gorm:"not null;uniqueIndex:idx_student_lesson,priority:2" json:"lessonId"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}
