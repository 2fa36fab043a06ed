package model

// Review is a student's course rating, unique per (course, student).
// Only approved reviews count toward the instructor aggregate.
// swagger:model
type Review struct {
	BaseModel
	CourseID  uint   `gorm:"not null;uniqueIndex:idx_course_student,priority:1" json:"courseId"`
	StudentID uint   `gorm:"not null;uniqueIndex:idx_course_student,priority:2" json:"studentId"`
	Rating    int    `gorm:"not null" json:"rating"` // 1-5 stars
	Comment   string `gorm:"type:text" json:"comment"`
	Approved  bool   `gorm:"default:false" json:"approved"`
}

func (Review) TableName() string {
	return "reviews"
}
