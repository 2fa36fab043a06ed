package model

type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	FreeText       QuestionType = "text"
)

// swagger:model
type Quiz struct {
	BaseModel
	LessonID     uint       `gorm:"index;not null" json:"lessonId"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	PassingScore int        `gorm:"not null;default:70" json:"passingScore"` // percentage 0-100
	Questions    []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model
type Question struct {
	BaseModel
	QuizID  uint           `gorm:"index;not null" json:"quizId"`
	Text    string         `gorm:"type:text;not null" json:"text"`
	Type    QuestionType   `gorm:"size:10;default:'mcq'" json:"type"`
	Order   int            `gorm:"not null;default:0" json:"order"`
	Choices []AnswerChoice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model
type AnswerChoice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (AnswerChoice) TableName() string {
	return "answer_choices"
}
