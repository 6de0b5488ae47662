package domain

import "time"

// ExerciseType tells clients which set metrics are meaningful.
type ExerciseType string

const (
	ExerciseTypeWeightBased ExerciseType = "WEIGHT_BASED"
	ExerciseTypeTimeBased   ExerciseType = "TIME_BASED"
)

// Valid reports whether t is one of the known exercise types.
func (t ExerciseType) Valid() bool {
	return t == ExerciseTypeWeightBased || t == ExerciseTypeTimeBased
}

// Exercise represents a single exercise definition in the catalog. It is
// referenced by template and workout rows, never owned by them.
type Exercise struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"size:255;not null;index" json:"name"`
	Description  string       `json:"description,omitempty"`
	Type         ExerciseType `gorm:"column:exercise_type;size:32;not null" json:"exerciseType"`
	MuscleGroup  string       `gorm:"size:100;index" json:"muscleGroup,omitempty"`
	Equipment    string       `gorm:"size:100" json:"equipment,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	MediaKey     string       `gorm:"size:512" json:"-"` // object key of the demo media, if uploaded
	IsActive     bool         `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// HasMedia reports whether a demo media object has been attached.
func (e *Exercise) HasMedia() bool {
	return e.MediaKey != ""
}
