package domain

import "time"

// WorkoutTemplate is a reusable blueprint owned by its creator. Exercises are
// loaded ordered by OrderIndex.
type WorkoutTemplate struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	Name        string             `gorm:"size:255;not null" json:"name"`
	Description string             `json:"description,omitempty"`
	CreatedBy   uint               `gorm:"not null;index" json:"createdBy"`
	Creator     *User              `gorm:"foreignKey:CreatedBy" json:"-"`
	IsPublic    bool               `gorm:"not null" json:"isPublic"`
	Exercises   []TemplateExercise `gorm:"foreignKey:TemplateID" json:"exercises"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// VisibleTo reports whether a non-admin user may read the template.
func (t *WorkoutTemplate) VisibleTo(userID uint) bool {
	return t.IsPublic || t.CreatedBy == userID
}

// TemplateExercise is one suggested exercise within a template.
type TemplateExercise struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TemplateID        uint      `gorm:"not null;index" json:"templateId"`
	ExerciseID        uint      `gorm:"not null;index" json:"exerciseId"`
	Exercise          *Exercise `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
	OrderIndex        int       `gorm:"not null" json:"orderIndex"`
	SuggestedSets     *int      `json:"suggestedSets,omitempty"`
	SuggestedReps     *int      `json:"suggestedReps,omitempty"`
	SuggestedWeight   *float64  `json:"suggestedWeight,omitempty"`
	SuggestedDuration *int      `json:"suggestedDuration,omitempty"` // seconds
}

func (TemplateExercise) TableName() string {
	return "workout_template_exercises"
}

// SetCount is the number of sets a workout created from this row starts with.
func (te *TemplateExercise) SetCount() int {
	if te.SuggestedSets == nil || *te.SuggestedSets < 1 {
		return 1
	}
	return *te.SuggestedSets
}
