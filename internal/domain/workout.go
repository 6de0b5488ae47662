package domain

import "time"

// Workout is one performed session. CompletedAt stays nil while the workout is
// open and is set exactly once.
type Workout struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"not null;index" json:"userId"`
	User        *User             `gorm:"foreignKey:UserID" json:"-"`
	TemplateID  *uint             `gorm:"index" json:"templateId,omitempty"`
	Template    *WorkoutTemplate  `gorm:"foreignKey:TemplateID" json:"-"`
	Name        *string           `gorm:"size:255" json:"name,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	StartedAt   time.Time         `gorm:"not null;index" json:"startedAt"`
	CompletedAt *time.Time        `gorm:"index" json:"completedAt,omitempty"`
	Exercises   []WorkoutExercise `gorm:"foreignKey:WorkoutID" json:"exercises"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// IsCompleted reports whether the workout has left the open state.
func (w *Workout) IsCompleted() bool {
	return w.CompletedAt != nil
}

// WorkoutExercise places a catalog exercise into a workout.
type WorkoutExercise struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	WorkoutID  uint          `gorm:"not null;index" json:"workoutId"`
	ExerciseID uint          `gorm:"not null;index" json:"exerciseId"`
	Exercise   *Exercise     `gorm:"foreignKey:ExerciseID" json:"exercise,omitempty"`
	OrderIndex int           `gorm:"not null" json:"orderIndex"`
	Notes      string        `json:"notes,omitempty"`
	Sets       []ExerciseSet `gorm:"foreignKey:WorkoutExerciseID" json:"sets"`
}

// ExerciseSet is a single logged set. Metrics are nullable because which ones
// apply depends on the exercise type.
type ExerciseSet struct {
	ID                uint     `gorm:"primaryKey" json:"id"`
	WorkoutExerciseID uint     `gorm:"not null;index" json:"workoutExerciseId"`
	SetNumber         int      `gorm:"not null" json:"setNumber"`
	Reps              *int     `json:"reps,omitempty"`
	Weight            *float64 `json:"weight,omitempty"`
	Duration          *int     `json:"duration,omitempty"`     // seconds
	RestDuration      *int     `json:"restDuration,omitempty"` // seconds
	Completed         bool     `gorm:"not null" json:"completed"`
}

// ProgressionEntry is one past performance of an exercise.
type ProgressionEntry struct {
	WorkoutID uint             `json:"workoutId"`
	Date      time.Time        `json:"date"`
	Sets      []ProgressionSet `json:"sets"`
}

type ProgressionSet struct {
	SetNumber int      `json:"setNumber"`
	Reps      *int     `json:"reps,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
	Completed bool     `json:"completed"`
}
