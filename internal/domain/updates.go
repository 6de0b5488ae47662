package domain

// Update structs carry optional fields: nil means "leave unchanged".

type UserUpdate struct {
	Email    *string
	Username *string
	FullName *string
	Password *string
	IsActive *bool
	IsAdmin  *bool
}

type ExerciseUpdate struct {
	Name         *string
	Description  *string
	Type         *ExerciseType
	MuscleGroup  *string
	Equipment    *string
	Instructions *string
	IsActive     *bool
}

// Apply copies the present fields onto e.
func (u ExerciseUpdate) Apply(e *Exercise) {
	if u.Name != nil {
		e.Name = *u.Name
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Type != nil {
		e.Type = *u.Type
	}
	if u.MuscleGroup != nil {
		e.MuscleGroup = *u.MuscleGroup
	}
	if u.Equipment != nil {
		e.Equipment = *u.Equipment
	}
	if u.Instructions != nil {
		e.Instructions = *u.Instructions
	}
	if u.IsActive != nil {
		e.IsActive = *u.IsActive
	}
}

type TemplateUpdate struct {
	Name        *string
	Description *string
	IsPublic    *bool
}

// Apply copies the present fields onto t.
func (u TemplateUpdate) Apply(t *WorkoutTemplate) {
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.IsPublic != nil {
		t.IsPublic = *u.IsPublic
	}
}

type WorkoutUpdate struct {
	Name  *string
	Notes *string
}

// Apply copies the present fields onto w.
func (u WorkoutUpdate) Apply(w *Workout) {
	if u.Name != nil {
		w.Name = u.Name
	}
	if u.Notes != nil {
		w.Notes = *u.Notes
	}
}

type SetUpdate struct {
	SetNumber    *int
	Reps         *int
	Weight       *float64
	Duration     *int
	RestDuration *int
	Completed    *bool
}

// Apply copies the present fields onto s.
func (u SetUpdate) Apply(s *ExerciseSet) {
	if u.SetNumber != nil {
		s.SetNumber = *u.SetNumber
	}
	if u.Reps != nil {
		s.Reps = u.Reps
	}
	if u.Weight != nil {
		s.Weight = u.Weight
	}
	if u.Duration != nil {
		s.Duration = u.Duration
	}
	if u.RestDuration != nil {
		s.RestDuration = u.RestDuration
	}
	if u.Completed != nil {
		s.Completed = *u.Completed
	}
}

// IsEmpty reports whether no field is present.
func (u SetUpdate) IsEmpty() bool {
	return u.SetNumber == nil && u.Reps == nil && u.Weight == nil &&
		u.Duration == nil && u.RestDuration == nil && u.Completed == nil
}
