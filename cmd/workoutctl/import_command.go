package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"
)

// catalogFile is the on-disk shape accepted by import-exercises.
type catalogFile struct {
	Exercises []catalogEntry `yaml:"exercises"`
}

type catalogEntry struct {
	Name         string `yaml:"name"`
	Type         string `yaml:"type"`
	Description  string `yaml:"description"`
	MuscleGroup  string `yaml:"muscleGroup"`
	Equipment    string `yaml:"equipment"`
	Instructions string `yaml:"instructions"`
	Active       *bool  `yaml:"active"` // defaults to true
}

func (e catalogEntry) toInput() service.CreateExerciseInput {
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	exerciseType := domain.ExerciseType(strings.ToUpper(strings.TrimSpace(e.Type)))
	if exerciseType == "" {
		exerciseType = domain.ExerciseTypeWeightBased
	}
	return service.CreateExerciseInput{
		Name:         strings.TrimSpace(e.Name),
		Description:  e.Description,
		Type:         exerciseType,
		MuscleGroup:  strings.TrimSpace(e.MuscleGroup),
		Equipment:    strings.TrimSpace(e.Equipment),
		Instructions: e.Instructions,
		IsActive:     active,
	}
}

func parseCatalog(r io.Reader) ([]service.CreateExerciseInput, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Exercises) == 0 {
		return nil, errors.New("catalog has no exercises")
	}
	inputs := make([]service.CreateExerciseInput, 0, len(file.Exercises))
	for _, entry := range file.Exercises {
		inputs = append(inputs, entry.toInput())
	}
	return inputs, nil
}

func newImportExercisesCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import-exercises",
		Short: "Create or update catalog exercises from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read catalog: %w", err)
			}
			entries, err := parseCatalog(bytes.NewReader(raw))
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer ctx.close()
			result, err := service.NewExerciseService(store, nil).ImportCatalog(cmd.Context(), entries)
			if err != nil {
				return fmt.Errorf("import catalog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d exercises: %d created, %d updated\n",
				len(entries), result.Created, result.Updated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
