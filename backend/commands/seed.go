package commands

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"germanlearn/backend/models"
	"germanlearn/backend/utils"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:embed seeddata/courses.yaml
var sampleCourses []byte

type SeedFile struct {
	Courses []SeedCourse `yaml:"courses"`
}

type SeedCourse struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Level       string       `yaml:"level"`
	Thumbnail   string       `yaml:"thumbnail"`
	Order       int          `yaml:"order"`
	Modules     []SeedModule `yaml:"modules"`
}

type SeedModule struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Order       int          `yaml:"order"`
	Lessons     []SeedLesson `yaml:"lessons"`
}

type SeedLesson struct {
	Title            string           `yaml:"title"`
	LessonType       string           `yaml:"lesson_type"`
	Content          string           `yaml:"content"`
	Order            int              `yaml:"order"`
	EstimatedMinutes int              `yaml:"estimated_minutes"`
	Vocabulary       []SeedVocabulary `yaml:"vocabulary"`
	Exercises        []SeedExercise   `yaml:"exercises"`
}

type SeedVocabulary struct {
	Word          string `yaml:"word"`
	Translation   string `yaml:"translation"`
	Pronunciation string `yaml:"pronunciation"`
	ExampleDE     string `yaml:"example_de"`
	ExampleEN     string `yaml:"example_en"`
}

type SeedExercise struct {
	ExerciseType  string   `yaml:"exercise_type"`
	Question      string   `yaml:"question"`
	CorrectAnswer string   `yaml:"correct_answer"`
	Options       []string `yaml:"options"`
	Explanation   string   `yaml:"explanation"`
	Order         int      `yaml:"order"`
}

// SeedStats counts what a seed run inserted.
type SeedStats struct {
	Courses    int
	Modules    int
	Lessons    int
	Vocabulary int
	Exercises  int
	Skipped    int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample German courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, db, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := utils.AutoMigrate(db); err != nil {
			return err
		}
		file, err := ParseSeed(sampleCourses)
		if err != nil {
			return err
		}
		stats, err := ApplySeed(cmd.Context(), db, file)
		if err != nil {
			return err
		}

		logger.Info("seed finished",
			"courses", stats.Courses,
			"modules", stats.Modules,
			"lessons", stats.Lessons,
			"vocabulary", stats.Vocabulary,
			"exercises", stats.Exercises,
			"skipped_courses", stats.Skipped,
		)
		return nil
	},
}

// ParseSeed decodes and checks a seed document. Enum values are
// validated here so a bad file fails before anything is written.
func ParseSeed(data []byte) (*SeedFile, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	for _, c := range file.Courses {
		if _, ok := models.ParseLevel(c.Level); !ok {
			return nil, fmt.Errorf("course %q: unknown level %q", c.Title, c.Level)
		}
		for _, m := range c.Modules {
			for _, l := range m.Lessons {
				if _, ok := models.ParseLessonType(l.LessonType); !ok {
					return nil, fmt.Errorf("lesson %q: unknown lesson type %q", l.Title, l.LessonType)
				}
				for _, e := range l.Exercises {
					if _, ok := models.ParseExerciseType(e.ExerciseType); !ok {
						return nil, fmt.Errorf("exercise %q: unknown exercise type %q", e.Question, e.ExerciseType)
					}
				}
			}
		}
	}
	return &file, nil
}

// ApplySeed inserts every course whose (title, level) is not present yet.
// Running it twice is a no-op.
func ApplySeed(ctx context.Context, db *gorm.DB, file *SeedFile) (SeedStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var stats SeedStats

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sc := range file.Courses {
			level, _ := models.ParseLevel(sc.Level)

			var existing models.Course
			err := tx.Where("title = ? AND level = ?", sc.Title, level).First(&existing).Error
			if err == nil {
				stats.Skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			course, err := buildCourse(sc, level)
			if err != nil {
				return err
			}
			if err := tx.Create(&course).Error; err != nil {
				return fmt.Errorf("create course %q: %w", sc.Title, err)
			}

			stats.Courses++
			for _, m := range course.Modules {
				stats.Modules++
				for _, l := range m.Lessons {
					stats.Lessons++
					stats.Vocabulary += len(l.Vocabulary)
					stats.Exercises += len(l.Exercises)
				}
			}
		}
		return nil
	})
	return stats, err
}

func buildCourse(sc SeedCourse, level models.Level) (models.Course, error) {
	course := models.Course{
		Title:       sc.Title,
		Description: sc.Description,
		Level:       level,
		Thumbnail:   sc.Thumbnail,
		Order:       sc.Order,
		IsPublished: true,
	}
	for _, sm := range sc.Modules {
		module := models.Module{Title: sm.Title, Description: sm.Description, Order: sm.Order}
		for _, sl := range sm.Lessons {
			lessonType, _ := models.ParseLessonType(sl.LessonType)
			minutes := sl.EstimatedMinutes
			if minutes <= 0 {
				minutes = 15
			}
			lesson := models.Lesson{
				Title:            sl.Title,
				LessonType:       lessonType,
				Content:          sl.Content,
				Order:            sl.Order,
				EstimatedMinutes: minutes,
				IsPublished:      true,
			}
			for _, sv := range sl.Vocabulary {
				lesson.Vocabulary = append(lesson.Vocabulary, models.Vocabulary{
					Word:              sv.Word,
					Translation:       sv.Translation,
					Pronunciation:     sv.Pronunciation,
					ExampleSentenceDE: sv.ExampleDE,
					ExampleSentenceEN: sv.ExampleEN,
				})
			}
			for _, se := range sl.Exercises {
				exerciseType, _ := models.ParseExerciseType(se.ExerciseType)
				exercise := models.Exercise{
					ExerciseType:  exerciseType,
					Question:      se.Question,
					CorrectAnswer: se.CorrectAnswer,
					Explanation:   se.Explanation,
					Order:         se.Order,
				}
				if len(se.Options) > 0 {
					raw, err := json.Marshal(se.Options)
					if err != nil {
						return course, err
					}
					exercise.Options = datatypes.JSON(raw)
				}
				lesson.Exercises = append(lesson.Exercises, exercise)
			}
			module.Lessons = append(module.Lessons, lesson)
		}
		course.Modules = append(course.Modules, module)
	}
	return course, nil
}
