package commands

import (
	"context"
	"errors"
	"fmt"
	"germanlearn/backend/models"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Spreadsheet columns, left to right.
const (
	colWord = iota
	colTranslation
	colPronunciation
	colExampleDE
	colExampleEN
)

type ImportResult struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

var importVocabularyCmd = &cobra.Command{
	Use:   "import-vocabulary",
	Short: "Import vocabulary for a lesson from an Excel sheet",
	Long: `Reads word, translation, pronunciation, example_de and example_en from
columns A to E of the first sheet (or --sheet). A header row whose first cell
is "word" is skipped. Words already in the lesson are updated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lessonID, _ := cmd.Flags().GetUint("lesson")
		path, _ := cmd.Flags().GetString("file")
		sheet, _ := cmd.Flags().GetString("sheet")

		_, logger, db, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		result, err := ImportVocabulary(cmd.Context(), db, lessonID, path, sheet)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			logger.Warn("row skipped", "reason", e)
		}
		logger.Info("vocabulary imported",
			"lesson_id", lessonID,
			"processed", result.TotalProcessed,
			"created", result.Created,
			"updated", result.Updated,
			"skipped", result.Skipped,
		)
		return nil
	},
}

func init() {
	importVocabularyCmd.Flags().Uint("lesson", 0, "Lesson ID to attach the words to")
	importVocabularyCmd.Flags().String("file", "", "Path to the .xlsx file")
	importVocabularyCmd.Flags().String("sheet", "", "Sheet name (default: first sheet)")
	_ = importVocabularyCmd.MarkFlagRequired("lesson")
	_ = importVocabularyCmd.MarkFlagRequired("file")
}

// ImportVocabulary loads words from an xlsx file into one lesson.
func ImportVocabulary(ctx context.Context, db *gorm.DB, lessonID uint, path, sheet string) (*ImportResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	db = db.WithContext(ctx)

	var lesson models.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lesson %d not found", lessonID)
		}
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 && strings.EqualFold(strings.TrimSpace(cell(row, colWord)), "word") {
			continue
		}
		if isBlankRow(row) {
			continue
		}
		result.TotalProcessed++

		word := strings.TrimSpace(cell(row, colWord))
		translation := strings.TrimSpace(cell(row, colTranslation))
		if word == "" || translation == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: word and translation are required", i+1))
			continue
		}

		vocab := models.Vocabulary{
			LessonID:          lesson.ID,
			Word:              word,
			Translation:       translation,
			Pronunciation:     strings.TrimSpace(cell(row, colPronunciation)),
			ExampleSentenceDE: strings.TrimSpace(cell(row, colExampleDE)),
			ExampleSentenceEN: strings.TrimSpace(cell(row, colExampleEN)),
		}

		var existing models.Vocabulary
		err := db.Where("lesson_id = ? AND word = ?", lesson.ID, word).First(&existing).Error
		switch {
		case err == nil:
			vocab.ID = existing.ID
			vocab.CreatedAt = existing.CreatedAt
			if err := db.Save(&vocab).Error; err != nil {
				return result, fmt.Errorf("row %d: %w", i+1, err)
			}
			result.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&vocab).Error; err != nil {
				return result, fmt.Errorf("row %d: %w", i+1, err)
			}
			result.Created++
		default:
			return result, err
		}
	}
	return result, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
