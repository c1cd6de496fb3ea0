package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/example/studyreview/internal/spaced_repetition"
	"github.com/example/studyreview/pkg/models"
)

// Recorder replays a review at its original time
type Recorder interface {
	RecordReviewAt(ctx context.Context, userID, itemID uuid.UUID, quality spaced_repetition.Quality, now time.Time) (*models.LearningProgress, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	UserColumn       string
	ItemColumn       string
	QualityColumn    string
	ReviewedAtColumn string // RFC 3339 timestamps
	SheetName        string // Excel only
	StartRow         int    // 1-based; rows before it are headers
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		UserColumn:       "A",
		ItemColumn:       "B",
		QualityColumn:    "C",
		ReviewedAtColumn: "D",
		SheetName:        "Sheet1",
		StartRow:         2,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Recorded       int
	Skipped        int
	Errors         []string
}

type reviewRow struct {
	line       int
	userID     uuid.UUID
	itemID     uuid.UUID
	quality    spaced_repetition.Quality
	reviewedAt time.Time
}

// ImportReviews replays a review history file in timestamp order.
// Malformed or rejected rows are reported in the result and skipped.
func ImportReviews(ctx context.Context, recorder Recorder, config ImportConfig) (*ImportResult, error) {
	rows, err := readRows(config)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Errors: make([]string, 0),
	}

	reviews := make([]reviewRow, 0, len(rows))
	for i, row := range rows {
		line := i + 1
		if line < config.StartRow || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		review, err := parseRow(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", line, err))
			continue
		}
		review.line = line
		reviews = append(reviews, review)
	}

	// Ties keep file order
	sort.SliceStable(reviews, func(i, j int) bool {
		return reviews[i].reviewedAt.Before(reviews[j].reviewedAt)
	})

	for _, review := range reviews {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		_, err := recorder.RecordReviewAt(ctx, review.userID, review.itemID, review.quality, review.reviewedAt)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", review.line, err))
			continue
		}
		result.Recorded++
	}

	return result, nil
}

func readRows(config ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		return readCSV(config.FilePath)
	}
	return readExcel(config)
}

func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, config ImportConfig) (reviewRow, error) {
	var review reviewRow

	userID, err := uuid.Parse(cell(row, config.UserColumn))
	if err != nil {
		return review, fmt.Errorf("invalid user id: %w", err)
	}
	itemID, err := uuid.Parse(cell(row, config.ItemColumn))
	if err != nil {
		return review, fmt.Errorf("invalid item id: %w", err)
	}

	q, err := strconv.Atoi(cell(row, config.QualityColumn))
	if err != nil {
		return review, fmt.Errorf("invalid quality: %w", err)
	}
	quality := spaced_repetition.Quality(q)
	if !quality.Valid() {
		return review, fmt.Errorf("%w: %d", spaced_repetition.ErrInvalidQuality, q)
	}

	reviewedAt, err := time.Parse(time.RFC3339, cell(row, config.ReviewedAtColumn))
	if err != nil {
		return review, fmt.Errorf("invalid review time: %w", err)
	}

	review.userID = userID
	review.itemID = itemID
	review.quality = quality
	review.reviewedAt = reviewedAt.UTC()
	return review, nil
}

func cell(row []string, column string) string {
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
