package contacts

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Celestebz/sendemail/internal/database"
	"github.com/Celestebz/sendemail/pkg/models"
)

// Accepted import headers. Either 姓名+邮箱 or 名字+姓氏+邮箱 must be
// present; the remaining columns are optional.
const (
	headerName      = "姓名"
	headerFirstName = "名字"
	headerLastName  = "姓氏"
	headerEmail     = "邮箱"
	headerCompany   = "公司"
	headerPhone     = "电话"
	headerGroup     = "分组"
	headerNotes     = "备注"
)

// ErrInvalidHeader rejects an import whose header row matches neither
// accepted schema.
var ErrInvalidHeader = errors.New(`导入文件缺少必填表头："姓名"和"邮箱"，或"名字"、"姓氏"和"邮箱"`)

// ImportResult aggregates an import run. Row errors reference the
// 1-indexed data row (header excluded).
type ImportResult struct {
	SuccessCount int      `json:"successCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
}

// Store is the subset of the database the importer needs.
type Store interface {
	CreateContact(ctx context.Context, contact *models.Contact) error
	GetGroupByName(ctx context.Context, name string) (*models.Group, error)
	CreateGroup(ctx context.Context, group *models.Group) error
}

// Importer reconciles tabular contact data against the store.
type Importer struct {
	store  Store
	logger *slog.Logger
}

// NewImporter creates an importer
func NewImporter(store Store, logger *slog.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportFile parses a CSV or XLSX file and imports its rows. The caller
// owns cleanup of the file.
func (im *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	return im.ImportRows(ctx, rows)
}

// ImportRows imports tabular rows, the first of which must be the header.
// Row failures are collected, not fatal: a blank row is skipped, a row with
// only one of name/email filled or with an email already on file is
// reported and the run continues. Groups named in the 分组 column are
// auto-created.
func (im *Importer) ImportRows(ctx context.Context, rows [][]string) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, ErrInvalidHeader
	}

	cols := headerIndex(rows[0])
	_, hasName := cols[headerName]
	_, hasFirst := cols[headerFirstName]
	_, hasLast := cols[headerLastName]
	_, hasEmail := cols[headerEmail]
	if !hasEmail || (!hasName && !(hasFirst && hasLast)) {
		return nil, ErrInvalidHeader
	}

	result := &ImportResult{Errors: []string{}}
	for i, row := range rows[1:] {
		rowNum := i + 1

		name, first, last := NormalizeName(
			cell(row, cols, headerName),
			cell(row, cols, headerFirstName),
			cell(row, cols, headerLastName),
		)
		email := cell(row, cols, headerEmail)

		if name == "" && email == "" {
			continue // blank row
		}
		if name == "" || email == "" {
			result.fail(fmt.Sprintf("行 %d: 姓名和邮箱为必填字段", rowNum))
			continue
		}

		groupID, err := im.resolveGroup(ctx, cell(row, cols, headerGroup))
		if err != nil {
			result.fail(fmt.Sprintf("行 %d: %v", rowNum, err))
			continue
		}

		contact := &models.Contact{
			Name:      name,
			FirstName: first,
			LastName:  last,
			Email:     email,
			Company:   cell(row, cols, headerCompany),
			Phone:     cell(row, cols, headerPhone),
			GroupID:   groupID,
			Notes:     cell(row, cols, headerNotes),
			Status:    models.ContactStatusActive,
		}
		if err := im.store.CreateContact(ctx, contact); err != nil {
			if errors.Is(err, database.ErrAlreadyExists) {
				result.fail(fmt.Sprintf("行 %d: 邮箱 %s 已存在", rowNum, email))
			} else {
				result.fail(fmt.Sprintf("行 %d: %v", rowNum, err))
			}
			continue
		}
		result.SuccessCount++
	}

	im.logger.Info("contact import finished",
		"success", result.SuccessCount, "errors", result.ErrorCount)
	return result, nil
}

// resolveGroup maps a group name to its id, creating the group when it does
// not yet exist. An empty name means ungrouped.
func (im *Importer) resolveGroup(ctx context.Context, name string) (*int64, error) {
	if name == "" {
		return nil, nil
	}
	group, err := im.store.GetGroupByName(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		group = &models.Group{Name: name}
		if cerr := im.store.CreateGroup(ctx, group); cerr != nil {
			if errors.Is(cerr, database.ErrAlreadyExists) {
				// Lost a create race; the group exists now.
				return im.resolveGroup(ctx, name)
			}
			return nil, cerr
		}
		return &group.ID, nil
	}
	if err != nil {
		return nil, err
	}
	return &group.ID, nil
}

func (r *ImportResult) fail(msg string) {
	r.ErrorCount++
	r.Errors = append(r.Errors, msg)
}

// headerIndex maps trimmed header cells to their column positions. A UTF-8
// BOM on the first cell is stripped.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF"))
		if h != "" {
			cols[h] = i
		}
	}
	return cols
}

func cell(row []string, cols map[string]int, header string) string {
	i, ok := cols[header]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// readRows loads tabular data from a CSV or spreadsheet file, chosen by
// extension.
func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open import file: %w", err)
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		rows, err := r.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		return rows, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}
