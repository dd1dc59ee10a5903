package contacts

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Celestebz/sendemail/pkg/models"
)

var exportHeader = []string{
	headerName, headerEmail, headerCompany, headerPhone,
	headerGroup, headerNotes, "状态", "创建时间",
}

// ExportCSV writes all contacts as CSV with the Chinese export header.
func ExportCSV(w io.Writer, contacts []*models.Contact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range contacts {
		group := ""
		if c.GroupName != nil {
			group = *c.GroupName
		}
		row := []string{
			c.Name, c.Email, c.Company, c.Phone,
			group, c.Notes, c.Status,
			c.CreatedAt.Format(time.DateTime),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// BuildImportTemplate produces an XLSX workbook with the import header
// prefilled plus one example row.
func BuildImportTemplate() (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []string{
		headerName, headerEmail, headerCompany,
		headerPhone, headerGroup, headerNotes,
	}
	example := []string{
		"张三", "zhangsan@example.com", "示例公司",
		"13800000000", "潜在客户", "示例备注",
	}
	for i, rows := range [][]string{header, example} {
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, start, &rows); err != nil {
			return nil, fmt.Errorf("failed to write template row: %w", err)
		}
	}
	return f, nil
}
