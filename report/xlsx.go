package report

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"school-admin/models"
)

const classesSheet = "Sınıflar"

// RowError describes a spreadsheet row that was skipped during import.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ClassRosterXLSX writes a workbook with a class overview sheet followed by
// one roster sheet per class.
func ClassRosterXLSX(w io.Writer, classes []models.Class, studentsByClass map[string][]models.Student) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), classesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2563EB"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	overview := [][]interface{}{{"Sınıf Adı", "Seviye", "Öğretmen", "Günler", "Saat", "Başlangıç", "Bitiş", "Etiketler", "Öğrenci Sayısı"}}
	for _, c := range classes {
		overview = append(overview, []interface{}{
			c.Name,
			c.Level.Label(),
			c.TeacherName,
			strings.Join(c.Days, ", "),
			c.TimeRange,
			optionalDate(c.StartDate),
			optionalDate(c.EndDate),
			strings.Join(c.Tags, ", "),
			len(studentsByClass[c.ID]),
		})
	}
	if err := writeRows(f, classesSheet, overview, header); err != nil {
		return err
	}
	if err := f.SetColWidth(classesSheet, "A", "I", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	used := map[string]bool{strings.ToLower(classesSheet): true}
	for _, c := range classes {
		sheet := uniqueSheetName(c.Name, used)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		rows := [][]interface{}{{"Ad", "Soyad", "Telefon", "E-posta", "Eğitim Seviyesi", "Durum"}}
		for _, s := range studentsByClass[c.ID] {
			rows = append(rows, []interface{}{s.Name, s.Surname, s.Phone, s.Email, s.EducationLevel.Label(), s.Status.Label()})
		}
		if err := writeRows(f, sheet, rows, header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "F", 18); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	if len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
	}
	return nil
}

// Excel sheet names are limited to 31 characters and a reduced character set,
// may not start or end with an apostrophe, and are compared case-insensitively.
// used is keyed by the lower-cased name.
func uniqueSheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, name)
	clean = strings.Trim(truncateRunes(strings.Trim(clean, " '"), 31), " '")
	if clean == "" {
		clean = "Sınıf"
	}

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = strings.TrimRight(truncateRunes(clean, 31-len([]rune(suffix))), " ") + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max])
	}
	return s
}

func optionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return ShortDate(*t)
}

// StudentRow is a parsed import row with its 1-based sheet row number.
type StudentRow struct {
	Row     int
	Student models.StudentInput
}

// ParseStudentsXLSX reads students from the first sheet of a workbook. The
// first row is a header; columns are name, surname, phone, email and
// education level. Rows without name, surname or phone are reported and skipped.
func ParseStudentsXLSX(r io.Reader) ([]StudentRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	students := []StudentRow{}
	rowErrors := []RowError{}
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}

		input := models.StudentInput{
			Name:           column(row, 0),
			Surname:        column(row, 1),
			Phone:          column(row, 2),
			Email:          column(row, 3),
			EducationLevel: parseEducationLevel(column(row, 4)),
		}

		var missing []string
		if input.Name == "" {
			missing = append(missing, "ad")
		}
		if input.Surname == "" {
			missing = append(missing, "soyad")
		}
		if input.Phone == "" {
			missing = append(missing, "telefon")
		}
		if len(missing) > 0 {
			rowErrors = append(rowErrors, RowError{Row: i + 1, Reason: "eksik alan: " + strings.Join(missing, ", ")})
			continue
		}
		students = append(students, StudentRow{Row: i + 1, Student: input})
	}
	return students, rowErrors, nil
}

func column(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseEducationLevel accepts either the stored code or the display label.
// Unknown values are left empty so the default applies.
func parseEducationLevel(v string) models.EducationLevel {
	for _, level := range []models.EducationLevel{
		models.EducationPrimary,
		models.EducationHighSchool,
		models.EducationUniversity,
		models.EducationAdult,
	} {
		if strings.EqualFold(v, string(level)) || v == level.Label() {
			return level
		}
	}
	return ""
}
