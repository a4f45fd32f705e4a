package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"school-admin/config"
	"school-admin/models"
)

func TestNumber(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		950:     "950",
		12500:   "12.500",
		1234.5:  "1.234,5",
		999.99:  "999,99",
		-1500:   "-1.500",
		1000000: "1.000.000",
	}
	for in, want := range cases {
		assert.Equal(t, want, Number(in), "Number(%v)", in)
	}
	assert.Equal(t, "12.500 ₺", Money(12500, "₺"))
}

func TestDates(t *testing.T) {
	at := time.Date(2026, time.October, 8, 14, 5, 0, 0, time.UTC)
	assert.Equal(t, "08.10.2026", ShortDate(at))
	assert.Equal(t, "8 Ekim 2026 14:05", LongDateTime(at))
}

func TestReportFileName(t *testing.T) {
	s := &models.Student{Name: "Ayşe Nur", Surname: "Yılmaz"}
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Ayşe_Nur_Yılmaz_Rapor_02_03_2026.pdf", ReportFileName(s, now))
}

func reportStudent() *models.Student {
	level := models.LevelB11
	return &models.Student{
		ID:                   "s1",
		Name:                 "Çağrı",
		Surname:              "Öztürk",
		Phone:                "0555 111 22 33",
		EducationLevel:       models.EducationUniversity,
		Status:               models.StatusEnrolled,
		ContactType:          models.ContactInPerson,
		Languages:            []string{"İngilizce", "Almanca"},
		InterestedLevels:     []models.LanguageLevel{models.LevelA21, models.LevelB11},
		PlacementTestLevel:   &level,
		PlacementTestTeacher: "Şule Hoca",
		Notes:                "Hafta sonu grubunu tercih ediyor.",
		CreatedAt:            time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC),
		PriceQuotes: []models.PriceQuote{
			{
				CourseLevel:       "B1.1",
				CourseDuration:    "3 ay",
				PaymentType:       models.PaymentInstallment,
				CashPrice:         12000,
				InstallmentPrice:  13500,
				InstallmentCount:  3,
				InstallmentAmount: 4500,
				Discount:          500,
				FinalPrice:        13000,
				Notes:             "Kardeş indirimi",
				IsAccepted:        true,
				CreatedAt:         time.Date(2026, time.January, 16, 10, 0, 0, 0, time.UTC),
			},
			{
				CourseLevel:    "B1.2",
				CourseDuration: "3 ay",
				PaymentType:    models.PaymentCash,
				CashPrice:      12500,
				FinalPrice:     12500,
			},
		},
	}
}

func TestStudentReportPDF(t *testing.T) {
	school := config.SchoolProfile{
		Name:    "Amerikan Kültür Yabancı Dil Kursu",
		Address: "İstiklal Cad. No:1",
		Phone:   "0212 000 00 00",
		Email:   "info@example.com",
	}

	var buf bytes.Buffer
	err := StudentReportPDF(&buf, reportStudent(), school, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestStudentReportPDFWithoutQuotes(t *testing.T) {
	s := reportStudent()
	s.PriceQuotes = nil
	s.PlacementTestLevel = nil
	s.Languages = nil
	s.Notes = ""

	var buf bytes.Buffer
	require.NoError(t, StudentReportPDF(&buf, s, config.SchoolProfile{Name: "Kurs"}, time.Now()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestClassRosterXLSX(t *testing.T) {
	teacherName := "Mehmet"
	classes := []models.Class{
		{ID: "c1", Name: "Sabah Grubu", Level: models.LevelA11, Days: []string{"Pazartesi", "Çarşamba"}, TimeRange: "10:00 - 12:00", TeacherName: teacherName},
		{ID: "c2", Name: "Sabah Grubu", Level: models.LevelB11},
		{ID: "c3", Name: "A/B: karma", Level: models.Level5},
	}
	students := map[string][]models.Student{
		"c1": {
			{Name: "Ali", Surname: "Kaya", Phone: "1", EducationLevel: models.EducationAdult, Status: models.StatusEnrolled},
			{Name: "Ece", Surname: "Demir", Phone: "2", EducationLevel: models.EducationHighSchool, Status: models.StatusNew},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ClassRosterXLSX(&buf, classes, students))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sınıflar", "Sabah Grubu", "Sabah Grubu (2)", "A-B- karma"}, f.GetSheetList())

	count, err := f.GetCellValue("Sınıflar", "I2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	days, err := f.GetCellValue("Sınıflar", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Pazartesi, Çarşamba", days)

	rows, err := f.GetRows("Sabah Grubu")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Ali", "Kaya", "1", "", "Yetişkin", "Kayıtlı"}, rows[1])
}

func studentsWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestClassRosterXLSXSheetNames(t *testing.T) {
	classes := []models.Class{
		{ID: "c1", Name: "Grup a", Level: models.LevelA11},
		{ID: "c2", Name: "GRUP A", Level: models.LevelA12},
		{ID: "c3", Name: "'Sabah Grubu'", Level: models.LevelB11},
		{ID: "c4", Name: "Yetişkin İngilizce Konuşma Grubu Sabah", Level: models.LevelB12},
		{ID: "c5", Name: "Yetişkin İngilizce Konuşma Grubu Akşam", Level: models.LevelB12},
	}
	students := map[string][]models.Student{
		"c1": {{Name: "Ali", Surname: "Bir", Phone: "1"}},
		"c2": {{Name: "Veli", Surname: "Uc", Phone: "2"}, {Name: "Ayse", Surname: "Iki", Phone: "3"}},
		"c3": {{Name: "Can", Surname: "Dort", Phone: "4"}},
		"c4": {{Name: "Ece", Surname: "Bes", Phone: "5"}},
		"c5": {{Name: "Nil", Surname: "Alti", Phone: "6"}},
	}

	var buf bytes.Buffer
	require.NoError(t, ClassRosterXLSX(&buf, classes, students))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Sınıflar",
		"Grup a",
		"GRUP A (2)",
		"Sabah Grubu",
		"Yetişkin İngilizce Konuşma Grub",
		"Yetişkin İngilizce Konuşma (2)",
	}, f.GetSheetList())

	firstNames := func(sheet string) []string {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		names := []string{}
		for _, row := range rows[1:] {
			names = append(names, row[0])
		}
		return names
	}
	assert.Equal(t, []string{"Ali"}, firstNames("Grup a"))
	assert.Equal(t, []string{"Veli", "Ayse"}, firstNames("GRUP A (2)"))
	assert.Equal(t, []string{"Can"}, firstNames("Sabah Grubu"))
	assert.Equal(t, []string{"Ece"}, firstNames("Yetişkin İngilizce Konuşma Grub"))
	assert.Equal(t, []string{"Nil"}, firstNames("Yetişkin İngilizce Konuşma (2)"))
}

func TestParseStudentsXLSX(t *testing.T) {
	buf := studentsWorkbook(t, [][]interface{}{
		{"Ad", "Soyad", "Telefon", "E-posta", "Eğitim"},
		{" Ali ", "Kaya", "0555", "ali@example.com", "Lise"},
		{"Ece", "", "0544", "", ""},
		{},
		{"Can", "Arslan", "0533", "", "universite"},
		{"Deniz", "Ak", "", "", "bilinmiyor"},
	})

	students, rowErrors, err := ParseStudentsXLSX(buf)
	require.NoError(t, err)

	require.Len(t, students, 2)
	assert.Equal(t, 2, students[0].Row)
	assert.Equal(t, "Ali", students[0].Student.Name)
	assert.Equal(t, models.EducationHighSchool, students[0].Student.EducationLevel)
	assert.Equal(t, "ali@example.com", students[0].Student.Email)
	assert.Equal(t, 5, students[1].Row)
	assert.Equal(t, models.EducationUniversity, students[1].Student.EducationLevel)

	require.Len(t, rowErrors, 2)
	assert.Equal(t, RowError{Row: 3, Reason: "eksik alan: soyad"}, rowErrors[0])
	assert.Equal(t, RowError{Row: 6, Reason: "eksik alan: telefon"}, rowErrors[1])
}

func TestParseStudentsXLSXRejectsGarbage(t *testing.T) {
	_, _, err := ParseStudentsXLSX(bytes.NewBufferString("not a workbook"))
	assert.Error(t, err)
}
