package handlers

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"log"
	"mime"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"school-admin/config"
	"school-admin/filter"
	"school-admin/models"
	"school-admin/report"
	"school-admin/services"
	"school-admin/telemetry"
)

const (
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	maxImportBytes = 10 << 20
)

type ReportHandler struct {
	classes  *services.ClassService
	students *services.StudentService
	school   config.SchoolProfile
	now      func() time.Time
}

func NewReportHandler(classes *services.ClassService, students *services.StudentService, school config.SchoolProfile) *ReportHandler {
	return &ReportHandler{classes: classes, students: students, school: school, now: time.Now}
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("❌ Error writing %s: %v", filename, err)
	}
}

// StudentReport renders the student's PDF report.
func (h *ReportHandler) StudentReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Tracer().Start(r.Context(), "report.student_pdf")
	defer span.End()

	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("student.id", id))

	student, err := h.students.GetStudent(ctx, id)
	if err != nil {
		span.RecordError(err)
		respondError(w, err, "PDF oluşturulurken hata oluştu.")
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := report.StudentReportPDF(&buf, student, h.school, now); err != nil {
		span.RecordError(err)
		respondError(w, err, "PDF oluşturulurken hata oluştu.")
		return
	}

	log.Printf("📄 Report generated for student %s", student.ID)
	writeAttachment(w, contentTypePDF, report.ReportFileName(student, now), buf.Bytes())
}

// ExportClasses downloads all classes and their rosters as a workbook.
func (h *ReportHandler) ExportClasses(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Tracer().Start(r.Context(), "report.class_roster_xlsx")
	defer span.End()

	classes, err := h.classes.GetAllClasses(ctx)
	if err != nil {
		span.RecordError(err)
		respondError(w, err, "Sınıf listesi dışa aktarılırken hata oluştu.")
		return
	}
	students, err := h.students.GetAllStudents(ctx)
	if err != nil {
		span.RecordError(err)
		respondError(w, err, "Sınıf listesi dışa aktarılırken hata oluştu.")
		return
	}
	span.SetAttributes(attribute.Int("classes.count", len(classes)))

	var buf bytes.Buffer
	if err := report.ClassRosterXLSX(&buf, classes, filter.StudentsByClass(students)); err != nil {
		span.RecordError(err)
		respondError(w, err, "Sınıf listesi dışa aktarılırken hata oluştu.")
		return
	}

	filename := fmt.Sprintf("Siniflar_%s.xlsx", h.now().Format("02_01_2006"))
	writeAttachment(w, contentTypeXLSX, filename, buf.Bytes())
}

type importResponse struct {
	Imported int               `json:"imported"`
	Skipped  []report.RowError `json:"skipped"`
}

// ImportStudents reads the "file" field of a multipart upload.
func (h *ReportHandler) ImportStudents(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.Tracer().Start(r.Context(), "report.import_students")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		log.Printf("❌ Error parsing upload: %v", err)
		writeError(w, "Dosya yüklenemedi.", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("❌ No file in upload: %v", err)
		writeError(w, "Lütfen bir Excel dosyası seçin.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, rowErrors, err := report.ParseStudentsXLSX(file)
	if err != nil {
		log.Printf("❌ Error reading %s: %v", header.Filename, err)
		writeError(w, "Excel dosyası okunamadı.", http.StatusBadRequest)
		return
	}
	inputs, invalid := validateImportRows(rows)
	rowErrors = append(rowErrors, invalid...)
	slices.SortFunc(rowErrors, func(a, b report.RowError) int { return cmp.Compare(a.Row, b.Row) })

	imported, err := h.students.ImportStudents(ctx, inputs)
	if err != nil {
		span.RecordError(err)
		respondError(w, err, "Öğrenciler içe aktarılırken hata oluştu.")
		return
	}
	span.SetAttributes(attribute.Int("students.imported", imported), attribute.Int("students.skipped", len(rowErrors)))

	log.Printf("📥 Imported %d students from %s (%d rows skipped)", imported, header.Filename, len(rowErrors))
	writeJSON(w, http.StatusOK, importResponse{Imported: imported, Skipped: rowErrors})
}

// importColumns names the sheet columns in row error messages.
var importColumns = map[string]string{
	"name":           "ad",
	"surname":        "soyad",
	"phone":          "telefon",
	"email":          "e-posta",
	"educationLevel": "eğitim seviyesi",
}

// validateImportRows applies the same validation as the student form and
// splits the rows into insertable inputs and row errors.
func validateImportRows(rows []report.StudentRow) ([]models.StudentInput, []report.RowError) {
	inputs := make([]models.StudentInput, 0, len(rows))
	var rowErrors []report.RowError
	for _, row := range rows {
		err := validate.Struct(row.Student)
		if err == nil {
			inputs = append(inputs, row.Student)
			continue
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			log.Printf("❌ Error validating import row %d: %v", row.Row, err)
			rowErrors = append(rowErrors, report.RowError{Row: row.Row, Reason: "geçersiz satır"})
			continue
		}
		columns := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			name := fieldPath(fe)
			if label, ok := importColumns[name]; ok {
				name = label
			}
			columns = append(columns, name)
		}
		rowErrors = append(rowErrors, report.RowError{Row: row.Row, Reason: "geçersiz alan: " + strings.Join(columns, ", ")})
	}
	return inputs, rowErrors
}
