package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"school-admin/filter"
	"school-admin/models"
	"school-admin/services"
)

type StudentHandler struct {
	students *services.StudentService
}

func NewStudentHandler(students *services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// GetStudents lists students newest first. Query: search, unassigned, classId.
func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unassigned, _ := strconv.ParseBool(q.Get("unassigned"))

	var (
		students []models.Student
		err      error
	)
	switch {
	case unassigned:
		students, err = h.students.GetUnassignedStudents(r.Context())
	case q.Get("classId") != "":
		students, err = h.students.GetStudentsByClass(r.Context(), q.Get("classId"))
	default:
		students, err = h.students.GetAllStudents(r.Context())
	}
	if err != nil {
		respondError(w, err, "Öğrenciler yüklenirken hata oluştu.")
		return
	}

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		students = filter.SearchStudents(students, search)
	}
	if students == nil {
		students = []models.Student{}
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := h.students.GetStudent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err, "Öğrenci yüklenirken hata oluştu.")
		return
	}
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var input models.StudentInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	student, err := h.students.AddStudent(r.Context(), input)
	if err != nil {
		respondError(w, err, "Öğrenci eklenirken hata oluştu.")
		return
	}

	log.Printf("➕ Student created: %s (%s)", student.FullName(), student.ID)
	writeJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	var input models.StudentInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	student, err := h.students.UpdateStudent(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		respondError(w, err, "Öğrenci güncellenirken hata oluştu.")
		return
	}

	log.Printf("🔄 Student updated: %s (%s)", student.FullName(), student.ID)
	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.students.DeleteStudent(r.Context(), id); err != nil {
		respondError(w, err, "Öğrenci silinirken hata oluştu.")
		return
	}

	log.Printf("🗑️ Student deleted: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (h *StudentHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.students.UpdateStudentNotes(r.Context(), id, req.Notes); err != nil {
		respondError(w, err, "Notlar kaydedilirken hata oluştu.")
		return
	}

	log.Printf("📝 Notes updated for student %s", id)
	h.GetStudent(w, r)
}

func (h *StudentHandler) CreatePriceQuote(w http.ResponseWriter, r *http.Request) {
	var input models.PriceQuoteInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	quote, err := h.students.AddPriceQuote(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		respondError(w, err, "Fiyat teklifi eklenirken hata oluştu.")
		return
	}

	log.Printf("➕ Price quote %s added for student %s", quote.ID, quote.StudentID)
	writeJSON(w, http.StatusCreated, quote)
}

func (h *StudentHandler) AcceptPriceQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.students.AcceptPriceQuote(r.Context(), vars["id"], vars["quoteId"]); err != nil {
		respondError(w, err, "Fiyat teklifi kabul edilirken hata oluştu.")
		return
	}

	log.Printf("✅ Price quote %s accepted for student %s", vars["quoteId"], vars["id"])
	h.GetStudent(w, r)
}

func (h *StudentHandler) DeletePriceQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.students.DeletePriceQuote(r.Context(), vars["id"], vars["quoteId"]); err != nil {
		respondError(w, err, "Fiyat teklifi silinirken hata oluştu.")
		return
	}

	log.Printf("🗑️ Price quote %s deleted", vars["quoteId"])
	w.WriteHeader(http.StatusNoContent)
}
