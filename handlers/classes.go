package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"school-admin/filter"
	"school-admin/models"
	"school-admin/services"
)

type ClassHandler struct {
	classes  *services.ClassService
	students *services.StudentService
}

func NewClassHandler(classes *services.ClassService, students *services.StudentService) *ClassHandler {
	return &ClassHandler{classes: classes, students: students}
}

type classListResponse struct {
	Items             []models.Class     `json:"items"`
	Total             int                `json:"total"`
	Filters           filter.ClassFilter `json:"filters"`
	ActiveFilterCount int                `json:"activeFilterCount"`
}

func classFilterFromQuery(r *http.Request) filter.ClassFilter {
	q := r.URL.Query()
	return filter.ClassFilter{
		Search:    strings.TrimSpace(q.Get("search")),
		Level:     models.LanguageLevel(q.Get("level")),
		Day:       q.Get("day"),
		TimeRange: strings.TrimSpace(q.Get("timeRange")),
		Tag:       q.Get("tag"),
		TeacherID: q.Get("teacherId"),
	}
}

// GetClasses lists classes matching the query filters; total counts all classes.
func (h *ClassHandler) GetClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.GetAllClasses(r.Context())
	if err != nil {
		respondError(w, err, "Sınıflar yüklenirken hata oluştu.")
		return
	}

	f := classFilterFromQuery(r)
	writeJSON(w, http.StatusOK, classListResponse{
		Items:             filter.FilterClasses(classes, f),
		Total:             len(classes),
		Filters:           f,
		ActiveFilterCount: f.ActiveCount(),
	})
}

// GetClassOptions returns the values the filter dropdowns offer.
func (h *ClassHandler) GetClassOptions(w http.ResponseWriter, r *http.Request) {
	classes, err := h.classes.GetAllClasses(r.Context())
	if err != nil {
		respondError(w, err, "Sınıflar yüklenirken hata oluştu.")
		return
	}
	writeJSON(w, http.StatusOK, filter.ClassFilterOptions(classes))
}

func (h *ClassHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	detail, err := h.classes.GetClassDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err, "Sınıf yüklenirken hata oluştu.")
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ClassHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	var input models.ClassInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	class, err := h.classes.AddClass(r.Context(), input)
	if err != nil {
		respondError(w, err, "Sınıf eklenirken hata oluştu.")
		return
	}

	log.Printf("➕ Class created: %s (%s)", class.Name, class.ID)
	writeJSON(w, http.StatusCreated, class)
}

func (h *ClassHandler) UpdateClass(w http.ResponseWriter, r *http.Request) {
	var input models.ClassInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	class, err := h.classes.UpdateClass(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		respondError(w, err, "Sınıf güncellenirken hata oluştu.")
		return
	}

	log.Printf("🔄 Class updated: %s (%s)", class.Name, class.ID)
	writeJSON(w, http.StatusOK, class)
}

func (h *ClassHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.classes.DeleteClass(r.Context(), id); err != nil {
		respondError(w, err, "Sınıf silinirken hata oluştu.")
		return
	}

	log.Printf("🗑️ Class deleted: %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClassHandler) GetClassStudents(w http.ResponseWriter, r *http.Request) {
	detail, err := h.classes.GetClassDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err, "Sınıf öğrencileri yüklenirken hata oluştu.")
		return
	}
	writeJSON(w, http.StatusOK, detail.Students)
}

type assignStudentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// AddStudentToClass assigns a student, moving them out of any previous class.
func (h *ClassHandler) AddStudentToClass(w http.ResponseWriter, r *http.Request) {
	var req assignStudentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	classID := mux.Vars(r)["id"]
	if err := h.classes.AssignStudentToClass(r.Context(), req.StudentID, &classID); err != nil {
		respondError(w, err, "Öğrenci sınıfa eklenirken hata oluştu.")
		return
	}

	log.Printf("➕ Student %s assigned to class %s", req.StudentID, classID)
	h.GetClassStudents(w, r)
}

func (h *ClassHandler) RemoveStudentFromClass(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	classID, studentID := vars["id"], vars["studentId"]

	student, err := h.students.GetStudent(r.Context(), studentID)
	if err != nil {
		respondError(w, err, "Öğrenci sınıftan çıkarılırken hata oluştu.")
		return
	}
	if student.ClassID == nil || *student.ClassID != classID {
		writeError(w, "Öğrenci bu sınıfta kayıtlı değil.", http.StatusNotFound)
		return
	}

	if err := h.classes.AssignStudentToClass(r.Context(), studentID, nil); err != nil {
		respondError(w, err, "Öğrenci sınıftan çıkarılırken hata oluştu.")
		return
	}

	log.Printf("🗑️ Student %s removed from class %s", studentID, classID)
	w.WriteHeader(http.StatusNoContent)
}
