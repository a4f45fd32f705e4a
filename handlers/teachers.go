package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"school-admin/filter"
	"school-admin/models"
	"school-admin/services"
)

type TeacherHandler struct {
	teachers *services.TeacherService
}

func NewTeacherHandler(teachers *services.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

type teacherListResponse struct {
	Items []models.Teacher    `json:"items"`
	Stats models.TeacherStats `json:"stats"`
}

// GetTeachers lists teachers by name; stats always cover the full list.
func (h *TeacherHandler) GetTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teachers.GetAllTeachers(r.Context())
	if err != nil {
		respondError(w, err, "Öğretmenler yüklenirken hata oluştu.")
		return
	}

	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("activeOnly"))
	writeJSON(w, http.StatusOK, teacherListResponse{
		Items: filter.FilterTeachers(teachers, r.URL.Query().Get("search"), activeOnly),
		Stats: filter.TeacherStats(teachers),
	})
}

// GetActiveTeachers feeds the teacher select of the class form.
func (h *TeacherHandler) GetActiveTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teachers.GetActiveTeachers(r.Context())
	if err != nil {
		respondError(w, err, "Öğretmenler yüklenirken hata oluştu.")
		return
	}
	writeJSON(w, http.StatusOK, teachers)
}

func (h *TeacherHandler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var input models.TeacherInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	teacher, err := h.teachers.AddTeacher(r.Context(), input.Name, isActive)
	if err != nil {
		respondError(w, err, "Öğretmen eklenirken hata oluştu.")
		return
	}

	log.Printf("➕ Teacher created: %s (%s)", teacher.Name, teacher.ID)
	writeJSON(w, http.StatusCreated, teacher)
}

func (h *TeacherHandler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	var input models.TeacherInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	id := mux.Vars(r)["id"]
	var isActive bool
	if input.IsActive != nil {
		isActive = *input.IsActive
	} else {
		current, err := h.teachers.GetTeacher(r.Context(), id)
		if err != nil {
			respondError(w, err, "Öğretmen güncellenirken hata oluştu.")
			return
		}
		isActive = current.IsActive
	}

	teacher, err := h.teachers.UpdateTeacher(r.Context(), id, input.Name, isActive)
	if err != nil {
		respondError(w, err, "Öğretmen güncellenirken hata oluştu.")
		return
	}

	log.Printf("🔄 Teacher updated: %s (%s)", teacher.Name, teacher.ID)
	writeJSON(w, http.StatusOK, teacher)
}

func (h *TeacherHandler) ToggleTeacherActive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	current, err := h.teachers.GetTeacher(r.Context(), id)
	if err != nil {
		respondError(w, err, "Öğretmen durumu değiştirilirken hata oluştu.")
		return
	}

	teacher, err := h.teachers.SetTeacherActive(r.Context(), id, !current.IsActive)
	if err != nil {
		respondError(w, err, "Öğretmen durumu değiştirilirken hata oluştu.")
		return
	}

	log.Printf("🔄 Teacher %s active=%t", teacher.ID, teacher.IsActive)
	writeJSON(w, http.StatusOK, teacher)
}

func (h *TeacherHandler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.teachers.DeleteTeacher(r.Context(), id); err != nil {
		respondError(w, err, "Öğretmen silinirken hata oluştu.")
		return
	}

	log.Printf("🗑️ Teacher deleted: %s", id)
	w.WriteHeader(http.StatusNoContent)
}
