package handlers

import "github.com/gorilla/mux"

type Handlers struct {
	Auth     *AuthHandler
	Classes  *ClassHandler
	Teachers *TeacherHandler
	Students *StudentHandler
	Reports  *ReportHandler
}

// RegisterProtected adds the routes that need a signed-in session. Fixed
// paths are registered before their {id} siblings.
func (h *Handlers) RegisterProtected(api *mux.Router) {
	// Auth
	api.HandleFunc("/auth/me", h.Auth.GetCurrentUser).Methods("GET")
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST")

	// Classes
	api.HandleFunc("/classes", h.Classes.GetClasses).Methods("GET")
	api.HandleFunc("/classes", h.Classes.CreateClass).Methods("POST")
	api.HandleFunc("/classes/options", h.Classes.GetClassOptions).Methods("GET")
	api.HandleFunc("/classes/export.xlsx", h.Reports.ExportClasses).Methods("GET")
	api.HandleFunc("/classes/{id}", h.Classes.GetClass).Methods("GET")
	api.HandleFunc("/classes/{id}", h.Classes.UpdateClass).Methods("PUT", "PATCH")
	api.HandleFunc("/classes/{id}", h.Classes.DeleteClass).Methods("DELETE")
	api.HandleFunc("/classes/{id}/students", h.Classes.GetClassStudents).Methods("GET")
	api.HandleFunc("/classes/{id}/students", h.Classes.AddStudentToClass).Methods("POST")
	api.HandleFunc("/classes/{id}/students/{studentId}", h.Classes.RemoveStudentFromClass).Methods("DELETE")

	// Teachers
	api.HandleFunc("/teachers", h.Teachers.GetTeachers).Methods("GET")
	api.HandleFunc("/teachers", h.Teachers.CreateTeacher).Methods("POST")
	api.HandleFunc("/teachers/active", h.Teachers.GetActiveTeachers).Methods("GET")
	api.HandleFunc("/teachers/{id}", h.Teachers.UpdateTeacher).Methods("PUT", "PATCH")
	api.HandleFunc("/teachers/{id}", h.Teachers.DeleteTeacher).Methods("DELETE")
	api.HandleFunc("/teachers/{id}/toggle-active", h.Teachers.ToggleTeacherActive).Methods("POST")

	// Students
	api.HandleFunc("/students", h.Students.GetStudents).Methods("GET")
	api.HandleFunc("/students", h.Students.CreateStudent).Methods("POST")
	api.HandleFunc("/students/import", h.Reports.ImportStudents).Methods("POST")
	api.HandleFunc("/students/{id}", h.Students.GetStudent).Methods("GET")
	api.HandleFunc("/students/{id}", h.Students.UpdateStudent).Methods("PUT", "PATCH")
	api.HandleFunc("/students/{id}", h.Students.DeleteStudent).Methods("DELETE")
	api.HandleFunc("/students/{id}/notes", h.Students.UpdateNotes).Methods("PUT")
	api.HandleFunc("/students/{id}/quotes", h.Students.CreatePriceQuote).Methods("POST")
	api.HandleFunc("/students/{id}/quotes/{quoteId}/accept", h.Students.AcceptPriceQuote).Methods("POST")
	api.HandleFunc("/students/{id}/quotes/{quoteId}", h.Students.DeletePriceQuote).Methods("DELETE")
	api.HandleFunc("/students/{id}/report.pdf", h.Reports.StudentReport).Methods("GET")
}
