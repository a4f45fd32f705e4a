package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"school-admin/auth"
	"school-admin/database"
	"school-admin/database/dbtest"
	"school-admin/models"
)

const testUserID = "user-1"

func signedIn() context.Context {
	return auth.WithSession(context.Background(), &auth.Session{ID: "session-1", UserID: testUserID, Email: "admin@example.com"})
}

type fixture struct {
	backend  *database.Backend
	classes  *ClassService
	teachers *TeacherService
	students *StudentService
}

func newFixture(t *testing.T) *fixture {
	backend := dbtest.New(t)
	return &fixture{
		backend:  backend,
		classes:  NewClassService(backend),
		teachers: NewTeacherService(backend),
		students: NewStudentService(backend),
	}
}

func (f *fixture) teacher(t *testing.T, name string, active bool) *models.Teacher {
	t.Helper()
	teacher, err := f.teachers.AddTeacher(signedIn(), name, active)
	require.NoError(t, err)
	return teacher
}

func (f *fixture) class(t *testing.T, input models.ClassInput) *models.Class {
	t.Helper()
	class, err := f.classes.AddClass(signedIn(), input)
	require.NoError(t, err)
	return class
}

func (f *fixture) student(t *testing.T, name, surname, phone string) *models.Student {
	t.Helper()
	student, err := f.students.AddStudent(signedIn(), models.StudentInput{Name: name, Surname: surname, Phone: phone})
	require.NoError(t, err)
	return student
}

func strPtr(s string) *string { return &s }
