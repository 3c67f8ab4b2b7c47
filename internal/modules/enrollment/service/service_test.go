package service

import (
	"context"
	"sync"
	"testing"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/enrollment/dto"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourses struct {
	courses map[uuid.UUID]*entity.Course
}

func (f *fakeCourses) Create(ctx context.Context, c *entity.Course) error {
	c.ID = uuid.New()
	f.courses[c.ID] = c
	return nil
}
func (f *fakeCourses) Update(ctx context.Context, c *entity.Course) error { return nil }
func (f *fakeCourses) FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, apperror.NotFound("Course not found")
}
func (f *fakeCourses) FindAll(ctx context.Context, department string) ([]*entity.Course, error) {
	return nil, nil
}
func (f *fakeCourses) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type fakeEnrollments struct {
	mu   sync.Mutex
	rows []*entity.Enrollment
}

func (f *fakeEnrollments) Create(ctx context.Context, e *entity.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.StudentID == e.StudentID && row.CourseID == e.CourseID {
			return apperror.Conflict("Student already enrolled in this course")
		}
	}
	e.ID = uuid.New()
	f.rows = append(f.rows, e)
	return nil
}

func (f *fakeEnrollments) FindByID(ctx context.Context, id uuid.UUID) (*entity.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, apperror.NotFound("Enrollment not found")
}

func (f *fakeEnrollments) FindAll(ctx context.Context, studentID *uuid.UUID) ([]*entity.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Enrollment
	for _, row := range f.rows {
		if studentID == nil || row.StudentID == *studentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeEnrollments) UpdateGrade(ctx context.Context, id uuid.UUID, grade string) error {
	row, err := f.FindByID(ctx, id)
	if err != nil {
		return err
	}
	row.Grade = grade
	return nil
}

func (f *fakeEnrollments) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, row := range f.rows {
		if row.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("Enrollment not found")
}

type world struct {
	svc      EnrollmentService
	users    userRepo.UserRepository
	students studentRepo.StudentRepository
	courses  *fakeCourses
}

func newWorld() *world {
	users := userRepo.NewMemoryUserRepository()
	students := studentRepo.NewMemoryStudentRepository()
	courses := &fakeCourses{courses: map[uuid.UUID]*entity.Course{}}
	profiles := studentService.NewCallerProfiles(studentService.NewStudentService(students), users)
	return &world{
		svc:      NewEnrollmentService(&fakeEnrollments{}, students, courses, profiles),
		users:    users,
		students: students,
		courses:  courses,
	}
}

func TestCreateEnrollment(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	student := &entity.Student{Name: "A"}
	require.NoError(t, w.students.Create(ctx, student))
	course := &entity.Course{Code: "CSE101", Title: "Intro", Department: "CSE"}
	require.NoError(t, w.courses.Create(ctx, course))

	req := dto.CreateEnrollmentRequest{StudentID: student.ID.String(), CourseID: course.ID.String()}
	created, err := w.svc.CreateEnrollment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, student.ID, created.StudentID)

	_, err = w.svc.CreateEnrollment(ctx, req)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = w.svc.CreateEnrollment(ctx, dto.CreateEnrollmentRequest{StudentID: uuid.NewString(), CourseID: course.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = w.svc.CreateEnrollment(ctx, dto.CreateEnrollmentRequest{StudentID: student.ID.String(), CourseID: uuid.NewString()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGetEnrollmentsScopesStudents(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	user := &entity.User{Name: "Mine", Email: "mine@uni.edu", PasswordHash: "x", Role: entity.RoleStudent, Status: entity.StatusApproved}
	require.NoError(t, w.users.Create(ctx, user))

	mine := &entity.Student{Name: "Mine", UserID: &user.ID}
	other := &entity.Student{Name: "Other"}
	require.NoError(t, w.students.Create(ctx, mine))
	require.NoError(t, w.students.Create(ctx, other))
	course := &entity.Course{Code: "MTH1", Title: "Calculus", Department: "MTH"}
	require.NoError(t, w.courses.Create(ctx, course))

	for _, st := range []*entity.Student{mine, other} {
		_, err := w.svc.CreateEnrollment(ctx, dto.CreateEnrollmentRequest{StudentID: st.ID.String(), CourseID: course.ID.String()})
		require.NoError(t, err)
	}

	own, err := w.svc.GetEnrollments(ctx, user.ID, entity.RoleStudent)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].StudentID)

	all, err := w.svc.GetEnrollments(ctx, uuid.New(), entity.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetEnrollmentsStudentWithoutProfile(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	user := &entity.User{Name: "Nobody", Email: "nobody@uni.edu", PasswordHash: "x", Role: entity.RoleStudent, Status: entity.StatusApproved}
	require.NoError(t, w.users.Create(ctx, user))

	_, err := w.svc.GetEnrollments(ctx, user.ID, entity.RoleStudent)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateAndDeleteEnrollment(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	student := &entity.Student{Name: "A"}
	require.NoError(t, w.students.Create(ctx, student))
	course := &entity.Course{Code: "PHY1", Title: "Physics", Department: "PHY"}
	require.NoError(t, w.courses.Create(ctx, course))

	created, err := w.svc.CreateEnrollment(ctx, dto.CreateEnrollmentRequest{StudentID: student.ID.String(), CourseID: course.ID.String()})
	require.NoError(t, err)

	updated, err := w.svc.UpdateEnrollment(ctx, created.ID, dto.UpdateEnrollmentRequest{Grade: " A+ "})
	require.NoError(t, err)
	assert.Equal(t, "A+", updated.Grade)

	require.NoError(t, w.svc.DeleteEnrollment(ctx, created.ID))
	assert.ErrorIs(t, w.svc.DeleteEnrollment(ctx, created.ID), apperror.ErrNotFound)
}
