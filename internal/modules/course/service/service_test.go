package service

import (
	"context"
	"testing"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/course/dto"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCourseRepo struct {
	byID map[uuid.UUID]*entity.Course
}

func newFakeRepo() *fakeCourseRepo {
	return &fakeCourseRepo{byID: map[uuid.UUID]*entity.Course{}}
}

func (f *fakeCourseRepo) codeTaken(c *entity.Course) bool {
	for id, other := range f.byID {
		if id != c.ID && other.Code == c.Code {
			return true
		}
	}
	return false
}

func (f *fakeCourseRepo) Create(ctx context.Context, c *entity.Course) error {
	if f.codeTaken(c) {
		return apperror.Conflict("Course code already exists")
	}
	c.ID = uuid.New()
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Update(ctx context.Context, c *entity.Course) error {
	if _, ok := f.byID[c.ID]; !ok {
		return apperror.NotFound("Course not found")
	}
	if f.codeTaken(c) {
		return apperror.Conflict("Course code already exists")
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Course, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("Course not found")
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) FindAll(ctx context.Context, department string) ([]*entity.Course, error) {
	var out []*entity.Course
	for _, c := range f.byID {
		if department == "" || c.Department == department {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return apperror.NotFound("Course not found")
	}
	delete(f.byID, id)
	return nil
}

func TestCreateCourseDefaults(t *testing.T) {
	svc := NewCourseService(newFakeRepo())

	course, err := svc.CreateCourse(context.Background(), dto.CreateCourseRequest{
		Code:       " cse101 ",
		Title:      "Programming",
		Department: "CSE",
	})
	require.NoError(t, err)
	assert.Equal(t, "CSE101", course.Code)
	assert.Equal(t, entity.DefaultCredits, course.Credits)
}

func TestCreateCourseDuplicateCode(t *testing.T) {
	ctx := context.Background()
	svc := NewCourseService(newFakeRepo())

	_, err := svc.CreateCourse(ctx, dto.CreateCourseRequest{Code: "MTH1", Title: "A", Department: "MTH"})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, dto.CreateCourseRequest{Code: "mth1", Title: "B", Department: "MTH"})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestUpdateCourse(t *testing.T) {
	ctx := context.Background()
	svc := NewCourseService(newFakeRepo())

	course, err := svc.CreateCourse(ctx, dto.CreateCourseRequest{Code: "PHY1", Title: "Physics", Department: "PHY"})
	require.NoError(t, err)

	credits := 4
	updated, err := svc.UpdateCourse(ctx, course.ID, dto.UpdateCourseRequest{Credits: &credits})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Credits)
	assert.Equal(t, "Physics", updated.Title)

	blank := "  "
	_, err = svc.UpdateCourse(ctx, course.ID, dto.UpdateCourseRequest{Title: &blank})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.UpdateCourse(ctx, uuid.New(), dto.UpdateCourseRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
