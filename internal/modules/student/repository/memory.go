package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/pkg/apperror"
	"github.com/google/uuid"
)

type memoryStudentRepository struct {
	mu       sync.RWMutex
	students map[uuid.UUID]*entity.Student
}

// NewMemoryStudentRepository returns a StudentRepository held in process
// memory. It enforces the user, regNo and email unique rules of the schema.
func NewMemoryStudentRepository() StudentRepository {
	return &memoryStudentRepository{students: make(map[uuid.UUID]*entity.Student)}
}

func clone(s *entity.Student) *entity.Student {
	out := *s
	if s.UserID != nil {
		id := *s.UserID
		out.UserID = &id
	}
	if s.RegNo != nil {
		v := *s.RegNo
		out.RegNo = &v
	}
	if s.Email != nil {
		v := *s.Email
		out.Email = &v
	}
	return &out
}

func sameOptional(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// violatesUnique must be called with the lock held.
func (r *memoryStudentRepository) violatesUnique(s *entity.Student) bool {
	for id, other := range r.students {
		if id == s.ID {
			continue
		}
		if s.UserID != nil && other.UserID != nil && *s.UserID == *other.UserID {
			return true
		}
		if sameOptional(s.RegNo, other.RegNo) || sameOptional(s.Email, other.Email) {
			return true
		}
	}
	return false
}

func (r *memoryStudentRepository) Create(ctx context.Context, student *entity.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if student.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		student.ID = id
	}
	if r.violatesUnique(student) {
		return apperror.Conflict(msgStudentExists)
	}
	if student.Semester == 0 {
		student.Semester = entity.MinSemester
	}
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now

	r.students[student.ID] = clone(student)
	return nil
}

func (r *memoryStudentRepository) update(student *entity.Student) error {
	existing, ok := r.students[student.ID]
	if !ok {
		return apperror.NotFound(msgStudentNotFound)
	}
	if r.violatesUnique(student) {
		return apperror.Conflict(msgStudentExists)
	}
	stored := clone(student)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now()
	r.students[student.ID] = stored
	return nil
}

func (r *memoryStudentRepository) Update(ctx context.Context, student *entity.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.update(student)
}

func (r *memoryStudentRepository) SaveLink(ctx context.Context, student *entity.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.students[student.ID]
	if !ok {
		return apperror.Conflict(msgLinkedElsewhere)
	}
	if student.UserID != nil && existing.UserID != nil && *existing.UserID != *student.UserID {
		return apperror.Conflict(msgLinkedElsewhere)
	}
	return r.update(student)
}

func (r *memoryStudentRepository) find(match func(*entity.Student) bool) (*entity.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.students {
		if match(s) {
			return clone(s), nil
		}
	}
	return nil, apperror.NotFound(msgStudentNotFound)
}

func (r *memoryStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	return r.find(func(s *entity.Student) bool { return s.ID == id })
}

func (r *memoryStudentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Student, error) {
	return r.find(func(s *entity.Student) bool { return s.UserID != nil && *s.UserID == userID })
}

func (r *memoryStudentRepository) FindByEmail(ctx context.Context, email string) (*entity.Student, error) {
	return r.find(func(s *entity.Student) bool { return s.Email != nil && *s.Email == email })
}

func (r *memoryStudentRepository) FindByRegNo(ctx context.Context, regNo string) (*entity.Student, error) {
	return r.find(func(s *entity.Student) bool { return s.RegNo != nil && *s.RegNo == regNo })
}

func (r *memoryStudentRepository) list(match func(*entity.Student) bool, less func(a, b *entity.Student) bool) []*entity.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.Student
	for _, s := range r.students {
		if match(s) {
			out = append(out, clone(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *memoryStudentRepository) FindAll(ctx context.Context, filter Filter) ([]*entity.Student, error) {
	return r.list(func(s *entity.Student) bool {
		if filter.Department != "" && s.Department != filter.Department {
			return false
		}
		return filter.Semester == 0 || s.Semester == filter.Semester
	}, func(a, b *entity.Student) bool { return a.Name < b.Name }), nil
}

func (r *memoryStudentRepository) FindAllWithEmail(ctx context.Context) ([]*entity.Student, error) {
	return r.list(func(s *entity.Student) bool {
		return s.Email != nil && *s.Email != ""
	}, func(a, b *entity.Student) bool { return a.CreatedAt.Before(b.CreatedAt) }), nil
}

func (r *memoryStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return apperror.NotFound(msgStudentNotFound)
	}
	delete(r.students, id)
	return nil
}

func (r *memoryStudentRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.students)), nil
}
