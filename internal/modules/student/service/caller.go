package service

import (
	"context"

	"anoa.com/unimanage/internal/entity"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"github.com/google/uuid"
)

// CallerProfiles resolves the student profile of an authenticated user:
// the linked profile first, then an unlinked one with the user's email.
type CallerProfiles interface {
	ProfileOf(ctx context.Context, userID uuid.UUID) (*entity.Student, error)
}

type callerProfiles struct {
	students StudentService
	users    userRepo.UserRepository
}

func NewCallerProfiles(students StudentService, users userRepo.UserRepository) CallerProfiles {
	return &callerProfiles{students: students, users: users}
}

func (p *callerProfiles) ProfileOf(ctx context.Context, userID uuid.UUID) (*entity.Student, error) {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.students.GetStudentForUser(ctx, user.ID, user.Email)
}
