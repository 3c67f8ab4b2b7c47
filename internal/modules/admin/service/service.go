package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/admin/dto"
	studentDto "anoa.com/unimanage/internal/modules/student/dto"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	userDto "anoa.com/unimanage/internal/modules/user/dto"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/password"
	"github.com/google/uuid"
)

// AdminService drives the approval workflow:
// pending -> approved | rejected, rejected -> approved, approved -> rejected.
type AdminService interface {
	ListUsers(ctx context.Context, status string) ([]userDto.UserSummary, error)
	ApproveUser(ctx context.Context, id uuid.UUID, input dto.ApproveInput) (*dto.ApproveResponse, error)
	RejectUser(ctx context.Context, id uuid.UUID, input dto.RejectInput) error
	ProvisionFromStudents(ctx context.Context, input dto.ProvisionInput) (*dto.ProvisionResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type adminService struct {
	users           userRepo.UserRepository
	students        studentRepo.StudentRepository
	linker          studentService.ProfileLinker
	revoker         auth.SessionRevoker
	defaultPassword string
	now             func() time.Time
}

func NewAdminService(
	users userRepo.UserRepository,
	students studentRepo.StudentRepository,
	linker studentService.ProfileLinker,
	revoker auth.SessionRevoker,
	defaultPassword string,
) AdminService {
	return &adminService{
		users:           users,
		students:        students,
		linker:          linker,
		revoker:         revoker,
		defaultPassword: defaultPassword,
		now:             time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context, status string) ([]userDto.UserSummary, error) {
	if status != "" && !entity.IsValidStatus(status) {
		return nil, apperror.Validation("status must be one of: pending approved rejected")
	}

	users, err := s.users.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}

	out := make([]userDto.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userDto.NewUserSummary(u))
	}
	return out, nil
}

func (s *adminService) ApproveUser(ctx context.Context, id uuid.UUID, input dto.ApproveInput) (*dto.ApproveResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = user.RequestedRole
	}
	if role == "" {
		role = entity.RoleStudent
	}
	if !entity.IsValidRole(role) {
		return nil, apperror.Validation("role must be one of: admin teacher student")
	}

	wasApprovedAs := ""
	if user.Status == entity.StatusApproved {
		wasApprovedAs = user.Role
	}

	user.Role = role
	user.Status = entity.StatusApproved
	user.RejectionReason = ""
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if wasApprovedAs != "" && wasApprovedAs != role {
		s.revokeSessions(ctx, user.ID)
	}

	res := &dto.ApproveResponse{
		OK: true,
		User: dto.ApprovedUser{
			ID:     user.ID,
			Email:  user.Email,
			Role:   user.Role,
			Status: user.Status,
		},
	}

	if role != entity.RoleStudent {
		return res, nil
	}

	student, err := s.linker.LinkOrCreate(ctx, user, studentDto.LinkInput{
		Department: strings.TrimSpace(input.Department),
		Semester:   input.Semester,
		RegNo:      strings.TrimSpace(input.RegNo),
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Err != nil {
			return nil, apperror.Wrap(appErr.Err, "User approved but student profile could not be linked: "+appErr.Error())
		}
		return nil, fmt.Errorf("user %s approved but student profile could not be linked: %w", user.ID, err)
	}

	res.Student = studentDto.NewStudentSummary(student)
	return res, nil
}

func (s *adminService) RejectUser(ctx context.Context, id uuid.UUID, input dto.RejectInput) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = entity.DefaultRejectionReason
	}

	user.Status = entity.StatusRejected
	user.RejectionReason = reason
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.revokeSessions(ctx, user.ID)
	return nil
}

// revokeSessions logs instead of failing: the state change is already stored.
func (s *adminService) revokeSessions(ctx context.Context, userID uuid.UUID) {
	if s.revoker == nil {
		return
	}
	if err := s.revoker.RevokeSessions(ctx, userID, s.now()); err != nil {
		log.Printf("[Admin] failed to revoke sessions of %s: %v", userID, err)
	}
}

func (s *adminService) ProvisionFromStudents(ctx context.Context, input dto.ProvisionInput) (*dto.ProvisionResponse, error) {
	plain := input.DefaultPassword
	if plain == "" {
		plain = s.defaultPassword
	}
	if plain == "" {
		return nil, apperror.Validation("defaultPassword is required")
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	students, err := s.students.FindAllWithEmail(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.ProvisionResponse{Created: []dto.ProvisionedUser{}}
	for _, st := range students {
		email := strings.ToLower(strings.TrimSpace(entity.StringValue(st.Email)))
		if email == "" {
			continue
		}

		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			continue
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}

		name := st.Name
		if name == "" {
			name = email
		}
		user := &entity.User{
			Name:            name,
			Email:           email,
			PasswordHash:    hash,
			Role:            entity.RoleStudent,
			InstitutionalID: entity.StringValue(st.RegNo),
			RequestedRole:   entity.RoleStudent,
			Status:          entity.StatusApproved,
		}
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, apperror.ErrConflict) {
				continue
			}
			return nil, err
		}

		if st.UserID == nil {
			st.UserID = &user.ID
			if err := s.students.SaveLink(ctx, st); err != nil {
				log.Printf("[Admin] provisioned %s but could not link profile %s: %v", email, st.ID, err)
			}
		}

		res.Created = append(res.Created, dto.ProvisionedUser{UserID: user.ID, Email: email, Name: name})
	}

	res.CreatedCount = len(res.Created)
	return res, nil
}

func (s *adminService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	counts, err := s.users.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.students.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{Users: counts, Students: total}, nil
}
