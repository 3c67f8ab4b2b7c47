package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/admin/dto"
	studentRepo "anoa.com/unimanage/internal/modules/student/repository"
	studentService "anoa.com/unimanage/internal/modules/student/service"
	userRepo "anoa.com/unimanage/internal/modules/user/repository"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/password"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc      AdminService
	users    userRepo.UserRepository
	students studentRepo.StudentRepository
	revoker  *auth.MemoryRevoker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := userRepo.NewMemoryUserRepository()
	students := studentRepo.NewMemoryStudentRepository()
	revoker := auth.NewMemoryRevoker(auth.DefaultTTL)
	svc := NewAdminService(users, students, studentService.NewStudentService(students), revoker, "")
	return &fixture{svc: svc, users: users, students: students, revoker: revoker}
}

func (f *fixture) pending(t *testing.T, email, requestedRole, institutionalID string) *entity.User {
	t.Helper()
	u := &entity.User{
		Name:            "Applicant " + email,
		Email:           email,
		PasswordHash:    "x",
		Role:            entity.RoleStudent,
		RequestedRole:   requestedRole,
		InstitutionalID: institutionalID,
		Status:          entity.StatusPending,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func claimsFor(userID uuid.UUID, issuedAt time.Time) *auth.Claims {
	return &auth.Claims{
		Role: entity.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
}

func TestApproveTeacherCreatesNoProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "t@uni.edu", entity.RoleTeacher, "")

	res, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
	require.NoError(t, err)

	assert.True(t, res.OK)
	assert.Equal(t, entity.RoleTeacher, res.User.Role)
	assert.Equal(t, entity.StatusApproved, res.User.Status)
	assert.Nil(t, res.Student)

	total, err := f.students.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestApproveStudentLinksProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "s@uni.edu", entity.RoleStudent, "INST-1")

	res, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{Department: "CSE", Semester: 2})
	require.NoError(t, err)
	require.NotNil(t, res.Student)
	assert.Equal(t, "INST-1", res.Student.RegNo)
	assert.Equal(t, "CSE", res.Student.Department)
	assert.Equal(t, 2, res.Student.Semester)

	linked, err := f.students.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Student.ID, linked.ID)
}

func TestApproveRoleOverride(t *testing.T) {
	f := newFixture(t)
	u := f.pending(t, "o@uni.edu", entity.RoleTeacher, "")

	res, err := f.svc.ApproveUser(context.Background(), u.ID, dto.ApproveInput{Role: entity.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, res.User.Role)
	assert.NotNil(t, res.Student)
}

func TestApproveFillsExistingProfileWithoutOverwriting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := &entity.Student{Name: "Roster Name", Email: entity.StringPtr("e@uni.edu"), Department: "EEE", Semester: 6}
	require.NoError(t, f.students.Create(ctx, existing))
	u := f.pending(t, "e@uni.edu", entity.RoleStudent, "")

	res, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{Department: "CSE", Semester: 1, RegNo: "R-42"})
	require.NoError(t, err)

	assert.Equal(t, existing.ID, res.Student.ID)
	assert.Equal(t, "Roster Name", res.Student.Name)
	assert.Equal(t, "EEE", res.Student.Department)
	assert.Equal(t, 6, res.Student.Semester)
	assert.Equal(t, "R-42", res.Student.RegNo)
}

func TestApproveNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ApproveUser(context.Background(), uuid.New(), dto.ApproveInput{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestApproveSurfacesLinkConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := uuid.New()
	require.NoError(t, f.students.Create(ctx, &entity.Student{UserID: &other, Name: "Other", RegNo: entity.StringPtr("R-1")}))
	u := f.pending(t, "c@uni.edu", entity.RoleStudent, "R-1")

	_, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Contains(t, err.Error(), "User approved but student profile could not be linked")

	stored, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Status)
}

func TestRejectAndReapprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "r@uni.edu", entity.RoleTeacher, "")

	require.NoError(t, f.svc.RejectUser(ctx, u.ID, dto.RejectInput{}))
	stored, err := f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRejected, stored.Status)
	assert.Equal(t, entity.DefaultRejectionReason, stored.RejectionReason)

	require.NoError(t, f.svc.RejectUser(ctx, u.ID, dto.RejectInput{Reason: "  Duplicate application "}))
	stored, err = f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Duplicate application", stored.RejectionReason)

	_, err = f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
	require.NoError(t, err)
	stored, err = f.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, stored.Status)
	assert.Empty(t, stored.RejectionReason)
}

func TestRejectNotFound(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.RejectUser(context.Background(), uuid.New(), dto.RejectInput{}), apperror.ErrNotFound)
}

func TestRejectRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "rv@uni.edu", entity.RoleTeacher, "")
	_, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
	require.NoError(t, err)

	issued := time.Now().Add(-time.Minute)
	revoked, err := f.revoker.IsRevoked(ctx, claimsFor(u.ID, issued))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, f.svc.RejectUser(ctx, u.ID, dto.RejectInput{}))

	revoked, err = f.revoker.IsRevoked(ctx, claimsFor(u.ID, issued))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRoleChangeRevokesSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "rc@uni.edu", entity.RoleTeacher, "")
	_, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
	require.NoError(t, err)

	issued := time.Now().Add(-time.Minute)

	_, err = f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{Role: entity.RoleTeacher})
	require.NoError(t, err)
	revoked, err := f.revoker.IsRevoked(ctx, claimsFor(u.ID, issued))
	require.NoError(t, err)
	assert.False(t, revoked, "re-approving with the same role keeps sessions")

	_, err = f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{Role: entity.RoleAdmin})
	require.NoError(t, err)
	revoked, err = f.revoker.IsRevoked(ctx, claimsFor(u.ID, issued))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestListUsersByStatusNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.pending(t, "a@uni.edu", "", "")
	b := f.pending(t, "b@uni.edu", "", "")
	c := f.pending(t, "c@uni.edu", entity.RoleTeacher, "")
	require.NoError(t, f.svc.RejectUser(ctx, b.ID, dto.RejectInput{}))

	pending, err := f.svc.ListUsers(ctx, entity.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, c.ID, pending[0].ID)
	assert.Equal(t, a.ID, pending[1].ID)

	all, err := f.svc.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.svc.ListUsers(ctx, "archived")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestConcurrentApprovalsProduceOneProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "cc@uni.edu", entity.RoleStudent, "R-CC")

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperror.ErrConflict)
		}
	}

	total, err := f.students.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestProvisionFromStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.students.Create(ctx, &entity.Student{Name: "Has Email", Email: entity.StringPtr("he@uni.edu"), RegNo: entity.StringPtr("R-1")}))
	require.NoError(t, f.students.Create(ctx, &entity.Student{Name: "No Email"}))
	require.NoError(t, f.students.Create(ctx, &entity.Student{Name: "Already", Email: entity.StringPtr("already@uni.edu")}))
	f.pending(t, "already@uni.edu", "", "")

	_, err := f.svc.ProvisionFromStudents(ctx, dto.ProvisionInput{})
	require.ErrorIs(t, err, apperror.ErrValidation)

	res, err := f.svc.ProvisionFromStudents(ctx, dto.ProvisionInput{DefaultPassword: "welcome123"})
	require.NoError(t, err)
	require.Equal(t, 1, res.CreatedCount)
	assert.Equal(t, "he@uni.edu", res.Created[0].Email)

	user, err := f.users.FindByEmail(ctx, "he@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, user.Status)
	assert.Equal(t, entity.RoleStudent, user.Role)
	assert.Equal(t, "R-1", user.InstitutionalID)
	ok, err := password.Compare(user.PasswordHash, "welcome123")
	require.NoError(t, err)
	assert.True(t, ok)

	linked, err := f.students.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Has Email", linked.Name)

	again, err := f.svc.ProvisionFromStudents(ctx, dto.ProvisionInput{DefaultPassword: "welcome123"})
	require.NoError(t, err)
	assert.Zero(t, again.CreatedCount)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.pending(t, "st@uni.edu", entity.RoleStudent, "")
	f.pending(t, "st2@uni.edu", entity.RoleStudent, "")
	_, err := f.svc.ApproveUser(ctx, u.ID, dto.ApproveInput{})
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Users[entity.StatusPending])
	assert.EqualValues(t, 1, stats.Users[entity.StatusApproved])
	assert.EqualValues(t, 0, stats.Users[entity.StatusRejected])
	assert.EqualValues(t, 1, stats.Students)
}
