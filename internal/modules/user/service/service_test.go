package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/user/dto"
	"anoa.com/unimanage/internal/modules/user/repository"
	"anoa.com/unimanage/pkg/apperror"
	"anoa.com/unimanage/pkg/ratelimiter"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setup(t *testing.T) (AuthService, repository.UserRepository, *auth.TokenIssuer) {
	t.Helper()
	repo := repository.NewMemoryUserRepository()
	issuer, err := auth.NewTokenIssuer(testSecret, "unimanage", auth.DefaultTTL)
	require.NoError(t, err)
	return NewAuthService(repo, issuer, ratelimiter.New(nil), time.Second), repo, issuer
}

func register(t *testing.T, svc AuthService, email, requestedRole string) *dto.RegisterResponse {
	t.Helper()
	res, err := svc.Register(context.Background(), dto.RegisterInput{
		Name:          "Test User",
		Email:         email,
		Password:      "pa55word",
		RequestedRole: requestedRole,
	})
	require.NoError(t, err)
	return res
}

func approve(t *testing.T, repo repository.UserRepository, id uuid.UUID, role string) {
	t.Helper()
	ctx := context.Background()
	user, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	user.Status = entity.StatusApproved
	user.Role = role
	require.NoError(t, repo.Update(ctx, user))
}

func TestRegisterCreatesPendingStudent(t *testing.T) {
	svc, repo, _ := setup(t)

	res := register(t, svc, "  Ada@Uni.EDU ", "teacher")
	assert.Equal(t, "ada@uni.edu", res.Email)
	assert.Equal(t, entity.StatusPending, res.Status)
	assert.Equal(t, dto.RegisteredMessage, res.Message)

	stored, err := repo.FindByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, stored.Role)
	assert.Equal(t, entity.RoleTeacher, stored.RequestedRole)
	assert.NotEqual(t, "pa55word", stored.PasswordHash)
}

func TestRegisterCoercesRequestedRole(t *testing.T) {
	svc, repo, _ := setup(t)

	for _, requested := range []string{"admin", "", "Teacher", "student"} {
		res := register(t, svc, uuid.NewString()+"@uni.edu", requested)
		stored, err := repo.FindByID(context.Background(), res.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.RoleStudent, stored.RequestedRole, requested)
		assert.Equal(t, entity.RoleStudent, stored.Role, requested)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := setup(t)

	cases := []dto.RegisterInput{
		{Email: "a@uni.edu", Password: "x"},
		{Name: "A", Password: "x"},
		{Name: "A", Email: "a@uni.edu"},
		{Name: "   ", Email: "a@uni.edu", Password: "x"},
	}
	for _, in := range cases {
		_, err := svc.Register(context.Background(), in)
		require.ErrorIs(t, err, apperror.ErrValidation)
		assert.Equal(t, "Name, email and password are required", err.Error())
	}
}

func TestRegisterDuplicateEmailIsCaseInsensitive(t *testing.T) {
	svc, _, _ := setup(t)
	register(t, svc, "dup@uni.edu", "")

	_, err := svc.Register(context.Background(), dto.RegisterInput{Name: "B", Email: "DUP@uni.edu", Password: "x"})
	require.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "Email already registered", err.Error())
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	svc, repo, _ := setup(t)

	const workers = 6
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), dto.RegisterInput{Name: "R", Email: "race@uni.edu", Password: "x"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)

	users, err := repo.FindAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestLoginRequiresApproval(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	res := register(t, svc, "pending@uni.edu", "")

	_, err := svc.Login(ctx, dto.LoginInput{Email: "pending@uni.edu", Password: "pa55word"})
	require.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "Account pending approval by admin", err.Error())

	user, err := repo.FindByID(ctx, res.ID)
	require.NoError(t, err)
	user.Status = entity.StatusRejected
	user.RejectionReason = "Unknown applicant"
	require.NoError(t, repo.Update(ctx, user))

	_, err = svc.Login(ctx, dto.LoginInput{Email: "pending@uni.edu", Password: "pa55word"})
	require.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "Login blocked: Unknown applicant", err.Error())
}

func TestLoginCredentialErrorsAreIndistinguishable(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	res := register(t, svc, "known@uni.edu", "")
	approve(t, repo, res.ID, entity.RoleStudent)

	_, unknownErr := svc.Login(ctx, dto.LoginInput{Email: "unknown@uni.edu", Password: "pa55word"})
	_, wrongErr := svc.Login(ctx, dto.LoginInput{Email: "known@uni.edu", Password: "nope"})

	require.ErrorIs(t, unknownErr, apperror.ErrUnauthorized)
	require.ErrorIs(t, wrongErr, apperror.ErrUnauthorized)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, "Invalid credentials", wrongErr.Error())
}

func TestLoginPendingWithWrongPasswordIsUnauthorized(t *testing.T) {
	svc, _, _ := setup(t)
	register(t, svc, "p2@uni.edu", "")

	_, err := svc.Login(context.Background(), dto.LoginInput{Email: "p2@uni.edu", Password: "nope"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, repo, issuer := setup(t)
	res := register(t, svc, "teach@uni.edu", "teacher")
	approve(t, repo, res.ID, entity.RoleTeacher)

	out, err := svc.Login(context.Background(), dto.LoginInput{Email: " TEACH@uni.edu", Password: "pa55word"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", out.TokenType)
	assert.Equal(t, res.ID, out.User.ID)
	assert.Equal(t, entity.RoleTeacher, out.User.Role)

	claims, err := issuer.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ID.String(), claims.Subject)
	assert.Equal(t, entity.RoleTeacher, claims.Role)
	assert.Equal(t, "Test User", claims.Name)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), out.ExpiresAt, time.Minute)
}

func TestLoginValidation(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Login(context.Background(), dto.LoginInput{Email: "a@uni.edu"})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Email and password are required", err.Error())
}

func TestMe(t *testing.T) {
	svc, _, _ := setup(t)
	res := register(t, svc, "me@uni.edu", "teacher")

	me, err := svc.Me(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@uni.edu", me.Email)
	assert.Equal(t, entity.StatusPending, me.Status)
	assert.Equal(t, entity.RoleTeacher, me.RequestedRole)

	_, err = svc.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
