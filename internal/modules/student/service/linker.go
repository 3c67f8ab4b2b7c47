package service

import (
	"context"
	"errors"

	"anoa.com/unimanage/internal/entity"
	"anoa.com/unimanage/internal/modules/student/dto"
	"anoa.com/unimanage/pkg/apperror"
)

// LinkOrCreate finds the profile belonging to user (already linked, same
// email, or a registration number equal to input.RegNo or the user's
// institutional id) and fills only its missing fields. When nothing matches a
// new profile is created. Uniqueness violations surface as conflicts.
func (s *studentService) LinkOrCreate(ctx context.Context, user *entity.User, input dto.LinkInput) (*entity.Student, error) {
	if input.Semester != 0 && (input.Semester < entity.MinSemester || input.Semester > entity.MaxSemester) {
		return nil, apperror.Validation("Semester must be between 1 and 8")
	}

	match, err := s.findCandidate(ctx, user, input)
	if err != nil {
		return nil, err
	}

	if match == nil {
		return s.createForUser(ctx, user, input)
	}

	if match.UserID != nil && *match.UserID != user.ID {
		return nil, apperror.Conflict("Student profile is linked to another account")
	}

	if !fillMissing(match, user, input) {
		return match, nil
	}
	if err := s.repo.SaveLink(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *studentService) findCandidate(ctx context.Context, user *entity.User, input dto.LinkInput) (*entity.Student, error) {
	lookups := []func() (*entity.Student, error){
		func() (*entity.Student, error) { return s.repo.FindByUserID(ctx, user.ID) },
	}
	if user.Email != "" {
		lookups = append(lookups, func() (*entity.Student, error) { return s.repo.FindByEmail(ctx, user.Email) })
	}
	for _, regNo := range candidateRegNos(input.RegNo, user.InstitutionalID) {
		regNo := regNo
		lookups = append(lookups, func() (*entity.Student, error) { return s.repo.FindByRegNo(ctx, regNo) })
	}

	for _, lookup := range lookups {
		student, err := lookup()
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

func candidateRegNos(values ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func (s *studentService) createForUser(ctx context.Context, user *entity.User, input dto.LinkInput) (*entity.Student, error) {
	regNo := input.RegNo
	if regNo == "" {
		regNo = user.InstitutionalID
	}
	semester := input.Semester
	if semester == 0 {
		semester = entity.MinSemester
	}
	userID := user.ID

	student := &entity.Student{
		UserID:     &userID,
		RegNo:      entity.StringPtr(regNo),
		Name:       user.Name,
		Email:      entity.StringPtr(user.Email),
		Department: input.Department,
		Semester:   semester,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// fillMissing copies values into empty fields of student and reports whether
// anything changed. Present values are never overwritten.
func fillMissing(student *entity.Student, user *entity.User, input dto.LinkInput) bool {
	changed := false

	if student.UserID == nil {
		id := user.ID
		student.UserID = &id
		changed = true
	}
	if student.Email == nil && user.Email != "" {
		student.Email = entity.StringPtr(user.Email)
		changed = true
	}
	if student.Name == "" && user.Name != "" {
		student.Name = user.Name
		changed = true
	}
	if student.RegNo == nil {
		regNo := input.RegNo
		if regNo == "" {
			regNo = user.InstitutionalID
		}
		if regNo != "" {
			student.RegNo = entity.StringPtr(regNo)
			changed = true
		}
	}
	if student.Department == "" && input.Department != "" {
		student.Department = input.Department
		changed = true
	}
	if student.Semester == 0 {
		student.Semester = entity.MinSemester
		if input.Semester != 0 {
			student.Semester = input.Semester
		}
		changed = true
	}

	return changed
}
