package service

import (
	"context"

	"fitledger/internal/model"
	"fitledger/internal/repository"
)

// SearchUserResult mirrors what the admin credit screen needs. On
// denial or not-found every field stays null/empty — a scoped admin
// learns nothing about users outside their franchise.
type SearchUserResult struct {
	User             *model.User                `json:"user"`
	StudentBalance   *model.StudentClassBalance `json:"studentBalance"`
	ProfessorBalance *model.ProfHourBalance     `json:"professorBalance"`
	Franchises       []string                   `json:"franchises"`
}

// SearchUser resolves a user by email (case-insensitive) and returns
// their balances, gated by the same franchise-scope policy as
// GrantCredit.
func (s *GrantService) SearchUser(ctx context.Context, admin AdminContext, email string) (*SearchUserResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return nil, domainErr(CodeUserNotFound, "Usuário não encontrado para o e-mail informado")
		}
		return nil, err
	}

	associations, err := s.userRepo.ListAssociations(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeForFranchise(admin, user.ID, associations); err != nil {
		return nil, err
	}

	result := &SearchUserResult{User: user}

	studentBalance, err := s.balanceRepo.GetStudentBalance(ctx, user.ID, admin.FranqueadoraID)
	if err != nil && err != repository.ErrBalanceNotFound {
		return nil, err
	}
	result.StudentBalance = studentBalance

	professorBalance, err := s.balanceRepo.GetProfessorBalance(ctx, user.ID, admin.FranqueadoraID)
	if err != nil && err != repository.ErrBalanceNotFound {
		return nil, err
	}
	result.ProfessorBalance = professorBalance

	franchises := make([]string, 0, len(associations))
	seen := make(map[string]struct{}, len(associations))
	for _, assoc := range associations {
		if _, ok := seen[assoc.FranchiseID]; ok {
			continue
		}
		seen[assoc.FranchiseID] = struct{}{}
		franchises = append(franchises, assoc.FranchiseID)
	}
	result.Franchises = franchises

	return result, nil
}
