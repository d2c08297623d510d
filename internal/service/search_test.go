package service

import (
	"context"
	"testing"

	"fitledger/internal/model"

	"github.com/stretchr/testify/require"
)

func TestSearchUserReturnsBalancesAndFranchises(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora@busca.com", model.RoleFranqueadora)
	professor := seedUser(t, db, "Paulo", "paulo@busca.com", model.RoleProfessor)
	seedAssociation(t, db, professor.ID, "franchise-1", model.AssociationTypeTeacher)
	seedAssociation(t, db, professor.ID, "franchise-2", model.AssociationTypeTeacher)
	seedProfessorBalance(t, db, professor.ID, "franq-1", 4.5, 2)

	result, err := svc.SearchUser(context.Background(), grantAdmin(admin.ID, nil), "PAULO@BUSCA.COM")
	require.NoError(t, err)

	require.Equal(t, professor.ID, result.User.ID)
	require.NotNil(t, result.ProfessorBalance)
	require.InDelta(t, 4.5, result.ProfessorBalance.AvailableHours, 1e-9)
	require.InDelta(t, 2, result.ProfessorBalance.LockedHours, 1e-9)
	require.ElementsMatch(t, []string{"franchise-1", "franchise-2"}, result.Franchises)

	// No student balance exists for a professor; stays nil, not zeroed.
	require.Nil(t, result.StudentBalance)
}

func TestSearchUserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora2@busca.com", model.RoleFranqueadora)

	result, err := svc.SearchUser(context.Background(), grantAdmin(admin.ID, nil), "ninguem@busca.com")
	requireDomainCode(t, err, CodeUserNotFound)
	require.Nil(t, result)
}

func TestSearchUserScopedAdminDenied(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	franchiseID := "franchise-1"
	admin := seedUser(t, db, "Gestora", "gestora3@busca.com", model.RoleFranquia)
	student := seedUser(t, db, "Sofia", "sofia@busca.com", model.RoleAluno)
	seedAssociation(t, db, student.ID, "franchise-2", model.AssociationTypeStudent)

	result, err := svc.SearchUser(context.Background(), grantAdmin(admin.ID, &franchiseID), student.Email)
	requireDomainCode(t, err, CodeUnauthorizedFranchise)
	require.Nil(t, result)
}

func TestSearchUserScopedAdminAllowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	franchiseID := "franchise-1"
	admin := seedUser(t, db, "Gestora", "gestora4@busca.com", model.RoleFranquia)
	student := seedUser(t, db, "Sofia", "sofia4@busca.com", model.RoleAluno)
	seedAssociation(t, db, student.ID, franchiseID, model.AssociationTypeStudent)

	result, err := svc.SearchUser(context.Background(), grantAdmin(admin.ID, &franchiseID), student.Email)
	require.NoError(t, err)
	require.Equal(t, student.ID, result.User.ID)
	require.Equal(t, []string{franchiseID}, result.Franchises)
}
