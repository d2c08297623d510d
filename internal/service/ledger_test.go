package service

import (
	"context"
	"testing"

	"fitledger/internal/model"

	"github.com/stretchr/testify/require"
)

func TestLedgerEmptyBalanceWhenNoneExists(t *testing.T) {
	db := newTestDB(t)
	svc := NewLedgerService(db)

	professorBalance, err := svc.GetProfessorBalance(context.Background(), "prof-1", "franq-1")
	require.NoError(t, err)
	require.InDelta(t, 0, professorBalance.AvailableHours, 1e-9)
	require.InDelta(t, 0, professorBalance.LockedHours, 1e-9)

	studentBalance, err := svc.GetStudentBalance(context.Background(), "student-1", "franq-1")
	require.NoError(t, err)
	require.Equal(t, 0, studentBalance.TotalPurchased)
}

func TestLedgerPaginatesTransactions(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedgerService(db)
	grants := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora@ledger.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia@ledger.com", model.RoleAluno)

	for _, quantity := range []int{1, 2, 3} {
		_, err := grants.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
			UserEmail:  student.Email,
			CreditType: model.CreditTypeStudentClass,
			Quantity:   quantity,
			Reason:     "Teste de extrato",
		})
		require.NoError(t, err)
	}

	transactions, total, err := ledger.ListStudentTransactions(context.Background(), student.ID, 1, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, transactions, 2)

	// Second page carries the remainder.
	rest, _, err := ledger.ListStudentTransactions(context.Background(), student.ID, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)

	balance, err := ledger.GetStudentBalance(context.Background(), student.ID, "franq-1")
	require.NoError(t, err)
	require.Equal(t, 6, balance.TotalPurchased)
}
