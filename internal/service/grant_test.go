package service

import (
	"context"
	"testing"

	"fitledger/internal/model"
	"fitledger/internal/repository"

	"github.com/stretchr/testify/require"
)

func grantAdmin(adminID string, franchiseID *string) AdminContext {
	return AdminContext{
		AdminID:        adminID,
		FranchiseID:    franchiseID,
		FranqueadoraID: "franq-1",
	}
}

func TestGrantStudentClassRouting(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora@franqueadora.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia@aluno.com", model.RoleAluno)

	result, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   10,
		Reason:     "Compensação por aula cancelada",
	})
	require.NoError(t, err)

	// Exactly the student side populated.
	require.NotNil(t, result.StudentTransaction)
	require.NotNil(t, result.StudentBalance)
	require.Nil(t, result.HourTransaction)
	require.Nil(t, result.ProfessorBalance)

	require.Equal(t, model.TransactionTypeGrant, result.StudentTransaction.Type)
	require.Equal(t, model.TransactionSourceAdmin, result.StudentTransaction.Source)
	require.Equal(t, 10, result.StudentTransaction.Qty)
	require.Equal(t, student.ID, result.StudentTransaction.StudentID)
	require.Equal(t, 10, result.StudentBalance.TotalPurchased)

	// The professor ledger never saw this grant.
	require.EqualValues(t, 0, countRows(t, db, &model.HourTransaction{}))
	require.EqualValues(t, 0, countRows(t, db, &model.ProfHourBalance{}))
}

func TestGrantProfessorHourRouting(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora2@franqueadora.com", model.RoleFranqueadora)
	professor := seedUser(t, db, "Paulo", "paulo@academia.com", model.RoleProfessor)

	result, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  professor.Email,
		CreditType: model.CreditTypeProfessorHour,
		Quantity:   8,
		Reason:     "Horas de treinamento interno",
	})
	require.NoError(t, err)

	require.NotNil(t, result.HourTransaction)
	require.NotNil(t, result.ProfessorBalance)
	require.Nil(t, result.StudentTransaction)
	require.Nil(t, result.StudentBalance)

	require.Equal(t, model.TransactionTypeGrant, result.HourTransaction.Type)
	require.Equal(t, model.TransactionSourceAdmin, result.HourTransaction.Source)
	require.InDelta(t, 8, result.HourTransaction.Hours, 1e-9)
	require.InDelta(t, 8, result.ProfessorBalance.AvailableHours, 1e-9)

	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassTransaction{}))
	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassBalance{}))
}

func TestGrantAuditRecordComplete(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	franchiseID := "franchise-1"
	admin := seedUser(t, db, "Gestora", "gestora3@franquia.com", model.RoleFranquia)
	student := seedUser(t, db, "Sofia", "sofia3@aluno.com", model.RoleAluno)
	seedAssociation(t, db, student.ID, franchiseID, model.AssociationTypeStudent)

	result, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, &franchiseID), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   5,
		Reason:     "Promoção de boas-vindas",
	})
	require.NoError(t, err)

	grant, err := repository.NewGrantRepository(db).GetByID(context.Background(), result.GrantID)
	require.NoError(t, err)
	require.Equal(t, student.ID, grant.RecipientID)
	require.Equal(t, student.Email, grant.RecipientEmail)
	require.Equal(t, student.Name, grant.RecipientName)
	require.Equal(t, model.CreditTypeStudentClass, grant.CreditType)
	require.Equal(t, 5, grant.Quantity)
	require.Equal(t, "Promoção de boas-vindas", grant.Reason)
	require.Equal(t, admin.ID, grant.GrantedByID)
	require.Equal(t, admin.Email, grant.GrantedByEmail)
	require.Equal(t, "franq-1", grant.FranqueadoraID)
	require.NotNil(t, grant.FranchiseID)
	require.Equal(t, franchiseID, *grant.FranchiseID)

	// The audit row references the one ledger transaction.
	require.Equal(t, result.StudentTransaction.TransactionNo, grant.TransactionID)
	linked, err := repository.NewTransactionRepository(db).GetStudentTransactionByNo(context.Background(), grant.TransactionID)
	require.NoError(t, err)
	require.NotNil(t, linked)
	require.Equal(t, 5, linked.Qty)

	history, total, err := repository.NewGrantRepository(db).ListByRecipient(context.Background(), student.ID, 1, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, history, 1)
}

func TestGrantFranchiseIDNullForFranchisorAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Diretora", "diretora@franqueadora.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia4@aluno.com", model.RoleAluno)

	_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   3,
		Reason:     "Ajuste",
	})
	require.NoError(t, err)

	var grant model.CreditGrant
	require.NoError(t, db.First(&grant).Error)
	require.Nil(t, grant.FranchiseID)
}

func TestGrantUserNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora5@franqueadora.com", model.RoleFranqueadora)

	for _, creditType := range []string{model.CreditTypeStudentClass, model.CreditTypeProfessorHour} {
		_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
			UserEmail:  "ninguem@nada.com",
			CreditType: creditType,
			Quantity:   5,
			Reason:     "Teste",
		})
		requireDomainCode(t, err, CodeUserNotFound)
	}

	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassBalance{}))
	require.EqualValues(t, 0, countRows(t, db, &model.ProfHourBalance{}))
	require.EqualValues(t, 0, countRows(t, db, &model.CreditGrant{}))
}

func TestGrantEmailLookupCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora6@franqueadora.com", model.RoleFranqueadora)
	seedUser(t, db, "Sofia", "Sofia.Mendes@Aluno.com", model.RoleAluno)

	result, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  "SOFIA.MENDES@ALUNO.COM",
		CreditType: model.CreditTypeStudentClass,
		Quantity:   2,
		Reason:     "Fidelidade",
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.StudentBalance.TotalPurchased)
}

func TestGrantFranchiseScopeDenied(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	franchiseID := "franchise-1"
	otherFranchise := "franchise-2"
	admin := seedUser(t, db, "Gestora", "gestora7@franquia.com", model.RoleFranquia)
	student := seedUser(t, db, "Sofia", "sofia7@aluno.com", model.RoleAluno)
	seedAssociation(t, db, student.ID, otherFranchise, model.AssociationTypeStudent)

	_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, &franchiseID), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   5,
		Reason:     "Teste",
	})
	requireDomainCode(t, err, CodeUnauthorizedFranchise)

	// Denied means untouched: no balance, no ledger entry, no audit.
	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassBalance{}))
	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassTransaction{}))
	require.EqualValues(t, 0, countRows(t, db, &model.CreditGrant{}))
}

func TestGrantFranchiseScopeAllowedByTeacherAssociation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	franchiseID := "franchise-1"
	admin := seedUser(t, db, "Gestora", "gestora8@franquia.com", model.RoleFranquia)
	professor := seedUser(t, db, "Paulo", "paulo8@academia.com", model.RoleProfessor)
	// Association type does not matter for the scope check.
	seedAssociation(t, db, professor.ID, franchiseID, model.AssociationTypeTeacher)

	_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, &franchiseID), &GrantRequest{
		UserEmail:  professor.Email,
		CreditType: model.CreditTypeProfessorHour,
		Quantity:   4,
		Reason:     "Cobertura de aula",
	})
	require.NoError(t, err)
}

func TestGrantQuantityValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora9@franqueadora.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia9@aluno.com", model.RoleAluno)

	for _, quantity := range []int{0, -5} {
		_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
			UserEmail:  student.Email,
			CreditType: model.CreditTypeStudentClass,
			Quantity:   quantity,
			Reason:     "Teste",
		})
		requireDomainCode(t, err, CodeValidationError)
	}

	require.EqualValues(t, 0, countRows(t, db, &model.CreditGrant{}))
}

func TestGrantHighQuantityConfirmationGate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora10@franqueadora.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia10@aluno.com", model.RoleAluno)

	// Above the threshold without confirmation: gated, nothing applied.
	_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   150,
		Reason:     "Pacote corporativo",
	})
	requireDomainCode(t, err, CodeConfirmationRequired)
	require.EqualValues(t, 0, countRows(t, db, &model.CreditGrant{}))

	// Confirmation gate, not a cap: with the flag it goes through.
	result, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:           student.Email,
		CreditType:          model.CreditTypeStudentClass,
		Quantity:            150,
		Reason:              "Pacote corporativo",
		ConfirmHighQuantity: true,
	})
	require.NoError(t, err)
	require.Equal(t, 150, result.StudentBalance.TotalPurchased)
}

func TestGrantMissingReasonFailsBeforeMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora11@franqueadora.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia11@aluno.com", model.RoleAluno)

	_, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   5,
	})
	requireDomainCode(t, err, CodeValidationError)

	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassTransaction{}))
	require.EqualValues(t, 0, countRows(t, db, &model.CreditGrant{}))
}

func TestGrantUnknownGrantingAdminFailsBeforeMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	student := seedUser(t, db, "Sofia", "sofia12@aluno.com", model.RoleAluno)

	_, err := svc.GrantCredit(context.Background(), grantAdmin("missing-admin", nil), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   5,
		Reason:     "Teste",
	})
	requireDomainCode(t, err, CodeValidationError)

	require.EqualValues(t, 0, countRows(t, db, &model.StudentClassTransaction{}))
	require.EqualValues(t, 0, countRows(t, db, &model.CreditGrant{}))
}

func TestGrantWritesOutboxEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewGrantService(db, testConfig())

	admin := seedUser(t, db, "Gestora", "gestora13@franqueadora.com", model.RoleFranqueadora)
	student := seedUser(t, db, "Sofia", "sofia13@aluno.com", model.RoleAluno)

	result, err := svc.GrantCredit(context.Background(), grantAdmin(admin.ID, nil), &GrantRequest{
		UserEmail:  student.Email,
		CreditType: model.CreditTypeStudentClass,
		Quantity:   1,
		Reason:     "Teste",
	})
	require.NoError(t, err)

	var outbox []model.OutboxMessage
	require.NoError(t, db.Find(&outbox).Error)
	require.Len(t, outbox, 1)
	require.Equal(t, "test.credit.granted", outbox[0].Topic)
	require.Equal(t, result.GrantID, outbox[0].MessageKey)
}
