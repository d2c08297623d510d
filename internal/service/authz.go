package service

import (
	"fitledger/internal/model"
)

// AdminContext identifies the admin calling a credit endpoint.
// FranchiseID == nil means a franqueadora-level admin, who is always
// authorized for any target; a non-nil FranchiseID scopes the admin to
// that one franchise.
type AdminContext struct {
	AdminID        string
	FranchiseID    *string
	FranqueadoraID string
}

// AuthorizeForFranchise is the single scope policy gating both the
// user-search and the grant endpoints. A franchise-scoped admin is
// authorized iff the target user has at least one association with the
// admin's franchise; the association type (student vs teacher) does
// not matter.
func AuthorizeForFranchise(admin AdminContext, targetUserID string, associations []*model.FranchiseAssociation) error {
	if admin.FranchiseID == nil {
		return nil
	}

	for _, assoc := range associations {
		if assoc.UserID == targetUserID && assoc.FranchiseID == *admin.FranchiseID {
			return nil
		}
	}

	return domainErr(CodeUnauthorizedFranchise, "Usuário não pertence à sua franquia")
}
