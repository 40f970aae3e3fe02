package utils

import (
	"context"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
)

func GetClinicID(ctx context.Context) string {
	if clinicID, ok := ctx.Value(constvars.CONTEXT_CLINIC_ID_KEY).(string); ok {
		return clinicID
	}
	return ""
}

// GetRecordScope derives the caller's record scope from the authenticated
// context. Admins see their whole clinic; service callers see everything.
func GetRecordScope(ctx context.Context) requests.RecordScope {
	role, _ := ctx.Value(constvars.CONTEXT_USER_ROLE_KEY).(string)
	serviceAccount, _ := ctx.Value(constvars.CONTEXT_SERVICE_ACCOUNT_KEY).(bool)

	scope := requests.RecordScope{
		ClinicID: GetClinicID(ctx),
		OwnerID:  GetUserID(ctx),
	}
	switch {
	case serviceAccount || role == constvars.MindhubRoleService:
		scope.Unrestricted = true
	case role == constvars.MindhubRoleAdmin:
		scope.ClinicWide = true
	}
	return scope
}
