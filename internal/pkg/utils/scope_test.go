package utils

import (
	"context"
	"mindhub-service/internal/pkg/constvars"
	"mindhub-service/internal/pkg/dto/requests"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRecordScope(t *testing.T) {
	caller := func(role string) context.Context {
		ctx := context.WithValue(context.Background(), constvars.CONTEXT_USER_ID_KEY, "user-1")
		ctx = context.WithValue(ctx, constvars.CONTEXT_CLINIC_ID_KEY, "clinic-1")
		return context.WithValue(ctx, constvars.CONTEXT_USER_ROLE_KEY, role)
	}

	tests := []struct {
		name string
		ctx  context.Context
		want requests.RecordScope
	}{
		{
			name: "clinician sees own records",
			ctx:  caller(constvars.MindhubRoleClinician),
			want: requests.RecordScope{ClinicID: "clinic-1", OwnerID: "user-1"},
		},
		{
			name: "admin sees the clinic",
			ctx:  caller(constvars.MindhubRoleAdmin),
			want: requests.RecordScope{ClinicID: "clinic-1", OwnerID: "user-1", ClinicWide: true},
		},
		{
			name: "service role is unrestricted",
			ctx:  caller(constvars.MindhubRoleService),
			want: requests.RecordScope{ClinicID: "clinic-1", OwnerID: "user-1", Unrestricted: true},
		},
		{
			name: "service account is unrestricted",
			ctx:  context.WithValue(context.Background(), constvars.CONTEXT_SERVICE_ACCOUNT_KEY, true),
			want: requests.RecordScope{Unrestricted: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetRecordScope(tt.ctx))
		})
	}
}

func TestRecordScopeAllows(t *testing.T) {
	own := requests.RecordScope{ClinicID: "clinic-1", OwnerID: "user-1"}
	assert.True(t, own.Allows("clinic-1", "user-1"))
	assert.False(t, own.Allows("clinic-1", "user-2"))
	assert.False(t, own.Allows("clinic-2", "user-1"))

	clinic := requests.RecordScope{ClinicID: "clinic-1", OwnerID: "admin-1", ClinicWide: true}
	assert.True(t, clinic.Allows("clinic-1", "user-2"))
	assert.False(t, clinic.Allows("clinic-2", "user-2"))

	all := requests.RecordScope{Unrestricted: true}
	assert.True(t, all.Allows("clinic-9", "anyone"))
}
