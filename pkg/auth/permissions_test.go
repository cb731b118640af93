package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/notifier/pkg/auth"
)

func TestRequirePermissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		held     []string
		required []string
		ok       bool
	}{
		{"exact match", []string{"notify:send"}, []string{"notify:send"}, true},
		{"send cannot admin", []string{"notify:send"}, []string{"notify:admin"}, false},
		{"wildcard passes all", []string{"*"}, []string{"notify:admin"}, true},
		{"any of required", []string{"notify:send"}, []string{"notify:admin", "notify:send"}, true},
		{"namespace wildcard", []string{"notify:*"}, []string{"notify:admin"}, true},
		{"namespace wildcard other namespace", []string{"billing:*"}, []string{"notify:send"}, false},
		{"namespace wildcard needs delimiter", []string{"notify:*"}, []string{"notifyx"}, false},
		{"empty permissions", nil, []string{"notify:send"}, false},
		{"nothing required", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := auth.RequirePermissions(auth.Identity{ID: "svc", Permissions: tt.held}, tt.required...)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, auth.ErrInsufficientPermissions)
			}
		})
	}
}

func TestIdentity_HasPermission(t *testing.T) {
	t.Parallel()

	id := auth.Identity{Permissions: []string{auth.PermissionSend}}
	assert.True(t, id.HasPermission(auth.PermissionSend))
	assert.False(t, id.HasPermission(auth.PermissionAdmin))
}
