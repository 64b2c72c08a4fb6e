package authorizer

import (
	"context"
	"orthanc-service/internal/app/config"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCasbinAuthorizer_DefaultPolicies(t *testing.T) {
	authorizer, err := newCasbinAuthorizer(zap.NewNop(), config.AppRBAC{
		OperatorSubjects: []string{"radiology-admin", " "},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		subject string
		method  string
		path    string
		allowed bool
	}{
		{"Viewer Reads Studies", "reporting-bot", "GET", "/studies", true},
		{"Viewer Reads Labels", "reporting-bot", "GET", "/studies/abc/labels", true},
		{"Viewer Finds", "reporting-bot", "POST", "/find", true},
		{"Viewer Waits On Job", "reporting-bot", "POST", "/jobs/job-1/wait", true},
		{"Viewer Echoes Modality", "reporting-bot", "POST", "/modalities/sample/echo", true},
		{"Viewer Cannot Delete", "reporting-bot", "DELETE", "/studies/abc", false},
		{"Viewer Cannot Anonymize", "reporting-bot", "POST", "/studies/abc/anonymize", false},
		{"Viewer Cannot Cancel Job", "reporting-bot", "POST", "/jobs/job-1/cancel", false},
		{"Viewer Cannot Store", "reporting-bot", "POST", "/modalities/sample/store", false},
		{"Operator Deletes", "radiology-admin", "DELETE", "/studies/abc", true},
		{"Operator Adds Label", "radiology-admin", "PUT", "/studies/abc/labels/urgent", true},
		{"Operator Reads", "radiology-admin", "GET", "/jobs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := authorizer.Authorize(context.Background(), tt.subject, tt.method, tt.path)
			assert.NoError(t, err)
			assert.Equal(t, tt.allowed, ok)
		})
	}
}

func TestCasbinAuthorizer_PolicyFile(t *testing.T) {
	policyPath := filepath.Join(t.TempDir(), "policy.csv")
	policy := "p, viewer, GET, /jobs\np, auditor, GET, /*\ng, compliance, auditor\n"
	require.NoError(t, os.WriteFile(policyPath, []byte(policy), 0o600))

	authorizer, err := newCasbinAuthorizer(zap.NewNop(), config.AppRBAC{PolicyPath: policyPath})
	require.NoError(t, err)

	ok, err := authorizer.Authorize(context.Background(), "anyone", "GET", "/jobs")
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = authorizer.Authorize(context.Background(), "anyone", "GET", "/studies")
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = authorizer.Authorize(context.Background(), "compliance", "GET", "/studies/abc/audit")
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCasbinAuthorizer_MissingPolicyFile(t *testing.T) {
	_, err := newCasbinAuthorizer(zap.NewNop(), config.AppRBAC{PolicyPath: filepath.Join(t.TempDir(), "missing.csv")})
	assert.Error(t, err)
}
