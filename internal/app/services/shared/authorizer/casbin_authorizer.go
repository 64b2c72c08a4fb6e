package authorizer

import (
	"context"
	"orthanc-service/internal/app/config"
	"orthanc-service/internal/app/contracts"
	"orthanc-service/internal/pkg/constvars"
	"orthanc-service/internal/pkg/exceptions"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"go.uber.org/zap"
)

const (
	RoleViewer   = "viewer"
	RoleOperator = "operator"
)

// rbacModel matches (role, method, path) rows, path patterns use keyMatch2.
const rbacModel = `
[request_definition]
r = sub, act, obj

[policy_definition]
p = sub, act, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (r.act == p.act || p.act == "*") && keyMatch2(r.obj, p.obj)
`

// Viewers read everything and may run the POST calls that do not change
// the archive. Operators may do anything.
var defaultPolicies = [][]string{
	{RoleViewer, "GET", "/*"},
	{RoleViewer, "POST", "/find"},
	{RoleViewer, "POST", "/jobs/:job_id/wait"},
	{RoleViewer, "POST", "/modalities/:modality/echo"},
	{RoleViewer, "POST", "/modalities/:modality/query"},
	{RoleOperator, "*", "/*"},
}

type casbinAuthorizer struct {
	enforcer *casbin.Enforcer
	log      *zap.Logger
}

var (
	casbinAuthorizerInstance contracts.Authorizer
	onceCasbinAuthorizer     sync.Once
	casbinAuthorizerError    error
)

// NewCasbinAuthorizer builds the enforcer from RBAC_POLICY_PATH when set,
// otherwise from the built-in policies. Subjects in RBAC_OPERATOR_SUBJECTS
// are granted the operator role, everyone else authenticated is a viewer.
func NewCasbinAuthorizer(log *zap.Logger, cfg *config.InternalConfig) (contracts.Authorizer, error) {
	onceCasbinAuthorizer.Do(func() {
		casbinAuthorizerInstance, casbinAuthorizerError = newCasbinAuthorizer(log, cfg.RBAC)
	})
	return casbinAuthorizerInstance, casbinAuthorizerError
}

func newCasbinAuthorizer(log *zap.Logger, cfg config.AppRBAC) (*casbinAuthorizer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, exceptions.ErrAuthorizerInit(err)
	}

	var enforcer *casbin.Enforcer
	if cfg.PolicyPath != "" {
		enforcer, err = casbin.NewEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewEnforcer(m)
	}
	if err != nil {
		return nil, exceptions.ErrAuthorizerInit(err)
	}

	if cfg.PolicyPath == "" {
		if _, err := enforcer.AddPolicies(defaultPolicies); err != nil {
			return nil, exceptions.ErrAuthorizerInit(err)
		}
	}

	for _, subject := range cfg.OperatorSubjects {
		subject = strings.TrimSpace(subject)
		if subject == "" {
			continue
		}
		if _, err := enforcer.AddGroupingPolicy(subject, RoleOperator); err != nil {
			return nil, exceptions.ErrAuthorizerInit(err)
		}
	}

	log.Info("casbinAuthorizer initialized",
		zap.String("policy_path", cfg.PolicyPath),
		zap.Int("operator_subjects", len(cfg.OperatorSubjects)),
	)

	return &casbinAuthorizer{enforcer: enforcer, log: log}, nil
}

func (a *casbinAuthorizer) Authorize(ctx context.Context, subject, method, path string) (bool, error) {
	roles, err := a.enforcer.GetRolesForUser(subject)
	if err != nil {
		return false, exceptions.ErrAuthorizerEnforce(err)
	}
	if len(roles) == 0 {
		roles = []string{RoleViewer}
	}

	for _, role := range roles {
		ok, err := a.enforcer.Enforce(role, method, path)
		if err != nil {
			a.log.Error("casbinAuthorizer.Authorize error enforcing policy",
				zap.String(constvars.LoggingSubjectKey, subject),
				zap.String("role", role),
				zap.Error(err),
			)
			return false, exceptions.ErrAuthorizerEnforce(err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
