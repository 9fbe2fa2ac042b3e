// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package database implements the sql-database construct: a managed
// database instance behind a connection proxy, placed in the private
// network segments of the deployment.
package database

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"

	"github.com/platform-engineering-labs/stratum/pkg/construct"
	"github.com/platform-engineering-labs/stratum/pkg/construct/registry"
	"github.com/platform-engineering-labs/stratum/pkg/expr"
	"github.com/platform-engineering-labs/stratum/pkg/model"
	"github.com/platform-engineering-labs/stratum/pkg/provision"
)

const TypeID = "sql-database"

const (
	// storage floor for the target engine family, chosen for cost over
	// the provisioning default
	DefaultStorage = 20
	// longer than the provisioning default of 1 day
	DefaultBackupRetentionDays = 7
	DefaultInstanceClass       = "db.t3.micro"
)

var Descriptor = construct.Descriptor{
	Type: TypeID,
	Doc:  "Managed SQL database instance with a connection proxy",
}

var Schema = model.Schema{
	Fields: map[string]model.Field{
		"name": {
			Type:    model.FieldTypeString,
			Pattern: `^[a-z][a-z0-9-]*$`,
			Doc:     "Resource name, defaults to {stack}-{id}",
		},
		"engine": {
			Type:     model.FieldTypeString,
			Enum:     []string{string(EngineMySQL), string(EngineMariaDB), string(EnginePostgres)},
			Required: true,
			Doc:      "Database engine",
		},
		"instanceClass": {
			Type: model.FieldTypeString,
			Doc:  "Instance class, defaults to " + DefaultInstanceClass,
		},
		"storage": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(DefaultStorage),
			Doc:     "Allocated storage in GB",
		},
		"backupRetention": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(0),
			Doc:     "Backup retention in days",
		},
		"username": {
			Type:    model.FieldTypeString,
			Pattern: `^[a-zA-Z][a-zA-Z0-9_]*$`,
			Doc:     "Master username, defaults to the database name",
		},
		"password": {
			Type:      model.FieldTypeString,
			MinLength: 8,
			Doc:       "Plaintext master password; omit to generate a secret instead",
		},
		"port": {
			Type:    model.FieldTypeInteger,
			Minimum: int64Ptr(1),
			Doc:     "Listener port, defaults per engine",
		},
	},
}

func init() {
	registry.Register(TypeID, Descriptor, Schema, New)
}

type Config struct {
	Name            string `json:"name"`
	Engine          string `json:"engine"`
	InstanceClass   string `json:"instanceClass"`
	Storage int `json:"storage"`
	// pointer so an explicit 0 (backups disabled) is distinct from absent
	BackupRetention *int `json:"backupRetention"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	Port            int    `json:"port"`
}

// Database owns the resource handles it creates and is the sole writer
// of derived state such as the generated secret's name.
type Database struct {
	ctx  construct.Context
	cfg  Config
	spec Spec

	databaseName string
	username     string
	port         int

	// secretName is set only on the generated-credential path
	secretName string
	// password is the plaintext credential, empty on the generated path
	password string

	proxy      *provision.Handle
	hostOutput construct.Output
}

var _ construct.Construct = &Database{}

// New provisions the database sub-graph: network access rule, instance,
// connection proxy and host output record. All side effects happen here;
// the accessors afterwards are read-only.
func New(ctx construct.Context, raw json.RawMessage) (construct.Construct, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID,
			"failed to decode configuration: %v", err)
	}

	spec, err := SpecFor(Engine(cfg.Engine))
	if err != nil {
		// schema validation catches this upstream; reaching here means
		// the engine enum and SpecFor diverged
		return nil, construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, ctx.LogicalID, "%v", err)
	}

	db := &Database{ctx: ctx, cfg: cfg, spec: spec}

	resourceName := ctx.ResourceName(cfg.Name)
	db.databaseName = SanitizeDatabaseName(resourceName)
	db.username = cfg.Username
	if db.username == "" {
		db.username = db.databaseName
	}
	db.port = cfg.Port
	if db.port == 0 {
		db.port = spec.Port
	}
	db.password = cfg.Password

	instanceClass := cfg.InstanceClass
	if instanceClass == "" {
		instanceClass = DefaultInstanceClass
	}
	storage := cfg.Storage
	if storage == 0 {
		storage = DefaultStorage
	}
	retention := DefaultBackupRetentionDays
	if cfg.BackupRetention != nil {
		retention = *cfg.BackupRetention
	}

	network := ctx.Env.Network()

	accessRule, err := ctx.Engine.Declare(provision.Resource{
		LogicalID: "access-rule",
		Type:      "Network::IngressRule",
		Properties: map[string]any{
			"Description": fmt.Sprintf("Database access for %s", resourceName),
			"BoundaryId":  network.BoundaryID,
			"Port":        db.port,
			"Source":      network.AppSecurityRule,
		},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	var passwordValue expr.Node
	var deps []string
	if cfg.Password != "" {
		slog.Warn("construct uses a plaintext database password; omit it to provision a generated secret instead",
			"construct", ctx.LogicalID)
		passwordValue = expr.Lit(cfg.Password)
	} else {
		db.secretName = ctx.SecretName("password")
		secretSpec := provision.SecretSpec{
			Name:             db.secretName,
			Length:           32,
			ExcludeSpecial:   true,
			ExcludeAmbiguous: true,
		}
		secret, err := ctx.Engine.Declare(provision.Resource{
			LogicalID:  "master-secret",
			Type:       provision.ResourceTypeSecret,
			Properties: secretSpec.Properties(),
		})
		if err != nil {
			return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
		}
		passwordValue = secret.Attr("Value")
		deps = append(deps, "master-secret")
	}

	instance, err := ctx.Engine.Declare(provision.Resource{
		LogicalID: "instance",
		Type:      "Database::Instance",
		Properties: map[string]any{
			"Name":                resourceName,
			"DatabaseName":        db.databaseName,
			"Engine":              cfg.Engine,
			"EngineVersion":       spec.Version,
			"Family":              spec.Family,
			"InstanceClass":       instanceClass,
			"AllocatedStorage":    storage,
			"BackupRetentionDays": retention,
			"MasterUsername":      db.username,
			"MasterPassword":      passwordValue,
			"Port":                db.port,
			"Segments":            toAny(network.PrivateSegments),
			"PubliclyAccessible":  false,
			"LogExports":          toAny(spec.LogExports),
			"IngressRules":        []any{accessRule.Attr("Id")},
		},
		DependsOn: append(deps, "access-rule"),
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	db.proxy, err = ctx.Engine.Declare(provision.Resource{
		LogicalID: "proxy",
		Type:      "Database::Proxy",
		Properties: map[string]any{
			"Name":     resourceName,
			"Target":   instance.Attr("Id"),
			"Segments": toAny(network.PrivateSegments),
		},
		DependsOn: []string{"instance"},
	})
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}

	hostHandle, err := ctx.Engine.Output("host", db.proxy.Attr("Host"))
	if err != nil {
		return nil, &construct.ProvisioningError{ConstructID: ctx.LogicalID, Err: err}
	}
	db.hostOutput = construct.NewOutput(hostHandle, ctx.Env)

	return db, nil
}

func (db *Database) Outputs() map[string]construct.Output {
	return map[string]construct.Output{
		"host": db.hostOutput,
	}
}

func (db *Database) Variables() map[string]construct.Variable {
	vars := map[string]construct.Variable{
		"host":     construct.NewVariable(db.proxy.Attr("Host")),
		"port":     construct.StringVariable(fmt.Sprintf("%d", db.port)),
		"username": construct.StringVariable(db.username),
	}

	if db.secretName != "" {
		vars["passwordSecret"] = construct.StringVariable(db.secretName)
	}

	vars["databaseUrl"] = db.databaseURL()

	return vars
}

// Commands is empty for this construct type; present for contract
// completeness.
func (db *Database) Commands() map[string]construct.Command {
	return map[string]construct.Command{}
}

// databaseURL assembles the connection string expression. The generated
// secret path cannot be embedded in a plaintext connection string without
// resolving the secret, which this construct does not do.
func (db *Database) databaseURL() construct.Variable {
	if db.password == "" {
		return construct.ErrVariable(construct.NewConfigurationError(
			construct.ErrorCodeInvalidConstructConfiguration, db.ctx.LogicalID,
			"databaseUrl requires a plaintext password; the generated secret %q is not resolved at compile time", db.secretName))
	}

	url, err := expr.Fmt("%s://%s:%s@%s/%s",
		expr.Lit(Engine(db.cfg.Engine).Scheme()),
		expr.Lit(db.username),
		expr.Lit(db.password),
		db.proxy.Attr("Host"),
		expr.Lit(db.databaseName),
	)
	if err != nil {
		return construct.ErrVariable(err)
	}
	return construct.NewVariable(url)
}

// SanitizeDatabaseName strips the characters the engine's naming rules
// forbid from the resource name.
func SanitizeDatabaseName(name string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(name)
}

func int64Ptr(v int64) *int64 {
	return &v
}

func toAny[T any](values []T) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
