// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package database

import "fmt"

// Engine is the logical database engine. The schema enum and the switch
// in Spec must cover the same set: adding an engine means adding a case
// here, nowhere else.
type Engine string

const (
	EngineMySQL    Engine = "mysql"
	EngineMariaDB  Engine = "mariadb"
	EnginePostgres Engine = "postgres"
)

// Engines lists every supported engine, in schema enum order.
var Engines = []Engine{EngineMySQL, EngineMariaDB, EnginePostgres}

// Spec carries the pinned per-engine settings: exact version, major
// version family, default port and the log categories streamed for the
// engine. Log export is a fixed per-engine choice, not user-configurable.
type Spec struct {
	Version    string
	Family     string
	Port       int
	LogExports []string
}

// SpecFor maps an engine to its pinned spec. Total over the enum; an
// unknown value means the schema let something through and is reported
// as an error rather than defaulted.
func SpecFor(engine Engine) (Spec, error) {
	switch engine {
	case EngineMySQL:
		return Spec{
			Version:    "8.0.36",
			Family:     "mysql8.0",
			Port:       3306,
			LogExports: []string{"error", "slowquery"},
		}, nil
	case EngineMariaDB:
		return Spec{
			Version:    "10.11.6",
			Family:     "mariadb10.11",
			Port:       3306,
			LogExports: []string{"error", "slowquery"},
		}, nil
	case EnginePostgres:
		return Spec{
			Version:    "16.2",
			Family:     "postgres16",
			Port:       5432,
			LogExports: nil,
		}, nil
	default:
		return Spec{}, fmt.Errorf("unsupported database engine %q", engine)
	}
}

// Scheme is the connection string scheme for the engine.
func (e Engine) Scheme() string {
	return string(e)
}
