package database

import (
	"net"
	"net/url"
	"strconv"

	"github.com/deppfellow/taskmanagement/internal/config"
)

// EngineType is the only relational engine the service speaks to.
const EngineType = "postgres"

// Entity is a persisted type registered with the connection.
type Entity struct {
	Name  string
	Table string
}

var (
	TaskEntity = Entity{Name: "Task", Table: "tasks"}
	UserEntity = Entity{Name: "User", Table: "users"}
)

// ConnectionOptions describes how to reach the database and which entities
// live there. It is built once at startup and never mutated.
type ConnectionOptions struct {
	Type     string
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string
	Entities []Entity

	// Synchronize applies the embedded migrations before serving.
	Synchronize bool
}

// NewConnectionOptions builds the connection options from config.
func NewConnectionOptions(cfg config.DatabaseConfig) ConnectionOptions {
	return ConnectionOptions{
		Type:        EngineType,
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.User,
		Password:    cfg.Password,
		Database:    cfg.Name,
		SSLMode:     cfg.SSLMode,
		Entities:    []Entity{TaskEntity, UserEntity},
		Synchronize: cfg.Synchronize,
	}
}

// DSN renders a postgres URL. Credentials and the database name are
// escaped by url.URL; IPv6 hosts get brackets.
func (o ConnectionOptions) DSN() string {
	dsn := url.URL{
		Scheme:   o.Type,
		User:     url.UserPassword(o.Username, o.Password),
		Host:     net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:     "/" + o.Database,
		RawQuery: url.Values{"sslmode": {o.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// Tables returns the table names of the registered entities.
func (o ConnectionOptions) Tables() []string {
	tables := make([]string, 0, len(o.Entities))
	for _, e := range o.Entities {
		tables = append(tables, e.Table)
	}
	return tables
}
