package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retailpoint/counterd/internal/domain/model"
)

// Storage backend names accepted by the snapshot store.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	StorageBackend   string
	DatabaseURI      string
	SQLitePath       string
	SnapshotKey      string
	ERPAddress       string
	DefaultWarehouse string
	TaxRate          float64
	EditFieldOrder   []model.EditField
	PersistInterval  time.Duration
	ShutdownTimeout  time.Duration
}

const (
	defaultRunAddress       = "127.0.0.1:8090"
	defaultStorageBackend   = BackendSQLite
	defaultSQLitePath       = "counterd.db"
	defaultSnapshotKey      = "pos-tab-store"
	defaultDefaultWarehouse = "Main Warehouse"
	defaultTaxRate          = 0.10
	defaultFieldOrder       = "quantity,uom,discount_percentage"
	defaultPersistInterval  = 2 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StorageBackend:   getString(lookup, "STORAGE_BACKEND", defaultStorageBackend),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		SQLitePath:       getString(lookup, "SQLITE_PATH", defaultSQLitePath),
		SnapshotKey:      getString(lookup, "SNAPSHOT_KEY", defaultSnapshotKey),
		ERPAddress:       getString(lookup, "ERP_ADDRESS", ""),
		DefaultWarehouse: getString(lookup, "DEFAULT_WAREHOUSE", defaultDefaultWarehouse),
		TaxRate:          getFloat(lookup, "TAX_RATE", defaultTaxRate),
		PersistInterval:  getDuration(lookup, "PERSIST_INTERVAL", defaultPersistInterval),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}
	fieldOrder := getString(lookup, "EDIT_FIELD_ORDER", defaultFieldOrder)

	fs := flag.NewFlagSet("counterd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		persistIntervalStr = cfg.PersistInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		taxRateStr         = strconv.FormatFloat(cfg.TaxRate, 'f', -1, 64)
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "Snapshot backend (sqlite or postgres)")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN for the postgres backend")
	fs.StringVar(&cfg.SQLitePath, "f", cfg.SQLitePath, "SQLite file for the sqlite backend")
	fs.StringVar(&cfg.ERPAddress, "r", cfg.ERPAddress, "ERP base URL for stock lookups")
	fs.StringVar(&cfg.SnapshotKey, "snapshot-key", cfg.SnapshotKey, "Key the tab snapshot is stored under")
	fs.StringVar(&cfg.DefaultWarehouse, "warehouse", cfg.DefaultWarehouse, "Warehouse items are sold from by default")
	fs.StringVar(&taxRateStr, "tax-rate", taxRateStr, "Flat tax rate applied to the taxable base")
	fs.StringVar(&fieldOrder, "field-order", fieldOrder, "Comma separated edit field traversal")
	fs.StringVar(&persistIntervalStr, "persist-interval", persistIntervalStr, "Interval between snapshot flushes")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.PersistInterval, err = time.ParseDuration(persistIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid persist interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TaxRate, err = strconv.ParseFloat(taxRateStr, 64); err != nil {
		return nil, fmt.Errorf("invalid tax rate: %w", err)
	}

	if cfg.EditFieldOrder, err = parseFieldOrder(fieldOrder); err != nil {
		return nil, fmt.Errorf("invalid field order: %w", err)
	}

	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		cfg.TaxRate = defaultTaxRate
	}

	if cfg.PersistInterval <= 0 {
		cfg.PersistInterval = defaultPersistInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	switch cfg.StorageBackend {
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path must be provided")
		}
	case BackendPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided for the postgres backend")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.ERPAddress == "" {
		return nil, fmt.Errorf("erp address must be provided")
	}

	return cfg, nil
}

func parseFieldOrder(raw string) ([]model.EditField, error) {
	parts := strings.Split(raw, ",")
	fields := make([]model.EditField, 0, len(parts))
	seen := map[model.EditField]bool{}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, err := model.ParseEditField(part)
		if err != nil {
			return nil, err
		}
		if seen[field] {
			return nil, fmt.Errorf("duplicate field %q", part)
		}
		seen[field] = true
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("field order is empty")
	}
	return fields, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
