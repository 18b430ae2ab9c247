// Package config loads plinko-hintd's runtime configuration from the
// environment, using the PLINKO_HINTD_* variables with legacy aliases
// (mostly PLINKO_*, plus unprefixed DATABASE_PATH, PUBLIC_ROOT and
// HEALTH_PORT) for backward compatibility.
package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultN                = uint64(1 << 16)
	defaultW                = uint64(256)
	defaultLambda           = 2
	defaultQ                = 64
	defaultHealthPort       = "3001"
	defaultSnapshotInterval = 10 * time.Minute
	defaultPollInterval     = 5 * time.Second
	defaultDatabasePath     = "/data/database.bin"
	defaultAddressMapPath   = "/data/address-mapping.bin"
	defaultPublicRoot       = "/public"
)

// Config holds every runtime parameter for cmd/plinko-hintd.
type Config struct {
	N, W      uint64
	Lambda, Q uint32
	MasterKey [32]byte

	DatabasePath    string
	AddressMapPath  string
	PublicRoot      string
	SnapshotVersion string
	HealthPort      string

	SnapshotInterval time.Duration
	PollInterval     time.Duration

	RPCURL       string
	RPCToken     string
	StartBlock   uint64
	UseSimulated bool

	IPFSAPI     string
	IPFSGateway string
}

// LoadConfig reads Config from the environment, falling back to defaults
// sized for a demo-scale deployment.
func LoadConfig() (Config, error) {
	cfg := Config{
		N: defaultN, W: defaultW,
		Lambda: defaultLambda, Q: defaultQ,
		DatabasePath:     defaultDatabasePath,
		AddressMapPath:   defaultAddressMapPath,
		PublicRoot:       defaultPublicRoot,
		HealthPort:       defaultHealthPort,
		SnapshotInterval: defaultSnapshotInterval,
		PollInterval:     defaultPollInterval,
		UseSimulated:     true,
	}

	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_N"), os.Getenv("PLINKO_N")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PLINKO_HINTD_N %q: %w", v, err)
		}
		cfg.N = n
	}

	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_W"), os.Getenv("PLINKO_W")); v != "" {
		w, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PLINKO_HINTD_W %q: %w", v, err)
		}
		cfg.W = w
	}

	if v := os.Getenv("PLINKO_HINTD_LAMBDA"); v != "" {
		lambda, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PLINKO_HINTD_LAMBDA %q: %w", v, err)
		}
		cfg.Lambda = uint32(lambda)
	}

	if v := os.Getenv("PLINKO_HINTD_Q"); v != "" {
		q, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PLINKO_HINTD_Q %q: %w", v, err)
		}
		cfg.Q = uint32(q)
	}

	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_MASTER_KEY"), os.Getenv("PLINKO_MASTER_KEY")); v != "" {
		key, err := parseMasterKey(v)
		if err != nil {
			return Config{}, err
		}
		cfg.MasterKey = key
	} else {
		log.Printf("config: PLINKO_HINTD_MASTER_KEY not set, using the all-zero demo key")
	}

	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_DATABASE_PATH"), os.Getenv("DATABASE_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_ADDRESS_MAPPING_PATH"), os.Getenv("PLINKO_ADDRESS_MAPPING_PATH")); v != "" {
		cfg.AddressMapPath = v
	}
	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_PUBLIC_ROOT"), os.Getenv("PUBLIC_ROOT")); v != "" {
		cfg.PublicRoot = v
	}
	if v := strings.TrimSpace(os.Getenv("PLINKO_HINTD_SNAPSHOT_VERSION")); v != "" {
		cfg.SnapshotVersion = v
	}
	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_HEALTH_PORT"), os.Getenv("HEALTH_PORT")); v != "" {
		cfg.HealthPort = v
	}

	if v := os.Getenv("PLINKO_HINTD_SNAPSHOT_INTERVAL_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 0 {
			log.Printf("config: invalid snapshot interval %q, using default %v", v, defaultSnapshotInterval)
		} else {
			cfg.SnapshotInterval = time.Duration(seconds) * time.Second
		}
	}

	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_RPC_URL"), os.Getenv("PLINKO_RPC_URL")); v != "" {
		cfg.RPCURL = v
	} else {
		cfg.RPCURL = "http://eth-mock:8545"
	}
	cfg.RPCToken = firstNonEmpty(os.Getenv("PLINKO_HINTD_RPC_TOKEN"), os.Getenv("PLINKO_RPC_TOKEN"))

	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_START_BLOCK"), os.Getenv("PLINKO_START_BLOCK")); v != "" {
		start, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PLINKO_HINTD_START_BLOCK %q: %w", v, err)
		}
		cfg.StartBlock = start
	}

	if v := os.Getenv("PLINKO_HINTD_POLL_INTERVAL_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			log.Printf("config: invalid poll interval %q, using default %v", v, defaultPollInterval)
		} else {
			cfg.PollInterval = time.Duration(seconds) * time.Second
		}
	}

	cfg.UseSimulated = true
	if v := firstNonEmpty(os.Getenv("PLINKO_HINTD_SIMULATED"), os.Getenv("PLINKO_SIMULATED_UPDATES")); v != "" {
		if parsed, ok := parseBool(v); ok {
			cfg.UseSimulated = parsed
		}
	}

	cfg.IPFSAPI = strings.TrimSpace(os.Getenv("PLINKO_HINTD_IPFS_API"))
	cfg.IPFSGateway = strings.TrimSpace(os.Getenv("PLINKO_HINTD_IPFS_GATEWAY"))

	if cfg.N%cfg.W != 0 {
		return Config{}, fmt.Errorf("config: N=%d is not a multiple of W=%d", cfg.N, cfg.W)
	}

	return cfg, nil
}

func parseMasterKey(hexStr string) ([32]byte, error) {
	var key [32]byte
	raw, err := hex.DecodeString(strings.TrimSpace(hexStr))
	if err != nil {
		return key, fmt.Errorf("config: master key is not valid hex: %w", err)
	}
	if len(raw) != 32 {
		return key, fmt.Errorf("config: master key must decode to 32 bytes, got %d", len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
