package configuration

import (
	"time"

	"github.com/go-redis/redis"

	"github.com/armadaproject/qpp/internal/common/logging"
	"github.com/armadaproject/qpp/internal/qpp/archive"
)

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

type QppConfig struct {
	HttpPort    uint16 `validate:"required"`
	MetricsPort uint16

	Logging logging.Config
	Ledger  LedgerConfig
	Archive ArchiveConfig
	Redis   redis.UniversalOptions
	Compute ComputeConfig
	Sweep   SweepConfig
}

type LedgerConfig struct {
	// Units is the number of qubits in the pool shared by all jobs.
	Units uint
}

type ArchiveConfig struct {
	Qubits   uint `validate:"gt=0"`
	Capacity uint `validate:"gt=0"`
	// Store is where snapshots are kept: "file" or "redis".
	Store    string `validate:"oneof=file redis"`
	Path     string `validate:"required_if=Store file"`
	RedisKey string
	// Codec and Compression select the snapshot encoding.
	Codec       archive.Format
	Compression archive.Compression
	// PersistInterval, if non-zero, defers snapshot writes to a background task running at this interval.
	// Zero writes a snapshot after every mutation.
	PersistInterval time.Duration `validate:"gte=0"`
	// RedisConnectAttempts bounds how long startup waits for redis.
	RedisConnectAttempts uint `validate:"gte=1"`
}

type ComputeConfig struct {
	// Command is the simulator executable. Jobs are sent to it as json on stdin.
	Command string `validate:"required"`
	Args    []string
	// Timeout bounds each simulator call. Zero disables it.
	Timeout time.Duration `validate:"gte=0"`
}

type SweepConfig struct {
	// DefaultIterations is used when a sweep submission does not say how many iterations to run.
	DefaultIterations uint `validate:"gt=0"`
	// Objective names what is computed over the iterations of a sweep: "none" or "minimum".
	Objective string `validate:"omitempty,oneof=none minimum"`
}

func (c ArchiveConfig) SnapshotCodec() archive.Codec {
	return archive.Codec{Format: c.Codec, Compression: c.Compression}
}
