package constants

const (
	AppName            = "pdcaflow"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/pdcaflow"
	DefaultConfigFile  = "~/.config/pdcaflow/config.toml"
	DefaultDBName      = "pdcaflow.db"
	EnvDBConnection    = "PDCAFLOW_DB_CONNECTION"
	KeyringDatabase    = "keyring"
	Version            = "v0.3.0"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "pdcaflow-"
	BackupFileSuffix = ".db"

	// System labels written into bio-locked plan cells
	SleepLabel  = "Sleep"
	WakeUpLabel = "Wake up"

	// WakeUpIDSuffix marks the synthetic wake-up block's identity
	WakeUpIDSuffix = "-WAKEUP"
)
