package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/pdcaflow/internal/cli"
	"github.com/julianstephens/pdcaflow/internal/cli/backups"
	"github.com/julianstephens/pdcaflow/internal/cli/bio"
	"github.com/julianstephens/pdcaflow/internal/cli/days"
	"github.com/julianstephens/pdcaflow/internal/cli/pool"
	"github.com/julianstephens/pdcaflow/internal/cli/system"
	"github.com/julianstephens/pdcaflow/internal/cli/weeks"
	"github.com/julianstephens/pdcaflow/internal/config"
	"github.com/julianstephens/pdcaflow/internal/constants"
	"github.com/julianstephens/pdcaflow/internal/errors"
	"github.com/julianstephens/pdcaflow/internal/logger"
	"github.com/julianstephens/pdcaflow/internal/storage"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Path to config.toml." type:"path" default:"${config_file}"`
	Database string `help:"Override the database from the config: SQLite path, PostgreSQL connection string (no password), keyring or file://dir."`
	Debug    bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize pdcaflow storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive day view." default:"withargs"`
	Day      days.DayCmd        `cmd:"" help:"Show the Plan/Do/Check grid of a day."`
	Split    days.SplitCmd      `cmd:"" help:"Insert a block inside an existing one."`
	Merge    days.MergeCmd      `cmd:"" help:"Merge the next block into a run."`
	Unmerge  days.UnmergeCmd    `cmd:"" help:"Release the last block of a run."`
	Primary  days.PrimaryCmd    `cmd:"" help:"Set the primary tasks of a day."`
	Reset    days.ResetCmd      `cmd:"" help:"Discard a day and lay it out again."`
	Act      days.ActCmd        `cmd:"" help:"Close a day: summary plus tomorrow's primary tasks."`
	Validate days.ValidateCmd   `cmd:"" help:"Check a stored day for grid inconsistencies."`
	Edit     struct {
		Plan  days.EditPlanCmd  `cmd:"" help:"Edit the Plan cell of a block."`
		Do    days.EditDoCmd    `cmd:"" help:"Record what happened in a block."`
		Check days.EditCheckCmd `cmd:"" help:"Rate and tag a block."`
	} `cmd:"" help:"Edit a block."`
	Week struct {
		Show   weeks.WeekShowCmd   `cmd:"" help:"Show a weekly plan." default:"withargs"`
		Set    weeks.WeekSetCmd    `cmd:"" help:"Set the theme or summary of a week."`
		Preset weeks.WeekPresetCmd `cmd:"" help:"Preset the primary tasks of a day."`
		Import weeks.WeekImportCmd `cmd:"" help:"Import a weekly plan from YAML."`
		Export weeks.WeekExportCmd `cmd:"" help:"Export a weekly plan as YAML."`
	} `cmd:"" help:"Manage weekly plans."`
	Bio struct {
		Show bio.BioShowCmd `cmd:"" help:"Show the bio clock." default:"1"`
		Set  bio.BioSetCmd  `cmd:"" help:"Change the bio clock and re-pin today and later days."`
		Form bio.BioFormCmd `cmd:"" help:"Edit the bio clock interactively."`
	} `cmd:"" help:"Manage sleep and meal times."`
	Pool struct {
		Add    pool.PoolAddCmd    `cmd:"" help:"Add a task to the pool."`
		List   pool.PoolListCmd   `cmd:"" help:"List pooled tasks." default:"1"`
		Done   pool.PoolDoneCmd   `cmd:"" help:"Mark a task as done."`
		Remove pool.PoolRemoveCmd `cmd:"" help:"Remove a task."`
	} `cmd:"" help:"Manage the task pool."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Settings struct {
		SetConnection    system.SetConnectionCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		ShowConnection   system.ShowConnectionCmd   `cmd:"" help:"Show the stored connection string with the password masked."`
		DeleteConnection system.DeleteConnectionCmd `cmd:"" help:"Delete the stored connection string."`
		KeyringStatus    system.ConnectionStatusCmd `cmd:"" help:"Check that the OS keyring is available."`
	} `cmd:"" name:"config" help:"Manage configuration and credentials."`
}

// skipsLoad lists commands that open the store themselves or must work without it.
func skipsLoad(command string) bool {
	for _, prefix := range []string{"init", "doctor"} {
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}

func main() {
	vars := kong.Vars{
		"version":     constants.Version,
		"config_file": constants.DefaultConfigFile,
	}
	for k, v := range weeks.Vars {
		vars[k] = v
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Plan-Do-Check-Act daily planner on a time-block grid"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		vars,
	)

	cfg, err := config.LoadOrCreate(CLI.Config)
	errors.Fatal(err)
	if CLI.Database != "" {
		cfg.Database = CLI.Database
	}

	errors.Fatal(logger.Init(logger.Config{Debug: cfg.Debug || CLI.Debug, ConfigDir: cfg.Dir()}))
	command := ctx.Command()
	logger.Debug("starting", "command", command, "config", cfg.Path())

	var store storage.Provider
	closeStore := func() {
		if store != nil {
			store.Close()
		}
	}
	// config commands manage the credentials the store needs, so they run without one.
	if !strings.HasPrefix(command, "config") {
		store, err = cli.OpenStore(cfg.Database)
		errors.Fatal(err)
	}
	defer closeStore()

	appCtx, err := cli.NewContext(cfg, store)
	if err != nil {
		closeStore()
		errors.Fatal(err)
	}

	if store != nil && !skipsLoad(command) {
		if err := store.Load(); err != nil {
			closeStore()
			errors.Fatal(err)
		}
		if !strings.HasPrefix(command, "backup") {
			appCtx.PerformAutomaticBackup()
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		closeStore()
		errors.Fatal(err)
	}
}
