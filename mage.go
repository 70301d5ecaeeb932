//go:build mage

package main

import (
	"database/sql"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	_ "github.com/mattn/go-sqlite3"

	sqlite3 "github.com/goserg/leaguerank/internal/migrate"
)

const (
	jetOutput                = "gen"
	jetBotOutput             = "bot/gen"
	jetBotSchemaFileLocation = "jet-bot-schema.sqlite"
	sqliteLeagueFileLocation = "league.sqlite"
	sqliteBotFileLocation    = "bot.sqlite"
	jetSchemaFileLocation    = "jet-schema.sqlite"
	serverBin                = "./bin/server"
	defaultConfigPath        = "configs/league.toml"
)

const (
	toolsDir     = "tools/"
	toolsModfile = toolsDir + "go.mod"
	toolsBinDir  = toolsDir + "bin/"
	lintTool     = toolsBinDir + "golangci-lint"
	jetTool      = toolsBinDir + "jet"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds server binary
func Build() error {
	mg.Deps(goModDownload)
	return sh.Run("go", "build", "-o", serverBin, "./cmd")
}

// Run starts server
func Run() error {
	mg.Deps(Build)
	return sh.Run(serverBin, "-config", defaultConfigPath)
}

// Test runs unit tests. Postgres, Mongo and NATS tests run when
// LEAGUE_TEST_POSTGRES_DSN, LEAGUE_TEST_MONGO_URI and LEAGUE_TEST_NATS_URL are set.
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// GenJet regenerates the typed sqlite tables from the embedded migrations.
func GenJet() error {
	mg.Deps(buildJetTool)
	if err := migrateSchemaFile(); err != nil {
		return err
	}
	defer os.Remove(jetSchemaFileLocation)
	if err := sh.Run(jetTool, "-source", "sqlite", "-dsn", jetSchemaFileLocation, "-path", jetOutput, "-ignore-tables", "schema_migrations"); err != nil {
		return err
	}
	if err := migrateBotSchemaFile(); err != nil {
		return err
	}
	defer os.Remove(jetBotSchemaFileLocation)
	return sh.Run(jetTool, "-source", "sqlite", "-dsn", jetBotSchemaFileLocation, "-path", jetBotOutput, "-ignore-tables", "schema_migrations")
}

func migrateSchemaFile() error {
	return migrateFile(jetSchemaFileLocation, sqlite3.UpLeagueDB)
}

func migrateBotSchemaFile() error {
	return migrateFile(jetBotSchemaFileLocation, sqlite3.UpBotDB)
}

func migrateFile(file string, up func(db *sql.DB) error) error {
	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		return err
	}
	db, err := sql.Open("sqlite3", "file:"+file)
	if err != nil {
		return err
	}
	defer db.Close()
	return up(db)
}

func buildJetTool() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-modfile", toolsModfile, "-o", jetTool, "github.com/go-jet/jet/v2/cmd/jet")
}

func Lint() error {
	mg.Deps(buildLintTool)
	return sh.Run(lintTool, "run", "./...")
}

func buildLintTool() error {
	return sh.Run(
		"go", "build",
		"-modfile", toolsModfile,
		"-o", lintTool,
		"github.com/golangci/golangci-lint/cmd/golangci-lint",
	)
}

// Clean removes the local databases and build output.
func Clean() error {
	if err := sh.Rm(sqliteLeagueFileLocation); err != nil {
		return err
	}
	if err := sh.Rm(sqliteBotFileLocation); err != nil {
		return err
	}
	return sh.Rm("bin")
}
