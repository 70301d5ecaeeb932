package embedded

import "embed"

//go:embed "migrations/sqlite"
var SQLiteMigrations embed.FS

//go:embed "migrations/postgres/schema.sql"
var PostgresSchema string

//go:embed "bot/migrations"
var BotMigrations embed.FS
