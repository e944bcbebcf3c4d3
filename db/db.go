package db

import "embed"

// Migrations — SQL-миграции схемы локального кэша в PostgreSQL.
//
//go:embed migrations/*.sql
var Migrations embed.FS
