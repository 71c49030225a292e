package repomanager

import (
	"context"
	"database/sql"

	"github.com/Ayash13/Antivity/internal/dbx"
	"github.com/Ayash13/Antivity/internal/server/repositories/follows"
	"github.com/Ayash13/Antivity/internal/server/repositories/missions"
	"github.com/Ayash13/Antivity/internal/server/repositories/posts"
	"github.com/Ayash13/Antivity/internal/server/repositories/sessions"
	"github.com/Ayash13/Antivity/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Missions(db dbx.DBTX) missions.Repository
	Posts(db dbx.DBTX) posts.Repository
	Follows(db dbx.DBTX) follows.Repository
}
