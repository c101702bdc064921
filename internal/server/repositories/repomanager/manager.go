package repomanager

import (
	"context"
	"database/sql"

	"github.com/TrisanthBST/speech-to-text-backend/internal/dbx"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/refreshtokens"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/transcripts"
	"github.com/TrisanthBST/speech-to-text-backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Transcripts(db dbx.DBTX) transcripts.Repository
}
