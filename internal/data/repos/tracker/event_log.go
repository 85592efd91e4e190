package tracker

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/jobtrack-backend/internal/domain"
	"github.com/yungbote/jobtrack-backend/internal/platform/dbctx"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

// StatusHistoryRepo is append-only: there is no update or delete of single entries.
// Entries are read back with the application load, ordered by seq.
type StatusHistoryRepo interface {
	Append(dbc dbctx.Context, entry *types.StatusHistoryEntry) error
}

// CommunicationRepo is append-only.
type CommunicationRepo interface {
	Append(dbc dbctx.Context, comm *types.Communication) error
}

type statusHistoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatusHistoryRepo(db *gorm.DB, baseLog *logger.Logger) StatusHistoryRepo {
	return &statusHistoryRepo{db: db, log: baseLog.With("repo", "StatusHistoryRepo")}
}

func (r *statusHistoryRepo) Append(dbc dbctx.Context, entry *types.StatusHistoryEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(entry).Error
}

type communicationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommunicationRepo(db *gorm.DB, baseLog *logger.Logger) CommunicationRepo {
	return &communicationRepo{db: db, log: baseLog.With("repo", "CommunicationRepo")}
}

func (r *communicationRepo) Append(dbc dbctx.Context, comm *types.Communication) error {
	if comm.ID == uuid.Nil {
		comm.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(comm).Error
}
