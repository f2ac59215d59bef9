// Package history keeps a journal of every round the automaton plays, in SQLite.
package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Round is one entered sequence
type Round struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID  string `gorm:"column:session_id;not null;index"`
	Build      int    `gorm:"column:build;not null;default:0"`
	Version    string `gorm:"column:version_status;not null;default:''"`
	Source     string `gorm:"column:source;not null;default:''"`
	Keys       string `gorm:"column:keys;not null;default:''"`
	Rarity     uint8  `gorm:"column:rarity;not null;default:0"`
	Outcome    string `gorm:"column:outcome;not null;default:''"`
	DurationMS int64  `gorm:"column:duration_ms;not null;default:0"`
	CreatedAt  int64  `gorm:"column:created_at;not null;default:0"`
}

func (Round) TableName() string { return "rounds" }

const (
	OutcomeEntered = "entered"
	OutcomeTimeout = "timeout"
	OutcomeAborted = "aborted"
)

// Journal appends rounds of one automaton session
type Journal struct {
	db        *gorm.DB
	sessionID string
}

// Open opens or creates the journal database at path and starts a new session
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if err := prepare(gdb); err != nil {
		sqlDB.Close()
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &Journal{db: gdb, sessionID: uuid.NewString()}, nil
}

func prepare(gdb *gorm.DB) error {
	if err := gdb.Exec(`PRAGMA journal_mode=WAL;`).Error; err != nil {
		return err
	}
	if err := gdb.Exec(`PRAGMA busy_timeout=5000;`).Error; err != nil {
		return err
	}
	return gdb.AutoMigrate(&Round{})
}

// SessionID identifies the rounds written through this journal
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Record stores r under the journal's session
func (j *Journal) Record(ctx context.Context, r Round) error {
	r.ID = 0
	r.SessionID = j.sessionID
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UnixMilli()
	}
	return j.db.WithContext(ctx).Create(&r).Error
}

// Recent returns up to limit rounds, newest first. An empty sessionID means every session.
func (j *Journal) Recent(ctx context.Context, sessionID string, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 20
	}
	q := j.db.WithContext(ctx).Model(&Round{})
	if sessionID != "" {
		q = q.Where("session_id = ?", sessionID)
	}

	var rounds []Round
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rounds).Error
	return rounds, err
}

// Summary counts rounds per outcome
type Summary struct {
	Sessions int64
	Rounds   int64
	Outcomes map[string]int64
}

func (j *Journal) Summarize(ctx context.Context) (Summary, error) {
	s := Summary{Outcomes: map[string]int64{}}

	db := j.db.WithContext(ctx).Model(&Round{})
	if err := db.Count(&s.Rounds).Error; err != nil {
		return Summary{}, err
	}
	if err := j.db.WithContext(ctx).Model(&Round{}).Distinct("session_id").Count(&s.Sessions).Error; err != nil {
		return Summary{}, err
	}

	var rows []struct {
		Outcome string
		N       int64
	}
	if err := j.db.WithContext(ctx).Model(&Round{}).
		Select("outcome, COUNT(1) AS n").
		Group("outcome").
		Scan(&rows).Error; err != nil {
		return Summary{}, err
	}
	for _, row := range rows {
		s.Outcomes[row.Outcome] = row.N
	}
	return s, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
