package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/config"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/logutil"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	redisClient "github.com/BubbleCoding/Spellfinder-PF1E/internal/platform/redis"
	sqliteClient "github.com/BubbleCoding/Spellfinder-PF1E/internal/platform/sqlite"
)

type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	logutil.Setup(cfg.Log)

	db, err := sqliteClient.New(ctx, cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.Spell{},
		&model.SpellClass{},
		&model.SpellCategory{},
		&model.Spellbook{},
		&model.SpellbookSpell{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	if err := sqliteClient.EnsureSearchIndex(db); err != nil {
		return nil, err
	}

	var redisCli *redis.Client
	if cfg.Redis.Enabled {
		redisCli, err = redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
	}

	return &App{
		Config:    cfg,
		DB:        db,
		Redis:     redisCli,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
