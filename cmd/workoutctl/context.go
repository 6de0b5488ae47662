package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"gorm.io/gorm"

	"alcyxob/workout-tracker/internal/auth"
	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/logging"
	"alcyxob/workout-tracker/internal/repository/gormstore"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error

	db *gorm.DB
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		path := "."
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadConfig(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// openStore connects and migrates; every command works on an up-to-date
// schema. Logs go to errOut so command output stays parseable.
func (c *commandContext) openStore(errOut io.Writer) (*gormstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if c.db == nil {
		logging.SetupWriter(cfg.Log, errOut)
		db, errOpen := gormstore.Open(cfg.Database, logging.GormLevel())
		if errOpen != nil {
			return nil, errOpen
		}
		if errMigrate := gormstore.Migrate(db); errMigrate != nil {
			_ = gormstore.Close(db)
			return nil, errMigrate
		}
		c.db = db
	}
	return gormstore.NewStore(c.db), nil
}

func (c *commandContext) authenticator() (auth.Authenticator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("jwt.secret must be set (JWT_SECRET)")
	}
	return auth.NewJWTAuthenticator(cfg.JWT.Secret, cfg.JWT.Expiration, cfg.JWT.Issuer)
}

func (c *commandContext) close() {
	if c.db == nil {
		return
	}
	_ = gormstore.Close(c.db)
	c.db = nil
}
