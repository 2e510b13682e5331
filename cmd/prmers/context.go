package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"github.com/Artoria2e5/PrMers/internal/cofactor"
	"github.com/Artoria2e5/PrMers/internal/config"
	"github.com/Artoria2e5/PrMers/internal/history"
	"github.com/Artoria2e5/PrMers/internal/logging"
	"github.com/Artoria2e5/PrMers/internal/worktodo"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// newParser wires the worktodo parser with the configured base policy and
// the Mersenne cofactor validator.
func (c *commandContext) newParser() (*worktodo.Parser, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return worktodo.New(worktodo.Options{
		Path:        cfg.Paths.WorktodoFile,
		ArchivePath: cfg.Paths.ArchiveFile,
		PRPBases:    cfg.PRPBases(),
		Validator:   worktodo.ValidatorFunc(cofactor.ValidateFactors),
		Logger:      c.ensureLogger(),
	}), nil
}

// withQueueLock serializes queue-file mutation across processes. The parser
// core performs no locking; single-owner access is enforced here.
func (c *commandContext) withQueueLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock := flock.New(cfg.LockFile())
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire queue lock: %w", err)
	}
	if !ok {
		return errors.New("another prmers process holds the queue lock")
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

func (c *commandContext) withStore(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
