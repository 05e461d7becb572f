package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"roleready/internal/config"
	"roleready/internal/database"
	"roleready/internal/database/migration"
	dbpostgres "roleready/internal/database/postgres"
	"roleready/internal/database/seeder"
	"roleready/internal/infrastructure/cache"
	"roleready/internal/infrastructure/persistence/postgres"
	"roleready/internal/pkg/jwt"
	"roleready/internal/repository"
	"roleready/internal/usecase"
	useruc "roleready/internal/usecase/user"
	"roleready/internal/ws"
	"roleready/migrations"
)

// Container owns long-lived dependencies shared by the HTTP server and the
// operator CLI.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Redis  *cache.Redis
	JWT    *jwt.HMACService
	Hub    *ws.Hub

	Auth       *usecase.Auth
	Users      *useruc.Service
	Skills     *usecase.Skill
	Roles      *usecase.Role
	UserSkills *usecase.UserSkill
	TargetRole *usecase.TargetRole
	Validation *usecase.Validation
	Readiness  *usecase.Readiness

	stopHub context.CancelFunc
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Logger: logger, DB: db}

	if cfg.Database.RunMigrations {
		if err := c.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if cfg.Database.RunSeeders {
		if err := c.Seed(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessExpiresIn, cfg.JWT.RefreshExpiresIn)

	hubCtx, stopHub := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger)
	c.stopHub = stopHub
	go c.Hub.Run(hubCtx)

	users := postgres.NewUserRepository(db)
	skills := repository.NewPostgresSkillRepository(db)
	roles := repository.NewPostgresRoleRepository(db)
	userSkills := repository.NewPostgresUserSkillRepository(db)
	targets := repository.NewPostgresTargetRoleRepository(db)
	snapshots := repository.NewPostgresSnapshotRepository(db)

	rc := cfg.Readiness
	c.Auth = usecase.NewAuthUsecase(users, c.JWT)
	c.Users = useruc.NewService(users)
	c.Skills = usecase.NewSkillUsecase(skills, logger)
	c.Roles = usecase.NewRoleUsecase(roles, skills, c.Redis, rc.RoleCacheTTL, logger)
	c.UserSkills = usecase.NewUserSkillUsecase(userSkills, skills, logger)
	c.TargetRole = usecase.NewTargetRoleUsecase(targets, roles, c.Redis, rc.RoleCacheTTL, logger)
	c.Validation = usecase.NewValidationUsecase(userSkills, ws.NewNotifier(c.Hub), logger)
	c.Readiness = usecase.NewReadinessUsecase(usecase.ReadinessDeps{
		TargetRoles:  targets,
		Roles:        roles,
		UserSkills:   userSkills,
		Snapshots:    snapshots,
		Cache:        c.Redis,
		Locker:       c.Redis,
		Logger:       logger,
		Cooldown:     rc.Cooldown,
		LockTTL:      rc.LockTTL,
		RoleCacheTTL: rc.RoleCacheTTL,
		HistoryLimit: rc.HistoryLimit,
	})

	return c, nil
}

func (c *Container) migrationRunner() migration.Runner {
	return migration.Runner{FS: migrations.FS, Logger: c.Logger}
}

func (c *Container) Migrate(ctx context.Context) error {
	if err := c.migrationRunner().Run(ctx, c.DB.SQLDB()); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

func (c *Container) MigrationStatus(ctx context.Context) ([]migration.Status, error) {
	return c.migrationRunner().Status(ctx, c.DB.SQLDB())
}

func (c *Container) Seed(ctx context.Context) error {
	r := seeder.Runner{Seeders: seeder.Defaults()}
	if err := r.Run(ctx, c.DB); err != nil {
		return fmt.Errorf("run seeders: %w", err)
	}
	return nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stopHub != nil {
		c.stopHub()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
