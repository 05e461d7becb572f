package app

import (
	"fmt"
	"strings"

	"roleready/internal/config"
	"roleready/internal/delivery/http/handler"
	"roleready/internal/delivery/http/middleware"
	"roleready/internal/delivery/http/routes"
	v1 "roleready/internal/delivery/http/routes/v1"
	"roleready/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger, "/health").Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	authMw := middleware.NewAuthMiddleware(c.JWT)

	var redisPinger handler.Pinger
	if c.Redis.Available() {
		redisPinger = c.Redis
	}

	registry := routes.NewRegistry(
		handler.NewHealthHandler(c.DB, redisPinger),
		ws.NewHandler(c.Hub, authMw, c.Logger),
		v1.Deps{
			Auth:       authMw,
			AuthH:      handler.NewAuthHandler(c.Auth),
			Users:      handler.NewUserHandler(c.Users),
			Skills:     handler.NewSkillHandler(c.Skills),
			Roles:      handler.NewRoleHandler(c.Roles),
			UserSkills: handler.NewUserSkillHandler(c.UserSkills),
			TargetRole: handler.NewTargetRoleHandler(c.TargetRole),
			Readiness:  handler.NewReadinessHandler(c.Readiness),
			Mentor:     handler.NewMentorHandler(c.Validation),
		},
	)
	registry.Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
