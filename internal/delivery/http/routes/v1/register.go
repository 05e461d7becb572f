package v1

import (
	"roleready/internal/delivery/http/handler"
	"roleready/internal/delivery/http/middleware"
	"roleready/internal/domain/user"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Auth       *middleware.AuthMiddleware
	AuthH      *handler.AuthHandler
	Users      *handler.UserHandler
	Skills     *handler.SkillHandler
	Roles      *handler.RoleHandler
	UserSkills *handler.UserSkillHandler
	TargetRole *handler.TargetRoleHandler
	Readiness  *handler.ReadinessHandler
	Mentor     *handler.MentorHandler
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	d.AuthH.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("", d.Auth.Middleware())

	d.Users.RegisterRoutes(protected.Group("/users"))
	d.Skills.RegisterRoutes(protected)
	d.Roles.RegisterRoutes(protected)
	d.UserSkills.RegisterRoutes(protected)
	d.TargetRole.RegisterRoutes(protected)
	d.Readiness.RegisterRoutes(protected)

	mentor := protected.Group("/mentor", middleware.RequireRole(user.RoleMentor, user.RoleAdmin))
	d.Mentor.RegisterRoutes(mentor)

	admin := protected.Group("/admin", middleware.RequireRole(user.RoleAdmin))
	d.Skills.RegisterAdminRoutes(admin)
	d.Roles.RegisterAdminRoutes(admin)
	d.Readiness.RegisterAdminRoutes(admin)
}
