package middleware

import (
	"github.com/gofiber/fiber/v2"
)

func (m *Middleware) RequireSupervisor() fiber.Handler {
	log := m.log.Function("RequireSupervisor")

	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			log.Info("user not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !user.IsSupervisor {
			log.Info("user is not a supervisor", "userID", user.ID, "employeeID", user.EmployeeID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Supervisor access required",
			})
		}

		return c.Next()
	}
}
