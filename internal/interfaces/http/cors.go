package http

import "github.com/gofiber/fiber/v2"

// Headers que mandan los clientes de las funciones del dashboard (supabase-js).
const corsAllowHeaders = "authorization, x-client-info, apikey, content-type"

// CORS pone los headers permisivos en todas las respuestas y contesta OPTIONS con 200 vacío.
// El middleware cors de Fiber responde el preflight con 204 y solo agrega Allow-Headers ahí.
func CORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)
		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.Next()
	}
}
