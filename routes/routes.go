package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/handlers"
	"github.com/lizet96/clinic-registry/middleware"
)

// Options tune the middleware stack.
type Options struct {
	Logger      zerolog.Logger
	Environment string
	CORSOrigins string
	RateLimit   middleware.RateLimitConfig
	BodyLimit   int
}

// NewApp builds the Fiber app with every route and the JSON error and 404 handlers.
func NewApp(h *handlers.Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
		AppName: "Clinic Registry API v" + handlers.Version,
	})

	SetupRoutes(app, h, opts)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Route not found",
			"message": "The requested route does not exist on this server",
			"path":    c.Path(),
			"method":  c.Method(),
		})
	})

	return app
}

// SetupRoutes registers the middleware stack and every route.
func SetupRoutes(app *fiber.App, h *handlers.Handler, opts Options) {
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(middleware.LoggingMiddleware(opts.Logger, opts.Environment))
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.BodySizeLimit(opts.BodyLimit))

	// one limiter shared by every mutation route
	limit := middleware.CreateRateLimiter(opts.RateLimit)

	app.Get("/health", h.Health)

	// whole-list access
	app.Get("/db", h.ListDoctors)
	app.Post("/db", limit, h.ReplaceDoctors)

	doctors := app.Group("/doctors")
	doctors.Get("/", h.ListDoctors)
	doctors.Post("/add", limit, h.AddDoctor)
	doctors.Delete("/delete", limit, h.DeleteDoctorByName)
	doctors.Put("/edit", limit, h.EditDoctorByName)
	doctors.Get("/:id", h.GetDoctor)
	doctors.Put("/:id", limit, h.UpdateDoctor)
	doctors.Delete("/:id", limit, h.DeleteDoctor)

	// filters
	app.Get("/specialty/:specialty", h.DoctorsBySpecialty)
	app.Get("/patient/:lastName", h.DoctorsByPatient)
	app.Get("/room/:room", h.DoctorsByRoom)
	app.Get("/rooms/:specialty", h.RoomsBySpecialty)

	// statistics
	app.Get("/top-specialties", h.TopSpecialties)
	app.Get("/top-doctors", h.TopDoctors)
	app.Get("/least-busy", h.LeastBusy)
	app.Get("/statistics", h.Statistics)
}
