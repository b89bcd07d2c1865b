package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// DoctorsBySpecialty filters by a case-insensitive specialty substring.
func (h *Handler) DoctorsBySpecialty(c *fiber.Ctx) error {
	doctors, err := h.svc.BySpecialty(c.UserContext(), param(c, "specialty"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctors)
}

// DoctorsByPatient returns doctors treating a patient whose last name contains the term.
func (h *Handler) DoctorsByPatient(c *fiber.Ctx) error {
	doctors, err := h.svc.ByPatient(c.UserContext(), param(c, "lastName"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctors)
}

// DoctorsByRoom returns the doctors seated in a room, sorted by surname.
func (h *Handler) DoctorsByRoom(c *fiber.Ctx) error {
	doctors, err := h.svc.ByRoom(c.UserContext(), param(c, "room"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctors)
}

func (h *Handler) RoomsBySpecialty(c *fiber.Ctx) error {
	rooms, err := h.svc.RoomsBySpecialty(c.UserContext(), param(c, "specialty"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(rooms)
}

func (h *Handler) TopSpecialties(c *fiber.Ctx) error {
	loads, err := h.svc.TopSpecialties(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(loads)
}

// TopDoctors returns doctors with more than five patients.
func (h *Handler) TopDoctors(c *fiber.Ctx) error {
	doctors, err := h.svc.TopDoctors(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctors)
}

func (h *Handler) LeastBusy(c *fiber.Ctx) error {
	doctors, err := h.svc.LeastBusy(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctors)
}

// Statistics returns every aggregate in one response.
func (h *Handler) Statistics(c *fiber.Ctx) error {
	stats, err := h.svc.Statistics(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(stats)
}
