// Package handlers exposes the clinic registry over HTTP.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lizet96/clinic-registry/models"
	"github.com/lizet96/clinic-registry/services"
)

const Version = "1.0.0"

// Handler serves every route of the registry.
type Handler struct {
	svc    *services.ClinicService
	logger zerolog.Logger
}

func New(svc *services.ClinicService, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Health reports that the API is up and which storage backs it.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Message: "Clinic Registry API",
		Version: Version,
		Storage: h.svc.StoreKind(),
	})
}

// ListDoctors returns the whole list.
func (h *Handler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := h.svc.List(c.UserContext())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctors)
}

// ReplaceDoctors stores the request body as the whole list. The body must be a JSON array.
func (h *Handler) ReplaceDoctors(c *fiber.Ctx) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 || body[0] != '[' {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidList})
	}

	var doctors []models.Doctor
	if err := json.Unmarshal(body, &doctors); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   MsgInvalidList,
			"details": err.Error(),
		})
	}

	saved, err := h.svc.Replace(c.UserContext(), doctors)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(ReplaceResponse{Message: MsgDatabaseUpdated, Count: len(saved)})
}

// AddDoctor appends one doctor.
func (h *Handler) AddDoctor(c *fiber.Ctx) error {
	var doctor models.Doctor
	if err := c.BodyParser(&doctor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidBody})
	}

	added, err := h.svc.Add(c.UserContext(), doctor)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(DoctorResponse{Message: MsgDoctorAdded, Doctor: added})
}

// DeleteDoctorByName removes every doctor matching the body's surname and name.
func (h *Handler) DeleteDoctorByName(c *fiber.Ctx) error {
	var body doctorKeyBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidBody})
	}
	key, ok := body.key()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgMissingDoctorKey})
	}

	removed, err := h.svc.DeleteByName(c.UserContext(), key.Surname, key.Name)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DeleteResponse{Message: MsgDoctorDeleted, Deleted: removed})
}

// EditDoctorByName applies the body's updates to the first matching doctor.
func (h *Handler) EditDoctorByName(c *fiber.Ctx) error {
	var body doctorKeyBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidBody})
	}
	key, ok := body.key()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgMissingDoctorKey})
	}

	updated, err := h.svc.EditByName(c.UserContext(), key.Surname, key.Name, body.Updates)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DoctorResponse{Message: MsgDoctorUpdated, Doctor: updated})
}

// GetDoctor returns one doctor by ID.
func (h *Handler) GetDoctor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidID})
	}

	doctor, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(doctor)
}

// UpdateDoctor applies a partial update to one doctor by ID.
func (h *Handler) UpdateDoctor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidID})
	}

	var update models.DoctorUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidBody})
	}

	updated, err := h.svc.Update(c.UserContext(), id, update)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DoctorResponse{Message: MsgDoctorUpdated, Doctor: updated})
}

// DeleteDoctor removes one doctor by ID.
func (h *Handler) DeleteDoctor(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": MsgInvalidID})
	}

	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(DeleteResponse{Message: MsgDoctorDeleted, Deleted: 1})
}

// respondError maps service errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDoctorNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   MsgDoctorNotFound,
			"details": err.Error(),
		})
	case errors.Is(err, services.ErrInvalidDoctor):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   MsgInvalidBody,
			"details": err.Error(),
		})
	default:
		h.logger.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": MsgInternal})
	}
}

// param returns a path parameter with percent-escapes decoded, so
// non-ASCII specialties and surnames arrive intact.
func param(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
