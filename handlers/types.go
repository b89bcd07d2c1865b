package handlers

import (
	"strings"

	"github.com/lizet96/clinic-registry/models"
)

// Messages returned to clients.
const (
	MsgInvalidList      = "Invalid data format. Expected a list."
	MsgDatabaseUpdated  = "Database updated successfully."
	MsgInvalidBody      = "Invalid request body"
	MsgInvalidID        = "Invalid doctor id"
	MsgDoctorNotFound   = "Doctor not found"
	MsgInternal         = "Internal server error"
	MsgDoctorAdded      = "Doctor added successfully"
	MsgDoctorUpdated    = "Doctor updated successfully"
	MsgDoctorDeleted    = "Doctor deleted successfully"
	MsgMissingDoctorKey = "surname and name are required"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
	Storage string `json:"storage"`
}

// DoctorResponse wraps a single doctor with a confirmation message.
type DoctorResponse struct {
	Message string        `json:"message"`
	Doctor  models.Doctor `json:"doctor"`
}

// DeleteResponse reports how many doctors a delete removed.
type DeleteResponse struct {
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

// ReplaceResponse is the body of POST /db.
type ReplaceResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// doctorKeyBody is the body of the name-addressed delete and edit routes.
// The last_name/first_name keys are what older clients send.
type doctorKeyBody struct {
	Surname   string              `json:"surname"`
	Name      string              `json:"name"`
	LastName  string              `json:"last_name"`
	FirstName string              `json:"first_name"`
	Updates   models.DoctorUpdate `json:"updates"`
}

func (b doctorKeyBody) key() (models.DoctorKey, bool) {
	key := models.DoctorKey{Surname: b.Surname, Name: b.Name}
	if key.Surname == "" {
		key.Surname = b.LastName
	}
	if key.Name == "" {
		key.Name = b.FirstName
	}
	ok := strings.TrimSpace(key.Surname) != "" && strings.TrimSpace(key.Name) != ""
	return key, ok
}
