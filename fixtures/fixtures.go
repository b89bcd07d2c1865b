// Package fixtures generates random demo doctors for seeding a clinic backend.
package fixtures

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/lizet96/clinic-registry/models"
)

const (
	// DefaultCount is the number of doctors generated when none is requested.
	DefaultCount = 75
	// DefaultFile is where WriteFile output goes when no path is given.
	DefaultFile = "medical_system_data.json"
	// MaxRoom is the highest room number handed out.
	MaxRoom = 50
	// MaxPatients is the exclusive upper bound of patients per doctor.
	MaxPatients = 10
)

var (
	firstNames = []string{"Александр", "Сергей", "Дмитрий", "Андрей", "Алексей", "Максим", "Евгений",
		"Иван", "Михаил", "Даниил", "Артем", "Николай", "Владимир", "Павел", "Егор", "Илья", "Роман",
		"Виктор", "Тимофей"}

	lastNames = []string{"Смирнов", "Иванов", "Кузнецов", "Соколов", "Попов", "Лебедев", "Козлов",
		"Новиков", "Морозов", "Петров", "Волков", "Соловьев", "Васильев", "Зайцев", "Павлов", "Семенов",
		"Голубев", "Виноградов", "Богданов", "Воробьев"}

	patientNames = []string{"Антонов", "Тарасов", "Белов", "Комаров", "Орлов", "Киселев", "Макаров",
		"Андреев", "Ковалев", "Ильин", "Гусев", "Титов", "Кузьмин", "Кудрявцев", "Баранов", "Куликов",
		"Алексеев", "Степанов", "Яковлев", "Сорокин"}

	specialties = []string{"Терапевт", "Хирург", "Педиатр", "Офтальмолог", "Невролог", "Кардиолог",
		"Эндокринолог", "Гастроэнтеролог", "Дерматолог", "Ортопед", "Уролог", "Гинеколог",
		"Отоларинголог", "Психиатр", "Онколог"}

	diagnoses = []string{"Грипп", "Гипертония", "Гастрит", "Бронхит", "Артрит", "Мигрень", "Диабет",
		"Астма", "Аллергия", "Пневмония", "Ангина", "Отит", "Конъюнктивит", "Дерматит", "Остеохондроз"}
)

// Generator produces random doctors from a fixed set of name pools.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed. The same seed always yields the same doctors.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Doctors returns count random doctors with 0..MaxPatients-1 patients each.
// IDs are left empty; the backend assigns them on insert.
func (g *Generator) Doctors(count int) []models.Doctor {
	if count < 0 {
		count = 0
	}
	doctors := make([]models.Doctor, 0, count)
	for i := 0; i < count; i++ {
		doctors = append(doctors, models.Doctor{
			Name:      g.pick(firstNames),
			Surname:   g.pick(lastNames),
			Specialty: g.pick(specialties),
			Room:      models.RoomFromInt(g.rng.Intn(MaxRoom) + 1),
			Patients:  g.Patients(g.rng.Intn(MaxPatients)),
		})
	}
	return doctors
}

// Patients returns count random patients.
func (g *Generator) Patients(count int) []models.Patient {
	patients := make([]models.Patient, 0, count)
	for i := 0; i < count; i++ {
		patients = append(patients, models.Patient{
			LastName:  g.pick(patientNames),
			Diagnosis: g.pick(diagnoses),
		})
	}
	return patients
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

// Encode renders doctors as two-space indented JSON.
func Encode(doctors []models.Doctor) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doctors); err != nil {
		return nil, fmt.Errorf("encode doctors: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes doctors to path as indented JSON.
func WriteFile(path string, doctors []models.Doctor) error {
	data, err := Encode(doctors)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixtures to %s: %w", path, err)
	}
	return nil
}

// ReadFile loads doctors previously written by WriteFile.
func ReadFile(path string) ([]models.Doctor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures from %s: %w", path, err)
	}
	var doctors []models.Doctor
	if err := json.Unmarshal(data, &doctors); err != nil {
		return nil, fmt.Errorf("decode fixtures from %s: %w", path, err)
	}
	return doctors, nil
}
