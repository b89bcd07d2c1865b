package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lizet96/clinic-registry/client"
	"github.com/lizet96/clinic-registry/console"
	"github.com/lizet96/clinic-registry/models"
)

// openSession builds a session against the configured API and loads the list.
func openSession(cmd *cobra.Command) (*console.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := cfg.LoggerTo(cmd.ErrOrStderr())
	api := client.New(cfg.APIURL, client.WithTimeout(cfg.ClientTimeout))
	session := console.NewSession(api, console.NewNotifier(cmd.OutOrStdout(), logger), logger)
	if err := session.Load(cmd.Context()); err != nil {
		_ = console.RenderSession(cmd.OutOrStdout(), session)
		return nil, err
	}
	return session, nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all doctors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			return console.RenderSession(cmd.OutOrStdout(), session)
		},
	}
}

func addCmd() *cobra.Command {
	var (
		surname, name, room, specialty string
		patients                       []string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parsePatients(patients)
			if err != nil {
				return err
			}
			session, err := openSession(cmd)
			if err != nil {
				return err
			}

			form := console.NewForm(session)
			form.BeginAdd()
			fields := map[string]string{"surname": surname, "name": name, "room": room, "specialty": specialty}
			for _, field := range []string{"surname", "name", "room", "specialty"} {
				if err := form.SetField(field, fields[field]); err != nil {
					return err
				}
			}
			if err := appendPatients(form, parsed); err != nil {
				return err
			}
			return form.Submit(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&surname, "surname", "", "doctor surname")
	cmd.Flags().StringVar(&name, "name", "", "doctor first name")
	cmd.Flags().StringVar(&room, "room", "", "room number")
	cmd.Flags().StringVar(&specialty, "specialty", "", "specialty")
	cmd.Flags().StringArrayVar(&patients, "patient", nil, "patient as LastName:Diagnosis (repeatable)")
	return cmd
}

func editCmd() *cobra.Command {
	var (
		surname, name, room, specialty string
		patients                       []string
		clearPatients                  bool
	)
	cmd := &cobra.Command{
		Use:   "edit <surname> <name>",
		Short: "Edit the first doctor with the given surname and name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parsePatients(patients)
			if err != nil {
				return err
			}
			session, err := openSession(cmd)
			if err != nil {
				return err
			}

			target, ok := findDoctor(session.Doctors(), args[0], args[1])
			if !ok {
				return fmt.Errorf("doctor %s %s not found", args[0], args[1])
			}

			form := console.NewForm(session)
			form.BeginEdit(target)
			flags := cmd.Flags()
			for field, value := range map[string]string{"surname": surname, "name": name, "room": room, "specialty": specialty} {
				if !flags.Changed(field) {
					continue
				}
				if err := form.SetField(field, value); err != nil {
					return err
				}
			}
			if clearPatients {
				for len(form.Draft().Patients) > 0 {
					if err := form.RemovePatient(0); err != nil {
						return err
					}
				}
			}
			if err := appendPatients(form, parsed); err != nil {
				return err
			}
			return form.Submit(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&surname, "surname", "", "new surname")
	cmd.Flags().StringVar(&name, "name", "", "new first name")
	cmd.Flags().StringVar(&room, "room", "", "new room number")
	cmd.Flags().StringVar(&specialty, "specialty", "", "new specialty")
	cmd.Flags().StringArrayVar(&patients, "patient", nil, "append patient as LastName:Diagnosis (repeatable)")
	cmd.Flags().BoolVar(&clearPatients, "clear-patients", false, "remove existing patients before appending")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <surname> <name>",
		Short: "Delete every doctor with the given surname and name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			return session.Delete(cmd.Context(), args[0], args[1])
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <specialty|patient|room> <term>",
		Short: "Search doctors by specialty, patient last name or room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := console.ParseSearchKind(args[0])
			if err != nil {
				return err
			}
			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			search := console.NewSearchForm(session)
			search.Kind = kind
			search.Term = args[1]
			return console.RenderSearchResults(cmd.OutOrStdout(), search.Submit())
		},
	}
}

func roomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms <specialty>",
		Short: "List the rooms used by a specialty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			return console.RenderRooms(cmd.OutOrStdout(), args[0], session.RoomsBySpecialty(args[0]))
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show specialty and doctor statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := openSession(cmd)
			if err != nil {
				return err
			}
			return console.RenderStatistics(cmd.OutOrStdout(), session.Statistics())
		},
	}
}

func findDoctor(doctors []models.Doctor, surname, name string) (models.Doctor, bool) {
	for _, d := range doctors {
		if d.Surname == surname && d.Name == name {
			return d, true
		}
	}
	return models.Doctor{}, false
}

// parsePatients reads LastName:Diagnosis pairs.
func parsePatients(raw []string) ([]models.Patient, error) {
	patients := make([]models.Patient, 0, len(raw))
	for _, entry := range raw {
		lastName, diagnosis, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("patient %q: want LastName:Diagnosis", entry)
		}
		patients = append(patients, models.Patient{
			LastName:  strings.TrimSpace(lastName),
			Diagnosis: strings.TrimSpace(diagnosis),
		})
	}
	return patients, nil
}

func appendPatients(form *console.Form, patients []models.Patient) error {
	for _, p := range patients {
		i, err := form.AddPatient()
		if err != nil {
			return err
		}
		if err := form.SetPatient(i, "last_name", p.LastName); err != nil {
			return err
		}
		if err := form.SetPatient(i, "diagnosis", p.Diagnosis); err != nil {
			return err
		}
	}
	return nil
}
