package main

import (
	"github.com/spf13/cobra"

	"baseline_academy/internal/client"
	"baseline_academy/internal/domain/model"
)

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Add, search and show students",
	}
	cmd.AddCommand(newStudentsAddCmd(a), newStudentsSearchCmd(a), newStudentsShowCmd(a))
	return cmd
}

func newStudentsAddCmd(a *app) *cobra.Command {
	var in client.NewStudent
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			st, err := a.manager.AddStudent(cmd.Context(), in)
			if err != nil {
				return err
			}
			cmd.Printf("Added %s with roll number %s (id %s)\n", st.FullName, st.RollNumber, st.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.FullName, "name", "", "full name")
	f.StringVar(&in.Class, "class", "", "class, e.g. 10th")
	f.StringVar(&in.Section, "section", "", "section")
	f.StringVar(&in.RollNumber, "roll", "", "roll number (generated when empty)")
	f.StringVar(&in.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&in.Gender, "gender", "", "gender")
	f.StringVar(&in.FatherName, "father", "", "father's name")
	f.StringVar(&in.MotherName, "mother", "", "mother's name")
	f.StringVar(&in.ParentPhone, "phone", "", "parent phone")
	f.StringVar(&in.ParentEmail, "parent-email", "", "parent email")
	f.StringVar(&in.Address, "address", "", "address")
	f.StringVar(&in.AdmissionDate, "admitted", "", "admission date (YYYY-MM-DD)")
	f.StringVar(&in.BatchNo, "batch", "", "batch number")
	f.StringVar(&in.Note, "note", "", "note")
	return cmd
}

func newStudentsSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search by name, roll number, class or id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			q := ""
			if len(args) == 1 {
				q = args[0]
			}
			students, err := a.manager.SearchStudents(cmd.Context(), q)
			if err != nil {
				return err
			}
			return writeStudents(cmd, students)
		},
	}
}

func newStudentsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.restore(cmd); err != nil {
				return err
			}
			st, err := a.manager.Student(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			rows := [][]string{
				{"ID", st.ID},
				{"Name", st.FullName},
				{"Class", st.Class + " " + st.Section},
				{"Roll number", st.RollNumber},
				{"Date of birth", orDash(st.DateOfBirth)},
				{"Gender", st.Gender},
				{"Father", st.FatherName},
				{"Mother", orDash(st.MotherName)},
				{"Phone", st.ParentPhone},
				{"Email", orDash(st.ParentEmail)},
				{"Address", orDash(st.Address)},
				{"Admitted", st.AdmissionDate},
				{"Batch", st.BatchNo},
				{"Status", string(st.Status)},
			}
			return writeTable(cmd.OutOrStdout(), []string{"FIELD", "VALUE"}, rows)
		},
	}
}

func writeStudents(cmd *cobra.Command, students []model.Student) error {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.RollNumber, s.FullName, s.Class, orDash(s.Section), s.ParentPhone, string(s.Status), s.ID})
	}
	return writeTable(cmd.OutOrStdout(), []string{"ROLL", "NAME", "CLASS", "SECTION", "PHONE", "STATUS", "ID"}, rows)
}
