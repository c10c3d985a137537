package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/toddlerya/schoolrecords/model"
	"github.com/toddlerya/schoolrecords/predictor"
	"gorm.io/gorm"
)

var errExit = errors.New("exit requested")

// Menu is the interactive loop over one open store.
type Menu struct {
	db        *gorm.DB
	predictor *predictor.Predictor
	recordOpt []model.RecordOption
	in        *bufio.Scanner
	out       io.Writer
}

func NewMenu(db *gorm.DB, p *predictor.Predictor, strictRefs bool, in io.Reader, out io.Writer) *Menu {
	m := &Menu{
		db:        db,
		predictor: p,
		in:        bufio.NewScanner(in),
		out:       out,
	}
	if strictRefs {
		m.recordOpt = append(m.recordOpt, model.WithStrictReferences())
	}
	return m
}

// Run shows the menu until the user exits or the input is exhausted.
func (m *Menu) Run() error {
	for {
		m.displayMenu()
		choice, err := m.readLine()
		if err != nil {
			return ignoreEOF(err)
		}

		err = m.handleMenuChoice(strings.TrimSpace(choice))
		switch {
		case err == nil:
		case errors.Is(err, errExit):
			fmt.Fprintln(m.out, "Exiting...")
			return nil
		case errors.Is(err, io.EOF):
			return nil
		default:
			color.New(color.FgRed).Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (m *Menu) handleMenuChoice(choice string) error {
	switch choice {
	case "1":
		return m.addStudent()
	case "2":
		return m.listStudents()
	case "3":
		return m.addScore()
	case "4":
		return m.listScores()
	case "5":
		return m.predictScores()
	case "6":
		return errExit
	default:
		color.New(color.FgYellow).Fprintln(m.out, "Invalid choice. Please try again.")
		return nil
	}
}

func (m *Menu) displayMenu() {
	color.New(color.FgCyan).Fprintln(m.out, "\nSchool Management System with AI")
	fmt.Fprintln(m.out, "1. Add Student")
	fmt.Fprintln(m.out, "2. List Students")
	fmt.Fprintln(m.out, "3. Add Score")
	fmt.Fprintln(m.out, "4. List Scores")
	fmt.Fprintln(m.out, "5. Predict Scores")
	fmt.Fprintln(m.out, "6. Exit")
	fmt.Fprint(m.out, "Enter your choice: ")
}

func (m *Menu) readLine() (string, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return m.in.Text(), nil
}

func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	return m.readLine()
}

func (m *Menu) promptInt(label string) (int, error) {
	s, err := m.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}

func (m *Menu) addStudent() error {
	var student model.Student
	var err error
	if student.Name, err = m.prompt("Enter student's name: "); err != nil {
		return err
	}
	if student.Age, err = m.promptInt("Enter student's age: "); err != nil {
		return err
	}
	if student.Gender, err = m.prompt("Enter student's gender: "); err != nil {
		return err
	}
	if student.Grade, err = m.prompt("Enter student's grade: "); err != nil {
		return err
	}

	id, err := model.AddStudent(m.db, &student)
	if err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(m.out, "Student added successfully with ID %d.\n", id)
	return nil
}

func (m *Menu) addScore() error {
	studentID, err := m.promptInt("Enter student ID: ")
	if err != nil {
		return err
	}
	subject, err := m.prompt("Enter subject: ")
	if err != nil {
		return err
	}
	value, err := m.promptInt("Enter score: ")
	if err != nil {
		return err
	}

	score := model.Score{StudentID: int64(studentID), Subject: subject, Score: value}
	if _, err := model.AddScore(m.db, &score, m.recordOpt...); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintln(m.out, "Score added successfully.")
	return nil
}

func (m *Menu) listStudents() error {
	students, err := model.ListStudents(m.db)
	if err != nil {
		return err
	}
	renderStudents(m.out, students)
	return nil
}

func (m *Menu) listScores() error {
	scores, err := model.ListScores(m.db)
	if err != nil {
		return err
	}
	renderScores(m.out, scores)
	return nil
}

func (m *Menu) predictScores() error {
	studentID, err := m.promptInt("Enter student ID: ")
	if err != nil {
		return err
	}

	report, err := m.predictor.Predict(int64(studentID))
	if errors.Is(err, predictor.ErrNoScores) {
		color.New(color.FgYellow).Fprintln(m.out, "No scores found for the given student ID.")
		return nil
	}
	if report != nil {
		renderReport(m.out, report)
	}
	return err
}

func renderStudents(w io.Writer, students []model.Student) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Age", "Gender", "Grade"})
	for _, s := range students {
		table.Append([]string{
			strconv.FormatInt(s.ID, 10),
			s.Name,
			strconv.Itoa(s.Age),
			s.Gender,
			s.Grade,
		})
	}
	table.Render()
}

func renderScores(w io.Writer, scores []model.Score) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Student ID", "Subject", "Score"})
	for _, s := range scores {
		table.Append([]string{
			strconv.FormatInt(s.ID, 10),
			strconv.FormatInt(s.StudentID, 10),
			s.Subject,
			strconv.Itoa(s.Score),
		})
	}
	table.Render()
}

func renderReport(w io.Writer, r *predictor.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Subject", "Actual", "Predicted"})
	for i, code := range r.TestCodes {
		table.Append([]string{
			r.Categories[int(code)],
			strconv.FormatFloat(r.Actual[i], 'f', -1, 64),
			strconv.FormatFloat(r.Predicted[i], 'f', 2, 64),
		})
	}
	table.Render()

	fmt.Fprintf(w, "Mean Squared Error: %v\n", r.MSE)
	if r.PlotPath != "" {
		fmt.Fprintf(w, "Plot saved to %s\n", r.PlotPath)
	}
}
