package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/objectives/internal/cli/formatter"
	"github.com/alexanderramin/objectives/internal/domain"
)

// objectiveFields is the text form of an ObjectiveInput shared by flags and forms.
type objectiveFields struct {
	Title       string
	Description string
	Start       string
	End         string
	Status      string
	Parent      string
}

func fieldsFromInput(in domain.ObjectiveInput) objectiveFields {
	f := objectiveFields{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
	}
	if !in.StartDate.IsZero() {
		f.Start = in.StartDate.Format(domain.DateLayout)
	}
	if !in.EndDate.IsZero() {
		f.End = in.EndDate.Format(domain.DateLayout)
	}
	if in.ParentID != nil {
		f.Parent = strconv.FormatInt(*in.ParentID, 10)
	}
	return f
}

// toInput parses dates and the parent id. Blank dates stay zero so the
// service reports them as missing.
func (f objectiveFields) toInput() (domain.ObjectiveInput, error) {
	in := domain.ObjectiveInput{
		Title:       strings.TrimSpace(f.Title),
		Description: f.Description,
		Status:      strings.TrimSpace(f.Status),
	}
	var err error
	if s := strings.TrimSpace(f.Start); s != "" {
		if in.StartDate, err = domain.ParseDate(s); err != nil {
			return in, fmt.Errorf("start date %q: use YYYY-MM-DD", s)
		}
	}
	if s := strings.TrimSpace(f.End); s != "" {
		if in.EndDate, err = domain.ParseDate(s); err != nil {
			return in, fmt.Errorf("end date %q: use YYYY-MM-DD", s)
		}
	}
	if s := strings.TrimSpace(f.Parent); s != "" {
		id, err := parseID(s)
		if err != nil {
			return in, fmt.Errorf("parent: %w", err)
		}
		in.ParentID = &id
	}
	return in, nil
}

func objectivesHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2024-06-30").
		Value(value).
		Validate(validateDate)
}

// statusOptions lists the well-known statuses, keeping a custom current value selectable.
func statusOptions(current string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.StatusCycle)+1)
	known := false
	for _, s := range domain.StatusCycle {
		opts = append(opts, huh.NewOption(s, s))
		known = known || strings.EqualFold(s, current)
	}
	if current != "" && !known {
		opts = append(opts, huh.NewOption(current, current))
	}
	return opts
}

// objectiveForm collects every objective field, prefilled from f.
func objectiveForm(f *objectiveFields) *huh.Form {
	if f.Status == "" {
		f.Status = domain.StatusOpen
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.Title).
				Validate(validateRequired("title")),
			huh.NewText().
				Title("Description").
				Value(&f.Description),
		),
		huh.NewGroup(
			dateInput("Start Date (YYYY-MM-DD)", &f.Start),
			dateInput("End Date (YYYY-MM-DD)", &f.End),
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions(f.Status)...).
				Value(&f.Status),
			huh.NewInput().
				Title("Parent ID (blank for a root objective)").
				Value(&f.Parent).
				Validate(validateOptionalID),
		),
	).WithTheme(objectivesHuhTheme())
}

func statusForm(current string, value *string) *huh.Form {
	*value = domain.NextStatus(current)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Status").
				Options(statusOptions(current)...).
				Value(value),
		),
	).WithTheme(objectivesHuhTheme()).WithShowHelp(false)
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(objectivesHuhTheme()).WithShowHelp(false)
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateOptionalID(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := parseID(strings.TrimSpace(s))
	return err
}
