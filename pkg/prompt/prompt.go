// Package prompt provides interactive terminal pickers for programs and
// days, used by the CLI when --interactive is set.
package prompt

import (
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/repbook/repbook/pkg/program"
)

// SelectProgram asks the user to pick one program from the list.
func SelectProgram(programs []program.Program) (program.Program, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}:",
		Active:   "➜  {{ .Name | bold }} {{ .Client | green }}",
		Inactive: "   {{ .Name }} {{ .Client | cyan }}",
		Selected: "{{ .Name | bold }}",
	}

	searcher := func(input string, index int) bool {
		name := normalize(programs[index].Name)
		return strings.Contains(name, normalize(input))
	}

	sel := promptui.Select{
		HideHelp:  true,
		Label:     "Program",
		Items:     programs,
		Templates: templates,
		Searcher:  searcher,
	}
	i, _, err := sel.Run()
	if err != nil {
		return program.Program{}, err
	}
	return programs[i], nil
}

// SelectDay asks the user to pick one day of a program.
func SelectDay(days []program.Day) (program.Day, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}:",
		Active:   "➜  {{ .Title | bold }}",
		Inactive: "   {{ .Title }}",
		Selected: "{{ .Title | bold }}",
	}

	searcher := func(input string, index int) bool {
		title := normalize(days[index].Title)
		return strings.Contains(title, normalize(input))
	}

	sel := promptui.Select{
		HideHelp:  true,
		Label:     "Day",
		Items:     days,
		Templates: templates,
		Searcher:  searcher,
	}
	i, _, err := sel.Run()
	if err != nil {
		return program.Day{}, err
	}
	return days[i], nil
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "")
}
