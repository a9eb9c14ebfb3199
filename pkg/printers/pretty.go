package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/planner/pkg/record"
	"tableflip.dev/planner/pkg/viewmodel"
	"tableflip.dev/planner/pkg/weather"
)

type PrettyPrint struct {
	ShowID bool
}

var (
	spacing = strings.Repeat(" ", len("171dff69f8b99dca  "))
)

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Println(title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Print(spacing)
	}
	_, _ = t.Print(title)
	_, _ = c.Printf(" - %d", count)

	switch count {
	case 1:
		_, _ = c.Println(" item")
	default:
		_, _ = c.Println(" items")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = f.Print(spacing)
	}
	_, _ = f.Print(" none\n\n")
}

// categoryPrinter maps event categories onto terminal colors the way the
// calendar screen tints event cards.
func categoryPrinter(c record.EventCategory) *color.Color {
	switch c {
	case record.CategorySchool:
		return color.New(color.FgBlue)
	case record.CategoryWork:
		return color.New(color.FgGreen)
	case record.CategoryPersonal:
		return color.New(color.FgMagenta)
	case record.CategoryOther:
		return color.New(color.FgYellow)
	default:
		return color.New()
	}
}

func (pp *PrettyPrint) printID(id string) {
	if !pp.ShowID {
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	_, _ = y.Print(id)
	if pad := len(spacing) - len(id); pad > 0 {
		_, _ = y.Print(strings.Repeat(" ", pad))
	} else {
		_, _ = y.Print("  ")
	}
}

// Day prints one day bucket of the calendar.
func (pp *PrettyPrint) Day(d viewmodel.DayEntry) {
	pp.TitleWithCount(d.Date.Format("Monday, Jan 2"), len(d.Events))
	if len(d.Events) == 0 {
		pp.none()
		return
	}
	for _, e := range d.Events {
		pp.printID(e.ID)
		cp := categoryPrinter(e.Category)
		when := "all day"
		if !e.AllDay {
			when = e.StartDate.Local().Format("15:04")
			if e.EndDate != nil {
				when += "-" + e.EndDate.Local().Format("15:04")
			}
		}
		_, _ = cp.Printf("%s  %s", when, e.Title)
		if e.Note != "" {
			f := color.New(color.Faint)
			_, _ = f.Printf("  %s", e.Note)
		}
		fmt.Println("")
	}
	fmt.Println("")
}

// Days prints a sequence of day buckets, skipping empty days.
func (pp *PrettyPrint) Days(days []viewmodel.DayEntry) {
	printed := 0
	for _, d := range days {
		if len(d.Events) == 0 {
			continue
		}
		pp.Day(d)
		printed++
	}
	if printed == 0 {
		pp.none()
	}
}

// Week prints the Monday-start week strip with all seven days, empty or not.
func (pp *PrettyPrint) Week(days []viewmodel.DayEntry) {
	for _, d := range days {
		pp.Day(d)
	}
}

// Tasks prints the to-do list grouped into its fixed sections, open items
// before done within each.
func (pp *PrettyPrint) Tasks(sections []viewmodel.TaskSection) {
	for _, sec := range sections {
		if len(sec.Tasks) == 0 {
			continue
		}
		pp.Title(record.DisplayTaskCategory(sec.Category))
		for _, t := range sec.Tasks {
			pp.printID(t.ID)
			box := "[ ]"
			printer := color.New()
			if t.Completed {
				box = "[x]"
				printer = color.New(color.Faint, color.CrossedOut)
			}
			_, _ = printer.Printf("%s %s\n", box, t.Text)
		}
		fmt.Println("")
	}
}

// Notes prints notes newest first, marking voice notes.
func (pp *PrettyPrint) Notes(notes []record.Note) {
	if len(notes) == 0 {
		pp.none()
		return
	}
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true
	if pp.ShowID {
		table.AddRow("ID", "CREATED", "TITLE", "TEXT")
	} else {
		table.AddRow("CREATED", "TITLE", "TEXT")
	}
	for _, n := range notes {
		title := n.Title
		if n.Voice() {
			title = "(voice) " + n.FileName
		}
		created := n.CreatedAt.Local().Format("Jan 2 15:04")
		if pp.ShowID {
			table.AddRow(n.ID, created, title, n.Text)
		} else {
			table.AddRow(created, title, n.Text)
		}
	}
	fmt.Println(table)
	fmt.Println("")
}

// Weather prints the current conditions, the hourly strip, and the merged
// reminder list.
func (pp *PrettyPrint) Weather(f weather.Forecast, reminders []string) {
	if f.Current.Label != "" {
		b := color.New(color.Bold)
		_, _ = b.Printf("%d° %s\n\n", f.Current.Temp, f.Current.Label)
	}

	if len(f.Hourly) > 0 {
		table := uitable.New()
		table.AddRow("TIME", "TEMP", "CONDITIONS")
		for _, slot := range f.Hourly {
			table.AddRow(
				fmt.Sprintf("%d %s", slot.Hour, slot.Period),
				fmt.Sprintf("%d°", slot.Temp),
				slot.Label,
			)
		}
		fmt.Println(table)
		fmt.Println("")
	}

	if len(reminders) > 0 {
		pp.Title("Reminders")
		for _, r := range reminders {
			fmt.Printf("  - %s\n", r)
		}
		fmt.Println("")
	}
}
