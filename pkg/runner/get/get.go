package get

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/printers"
	"tableflip.dev/planner/pkg/viewmodel"
)

// View selects which screen of data to print.
type View string

const (
	Calendar View = "calendar"
	Week     View = "week"
	Tasks    View = "tasks"
	Notes    View = "notes"
)

type Get struct {
	ShowID bool
	View   View

	Service *app.Service
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	fmt.Println("")

	switch n.View {
	case Week:
		all, err := n.Service.Events(ctx)
		if err != nil {
			return err
		}
		buckets := viewmodel.GroupByLocalDay(all)
		pp.Week(viewmodel.WeekWindow(time.Now(), buckets))
	case Tasks:
		all, err := n.Service.Tasks(ctx)
		if err != nil {
			return err
		}
		pp.Tasks(viewmodel.GroupByCategory(all))
	case Notes:
		all, err := n.Service.Notes(ctx)
		if err != nil {
			return err
		}
		pp.Notes(all)
	default:
		all, err := n.Service.Events(ctx)
		if err != nil {
			return err
		}
		buckets := viewmodel.GroupByLocalDay(all)
		pp.Title(viewmodel.MonthLabel(all, time.Now()))
		pp.NewLine()
		pp.Days(viewmodel.Days(buckets))
	}
	return nil
}
