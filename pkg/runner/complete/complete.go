package complete

import (
	"context"
	"errors"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/printers"
	"tableflip.dev/planner/pkg/viewmodel"
)

// Complete toggles a task between open and done.
type Complete struct {
	ID string

	Service *app.Service
}

func (n *Complete) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not complete, no service")
	}
	if _, err := n.Service.ToggleTask(ctx, n.ID); err != nil {
		return err
	}
	all, err := n.Service.Tasks(ctx)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{}
	pp.Tasks(viewmodel.GroupByCategory(all))
	return nil
}
