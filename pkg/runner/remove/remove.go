package remove

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/planner/pkg/app"
	"tableflip.dev/planner/pkg/record"
)

// Remove deletes a record. Notes lose their stored attachment first; if
// that fails the note stays so the deletion can be retried.
type Remove struct {
	Kind record.Kind
	ID   string

	Service *app.Service
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not delete, no service")
	}

	var err error
	switch n.Kind {
	case record.KindEvent:
		err = n.Service.DeleteEvent(ctx, n.ID)
	case record.KindTask:
		err = n.Service.DeleteTask(ctx, n.ID)
	case record.KindNote:
		err = n.Service.DeleteNote(ctx, n.ID)
	default:
		err = fmt.Errorf("unknown kind %q", n.Kind)
	}
	if err != nil {
		return err
	}
	fmt.Println("deleted", n.ID)
	return nil
}
