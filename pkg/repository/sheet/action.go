package sheet

import (
	"context"
	"time"

	"github.com/safesight-lab/safesight/pkg/domain/model"
	"github.com/safesight-lab/safesight/pkg/domain/types"
)

type actionRepository struct {
	table *table
}

func actionHeader() []string {
	return append(append([]string{}, model.ActionColumns...), "created_at")
}

func (r *actionRepository) List(ctx context.Context) ([]*model.CorrectiveAction, error) {
	header, rows, err := r.table.read(ctx)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	if err := model.ValidateColumns("actions", model.RequiredActionColumns, header); err != nil {
		return nil, err
	}

	idx := columnIndex(header)
	actions := make([]*model.CorrectiveAction, 0, len(rows))
	for _, row := range rows {
		actions = append(actions, &model.CorrectiveAction{
			CaseID:       types.CaseID(cell(row, idx, "case_id")),
			Action:       cell(row, idx, "action"),
			Owner:        cell(row, idx, "owner"),
			Timing:       cell(row, idx, "timing"),
			Verification: cell(row, idx, "verification"),
			CreatedAt:    parseCreatedAt(cell(row, idx, "created_at")),
		})
	}
	return actions, nil
}

func (r *actionRepository) Append(ctx context.Context, actions []*model.CorrectiveAction) error {
	if len(actions) == 0 {
		return nil
	}

	header, rows, err := r.table.read(ctx)
	if err != nil {
		return err
	}
	if header == nil {
		header = actionHeader()
	} else if err := model.ValidateColumns("actions", model.RequiredActionColumns, header); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, action := range actions {
		createdAt := action.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		rows = append(rows, []string{
			action.CaseID.String(),
			action.Action,
			action.Owner,
			action.Timing,
			action.Verification,
			createdAt.Format(time.RFC3339),
		})
	}

	return r.table.write(ctx, header, rows)
}
