package events

import (
	"github.com/testgen/tgv/pkg/cron"
	"github.com/testgen/tgv/pkg/model"
)

// SelectionPayload accompanies TreeSelectionChanged, ExportClicked and
// RunProfilingClicked. In single-select mode only SelectedID is set.
type SelectionPayload struct {
	Multi      bool                 `json:"multi"`
	SelectedID string               `json:"selected_id,omitempty"`
	Selection  []model.SelectedNode `json:"selection,omitempty"`
}

// TagsPayload accompanies TagsChanged.
type TagsPayload struct {
	NodeID string   `json:"node_id"`
	Tags   []string `json:"tags"`
}

// SchedulePayload accompanies ScheduleChanged.
type SchedulePayload struct {
	Expression string      `json:"expression"`
	Sample     cron.Sample `json:"sample"`
}
