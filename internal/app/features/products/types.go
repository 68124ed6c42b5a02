package products

import (
	"github.com/merchdesk/merchdesk/internal/app/system/datatable"
	"github.com/merchdesk/merchdesk/internal/app/system/liststate"
	"github.com/merchdesk/merchdesk/internal/app/system/viewdata"
	"github.com/merchdesk/merchdesk/internal/domain/models"
)

type listData struct {
	viewdata.BaseVM

	Toolbar viewdata.ToolbarVM
	Table   datatable.TableVM
	Pager   liststate.PageInfo
	State   liststate.State

	CanCreate bool
}

// formData backs both the new and edit forms.
type formData struct {
	viewdata.BaseVM

	Product models.Product
	IsEdit  bool
	Error   string
}

// uploadData is the bulk upload page with an optional result summary.
type uploadData struct {
	viewdata.BaseVM

	Result *models.BulkUploadResult
	Error  string
}
