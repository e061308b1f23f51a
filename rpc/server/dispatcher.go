package server

import (
	"errors"
	"fmt"

	"github.com/trybenon/peopled/lib/auth"
	"github.com/trybenon/peopled/lib/collection"
	"github.com/trybenon/peopled/rpc/common"
)

// helpText is returned for the help command. It lists every command the
// server understands.
const helpText = `Available commands:
  help                          : print this help
  info                          : print collection type, init time and size
  show                          : print all records sorted by name
  head                          : print the first record in insertion order
  average_of_height             : print the mean height over all records
  print_ascending               : print all records sorted by height
  print_field_ascending_height  : print all heights in ascending order
  add {record}                  : add a new record
  update <id> {record}          : replace one of your records
  remove_by_id <id>             : remove one of your records
  clear                         : remove all of your records
  add_if_max {record}           : add only if taller than every record
  remove_head                   : remove the first of your records
  registration                  : create an account
  authenticate                  : log in`

// NewDispatcher creates the adapter that routes decoded requests to the
// collection and account managers.
func NewDispatcher(coll *collection.Manager, accounts *auth.Manager) IRPCServerAdapter {
	return &dispatcherImpl{
		coll:     coll,
		accounts: accounts,
	}
}

type dispatcherImpl struct {
	coll     *collection.Manager
	accounts *auth.Manager
}

// --------------------------------------------------------------------------
// Interface Methods (docu see server.IRPCServerAdapter)
// --------------------------------------------------------------------------

func (d *dispatcherImpl) Handle(req *common.Message) (resp *common.Message) {
	// A panicking command handler must not take the connection down with it
	defer func() {
		if r := recover(); r != nil {
			Logger.Errorf("Panic while handling %s: %v", req.Cmd, r)
			resp = common.NewErrorResponse(req.Cmd, fmt.Sprintf("internal error: %v", r))
			resp.ID = req.ID
		}
	}()

	resp = d.dispatch(req)

	// Every response carries the correlation id and tag of its request
	resp.ID = req.ID
	resp.Cmd = req.Cmd
	return resp
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// dispatch maps a request to the matching manager call
func (d *dispatcherImpl) dispatch(req *common.Message) *common.Message {
	// Account commands and help are open to unauthenticated clients,
	// everything else requires a logged-in session
	switch req.Cmd {
	case common.CmdHelp:
		return common.NewOKResponse(req.Cmd, helpText)
	case common.CmdRegistration:
		return d.handleRegistration(req)
	case common.CmdAuthenticate:
		return d.handleAuthenticate(req)
	}

	if req.Owner == "" {
		return common.NewErrorResponse(req.Cmd, "authentication required")
	}

	switch req.Cmd {
	case common.CmdInfo:
		return d.handleInfo(req)
	case common.CmdShow:
		return d.handleShow(req)
	case common.CmdHead:
		return d.handleHead(req)
	case common.CmdAverageOfHeight:
		return d.handleAverage(req)
	case common.CmdPrintAscending:
		return d.handleAscending(req)
	case common.CmdPrintFieldAscendingHeight:
		return d.handleHeights(req)
	case common.CmdCheckID:
		return d.handleCheckID(req)
	case common.CmdAdd:
		return d.handleAdd(req)
	case common.CmdUpdate:
		return d.handleUpdate(req)
	case common.CmdRemoveByID:
		return d.handleRemoveByID(req)
	case common.CmdClear:
		return d.handleClear(req)
	case common.CmdAddIfMax:
		return d.handleAddIfMax(req)
	case common.CmdRemoveHead:
		return d.handleRemoveHead(req)
	default:
		return common.NewErrorResponse(req.Cmd, fmt.Sprintf("unknown command tag %d", req.Cmd))
	}
}

// ----- read commands -----

func (d *dispatcherImpl) handleInfo(req *common.Message) *common.Message {
	info, err := d.coll.Info()
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewOKResponse(req.Cmd, info.String())
}

func (d *dispatcherImpl) handleShow(req *common.Message) *common.Message {
	persons, err := d.coll.Show()
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	resp := common.NewOKResponse(req.Cmd, fmt.Sprintf("%d record(s)", len(persons)))
	resp.Persons = persons
	return resp
}

func (d *dispatcherImpl) handleHead(req *common.Message) *common.Message {
	head, err := d.coll.Head()
	if errors.Is(err, collection.ErrEmpty) {
		return common.NewOKResponse(req.Cmd, err.Error())
	}
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	resp := common.NewOKResponse(req.Cmd, head.String())
	resp.Person = head
	return resp
}

func (d *dispatcherImpl) handleAverage(req *common.Message) *common.Message {
	avg, err := d.coll.AverageHeight()
	if errors.Is(err, collection.ErrEmpty) {
		return common.NewOKResponse(req.Cmd, err.Error())
	}
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	resp := common.NewOKResponse(req.Cmd, fmt.Sprintf("average height: %.2f", avg))
	resp.Average = avg
	return resp
}

func (d *dispatcherImpl) handleAscending(req *common.Message) *common.Message {
	persons, err := d.coll.Ascending()
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	resp := common.NewOKResponse(req.Cmd, fmt.Sprintf("%d record(s)", len(persons)))
	resp.Persons = persons
	return resp
}

func (d *dispatcherImpl) handleHeights(req *common.Message) *common.Message {
	heights, err := d.coll.HeightsAscending()
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	resp := common.NewOKResponse(req.Cmd, fmt.Sprintf("%d height(s)", len(heights)))
	resp.Heights = heights
	return resp
}

func (d *dispatcherImpl) handleCheckID(req *common.Message) *common.Message {
	exists, owned, err := d.coll.CheckID(req.TargetID, req.Owner)
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	if !exists || !owned {
		return common.NewErrorResponse(req.Cmd, collection.ErrNotFound.Error())
	}
	resp := common.NewAskObjectResponse(req.Cmd, "enter the new record values")
	resp.Ok = true
	return resp
}

// ----- mutating commands -----

func (d *dispatcherImpl) handleAdd(req *common.Message) *common.Message {
	if req.Person == nil {
		return common.NewAskObjectResponse(req.Cmd, "enter the record to add")
	}
	persons, err := d.coll.Add(*req.Person, req.Owner)
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewRefreshResponse(req.Cmd, "record added", persons)
}

func (d *dispatcherImpl) handleUpdate(req *common.Message) *common.Message {
	if req.Person == nil {
		return common.NewAskObjectResponse(req.Cmd, "enter the new record values")
	}
	persons, err := d.coll.Update(req.TargetID, *req.Person, req.Owner)
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewRefreshResponse(req.Cmd, fmt.Sprintf("record %d updated", req.TargetID), persons)
}

func (d *dispatcherImpl) handleRemoveByID(req *common.Message) *common.Message {
	persons, err := d.coll.RemoveByID(req.TargetID, req.Owner)
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewRefreshResponse(req.Cmd, fmt.Sprintf("record %d removed", req.TargetID), persons)
}

func (d *dispatcherImpl) handleClear(req *common.Message) *common.Message {
	persons, err := d.coll.Clear(req.Owner)
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewRefreshResponse(req.Cmd, "your records were removed", persons)
}

func (d *dispatcherImpl) handleAddIfMax(req *common.Message) *common.Message {
	if req.Person == nil {
		return common.NewAskObjectResponse(req.Cmd, "enter the record to add")
	}
	persons, err := d.coll.AddIfMax(*req.Person, req.Owner)
	if errors.Is(err, collection.ErrNotMaximal) {
		// Not an error, the collection simply stayed as it was
		return common.NewOKResponse(req.Cmd, err.Error())
	}
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewRefreshResponse(req.Cmd, "record added", persons)
}

func (d *dispatcherImpl) handleRemoveHead(req *common.Message) *common.Message {
	persons, err := d.coll.RemoveHead(req.Owner)
	if errors.Is(err, collection.ErrEmpty) {
		return common.NewOKResponse(req.Cmd, err.Error())
	}
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewRefreshResponse(req.Cmd, "head record removed", persons)
}

// ----- account commands -----

func (d *dispatcherImpl) handleRegistration(req *common.Message) *common.Message {
	if err := d.accounts.Register(req.Login, req.Password); err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	return common.NewOKResponse(req.Cmd, "account created, you can now authenticate")
}

func (d *dispatcherImpl) handleAuthenticate(req *common.Message) *common.Message {
	ok, err := d.accounts.Verify(req.Login, req.Password)
	if err != nil {
		return common.NewErrorResponse(req.Cmd, err.Error())
	}
	if !ok {
		return common.NewErrorResponse(req.Cmd, "invalid login or password")
	}
	resp := common.NewOKResponse(req.Cmd, fmt.Sprintf("welcome, %s", req.Login))
	resp.Ok = true
	return resp
}
