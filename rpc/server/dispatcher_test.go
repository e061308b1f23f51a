package server

import (
	"strings"
	"testing"

	"github.com/trybenon/peopled/lib/auth"
	"github.com/trybenon/peopled/lib/collection"
	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/lib/store/memstore"
	"github.com/trybenon/peopled/rpc/common"
)

func newTestDispatcher(t *testing.T) IRPCServerAdapter {
	t.Helper()
	st := memstore.NewMemoryStore()
	t.Cleanup(func() { st.Close() })
	return NewDispatcher(collection.NewManager(st), auth.NewManager(st))
}

func registerAndLogin(t *testing.T, d IRPCServerAdapter, login string) {
	t.Helper()
	resp := d.Handle(common.NewRegistrationRequest(login, "secret"))
	if resp.Status != common.StatusOK {
		t.Fatalf("registration failed: %s", resp.Text)
	}
	resp = d.Handle(common.NewAuthenticateRequest(login, "secret"))
	if resp.Status != common.StatusOK || !resp.Ok {
		t.Fatalf("authentication failed: %s", resp.Text)
	}
}

func testPerson(name string, height int) *model.Person {
	return &model.Person{
		Name:   name,
		Height: height,
		Weight: 70,
	}
}

func TestDispatcherRequiresAuthentication(t *testing.T) {
	d := newTestDispatcher(t)

	for _, cmd := range []common.CommandType{
		common.CmdInfo, common.CmdShow, common.CmdAdd, common.CmdClear,
	} {
		resp := d.Handle(common.NewRequest(cmd, ""))
		if resp.Status != common.StatusError {
			t.Errorf("%s without owner: expected error, got %s", cmd, resp.Status)
		}
		if !strings.Contains(resp.Text, "authentication required") {
			t.Errorf("%s without owner: unexpected text %q", cmd, resp.Text)
		}
	}

	// Help is open to everyone
	resp := d.Handle(common.NewRequest(common.CmdHelp, ""))
	if resp.Status != common.StatusOK || resp.Text == "" {
		t.Errorf("help should succeed without authentication")
	}
}

func TestDispatcherMirrorsCorrelation(t *testing.T) {
	d := newTestDispatcher(t)

	req := common.NewRequest(common.CmdHelp, "")
	req.ID = 4711

	resp := d.Handle(req)
	if resp.ID != 4711 {
		t.Errorf("response id = %d, want 4711", resp.ID)
	}
	if resp.Cmd != common.CmdHelp {
		t.Errorf("response cmd = %s, want help", resp.Cmd)
	}
}

func TestDispatcherAddAndShow(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")

	// Add without a record asks for one
	resp := d.Handle(common.NewRequest(common.CmdAdd, "ada"))
	if resp.Status != common.StatusAskObject {
		t.Fatalf("add without record: expected ask_object, got %s", resp.Status)
	}

	// Add with a record refreshes the collection
	resp = d.Handle(common.NewAddRequest(testPerson("Grace", 170), "ada"))
	if resp.Status != common.StatusRefresh {
		t.Fatalf("add: expected refresh, got %s (%s)", resp.Status, resp.Text)
	}
	if len(resp.Persons) != 1 {
		t.Fatalf("refresh payload: got %d records, want 1", len(resp.Persons))
	}
	if resp.Persons[0].Owner != "ada" {
		t.Errorf("stored record owner = %q, want ada", resp.Persons[0].Owner)
	}

	// Show returns the full collection
	resp = d.Handle(common.NewRequest(common.CmdShow, "ada"))
	if resp.Status != common.StatusOK || len(resp.Persons) != 1 {
		t.Fatalf("show: status %s, %d records", resp.Status, len(resp.Persons))
	}
}

func TestDispatcherRejectsInvalidRecord(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")

	resp := d.Handle(common.NewAddRequest(testPerson("", 170), "ada"))
	if resp.Status != common.StatusError {
		t.Fatalf("add with empty name: expected error, got %s", resp.Status)
	}
}

func TestDispatcherOwnershipScope(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")
	registerAndLogin(t, d, "bob")

	resp := d.Handle(common.NewAddRequest(testPerson("Grace", 170), "ada"))
	if resp.Status != common.StatusRefresh {
		t.Fatalf("add: %s", resp.Text)
	}
	id := resp.Persons[0].ID

	// bob sees ada's record
	resp = d.Handle(common.NewRequest(common.CmdShow, "bob"))
	if len(resp.Persons) != 1 {
		t.Fatalf("show as bob: got %d records, want 1", len(resp.Persons))
	}

	// but cannot remove it
	resp = d.Handle(common.NewRemoveByIDRequest(id, "bob"))
	if resp.Status != common.StatusError {
		t.Fatalf("foreign remove: expected error, got %s", resp.Status)
	}

	// and check_id denies it as well
	resp = d.Handle(common.NewCheckIDRequest(id, "bob"))
	if resp.Status != common.StatusError || resp.Ok {
		t.Fatalf("foreign check_id: expected error, got %s (ok=%v)", resp.Status, resp.Ok)
	}

	// the owner may remove it
	resp = d.Handle(common.NewRemoveByIDRequest(id, "ada"))
	if resp.Status != common.StatusRefresh || len(resp.Persons) != 0 {
		t.Fatalf("own remove: status %s, %d records left", resp.Status, len(resp.Persons))
	}
}

func TestDispatcherUpdateFlow(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")

	resp := d.Handle(common.NewAddRequest(testPerson("Grace", 170), "ada"))
	id := resp.Persons[0].ID

	// check_id for an owned record asks for the replacement object
	resp = d.Handle(common.NewCheckIDRequest(id, "ada"))
	if resp.Status != common.StatusAskObject || !resp.Ok {
		t.Fatalf("check_id: expected ask_object/ok, got %s (ok=%v)", resp.Status, resp.Ok)
	}

	// update replaces the record and refreshes
	resp = d.Handle(common.NewUpdateRequest(id, testPerson("Grace Hopper", 171), "ada"))
	if resp.Status != common.StatusRefresh {
		t.Fatalf("update: %s", resp.Text)
	}
	if resp.Persons[0].Name != "Grace Hopper" {
		t.Errorf("updated name = %q", resp.Persons[0].Name)
	}

	// update of a missing id fails
	resp = d.Handle(common.NewUpdateRequest(99999, testPerson("X", 160), "ada"))
	if resp.Status != common.StatusError {
		t.Fatalf("update missing id: expected error, got %s", resp.Status)
	}
}

func TestDispatcherAddIfMax(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")

	d.Handle(common.NewAddRequest(testPerson("Tall", 200), "ada"))

	// Not taller than the maximum: collection unchanged, no refresh
	resp := d.Handle(common.NewAddIfMaxRequest(testPerson("Short", 150), "ada"))
	if resp.Status != common.StatusOK {
		t.Fatalf("add_if_max below max: expected ok, got %s", resp.Status)
	}

	// Strictly taller: added
	resp = d.Handle(common.NewAddIfMaxRequest(testPerson("Taller", 201), "ada"))
	if resp.Status != common.StatusRefresh || len(resp.Persons) != 2 {
		t.Fatalf("add_if_max above max: status %s, %d records", resp.Status, len(resp.Persons))
	}
}

func TestDispatcherReadCommands(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")

	// Empty collection edge cases answer OK with a message
	for _, cmd := range []common.CommandType{common.CmdHead, common.CmdAverageOfHeight, common.CmdRemoveHead} {
		resp := d.Handle(common.NewRequest(cmd, "ada"))
		if resp.Status != common.StatusOK {
			t.Errorf("%s on empty collection: expected ok, got %s (%s)", cmd, resp.Status, resp.Text)
		}
	}

	d.Handle(common.NewAddRequest(testPerson("A", 180), "ada"))
	d.Handle(common.NewAddRequest(testPerson("B", 160), "ada"))

	resp := d.Handle(common.NewRequest(common.CmdAverageOfHeight, "ada"))
	if resp.Status != common.StatusOK || resp.Average != 170 {
		t.Errorf("average = %v, want 170", resp.Average)
	}

	resp = d.Handle(common.NewRequest(common.CmdPrintFieldAscendingHeight, "ada"))
	if len(resp.Heights) != 2 || resp.Heights[0] != 160 || resp.Heights[1] != 180 {
		t.Errorf("heights = %v, want [160 180]", resp.Heights)
	}

	resp = d.Handle(common.NewRequest(common.CmdPrintAscending, "ada"))
	if len(resp.Persons) != 2 || resp.Persons[0].Height != 160 {
		t.Errorf("print_ascending not sorted by height: %+v", resp.Persons)
	}

	resp = d.Handle(common.NewRequest(common.CmdHead, "ada"))
	if resp.Status != common.StatusOK || resp.Person == nil || resp.Person.Name != "A" {
		t.Errorf("head: expected first inserted record")
	}

	resp = d.Handle(common.NewRequest(common.CmdInfo, "ada"))
	if resp.Status != common.StatusOK || !strings.Contains(resp.Text, "size: 2") {
		t.Errorf("info text = %q", resp.Text)
	}
}

func TestDispatcherAccountErrors(t *testing.T) {
	d := newTestDispatcher(t)

	if resp := d.Handle(common.NewRegistrationRequest("ada", "secret")); resp.Status != common.StatusOK {
		t.Fatalf("registration: %s", resp.Text)
	}

	// Duplicate login
	if resp := d.Handle(common.NewRegistrationRequest("ada", "secret")); resp.Status != common.StatusError {
		t.Errorf("duplicate registration: expected error, got %s", resp.Status)
	}

	// Wrong password
	if resp := d.Handle(common.NewAuthenticateRequest("ada", "wrong")); resp.Status != common.StatusError {
		t.Errorf("wrong password: expected error, got %s", resp.Status)
	}

	// Unknown login, indistinguishable from a wrong password
	if resp := d.Handle(common.NewAuthenticateRequest("eve", "secret")); resp.Status != common.StatusError {
		t.Errorf("unknown login: expected error, got %s", resp.Status)
	}
}

func TestDispatcherUnknownCommand(t *testing.T) {
	d := newTestDispatcher(t)
	registerAndLogin(t, d, "ada")

	resp := d.Handle(common.NewRequest(common.CommandType(200), "ada"))
	if resp.Status != common.StatusError {
		t.Fatalf("unknown tag: expected error, got %s", resp.Status)
	}
}

func TestDispatcherRecoversFromPanic(t *testing.T) {
	// A dispatcher over nil managers panics on first use; Handle must turn
	// that into an error response instead of crashing the worker
	d := NewDispatcher(nil, nil)

	req := common.NewRequest(common.CmdInfo, "ada")
	req.ID = 7

	resp := d.Handle(req)
	if resp == nil {
		t.Fatalf("expected a response")
	}
	if resp.Status != common.StatusError || resp.ID != 7 {
		t.Fatalf("expected error response with id 7, got %s (id=%d)", resp.Status, resp.ID)
	}
}
