package common

import (
	"encoding/json"
	"fmt"

	"github.com/trybenon/peopled/lib/model"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message represents a single message used for both requests and responses.
// Which fields are used depends on the command and the direction.
type Message struct {
	// ID correlates a response with its request. The client assigns it and
	// the server echoes it unchanged.
	ID uint64 `json:"id"`

	// Cmd is the command tag. A response always mirrors the tag of the
	// request it answers.
	Cmd CommandType `json:"cmd"`

	// Response only fields
	Status Status `json:"status,omitempty"` // Outcome of the command
	Text   string `json:"text,omitempty"`   // Human readable result or error message

	// Payload fields
	Person   *model.Person  `json:"person,omitempty"`    // Used for: Add, Update, AddIfMax (request); Head (response)
	Persons  []model.Person `json:"persons,omitempty"`   // Used for: Show, PrintAscending (response); every REFRESH response
	Heights  []int          `json:"heights,omitempty"`   // Used for: PrintFieldAscendingHeight (response)
	TargetID int64          `json:"target_id,omitempty"` // Used for: Update, RemoveByID, CheckID (request)
	Average  float64        `json:"average,omitempty"`   // Used for: AverageOfHeight (response)
	Ok       bool           `json:"ok,omitempty"`        // Used for: CheckID, Authenticate (response)

	// Session fields
	Login    string `json:"login,omitempty"`    // Used for: Registration, Authenticate (request)
	Password string `json:"password,omitempty"` // Used for: Registration, Authenticate (request), never logged
	Owner    string `json:"owner,omitempty"`    // Authenticated login stamped on scoped commands
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewRequest creates a bare request for commands without arguments
// (Help, Info, Show, Head, AverageOfHeight, ...).
func NewRequest(cmd CommandType, owner string) *Message {
	return &Message{
		Cmd:   cmd,
		Owner: owner,
	}
}

// NewAddRequest creates a new Add request.
func NewAddRequest(p *model.Person, owner string) *Message {
	return &Message{
		Cmd:    CmdAdd,
		Person: p,
		Owner:  owner,
	}
}

// NewAddIfMaxRequest creates a new AddIfMax request.
func NewAddIfMaxRequest(p *model.Person, owner string) *Message {
	return &Message{
		Cmd:    CmdAddIfMax,
		Person: p,
		Owner:  owner,
	}
}

// NewUpdateRequest creates a new Update request.
func NewUpdateRequest(id int64, p *model.Person, owner string) *Message {
	return &Message{
		Cmd:      CmdUpdate,
		TargetID: id,
		Person:   p,
		Owner:    owner,
	}
}

// NewRemoveByIDRequest creates a new RemoveByID request.
func NewRemoveByIDRequest(id int64, owner string) *Message {
	return &Message{
		Cmd:      CmdRemoveByID,
		TargetID: id,
		Owner:    owner,
	}
}

// NewCheckIDRequest creates a new CheckID request.
func NewCheckIDRequest(id int64, owner string) *Message {
	return &Message{
		Cmd:      CmdCheckID,
		TargetID: id,
		Owner:    owner,
	}
}

// NewRegistrationRequest creates a new Registration request.
func NewRegistrationRequest(login, password string) *Message {
	return &Message{
		Cmd:      CmdRegistration,
		Login:    login,
		Password: password,
	}
}

// NewAuthenticateRequest creates a new Authenticate request.
func NewAuthenticateRequest(login, password string) *Message {
	return &Message{
		Cmd:      CmdAuthenticate,
		Login:    login,
		Password: password,
	}
}

// NewOKResponse creates a plain OK response carrying only a message.
func NewOKResponse(cmd CommandType, text string) *Message {
	return &Message{
		Cmd:    cmd,
		Status: StatusOK,
		Text:   text,
	}
}

// NewRefreshResponse creates a REFRESH response carrying the full collection.
// Clients replace their local view with the payload, they never merge.
func NewRefreshResponse(cmd CommandType, text string, persons []model.Person) *Message {
	return &Message{
		Cmd:     cmd,
		Status:  StatusRefresh,
		Text:    text,
		Persons: persons,
	}
}

// NewErrorResponse creates an ERROR response for the given command tag.
func NewErrorResponse(cmd CommandType, text string) *Message {
	return &Message{
		Cmd:    cmd,
		Status: StatusError,
		Text:   text,
	}
}

// NewAskObjectResponse creates an ASK_OBJECT response, telling the client to
// collect a record from the user and resubmit.
func NewAskObjectResponse(cmd CommandType, text string) *Message {
	return &Message{
		Cmd:    cmd,
		Status: StatusAskObject,
		Text:   text,
	}
}

// --------------------------------------------------------------------------
// Command Type Definition
// --------------------------------------------------------------------------

// CommandType identifies the operation a request asks for.
type CommandType uint8

const (
	CmdUnknown CommandType = iota

	// Read-only commands

	CmdHelp
	CmdInfo
	CmdShow
	CmdHead
	CmdAverageOfHeight
	CmdPrintAscending
	CmdPrintFieldAscendingHeight
	CmdCheckID

	// Mutating (REFRESH-class) commands

	CmdAdd
	CmdUpdate
	CmdRemoveByID
	CmdClear
	CmdAddIfMax
	CmdRemoveHead

	// Account commands

	CmdRegistration
	CmdAuthenticate
)

var commandNames = map[CommandType]string{
	CmdHelp:                      "help",
	CmdInfo:                      "info",
	CmdShow:                      "show",
	CmdHead:                      "head",
	CmdAverageOfHeight:           "average_of_height",
	CmdPrintAscending:            "print_ascending",
	CmdPrintFieldAscendingHeight: "print_field_ascending_height",
	CmdCheckID:                   "check_id",
	CmdAdd:                       "add",
	CmdUpdate:                    "update",
	CmdRemoveByID:                "remove_by_id",
	CmdClear:                     "clear",
	CmdAddIfMax:                  "add_if_max",
	CmdRemoveHead:                "remove_head",
	CmdRegistration:              "registration",
	CmdAuthenticate:              "authenticate",
}

// String returns the snake_case name of a CommandType.
func (t CommandType) String() string {
	if name, ok := commandNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseCommandType converts a snake_case command name to a CommandType.
func ParseCommandType(s string) (CommandType, error) {
	for t, name := range commandNames {
		if name == s {
			return t, nil
		}
	}
	return CmdUnknown, fmt.Errorf("unknown command: %s", s)
}

// IsRefreshClass reports whether a successful execution of the command
// returns the full collection so connected views can resynchronize.
func (t CommandType) IsRefreshClass() bool {
	switch t {
	case CmdAdd, CmdUpdate, CmdRemoveByID, CmdClear, CmdAddIfMax, CmdRemoveHead:
		return true
	default:
		return false
	}
}

// MarshalJSON implements the json.Marshaler interface for CommandType.
// This allows CommandType to be serialized as a string in JSON.
func (t CommandType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for CommandType.
func (t *CommandType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "unknown" {
		*t = CmdUnknown
		return nil
	}
	parsed, err := ParseCommandType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// --------------------------------------------------------------------------
// Status Definition
// --------------------------------------------------------------------------

// Status is the outcome tag of a response.
type Status uint8

const (
	// StatusNone marks a request; only responses carry a status.
	StatusNone Status = iota
	// StatusOK means the command succeeded; Text and payload fields hold the result.
	StatusOK
	// StatusError means the command failed; Text holds the cause.
	StatusError
	// StatusRefresh means the command mutated the collection; Persons holds
	// the complete authoritative set and clients must replace their view.
	StatusRefresh
	// StatusAskObject tells the client to collect a record from the user.
	StatusAskObject
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusRefresh:
		return "refresh"
	case StatusAskObject:
		return "ask_object"
	default:
		return "none"
	}
}

// MarshalJSON implements the json.Marshaler interface for Status.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for Status.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "none":
		*s = StatusNone
	case "ok":
		*s = StatusOK
	case "error":
		*s = StatusError
	case "refresh":
		*s = StatusRefresh
	case "ask_object":
		*s = StatusAskObject
	default:
		return fmt.Errorf("unknown status: %s", str)
	}
	return nil
}
