package client

import (
	"errors"
	"sync"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/rpc/common"
	"github.com/trybenon/peopled/rpc/serializer"
	"github.com/trybenon/peopled/rpc/transport"
)

// ErrNotAuthenticated is returned by collection commands before a successful
// Authenticate call. The server enforces this as well; failing locally just
// avoids a pointless round trip.
var ErrNotAuthenticated = errors.New("not authenticated, use registration/authenticate first")

// Session is the client-side handle to the collection server. It wraps the
// transport and serializer, tracks the authenticated login, and maintains a
// local view of the collection that is replaced whenever a REFRESH response
// arrives.
//
// A Session is safe for concurrent use.
type Session struct {
	rpcClientAdapter

	mu    sync.RWMutex
	login string
	view  []model.Person

	refreshMu sync.RWMutex
	onRefresh []func([]model.Person)
}

// NewSession connects the given transport and returns a ready session.
//
// Usage:
//
//	ser := serializer.NewSonicSerializer()
//	s, err := client.NewSession(
//		config,
//		tcp.NewTCPClientTransport(client.MessageIDExtractor(ser)),
//		ser,
//	)
func NewSession(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*Session, error) {
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &Session{
		rpcClientAdapter: rpcClientAdapter{
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

// --------------------------------------------------------------------------
// Session State
// --------------------------------------------------------------------------

// Login returns the authenticated login, or "" before authentication.
func (s *Session) Login() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.login
}

// Logout forgets the authenticated login. The connection stays open.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.login = ""
}

// View returns a copy of the local collection view as of the last REFRESH.
func (s *Session) View() []model.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Person, len(s.view))
	copy(out, s.view)
	return out
}

// OnRefresh registers a callback invoked with the new view whenever the
// server sends a REFRESH response. Callbacks run on the caller's goroutine
// of the command that triggered the refresh.
func (s *Session) OnRefresh(fn func([]model.Person)) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	s.onRefresh = append(s.onRefresh, fn)
}

// AddConnectionListener registers a listener for disconnects and reconnects.
func (s *Session) AddConnectionListener(l transport.IConnectionListener) {
	s.transport.AddListener(l)
}

// Close tears down the transport connection.
func (s *Session) Close() error {
	return s.transport.Close()
}

// --------------------------------------------------------------------------
// Account Commands
// --------------------------------------------------------------------------

// Register creates an account. It does not log the session in.
func (s *Session) Register(login, password string) (string, error) {
	resp, err := s.invoke(common.NewRegistrationRequest(login, password))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Authenticate logs the session in. On success every following scoped
// command is stamped with the login.
func (s *Session) Authenticate(login, password string) (string, error) {
	resp, err := s.invoke(common.NewAuthenticateRequest(login, password))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.login = login
	s.mu.Unlock()

	return resp.Text, nil
}

// --------------------------------------------------------------------------
// Read Commands
// --------------------------------------------------------------------------

// Help returns the server's command overview. Works unauthenticated.
func (s *Session) Help() (string, error) {
	resp, err := s.invoke(common.NewRequest(common.CmdHelp, ""))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Info returns the collection summary.
func (s *Session) Info() (string, error) {
	resp, err := s.invokeScoped(common.CmdInfo)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Show returns all records sorted by name.
func (s *Session) Show() ([]model.Person, error) {
	resp, err := s.invokeScoped(common.CmdShow)
	if err != nil {
		return nil, err
	}
	return resp.Persons, nil
}

// Head returns the first record in insertion order, or nil for an empty
// collection.
func (s *Session) Head() (*model.Person, error) {
	resp, err := s.invokeScoped(common.CmdHead)
	if err != nil {
		return nil, err
	}
	return resp.Person, nil
}

// AverageHeight returns the mean height, or 0 for an empty collection.
func (s *Session) AverageHeight() (float64, error) {
	resp, err := s.invokeScoped(common.CmdAverageOfHeight)
	if err != nil {
		return 0, err
	}
	return resp.Average, nil
}

// PrintAscending returns all records sorted by height.
func (s *Session) PrintAscending() ([]model.Person, error) {
	resp, err := s.invokeScoped(common.CmdPrintAscending)
	if err != nil {
		return nil, err
	}
	return resp.Persons, nil
}

// HeightsAscending returns all heights in ascending order.
func (s *Session) HeightsAscending() ([]int, error) {
	resp, err := s.invokeScoped(common.CmdPrintFieldAscendingHeight)
	if err != nil {
		return nil, err
	}
	return resp.Heights, nil
}

// CheckID reports whether the record exists and belongs to this session's
// login. It is the first half of the update flow: a true result means the
// server is waiting for the replacement record.
func (s *Session) CheckID(id int64) (bool, error) {
	login := s.Login()
	if login == "" {
		return false, ErrNotAuthenticated
	}
	resp, err := s.invoke(common.NewCheckIDRequest(id, login))
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		// A denied id is an answer, not a failure
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

// --------------------------------------------------------------------------
// Mutating Commands
// --------------------------------------------------------------------------

// Add inserts a new record and returns the server's confirmation text.
func (s *Session) Add(p *model.Person) (string, error) {
	login := s.Login()
	if login == "" {
		return "", ErrNotAuthenticated
	}
	resp, err := s.invoke(common.NewAddRequest(p, login))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// AddIfMax inserts the record only if it is taller than every existing one.
func (s *Session) AddIfMax(p *model.Person) (string, error) {
	login := s.Login()
	if login == "" {
		return "", ErrNotAuthenticated
	}
	resp, err := s.invoke(common.NewAddIfMaxRequest(p, login))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Update replaces one of this login's records.
func (s *Session) Update(id int64, p *model.Person) (string, error) {
	login := s.Login()
	if login == "" {
		return "", ErrNotAuthenticated
	}
	resp, err := s.invoke(common.NewUpdateRequest(id, p, login))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// RemoveByID removes one of this login's records.
func (s *Session) RemoveByID(id int64) (string, error) {
	login := s.Login()
	if login == "" {
		return "", ErrNotAuthenticated
	}
	resp, err := s.invoke(common.NewRemoveByIDRequest(id, login))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Clear removes every record owned by this login.
func (s *Session) Clear() (string, error) {
	resp, err := s.invokeScoped(common.CmdClear)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// RemoveHead removes the first of this login's records in insertion order.
func (s *Session) RemoveHead() (string, error) {
	resp, err := s.invokeScoped(common.CmdRemoveHead)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// invokeScoped sends a bare request for commands without arguments, stamped
// with the authenticated login.
func (s *Session) invokeScoped(cmd common.CommandType) (*common.Message, error) {
	login := s.Login()
	if login == "" {
		return nil, ErrNotAuthenticated
	}
	return s.invoke(common.NewRequest(cmd, login))
}

// invoke runs one request/response cycle and applies REFRESH payloads to the
// local view before returning.
func (s *Session) invoke(req *common.Message) (*common.Message, error) {
	resp, err := s.invokeRPCRequest(req)
	if err != nil {
		return nil, err
	}

	if resp.Status == common.StatusRefresh {
		s.applyRefresh(resp.Persons)
	}

	return resp, nil
}

// applyRefresh replaces the local view. The payload is authoritative, the
// previous view is never merged into it.
func (s *Session) applyRefresh(persons []model.Person) {
	if persons == nil {
		persons = []model.Person{}
	}

	s.mu.Lock()
	s.view = persons
	s.mu.Unlock()

	Logger.Debugf("Collection view refreshed, %d record(s)", len(persons))

	s.refreshMu.RLock()
	defer s.refreshMu.RUnlock()
	for _, fn := range s.onRefresh {
		fn(persons)
	}
}
