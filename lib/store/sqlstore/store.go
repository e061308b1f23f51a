package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	_ "github.com/mattn/go-sqlite3"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/lib/store"
)

var Logger = logger.GetLogger("store")

type storeImpl struct {
	db *sql.DB
}

// NewSQLStore opens (and if necessary initializes) a SQLite database at the
// given path and returns a store backed by it. The special path ":memory:"
// creates a throwaway in-process database.
func NewSQLStore(path string) (store.IStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_fk=1")
	if err != nil {
		return nil, store.NewError(store.RetCUnavailable, fmt.Sprintf("failed to open database %s: %v", path, err))
	}

	// sqlite allows only one writer; serializing through a single connection
	// avoids SQLITE_BUSY under concurrent commands
	db.SetMaxOpenConns(1)

	s := &storeImpl{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	Logger.Infof("opened sqlite store at %s", path)
	return s, nil
}

// migrate creates the schema if it does not exist yet.
func (s *storeImpl) migrate() error {
	for _, stmt := range []string{createUsersTable, createPeopleTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return store.NewError(store.RetCInternalError, fmt.Sprintf("schema migration failed: %v", err))
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Load(owner string) ([]model.Person, error) {
	query := selectAllPeople
	args := []any{}
	if owner != "" {
		query += " WHERE owner = ?"
		args = append(args, owner)
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, wrap("load", err)
	}
	defer rows.Close()

	var out []model.Person
	for rows.Next() {
		var p model.Person
		var eyeColor sql.NullString
		var passport sql.NullString
		var createdAt int64
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Height, &p.Weight, &eyeColor,
			&p.Coordinates.X, &p.Coordinates.Y,
			&p.Location.X, &p.Location.Y, &p.Location.Z,
			&passport, &p.Owner, &createdAt,
		); err != nil {
			return nil, wrap("load scan", err)
		}
		if eyeColor.Valid {
			c, err := model.ParseColor(eyeColor.String)
			if err != nil {
				return nil, wrap("load color", err)
			}
			p.EyeColor = c
		}
		p.PassportID = passport.String
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *storeImpl) Add(p model.Person) (int64, error) {
	res, err := s.db.Exec(insertPerson,
		p.Name, p.Height, p.Weight, nullColor(p.EyeColor),
		p.Coordinates.X, p.Coordinates.Y,
		p.Location.X, p.Location.Y, p.Location.Z,
		nullString(p.PassportID), p.Owner, time.Now().Unix(),
	)
	if err != nil {
		return 0, wrap("add", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("add id", err)
	}
	return id, nil
}

func (s *storeImpl) Update(id int64, p model.Person, owner string) (bool, error) {
	res, err := s.db.Exec(updatePerson,
		p.Name, p.Height, p.Weight, nullColor(p.EyeColor),
		p.Coordinates.X, p.Coordinates.Y,
		p.Location.X, p.Location.Y, p.Location.Z,
		nullString(p.PassportID),
		owner, id,
	)
	if err != nil {
		return false, wrap("update", err)
	}
	return affected(res)
}

func (s *storeImpl) Remove(id int64, owner string) (bool, error) {
	res, err := s.db.Exec(deletePerson, owner, id)
	if err != nil {
		return false, wrap("remove", err)
	}
	return affected(res)
}

func (s *storeImpl) RemoveMin(owner string) (bool, error) {
	res, err := s.db.Exec(deleteMinPerson, owner, owner)
	if err != nil {
		return false, wrap("remove head", err)
	}
	return affected(res)
}

func (s *storeImpl) Clear(owner string) (int, error) {
	res, err := s.db.Exec(clearPeople, owner)
	if err != nil {
		return 0, wrap("clear", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("clear count", err)
	}
	return int(n), nil
}

func (s *storeImpl) AddUser(login, hash string) (bool, error) {
	// INSERT OR IGNORE resolves concurrent registrations for the same login
	// in the database: exactly one caller gets true, the rest false.
	res, err := s.db.Exec(insertUser, login, hash)
	if err != nil {
		return false, wrap("add user", err)
	}
	return affected(res)
}

func (s *storeImpl) UserHash(login string) (string, bool, error) {
	var hash string
	err := s.db.QueryRow(findUser, login).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("user hash", err)
	}
	return hash, true, nil
}

func (s *storeImpl) Close() error {
	return s.db.Close()
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

func wrap(op string, err error) error {
	return store.NewError(store.RetCInternalError, fmt.Sprintf("%s: %v", op, err))
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrap("rows affected", err)
	}
	return n > 0, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullColor(c model.Color) any {
	if c == model.ColorUnset {
		return nil
	}
	return c.String()
}
