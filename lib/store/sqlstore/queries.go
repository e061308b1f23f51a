package sqlstore

const (
	createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			login TEXT PRIMARY KEY,
			hash  TEXT NOT NULL
		);`

	createPeopleTable = `
		CREATE TABLE IF NOT EXISTS people (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT    NOT NULL,
			height      INTEGER NOT NULL,
			weight      INTEGER NOT NULL,
			eye_color   TEXT,
			coord_x     INTEGER NOT NULL,
			coord_y     REAL    NOT NULL,
			loc_x       REAL    NOT NULL,
			loc_y       REAL    NOT NULL,
			loc_z       INTEGER NOT NULL,
			passport_id TEXT,
			owner       TEXT    NOT NULL REFERENCES users(login),
			created_at  INTEGER NOT NULL
		);`

	selectAllPeople = `
		SELECT id, name, height, weight, eye_color,
		       coord_x, coord_y, loc_x, loc_y, loc_z,
		       passport_id, owner, created_at
		FROM people`

	insertPerson = `
		INSERT INTO people(name, height, weight, eye_color,
		                   coord_x, coord_y, loc_x, loc_y, loc_z,
		                   passport_id, owner, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	updatePerson = `
		UPDATE people
		SET name = ?, height = ?, weight = ?, eye_color = ?,
		    coord_x = ?, coord_y = ?, loc_x = ?, loc_y = ?, loc_z = ?,
		    passport_id = ?
		WHERE owner = ? AND id = ?;`

	deletePerson = `DELETE FROM people WHERE owner = ? AND id = ?;`

	deleteMinPerson = `
		DELETE FROM people
		WHERE owner = ? AND id = (SELECT MIN(id) FROM people WHERE owner = ?);`

	clearPeople = `DELETE FROM people WHERE owner = ?;`

	findUser   = `SELECT hash FROM users WHERE login = ?;`
	insertUser = `INSERT OR IGNORE INTO users(login, hash) VALUES (?, ?);`
)
