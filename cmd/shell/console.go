package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/rpc/client"
)

// errExit signals that the user asked to leave the console. It propagates
// through nested script execution up to the interactive loop.
var errExit = errors.New("exit")

// console interprets collection commands read line by line from a source.
// The same interpreter runs the interactive loop and execute_script files;
// scripts currently being executed are tracked to break recursion cycles.
type console struct {
	session *client.Session
	out     io.Writer
	scripts map[string]bool
}

func newConsole(session *client.Session, out io.Writer) *console {
	return &console{
		session: session,
		out:     out,
		scripts: make(map[string]bool),
	}
}

// runInteractive reads commands from src until EOF or 'exit'. Errors of
// single commands are printed, not returned, so one bad command does not end
// the console.
func (c *console) runInteractive(src io.Reader) error {
	err := c.runSource(bufio.NewReader(src), true)
	if errors.Is(err, errExit) || err == nil {
		fmt.Fprintln(c.out, "bye")
		return nil
	}
	return err
}

// runSource is the command loop shared by the interactive console and script
// execution. In interactive mode invalid input is re-prompted; in script mode
// it aborts the script.
func (c *console) runSource(r *bufio.Reader, interactive bool) error {
	for {
		if interactive {
			fmt.Fprintf(c.out, "%s> ", c.promptName())
		}

		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if err := c.execute(fields, r, interactive); err != nil {
			if errors.Is(err, errExit) {
				return errExit
			}
			if !interactive {
				return err
			}
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *console) promptName() string {
	if login := c.session.Login(); login != "" {
		return login
	}
	return "guest"
}

// execute runs one command. Commands that need more input (credentials,
// record fields) read it from r.
func (c *console) execute(fields []string, r *bufio.Reader, interactive bool) error {
	cmd, args := fields[0], fields[1:]

	switch cmd {

	case "exit":
		return errExit

	case "help":
		text, err := c.session.Help()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "info":
		text, err := c.session.Info()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "show":
		persons, err := c.session.Show()
		if err != nil {
			return err
		}
		if len(persons) == 0 {
			fmt.Fprintln(c.out, "collection is empty")
			return nil
		}
		for i := range persons {
			fmt.Fprintln(c.out, persons[i].String())
		}

	case "head":
		p, err := c.session.Head()
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Fprintln(c.out, "collection is empty")
		} else {
			fmt.Fprintln(c.out, p.String())
		}

	case "average_of_height":
		avg, err := c.session.AverageHeight()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "average height: %.2f\n", avg)

	case "print_ascending":
		persons, err := c.session.PrintAscending()
		if err != nil {
			return err
		}
		for i := range persons {
			fmt.Fprintln(c.out, persons[i].String())
		}

	case "print_field_ascending_height":
		heights, err := c.session.HeightsAscending()
		if err != nil {
			return err
		}
		for _, h := range heights {
			fmt.Fprintln(c.out, h)
		}

	case "add":
		p, err := c.readPerson(r, interactive)
		if err != nil {
			return err
		}
		text, err := c.session.Add(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "add_if_max":
		p, err := c.readPerson(r, interactive)
		if err != nil {
			return err
		}
		text, err := c.session.AddIfMax(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "update":
		id, err := parseIDArg(args)
		if err != nil {
			return err
		}
		// only ask for the replacement record if the id can be updated
		owned, err := c.session.CheckID(id)
		if err != nil {
			return err
		}
		if !owned {
			fmt.Fprintf(c.out, "no record with id %d that belongs to you\n", id)
			return nil
		}
		p, err := c.readPerson(r, interactive)
		if err != nil {
			return err
		}
		text, err := c.session.Update(id, p)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "remove_by_id":
		id, err := parseIDArg(args)
		if err != nil {
			return err
		}
		text, err := c.session.RemoveByID(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "clear":
		text, err := c.session.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "remove_head":
		text, err := c.session.RemoveHead()
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "check_id":
		id, err := parseIDArg(args)
		if err != nil {
			return err
		}
		owned, err := c.session.CheckID(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "id=%d, owned=%t\n", id, owned)

	case "registration":
		login, password, err := c.readCredentials(r, interactive)
		if err != nil {
			return err
		}
		text, err := c.session.Register(login, password)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "authenticate":
		login, password, err := c.readCredentials(r, interactive)
		if err != nil {
			return err
		}
		text, err := c.session.Authenticate(login, password)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.out, text)

	case "logout":
		c.session.Logout()
		fmt.Fprintln(c.out, "logged out")

	case "execute_script":
		if len(args) != 1 {
			return fmt.Errorf("usage: execute_script <file>")
		}
		return c.executeScript(args[0])

	default:
		return fmt.Errorf("unknown command %q, type 'help' for the list of commands", cmd)
	}

	return nil
}

// executeScript runs the commands of a file through the same interpreter.
// A script that is already executing is skipped, so scripts that call each
// other (or themselves) terminate.
func (c *console) executeScript(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if c.scripts[abs] {
		fmt.Fprintf(c.out, "skipping %s: script is already executing (recursion)\n", path)
		return nil
	}

	f, err := os.Open(abs)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	c.scripts[abs] = true
	defer delete(c.scripts, abs)

	return c.runSource(bufio.NewReader(f), false)
}

// --------------------------------------------------------------------------
// Input helper
// --------------------------------------------------------------------------

func parseIDArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected exactly one argument: the record id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be a number: %w", err)
	}
	return id, nil
}

// readCredentials reads login and password, each on its own line
func (c *console) readCredentials(r *bufio.Reader, interactive bool) (string, string, error) {
	login, err := c.readField(r, interactive, "login", func(s string) error {
		if s == "" {
			return fmt.Errorf("login must not be empty")
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	password, err := c.readField(r, interactive, "password", func(s string) error {
		if s == "" {
			return fmt.Errorf("password must not be empty")
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}

	return login, password, nil
}

// readPerson reads one record field per line, validating each field as it is
// entered
func (c *console) readPerson(r *bufio.Reader, interactive bool) (*model.Person, error) {
	p := &model.Person{}

	name, err := c.readField(r, interactive, "name", func(s string) error {
		if s == "" {
			return fmt.Errorf("name must not be empty")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.Name = name

	if err := readInto(c, r, interactive, "coordinates.x (integer)", &p.Coordinates.X, func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, 64)
	}); err != nil {
		return nil, err
	}

	if err := readInto(c, r, interactive, "coordinates.y (number)", &p.Coordinates.Y, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); err != nil {
		return nil, err
	}

	if err := readInto(c, r, interactive, "height (integer > 0)", &p.Height, func(s string) (int, error) {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, err
		}
		if v <= 0 {
			return 0, fmt.Errorf("height must be greater than 0")
		}
		return v, nil
	}); err != nil {
		return nil, err
	}

	if err := readInto(c, r, interactive, "weight (integer > 0)", &p.Weight, func(s string) (int64, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		if v <= 0 {
			return 0, fmt.Errorf("weight must be greater than 0")
		}
		return v, nil
	}); err != nil {
		return nil, err
	}

	passport, err := c.readField(r, interactive, "passport id (optional, at least 4 characters)", func(s string) error {
		if s != "" && len(s) < 4 {
			return fmt.Errorf("passport id must be at least 4 characters")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.PassportID = passport

	if err := readInto(c, r, interactive, "eye color (green, blue, yellow, orange, brown or empty)", &p.EyeColor, model.ParseColor); err != nil {
		return nil, err
	}

	if err := readInto(c, r, interactive, "location.x (number)", &p.Location.X, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	}); err != nil {
		return nil, err
	}

	if err := readInto(c, r, interactive, "location.y (number)", &p.Location.Y, func(s string) (float32, error) {
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	}); err != nil {
		return nil, err
	}

	if err := readInto(c, r, interactive, "location.z (integer)", &p.Location.Z, strconv.Atoi); err != nil {
		return nil, err
	}

	return p, nil
}

// readField reads one line and validates it. In interactive mode invalid
// input is re-prompted, in script mode it fails the script.
func (c *console) readField(r *bufio.Reader, interactive bool, prompt string, validate func(string) error) (string, error) {
	for {
		if interactive {
			fmt.Fprintf(c.out, "  %s: ", prompt)
		}

		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return "", fmt.Errorf("unexpected end of input while reading %s", prompt)
			}
			return "", err
		}
		value := strings.TrimSpace(line)

		if err := validate(value); err != nil {
			if interactive {
				fmt.Fprintf(c.out, "  invalid input: %v\n", err)
				continue
			}
			return "", fmt.Errorf("invalid %s: %w", prompt, err)
		}

		return value, nil
	}
}

// readInto reads one line, parses it into the target type and assigns it.
// Validation errors of the parse function follow the same interactive
// re-prompt rules as readField.
func readInto[T any](c *console, r *bufio.Reader, interactive bool, prompt string, target *T, parse func(string) (T, error)) error {
	var parsed T
	_, err := c.readField(r, interactive, prompt, func(s string) error {
		var err error
		parsed, err = parse(s)
		return err
	})
	if err != nil {
		return err
	}
	*target = parsed
	return nil
}

