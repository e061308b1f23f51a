package people

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/trybenon/peopled/cmd/util"
	"github.com/trybenon/peopled/lib/model"
)

var (
	registerCmd = &cobra.Command{
		Use:   "register [login] [password]",
		Short: "Creates a new account on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if text, err := session.Register(args[0], args[1]); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	helpCmd = &cobra.Command{
		Use:   "help",
		Short: "Prints the server-side command reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text, err := session.Help(); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Prints collection metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text, err := session.Info(); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	showCmd = &cobra.Command{
		Use:   "show",
		Short: "Lists all records of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			persons, err := session.Show()
			if err != nil {
				return err
			}
			if len(persons) == 0 {
				fmt.Println("collection is empty")
				return nil
			}
			for i := range persons {
				fmt.Println(persons[i].String())
			}
			return nil
		},
	}
	headCmd = &cobra.Command{
		Use:   "head",
		Short: "Prints the first record of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := session.Head()
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Println("collection is empty")
			} else {
				fmt.Println(p.String())
			}
			return nil
		},
	}
	averageCmd = &cobra.Command{
		Use:   "average-of-height",
		Short: "Prints the average height over all records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			avg, err := session.AverageHeight()
			if err != nil {
				return err
			}
			fmt.Printf("average height: %.2f\n", avg)
			return nil
		},
	}
	ascendingCmd = &cobra.Command{
		Use:   "print-ascending",
		Short: "Lists all records in ascending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			persons, err := session.PrintAscending()
			if err != nil {
				return err
			}
			for i := range persons {
				fmt.Println(persons[i].String())
			}
			return nil
		},
	}
	heightsCmd = &cobra.Command{
		Use:   "print-field-ascending-height",
		Short: "Lists the height values of all records in ascending order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			heights, err := session.HeightsAscending()
			if err != nil {
				return err
			}
			for _, h := range heights {
				fmt.Println(h)
			}
			return nil
		},
	}
	checkIDCmd = &cobra.Command{
		Use:   "check-id [id]",
		Short: "Checks if a record exists and belongs to the current user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}
			ok, err := session.CheckID(id)
			if err != nil {
				return err
			}
			fmt.Printf("id=%d, owned=%t\n", id, ok)
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Adds a new record to the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := personFromFlags(cmd)
			if err != nil {
				return err
			}
			if text, err := session.Add(p); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	addIfMaxCmd = &cobra.Command{
		Use:   "add-if-max",
		Short: "Adds a new record if it exceeds the current maximum",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := personFromFlags(cmd)
			if err != nil {
				return err
			}
			if text, err := session.AddIfMax(p); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [id]",
		Short: "Replaces an owned record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}
			p, err := personFromFlags(cmd)
			if err != nil {
				return err
			}
			if text, err := session.Update(id, p); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove-by-id [id]",
		Short: "Removes an owned record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}
			if text, err := session.RemoveByID(id); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	clearCmd = &cobra.Command{
		Use:   "clear",
		Short: "Removes all records owned by the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text, err := session.Clear(); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
	removeHeadCmd = &cobra.Command{
		Use:   "remove-head",
		Short: "Removes and prints the first record of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if text, err := session.RemoveHead(); err != nil {
				return err
			} else {
				fmt.Println(text)
			}
			return nil
		},
	}
)

func init() {
	// record field flags for the mutating commands
	addPersonFlags(addCmd)
	addPersonFlags(addIfMaxCmd)
	addPersonFlags(updateCmd)
}

// addPersonFlags registers one flag per record field on a command
func addPersonFlags(cmd *cobra.Command) {
	key := "name"
	cmd.Flags().String(key, "", util.WrapString("Name of the person (required)"))

	key = "coord-x"
	cmd.Flags().Int64(key, 0, util.WrapString("X coordinate"))

	key = "coord-y"
	cmd.Flags().Float64(key, 0, util.WrapString("Y coordinate"))

	key = "height"
	cmd.Flags().Int(key, 0, util.WrapString("Height in cm (must be > 0)"))

	key = "weight"
	cmd.Flags().Int64(key, 0, util.WrapString("Weight in kg (must be > 0)"))

	key = "passport"
	cmd.Flags().String(key, "", util.WrapString("Passport ID (optional, at least 4 characters)"))

	key = "eye-color"
	cmd.Flags().String(key, "", util.WrapString("Eye color (green, blue, yellow, orange, brown)"))

	key = "loc-x"
	cmd.Flags().Float64(key, 0, util.WrapString("Location X"))

	key = "loc-y"
	cmd.Flags().Float32(key, 0, util.WrapString("Location Y"))

	key = "loc-z"
	cmd.Flags().Int(key, 0, util.WrapString("Location Z"))
}

// personFromFlags builds and validates a record from the field flags
func personFromFlags(cmd *cobra.Command) (*model.Person, error) {
	flags := cmd.Flags()

	name, _ := flags.GetString("name")
	coordX, _ := flags.GetInt64("coord-x")
	coordY, _ := flags.GetFloat64("coord-y")
	height, _ := flags.GetInt("height")
	weight, _ := flags.GetInt64("weight")
	passport, _ := flags.GetString("passport")
	eyeColorName, _ := flags.GetString("eye-color")
	locX, _ := flags.GetFloat64("loc-x")
	locY, _ := flags.GetFloat32("loc-y")
	locZ, _ := flags.GetInt("loc-z")

	eyeColor, err := model.ParseColor(eyeColorName)
	if err != nil {
		return nil, err
	}

	p := &model.Person{
		Name:        name,
		Coordinates: model.Coordinates{X: coordX, Y: coordY},
		Height:      height,
		Weight:      weight,
		PassportID:  passport,
		EyeColor:    eyeColor,
		Location:    model.Location{X: locX, Y: locY, Z: locZ},
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}
