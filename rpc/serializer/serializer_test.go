package serializer

import (
	"reflect"
	"testing"
	"time"

	"github.com/trybenon/peopled/lib/model"
	"github.com/trybenon/peopled/rpc/common"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() IRPCSerializer{
	"JSON":  NewJSONSerializer,
	"GOB":   NewGOBSerializer,
	"Sonic": NewSonicSerializer,
}

func testPerson() model.Person {
	return model.Person{
		ID:          42,
		Name:        "Ada",
		Coordinates: model.Coordinates{X: 10, Y: -3.5},
		Height:      170,
		Weight:      60,
		PassportID:  "AB1234",
		EyeColor:    model.ColorGreen,
		Location:    model.Location{X: 1.5, Y: 2.5, Z: 3},
		Owner:       "ada",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// testMessages creates a set of test messages with different fields filled
func testMessages() []common.Message {
	p := testPerson()
	return []common.Message{
		// Basic request with just a command
		{ID: 1, Cmd: common.CmdHelp},

		// Add request carrying a full person
		{
			ID:     2,
			Cmd:    common.CmdAdd,
			Person: &p,
			Owner:  "ada",
		},

		// Show response with multiple records
		{
			ID:      3,
			Cmd:     common.CmdShow,
			Status:  common.StatusOK,
			Persons: []model.Person{p, p},
		},

		// Error response
		{
			ID:     4,
			Cmd:    common.CmdRemoveByID,
			Status: common.StatusError,
			Text:   "record not found or not owned by you",
		},

		// Refresh response after a mutation
		{
			ID:      5,
			Cmd:     common.CmdClear,
			Status:  common.StatusRefresh,
			Persons: []model.Person{p},
		},

		// Ask-object response with target id
		{
			ID:       6,
			Cmd:      common.CmdUpdate,
			Status:   common.StatusAskObject,
			TargetID: 42,
		},

		// Auth request with credentials
		{
			ID:       7,
			Cmd:      common.CmdAuthenticate,
			Login:    "ada",
			Password: "deadbeef",
		},

		// Numeric payloads
		{
			ID:      8,
			Cmd:     common.CmdAverageOfHeight,
			Status:  common.StatusOK,
			Average: 171.25,
			Heights: []int{160, 170, 184},
			Ok:      true,
		},
	}
}

// TestSerializerRoundTrip tests that messages can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	messages := testMessages()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, msg := range messages {
				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize message %d: %v", i, err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize message %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(msg, result) {
					t.Errorf("Message %d doesn't match after round trip:\nOriginal: %+v\nResult: %+v",
						i, msg, result)
				}
			}
		})
	}
}

// TestCommandTypes tests each command type with each serializer
func TestCommandTypes(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			// Test each known command (CmdUnknown included, it is a legal wire value)
			for cmd := common.CmdUnknown; cmd <= common.CmdAuthenticate; cmd++ {
				msg := common.Message{ID: uint64(cmd), Cmd: cmd}

				// Serialize
				data, err := serializer.Serialize(msg)
				if err != nil {
					t.Errorf("Failed to serialize command %s: %v", cmd.String(), err)
					continue
				}

				// Deserialize
				var result common.Message
				err = serializer.Deserialize(data, &result)
				if err != nil {
					t.Errorf("Failed to deserialize command %s: %v", cmd.String(), err)
					continue
				}

				// Check command
				if result.Cmd != cmd {
					t.Errorf("Command doesn't match after round trip: Expected %s, got %s",
						cmd.String(), result.Cmd.String())
				}
			}
		})
	}
}

// TestJSONInterchangeability verifies that the sonic and stdlib JSON
// serializers produce mutually readable output, since mixed deployments
// may pair a sonic client with a stdlib server or vice versa.
func TestJSONInterchangeability(t *testing.T) {
	std := NewJSONSerializer()
	fast := NewSonicSerializer()

	for i, msg := range testMessages() {
		data, err := fast.Serialize(msg)
		if err != nil {
			t.Fatalf("sonic serialize message %d: %v", i, err)
		}

		var viaStd common.Message
		if err := std.Deserialize(data, &viaStd); err != nil {
			t.Fatalf("stdlib deserialize of sonic output, message %d: %v", i, err)
		}
		if !reflect.DeepEqual(msg, viaStd) {
			t.Errorf("message %d mismatch after sonic->stdlib:\nOriginal: %+v\nResult: %+v", i, msg, viaStd)
		}

		data, err = std.Serialize(msg)
		if err != nil {
			t.Fatalf("stdlib serialize message %d: %v", i, err)
		}

		var viaFast common.Message
		if err := fast.Deserialize(data, &viaFast); err != nil {
			t.Fatalf("sonic deserialize of stdlib output, message %d: %v", i, err)
		}
		if !reflect.DeepEqual(msg, viaFast) {
			t.Errorf("message %d mismatch after stdlib->sonic:\nOriginal: %+v\nResult: %+v", i, msg, viaFast)
		}
	}
}

// TestInvalidData tests how the serializers handle corrupt or invalid input
func TestInvalidData(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{
			name: "Empty data",
			data: []byte{},
		},
		{
			name: "Truncated JSON object",
			data: []byte(`{"id":1,"cmd":`),
		},
		{
			name: "Garbage bytes",
			data: []byte{0xff, 0x00, 0x13, 0x37},
		},
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					var msg common.Message
					if err := serializer.Deserialize(tc.data, &msg); err == nil {
						t.Errorf("Expected error but got none")
					}
				})
			}
		})
	}
}
