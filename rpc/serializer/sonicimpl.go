package serializer

import (
	"github.com/bytedance/sonic"

	"github.com/trybenon/peopled/rpc/common"
)

// NewSonicSerializer creates a new serializer using the sonic JSON encoder.
// The wire format is identical to the json serializer, only the codec is
// faster; the two are interchangeable between peers.
func NewSonicSerializer() IRPCSerializer {
	return &sonicSerializerImpl{}
}

// sonicSerializerImpl implements the IRPCSerializer interface using sonic
type sonicSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (s sonicSerializerImpl) Serialize(msg common.Message) ([]byte, error) {
	return sonic.Marshal(msg)
}

func (s sonicSerializerImpl) Deserialize(b []byte, msg *common.Message) error {
	return sonic.Unmarshal(b, msg)
}
