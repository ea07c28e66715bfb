package store

import (
	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"github.com/streamvest/engine-go/core/types"
)

// streamRecordKind is the discriminator written ahead of every persisted
// stream record. Bumped only on incompatible layout changes.
const streamRecordKind = "streamvest.stream.v1"

// encMode encodes with Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding. The same record always
// produces identical bytes, which keeps persisted state comparable
// byte-for-byte across implementations.
var encMode cbor.EncMode

// decMode accepts standard CBOR and ignores unknown fields for forward
// compatibility.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Addresses implement encoding.TextMarshaler; serialize them as hex
	// text strings so records stay inspectable in dumps.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

// storedStream is the fixed persisted shape: discriminator plus the
// record fields.
type storedStream struct {
	Kind   string       `cbor:"kind"`
	Stream types.Stream `cbor:"stream"`
}

// EncodeStream serializes a stream record to its persisted form.
func EncodeStream(stream *types.Stream) ([]byte, error) {
	data, err := encMode.Marshal(storedStream{
		Kind:   streamRecordKind,
		Stream: *stream,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding stream record")
	}
	return data, nil
}

// DecodeStream deserializes a persisted stream record, rejecting records
// with an unknown discriminator.
func DecodeStream(data []byte) (*types.Stream, error) {
	var stored storedStream
	if err := decMode.Unmarshal(data, &stored); err != nil {
		return nil, errors.Wrap(err, "decoding stream record")
	}
	if stored.Kind != streamRecordKind {
		return nil, errors.Errorf("unknown stream record kind %q", stored.Kind)
	}
	return &stored.Stream, nil
}
