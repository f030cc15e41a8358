package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownMessage is returned by Decode for kinds clients may not send.
var ErrUnknownMessage = errors.New("unknown message type")

var decoders = map[string]func(json.RawMessage) (Message, error){
	SetMode{}.Kind():        decodeAs[SetMode],
	SetProgress{}.Kind():    decodeAs[SetProgress],
	Scroll{}.Kind():         decodeAs[Scroll],
	MeasureEntries{}.Kind(): decodeAs[MeasureEntries],
	FileScroll{}.Kind():     decodeAs[FileScroll],
	MeasureFiles{}.Kind():   decodeAs[MeasureFiles],
	PointerEnter{}.Kind():   decodeAs[PointerEnter],
	PointerMove{}.Kind():    decodeAs[PointerMove],
	PointerLeave{}.Kind():   decodeAs[PointerLeave],
	BrushStart{}.Kind():     decodeAs[BrushStart],
	BrushMove{}.Kind():      decodeAs[BrushMove],
	BrushEnd{}.Kind():       decodeAs[BrushEnd],
	SetBrush{}.Kind():       decodeAs[SetBrush],
	Resize{}.Kind():         decodeAs[Resize],
}

func decodeAs[M Message](data json.RawMessage) (Message, error) {
	var m M
	if len(data) == 0 || string(data) == "null" {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode builds the client message of the given kind from its JSON payload.
func Decode(kind string, data json.RawMessage) (Message, error) {
	dec, ok := decoders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, kind)
	}
	m, err := dec(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", kind, err)
	}
	return m, nil
}

// ClientKinds lists the message kinds Decode accepts, sorted.
func ClientKinds() []string {
	out := make([]string, 0, len(decoders))
	for k := range decoders {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
