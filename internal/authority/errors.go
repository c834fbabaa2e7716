package authority

import (
	"encoding/json"
)

// The authority reports failures in a `detail` field whose shape varies: a
// plain message, a list of structured validation entries, or an arbitrary
// object. The shape is decoded exactly once, here at the transport boundary,
// into a tagged union; Message then matches the tag exhaustively. Callers
// always receive a plain string, never a structured payload.

// DetailKind tags the decoded shape of a failure detail.
type DetailKind int

const (
	DetailMissing DetailKind = iota
	DetailString
	DetailList
	DetailObject
)

// Detail is the decoded failure payload.
type Detail struct {
	Kind   DetailKind
	Str    string
	List   []DetailItem
	Object json.RawMessage
}

// DetailItem is one entry of a list-shaped detail. Msg is set when the entry
// is an object carrying a msg field; Raw always holds the serialized entry.
type DetailItem struct {
	Msg string
	Raw json.RawMessage
}

// errorEnvelope is the authority's failure body.
type errorEnvelope struct {
	Detail Detail `json:"detail"`
}

func (d *Detail) UnmarshalJSON(data []byte) error {
	// Null detail is the same as no detail.
	if string(data) == "null" {
		d.Kind = DetailMissing
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Kind = DetailString
		d.Str = s
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		d.Kind = DetailList
		d.List = make([]DetailItem, 0, len(list))
		for _, raw := range list {
			item := DetailItem{Raw: raw}
			var entry struct {
				Msg string `json:"msg"`
			}
			if err := json.Unmarshal(raw, &entry); err == nil {
				item.Msg = entry.Msg
			}
			d.List = append(d.List, item)
		}
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err == nil {
		d.Kind = DetailObject
		d.Object = append(json.RawMessage(nil), data...)
		return nil
	}

	// Numbers, booleans, and other scalars: keep the serialized form.
	d.Kind = DetailObject
	d.Object = append(json.RawMessage(nil), data...)
	return nil
}

// Message normalizes the detail into a single human-readable string.
// Precedence: first list entry (its msg field when present, serialized form
// otherwise), then a string detail, then the serialized object, then the
// operation's fallback. The result is never empty.
func (d Detail) Message(fallback string) string {
	var msg string
	switch d.Kind {
	case DetailList:
		if len(d.List) > 0 {
			if d.List[0].Msg != "" {
				msg = d.List[0].Msg
			} else {
				msg = string(d.List[0].Raw)
			}
		}
	case DetailString:
		msg = d.Str
	case DetailObject:
		msg = string(d.Object)
	}
	if msg == "" {
		return fallback
	}
	return msg
}

// Fallback messages per operation; used when the authority's failure payload
// carries nothing displayable.
const (
	FallbackLogin    = "Login failed"
	FallbackRegister = "Registration failed"
	FallbackGeneric  = "Request failed"
)

// decodeDetail parses a failure body. A body that is not valid JSON yields a
// missing detail, which resolves to the fallback.
func decodeDetail(body []byte) Detail {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Detail{Kind: DetailMissing}
	}
	return env.Detail
}
