package events

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/agentstation/larkdocs/pkg/errors"
)

// Payload is a notification as delivered to a handler. Value holds the
// catalogued type (for example Permissions for AUTH_CHANGE) when Raw could
// be decoded, and Raw itself otherwise; Err records why decoding failed.
type Payload struct {
	Event Event
	Raw   any
	Value any
	Err   error
}

// NewPayload decodes raw according to the catalogue entry for e.
func NewPayload(e Event, raw any) Payload {
	value, err := Lookup(e).DecodePayload(raw)
	return Payload{Event: e, Raw: raw, Value: value, Err: err}
}

// DecodeData converts a capability response's data into the catalogued
// type. Uncatalogued events, data-less capabilities and nil data are
// returned unchanged. On failure raw is returned with the error.
func (s Spec) DecodeData(raw any) (any, error) {
	if s.Kind != Capability || s.Data == nil || raw == nil {
		return raw, nil
	}
	return decodeType(s.Event, s.Data, raw)
}

// DecodePayload converts a notification payload into the catalogued type.
func (s Spec) DecodePayload(raw any) (any, error) {
	if s.Kind != Notification || s.Payload == nil || raw == nil {
		return raw, nil
	}
	return decodeType(s.Event, s.Payload, raw)
}

// As converts v into T, either directly when v already holds a T or by
// decoding it field by field using the json tag names.
func As[T any](v any) (T, error) {
	var out T
	if v == nil {
		return out, nil
	}
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	if err := decode(v, &out); err != nil {
		return out, errors.NewValidationError(reflect.TypeOf((*T)(nil)).Elem().String(), v, err.Error())
	}
	return out, nil
}

// PayloadAs converts a notification's value into T.
func PayloadAs[T any](p Payload) (T, error) {
	if typed, ok := p.Value.(T); ok {
		return typed, nil
	}
	return As[T](p.Raw)
}

func decodeType(e Event, t reflect.Type, raw any) (any, error) {
	if reflect.TypeOf(raw) == t {
		return raw, nil
	}
	ptr := reflect.New(t)
	if err := decode(raw, ptr.Interface()); err != nil {
		return raw, errors.NewValidationError(string(e), raw,
			fmt.Sprintf("cannot decode into %s: %v", t, err))
	}
	return ptr.Elem().Interface(), nil
}

func decode(input, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  result,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
