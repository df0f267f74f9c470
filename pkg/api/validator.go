package api

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

var ErrUnknownAction = errors.New("unknown action")

func (p ControllerPayload) Validate() error {
	if p.Kind != "fsm" && p.Kind != "bt" {
		return errors.Errorf("kind must be \"fsm\" or \"bt\", got %q", p.Kind)
	}
	return nil
}

func (p AIPayload) Validate() error { return nil }

// DecodePayload разбирает payload команды в тип, соответствующий Action,
// и проверяет его.
func DecodePayload(cmd ClientCommand) (Validator, error) {
	var v Validator
	switch cmd.Action {
	case ActionSetAI:
		var p AIPayload
		if err := unmarshalPayload(cmd.Payload, &p); err != nil {
			return nil, err
		}
		v = p
	case ActionSetController:
		var p ControllerPayload
		if err := unmarshalPayload(cmd.Payload, &p); err != nil {
			return nil, err
		}
		v = p
	default:
		return nil, errors.Wrapf(ErrUnknownAction, "%q", cmd.Action)
	}
	if err := v.Validate(); err != nil {
		return nil, errors.Wrap(err, cmd.Action)
	}
	return v, nil
}

func unmarshalPayload(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return errors.New("payload is required")
	}
	return errors.Wrap(json.Unmarshal(raw, dst), "decode payload")
}
