package workspaces

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"
)

// ErrUnknownAction is returned by DecodeAction for types the slice does not
// own.
var ErrUnknownAction = errors.New("workspaces: unknown action type")

// DecodeAction builds the action for actionType from its JSON payload.
func DecodeAction(actionType string, payload json.RawMessage) (command.Message, error) {
	switch actionType {
	case ActionSystemInit:
		var action InitAction
		if err := decodePayload(payload, &action); err != nil {
			return nil, err
		}
		return action, nil
	case ActionUpdate:
		var update WorkspaceUpdate
		if err := decodePayload(payload, &update); err != nil {
			return nil, err
		}
		return Update(update), nil
	case ActionPublishStarted:
		scope, err := decodeScope(payload)
		if err != nil {
			return nil, err
		}
		return Publish(scope), nil
	case ActionDiscardStarted:
		scope, err := decodeScope(payload)
		if err != nil {
			return nil, err
		}
		return Discard(scope), nil
	case ActionPublishFinished:
		return FinishPublish(), nil
	case ActionDiscardAborted:
		return AbortDiscard(), nil
	case ActionDiscardConfirmed:
		return ConfirmDiscard(), nil
	case ActionDiscardFinished:
		return FinishDiscard(), nil
	case ActionChangeBaseWorkspace:
		var name string
		if err := decodePayload(payload, &name); err != nil {
			return nil, err
		}
		return ChangeBaseWorkspace(name), nil
	case ActionRebaseWorkspace:
		var name string
		if err := decodePayload(payload, &name); err != nil {
			return nil, err
		}
		return RebaseWorkspace(name), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
}

// decodeScope requires an explicit scope. SITE is zero, so an absent field
// must not fall back to it.
func decodeScope(payload json.RawMessage) (Scope, error) {
	var wire struct {
		Scope *Scope `json:"scope"`
	}
	if err := decodePayload(payload, &wire); err != nil {
		return 0, err
	}
	err := validation.Errors{
		"scope": validation.Validate(wire.Scope, validation.NotNil),
	}.Filter()
	if err != nil {
		return 0, fmt.Errorf("workspaces: decode payload: %w", err)
	}
	return *wire.Scope, nil
}

func decodePayload(payload json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, target); err != nil {
		return fmt.Errorf("workspaces: decode payload: %w", err)
	}
	return nil
}
