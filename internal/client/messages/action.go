// Package messages is the single-slot notification log of the station view.
//
// Actions describe what happened; dispatching one replaces the current
// message. Unknown actions leave the message as it is.
package messages

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

// Kind names the message types the log can hold.
type Kind string

const (
	KindCost  Kind = "cost"
	KindError Kind = "error"
	KindInfo  Kind = "info"
)

// DefaultCostTitle is used for cost payloads that carry no title.
const DefaultCostTitle = "Resources needed to add miner ship"

// Action is one of CostAction, ErrorAction, InfoAction or UnknownAction.
type Action interface {
	action()
}

// CostAction replaces the message with a cost listing.
type CostAction struct {
	Title string
	Data  models.Amounts
}

// ErrorAction replaces the message with an error.
type ErrorAction struct {
	Text string
}

// InfoAction replaces the message with a notice.
type InfoAction struct {
	Text string
}

// UnknownAction carries a tag the log does not handle.
type UnknownAction struct {
	Type string
}

func (CostAction) action()    {}
func (ErrorAction) action()   {}
func (InfoAction) action()    {}
func (UnknownAction) action() {}

type envelope struct {
	Type  string          `json:"type"`
	Title string          `json:"title"`
	Data  json.RawMessage `json:"data"`
}

// DecodeAction turns a {"type": ..., "data": ...} payload into an Action.
// Unrecognised types decode to UnknownAction without error.
func DecodeAction(b []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch Kind(env.Type) {
	case KindCost:
		var data models.Amounts
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("decode cost data: %w", err)
		}
		title := env.Title
		if title == "" {
			title = DefaultCostTitle
		}
		return CostAction{Title: title, Data: data}, nil
	case KindError, KindInfo:
		var text string
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &text); err != nil {
				return nil, fmt.Errorf("decode %s text: %w", env.Type, err)
			}
		}
		if Kind(env.Type) == KindError {
			return ErrorAction{Text: text}, nil
		}
		return InfoAction{Text: text}, nil
	default:
		return UnknownAction{Type: env.Type}, nil
	}
}
