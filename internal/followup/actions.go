package followup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedActions = errors.New("malformed action list")

// ParseActionList normalizes a stored action plan. raw may be a JSON
// string, a byte slice, a decoded []any, or an already typed list.
// Entries that are not objects are skipped. Undecodable input returns
// ErrMalformedActions.
func ParseActionList(raw any) (ActionList, error) {
	switch v := raw.(type) {
	case nil:
		return ActionList{}, nil
	case ActionList:
		return append(ActionList{}, v...), nil
	case []Action:
		return append(ActionList{}, v...), nil
	case string:
		return decodeActions([]byte(v))
	case []byte:
		return decodeActions(v)
	case json.RawMessage:
		return decodeActions(v)
	case []any:
		return fromItems(v), nil
	case []map[string]any:
		items := make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
		return fromItems(items), nil
	default:
		return ActionList{}, fmt.Errorf("%w: unsupported type %T", ErrMalformedActions, raw)
	}
}

func decodeActions(data []byte) (ActionList, error) {
	if strings.TrimSpace(string(data)) == "" {
		return ActionList{}, nil
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return ActionList{}, fmt.Errorf("%w: %v", ErrMalformedActions, err)
	}
	return fromItems(items), nil
}

func fromItems(items []any) ActionList {
	out := make(ActionList, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		status, _ := m["status"].(string)
		desc, _ := m["descricao"].(string)
		out = append(out, Action{Description: desc, Status: ActionStatus(status)})
	}
	return out
}

// CompletedActionsCount counts concluded actions in raw, returning 0 when
// raw cannot be parsed.
func CompletedActionsCount(raw any) int {
	list, err := ParseActionList(raw)
	if err != nil {
		return 0
	}
	return list.Completed()
}
