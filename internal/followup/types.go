package followup

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// OptionalFloat is a numeric field that may be absent. It decodes JSON
// numbers, numeric strings and null; strings that do not parse are
// treated as absent.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Float returns a present OptionalFloat.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	*o = OptionalFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		s, err := strconv.Unquote(raw)
		if err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	*o = Float(v)
	return nil
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(o.Value, 'f', -1, 64)), nil
}

// Ptr returns nil when the value is absent.
func (o OptionalFloat) Ptr() *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// ActionStatus is the lifecycle state of a follow-up action.
type ActionStatus string

const (
	StatusPendente    ActionStatus = "pendente"
	StatusEmAndamento ActionStatus = "em_andamento"
	StatusConcluido   ActionStatus = "concluido"
)

// Action is one item of a follow-up action plan.
type Action struct {
	Description string       `json:"descricao,omitempty"`
	Status      ActionStatus `json:"status"`
}

// ActionList is a normalized action plan.
type ActionList []Action

// Completed counts the actions whose status is concluido.
func (l ActionList) Completed() int {
	n := 0
	for _, a := range l {
		if a.Status == StatusConcluido {
			n++
		}
	}
	return n
}

// UnmarshalJSON accepts both a JSON array and a JSON string holding an
// encoded array.
func (l *ActionList) UnmarshalJSON(data []byte) error {
	var raw any = []byte(data)
	if s := bytes.TrimSpace(data); len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(s, &str); err != nil {
			return err
		}
		raw = str
	}
	parsed, err := ParseActionList(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Record is one monthly follow-up snapshot.
type Record struct {
	Month      time.Time     `json:"mes"`
	ScoreGeral int           `json:"score_geral"`
	ROI        OptionalFloat `json:"roi"`
	Revenue    OptionalFloat `json:"faturamento"`
	Actions    ActionList    `json:"acoes"`
}
