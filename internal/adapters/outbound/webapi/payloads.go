package webapi

import (
	"encoding/json"
	"strings"
)

// profilePayload mirrors one entry of the profile listing. The default
// marker arrives either as a JSON bool or as the literal strings
// "True"/"False" depending on server version.
type profilePayload struct {
	Name     string    `json:"name"`
	Language string    `json:"language"`
	Default  looseBool `json:"default"`
}

// looseBool accepts JSON true/false as well as "True"/"False" strings.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = looseBool(t)
	case string:
		*b = looseBool(strings.EqualFold(t, "true"))
	default:
		*b = false
	}
	return nil
}

// profileIndexPayload mirrors one entry of the profile rule index. A nil
// Rules slice means the field was absent from the document, which is
// distinct from an empty list.
type profileIndexPayload struct {
	Name  string              `json:"name"`
	Rules []activeRulePayload `json:"rules"`
}

type activeRulePayload struct {
	Key    string         `json:"key"`
	Repo   string         `json:"repo"`
	Params []paramPayload `json:"params"`
}

type paramPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// identifier is the CheckId parameter value when the rule carries one,
// else the public key. The first CheckId wins if a server ever repeats
// the parameter.
func (r activeRulePayload) identifier() string {
	for _, p := range r.Params {
		if p.Key == "CheckId" {
			return p.Value
		}
	}
	return r.Key
}

// rulesSearchPayload mirrors the rule search response. Keys arrive in the
// "repository:ruleKey" composite form.
type rulesSearchPayload struct {
	Rules []searchedRulePayload `json:"rules"`
}

type searchedRulePayload struct {
	Key         string `json:"key"`
	InternalKey string `json:"internalKey"`
}

type propertyPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type pluginPayload struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}
