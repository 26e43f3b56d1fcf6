package challenge

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"LiveCTF/common"
	"LiveCTF/model"
)

const (
	KeyName            = "name"
	KeyDescription     = "description"
	KeyAttribution     = "attribution"
	KeyConnectionInfo  = "connection_info"
	KeyNextID          = "next_id"
	KeyMaxAttempts     = "max_attempts"
	KeyValue           = "value"
	KeyCategory        = "category"
	KeyState           = "state"
	KeyType            = "type"
	KeyOwnerTeamID     = "owner_team_id"
	KeyAllowedUsers    = "allowed_users"
	KeyAuthorizedUsers = "authorized_users"
)

// BaseKeys are the challenge attributes every type accepts.
var BaseKeys = []string{
	KeyName, KeyDescription, KeyAttribution, KeyConnectionInfo, KeyNextID,
	KeyMaxAttempts, KeyValue, KeyCategory, KeyState, KeyType, KeyOwnerTeamID,
}

// Patch is an allow-listed set of challenge attribute changes. A nil field
// was not supplied.
type Patch struct {
	Name            *string
	Description     *string
	Attribution     *string
	ConnectionInfo  *string
	NextID          *int64
	MaxAttempts     *int
	Value           *int
	Category        *string
	State           *string
	Type            *string
	OwnerTeamID     *int64
	AllowedUsers    *string
	AuthorizedUsers *string

	keys map[string]bool
}

// DecodePatch converts request attributes into a Patch. Unknown keys and
// values of the wrong shape are input errors.
func DecodePatch(data map[string]interface{}) (*Patch, error) {
	p := &Patch{keys: make(map[string]bool, len(data))}
	var err error
	for k, v := range data {
		switch k {
		case KeyName:
			p.Name, err = asString(k, v)
		case KeyDescription:
			p.Description, err = asString(k, v)
		case KeyAttribution:
			p.Attribution, err = asString(k, v)
		case KeyConnectionInfo:
			p.ConnectionInfo, err = asString(k, v)
		case KeyCategory:
			p.Category, err = asString(k, v)
		case KeyState:
			p.State, err = asString(k, v)
		case KeyType:
			p.Type, err = asString(k, v)
		case KeyAllowedUsers:
			p.AllowedUsers, err = asString(k, v)
		case KeyAuthorizedUsers:
			p.AuthorizedUsers, err = asString(k, v)
		case KeyNextID:
			p.NextID, err = asInt64(k, v)
		case KeyOwnerTeamID:
			p.OwnerTeamID, err = asInt64(k, v)
		case KeyMaxAttempts:
			p.MaxAttempts, err = asInt(k, v)
		case KeyValue:
			p.Value, err = asInt(k, v)
		default:
			return nil, common.ErrInvalidInput("unknown attribute: " + k)
		}
		if err != nil {
			return nil, err
		}
		p.keys[k] = true
	}
	return p, nil
}

// Has reports whether key was supplied.
func (p *Patch) Has(key string) bool {
	return p.keys[key]
}

// Only rejects any supplied key outside allowed.
func (p *Patch) Only(allowed ...string) error {
	ok := make(map[string]bool, len(allowed))
	for _, k := range allowed {
		ok[k] = true
	}
	bad := make([]string, 0)
	for k := range p.keys {
		if !ok[k] {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return common.ErrInvalidInput("unsupported attribute: " + strings.Join(bad, ", "))
	}
	return nil
}

// Apply writes the supplied attributes onto ch. Type is left alone.
func (p *Patch) Apply(ch *model.Challenge) error {
	if p.State != nil {
		switch *p.State {
		case model.StateVisible, model.StateHidden, model.StateLocked:
		default:
			return common.ErrInvalidInput("invalid state: " + *p.State)
		}
		ch.State = *p.State
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return common.ErrInvalidInput("name must not be empty")
		}
		ch.Name = *p.Name
	}
	if p.MaxAttempts != nil && *p.MaxAttempts < 0 {
		return common.ErrInvalidInput("max_attempts must not be negative")
	}
	setString(&ch.Description, p.Description)
	setString(&ch.Attribution, p.Attribution)
	setString(&ch.ConnectionInfo, p.ConnectionInfo)
	setString(&ch.Category, p.Category)
	if p.NextID != nil {
		ch.NextID = *p.NextID
	}
	if p.MaxAttempts != nil {
		ch.MaxAttempts = *p.MaxAttempts
	}
	if p.Value != nil {
		ch.Value = *p.Value
	}
	if p.OwnerTeamID != nil {
		ch.OwnerTeamID = *p.OwnerTeamID
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func asString(key string, v interface{}) (*string, error) {
	switch x := v.(type) {
	case string:
		return &x, nil
	case []string: //表单字段
		if len(x) == 1 {
			return &x[0], nil
		}
	}
	return nil, common.ErrInvalidInput(fmt.Sprintf("%s must be a string", key))
}

func asInt64(key string, v interface{}) (*int64, error) {
	bad := common.ErrInvalidInput(fmt.Sprintf("%s must be an integer", key))
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case float64:
		if x != math.Trunc(x) {
			return nil, bad
		}
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil, bad
		}
		n = i
	case string, []string:
		s, err := asString(key, x)
		if err != nil {
			return nil, err
		}
		if t := strings.TrimSpace(*s); t != "" {
			i, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				return nil, bad
			}
			n = i
		}
	case nil:
	default:
		return nil, bad
	}
	return &n, nil
}

func asInt(key string, v interface{}) (*int, error) {
	n, err := asInt64(key, v)
	if err != nil {
		return nil, err
	}
	if *n > math.MaxInt32 || *n < math.MinInt32 {
		return nil, common.ErrInvalidInput(fmt.Sprintf("%s is out of range", key))
	}
	i := int(*n)
	return &i, nil
}
