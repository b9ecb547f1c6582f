package model

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Availability describes which (day, period) pairs a faculty member can teach.
//
// An Availability is either unrestricted, in which case every slot is allowed,
// or restricted to an explicit set of periods per day. Missing and malformed
// source data both normalise to unrestricted; IsMalformed records which of the
// two happened so callers can report it.
type Availability struct {
	periods   map[string]map[int]bool
	malformed bool
}

// Unrestricted returns an availability that allows every slot
func Unrestricted() Availability {
	return Availability{}
}

// NewAvailability builds a restricted availability from a day -> periods map.
// An empty map yields an unrestricted availability.
func NewAvailability(periods map[string][]int) Availability {
	a := Availability{}
	for day, ps := range periods {
		key := strings.ToLower(strings.TrimSpace(day))
		if key == "" {
			continue
		}
		if a.periods == nil {
			a.periods = make(map[string]map[int]bool)
		}
		if a.periods[key] == nil {
			a.periods[key] = make(map[int]bool)
		}
		for _, p := range ps {
			a.periods[key][p] = true
		}
	}
	return a
}

// ParseAvailability normalises the stored JSON form of an availability.
//
// Accepted shapes per day are a list of periods, where each period is a
// number, a numeric string, or an object with a "period" field, or an object
// with a "periods" list. Empty input is unrestricted. Input that cannot be
// decoded at all is unrestricted and flagged as malformed.
func ParseAvailability(raw []byte) Availability {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return Unrestricted()
	}

	var days map[string]json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil {
		return Availability{malformed: true}
	}

	periods := make(map[string][]int, len(days))
	for day, value := range days {
		ps, ok := decodePeriods(value)
		if !ok {
			return Availability{malformed: true}
		}
		periods[day] = ps
	}

	return NewAvailability(periods)
}

func decodePeriods(value json.RawMessage) ([]int, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(value, &list); err != nil {
		var wrapper struct {
			Periods []json.RawMessage `json:"periods"`
		}
		if err := json.Unmarshal(value, &wrapper); err != nil {
			return nil, false
		}
		list = wrapper.Periods
	}

	out := make([]int, 0, len(list))
	for _, item := range list {
		p, ok := decodePeriod(item)
		if !ok {
			return nil, false
		}
		out = append(out, p)
	}
	return out, true
}

func decodePeriod(item json.RawMessage) (int, bool) {
	var n int
	if err := json.Unmarshal(item, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		return n, err == nil
	}
	var obj struct {
		Period *int `json:"period"`
	}
	if err := json.Unmarshal(item, &obj); err == nil && obj.Period != nil {
		return *obj.Period, true
	}
	return 0, false
}

// IsRestricted reports whether the availability limits the allowed slots
func (a Availability) IsRestricted() bool {
	return len(a.periods) > 0
}

// IsMalformed reports whether the source data could not be decoded
func (a Availability) IsMalformed() bool {
	return a.malformed
}

// Allows reports whether the given day and period may be taught
func (a Availability) Allows(day string, period int) bool {
	if !a.IsRestricted() {
		return true
	}
	return a.periods[strings.ToLower(day)][period]
}

// Periods returns the restricted day -> sorted periods map, or nil when unrestricted
func (a Availability) Periods() map[string][]int {
	if !a.IsRestricted() {
		return nil
	}
	out := make(map[string][]int, len(a.periods))
	for day, set := range a.periods {
		ps := make([]int, 0, len(set))
		for p := range set {
			ps = append(ps, p)
		}
		sort.Ints(ps)
		out[day] = ps
	}
	return out
}

// MarshalJSON stores the restricted periods; unrestricted availability is "{}"
func (a Availability) MarshalJSON() ([]byte, error) {
	periods := a.Periods()
	if periods == nil {
		periods = map[string][]int{}
	}
	return json.Marshal(periods)
}
