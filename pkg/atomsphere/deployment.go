// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package atomsphere

import (
	"encoding/json"
	"fmt"
)

const (
	fieldListenerStatus = "listenerStatus"
	fieldScheduleStatus = "scheduleStatus"
	statusUnavailable   = "N/A"
)

// Deployment is an opaque upstream record. The platform owns the schema; the
// proxy relays the raw JSON verbatim and only inspects the presence of a few
// keys. Presence, not truthiness: a key carrying null or "" still counts.
type Deployment struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// UnmarshalJSON keeps the raw payload alongside a key index.
func (d *Deployment) UnmarshalJSON(data []byte) error {
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("deployment record is not a JSON object: %w", err)
	}
	d.raw = append(json.RawMessage(nil), data...)
	d.fields = fields
	return nil
}

// MarshalJSON relays the upstream record untouched.
func (d Deployment) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return d.raw, nil
}

// ID returns the upstream record identifier, or "" when absent.
func (d Deployment) ID() string {
	raw, ok := d.fields["id"]
	if !ok {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return ""
	}
	return id
}

// statusField reports whether the named key exists and its best-effort string
// value. Non-string values (including null) render as "".
func (d Deployment) statusField(name string) (string, bool) {
	raw, ok := d.fields[name]
	if !ok {
		return "", false
	}
	var value string
	_ = json.Unmarshal(raw, &value)
	return value, true
}

// TypeView is the derived deployment classification returned by the type
// route. A deployment is listener-driven when the upstream record carries a
// listenerStatus key, schedule-driven when it carries scheduleStatus.
type TypeView struct {
	IsListener        bool       `json:"isListener"`
	IsScheduler       bool       `json:"isScheduler"`
	Status            string     `json:"status"`
	DeploymentDetails Deployment `json:"deploymentDetails"`
}

// TypeView classifies the deployment from field presence.
func (d Deployment) TypeView() TypeView {
	view := TypeView{
		Status:            statusUnavailable,
		DeploymentDetails: d,
	}

	listenerStatus, hasListener := d.statusField(fieldListenerStatus)
	scheduleStatus, hasSchedule := d.statusField(fieldScheduleStatus)
	view.IsListener = hasListener
	view.IsScheduler = hasSchedule

	switch {
	case hasListener:
		view.Status = listenerStatus
	case hasSchedule:
		view.Status = scheduleStatus
	}

	return view
}
