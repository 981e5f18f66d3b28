package model

// Action is the remote API's device state verb. The set is open:
// verbs other than the known ones render as-is.
type Action string

const (
	ActionStarted Action = "STARTED"
	ActionStopped Action = "STOPPED"
	ActionUnknown Action = "UNKNOWN"
)

// Device is a remote-owned record, fetched per render and never stored.
type Device struct {
	ID    string `json:"id"`
	Label string `json:"device_label,omitempty"`
}

// DisplayName returns the label when present, otherwise the id.
func (d Device) DisplayName() string {
	if d.Label != "" {
		return d.Label
	}

	return d.ID
}

// DeviceStatus pairs a device id with its last reported action.
type DeviceStatus struct {
	ID     string `json:"id"`
	Action Action `json:"action"`
}

// DeviceRow is one row of the rendered device list.
type DeviceRow struct {
	ID          string
	DisplayName string
	Status      Action
}

// StartDisabled reports whether the start control should be inert.
func (r DeviceRow) StartDisabled() bool { return r.Status == ActionStarted }

// StopDisabled reports whether the stop control should be inert.
func (r DeviceRow) StopDisabled() bool { return r.Status == ActionStopped }

// JoinStatuses joins devices with statuses by id. A device without a
// matching status gets ActionUnknown. Row order follows the device
// list.
func JoinStatuses(devices []Device, statuses []DeviceStatus) []DeviceRow {
	actions := make(map[string]Action, len(statuses))
	for _, status := range statuses {
		actions[status.ID] = status.Action
	}

	rows := make([]DeviceRow, 0, len(devices))
	for _, device := range devices {
		action, ok := actions[device.ID]
		if !ok || action == "" {
			action = ActionUnknown
		}

		rows = append(rows, DeviceRow{
			ID:          device.ID,
			DisplayName: device.DisplayName(),
			Status:      action,
		})
	}

	return rows
}
