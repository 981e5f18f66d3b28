package time

import (
	"encoding/json"
	"time"
)

// Duration is a time.Duration that marshals to and from the
// human-readable form ("10s", "1m30s") used in config files.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var dText string
	err := json.Unmarshal(data, &dText)
	if err != nil {
		return err
	}

	dt, err := time.ParseDuration(dText)
	if err != nil {
		return err
	}

	*d = Duration(dt)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
