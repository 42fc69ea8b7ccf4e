package monitor

import "time"

// ProbeStatus is the outcome of one dependency check.
type ProbeStatus struct {
	Online   bool        `json:"online"`
	Required bool        `json:"required"`
	Detail   interface{} `json:"detail,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type Status struct {
	Services  map[string]ProbeStatus `json:"services"`
	LastCheck time.Time              `json:"lastCheck"`
}

// Healthy reports whether every required probe passed. A status that has
// never been refreshed is not healthy.
func (s Status) Healthy() bool {
	if s.LastCheck.IsZero() {
		return false
	}
	for _, probe := range s.Services {
		if probe.Required && !probe.Online {
			return false
		}
	}
	return true
}
