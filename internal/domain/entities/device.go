package entities

import "time"

// MaxDevices caps how many devices are remembered per user
const MaxDevices = 20

// DeviceLocation is the coarse location a device was last seen from
type DeviceLocation struct {
	Country  string `json:"country,omitempty"`
	City     string `json:"city,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Device is a client the user has signed in from
type Device struct {
	DeviceID  string          `json:"deviceId"`
	UserAgent string          `json:"userAgent,omitempty"`
	IPAddress string          `json:"ipAddress,omitempty"`
	Location  *DeviceLocation `json:"location,omitempty"`
	LastUsed  time.Time       `json:"lastUsed"`
	IsCurrent bool            `json:"isCurrent"`
}

// DeviceInfo is what a client reports about itself
type DeviceInfo struct {
	DeviceID  string          `json:"deviceId" validate:"required,max=128"`
	UserAgent string          `json:"userAgent,omitempty" validate:"max=512"`
	IPAddress string          `json:"ipAddress,omitempty"`
	Location  *DeviceLocation `json:"location,omitempty"`
}

// RegisterDevice records a sign-in from info. A known device is refreshed, an
// unknown one is appended; either way it becomes the only current device.
func (u *User) RegisterDevice(info DeviceInfo, now time.Time) {
	found := false
	for i := range u.Devices {
		d := &u.Devices[i]
		if d.DeviceID != info.DeviceID {
			d.IsCurrent = false
			continue
		}
		found = true
		d.LastUsed = now
		d.UserAgent = info.UserAgent
		d.IPAddress = info.IPAddress
		if info.Location != nil {
			d.Location = info.Location
		}
		d.IsCurrent = true
	}

	if !found {
		u.Devices = append(u.Devices, Device{
			DeviceID:  info.DeviceID,
			UserAgent: info.UserAgent,
			IPAddress: info.IPAddress,
			Location:  info.Location,
			LastUsed:  now,
			IsCurrent: true,
		})
	}

	// drop the least recently used non-current devices
	for len(u.Devices) > MaxDevices {
		oldest := -1
		for i, d := range u.Devices {
			if d.IsCurrent {
				continue
			}
			if oldest == -1 || d.LastUsed.Before(u.Devices[oldest].LastUsed) {
				oldest = i
			}
		}
		u.Devices = append(u.Devices[:oldest], u.Devices[oldest+1:]...)
	}
}

// CurrentDevice returns the device marked current, if any
func (u *User) CurrentDevice() (Device, bool) {
	for _, d := range u.Devices {
		if d.IsCurrent {
			return d, true
		}
	}
	return Device{}, false
}
