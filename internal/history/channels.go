package history

import "snowcore/internal/models"

// Channel identifies one of the five sensor channels an asset may report.
type Channel string

const (
	ChannelTemperature Channel = "temperature"
	ChannelHumidity    Channel = "humidity"
	ChannelPressure    Channel = "pressure"
	ChannelVibration   Channel = "vibration"
	ChannelVacuum      Channel = "vacuum"
)

// Channels lists all channels in display order.
var Channels = []Channel{
	ChannelTemperature,
	ChannelHumidity,
	ChannelPressure,
	ChannelVibration,
	ChannelVacuum,
}

// ChannelMeta carries the display attributes for one channel.
type ChannelMeta struct {
	Label string `json:"label"`
	Unit  string `json:"unit"`
	Color string `json:"color"`
	// Precision is the decimal precision for the highlighted latest value.
	Precision int `json:"precision"`
}

var channelMeta = map[Channel]ChannelMeta{
	ChannelTemperature: {Label: "Temperature", Unit: "°C", Color: "#ef4444", Precision: 1},
	ChannelHumidity:    {Label: "Humidity", Unit: "%", Color: "#3b82f6", Precision: 1},
	ChannelPressure:    {Label: "Pressure", Unit: "PSI", Color: "#f59e0b", Precision: 1},
	ChannelVibration:   {Label: "Vibration", Unit: "G", Color: "#22c55e", Precision: 2},
	ChannelVacuum:      {Label: "Vacuum", Unit: "mbar", Color: "#8b5cf6", Precision: 1},
}

func Meta(ch Channel) ChannelMeta {
	return channelMeta[ch]
}

// ChannelValue extracts the channel's reading, nil when the asset does not
// report it.
func ChannelValue(r models.SensorReading, ch Channel) *float64 {
	switch ch {
	case ChannelTemperature:
		return r.TemperatureC
	case ChannelHumidity:
		return r.HumidityPct
	case ChannelPressure:
		return r.PressurePSI
	case ChannelVibration:
		return r.VibrationG
	case ChannelVacuum:
		return r.VacuumMbar
	}
	return nil
}

// ParseChannel maps a query-string token to a channel.
func ParseChannel(s string) (Channel, bool) {
	for _, ch := range Channels {
		if string(ch) == s {
			return ch, true
		}
	}
	return "", false
}
