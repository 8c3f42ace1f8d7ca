package flightradar

// Provider JSON shapes. Fields the provider may send as null are plain values:
// a null leaves the zero value, which the normalizer treats as absent.

// AirportRef is the origin/destination block of a flight entry
type AirportRef struct {
	Name string `json:"name"`
	Code struct {
		IATA string `json:"iata"`
		ICAO string `json:"icao"`
	} `json:"code"`
	Position struct {
		Region struct {
			City string `json:"city"`
		} `json:"region"`
	} `json:"position"`
}

// TimePair holds unix-second departure/arrival timestamps
type TimePair struct {
	Departure int64 `json:"departure"`
	Arrival   int64 `json:"arrival"`
}

// FlightEntry is one movement in either the aircraft list or an airport board
type FlightEntry struct {
	Identification struct {
		ID     string `json:"id"`
		Number struct {
			Default string `json:"default"`
		} `json:"number"`
		Callsign string `json:"callsign"`
	} `json:"identification"`
	Status struct {
		Text string `json:"text"`
	} `json:"status"`
	Aircraft struct {
		Model struct {
			Code string `json:"code"`
			Text string `json:"text"`
		} `json:"model"`
		Registration string `json:"registration"`
	} `json:"aircraft"`
	Airline struct {
		Name string `json:"name"`
	} `json:"airline"`
	Airport struct {
		Origin      *AirportRef `json:"origin"`
		Destination *AirportRef `json:"destination"`
	} `json:"airport"`
	Time struct {
		Scheduled TimePair `json:"scheduled"`
		Real      TimePair `json:"real"`
		Other     struct {
			Updated  int64 `json:"updated"`
			Duration int64 `json:"duration"`
		} `json:"other"`
	} `json:"time"`
}

// FlightListResponse is the envelope of /common/v1/flight/list.json
type FlightListResponse struct {
	Result struct {
		Response *FlightList `json:"response"`
	} `json:"result"`
}

// FlightList is one page of an aircraft's movement history
type FlightList struct {
	Item struct {
		Current int `json:"current"`
		Total   int `json:"total"`
		Limit   int `json:"limit"`
	} `json:"item"`
	Page struct {
		Current int  `json:"current"`
		More    bool `json:"more"`
	} `json:"page"`
	// Data is null when the provider knows nothing about the aircraft
	Data []FlightEntry `json:"data"`
}

// AirportResponse is the envelope of /common/v1/airport.json
type AirportResponse struct {
	Result struct {
		Response *struct {
			Airport *struct {
				PluginData struct {
					Details  *AirportDetails `json:"details"`
					Schedule *struct {
						Arrivals   *ScheduleBoard `json:"arrivals"`
						Departures *ScheduleBoard `json:"departures"`
					} `json:"schedule"`
				} `json:"pluginData"`
			} `json:"airport"`
		} `json:"response"`
	} `json:"result"`
}

// AirportDetails describes the queried airport
type AirportDetails struct {
	Name string `json:"name"`
	Code struct {
		IATA string `json:"iata"`
		ICAO string `json:"icao"`
	} `json:"code"`
	Position struct {
		Region struct {
			City string `json:"city"`
		} `json:"region"`
	} `json:"position"`
}

// ScheduleBoard is one page of an airport's arrivals or departures
type ScheduleBoard struct {
	Item struct {
		Current int `json:"current"`
		Total   int `json:"total"`
		Limit   int `json:"limit"`
	} `json:"item"`
	Page struct {
		Current int `json:"current"`
		Total   int `json:"total"`
	} `json:"page"`
	Data []ScheduleItem `json:"data"`
}

// ScheduleItem wraps a board entry
type ScheduleItem struct {
	Flight FlightEntry `json:"flight"`
}
