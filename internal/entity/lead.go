package entity

// QuoteRequest is a lead submitted through the quote form. It only lives for
// the duration of one request: it is validated, turned into a notification
// and dropped.
type QuoteRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Zip           string `json:"zip"`
	Service       string `json:"service"`
	PreferredTime string `json:"preferredTime"`
	Description   string `json:"description,omitempty"`

	// Website is the honeypot. Humans never see the input, so anything in
	// it came from a bot.
	Website string `json:"website"`

	Tracking
}

// Tracking is attached by the client, never typed by the visitor.
type Tracking struct {
	UTMSource   string `json:"utm_source"`
	UTMCampaign string `json:"utm_campaign"`
	GCLID       string `json:"gclid"`

	// TimeToComplete is in milliseconds.
	TimeToComplete *float64 `json:"timeToComplete,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
}

// TimestampLayout matches JavaScript's Date.prototype.toISOString.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type PreferredTime string

const (
	PreferredMorning   PreferredTime = "morning"
	PreferredAfternoon PreferredTime = "afternoon"
	PreferredEvening   PreferredTime = "evening"
	PreferredASAP      PreferredTime = "asap"
)

var PreferredTimes = []PreferredTime{
	PreferredMorning,
	PreferredAfternoon,
	PreferredEvening,
	PreferredASAP,
}

func (p PreferredTime) Label() string {
	switch p {
	case PreferredMorning:
		return "Morning (8 AM - 12 PM)"
	case PreferredAfternoon:
		return "Afternoon (12 PM - 5 PM)"
	case PreferredEvening:
		return "Evening (5 PM - 8 PM)"
	case PreferredASAP:
		return "As soon as possible"
	default:
		return string(p)
	}
}
