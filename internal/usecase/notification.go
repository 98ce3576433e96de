package usecase

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/xavierca1/allinone-plumbing/internal/entity"
)

const (
	noDescription  = "No additional details provided"
	directSource   = "Direct"
	notAvailable   = "N/A"
	unknownAddress = "unknown"
)

var quoteTemplate = template.Must(template.New("quote").Parse(`New Quote Request from Website

Contact Information:
Name: {{.Name}}
Phone: {{.Phone}}
ZIP Code: {{.Zip}}

Service Details:
Service Requested: {{.Service}}
Preferred Time: {{.PreferredTime}}
Description: {{.Description}}

Tracking Information:
UTM Source: {{.UTMSource}}
UTM Campaign: {{.UTMCampaign}}
Google Click ID: {{.GCLID}}
Time to Complete Form: {{.TimeToComplete}}
Client IP: {{.ClientIP}}
Timestamp: {{.Timestamp}}
`))

var htmlPolicy = bluemonday.StrictPolicy()

type quoteView struct {
	Name           string
	Phone          string
	Zip            string
	Service        string
	PreferredTime  string
	Description    string
	UTMSource      string
	UTMCampaign    string
	GCLID          string
	TimeToComplete string
	ClientIP       string
	Timestamp      string
}

type Notification struct {
	Subject string
	Text    string
	HTML    string
}

func QuoteSubject(req entity.QuoteRequest) string {
	return fmt.Sprintf("New Quote Request - %s (%s)", req.Name, req.Service)
}

// BuildNotification renders the business-facing email for one lead. Missing
// optional fields are replaced with placeholders so the layout never changes.
func BuildNotification(req entity.QuoteRequest, clientIP string, now time.Time) (Notification, error) {
	view := quoteView{
		Name:           req.Name,
		Phone:          req.Phone,
		Zip:            req.Zip,
		Service:        req.Service,
		PreferredTime:  req.PreferredTime,
		Description:    orDefault(req.Description, noDescription),
		UTMSource:      orDefault(req.UTMSource, directSource),
		UTMCampaign:    orDefault(req.UTMCampaign, notAvailable),
		GCLID:          orDefault(req.GCLID, notAvailable),
		TimeToComplete: formatTimeToComplete(req.TimeToComplete),
		ClientIP:       orDefault(clientIP, unknownAddress),
		Timestamp:      orDefault(req.Timestamp, now.UTC().Format(entity.TimestampLayout)),
	}

	var body bytes.Buffer
	if err := quoteTemplate.Execute(&body, view); err != nil {
		return Notification{}, fmt.Errorf("render quote notification: %w", err)
	}

	text := body.String()
	return Notification{
		Subject: QuoteSubject(req),
		Text:    text,
		HTML:    strings.ReplaceAll(htmlPolicy.Sanitize(text), "\n", "<br>"),
	}, nil
}

func formatTimeToComplete(ms *float64) string {
	if ms == nil || *ms == 0 {
		return notAvailable
	}
	return fmt.Sprintf("%ds", int64(math.Round(*ms/1000)))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
