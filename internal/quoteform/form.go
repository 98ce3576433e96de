package quoteform

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/xavierca1/allinone-plumbing/internal/entity"
	"github.com/xavierca1/allinone-plumbing/internal/infra/integration/quoteapi"
	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/usecase"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// Outcome says what a single Submit call did.
type Outcome int

const (
	OutcomeInvalid Outcome = iota
	OutcomeSuppressed
	OutcomeSent
	OutcomeFailed
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeSent:
		return "sent"
	case OutcomeFailed:
		return "failed"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

const (
	successTitle   = "Quote Request Received!"
	successMessage = "We'll contact you within 15 minutes during business hours."
	errorTitle     = "Something went wrong"
	fallbackPrefix = "Please call us directly at "
)

type QuoteSubmitter interface {
	SubmitQuote(ctx context.Context, req entity.QuoteRequest) (*quoteapi.SubmitResponse, error)
}

// Fields are the values a visitor types. Website is the hidden honeypot.
type Fields struct {
	Name          string
	Phone         string
	Zip           string
	Service       string
	PreferredTime string
	Description   string
	Website       string
}

// Banner is the message shown above the form after a submission.
type Banner struct {
	Title   string
	Message string
}

// Form is the state behind one rendered quote form.
type Form struct {
	mu sync.Mutex

	fields      Fields
	status      Status
	fieldErrors map[string]string
	banner      Banner
	renderedAt  time.Time

	submitter     QuoteSubmitter
	tracker       ConversionTracker
	gate          usecase.BotGate
	businessPhone string
	adsID         string
	now           func() time.Time
	logger        *logging.Logger
}

type Option func(*Form)

func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

func WithTracker(t ConversionTracker) Option {
	return func(f *Form) { f.tracker = t }
}

func WithMinFillTime(d time.Duration) Option {
	return func(f *Form) { f.gate = usecase.NewBotGate(d) }
}

func WithGoogleAdsID(id string) Option {
	return func(f *Form) { f.adsID = id }
}

func WithLogger(l *logging.Logger) Option {
	return func(f *Form) { f.logger = l }
}

// New renders a form. The render time starts the fill-time clock.
func New(submitter QuoteSubmitter, businessPhone string, opts ...Option) *Form {
	f := &Form{
		status:        StatusIdle,
		submitter:     submitter,
		gate:          usecase.NewBotGate(0),
		businessPhone: businessPhone,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.Default()
	}
	if f.tracker == nil {
		f.tracker = NewLogConversionTracker(f.logger)
	}
	f.renderedAt = f.now()
	return f
}

func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// FieldErrors returns the inline message per failing field.
func (f *Form) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

func (f *Form) Banner() Banner {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner
}

// Submit runs validation, the bot gate and at most one network request.
// pageURL is the address the form was rendered on; attribution parameters
// are read from its query.
func (f *Form) Submit(ctx context.Context, pageURL string) Outcome {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return OutcomeIgnored
	}

	req := entity.QuoteRequest{
		Name:          f.fields.Name,
		Phone:         f.fields.Phone,
		Zip:           f.fields.Zip,
		Service:       f.fields.Service,
		PreferredTime: f.fields.PreferredTime,
		Description:   f.fields.Description,
		Website:       f.fields.Website,
	}

	if errs := usecase.ValidateQuoteRequest(req); len(errs) > 0 {
		f.fieldErrors = errs.ByField()
		f.mu.Unlock()
		return OutcomeInvalid
	}
	f.fieldErrors = nil

	now := f.now()
	elapsed := now.Sub(f.renderedAt)
	if decision := f.gate.Check(req.Website, elapsed); decision != usecase.GateAllow {
		f.mu.Unlock()
		f.logger.Debug("quote form submission dropped", "reason", decision.String())
		return OutcomeSuppressed
	}

	ms := float64(elapsed.Milliseconds())
	req.Tracking = TrackingFromURL(pageURL)
	req.TimeToComplete = &ms
	req.Timestamp = now.UTC().Format(entity.TimestampLayout)

	f.status = StatusSubmitting
	f.banner = Banner{}
	f.mu.Unlock()

	_, err := f.submitter.SubmitQuote(ctx, req)

	if err != nil {
		f.logger.Error("error submitting quote form", "error", err)
		f.mu.Lock()
		f.status = StatusError
		f.banner = Banner{Title: errorTitle, Message: fallbackPrefix + f.businessPhone}
		f.mu.Unlock()
		return OutcomeFailed
	}

	f.mu.Lock()
	f.fields = Fields{}
	f.status = StatusSuccess
	f.banner = Banner{Title: successTitle, Message: successMessage}
	f.mu.Unlock()

	f.tracker.TrackConversion(ctx, Conversion{SendTo: f.adsID, Value: 1, Currency: "USD"})
	return OutcomeSent
}

// TrackingFromURL reads the attribution parameters from a page address.
// Missing parameters and unparsable addresses yield empty strings.
func TrackingFromURL(pageURL string) entity.Tracking {
	u, err := url.Parse(pageURL)
	if err != nil {
		return entity.Tracking{}
	}
	q := u.Query()
	return entity.Tracking{
		UTMSource:   q.Get("utm_source"),
		UTMCampaign: q.Get("utm_campaign"),
		GCLID:       q.Get("gclid"),
	}
}
