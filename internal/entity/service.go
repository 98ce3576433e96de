package entity

type Service struct {
	Slug      string
	Name      string
	Blurb     string
	PriceFrom int // dollars, 0 means quoted on site
}

// Services is what the quote form offers. The intake endpoint does not
// enforce membership, it only requires a non-empty service.
var Services = []Service{
	{Slug: "drain-cleaning", Name: "Drain Cleaning", Blurb: "Clogs cleared fast with pro equipment.", PriceFrom: 129},
	{Slug: "water-heater-repair", Name: "Water Heater Repair", Blurb: "Hot water restored same day.", PriceFrom: 149},
	{Slug: "water-heater-install", Name: "Water Heater Install", Blurb: "Tank & tankless options installed cleanly.", PriceFrom: 899},
	{Slug: "leak-detection", Name: "Leak Detection", Blurb: "Non-invasive detection & repair.", PriceFrom: 99},
	{Slug: "pipe-repair", Name: "Pipe Repair", Blurb: "Burst, corroded, or leaking pipes fixed.", PriceFrom: 179},
	{Slug: "sewer-line-services", Name: "Sewer Line Services", Blurb: "Camera inspections & trenchless options.", PriceFrom: 249},
	{Slug: "hydro-jetting", Name: "Hydro Jetting", Blurb: "High-pressure cleaning for stubborn blockages.", PriceFrom: 299},
	{Slug: "emergency-24-7", Name: "24/7 Emergency", Blurb: "On-call when it can't wait.", PriceFrom: 0},
}

func FindService(slug string) (Service, bool) {
	for _, s := range Services {
		if s.Slug == slug {
			return s, true
		}
	}
	return Service{}, false
}
