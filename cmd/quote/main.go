package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/xavierca1/allinone-plumbing/internal/config"
	"github.com/xavierca1/allinone-plumbing/internal/entity"
	"github.com/xavierca1/allinone-plumbing/internal/infra/integration/quoteapi"
	"github.com/xavierca1/allinone-plumbing/internal/infra/logging"
	"github.com/xavierca1/allinone-plumbing/internal/quoteform"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}
	cfg := config.Load()

	endpoint := flag.String("endpoint", cfg.QuoteAPIURL, "quote intake endpoint")
	pageURL := flag.String("page", "https://allinone-plumbing.com/", "page address carrying utm_source, utm_campaign and gclid")
	flag.Parse()

	logger := logging.New("warn")
	form := quoteform.New(quoteapi.NewClient(*endpoint), cfg.BusinessPhone,
		quoteform.WithMinFillTime(cfg.QuoteMinFillTime),
		quoteform.WithGoogleAdsID(cfg.GoogleAdsID),
		quoteform.WithLogger(logger),
	)

	in := bufio.NewReader(os.Stdin)
	fmt.Println("All In One Plumbing - free quote")
	fmt.Println()

	fields := quoteform.Fields{}
	for {
		var err error
		fields, err = promptFields(in, os.Stdout, fields, form.FieldErrors())
		if err != nil {
			fmt.Fprintf(os.Stderr, "\nquote not sent: %v\n", err)
			os.Exit(1)
		}
		form.SetFields(fields)

		switch form.Submit(context.Background(), *pageURL) {
		case quoteform.OutcomeInvalid:
			fmt.Println("\nPlease fix the highlighted fields.")
			continue
		case quoteform.OutcomeSuppressed:
			// Looks like a bot: leave without a word, same as the web form.
			return
		}

		banner := form.Banner()
		fmt.Printf("\n%s\n%s\n", banner.Title, banner.Message)
		if form.Status() == quoteform.StatusError {
			os.Exit(1)
		}
		return
	}
}

// promptFields asks for every field that is empty or failed validation,
// keeping the values that passed. It returns io.EOF once input runs out
// before a required field is answered.
func promptFields(in *bufio.Reader, out io.Writer, current quoteform.Fields, errs map[string]string) (quoteform.Fields, error) {
	var readErr error
	ask := func(field, label, value string) string {
		if readErr != nil {
			return value
		}
		if value != "" {
			if _, failed := errs[field]; !failed {
				return value
			}
		}
		if msg, ok := errs[field]; ok {
			fmt.Fprintf(out, "  ! %s\n", msg)
		}
		fmt.Fprintf(out, "%s: ", label)
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			readErr = err
		}
		return strings.TrimSpace(line)
	}

	current.Name = ask("name", "Name", current.Name)
	current.Phone = ask("phone", "Phone", current.Phone)
	current.Zip = ask("zip", "ZIP code", current.Zip)

	if readErr == nil && (current.Service == "" || errs["service"] != "") {
		for i, s := range entity.Services {
			fmt.Fprintf(out, "  %d) %s\n", i+1, s.Name)
		}
		current.Service = pick(ask("service", "Service (number)", ""), func(i int) (string, bool) {
			if i < 1 || i > len(entity.Services) {
				return "", false
			}
			return entity.Services[i-1].Slug, true
		})
		if s, ok := entity.FindService(current.Service); ok && s.PriceFrom > 0 {
			fmt.Fprintf(out, "  %s starts from $%d\n", s.Name, s.PriceFrom)
		}
	}

	if readErr == nil && (current.PreferredTime == "" || errs["preferredTime"] != "") {
		for i, p := range entity.PreferredTimes {
			fmt.Fprintf(out, "  %d) %s\n", i+1, p.Label())
		}
		current.PreferredTime = pick(ask("preferredTime", "Preferred time (number)", ""), func(i int) (string, bool) {
			if i < 1 || i > len(entity.PreferredTimes) {
				return "", false
			}
			return string(entity.PreferredTimes[i-1]), true
		})
	}
	if readErr != nil {
		return current, readErr
	}

	if current.Description == "" {
		fmt.Fprint(out, "Describe the problem (optional): ")
		line, err := in.ReadString('\n')
		// the description may be left out entirely
		if err != nil && !errors.Is(err, io.EOF) {
			return current, err
		}
		current.Description = strings.TrimSpace(line)
	}

	return current, nil
}

func pick(answer string, lookup func(int) (string, bool)) string {
	n, err := strconv.Atoi(answer)
	if err != nil {
		return ""
	}
	value, _ := lookup(n)
	return value
}
