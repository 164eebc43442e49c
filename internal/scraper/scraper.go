// Package scraper fetches published game summary sheets and extracts the
// fields the ingest pipeline stores. The sheets are loosely formatted HTML:
// labelled text lines for the game header and per-team penalty tables, so
// extraction is a mix of regexp matching over the page text and table
// traversal.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrGameNotFound means the requested game id does not resolve to a game
// sheet. The upstream serves a placeholder page instead of a 404.
var ErrGameNotFound = errors.New("scraper: game not found")

// ScrapedPenalty is one row of a penalty table, kept as published.
type ScrapedPenalty struct {
	Period  string
	Minutes int
	Offence string
}

// ScrapedGame is everything extracted from one game sheet.
type ScrapedGame struct {
	ExternalID    int64
	Date          string // as published, e.g. "Jan 2, 2026"
	Location      string
	HomeTeam      string
	AwayTeam      string
	StartTime     string // "7:05 PM", empty if absent
	EndTime       string
	Referees      []string
	Linespeople   []string
	HomePenalties []ScrapedPenalty
	AwayPenalties []ScrapedPenalty
}

var (
	dateRe     = regexp.MustCompile(`Date:\s*([^\n]+)`)
	locationRe = regexp.MustCompile(`PLAYED AT:\s*([^\n]+)`)
	homeRe     = regexp.MustCompile(`Home Team:\s*([^\n]+)`)
	awayRe     = regexp.MustCompile(`Visiting Team:\s*([^\n]+)`)
	startRe    = regexp.MustCompile(`Start:\s*(\d{1,2}:\d{2}\s*[AP]M)`)
	endRe      = regexp.MustCompile(`End:\s*(\d{1,2}:\d{2}\s*[AP]M)`)
	refereeRe  = regexp.MustCompile(`Referees?:\s*([^\n]+)`)
	linesRe    = regexp.MustCompile(`Lines(?:man|men|persons?):\s*([^\n]+)`)

	// Sweater numbers trail names on the sheet: "Jane Doe (44)".
	numberRe = regexp.MustCompile(`\s*\(\d+\)\s*`)
)

// Client fetches and parses game sheets.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for the given sheet base URL. Game sheets are fetched
// from baseURL with the numeric game id appended.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads and parses the sheet for one game id. A placeholder page
// (no game header) yields ErrGameNotFound.
func (c *Client) Fetch(ctx context.Context, id int64) (*ScrapedGame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("scraper.Fetch: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper.Fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrGameNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper.Fetch: unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("scraper.Fetch: parse: %w", err)
	}
	return Parse(doc, id)
}

// Parse extracts a ScrapedGame from an already-loaded sheet document.
func Parse(doc *goquery.Document, id int64) (*ScrapedGame, error) {
	text := doc.Text()

	game := &ScrapedGame{
		ExternalID: id,
		Date:       firstMatch(dateRe, text),
		Location:   firstMatch(locationRe, text),
		HomeTeam:   firstMatch(homeRe, text),
		AwayTeam:   firstMatch(awayRe, text),
		StartTime:  firstMatch(startRe, text),
		EndTime:    firstMatch(endRe, text),
	}

	// A sheet with no date and no teams is the upstream "no such game"
	// placeholder.
	if game.Date == "" && game.HomeTeam == "" && game.AwayTeam == "" {
		return nil, ErrGameNotFound
	}
	if game.Date == "" || game.HomeTeam == "" || game.AwayTeam == "" {
		return nil, fmt.Errorf("scraper.Parse: incomplete game header for id %d", id)
	}

	game.Referees = splitNames(firstMatch(refereeRe, text))
	game.Linespeople = splitNames(firstMatch(linesRe, text))

	game.HomePenalties, game.AwayPenalties = parsePenalties(doc, game.HomeTeam, game.AwayTeam)
	return game, nil
}

func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// splitNames splits a comma-separated official list and strips trailing
// sweater numbers.
func splitNames(raw string) []string {
	if raw == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(numberRe.ReplaceAllString(part, " "))
		name = strings.Join(strings.Fields(name), " ")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parsePenalties walks the bolded "... PENALTIES" table headers and assigns
// each table to the side whose team name prefixes the header text.
func parsePenalties(doc *goquery.Document, homeTeam, awayTeam string) (home, away []ScrapedPenalty) {
	doc.Find("b").Each(func(_ int, header *goquery.Selection) {
		title := strings.TrimSpace(header.Text())
		if !strings.Contains(strings.ToUpper(title), "PENALTIES") {
			return
		}

		table := header.Closest("table")
		if table.Length() == 0 {
			table = header.Parent().Find("table").First()
		}
		rows := parsePenaltyRows(table)

		switch {
		case matchesTeam(title, homeTeam):
			home = append(home, rows...)
		case matchesTeam(title, awayTeam):
			away = append(away, rows...)
		}
	})
	return home, away
}

// matchesTeam reports whether the table header names the given team. Headers
// read like "BANDITS PENALTIES", usually a prefix of the full team name.
func matchesTeam(header, team string) bool {
	h := strings.ToUpper(strings.TrimSpace(strings.TrimSuffix(strings.ToUpper(header), "PENALTIES")))
	t := strings.ToUpper(team)
	if h == "" || t == "" {
		return false
	}
	return strings.HasPrefix(t, h) || strings.HasPrefix(h, t)
}

// parsePenaltyRows reads the data rows of a penalty table: period, player,
// minutes, offence. Header rows and malformed rows are skipped.
func parsePenaltyRows(table *goquery.Selection) []ScrapedPenalty {
	var penalties []ScrapedPenalty
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(cells.Eq(2).Text()))
		if err != nil {
			return
		}
		period := strings.TrimSpace(cells.Eq(0).Text())
		offence := strings.TrimSpace(cells.Eq(3).Text())
		if offence == "" {
			return
		}
		penalties = append(penalties, ScrapedPenalty{
			Period:  period,
			Minutes: minutes,
			Offence: offence,
		})
	})
	return penalties
}
