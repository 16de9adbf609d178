package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TicketDetails is the payload behind the QR code on a printed ticket. The
// JSON keys are the original CinemoR wire format, kept for compatibility
// with already issued tickets.
//
// The token is self-issued and unsigned: it is a best-effort display
// artifact, not a security feature. Anyone can forge one client-side.
type TicketDetails struct {
	TicketCode string           `json:"ticketId"`
	Movie      string           `json:"film,omitempty"`
	Date       string           `json:"datum,omitempty"`
	StartTime  string           `json:"beginn,omitempty"`
	Venue      string           `json:"saal,omitempty"`
	Seats      string           `json:"sitzplaetze,omitempty"`
	Price      *decimal.Decimal `json:"preis,omitempty"`
}

// EncodeVerificationToken packs ticket details into a base64 JSON blob fit
// for a QR code query parameter.
func EncodeVerificationToken(details TicketDetails) (string, error) {
	payload, err := json.Marshal(details)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(payload), nil
}

// DecodeVerificationToken is tolerant by contract: any malformed input maps
// to ErrInvalidTicket, it never panics.
func DecodeVerificationToken(token string) (TicketDetails, error) {
	var details TicketDetails

	if token == "" {
		return details, ErrInvalidTicket
	}

	payload, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return details, ErrInvalidTicket
	}

	if err := json.Unmarshal(payload, &details); err != nil {
		return TicketDetails{}, ErrInvalidTicket
	}

	if details.TicketCode == "" {
		return TicketDetails{}, ErrInvalidTicket
	}

	return details, nil
}

var seatIDRgx = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// FormatSeatList renders seat ids grouped by row for the printed ticket,
// e.g. "Reihe A, Plätze 1–2 · Reihe B, Platz 5".
func FormatSeatList(seatIDs []string) string {
	if len(seatIDs) == 0 {
		return "—"
	}

	byRow := make(map[string][]int)

	for _, id := range seatIDs {
		row, num := "?", 0

		if m := seatIDRgx.FindStringSubmatch(id); m != nil {
			row = strings.ToUpper(m[1])
			num, _ = strconv.Atoi(m[2])
		}

		byRow[row] = append(byRow[row], num)
	}

	rows := make([]string, 0, len(byRow))
	for row := range byRow {
		rows = append(rows, row)
	}
	sort.Strings(rows)

	parts := make([]string, 0, len(rows))

	for _, row := range rows {
		nums := byRow[row]
		sort.Ints(nums)

		if len(nums) == 1 {
			parts = append(parts, fmt.Sprintf("Reihe %s, Platz %d", row, nums[0]))
		} else {
			parts = append(parts, fmt.Sprintf("Reihe %s, Plätze %d–%d", row, nums[0], nums[len(nums)-1]))
		}
	}

	return strings.Join(parts, " · ")
}
