// Package pgn renders a finished or in-progress game as PGN text.
package pgn

import (
	"fmt"
	"strings"
	"time"
)

// Game carries everything a PGN export needs.
type Game struct {
	Event    string
	Site     string
	White    string
	Black    string
	Date     time.Time
	MovesSAN []string

	// Result is "white", "black", "draw", or anything else for an
	// unfinished game. Termination is optional free text ("checkmate",
	// "resigned", ...).
	Result      string
	Termination string
}

// Build renders the seven-tag-roster headers followed by the numbered
// movetext and the result marker.
func Build(g Game) string {
	result := resultTag(g.Result)
	date := g.Date
	if date.IsZero() {
		date = time.Now()
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[Event \"%s\"]\n", sanitize(orDefault(g.Event, "Casual Game"))))
	b.WriteString(fmt.Sprintf("[Site \"%s\"]\n", sanitize(orDefault(g.Site, "?"))))
	b.WriteString(fmt.Sprintf("[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day()))
	b.WriteString(fmt.Sprintf("[White \"%s\"]\n", sanitize(orDefault(g.White, "?"))))
	b.WriteString(fmt.Sprintf("[Black \"%s\"]\n", sanitize(orDefault(g.Black, "?"))))
	if strings.TrimSpace(g.Termination) != "" {
		b.WriteString(fmt.Sprintf("[Termination \"%s\"]\n", sanitize(strings.ToLower(g.Termination))))
	}
	b.WriteString(fmt.Sprintf("[Result \"%s\"]\n\n", result))

	for i := 0; i < len(g.MovesSAN); i += 2 {
		turn := (i / 2) + 1
		b.WriteString(fmt.Sprintf("%d. %s", turn, strings.TrimSpace(g.MovesSAN[i])))
		if i+1 < len(g.MovesSAN) {
			b.WriteString(" ")
			b.WriteString(strings.TrimSpace(g.MovesSAN[i+1]))
		}
		b.WriteString(" ")
	}
	b.WriteString(result)
	return b.String()
}

func resultTag(result string) string {
	switch strings.ToLower(strings.TrimSpace(result)) {
	case "white", "white_won":
		return "1-0"
	case "black", "black_won":
		return "0-1"
	case "draw":
		return "1/2-1/2"
	default:
		return "*"
	}
}

func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
