package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectn/stats"
)

// Summary aggregates a self-play log, from the point of view of the player
// named in the p1 column of the first game.
type Summary struct {
	P1Name, P2Name string
	P1             stats.Tally
	// WentFirst scores the side that moved first, whoever it was.
	WentFirst stats.Tally
	Plies     stats.Statistic
	Lengths   []float64
}

// Summarize reads a self-play CSV log.
func Summarize(r io.Reader) (*Summary, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6

	// Record looks like:
	// gameID,p1,p2,winner,plies,first
	s := &Summary{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		if s.P1Name == "" {
			s.P1Name, s.P2Name = record[1], record[2]
		}
		p1 := s.P1Name
		if record[1] != s.P1Name && record[2] != s.P1Name {
			return nil, fmt.Errorf("game %v does not involve %v", record[0], s.P1Name)
		}
		plies, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, err
		}
		winner, first := record[3], record[5]
		switch winner {
		case "draw":
			s.P1.Draws++
			s.WentFirst.Draws++
		case p1:
			s.P1.Wins++
		default:
			s.P1.Losses++
		}
		if winner != "draw" {
			if winner == first {
				s.WentFirst.Wins++
			} else {
				s.WentFirst.Losses++
			}
		}
		s.Plies.Push(float64(plies))
		s.Lengths = append(s.Lengths, float64(plies))
	}
	if s.P1.Games() == 0 {
		return nil, errors.New("no games in log")
	}
	return s, nil
}

func (s *Summary) String() string {
	var sb strings.Builder
	if err := s.Fprint(&sb); err != nil {
		log.Err(err).Msg("printing-summary")
	}
	return sb.String()
}

// Fprint writes the summary, histogram included, to w.
func (s *Summary) Fprint(w io.Writer) error {
	var sb strings.Builder
	games := s.P1.Games()
	lo, hi := s.P1.Interval(95)
	fmt.Fprintf(&sb, "Games played: %d\n", games)
	fmt.Fprintf(&sb, "%v wins: %d  draws: %d  losses: %d\n", s.P1Name, s.P1.Wins, s.P1.Draws, s.P1.Losses)
	fmt.Fprintf(&sb, "%v score: %.3f%% (95%% interval %.3f%% - %.3f%%)\n",
		s.P1Name, 100*s.P1.Score(), 100*lo, 100*hi)
	fmt.Fprintf(&sb, "Player who went first scores: %.1f (%.3f%%)\n",
		s.WentFirst.Points(), 100*s.WentFirst.Score())
	fmt.Fprintf(&sb, "Game length: %.3f plies  Stdev: %.3f\n", s.Plies.Mean(), s.Plies.Stdev())
	sb.WriteString("Game length histogram:\n")
	herr := stats.FprintHistogram(&sb, s.Lengths, 40)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	if herr != nil {
		return fmt.Errorf("game length histogram: %w", herr)
	}
	return nil
}

// AnalyzeLogFile analyzes the given game CSV file and spits out a bunch of
// statistics.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	s, err := Summarize(file)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := s.Fprint(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
